package shaper

const (
	basePositiveThreshold = 0.70
	baseNegativeThreshold = 0.80
	thresholdPerDrive     = 0.6
	minThreshold          = 0.05
	makeupPerGain         = 0.2
)

// Thresholds are the clip points of the asymmetric clipper. Neg is a
// magnitude: values below -Neg clip to -Neg.
type Thresholds struct {
	Pos, Neg float32
}

// Drive derives the clipping drive from a linear gain: max(0, (gain-1)/2).
func Drive(gain float32) float32 {
	d := (gain - 1) * 0.5
	if d < 0 || d != d {
		return 0
	}
	return d
}

// ThresholdsFor returns the thresholds for a gain. Both shrink from their
// 0.70 / 0.80 baselines by 0.6 per unit of drive and never go below 0.05.
func ThresholdsFor(gain float32) Thresholds {
	shrink := Drive(gain) * thresholdPerDrive
	th := Thresholds{
		Pos: basePositiveThreshold - shrink,
		Neg: baseNegativeThreshold - shrink,
	}
	if th.Pos < minThreshold {
		th.Pos = minThreshold
	}
	if th.Neg < minThreshold {
		th.Neg = minThreshold
	}
	return th
}

// Clip hard-clips x to [-th.Neg, th.Pos]. Values inside pass unchanged.
func Clip(x float32, th Thresholds) float32 {
	if x > th.Pos {
		return th.Pos
	}
	if x < -th.Neg {
		return -th.Neg
	}
	return x
}

// Makeup returns the level compensation 1 + (gain-1)*0.2.
func Makeup(gain float32) float32 {
	return 1 + (gain-1)*makeupPerGain
}
