package shaper

// Factor is the oversampling ratio.
const Factor = 4

// Upsample4 interpolates linearly from prev to x at the 25/50/75/100% marks.
// The last tap equals x exactly.
func Upsample4(prev, x float32) [Factor]float32 {
	d := x - prev
	return [Factor]float32{
		prev + 0.25*d,
		prev + 0.5*d,
		prev + 0.75*d,
		x,
	}
}

// Downsample4 averages four taps back to one sample.
func Downsample4(taps [Factor]float32) float32 {
	return (taps[0] + taps[1] + taps[2] + taps[3]) * 0.25
}
