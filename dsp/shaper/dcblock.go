package shaper

import "github.com/cwbudde/fission/dsp/core"

// dcBlockPole is the feedback coefficient of the DC blocker.
const dcBlockPole = 0.995

// DCBlocker is the one-pole highpass y = x - xPrev + 0.995*yPrev.
type DCBlocker struct {
	prevIn  float32
	prevOut float32
}

// Process filters one sample.
func (d *DCBlocker) Process(x float32) float32 {
	y := x - d.prevIn + dcBlockPole*d.prevOut
	d.prevIn = x
	y = core.FlushDenormals32(y)
	d.prevOut = y
	return y
}

// Reset clears the blocker state.
func (d *DCBlocker) Reset() {
	d.prevIn = 0
	d.prevOut = 0
}
