// Package smooth provides one-pole smoothing for control values.
//
// A [Control] moves a delay read-head or gain toward its target a little on
// every sample so that operator input never produces an audible step.
package smooth

import "math"

// Coefficient returns the one-pole coefficient 1 - exp(-1/(sampleRate*tau))
// for a time constant tau in seconds. It returns 0 when either argument is
// not positive; a zero coefficient marks a control that is not initialized.
func Coefficient(sampleRate, tau float64) float32 {
	if sampleRate <= 0 || tau <= 0 || math.IsNaN(sampleRate) || math.IsNaN(tau) {
		return 0
	}

	c := float32(1 - math.Exp(-1/(sampleRate*tau)))
	if c <= 0 {
		return math.SmallestNonzeroFloat32
	}
	if c >= 1 {
		return math.Nextafter32(1, 0)
	}
	return c
}

// Control is a smoothed control value: current converges to target
// exponentially, one step per Next call.
type Control struct {
	target      float32
	current     float32
	coefficient float32
}

// Init sets the coefficient from the sample rate and time constant. The
// current value is left where it is.
func (c *Control) Init(sampleRate, tau float64) {
	c.coefficient = Coefficient(sampleRate, tau)
}

// Ready reports whether Init has been called with a valid sample rate.
func (c *Control) Ready() bool {
	return c.coefficient > 0
}

// SetTarget sets the value current moves toward.
func (c *Control) SetTarget(v float32) {
	c.target = v
}

// Target returns the value current moves toward.
func (c *Control) Target() float32 { return c.target }

// Current returns the smoothed value without advancing it.
func (c *Control) Current() float32 { return c.current }

// Coeff returns the per-sample smoothing coefficient.
func (c *Control) Coeff() float32 { return c.coefficient }

// Next advances one sample and returns the new current value. An
// uninitialized control does not move.
func (c *Control) Next() float32 {
	c.current += c.coefficient * (c.target - c.current)
	return c.current
}

// Snap jumps current to target.
func (c *Control) Snap() {
	c.current = c.target
}

// Reset sets target and current to v.
func (c *Control) Reset(v float32) {
	c.target = v
	c.current = v
}
