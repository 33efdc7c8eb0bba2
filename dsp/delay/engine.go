package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/fission/dsp/core"
	"github.com/cwbudde/fission/dsp/smooth"
)

// Policy selects how the stereo delay engine picks the delayed channel.
type Policy int

const (
	// PolicySigned runs one ring per channel. The sign of the raw delay
	// target picks the delayed channel: negative delays left, positive
	// delays right. Both rings are written every sample so a sign flip
	// never reads stale history.
	PolicySigned Policy = iota
	// PolicySignedShared runs a single ring fed from the selected channel.
	// The sign of the target picks the channel; the magnitude is smoothed.
	PolicySignedShared
	// PolicySelector is PolicySignedShared with the channel chosen by a
	// separate selector control. Zero or negative delay means dry.
	PolicySelector
	// PolicySmoothedSigned is PolicySigned driven by the smoothed signed
	// value, so the delay glides through zero between channels.
	PolicySmoothedSigned
)

// DryThresholdMs is the magnitude below which a delay counts as zero.
const DryThresholdMs = 0.001

func (p Policy) String() string {
	switch p {
	case PolicySigned:
		return "signed"
	case PolicySignedShared:
		return "signed-shared"
	case PolicySelector:
		return "selector"
	case PolicySmoothedSigned:
		return "smoothed-signed"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

func (p Policy) valid() bool {
	return p >= PolicySigned && p <= PolicySmoothedSigned
}

// Side identifies the channel of the stereo pair that is delayed.
type Side int

const (
	SideNone Side = iota
	SideLeft
	SideRight
)

// Engine is a stereo delay built on Ring with a selectable routing policy.
//
// Process is allocation-free and runs on the render goroutine only.
type Engine struct {
	policy     Policy
	sampleRate float64

	left, right Ring // right is unused by the shared policies
	ms          smooth.Control

	source   Side // channel feeding the shared ring
	active   Side
	delaySmp int
}

// NewEngine returns an engine with no storage. Call Initialize before use.
func NewEngine(policy Policy) (*Engine, error) {
	if !policy.valid() {
		return nil, fmt.Errorf("delay policy is invalid: %d", policy)
	}
	return &Engine{policy: policy, source: SideLeft}, nil
}

// Policy returns the routing policy.
func (e *Engine) Policy() Policy { return e.policy }

// Initialize allocates the rings for maxDelaySeconds at sampleRate and sets
// the smoothing time constant.
func (e *Engine) Initialize(sampleRate, maxDelaySeconds, smoothingSeconds float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("delay sample rate must be > 0: %f", sampleRate)
	}
	if maxDelaySeconds <= 0 || math.IsNaN(maxDelaySeconds) || math.IsInf(maxDelaySeconds, 0) {
		return fmt.Errorf("delay max time must be > 0: %f", maxDelaySeconds)
	}

	capacity := CapacityFor(sampleRate, maxDelaySeconds)
	if err := e.left.Allocate(capacity); err != nil {
		return err
	}
	if e.dual() {
		if err := e.right.Allocate(capacity); err != nil {
			return err
		}
	} else {
		e.right.Release()
	}

	e.sampleRate = sampleRate
	e.ms.Init(sampleRate, smoothingSeconds)
	e.ms.Reset(0)
	e.source = SideLeft
	e.active = SideNone
	e.delaySmp = 0
	return nil
}

// Release frees the ring storage. Process passes audio through afterwards.
func (e *Engine) Release() {
	e.left.Release()
	e.right.Release()
	e.sampleRate = 0
}

// Capacity returns the ring capacity in samples, or 0 when uninitialized.
func (e *Engine) Capacity() int { return e.left.Len() }

// Snap jumps the smoothed delay straight to the value implied by the given
// targets, as if it had fully converged.
func (e *Engine) Snap(delayMs, channel float32) {
	e.ms.Reset(e.smoothingTarget(delayMs))
	e.source = e.selectSide(delayMs, channel, e.source)
}

// Reset clears the rings and snaps the smoothed delay to the targets.
func (e *Engine) Reset(delayMs, channel float32) {
	e.left.Reset()
	e.right.Reset()
	e.active = SideNone
	e.delaySmp = 0
	e.Snap(delayMs, channel)
}

// Smoothed returns the smoothed control value in ms: signed for
// PolicySmoothedSigned, a magnitude for the shared policies and the raw
// target for PolicySigned.
func (e *Engine) Smoothed() float32 { return e.ms.Current() }

// Active returns the channel delayed on the most recent sample.
func (e *Engine) Active() Side { return e.active }

// DelaySamples returns the delay applied on the most recent sample.
func (e *Engine) DelaySamples() int { return e.delaySmp }

// Process runs one stereo frame. delayMs is the delay target in ms and
// channel the selector target (only read by PolicySelector).
func (e *Engine) Process(inL, inR, delayMs, channel float32) (float32, float32) {
	if e.left.Len() == 0 {
		return inL, inR
	}

	switch e.policy {
	case PolicySigned:
		e.ms.Reset(delayMs)
		return e.processDual(inL, inR, delayMs)
	case PolicySmoothedSigned:
		e.ms.SetTarget(delayMs)
		return e.processDual(inL, inR, e.ms.Next())
	default:
		return e.processShared(inL, inR, delayMs, channel)
	}
}

func (e *Engine) processDual(inL, inR, ms float32) (float32, float32) {
	e.delaySmp = e.left.Clamp(core.MsToSamples(float64(ms), e.sampleRate))
	delayedL := e.left.Tick(inL, e.delaySmp)
	delayedR := e.right.Tick(inR, e.delaySmp)

	switch {
	case ms > DryThresholdMs:
		e.active = SideRight
		return inL, delayedR
	case ms < -DryThresholdMs:
		e.active = SideLeft
		return delayedL, inR
	default:
		e.active = SideNone
		return inL, inR
	}
}

func (e *Engine) processShared(inL, inR, delayMs, channel float32) (float32, float32) {
	e.ms.SetTarget(e.smoothingTarget(delayMs))
	magnitude := e.ms.Next()
	e.source = e.selectSide(delayMs, channel, e.source)

	in := inL
	if e.source == SideRight {
		in = inR
	}
	e.delaySmp = e.left.Clamp(core.MsToSamples(float64(magnitude), e.sampleRate))
	delayed := e.left.Tick(in, e.delaySmp)

	if magnitude < DryThresholdMs {
		e.active = SideNone
		return inL, inR
	}

	e.active = e.source
	if e.source == SideRight {
		return inL, delayed
	}
	return delayed, inR
}

// smoothingTarget maps the raw delay target onto the value the policy
// smooths.
func (e *Engine) smoothingTarget(delayMs float32) float32 {
	switch e.policy {
	case PolicySignedShared:
		if delayMs < 0 {
			return -delayMs
		}
		return delayMs
	case PolicySelector:
		if delayMs < 0 {
			return 0
		}
		return delayMs
	default:
		return delayMs
	}
}

// selectSide returns the channel feeding the shared ring. Near-zero signed
// targets keep the previous channel so the ring keeps its history while the
// magnitude glides down.
func (e *Engine) selectSide(delayMs, channel float32, prev Side) Side {
	switch e.policy {
	case PolicySelector:
		if channel >= 0.5 {
			return SideRight
		}
		return SideLeft
	case PolicySignedShared:
		switch {
		case delayMs > DryThresholdMs:
			return SideRight
		case delayMs < -DryThresholdMs:
			return SideLeft
		}
	}
	return prev
}

func (e *Engine) dual() bool {
	return e.policy == PolicySigned || e.policy == PolicySmoothedSigned
}
