package kernel

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/fission/dsp/core"
	"github.com/cwbudde/fission/dsp/param"
)

// ErrInvalidChannels is returned by Initialize for unsupported channel
// counts.
var ErrInvalidChannels = errors.New("invalid channel count")

// Kernel is the host-facing contract of a render kernel.
//
// Initialize and DeInitialize run off the render path. SetParameter,
// SetBypass and their getters may be called from any goroutine. Process
// and ProcessRange run on the render goroutine only.
type Kernel interface {
	Initialize(inputChannels, outputChannels int, sampleRate float64) error
	DeInitialize()

	SetMaximumFramesToRender(n uint32)
	MaximumFramesToRender() uint32

	SetParameter(address param.Address, value float32)
	Parameter(address param.Address) float32
	IsBypassed() bool
	SetBypass(bypassed bool)
	Params() []param.Spec
	// ResetParameters restores every parameter, bypass included, to its
	// default.
	ResetParameters()

	// Process renders frameCount frames of a block whose first frame is at
	// sample time blockStart.
	Process(in, out [][]float32, blockStart int64, frameCount int)
	// ProcessRange renders frames [start, end) of already clamped buffers.
	ProcessRange(in, out [][]float32, start, end int)
}

// FrameCount clamps frameCount to maxFrames and to the length of every
// buffer in in and out.
func FrameCount(in, out [][]float32, frameCount int, maxFrames uint32) int {
	n := frameCount
	if n <= 0 {
		return 0
	}
	if uint64(n) > uint64(maxFrames) {
		n = int(maxFrames)
	}
	for _, buf := range in {
		n = min(n, len(buf))
	}
	for _, buf := range out {
		n = min(n, len(buf))
	}
	return n
}

// Render runs one host block through k, applying each event right before
// the first frame it affects. Events must be ordered by SampleTime; late
// events apply at the start of the block.
func Render(k Kernel, in, out [][]float32, blockStart int64, frameCount int, events []param.Event) {
	n := FrameCount(in, out, frameCount, k.MaximumFramesToRender())

	cursor := 0
	for _, ev := range events {
		if off := ev.Offset(blockStart, n); off > cursor {
			k.ProcessRange(in, out, cursor, off)
			cursor = off
		}
		k.SetParameter(ev.Address, ev.Value)
	}
	if cursor < n {
		k.ProcessRange(in, out, cursor, n)
	}
}

// CopyThrough writes frames [start, end) of each output channel from input
// channel min(ch, len(in)-1). Outputs are untouched when there is no input.
func CopyThrough(in, out [][]float32, start, end int) {
	if len(in) == 0 || end <= start {
		return
	}
	for ch := range out {
		src := in[core.SourceChannel(ch, len(in))]
		copy(out[ch][start:end], src[start:end])
	}
}

// base carries the state and host plumbing shared by every kernel.
type base struct {
	cfg    core.KernelConfig
	params *param.Store

	sampleRate  float64
	inputs      int
	outputs     int
	maxFrames   uint32
	initialized bool
}

func newBase(cfg core.KernelConfig, specs ...param.Spec) base {
	return base{
		cfg:       cfg,
		params:    param.NewStore(specs...),
		maxFrames: cfg.MaxFrames,
	}
}

func (b *base) validate(inputs, outputs int, sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("kernel sample rate must be > 0: %f", sampleRate)
	}
	if inputs < 1 || outputs < 1 || inputs > b.cfg.MaxChannels || outputs > b.cfg.MaxChannels {
		return fmt.Errorf("%w: in=%d out=%d (max %d)", ErrInvalidChannels, inputs, outputs, b.cfg.MaxChannels)
	}
	return nil
}

func (b *base) markInitialized(inputs, outputs int, sampleRate float64) {
	b.inputs = inputs
	b.outputs = outputs
	b.sampleRate = sampleRate
	b.initialized = true
}

func (b *base) markReleased() {
	b.initialized = false
	b.sampleRate = 0
}

// SetMaximumFramesToRender sets the largest block Process accepts. Zero is
// ignored.
func (b *base) SetMaximumFramesToRender(n uint32) {
	if n > 0 {
		b.maxFrames = n
	}
}

// MaximumFramesToRender returns the largest block Process accepts.
func (b *base) MaximumFramesToRender() uint32 { return b.maxFrames }

// SetParameter sets the target of a parameter. Unknown addresses and
// non-finite values are ignored.
func (b *base) SetParameter(address param.Address, value float32) {
	b.params.Set(address, value)
}

// Parameter returns the target of a parameter, never the smoothed value.
func (b *base) Parameter(address param.Address) float32 {
	return b.params.Get(address)
}

// IsBypassed reports whether the kernel copies input to output.
func (b *base) IsBypassed() bool { return b.params.Bypassed() }

// SetBypass engages or releases bypass.
func (b *base) SetBypass(bypassed bool) { b.params.SetBypassed(bypassed) }

// Params describes the kernel's parameters.
func (b *base) Params() []param.Spec { return b.params.Specs() }

// ResetParameters restores every parameter target to its default. Smoothed
// values glide to the new targets.
func (b *base) ResetParameters() { b.params.Reset() }

// SampleRate returns the rate passed to Initialize, or 0.
func (b *base) SampleRate() float64 { return b.sampleRate }

// Initialized reports whether the kernel has storage to render with.
func (b *base) Initialized() bool { return b.initialized }

// Config returns the construction-time settings.
func (b *base) Config() core.KernelConfig { return b.cfg }
