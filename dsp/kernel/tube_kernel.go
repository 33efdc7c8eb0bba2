package kernel

import (
	"fmt"

	"github.com/cwbudde/fission/dsp/core"
	"github.com/cwbudde/fission/dsp/filter/biquad"
	"github.com/cwbudde/fission/dsp/filter/design"
	"github.com/cwbudde/fission/dsp/param"
	"github.com/cwbudde/fission/dsp/shaper"
	"github.com/cwbudde/fission/dsp/smooth"
)

// TubeKernel is the tube saturator: a high-pass pre-filter, a smoothed
// drive gain and the oversampled asymmetric waveshaper, on every channel.
type TubeKernel struct {
	base

	filter   *biquad.Bank
	shaper   *shaper.Waveshaper
	gain     smooth.Control
	channels int
}

// NewTubeKernel returns an uninitialized tube kernel.
func NewTubeKernel(opts ...core.KernelOption) *TubeKernel {
	return &TubeKernel{
		base: newBase(core.ApplyKernelOptions(opts...), param.GainSpec, param.BypassSpec),
	}
}

// Initialize designs the pre-filter for sampleRate and sizes all
// per-channel state for outputChannels.
func (k *TubeKernel) Initialize(inputChannels, outputChannels int, sampleRate float64) error {
	if err := k.validate(inputChannels, outputChannels, sampleRate); err != nil {
		return err
	}
	if k.cfg.PreFilterCutoff >= sampleRate/2 {
		return fmt.Errorf("kernel pre-filter cutoff must be below Nyquist: %f >= %f", k.cfg.PreFilterCutoff, sampleRate/2)
	}

	filter, err := biquad.NewBank(design.Highpass(k.cfg.PreFilterCutoff, k.cfg.PreFilterQ, sampleRate), outputChannels)
	if err != nil {
		return err
	}
	ws, err := shaper.New(outputChannels)
	if err != nil {
		return err
	}

	k.filter = filter
	k.shaper = ws
	k.channels = outputChannels
	k.gain.Init(sampleRate, k.cfg.SmoothingSeconds)
	k.gain.Reset(k.gainTarget())
	k.markInitialized(inputChannels, outputChannels, sampleRate)
	return nil
}

// DeInitialize drops all per-channel state.
func (k *TubeKernel) DeInitialize() {
	k.filter = nil
	k.shaper = nil
	k.channels = 0
	k.markReleased()
}

// SmoothedGain returns the drive gain after smoothing.
func (k *TubeKernel) SmoothedGain() float32 { return k.gain.Current() }

// Process renders one block.
func (k *TubeKernel) Process(in, out [][]float32, blockStart int64, frameCount int) {
	k.ProcessRange(in, out, 0, FrameCount(in, out, frameCount, k.maxFrames))
}

// ProcessRange renders frames [start, end).
func (k *TubeKernel) ProcessRange(in, out [][]float32, start, end int) {
	if end <= start || len(out) == 0 || len(in) == 0 {
		return
	}
	if !k.initialized || k.params.Bypassed() {
		CopyThrough(in, out, start, end)
		return
	}

	k.gain.SetTarget(k.gainTarget())
	nch := min(len(out), k.channels)

	// Inputs are read before any output is written so in-place buffers
	// shared by several outputs stay intact.
	var frame [core.MaxChannels]float32
	for i := start; i < end; i++ {
		g := k.gain.Next()
		for ch := 0; ch < nch; ch++ {
			frame[ch] = in[core.SourceChannel(ch, len(in))][i]
		}
		for ch := 0; ch < nch; ch++ {
			x := k.filter.ProcessSample(ch, frame[ch])
			out[ch][i] = k.shaper.Process(ch, x*g, g)
		}
	}

	for ch := nch; ch < len(out); ch++ {
		src := in[core.SourceChannel(ch, len(in))]
		copy(out[ch][start:end], src[start:end])
	}
}

func (k *TubeKernel) gainTarget() float32 {
	g := k.params.Get(param.Gain)
	return min(max(g, param.GainSpec.Min), param.GainSpec.Max)
}
