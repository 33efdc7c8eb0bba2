package kernel

import (
	"github.com/cwbudde/fission/dsp/core"
	"github.com/cwbudde/fission/dsp/delay"
	"github.com/cwbudde/fission/dsp/param"
)

// DelayKernel is the Haas delay: one channel of the stereo pair is delayed
// by up to the configured maximum while the other stays dry.
type DelayKernel struct {
	base
	engine *delay.Engine
}

// NewDelayKernel returns an uninitialized delay kernel using policy.
func NewDelayKernel(policy delay.Policy, opts ...core.KernelOption) (*DelayKernel, error) {
	engine, err := delay.NewEngine(policy)
	if err != nil {
		return nil, err
	}

	specs := []param.Spec{param.SignedDelaySpec, param.BypassSpec}
	if policy == delay.PolicySelector {
		specs = []param.Spec{param.DelaySpec, param.ChannelSpec, param.BypassSpec}
	}

	return &DelayKernel{
		base:   newBase(core.ApplyKernelOptions(opts...), specs...),
		engine: engine,
	}, nil
}

// Policy returns the routing policy.
func (k *DelayKernel) Policy() delay.Policy { return k.engine.Policy() }

// Initialize allocates the delay lines and snaps the smoothed delay to the
// current targets.
func (k *DelayKernel) Initialize(inputChannels, outputChannels int, sampleRate float64) error {
	if err := k.validate(inputChannels, outputChannels, sampleRate); err != nil {
		return err
	}
	if err := k.engine.Initialize(sampleRate, k.cfg.MaxDelaySeconds, k.cfg.SmoothingSeconds); err != nil {
		return err
	}
	k.engine.Reset(k.params.Get(param.DelayTime), k.params.Get(param.DelayChannel))
	k.markInitialized(inputChannels, outputChannels, sampleRate)
	return nil
}

// DeInitialize releases the delay lines.
func (k *DelayKernel) DeInitialize() {
	k.engine.Release()
	k.markReleased()
}

// Capacity returns the delay line length in samples, or 0.
func (k *DelayKernel) Capacity() int { return k.engine.Capacity() }

// SmoothedDelay returns the delay control after smoothing.
func (k *DelayKernel) SmoothedDelay() float32 { return k.engine.Smoothed() }

// ActiveSide returns which channel the last rendered frame delayed.
func (k *DelayKernel) ActiveSide() delay.Side { return k.engine.Active() }

// Process renders one block.
func (k *DelayKernel) Process(in, out [][]float32, blockStart int64, frameCount int) {
	k.ProcessRange(in, out, 0, FrameCount(in, out, frameCount, k.maxFrames))
}

// ProcessRange renders frames [start, end).
func (k *DelayKernel) ProcessRange(in, out [][]float32, start, end int) {
	if end <= start || len(out) == 0 || len(in) == 0 {
		return
	}
	if !k.initialized || k.params.Bypassed() {
		CopyThrough(in, out, start, end)
		return
	}

	delayMs := k.params.Get(param.DelayTime)
	channel := k.params.Get(param.DelayChannel)

	inL := in[core.SourceChannel(0, len(in))]
	inR := in[core.SourceChannel(1, len(in))]
	outL := out[0]
	var outR []float32
	if len(out) > 1 {
		outR = out[1]
	}

	for i := start; i < end; i++ {
		l, r := k.engine.Process(inL[i], inR[i], delayMs, channel)
		outL[i] = l
		if outR != nil {
			outR[i] = r
		}
	}

	for ch := 2; ch < len(out); ch++ {
		src := in[core.SourceChannel(ch, len(in))]
		copy(out[ch][start:end], src[start:end])
	}
}
