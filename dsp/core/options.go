package core

import "math"

const (
	// MaxChannels bounds every per-channel state array a kernel allocates.
	MaxChannels = 8

	defaultMaxDelaySeconds  = 0.050
	defaultSmoothingSeconds = 0.020
	defaultMaxFrames        = 1024
	defaultPreFilterCutoff  = 75.0
	defaultPreFilterQ       = 0.707
)

// KernelConfig holds the construction-time settings shared by all kernels.
// Everything sample-rate dependent is derived from it at Initialize.
type KernelConfig struct {
	MaxDelaySeconds  float64
	SmoothingSeconds float64
	MaxChannels      int
	MaxFrames        uint32
	PreFilterCutoff  float64
	PreFilterQ       float64
}

// KernelOption mutates a KernelConfig.
type KernelOption func(*KernelConfig)

// DefaultKernelConfig returns a 50 ms delay range, 20 ms smoothing, eight
// channels, 1024-frame blocks and a 75 Hz / 0.707 pre-filter.
func DefaultKernelConfig() KernelConfig {
	return KernelConfig{
		MaxDelaySeconds:  defaultMaxDelaySeconds,
		SmoothingSeconds: defaultSmoothingSeconds,
		MaxChannels:      MaxChannels,
		MaxFrames:        defaultMaxFrames,
		PreFilterCutoff:  defaultPreFilterCutoff,
		PreFilterQ:       defaultPreFilterQ,
	}
}

// WithMaxDelay sets the longest supported delay in seconds.
func WithMaxDelay(seconds float64) KernelOption {
	return func(cfg *KernelConfig) {
		if positiveFinite(seconds) {
			cfg.MaxDelaySeconds = seconds
		}
	}
}

// WithSmoothingTime sets the control smoothing time constant in seconds.
func WithSmoothingTime(seconds float64) KernelOption {
	return func(cfg *KernelConfig) {
		if positiveFinite(seconds) {
			cfg.SmoothingSeconds = seconds
		}
	}
}

// WithMaxChannels caps the per-channel state. Values above MaxChannels are
// ignored.
func WithMaxChannels(n int) KernelOption {
	return func(cfg *KernelConfig) {
		if n > 0 && n <= MaxChannels {
			cfg.MaxChannels = n
		}
	}
}

// WithMaxFrames sets the initial maximum render block size.
func WithMaxFrames(n uint32) KernelOption {
	return func(cfg *KernelConfig) {
		if n > 0 {
			cfg.MaxFrames = n
		}
	}
}

// WithPreFilter sets the high-pass pre-filter cutoff (Hz) and Q.
func WithPreFilter(cutoffHz, q float64) KernelOption {
	return func(cfg *KernelConfig) {
		if positiveFinite(cutoffHz) && positiveFinite(q) {
			cfg.PreFilterCutoff = cutoffHz
			cfg.PreFilterQ = q
		}
	}
}

// ApplyKernelOptions applies zero or more options to the default config.
func ApplyKernelOptions(opts ...KernelOption) KernelConfig {
	cfg := DefaultKernelConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
