// Package window generates analysis windows for the spectrum measurements
// used by tests and the command line analyzer.
package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeBlackmanHarris4Term
)

var cosineTerms = map[Type][]float64{
	TypeRectangular:         {1},
	TypeHann:                {0.5, -0.5},
	TypeHamming:             {0.54, -0.46},
	TypeBlackman:            {0.42, -0.5, 0.08},
	TypeBlackmanHarris4Term: {0.35875, -0.48829, 0.14128, -0.01168},
}

var names = map[Type]string{
	TypeRectangular:         "Rectangular",
	TypeHann:                "Hann",
	TypeHamming:             "Hamming",
	TypeBlackman:            "Blackman",
	TypeBlackmanHarris4Term: "Blackman-Harris",
}

func (t Type) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return "Unknown"
}

// MainLobeBins returns the half width of the main lobe in bins. For the
// cosine-sum windows here that is the number of cosine terms.
func (t Type) MainLobeBins() int {
	if terms, ok := cosineTerms[t]; ok {
		return len(terms)
	}
	return 1
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic configures periodic form (FFT framing) instead of symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns window coefficients of the given length. Unknown types
// fall back to rectangular.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	terms, ok := cosineTerms[t]
	if !ok {
		terms = cosineTerms[TypeRectangular]
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = cosineFromCoeffs(samplePosition(i, length, cfg.periodic), terms)
	}

	return out
}

// Hann returns Hann window coefficients.
func Hann(size int, opts ...Option) ([]float64, error) {
	return Generate(TypeHann, size, opts...), checkSize(size)
}

// Blackman returns Blackman window coefficients.
func Blackman(size int, opts ...Option) ([]float64, error) {
	return Generate(TypeBlackman, size, opts...), checkSize(size)
}

// Apply multiplies buf in-place by the selected window.
func Apply(t Type, buf []float64, opts ...Option) {
	if len(buf) == 0 {
		return
	}

	vecmath.MulBlockInPlace(buf, Generate(t, len(buf), opts...))
}

// ApplyCoefficientsInPlace multiplies samples with coefficients in place.
func ApplyCoefficientsInPlace(samples, coeffs []float64) error {
	if err := checkLengths(len(samples), len(coeffs)); err != nil {
		return err
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}

// CoherentGain returns the mean coefficient, the amplitude scale a window
// applies to a bin-centred sinusoid.
func CoherentGain(coeffs []float64) (float64, error) {
	sum, err := coeffSum(coeffs)
	if err != nil {
		return 0, err
	}

	return sum / float64(len(coeffs)), nil
}

// EquivalentNoiseBandwidth returns the ENBW in bins for a window.
func EquivalentNoiseBandwidth(coeffs []float64) (float64, error) {
	sum, err := coeffSum(coeffs)
	if err != nil {
		return 0, err
	}

	sumSquares := 0.0
	for _, c := range coeffs {
		sumSquares += c * c
	}

	return float64(len(coeffs)) * sumSquares / (sum * sum), nil
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	return float64(n) / den
}
