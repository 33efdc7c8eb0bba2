package spectrum

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/fission/dsp/window"
)

// Analyzer computes windowed magnitude spectra of a fixed frame size.
//
// Magnitudes are normalized so a bin-centred sinusoid of amplitude A reads
// approximately A. An Analyzer reuses its buffers and is not safe for
// concurrent use.
type Analyzer struct {
	size       int
	sampleRate float64
	plan       *algofft.Plan[complex128]
	window     []float64
	scale      float64

	frame []float64
	in    []complex128
	bins  []complex128
	mag   []float64
}

// NewAnalyzer returns an analyzer for frames of size samples.
func NewAnalyzer(size int, sampleRate float64, wt window.Type) (*Analyzer, error) {
	if size < 2 {
		return nil, fmt.Errorf("spectrum: frame size must be >= 2: %d", size)
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("spectrum: sample rate must be > 0: %v", sampleRate)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum: fft plan for size %d: %w", size, err)
	}

	w := window.Generate(wt, size, window.WithPeriodic())
	cg, err := window.CoherentGain(w)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		size:       size,
		sampleRate: sampleRate,
		plan:       plan,
		window:     w,
		scale:      2 / (float64(size) * cg),
		frame:      make([]float64, size),
		in:         make([]complex128, size),
		bins:       make([]complex128, size),
		mag:        make([]float64, size/2+1),
	}, nil
}

// Size returns the frame size.
func (a *Analyzer) Size() int { return a.size }

// Bins returns the number of magnitude bins, size/2+1.
func (a *Analyzer) Bins() int { return len(a.mag) }

// BinFrequency returns the centre frequency of bin k in Hz.
func (a *Analyzer) BinFrequency(k int) float64 {
	return float64(k) * a.sampleRate / float64(a.size)
}

// BinOf returns the bin nearest to freq, clamped to the valid range.
func (a *Analyzer) BinOf(freq float64) int {
	k := int(math.Round(freq * float64(a.size) / a.sampleRate))
	if k < 0 {
		return 0
	}
	if k >= len(a.mag) {
		return len(a.mag) - 1
	}
	return k
}

// Analyze returns the magnitude spectrum of the first Size samples of
// signal. Shorter signals are zero padded. The returned slice is owned by
// the analyzer and overwritten by the next call.
func (a *Analyzer) Analyze(signal []float32) []float64 {
	for i := range a.frame {
		if i < len(signal) {
			a.frame[i] = float64(signal[i])
		} else {
			a.frame[i] = 0
		}
	}
	_ = window.ApplyCoefficientsInPlace(a.frame, a.window)

	for i, v := range a.frame {
		a.in[i] = complex(v, 0)
	}
	if err := a.plan.Forward(a.bins, a.in); err != nil {
		clear(a.mag)
		return a.mag
	}
	MagnitudeInto(a.mag, a.bins[:len(a.mag)])
	for i := range a.mag {
		a.mag[i] *= a.scale
	}
	a.mag[0] *= 0.5
	return a.mag
}

// BandEnergy sums squared magnitudes of the bins between lo and hi Hz
// inclusive.
func (a *Analyzer) BandEnergy(mag []float64, lo, hi float64) float64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	k0, k1 := a.BinOf(lo), a.BinOf(hi)
	if k1 >= len(mag) {
		k1 = len(mag) - 1
	}
	sum := 0.0
	for k := k0; k <= k1; k++ {
		sum += mag[k] * mag[k]
	}
	return sum
}

// PeakBin returns the index of the largest non-DC magnitude.
func PeakBin(mag []float64) int {
	peak := 0
	best := -1.0
	for k := 1; k < len(mag); k++ {
		if mag[k] > best {
			best = mag[k]
			peak = k
		}
	}
	return peak
}

// Centroid returns the magnitude weighted mean frequency in Hz, or 0 for
// a silent spectrum.
func (a *Analyzer) Centroid(mag []float64) float64 {
	num, den := 0.0, 0.0
	for k, m := range mag {
		num += a.BinFrequency(k) * m
		den += m
	}
	if den <= 0 {
		return 0
	}
	return num / den
}
