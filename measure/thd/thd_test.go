package thd

import (
	"math"
	"testing"

	"github.com/cwbudde/fission/dsp/window"
	"github.com/cwbudde/fission/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func knownSpectrum() ([]float64, Config) {
	cfg := Config{
		SampleRate:     48000,
		FFTSize:        48000,
		RangeLowerFreq: 20,
		RangeUpperFreq: 10000,
		WindowType:     window.TypeHann,
	}

	mag := make([]float64, cfg.FFTSize/2+1)
	mag[1000] = 1
	mag[2000] = 0.1
	mag[3000] = 0.05
	mag[4500] = 0.02
	return mag, cfg
}

func TestCalculateKnownSpectrum(t *testing.T) {
	mag, cfg := knownSpectrum()
	cfg.FundamentalFreq = 1000

	res := Calculate(mag, cfg)
	assert.InDelta(t, 1000, res.FundamentalFreq, 1e-9)
	assert.InDelta(t, 1, res.FundamentalLevel, 1e-12)
	assert.InDelta(t, math.Sqrt(0.0125), res.THD, 1e-12)
	assert.InDelta(t, math.Sqrt(0.0129), res.THDN, 1e-12)
	assert.InDelta(t, 0.02, res.Noise, 1e-9)
	assert.InDelta(t, 0.05, res.OddHD, 1e-12)
	assert.InDelta(t, 0.1, res.EvenHD, 1e-12)
	assert.InDelta(t, -20*math.Log10(math.Sqrt(0.0129)), res.SINAD, 1e-9)
	assert.InDelta(t, 20*math.Log10(res.THD), res.THD_dB, 1e-9)

	// Harmonics 2..10 fit below 10 kHz.
	require.Len(t, res.Harmonics, 9)
	assert.InDelta(t, 0.1, res.Harmonics[0], 1e-12)
	assert.InDelta(t, 0.05, res.Harmonics[1], 1e-12)
	assert.Zero(t, res.Harmonics[2])
}

func TestCalculateFindsStrongestBin(t *testing.T) {
	mag, cfg := knownSpectrum()

	res := Calculate(mag, cfg)
	assert.InDelta(t, 1000, res.FundamentalFreq, 1e-9)
	assert.InDelta(t, math.Sqrt(0.0125), res.THD, 1e-12)
}

func TestCalculateMaxHarmonics(t *testing.T) {
	mag, cfg := knownSpectrum()
	cfg.MaxHarmonics = 1

	res := Calculate(mag, cfg)
	require.Len(t, res.Harmonics, 1)
	assert.InDelta(t, 0.1, res.THD, 1e-12)
}

func TestCalculateDegenerateInput(t *testing.T) {
	assert.Equal(t, Result{}, Calculate(nil, Config{}))

	res := Calculate(make([]float64, 1025), Config{SampleRate: 48000})
	assert.Zero(t, res.FundamentalLevel)
	assert.Zero(t, res.THD)

	res, err := AnalyzeSignal([]float32{1}, Config{})
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
}

func TestAnalyzeSignalPureTone(t *testing.T) {
	const (
		sr   = 48000.0
		size = 4096
	)
	freq := 64 * sr / size

	res, err := AnalyzeSignal(testutil.DeterministicSine(freq, sr, 0.5, size), Config{
		SampleRate: sr,
		FFTSize:    size,
	})
	require.NoError(t, err)
	assert.InDelta(t, freq, res.FundamentalFreq, 1e-9)
	assert.Less(t, res.THD, 1e-4)
	assert.Less(t, res.THDN, 1e-4)
}

func TestAnalyzeSignalOffBinHarmonic(t *testing.T) {
	const (
		sr   = 48000.0
		size = 8192
	)

	tone := testutil.DeterministicSine(1000, sr, 0.5, size)
	third := testutil.DeterministicSine(3000, sr, 0.015, size)
	for i := range tone {
		tone[i] += third[i]
	}

	res, err := AnalyzeSignal(tone, Config{SampleRate: sr, FundamentalFreq: 1000})
	require.NoError(t, err)
	assert.InDelta(t, 0.03, res.THD, 2e-3)
	assert.InDelta(t, 0.03, res.OddHD, 2e-3)
	assert.Less(t, res.EvenHD, 2e-3)
}

func BenchmarkAnalyzeSignal(b *testing.B) {
	signal := testutil.DeterministicSine(1000, 48000, 0.5, 8192)
	cfg := Config{SampleRate: 48000}

	b.ReportAllocs()
	for b.Loop() {
		_, _ = AnalyzeSignal(signal, cfg)
	}
}
