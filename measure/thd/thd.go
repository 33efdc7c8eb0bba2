// Package thd measures harmonic distortion of a single tone from its
// magnitude spectrum.
package thd

import (
	"math"

	"github.com/cwbudde/fission/dsp/core"
	"github.com/cwbudde/fission/dsp/spectrum"
	"github.com/cwbudde/fission/dsp/window"
)

const (
	defaultRangeLowerHz = 20.0
	defaultRangeUpperHz = 20000.0
)

// Config holds THD calculation parameters.
type Config struct {
	SampleRate float64
	// FFTSize defaults to the next power of two of the signal length, or to
	// 2*(bins-1) when a spectrum is passed directly.
	FFTSize int
	// FundamentalFreq selects the fundamental. Zero picks the strongest bin
	// inside the range.
	FundamentalFreq float64
	RangeLowerFreq  float64
	RangeUpperFreq  float64
	// CaptureBins is the half width of the band summed around each
	// harmonic. Zero uses the main lobe of WindowType.
	CaptureBins  int
	MaxHarmonics int
	// WindowType zero value (rectangular) is replaced by Hann.
	WindowType window.Type
}

// Result holds THD measurement results. All ratios are relative to the
// fundamental level.
//
//nolint:revive
type Result struct {
	FundamentalFreq  float64
	FundamentalLevel float64
	THD              float64
	THDN             float64
	THD_dB           float64
	THDN_dB          float64
	OddHD            float64
	EvenHD           float64
	Noise            float64
	// Harmonics[i] is the level of harmonic i+2.
	Harmonics []float64
	SINAD     float64
}

// AnalyzeSignal windows signal, computes its spectrum and evaluates THD
// metrics on it.
func AnalyzeSignal(signal []float32, cfg Config) (Result, error) {
	if len(signal) < 2 {
		return Result{}, nil
	}

	cfg = normalizeConfig(cfg)
	if cfg.FFTSize <= 0 {
		cfg.FFTSize = nextPowerOf2(len(signal))
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = float64(cfg.FFTSize)
	}

	an, err := spectrum.NewAnalyzer(cfg.FFTSize, cfg.SampleRate, cfg.WindowType)
	if err != nil {
		return Result{}, err
	}
	return Calculate(an.Analyze(signal), cfg), nil
}

// Calculate computes THD metrics from an amplitude spectrum holding the
// bins 0..Nyquist, as returned by spectrum.Analyzer.
func Calculate(mag []float64, cfg Config) Result {
	if len(mag) <= 2 {
		return Result{}
	}

	cfg = normalizeConfig(cfg)
	if cfg.FFTSize <= 0 {
		cfg.FFTSize = 2 * (len(mag) - 1)
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = float64(cfg.FFTSize)
	}

	maxBin := len(mag) - 1
	binHz := cfg.SampleRate / float64(cfg.FFTSize)
	lower := clampInt(int(math.Round(cfg.RangeLowerFreq/binHz)), 1, maxBin)
	upper := clampInt(int(math.Round(cfg.RangeUpperFreq/binHz)), lower, maxBin)

	fund := fundamentalBin(mag, cfg, lower, upper, binHz)

	capture := cfg.CaptureBins
	if capture == 0 {
		capture = cfg.WindowType.MainLobeBins()
	}
	// Neighbouring harmonic bands must not share bins.
	if capture*2 >= fund {
		capture = (fund - 1) / 2
	}

	res := Result{FundamentalFreq: float64(fund) * binHz}
	fundLevel := bandLevel(mag, fund, capture)
	if fundLevel <= 0 {
		return res
	}
	res.FundamentalLevel = fundLevel

	var harmonicPow, oddPow, evenPow float64
	for k := 2; cfg.MaxHarmonics == 0 || k-1 <= cfg.MaxHarmonics; k++ {
		bin := k * fund
		if bin > upper {
			break
		}

		level := bandLevel(mag, bin, capture)
		p := level * level
		harmonicPow += p
		if k%2 == 0 {
			evenPow += p
		} else {
			oddPow += p
		}
		res.Harmonics = append(res.Harmonics, level/fundLevel)
	}

	totalPow := 0.0
	for k := lower; k <= upper; k++ {
		totalPow += mag[k] * mag[k]
	}
	residualPow := max(totalPow-fundLevel*fundLevel, 0)
	noisePow := max(residualPow-harmonicPow, 0)

	res.THD = math.Sqrt(harmonicPow) / fundLevel
	res.THDN = math.Sqrt(residualPow) / fundLevel
	res.OddHD = math.Sqrt(oddPow) / fundLevel
	res.EvenHD = math.Sqrt(evenPow) / fundLevel
	res.Noise = math.Sqrt(noisePow) / fundLevel
	res.THD_dB = core.LinearToDB(res.THD)
	res.THDN_dB = core.LinearToDB(res.THDN)
	res.SINAD = math.Inf(1)
	if res.THDN > 0 {
		res.SINAD = -res.THDN_dB
	}
	return res
}

func fundamentalBin(mag []float64, cfg Config, lower, upper int, binHz float64) int {
	if cfg.FundamentalFreq > 0 {
		return clampInt(int(math.Round(cfg.FundamentalFreq/binHz)), lower, upper)
	}

	best := lower
	for k := lower + 1; k <= upper; k++ {
		if mag[k] > mag[best] {
			best = k
		}
	}
	return best
}

// bandLevel returns the root of the power summed over bin±capture.
func bandLevel(mag []float64, bin, capture int) float64 {
	lo := max(bin-capture, 1)
	hi := min(bin+capture, len(mag)-1)

	sum := 0.0
	for k := lo; k <= hi; k++ {
		sum += mag[k] * mag[k]
	}
	return math.Sqrt(sum)
}

func normalizeConfig(cfg Config) Config {
	if cfg.RangeLowerFreq <= 0 {
		cfg.RangeLowerFreq = defaultRangeLowerHz
	}
	if cfg.RangeUpperFreq <= 0 {
		cfg.RangeUpperFreq = defaultRangeUpperHz
	}
	if cfg.RangeUpperFreq < cfg.RangeLowerFreq {
		cfg.RangeUpperFreq = cfg.RangeLowerFreq
	}
	if cfg.WindowType == window.TypeRectangular {
		cfg.WindowType = window.TypeHann
	}
	cfg.CaptureBins = max(cfg.CaptureBins, 0)
	cfg.MaxHarmonics = max(cfg.MaxHarmonics, 0)
	return cfg
}

func clampInt(val, lo, hi int) int {
	return max(lo, min(hi, val))
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
