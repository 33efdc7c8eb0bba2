package core

import "math"

// FlushDenormals converts tiny denormal-like values to exact zero.
// This can reduce denormal-related CPU slowdowns in hot DSP loops.
func FlushDenormals(x float64) float64 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}

	return x
}

// FlushDenormals32 is FlushDenormals for float32 state.
func FlushDenormals32(x float32) float32 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}

	return x
}

// MsToSamples converts a delay in milliseconds to a whole number of samples,
// rounding to nearest. The sign of ms is ignored. Non-finite input yields 0
// and very large values saturate at math.MaxInt32.
func MsToSamples(ms, sampleRate float64) int {
	v := math.Abs(ms) * sampleRate / 1000
	if math.IsNaN(v) || v <= 0 {
		return 0
	}

	if v >= math.MaxInt32 {
		return math.MaxInt32
	}

	return int(math.Round(v))
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}
