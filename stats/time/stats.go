// Package time computes time-domain level statistics of float32 audio,
// either over a whole buffer or streamed block by block.
package time

import (
	"math"

	"github.com/cwbudde/fission/dsp/core"
)

// Stats holds time-domain signal statistics.
//
//nolint:revive
type Stats struct {
	Length         int
	DC             float64 // mean
	RMS            float64
	RMS_dB         float64
	Max            float64
	MaxPos         int
	Min            float64
	MinPos         int
	Peak           float64 // max(|max|, |min|)
	Peak_dB        float64
	CrestFactor    float64 // peak / RMS, 0 for silence
	CrestFactor_dB float64
	Energy         float64 // sum of squares
	Variance       float64
	ZeroCrossings  int
}

// Calculate computes the statistics of signal in one pass.
func Calculate(signal []float32) Stats {
	var s StreamingStats
	s.Update(signal)
	return s.Result()
}

// RMS returns the root mean square of signal, 0 when empty.
func RMS(signal []float32) float64 {
	if len(signal) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range signal {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum / float64(len(signal)))
}

// Peak returns the largest absolute sample value.
func Peak(signal []float32) float64 {
	peak := 0.0
	for _, x := range signal {
		peak = math.Max(peak, math.Abs(float64(x)))
	}
	return peak
}

// StreamingStats accumulates Stats over successive blocks. The zero value
// is ready to use.
type StreamingStats struct {
	n             int
	sum           float64
	sumSq         float64
	maxVal        float32
	maxPos        int
	minVal        float32
	minPos        int
	zeroCrossings int
	sign          int8 // of the last non-zero sample, 0 before one is seen
}

// Update adds a block of samples. Positions keep counting across blocks.
// A zero crossing is a sign change between consecutive non-zero samples, so
// 1, 0, -1 counts once and a sign change between two blocks counts too.
func (s *StreamingStats) Update(samples []float32) {
	for _, x := range samples {
		if s.n == 0 {
			s.maxVal, s.minVal = x, x
		} else {
			if x > s.maxVal {
				s.maxVal, s.maxPos = x, s.n
			}
			if x < s.minVal {
				s.minVal, s.minPos = x, s.n
			}
		}

		var sign int8
		switch {
		case x > 0:
			sign = 1
		case x < 0:
			sign = -1
		}
		if sign != 0 {
			if s.sign != 0 && sign != s.sign {
				s.zeroCrossings++
			}
			s.sign = sign
		}

		v := float64(x)
		s.sum += v
		s.sumSq += v * v
		s.n++
	}
}

// Len returns the number of samples seen so far.
func (s *StreamingStats) Len() int { return s.n }

// Result returns the statistics of everything seen so far. dB fields of an
// empty accumulator are -Inf.
func (s *StreamingStats) Result() Stats {
	if s.n == 0 {
		return Stats{
			RMS_dB:         math.Inf(-1),
			Peak_dB:        math.Inf(-1),
			CrestFactor_dB: math.Inf(-1),
		}
	}

	nf := float64(s.n)
	mean := s.sum / nf
	rms := math.Sqrt(s.sumSq / nf)
	peak := math.Max(math.Abs(float64(s.maxVal)), math.Abs(float64(s.minVal)))

	st := Stats{
		Length:         s.n,
		DC:             mean,
		RMS:            rms,
		RMS_dB:         core.LinearToDB(rms),
		Max:            float64(s.maxVal),
		MaxPos:         s.maxPos,
		Min:            float64(s.minVal),
		MinPos:         s.minPos,
		Peak:           peak,
		Peak_dB:        core.LinearToDB(peak),
		Energy:         s.sumSq,
		Variance:       math.Max(s.sumSq/nf-mean*mean, 0),
		ZeroCrossings:  s.zeroCrossings,
		CrestFactor_dB: math.Inf(-1),
	}
	if rms > 0 {
		st.CrestFactor = peak / rms
		st.CrestFactor_dB = core.LinearToDB(st.CrestFactor)
	}
	return st
}

// Reset clears all accumulated data.
func (s *StreamingStats) Reset() {
	*s = StreamingStats{}
}
