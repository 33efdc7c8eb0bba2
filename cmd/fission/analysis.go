package main

import (
	"fmt"
	"io"

	"github.com/cwbudde/fission/dsp/spectrum"
	"github.com/cwbudde/fission/dsp/window"
	"github.com/cwbudde/fission/measure/thd"
	timestats "github.com/cwbudde/fission/stats/time"
)

const analysisFrames = 8192

// outputAnalysis tracks per-channel levels over the whole render and keeps
// the first analysisFrames of the channel average for a spectrum.
type outputAnalysis struct {
	sampleRate float64
	levels     []timestats.StreamingStats
	capture    []float32
}

// analysisReport is the printable result of an outputAnalysis.
type analysisReport struct {
	levels     []timestats.Stats
	centroidHz float64
	peakHz     float64
	distortion thd.Result
	frames     int
}

func newOutputAnalysis(sampleRate float64, channels int) *outputAnalysis {
	return &outputAnalysis{
		sampleRate: sampleRate,
		levels:     make([]timestats.StreamingStats, channels),
		capture:    make([]float32, 0, analysisFrames),
	}
}

func (a *outputAnalysis) add(out [][]float32, frames int) {
	for ch, buf := range out {
		a.levels[ch].Update(buf[:frames])
	}

	scale := 1 / float32(len(out))
	for i := 0; i < frames && len(a.capture) < analysisFrames; i++ {
		var sum float32
		for _, buf := range out {
			sum += buf[i]
		}
		a.capture = append(a.capture, sum*scale)
	}
}

func (a *outputAnalysis) report() (*analysisReport, error) {
	r := &analysisReport{
		levels: make([]timestats.Stats, len(a.levels)),
		frames: len(a.capture),
	}
	for ch := range a.levels {
		r.levels[ch] = a.levels[ch].Result()
	}
	if len(a.capture) < 2 {
		return r, nil
	}

	an, err := spectrum.NewAnalyzer(analysisFrames, a.sampleRate, window.TypeHann)
	if err != nil {
		return nil, err
	}
	mag := an.Analyze(a.capture)
	r.centroidHz = an.Centroid(mag)
	r.peakHz = an.BinFrequency(spectrum.PeakBin(mag))

	// Distortion relative to the strongest partial, meaningful for tone
	// test signals.
	r.distortion = thd.Calculate(mag, thd.Config{
		SampleRate:      a.sampleRate,
		FFTSize:         analysisFrames,
		FundamentalFreq: r.peakHz,
		WindowType:      window.TypeHann,
	})
	return r, nil
}

func (r *analysisReport) print(w io.Writer) {
	for ch, l := range r.levels {
		fmt.Fprintf(w, "  ch%d: peak %.2f dBFS, RMS %.2f dBFS, crest %.2f dB, DC %.5f\n",
			ch, l.Peak_dB, l.RMS_dB, l.CrestFactor_dB, l.DC)
	}
	if r.frames < 2 {
		fmt.Fprintf(w, "  Spectrum: not enough audio\n")
		return
	}
	fmt.Fprintf(w, "  Spectral centroid: %.1f Hz (first %d frames)\n", r.centroidHz, r.frames)
	fmt.Fprintf(w, "  Strongest bin: %.1f Hz\n", r.peakHz)
	if r.distortion.FundamentalLevel > 0 {
		fmt.Fprintf(w, "  THD: %.3f%% (%.1f dB), THD+N: %.3f%%\n",
			r.distortion.THD*100, r.distortion.THD_dB, r.distortion.THDN*100)
	}
}
