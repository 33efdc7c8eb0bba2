package main

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/cwbudde/fission/dsp/core"
	"github.com/cwbudde/fission/dsp/dither"
	"github.com/cwbudde/fission/dsp/kernel"
	"github.com/cwbudde/fission/dsp/param"
	"github.com/go-audio/audio"
	"github.com/tphakala/simd/f32"
)

const progressInterval = 10 // percent

type renderConfig struct {
	kernelName  string
	blockSize   int
	outChannels int
	trimDB      float64
	dither      dither.Type
	ditherSeed  uint64
	resetAt     int64
	analyze     bool
	verbose     bool
	ramp        *ramp
	setup       func(kernel.Kernel)
}

type renderStats struct {
	sampleRate  int
	inChannels  int
	outChannels int
	frames      int64
	blocks      int
	report      *analysisReport
}

// blockBuffers holds every buffer the render loop reuses.
type blockBuffers struct {
	pcm     *audio.IntBuffer
	in      [][]float32
	out     [][]float32
	scratch []float32
	ints    []int
	events  []param.Event

	// Views into in and out past a mid-block split.
	inTail  [][]float32
	outTail [][]float32
}

func newBlockBuffers(format *audio.Format, inChannels, outChannels, blockSize, rampStep int) *blockBuffers {
	b := &blockBuffers{
		pcm: &audio.IntBuffer{
			Data:   make([]int, blockSize*inChannels),
			Format: format,
		},
		in:      make([][]float32, inChannels),
		out:     make([][]float32, outChannels),
		scratch: make([]float32, blockSize*outChannels),
		ints:    make([]int, blockSize*outChannels),
		events:  make([]param.Event, 0, blockSize/max(rampStep, 1)+1),
		inTail:  make([][]float32, inChannels),
		outTail: make([][]float32, outChannels),
	}
	for ch := range b.in {
		b.in[ch] = make([]float32, blockSize)
	}
	for ch := range b.out {
		b.out[ch] = make([]float32, blockSize)
	}
	return b
}

// outputChannelCount resolves the -out-channels flag against the input.
func outputChannelCount(cfg renderConfig, inChannels int) int {
	if cfg.outChannels > 0 {
		return cfg.outChannels
	}
	if isDelayKernel(cfg.kernelName) {
		return max(inChannels, stereoChannels)
	}
	return inChannels
}

func renderFile(k kernel.Kernel, inPath, outPath string, cfg renderConfig) (stats *renderStats, err error) {
	if cfg.blockSize <= 0 {
		return nil, fmt.Errorf("block size must be > 0: %d", cfg.blockSize)
	}

	in, err := openWAVInput(inPath, cfg.verbose)
	if err != nil {
		return nil, err
	}
	defer func() { _ = in.Close() }()

	maxVal, err := maxValue(in.bitDepth)
	if err != nil {
		return nil, err
	}

	ditherOpts := []dither.Option{dither.WithBitDepth(in.bitDepth), dither.WithType(cfg.dither)}
	if cfg.ditherSeed != 0 {
		ditherOpts = append(ditherOpts, dither.WithSeed(cfg.ditherSeed))
	}
	quantizer, err := dither.NewQuantizer(ditherOpts...)
	if err != nil {
		return nil, err
	}

	outChannels := outputChannelCount(cfg, in.channels)
	if cfg.setup != nil {
		cfg.setup(k)
	}
	if err := k.Initialize(in.channels, outChannels, float64(in.rate)); err != nil {
		return nil, fmt.Errorf("initialize %s: %w", cfg.kernelName, err)
	}
	defer k.DeInitialize()
	k.SetMaximumFramesToRender(uint32(cfg.blockSize))

	out, err := createWAVOutput(outPath, in.rate, in.bitDepth, outChannels)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := out.Close(); err == nil {
			err = closeErr
		}
	}()

	rampStep := 1
	if cfg.ramp != nil {
		cfg.ramp.total = in.totalFrames
		rampStep = cfg.ramp.step
		if in.totalFrames == 0 {
			log.Printf("ramp disabled: input length unknown")
			cfg.ramp = nil
		}
	}

	bufs := newBlockBuffers(in.format, in.channels, outChannels, cfg.blockSize, rampStep)
	trim := float32(core.DBToLinear(cfg.trimDB))

	var analysis *outputAnalysis
	if cfg.analyze {
		analysis = newOutputAnalysis(float64(in.rate), outChannels)
	}

	stats = &renderStats{sampleRate: in.rate, inChannels: in.channels, outChannels: outChannels}
	lastProgress := 0

	for {
		n, err := in.decoder.PCMBuffer(bufs.pcm)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read audio data: %w", err)
		}
		frames := n / in.channels
		if frames == 0 {
			break
		}

		deinterleaveInto(bufs.pcm.Data, bufs.in, in.channels, frames, 1/maxVal)

		bufs.events = bufs.events[:0]
		if cfg.ramp != nil {
			bufs.events = cfg.ramp.appendEvents(bufs.events, stats.frames, frames)
		}
		if at := cfg.resetAt - stats.frames; cfg.resetAt > 0 && at >= 0 && at < int64(frames) {
			renderWithReset(k, bufs, stats.frames, frames, int(at))
			if cfg.verbose {
				log.Printf("parameters reset at frame %d", cfg.resetAt)
			}
		} else {
			kernel.Render(k, bufs.in, bufs.out, stats.frames, frames, bufs.events)
		}

		if trim != 1 {
			for _, buf := range bufs.out {
				f32.Scale(buf[:frames], buf[:frames], trim)
			}
		}
		if analysis != nil {
			analysis.add(bufs.out, frames)
		}

		if err := out.WriteSamples(interleaveInto(bufs.out, frames, bufs.scratch, bufs.ints, quantizer)); err != nil {
			return nil, err
		}

		stats.frames += int64(frames)
		stats.blocks++

		if cfg.verbose && in.totalFrames > 0 {
			pct := int(stats.frames * 100 / in.totalFrames)
			if pct >= lastProgress+progressInterval {
				lastProgress = pct - pct%progressInterval
				log.Printf("Progress: %d%%", lastProgress)
			}
		}
	}

	if analysis != nil {
		report, err := analysis.report()
		if err != nil {
			return nil, err
		}
		stats.report = report
	}
	return stats, nil
}

// renderWithReset renders frames [0, at) of the block, restores the kernel's
// parameter defaults and renders the rest. Events at or after the split
// apply on top of the defaults.
func renderWithReset(k kernel.Kernel, b *blockBuffers, blockStart int64, frames, at int) {
	split := len(b.events)
	for i, ev := range b.events {
		if ev.SampleTime >= blockStart+int64(at) {
			split = i
			break
		}
	}
	kernel.Render(k, b.in, b.out, blockStart, at, b.events[:split])

	k.ResetParameters()

	for ch := range b.in {
		b.inTail[ch] = b.in[ch][at:frames]
	}
	for ch := range b.out {
		b.outTail[ch] = b.out[ch][at:frames]
	}
	kernel.Render(k, b.inTail, b.outTail, blockStart+int64(at), frames-at, b.events[split:])
}
