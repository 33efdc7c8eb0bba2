package main

import (
	"fmt"
	"log"
	"os"

	"github.com/cwbudde/fission/dsp/core"
	"github.com/cwbudde/fission/dsp/dither"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/tphakala/simd/f32"
)

const (
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0

	wavFormatPCM   = 1
	stereoChannels = 2
)

// wavInput holds an open WAV decoder and its validated format.
type wavInput struct {
	file        *os.File
	decoder     *wav.Decoder
	format      *audio.Format
	rate        int
	channels    int
	bitDepth    int
	totalFrames int64
}

func openWAVInput(path string, verbose bool) (*wavInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		_ = f.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	in := &wavInput{
		file:     f,
		decoder:  decoder,
		format:   format,
		rate:     format.SampleRate,
		channels: format.NumChannels,
		bitDepth: int(decoder.BitDepth),
	}
	if _, err := maxValue(in.bitDepth); err != nil {
		_ = f.Close()
		return nil, err
	}
	if in.channels < 1 || in.channels > core.MaxChannels {
		_ = f.Close()
		return nil, fmt.Errorf("unsupported channel count %d (max %d)", in.channels, core.MaxChannels)
	}

	if duration, err := decoder.Duration(); err == nil {
		in.totalFrames = int64(duration.Seconds() * float64(in.rate))
	}

	if verbose {
		log.Printf("Input: %s, %d Hz, %d channels, %d-bit, %d frames",
			path, in.rate, in.channels, in.bitDepth, in.totalFrames)
	}
	return in, nil
}

func (w *wavInput) Close() error {
	return w.file.Close()
}

// wavOutput wraps a go-audio encoder and the reusable buffer handed to it.
type wavOutput struct {
	file    *os.File
	encoder *wav.Encoder
	buf     *audio.IntBuffer
}

func createWAVOutput(path string, rate, bitDepth, channels int) (*wavOutput, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &wavOutput{
		file:    f,
		encoder: wav.NewEncoder(f, rate, bitDepth, channels, wavFormatPCM),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

func (w *wavOutput) WriteSamples(samples []int) error {
	w.buf.Data = samples
	if err := w.encoder.Write(w.buf); err != nil {
		return fmt.Errorf("failed to write audio data: %w", err)
	}
	return nil
}

// Close finalizes the WAV header before closing the file.
func (w *wavOutput) Close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return fmt.Errorf("failed to finalize WAV file: %w", err)
	}
	return w.file.Close()
}

func maxValue(bitDepth int) (float64, error) {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16, nil
	case bitsPerSample24:
		return maxInt24, nil
	case bitsPerSample32:
		return maxInt32, nil
	default:
		return 0, fmt.Errorf("unsupported bit depth: %d", bitDepth)
	}
}

// deinterleaveInto converts interleaved PCM ints to planar float32 in
// [-1, 1].
func deinterleaveInto(data []int, dst [][]float32, channels, frames int, invMax float64) {
	for i := range frames {
		for ch := range channels {
			dst[ch][i] = float32(float64(data[i*channels+ch]) * invMax)
		}
	}
}

// interleaveInto converts planar float32 back to PCM ints through q.
// scratch and dst must hold frames*len(src) samples.
func interleaveInto(src [][]float32, frames int, scratch []float32, dst []int, q *dither.Quantizer) []int {
	channels := len(src)
	n := frames * channels
	scratch = scratch[:n]

	if channels == stereoChannels {
		f32.Interleave2(scratch, src[0][:frames], src[1][:frames])
	} else {
		for i := range frames {
			for ch := range channels {
				scratch[i*channels+ch] = src[ch][i]
			}
		}
	}

	return q.QuantizeBlock(dst, scratch)
}
