package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/fission/dsp/dither"
	"github.com/cwbudde/fission/dsp/kernel"
	"github.com/cwbudde/fission/dsp/param"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRamp(t *testing.T) {
	from, to, err := parseRamp("-20:20")
	require.NoError(t, err)
	assert.Equal(t, float32(-20), from)
	assert.Equal(t, float32(20), to)

	from, to, err = parseRamp(" 1 : 8.5 ")
	require.NoError(t, err)
	assert.Equal(t, float32(1), from)
	assert.Equal(t, float32(8.5), to)

	for _, bad := range []string{"", "10", "a:b", "1:"} {
		_, _, err := parseRamp(bad)
		assert.Errorf(t, err, "ramp %q", bad)
	}
}

func TestRampTargets(t *testing.T) {
	assert.Equal(t, param.DelayTime, newRamp(kernel.NameHaasSmooth, 0, 1, 64).address)
	assert.Equal(t, param.Gain, newRamp(kernel.NameTube, 1, 4, 64).address)
	assert.Equal(t, 1, newRamp(kernel.NameTube, 1, 4, 0).step)
}

func TestRampEvents(t *testing.T) {
	r := newRamp(kernel.NameHaas, -10, 10, 100)
	r.total = 1001

	events := r.appendEvents(nil, 0, 250)
	require.Len(t, events, 3)
	assert.Equal(t, int64(0), events[0].SampleTime)
	assert.Equal(t, int64(200), events[2].SampleTime)
	assert.Equal(t, float32(-10), events[0].Value)
	assert.InDelta(t, -6, events[2].Value, 1e-5)

	// Next block starts mid-step; the first event lands on the grid.
	events = r.appendEvents(events[:0], 250, 250)
	require.Len(t, events, 2)
	assert.Equal(t, int64(300), events[0].SampleTime)
	assert.Equal(t, int64(400), events[1].SampleTime)

	assert.Equal(t, float32(10), r.valueAt(1000))
	assert.Equal(t, float32(10), r.valueAt(5000))
	assert.Equal(t, float32(-10), r.valueAt(-5))
}

func TestOutOfRange(t *testing.T) {
	values := map[param.Address]float32{
		param.DelayTime:    -80,
		param.DelayChannel: 1,
		param.Gain:         20,
	}

	haas, err := kernel.DefaultRegistry().New(kernel.NameHaas)
	require.NoError(t, err)
	msgs := outOfRange(haas, values)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "delayTime -80")

	tube := kernel.NewTubeKernel()
	msgs = outOfRange(tube, values)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "gain 20")

	assert.Empty(t, outOfRange(tube, map[param.Address]float32{param.Gain: 4}))
}

func TestInterleaveRoundTrip(t *testing.T) {
	q, err := dither.NewQuantizer(dither.WithType(dither.None))
	require.NoError(t, err)

	for _, channels := range []int{1, 2, 3} {
		src := make([][]float32, channels)
		for ch := range src {
			src[ch] = []float32{0.5, -0.25, 2, -2}
		}
		scratch := make([]float32, 4*channels)
		ints := make([]int, 4*channels)

		out := interleaveInto(src, 4, scratch, ints, q)
		require.Len(t, out, 4*channels)
		assert.Equal(t, 16384, out[0])
		assert.Equal(t, int(maxInt16), out[2*channels], "clamped high")
		assert.Equal(t, -int(maxInt16), out[3*channels], "clamped low")

		back := make([][]float32, channels)
		for ch := range back {
			back[ch] = make([]float32, 4)
		}
		deinterleaveInto(out, back, channels, 4, 1/maxInt16)
		assert.InDelta(t, -0.25, back[channels-1][1], 1e-4)
	}
}

func TestMaxValue(t *testing.T) {
	v, err := maxValue(24)
	require.NoError(t, err)
	assert.Equal(t, maxInt24, v)

	_, err = maxValue(8)
	assert.Error(t, err)
}

func TestOutputChannelCount(t *testing.T) {
	assert.Equal(t, 2, outputChannelCount(renderConfig{kernelName: kernel.NameHaas}, 1))
	assert.Equal(t, 1, outputChannelCount(renderConfig{kernelName: kernel.NameTube}, 1))
	assert.Equal(t, 4, outputChannelCount(renderConfig{kernelName: kernel.NameTube, outChannels: 4}, 2))
}

func writeTestWAV(t *testing.T, path string, channels int, data []int) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, 48000, 16, channels, wavFormatPCM)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: 48000},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())
}

func readTestWAV(t *testing.T, path string) *audio.IntBuffer {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	buf, err := wav.NewDecoder(f).FullPCMBuffer()
	require.NoError(t, err)
	return buf
}

func TestRenderFileDelaysLeftChannel(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.wav")
	outPath := filepath.Join(dir, "out.wav")

	const frames = 4800
	data := make([]int, frames*2)
	data[100*2] = 16384
	data[100*2+1] = 16384
	writeTestWAV(t, inPath, 2, data)

	k, err := kernel.DefaultRegistry().New(kernel.NameHaas)
	require.NoError(t, err)

	stats, err := renderFile(k, inPath, outPath, renderConfig{
		kernelName: kernel.NameHaas,
		blockSize:  512,
		setup: func(k kernel.Kernel) {
			applyInitialParameters(k, -10, 0, 1, false)
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(frames), stats.frames)
	assert.Equal(t, 10, stats.blocks)
	assert.Equal(t, 2, stats.outChannels)

	out := readTestWAV(t, outPath)
	require.Equal(t, 2, out.Format.NumChannels)
	require.Len(t, out.Data, frames*2)

	assert.Zero(t, out.Data[100*2], "left is delayed")
	assert.InDelta(t, 16384, out.Data[580*2], 1)
	assert.InDelta(t, 16384, out.Data[100*2+1], 1)
	assert.Zero(t, out.Data[580*2+1])
}

func TestRenderFileResetRestoresDefaults(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.wav")
	outPath := filepath.Join(dir, "out.wav")

	const frames = 3072
	data := make([]int, frames*2)
	for _, at := range []int{100, 2000} {
		data[at*2] = 16384
		data[at*2+1] = 16384
	}
	writeTestWAV(t, inPath, 2, data)

	k, err := kernel.DefaultRegistry().New(kernel.NameHaas)
	require.NoError(t, err)

	// The reset lands mid-block, 488 frames into the second block.
	_, err = renderFile(k, inPath, outPath, renderConfig{
		kernelName: kernel.NameHaas,
		blockSize:  512,
		resetAt:    1000,
		setup: func(k kernel.Kernel) {
			applyInitialParameters(k, -10, 0, 1, false)
		},
	})
	require.NoError(t, err)
	assert.Zero(t, k.Parameter(param.DelayTime))

	out := readTestWAV(t, outPath)
	require.Len(t, out.Data, frames*2)

	assert.InDelta(t, 16384, out.Data[580*2], 1, "delayed before the reset")
	assert.InDelta(t, 16384, out.Data[2000*2], 1, "dry after the reset")
	assert.Zero(t, out.Data[2480*2])
	assert.InDelta(t, 16384, out.Data[2000*2+1], 1)
}

func TestRenderWithResetSplitsEvents(t *testing.T) {
	k, err := kernel.DefaultRegistry().New(kernel.NameTube)
	require.NoError(t, err)
	require.NoError(t, k.Initialize(1, 1, 48000))
	k.SetMaximumFramesToRender(256)

	format := &audio.Format{NumChannels: 1, SampleRate: 48000}
	b := newBlockBuffers(format, 1, 1, 256, 64)
	b.events = append(b.events,
		param.Event{SampleTime: 1000, Address: param.Gain, Value: 3},
		param.Event{SampleTime: 1200, Address: param.Gain, Value: 6},
	)

	renderWithReset(k, b, 1000, 256, 100)
	assert.Equal(t, float32(6), k.Parameter(param.Gain), "event after the split survives")

	b.events = append(b.events[:0], param.Event{SampleTime: 1300, Address: param.Gain, Value: 8})
	renderWithReset(k, b, 1256, 256, 200)
	assert.Equal(t, float32(1), k.Parameter(param.Gain), "event before the split is reset")
}

func TestRenderFileMonoToStereoWithAnalysis(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "mono.wav")
	outPath := filepath.Join(dir, "wide.wav")

	const frames = 9600
	data := make([]int, frames)
	for i := range data {
		data[i] = int(8000 * math.Sin(2*math.Pi*1500*float64(i)/48000))
	}
	writeTestWAV(t, inPath, 1, data)

	k, err := kernel.DefaultRegistry().New(kernel.NameHaasSmooth)
	require.NoError(t, err)

	r := newRamp(kernel.NameHaasSmooth, 0, 15, 64)
	stats, err := renderFile(k, inPath, outPath, renderConfig{
		kernelName: kernel.NameHaasSmooth,
		blockSize:  256,
		analyze:    true,
		ramp:       r,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.outChannels)
	require.NotNil(t, stats.report)
	assert.InDelta(t, 1500, stats.report.peakHz, 120)
	require.Len(t, stats.report.levels, 2)
	assert.InDelta(t, 8000.0/maxInt16, stats.report.levels[0].Peak, 1e-3)
	assert.InDelta(t, 8000.0/maxInt16/math.Sqrt2, stats.report.levels[0].RMS, 1e-3)
	assert.Equal(t, frames, stats.report.levels[1].Length)
	// The sweep comb-filters the channel average, but a pure tone stays
	// free of harmonics.
	assert.Less(t, stats.report.distortion.THD, 0.01)

	var text bytes.Buffer
	stats.report.print(&text)
	assert.Contains(t, text.String(), "Spectral centroid")
	assert.Contains(t, text.String(), "THD")

	out := readTestWAV(t, outPath)
	require.Len(t, out.Data, frames*2)
	// Left stays dry for a positive sweep.
	for i := 0; i < frames; i += 97 {
		require.InDeltaf(t, data[i], out.Data[i*2], 1, "frame %d", i)
	}
}

func TestRenderFileDithersQuietOutput(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "silence.wav")
	outPath := filepath.Join(dir, "dithered.wav")

	const frames = 2048
	writeTestWAV(t, inPath, 1, make([]int, frames))

	k, err := kernel.DefaultRegistry().New(kernel.NameTube)
	require.NoError(t, err)
	_, err = renderFile(k, inPath, outPath, renderConfig{
		kernelName: kernel.NameTube,
		blockSize:  512,
		dither:     dither.Triangular,
		ditherSeed: 99,
	})
	require.NoError(t, err)

	out := readTestWAV(t, outPath)
	require.Len(t, out.Data, frames)
	nonZero := 0
	for _, v := range out.Data {
		require.LessOrEqual(t, v, 1)
		require.GreaterOrEqual(t, v, -1)
		if v != 0 {
			nonZero++
		}
	}
	assert.Positive(t, nonZero)
}

func TestRenderFileRejectsMissingInput(t *testing.T) {
	k := kernel.NewTubeKernel()
	_, err := renderFile(k, filepath.Join(t.TempDir(), "nope.wav"), "out.wav", renderConfig{blockSize: 512})
	assert.Error(t, err)

	_, err = renderFile(k, "in.wav", "out.wav", renderConfig{blockSize: 0})
	assert.Error(t, err)
}
