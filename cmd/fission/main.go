// Command fission renders a WAV file through one of the fission kernels.
//
// Usage:
//
//	fission [flags] input.wav output.wav
//
// The file is streamed block by block through kernel.Render exactly as a
// real-time host would drive it. Parameters can be fixed with flags or
// swept across the file with -ramp, which schedules sample-accurate
// parameter events.
//
// Examples:
//
//	fission -kernel haas -delay -10 in.wav out.wav
//	fission -kernel haas-smooth -ramp -20:20 in.wav out.wav
//	fission -kernel tube -gain 4 -analyze in.wav out.wav
//	fission -kernel tube -dither none in24.wav out24.wav
//	fission -kernel haas -delay 15 -reset-at 96000 in.wav out.wav
//	fission -list
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cwbudde/fission/dsp/core"
	"github.com/cwbudde/fission/dsp/dither"
	"github.com/cwbudde/fission/dsp/kernel"
	"github.com/cwbudde/fission/dsp/param"
)

const (
	defaultBlockSize = 512
	defaultRampStep  = 64
	minRequiredArgs  = 2
	msPerSecond      = 1000
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fission: %v", err)
	}
}

func run() error {
	kernelName := flag.String("kernel", kernel.NameHaas, "kernel to render with (see -list)")
	delayMs := flag.Float64("delay", 0, "delay time in ms (negative delays the left channel for signed kernels)")
	channel := flag.Int("channel", 0, "delayed channel for haas-selector: 0 left, 1 right")
	gain := flag.Float64("gain", 1, "tube drive gain, 1..10")
	bypass := flag.Bool("bypass", false, "start bypassed")
	blockSize := flag.Int("block", defaultBlockSize, "render block size in frames")
	outChannels := flag.Int("out-channels", 0, "output channel count (0: input count, at least 2 for haas kernels)")
	rampSpec := flag.String("ramp", "", "sweep the main parameter linearly across the file, from:to")
	rampStep := flag.Int("ramp-step", defaultRampStep, "frames between ramp events")
	maxDelayMs := flag.Float64("max-delay", 0, "delay range in ms (0: default 50)")
	smoothingMs := flag.Float64("smoothing", 0, "control smoothing time constant in ms (0: default 20)")
	trimDB := flag.Float64("trim", 0, "output trim in dB")
	ditherName := flag.String("dither", dither.Triangular.String(), "output dither: none, rect or tpdf")
	ditherSeed := flag.Uint64("seed", 0, "dither noise seed (0: random)")
	resetAt := flag.Int64("reset-at", 0, "frame at which every parameter returns to its default (0: never)")
	analyze := flag.Bool("analyze", false, "print levels, spectrum and distortion of the output")
	list := flag.Bool("list", false, "list kernels and their parameters")
	verbose := flag.Bool("v", false, "verbose output")
	flag.Usage = usage
	flag.Parse()

	registry := kernel.DefaultRegistry()
	if *list {
		return printKernels(registry)
	}

	args := flag.Args()
	if len(args) < minRequiredArgs {
		usage()
		return fmt.Errorf("insufficient arguments")
	}

	opts := []core.KernelOption{core.WithMaxFrames(uint32(max(*blockSize, 1)))}
	if *maxDelayMs > 0 {
		opts = append(opts, core.WithMaxDelay(*maxDelayMs/msPerSecond))
	}
	if *smoothingMs > 0 {
		opts = append(opts, core.WithSmoothingTime(*smoothingMs/msPerSecond))
	}

	k, err := registry.New(*kernelName, opts...)
	if err != nil {
		return err
	}

	flagValues := map[param.Address]float32{
		param.DelayTime:    float32(*delayMs),
		param.DelayChannel: float32(*channel),
		param.Gain:         float32(*gain),
	}
	for _, msg := range outOfRange(k, flagValues) {
		log.Printf("warning: %s", msg)
	}

	ditherType, err := dither.ParseType(*ditherName)
	if err != nil {
		return err
	}

	var rmp *ramp
	if *rampSpec != "" {
		from, to, err := parseRamp(*rampSpec)
		if err != nil {
			return err
		}
		rmp = newRamp(*kernelName, from, to, *rampStep)
	}

	cfg := renderConfig{
		kernelName:  *kernelName,
		blockSize:   *blockSize,
		outChannels: *outChannels,
		trimDB:      *trimDB,
		dither:      ditherType,
		ditherSeed:  *ditherSeed,
		resetAt:     *resetAt,
		analyze:     *analyze,
		verbose:     *verbose,
		ramp:        rmp,
		setup: func(k kernel.Kernel) {
			applyInitialParameters(k, float32(*delayMs), float32(*channel), float32(*gain), *bypass)
		},
	}

	start := time.Now()
	stats, err := renderFile(k, args[0], args[1], cfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("Rendered %s -> %s with %s\n", args[0], args[1], *kernelName)
	fmt.Printf("  %d Hz, %d -> %d channels, %d frames in %d blocks\n",
		stats.sampleRate, stats.inChannels, stats.outChannels, stats.frames, stats.blocks)
	if elapsed > 0 && stats.sampleRate > 0 {
		fmt.Printf("  Speed: %.1fx realtime\n",
			float64(stats.frames)/float64(stats.sampleRate)/elapsed.Seconds())
	}
	if stats.report != nil {
		stats.report.print(os.Stdout)
	}
	return nil
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: fission [flags] input.wav output.wav\n\n")
	fmt.Fprintf(os.Stderr, "Renders a WAV file through a fission kernel.\n\n")
	fmt.Fprintf(os.Stderr, "Flags:\n")
	flag.PrintDefaults()
}

func printKernels(r *kernel.Registry) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KERNEL\tPARAMETER\tRANGE\tDEFAULT")
	for _, name := range r.Names() {
		k, err := r.New(name)
		if err != nil {
			return err
		}
		for _, p := range k.Params() {
			fmt.Fprintf(tw, "%s\t%s\t%g..%g %s\t%g\n", name, p.Identifier, p.Min, p.Max, p.Unit, p.Default)
		}
	}
	return tw.Flush()
}

func isDelayKernel(name string) bool {
	return strings.HasPrefix(name, kernel.NameHaas)
}
