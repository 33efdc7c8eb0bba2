package thd_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/fission/measure/thd"
)

func ExampleAnalyzeSignal() {
	sampleRate := 48000.0
	fftSize := 4096
	fundamental := 64 * sampleRate / float64(fftSize)

	signal := make([]float32, fftSize)
	for i := range signal {
		t := float64(i) / sampleRate
		signal[i] = float32(math.Sin(2*math.Pi*fundamental*t) + 0.02*math.Sin(2*math.Pi*2*fundamental*t))
	}

	res, err := thd.AnalyzeSignal(signal, thd.Config{
		SampleRate:      sampleRate,
		FundamentalFreq: fundamental,
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("THD: %.2f%%\n", res.THD*100)
	fmt.Printf("SINAD: %.1f dB\n", res.SINAD)
	// Output:
	// THD: 2.00%
	// SINAD: 34.0 dB
}
