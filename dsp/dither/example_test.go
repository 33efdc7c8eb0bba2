package dither_test

import (
	"fmt"

	"github.com/cwbudde/fission/dsp/dither"
)

func ExampleQuantizer() {
	q, err := dither.NewQuantizer(dither.WithBitDepth(24), dither.WithType(dither.None))
	if err != nil {
		fmt.Println(err)
		return
	}

	pcm := q.QuantizeBlock(make([]int, 3), []float32{0.5, -1, 1.5})
	fmt.Println(pcm)
	// Output:
	// [4194304 -8388607 8388607]
}
