package conv_test

import (
	"fmt"

	"github.com/cwbudde/algo-blockfx/dsp/conv"
)

func ExampleSpectralConvolver_ProcessBlock() {
	sc, err := conv.NewSpectralConvolver([]float64{1, 0.5, 0.25}, 4)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	for _, block := range [][]float64{{1, 0, 0, 0}, {0, 0, 0, 1}, {0, 0, 0, 0}} {
		out, _ := sc.ProcessBlock(block)
		for i, v := range out {
			out[i] = float64(int(v*1e6+0.5*sign(v))) / 1e6
		}
		fmt.Println(out)
	}
	fmt.Println("L =", sc.Length())

	// Output:
	// [1 0.5 0.25 0]
	// [0 0 0 1]
	// [0.5 0.25 0 0]
	// L = 6
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
