package resample_test

import (
	"fmt"

	"github.com/cwbudde/algo-blockfx/dsp/resample"
)

func ExampleNewForRates() {
	r, err := resample.NewForRates(44100, 48000, resample.WithQuality(resample.QualityBest))
	if err != nil {
		panic(err)
	}
	up, down := r.Ratio()
	fmt.Printf("ratio=%d/%d\n", up, down)
	// Output:
	// ratio=160/147
}

func ExampleConvert() {
	ir := make([]float64, 441)
	ir[0] = 1
	out, err := resample.Convert(ir, 44100, 22050)
	if err != nil {
		panic(err)
	}
	fmt.Println(len(out))
	// Output:
	// 221
}
