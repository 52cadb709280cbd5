package synth_test

import (
	"fmt"

	"github.com/cwbudde/algo-blockfx/dsp/synth"
)

func ExampleKarplusStrong_Generate() {
	ks, err := synth.NewKarplusStrong([]float64{1, 0, 0, 0}, 1)
	if err != nil {
		panic(err)
	}
	fmt.Println(ks.Generate(8))
	// Output:
	// [1 0 0 0 0.5 0 0 0.25]
}

func ExampleLengthForFrequency() {
	n := synth.LengthForFrequency(44100, 440)
	fmt.Printf("N=%d f=%.1f Hz\n", n, synth.FrequencyForLength(44100, n))
	// Output:
	// N=100 f=441.0 Hz
}
