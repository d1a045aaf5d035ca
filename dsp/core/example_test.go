package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-aec/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(44100),
		core.WithBlockSize(256),
		core.WithTaps(512),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d taps=%d valid=%v\n",
		cfg.SampleRate, cfg.BlockSize, cfg.Taps, cfg.Validate() == nil)

	// Output:
	// sampleRate=44100 blockSize=256 taps=512 valid=true
}

func ExampleNarrow() {
	acc := []float64{0.1, 0.2, 0.3}
	out := make([]float32, 2)

	n := core.Narrow(out, acc)
	fmt.Println(n, out)

	// Output:
	// 2 [0.1 0.2]
}
