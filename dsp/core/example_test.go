package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-oversample/dsp/core"
)

func ExampleDefaultProcessorConfig() {
	cfg := core.DefaultProcessorConfig()
	core.WithBlockSize(256)(&cfg)

	fmt.Printf("sampleRate=%.0f blockSize=%d channels=%d/%d\n",
		cfg.SampleRate, cfg.BlockSize, cfg.InputChannels, cfg.OutputChannels)

	// Output:
	// sampleRate=48000 blockSize=256 channels=2/2
}

func ExampleEnsureLen() {
	buf := make([]float64, 2, 4)
	buf[0], buf[1] = 1, 2
	buf = core.EnsureLen(buf, 4)
	buf[2], buf[3] = 3, 4
	fmt.Println(buf)

	core.Zero(buf[:2])
	fmt.Println(buf)

	// Output:
	// [1 2 3 4]
	// [0 0 3 4]
}
