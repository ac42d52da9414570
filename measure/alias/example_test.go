package alias_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-oversample/measure/alias"
)

func ExampleAnalyze() {
	const rate = 96000.0

	tone := 20000.0
	mirror := alias.MirrorFrequency(tone, rate/2)

	signal := make([]float64, 8192)
	for i := range signal {
		t := float64(i) / rate
		signal[i] = math.Sin(2*math.Pi*tone*t) + 0.001*math.Sin(2*math.Pi*mirror*t)
	}

	res, err := alias.Analyze(signal, alias.Config{
		SampleRate: rate,
		ToneHz:     tone,
		MirrorHz:   mirror,
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("mirror: %.0f Hz\n", mirror)
	fmt.Printf("rejection: %.1f dB\n", res.RejectionDB)
	// Output:
	// mirror: 28000 Hz
	// rejection: -60.0 dB
}
