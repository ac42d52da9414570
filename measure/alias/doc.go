// Package alias measures how much of a test tone leaks into its mirror
// frequency after a sample-rate conversion.
//
// A sine at f processed at rate fs produces an image at fs-f when the
// conversion filters are imperfect. Analyze windows the signal, transforms
// it with a single FFT and compares the energy captured around the tone
// bin with the energy around the mirror bin:
//
//	res, err := alias.Analyze(out, alias.Config{
//	    SampleRate: 96000,
//	    ToneHz:     20000,
//	    MirrorHz:   alias.MirrorFrequency(20000, 48000),
//	})
//	fmt.Printf("rejection: %.1f dB\n", res.RejectionDB)
package alias
