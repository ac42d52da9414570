// Command osinfo prints properties of the half-band oversampling cascade.
//
// Usage:
//
//	osinfo [flags] [factor ...]
//
// Without arguments it prints a row for every supported factor.
//
// Examples:
//
//	osinfo
//	osinfo 2x 8x
//	osinfo -tone 20000 -fft 16384 4x
//	osinfo -window blackman-harris -stages
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-oversample/dsp/window"
)

func main() {
	rate := flag.Float64("rate", 48000, "host sample rate in Hz")
	tone := flag.Float64("tone", 18000, "test tone frequency in Hz")
	fft := flag.Int("fft", 8192, "FFT size at host rate (power of two)")
	win := flag.String("window", "kaiser", "analysis window (kaiser, blackman-harris, flat-top, ...)")
	beta := flag.Float64("beta", 20, "Kaiser beta")
	block := flag.Int("block", 64, "host block size in frames")
	stages := flag.Bool("stages", false, "also print the per-stage coefficient table")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: osinfo [flags] [factor ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints latency, passband error and mirror rejection of the\n")
		fmt.Fprintf(os.Stderr, "oversampling cascade. Without arguments, prints every factor.\n")
		fmt.Fprintf(os.Stderr, "Factors: %s\n\n", factorNames())
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  osinfo 2x 8x\n")
		fmt.Fprintf(os.Stderr, "  osinfo -tone 20000 -fft 16384 4x\n")
		fmt.Fprintf(os.Stderr, "  osinfo -stages\n")
	}
	flag.Parse()

	factors, err := parseFactors(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	wt, err := window.ParseType(*win)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg := measureConfig{
		hostRate:   *rate,
		toneHz:     *tone,
		fftSize:    *fft,
		window:     wt,
		kaiserBeta: *beta,
		blockSize:  *block,
	}

	rows := make([]factorRow, 0, len(factors))
	for _, f := range factors {
		row, err := measureFactor(f, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v: %v\n", f, err)
			os.Exit(1)
		}
		rows = append(rows, row)
	}

	if err := writeFactorTable(os.Stdout, rows); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *stages {
		fmt.Println()
		if err := writeStageTable(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}
