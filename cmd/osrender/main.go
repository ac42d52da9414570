// Command osrender runs a WAV file through an oversampled waveshaper.
//
// Usage:
//
//	osrender -shaper tanh -factor 4x input.wav output.wav
//	osrender -shaper sine -algorithm bend-after-sin -pull 0.7 input.wav out.wav
//	osrender -shaper fold -drive 3 -factor 16x -mix 0.5 input.wav out.wav
//	osrender -factor 2x -offline-factor 16x -offline input.wav out.wav
//
// The output is latency compensated unless -compensate=false is given.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/cwbudde/algo-oversample/dsp/dither"
	"github.com/cwbudde/algo-oversample/dsp/effects/shaper"
	"github.com/cwbudde/algo-oversample/dsp/oversample"
)

const (
	defaultBlockSize = 512
	minRequiredArgs  = 2
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	shaperName := flag.String("shaper", "tanh", "transfer curve: tanh, fasttanh, hardclip, fold, sine")
	algorithm := flag.String("algorithm", "bend-before-sin", "sine shaper algorithm (with -shaper sine)")
	pull := flag.Float64("pull", 0, "sine shaper pull in [0, 1]")
	bend := flag.Float64("bend", 0.5, "sine shaper bend in [0, 1]")
	drive := flag.Float64("drive", 2, "sine fold drive (with -shaper fold)")
	factor := flag.String("factor", "4x", "real-time oversampling factor: none, 2x, 4x, 8x, 16x")
	offlineFactor := flag.String("offline-factor", "none", "offline oversampling factor (none follows -factor)")
	offline := flag.Bool("offline", false, "render with the offline factor")
	inGain := flag.Float64("input-gain", 0, "input gain in dB [-24, 24]")
	outGain := flag.Float64("output-gain", 0, "output gain in dB [-96, 24]")
	mix := flag.Float64("mix", 1, "dry/wet mix in [0, 1]")
	block := flag.Int("block", defaultBlockSize, "processing block size in frames")
	compensate := flag.Bool("compensate", true, "remove the oversampling latency from the output")
	ditherName := flag.String("dither", "tpdf", "output dither: none, rpdf, tpdf")
	shaping := flag.String("noise-shaping", "None", "noise-shaping preset: None, EFB, 2SC, 3MEC, 3FC, 9FC, SBM")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -shaper tanh -factor 4x in.wav out.wav\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -shaper fold -drive 3 -factor 16x in.wav out.wav\n", os.Args[0])
		return fmt.Errorf("insufficient arguments")
	}

	inputPath := args[0]
	outputPath := args[1]

	transfer, err := buildTransfer(*shaperName, *algorithm, *pull, *bend, *drive)
	if err != nil {
		return err
	}

	rt, err := oversample.ParseFactor(*factor)
	if err != nil {
		return err
	}
	off, err := oversample.ParseFactor(*offlineFactor)
	if err != nil {
		return err
	}

	ditherType, err := dither.ParseDitherType(*ditherName)
	if err != nil {
		return err
	}
	preset, err := dither.ParsePreset(*shaping)
	if err != nil {
		return err
	}

	input, err := readWAV(inputPath)
	if err != nil {
		return err
	}

	if *verbose {
		log.Printf("Input: %s", inputPath)
		log.Printf("Output: %s", outputPath)
		log.Printf("Format: %d Hz, %d channels, %d-bit", input.rate, input.channels, input.bitDepth)
		log.Printf("Shaper: %s", *shaperName)

		in := measureLevels(input.planar)
		log.Printf("Input level: peak %.2f dBFS, RMS %.2f dBFS", in.Peak_dB, in.RMS_dB)
	}

	p, err := shaper.New(transfer,
		shaper.WithSampleRate(float64(input.rate)),
		shaper.WithChannels(input.channels),
		shaper.WithBlockSize(*block),
		shaper.WithInputGainDB(*inGain),
		shaper.WithOutputGainDB(*outGain),
		shaper.WithMix(*mix),
		shaper.WithRealtimeFactor(rt),
		shaper.WithOfflineFactor(off),
	)
	if err != nil {
		return err
	}
	p.SetRendering(*offline)

	if *verbose {
		log.Printf("Oversampling: %s, latency %.2f samples", p.Factor(), p.Latency())
	}

	start := time.Now()
	rendered := render(p, input.planar, *block, *compensate)
	elapsed := time.Since(start)

	err = writeWAV(outputPath, input.rate, input.bitDepth, rendered,
		dither.WithDitherType(ditherType),
		dither.WithPreset(preset),
	)
	if err != nil {
		return err
	}

	frames := len(rendered[0])
	fmt.Printf("Rendered %s -> %s\n", filepath.Base(inputPath), filepath.Base(outputPath))
	fmt.Printf("  %d Hz, %d channels, %d-bit, %d frames\n", input.rate, input.channels, input.bitDepth, frames)
	fmt.Printf("  Oversampling: %s, latency %.2f samples\n", p.Factor(), p.Latency())
	out := measureLevels(rendered)
	fmt.Printf("  Output: peak %.2f dBFS, RMS %.2f dBFS, %d clipped samples\n", out.Peak_dB, out.RMS_dB, out.Clipped)
	fmt.Printf("  Duration: %.2fs, Speed: %.1fx realtime\n",
		elapsed.Seconds(),
		float64(frames)/float64(input.rate)/elapsed.Seconds())

	return nil
}
