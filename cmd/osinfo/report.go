package main

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-oversample/dsp/filter/halfband"
	"github.com/cwbudde/algo-oversample/dsp/oversample"
	"github.com/cwbudde/algo-oversample/dsp/window"
	"github.com/cwbudde/algo-oversample/measure/alias"
)

type measureConfig struct {
	hostRate   float64
	toneHz     float64
	fftSize    int
	window     window.Type
	kaiserBeta float64
	blockSize  int
}

type factorRow struct {
	factor     oversample.Factor
	coeffs     int
	latency    float64
	passbandDB float64
	// mirror is only measured when the factor oversamples.
	mirror    alias.Result
	hasMirror bool
}

func parseFactors(args []string) ([]oversample.Factor, error) {
	if len(args) == 0 {
		return oversample.Factors[:], nil
	}

	out := make([]oversample.Factor, 0, len(args))
	for _, a := range args {
		f, err := oversample.ParseFactor(a)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}

	return out, nil
}

// measureFactor renders a tone through an oversampler running at f. The
// mirror is read from the oversampled stream seen by the callback and the
// passband error from the host-rate output.
func measureFactor(f oversample.Factor, cfg measureConfig) (factorRow, error) {
	if cfg.blockSize <= 0 {
		return factorRow{}, fmt.Errorf("block size must be positive: %d", cfg.blockSize)
	}

	o, err := oversample.New[float64](
		oversample.WithFactor(f),
		oversample.WithChannels(1, 1),
		oversample.WithBlockSize(cfg.blockSize),
	)
	if err != nil {
		return factorRow{}, err
	}

	rate := f.Rate()
	frames := 2 * cfg.fftSize
	frames += (cfg.blockSize - frames%cfg.blockSize) % cfg.blockSize

	in := tone(cfg.toneHz, cfg.hostRate, frames)
	out := make([]float64, frames)
	captured := make([]float64, 0, rate*frames)

	capture := oversample.ProcessorFunc[float64](func(inputs, outputs [][]float64, n int) {
		captured = append(captured, inputs[0][:n]...)
		copy(outputs[0][:n], inputs[0][:n])
	})

	for start := 0; start < frames; start += cfg.blockSize {
		end := start + cfg.blockSize
		o.ProcessBlock([][]float64{in[start:end]}, [][]float64{out[start:end]}, cfg.blockSize, 1, 1, capture)
	}

	row := factorRow{
		factor:  f,
		latency: o.Latency(),
	}
	for level := range f.Stages() {
		coeffs, err := halfband.CascadeCoefficients(level)
		if err != nil {
			return factorRow{}, err
		}
		row.coeffs += len(coeffs)
	}

	tail := frames - cfg.fftSize
	row.passbandDB, err = alias.PassbandErrorDB(in[tail:], out[tail:])
	if err != nil {
		return factorRow{}, err
	}

	if rate == 1 {
		return row, nil
	}

	row.mirror, err = alias.Analyze(captured, alias.Config{
		SampleRate: cfg.hostRate * float64(rate),
		ToneHz:     cfg.toneHz,
		MirrorHz:   alias.MirrorFrequency(cfg.toneHz, cfg.hostRate),
		FFTSize:    cfg.fftSize * rate,
		Window:     cfg.window,
		KaiserBeta: cfg.kaiserBeta,
	})
	if err != nil {
		return factorRow{}, err
	}
	row.hasMirror = true

	return row, nil
}

func tone(freqHz, sampleRate float64, n int) []float64 {
	osc := make([]float64, n)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range osc {
		osc[i] = math.Sin(step * float64(i))
	}

	return osc
}

func writeFactorTable(w io.Writer, rows []factorRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Factor\tStages\tCoeffs\tLatency [samples]\tPassband [dB]\tTone [dBFS]\tMirror [dBFS]\tRejection [dB]\n"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "------\t------\t------\t-----------------\t-------------\t-----------\t-------------\t--------------\n"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range rows {
		tone, mirror, rejection := "-", "-", "-"
		if r.hasMirror {
			tone = fmt.Sprintf("%.2f", r.mirror.ToneLevel)
			mirror = fmt.Sprintf("%.1f", r.mirror.MirrorLevel)
			rejection = fmt.Sprintf("%.1f", r.mirror.RejectionDB)
		}

		if _, err := fmt.Fprintf(tw, "%s\t%d\t%d\t%.4f\t%.4f\t%s\t%s\t%s\n",
			r.factor,
			r.factor.Stages(),
			r.coeffs,
			r.latency,
			r.passbandDB,
			tone,
			mirror,
			rejection,
		); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	return tw.Flush()
}

// writeStageTable prints each cascade level with its DC group delay and its
// share of the host-rate latency.
func writeStageTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Level\tConversion\tCoeffs\tGroup Delay [samples]\tLatency Share [host samples]\n"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "-----\t----------\t------\t---------------------\t----------------------------\n"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for level := range halfband.NumCascadeLevels {
		coeffs, err := halfband.CascadeCoefficients(level)
		if err != nil {
			return err
		}

		gd := halfband.GroupDelay(coeffs, 0)
		share := (2*gd - 1) / float64(int(2)<<level)
		conv := fmt.Sprintf("%dx<->%dx", 1<<level, 2<<level)

		if _, err := fmt.Fprintf(tw, "%d\t%s\t%d\t%.4f\t%.4f\n", level, conv, len(coeffs), gd, share); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	return tw.Flush()
}

func factorNames() string {
	names := make([]string, len(oversample.Factors))
	for i, f := range oversample.Factors {
		names[i] = f.String()
	}

	return strings.Join(names, ", ")
}
