package alias

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-oversample/dsp/core"
	"github.com/cwbudde/algo-oversample/dsp/window"
)

const (
	defaultSearchBins  = 3
	defaultCaptureBins = 4
	defaultKaiserBeta  = 20
	minFFTSize         = 64
)

var (
	// ErrInvalidConfig indicates a sample rate or frequency outside the
	// analyzable range.
	ErrInvalidConfig = errors.New("alias: invalid config")
	// ErrShortSignal indicates fewer samples than the FFT size.
	ErrShortSignal = errors.New("alias: signal shorter than FFT size")
)

// Config holds mirror analysis parameters.
type Config struct {
	SampleRate float64
	ToneHz     float64
	MirrorHz   float64
	// FFTSize must be a power of two. Zero selects the largest power of two
	// that fits the signal.
	FFTSize int
	// Window selects the analysis window. Rectangular leaks too much for
	// this measurement, so the zero value selects Kaiser.
	Window     window.Type
	KaiserBeta float64
	// SearchBins is the peak search radius around the expected bins.
	SearchBins int
	// CaptureBins is the number of bins on each side of a peak summed into
	// its level.
	CaptureBins int
}

// Result holds levels in dBFS of a full-scale sine and the rejection of the
// mirror relative to the tone.
type Result struct {
	ToneLevel   float64
	MirrorLevel float64
	RejectionDB float64
	ToneBin     int
	MirrorBin   int
	RMS         float64
}

// MirrorFrequency returns the frequency at which an imperfect 2x
// conversion at hostRate images a tone at toneHz.
func MirrorFrequency(toneHz, hostRate float64) float64 {
	return hostRate - toneHz
}

// Analyze measures tone and mirror levels in the last FFTSize samples of
// signal. Earlier samples are skipped so filter transients do not count.
func Analyze(signal []float64, cfg Config) (Result, error) {
	cfg, err := normalizeConfig(cfg, len(signal))
	if err != nil {
		return Result{}, err
	}

	n := cfg.FFTSize
	tail := signal[len(signal)-n:]

	coeffs := window.Generate(cfg.Window, n, window.WithPeriodic(), window.WithAlpha(cfg.KaiserBeta))
	windowed := make([]float64, n)
	if err := window.ApplyCoefficients(windowed, tail, coeffs); err != nil {
		return Result{}, err
	}

	gain, err := window.CoherentGain(coeffs)
	if err != nil {
		return Result{}, err
	}

	power, err := powerSpectrum(windowed)
	if err != nil {
		return Result{}, err
	}

	// Full-scale sine reads 0 dB.
	scale := 2 / (float64(n) * gain)
	floats.Scale(scale*scale, power)

	// Band sums of a sine exceed its peak power by the window ENBW.
	enbw, err := window.EquivalentNoiseBandwidth(coeffs)
	if err != nil {
		return Result{}, err
	}

	binHz := cfg.SampleRate / float64(n)

	toneBin := peakBin(power, int(math.Round(cfg.ToneHz/binHz)), cfg.SearchBins)
	mirrorBin := peakBin(power, int(math.Round(cfg.MirrorHz/binHz)), cfg.SearchBins)

	res := Result{
		ToneBin:     toneBin,
		MirrorBin:   mirrorBin,
		ToneLevel:   core.LinearPowerToDB(bandPower(power, toneBin, cfg.CaptureBins) / enbw),
		MirrorLevel: core.LinearPowerToDB(bandPower(power, mirrorBin, cfg.CaptureBins) / enbw),
		RMS:         floats.Norm(tail, 2) / math.Sqrt(float64(n)),
	}
	res.RejectionDB = res.MirrorLevel - res.ToneLevel

	return res, nil
}

// PassbandErrorDB returns the RMS level difference of output relative to
// input in dB. Both slices must have equal, non-zero length.
func PassbandErrorDB(input, output []float64) (float64, error) {
	if len(input) == 0 || len(input) != len(output) {
		return 0, fmt.Errorf("%w: lengths %d and %d", ErrInvalidConfig, len(input), len(output))
	}

	in := floats.Norm(input, 2)
	if in == 0 {
		return 0, fmt.Errorf("%w: silent input", ErrInvalidConfig)
	}

	return core.LinearToDB(floats.Norm(output, 2) / in), nil
}

func normalizeConfig(cfg Config, signalLen int) (Config, error) {
	if cfg.SampleRate <= 0 {
		return cfg, fmt.Errorf("%w: sample rate %v", ErrInvalidConfig, cfg.SampleRate)
	}

	nyquist := cfg.SampleRate / 2
	if cfg.ToneHz <= 0 || cfg.ToneHz >= nyquist {
		return cfg, fmt.Errorf("%w: tone %v Hz outside (0, %v)", ErrInvalidConfig, cfg.ToneHz, nyquist)
	}
	if cfg.MirrorHz <= 0 || cfg.MirrorHz >= nyquist {
		return cfg, fmt.Errorf("%w: mirror %v Hz outside (0, %v)", ErrInvalidConfig, cfg.MirrorHz, nyquist)
	}

	if cfg.FFTSize == 0 {
		cfg.FFTSize = minFFTSize
		for cfg.FFTSize*2 <= signalLen {
			cfg.FFTSize *= 2
		}
	}
	if cfg.FFTSize < minFFTSize || cfg.FFTSize&(cfg.FFTSize-1) != 0 {
		return cfg, fmt.Errorf("%w: FFT size %d", ErrInvalidConfig, cfg.FFTSize)
	}
	if signalLen < cfg.FFTSize {
		return cfg, fmt.Errorf("%w: %d < %d", ErrShortSignal, signalLen, cfg.FFTSize)
	}

	if cfg.Window == window.TypeRectangular {
		cfg.Window = window.TypeKaiser
	}
	if cfg.KaiserBeta == 0 {
		cfg.KaiserBeta = defaultKaiserBeta
	}
	if cfg.SearchBins <= 0 {
		cfg.SearchBins = defaultSearchBins
	}
	if cfg.CaptureBins <= 0 {
		cfg.CaptureBins = defaultCaptureBins
		if cfg.Window == window.TypeKaiser {
			// Main lobe half width of Kaiser is sqrt(1+(beta/pi)^2) bins.
			cfg.CaptureBins = int(math.Ceil(math.Sqrt(1+(cfg.KaiserBeta/math.Pi)*(cfg.KaiserBeta/math.Pi)))) + 1
		}
	}

	return cfg, nil
}

// powerSpectrum returns |X[k]|^2 for bins 0..n/2.
func powerSpectrum(x []float64) ([]float64, error) {
	n := len(x)

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, err
	}

	in := make([]complex128, n)
	for i, v := range x {
		in[i] = complex(v, 0)
	}

	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return nil, err
	}

	bins := n/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for k := range bins {
		re[k] = real(out[k])
		im[k] = imag(out[k])
	}

	power := make([]float64, bins)
	vecmath.Power(power, re, im)

	return power, nil
}

func peakBin(power []float64, center, radius int) int {
	lo := max(center-radius, 0)
	hi := min(center+radius, len(power)-1)
	if lo > hi {
		return clampInt(center, 0, len(power)-1)
	}

	return lo + floats.MaxIdx(power[lo:hi+1])
}

func bandPower(power []float64, center, radius int) float64 {
	lo := max(center-radius, 0)
	hi := min(center+radius, len(power)-1)

	return floats.Sum(power[lo : hi+1])
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
