package halfband

import "github.com/cwbudde/algo-oversample/dsp/core"

// Downsampler halves the sample rate of one channel: it low-pass filters at
// a quarter of the input rate and keeps every second sample.
type Downsampler[F core.Float] struct {
	filter allpassPair[F]
}

// NewDownsampler creates a downsampler from explicit coefficients.
func NewDownsampler[F core.Float](coeffs []float64) (*Downsampler[F], error) {
	d := &Downsampler[F]{}
	if err := d.SetCoefficients(coeffs); err != nil {
		return nil, err
	}

	return d, nil
}

// NewCascadeDownsampler creates a downsampler for cascade level 0..3.
func NewCascadeDownsampler[F core.Float](level int) (*Downsampler[F], error) {
	coeffs, err := CascadeCoefficients(level)
	if err != nil {
		return nil, err
	}

	return NewDownsampler[F](coeffs)
}

// SetCoefficients replaces the allpass coefficients and clears the state.
func (d *Downsampler[F]) SetCoefficients(coeffs []float64) error {
	return d.filter.setCoefficients(coeffs)
}

// ProcessSample consumes two consecutive input samples and returns one
// output sample.
func (d *Downsampler[F]) ProcessSample(in0, in1 F) F {
	a, b := d.filter.process(in1, in0)
	return 0.5 * (a + b)
}

// DownsampleBlock writes len(src)/2 samples to dst. len(src) must be even.
// dst may alias the first half of src.
func (d *Downsampler[F]) DownsampleBlock(dst, src []F) {
	if len(src)&1 != 0 {
		panic("halfband: DownsampleBlock requires an even number of input samples")
	}

	n := len(src) / 2
	dst = dst[:n]

	for i := range n {
		a, b := d.filter.process(src[2*i+1], src[2*i])
		dst[i] = 0.5 * (a + b)
	}

	d.filter.flushState()
}

// ClearState zeroes the delay lines.
func (d *Downsampler[F]) ClearState() {
	d.filter.clear()
}

// Coefficients returns a copy of the configured coefficients.
func (d *Downsampler[F]) Coefficients() []float64 {
	return d.filter.coefficients()
}

// NumberOfCoefficients returns the configured coefficient count.
func (d *Downsampler[F]) NumberOfCoefficients() int {
	return len(d.filter.coeffs)
}

var (
	_ Stage = (*Upsampler[float64])(nil)
	_ Stage = (*Downsampler[float32])(nil)
)
