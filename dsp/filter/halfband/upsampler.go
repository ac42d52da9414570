package halfband

import "github.com/cwbudde/algo-oversample/dsp/core"

// Stage is the direction-independent part of a 2x rate converter.
type Stage interface {
	// ClearState zeroes the delay lines.
	ClearState()
	// NumberOfCoefficients returns the allpass coefficient count.
	NumberOfCoefficients() int
}

// Upsampler doubles the sample rate of one channel. Each input sample yields
// two output samples with the mirror spectrum above the original Nyquist
// frequency removed.
type Upsampler[F core.Float] struct {
	filter allpassPair[F]
}

// NewUpsampler creates an upsampler from explicit coefficients.
func NewUpsampler[F core.Float](coeffs []float64) (*Upsampler[F], error) {
	u := &Upsampler[F]{}
	if err := u.SetCoefficients(coeffs); err != nil {
		return nil, err
	}

	return u, nil
}

// NewCascadeUpsampler creates an upsampler for cascade level 0..3.
func NewCascadeUpsampler[F core.Float](level int) (*Upsampler[F], error) {
	coeffs, err := CascadeCoefficients(level)
	if err != nil {
		return nil, err
	}

	return NewUpsampler[F](coeffs)
}

// SetCoefficients replaces the allpass coefficients and clears the state.
func (u *Upsampler[F]) SetCoefficients(coeffs []float64) error {
	return u.filter.setCoefficients(coeffs)
}

// ProcessSample consumes one input sample and returns two output samples.
func (u *Upsampler[F]) ProcessSample(input F) (out0, out1 F) {
	return u.filter.process(input, input)
}

// UpsampleBlock writes 2*len(src) samples to dst. dst must not overlap src.
func (u *Upsampler[F]) UpsampleBlock(dst, src []F) {
	dst = dst[:2*len(src)]

	for i, x := range src {
		dst[2*i], dst[2*i+1] = u.filter.process(x, x)
	}

	u.filter.flushState()
}

// ClearState zeroes the delay lines.
func (u *Upsampler[F]) ClearState() {
	u.filter.clear()
}

// Coefficients returns a copy of the configured coefficients.
func (u *Upsampler[F]) Coefficients() []float64 {
	return u.filter.coefficients()
}

// NumberOfCoefficients returns the configured coefficient count.
func (u *Upsampler[F]) NumberOfCoefficients() int {
	return len(u.filter.coeffs)
}
