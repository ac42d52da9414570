package dither

import "github.com/cwbudde/algo-vecmath"

// NoiseShaper implements error-feedback noise shaping with FIR coefficients.
// Per sample, call Shape on the scaled input and then RecordError with the
// difference between the quantized and the shaped value.
type NoiseShaper struct {
	coeffs []float64
	// errs[i] is the error recorded i+1 samples ago.
	errs []float64
}

// NewNoiseShaper creates a shaper with the given coefficients. A nil or
// empty slice creates a pass-through.
func NewNoiseShaper(coeffs []float64) *NoiseShaper {
	c := make([]float64, len(coeffs))
	copy(c, coeffs)
	return &NoiseShaper{
		coeffs: c,
		errs:   make([]float64, len(c)),
	}
}

// Order returns the number of feedback taps.
func (s *NoiseShaper) Order() int { return len(s.coeffs) }

// Shape subtracts weighted past quantization errors from input.
func (s *NoiseShaper) Shape(input float64) float64 {
	if len(s.coeffs) == 0 {
		return input
	}
	return input - vecmath.DotProduct(s.coeffs, s.errs)
}

// RecordError stores the quantization error of the current sample.
func (s *NoiseShaper) RecordError(quantizationError float64) {
	if len(s.errs) == 0 {
		return
	}
	copy(s.errs[1:], s.errs)
	s.errs[0] = quantizationError
}

// Reset clears the error history.
func (s *NoiseShaper) Reset() {
	clear(s.errs)
}
