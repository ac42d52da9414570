package shaper

import (
	"math"

	approx "github.com/meko-christian/algo-approx"
)

// fastTanhLimit bounds the FastTanh argument; tanh(9) rounds to 1 within
// the accuracy of the approximation.
const fastTanhLimit = 9

// TransferFunc maps one input sample to one output sample. It must be
// stateless and allocation-free.
type TransferFunc func(x float64) float64

// Tanh saturates smoothly towards +-1.
func Tanh(x float64) float64 {
	return math.Tanh(x)
}

// FastTanh approximates Tanh through a fast exponential, within a few
// percent of full scale.
func FastTanh(x float64) float64 {
	x = math.Max(-fastTanhLimit, math.Min(fastTanhLimit, x))
	return 1 - 2/(approx.FastExp(2*x)+1)
}

// HardClip limits x to [-1, 1].
func HardClip(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}

// SineFold returns a wavefolder sin(drive*x*pi/2). Inputs beyond
// +-1/drive fold back towards zero.
func SineFold(drive float64) TransferFunc {
	k := drive * math.Pi / 2

	return func(x float64) float64 {
		return math.Sin(k * x)
	}
}
