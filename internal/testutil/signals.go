package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-oversample/dsp/core"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Planar returns channels independent copies of sig converted to F.
func Planar[F core.Float](sig []float64, channels int) [][]F {
	out := make([][]F, channels)
	for c := range out {
		out[c] = make([]F, len(sig))
		for i, v := range sig {
			out[c][i] = F(v)
		}
	}
	return out
}

// PlanarZeros returns channels zero-filled slices of length frames.
func PlanarZeros[F core.Float](channels, frames int) [][]F {
	out := make([][]F, channels)
	for c := range out {
		out[c] = make([]F, frames)
	}
	return out
}

// Blocks returns views of block frames starting at frame start of every
// channel in bufs.
func Blocks[F core.Float](bufs [][]F, start, block int) [][]F {
	out := make([][]F, len(bufs))
	for c, b := range bufs {
		out[c] = b[start : start+block]
	}
	return out
}
