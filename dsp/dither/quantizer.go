package dither

import (
	"fmt"
	"math"
	"math/rand/v2"
)

const noiseBlock = 256

// Quantizer converts samples in [-1, 1] to signed integer PCM with optional
// dither and noise shaping. Full scale maps to 2^(bits-1)-1.
type Quantizer struct {
	bitDepth        int
	ditherType      DitherType
	ditherAmplitude float64
	limit           bool
	preset          Preset
	shaper          *NoiseShaper
	rng             *rand.Rand
	noise           [noiseBlock]float64

	scale   float64
	limitLo int
	limitHi int
}

// NewQuantizer creates a Quantizer. The default is 16-bit with triangular
// dither of 1 LSB and no noise shaping.
func NewQuantizer(opts ...Option) (*Quantizer, error) {
	cfg := defaultConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	q := &Quantizer{
		bitDepth:        cfg.bitDepth,
		ditherType:      cfg.ditherType,
		ditherAmplitude: cfg.ditherAmplitude,
		limit:           cfg.limit,
		preset:          cfg.preset,
		shaper:          NewNoiseShaper(cfg.preset.Coefficients()),
		rng:             rand.New(rand.NewPCG(uint64(cfg.seed), 0)),
	}
	q.updateDerived()

	return q, nil
}

func (q *Quantizer) updateDerived() {
	full := math.Exp2(float64(q.bitDepth - 1))
	q.scale = full - 1
	q.limitLo = -int(full)
	q.limitHi = int(full) - 1
}

// Quantize converts a single sample.
func (q *Quantizer) Quantize(input float64) int {
	var noise [1]float64
	q.fillNoise(noise[:])

	return q.quantize(input, noise[0])
}

// QuantizeBlock converts src into dst. It panics when dst is shorter than
// src.
func (q *Quantizer) QuantizeBlock(dst []int, src []float64) {
	if len(dst) < len(src) {
		panic(fmt.Sprintf("dither: dst length %d < src length %d", len(dst), len(src)))
	}

	for start := 0; start < len(src); start += noiseBlock {
		n := min(noiseBlock, len(src)-start)
		noise := q.noise[:n]
		q.fillNoise(noise)

		for i, x := range src[start : start+n] {
			dst[start+i] = q.quantize(x, noise[i])
		}
	}
}

// Reset clears the noise-shaper history.
func (q *Quantizer) Reset() {
	q.shaper.Reset()
}

func (q *Quantizer) quantize(input, noise float64) int {
	shaped := q.shaper.Shape(input * q.scale)

	out := int(math.Round(shaped + noise))
	if q.limit {
		out = max(q.limitLo, min(q.limitHi, out))
	}

	q.shaper.RecordError(float64(out) - shaped)

	return out
}

// fillNoise writes dither noise in LSB.
func (q *Quantizer) fillNoise(dst []float64) {
	switch q.ditherType {
	case DitherTriangular:
		for i := range dst {
			dst[i] = q.ditherAmplitude * (q.rng.Float64() - q.rng.Float64())
		}
	case DitherRectangular:
		for i := range dst {
			dst[i] = q.ditherAmplitude * (q.rng.Float64() - 0.5)
		}
	default:
		clear(dst)
	}
}

// BitDepth returns the target bit depth.
func (q *Quantizer) BitDepth() int { return q.bitDepth }

// DitherType returns the dither noise type.
func (q *Quantizer) DitherType() DitherType { return q.ditherType }

// DitherAmplitude returns the dither noise amplitude in LSB.
func (q *Quantizer) DitherAmplitude() float64 { return q.ditherAmplitude }

// Limit reports whether output clamping is enabled.
func (q *Quantizer) Limit() bool { return q.limit }

// Preset returns the noise-shaping preset.
func (q *Quantizer) Preset() Preset { return q.preset }

// FullScale returns the integer value of a sample at 1.0.
func (q *Quantizer) FullScale() int { return int(q.scale) }
