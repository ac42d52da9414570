package oversample

import (
	"fmt"

	"github.com/cwbudde/algo-oversample/dsp/core"
	"github.com/cwbudde/algo-oversample/dsp/filter/halfband"
)

const numLevels = halfband.NumCascadeLevels

// Direction selects the upsampling or downsampling half of the cascade.
type Direction int

const (
	// Up converts from level rate to twice the level rate.
	Up Direction = iota
	// Down converts from twice the level rate back to the level rate.
	Down
)

// Bank owns one upsampler per input channel and one downsampler per output
// channel at every cascade level. Level 0 converts 1x<->2x, level 3 8x<->16x.
type Bank[F core.Float] struct {
	up   [numLevels][]halfband.Upsampler[F]
	down [numLevels][]halfband.Downsampler[F]
}

// NewBank creates the stages for the given channel capacities.
func NewBank[F core.Float](inChannels, outChannels int) (*Bank[F], error) {
	b := &Bank[F]{}

	for level := range numLevels {
		coeffs, err := halfband.CascadeCoefficients(level)
		if err != nil {
			return nil, err
		}

		b.up[level] = make([]halfband.Upsampler[F], inChannels)
		for c := range b.up[level] {
			if err := b.up[level][c].SetCoefficients(coeffs); err != nil {
				return nil, fmt.Errorf("oversample: level %d upsampler %d: %w", level, c, err)
			}
		}

		b.down[level] = make([]halfband.Downsampler[F], outChannels)
		for c := range b.down[level] {
			if err := b.down[level][c].SetCoefficients(coeffs); err != nil {
				return nil, fmt.Errorf("oversample: level %d downsampler %d: %w", level, c, err)
			}
		}
	}

	return b, nil
}

// Upsampler returns the upsampler of input channel ch at level.
func (b *Bank[F]) Upsampler(ch, level int) *halfband.Upsampler[F] {
	return &b.up[level][ch]
}

// Downsampler returns the downsampler of output channel ch at level.
func (b *Bank[F]) Downsampler(ch, level int) *halfband.Downsampler[F] {
	return &b.down[level][ch]
}

// StageFor returns the stage used for channel ch at level in direction dir.
func (b *Bank[F]) StageFor(ch, level int, dir Direction) halfband.Stage {
	if dir == Down {
		return b.Downsampler(ch, level)
	}

	return b.Upsampler(ch, level)
}

// ResetAll clears the state of every stage.
func (b *Bank[F]) ResetAll() {
	for level := range numLevels {
		b.ResetLevel(level)
	}
}

// ResetLevel clears the state of every stage at one level.
func (b *Bank[F]) ResetLevel(level int) {
	for c := range b.up[level] {
		b.up[level][c].ClearState()
	}
	for c := range b.down[level] {
		b.down[level][c].ClearState()
	}
}

// InputChannels returns the number of upsampling channels.
func (b *Bank[F]) InputChannels() int {
	return len(b.up[0])
}

// OutputChannels returns the number of downsampling channels.
func (b *Bank[F]) OutputChannels() int {
	return len(b.down[0])
}
