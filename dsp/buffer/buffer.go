package buffer

import "github.com/cwbudde/algo-oversample/dsp/core"

// Planar stores channels*frames samples in one arena, channel after channel.
type Planar[F core.Float] struct {
	samples  []F
	views    [][]F
	channels int
	frames   int
}

// NewPlanar returns a zero-filled buffer with the given shape.
// Negative dimensions are treated as 0.
func NewPlanar[F core.Float](channels, frames int) *Planar[F] {
	p := &Planar[F]{}
	p.Resize(channels, frames)
	return p
}

// Resize reshapes the buffer, reusing the arena when its capacity suffices,
// and rebuilds every channel view. All samples are zeroed.
func (p *Planar[F]) Resize(channels, frames int) {
	if channels < 0 {
		channels = 0
	}
	if frames < 0 {
		frames = 0
	}

	p.samples = core.EnsureLen(p.samples, channels*frames)
	core.Zero(p.samples)

	if cap(p.views) >= channels {
		p.views = p.views[:channels]
	} else {
		p.views = make([][]F, channels)
	}

	for c := range p.views {
		start := c * frames
		p.views[c] = p.samples[start : start+frames : start+frames]
	}

	p.channels = channels
	p.frames = frames
}

// Channel returns the view for channel c. The view aliases the arena.
func (p *Planar[F]) Channel(c int) []F {
	return p.views[c]
}

// Channels returns all channel views. The returned slice is owned by the
// buffer and is only valid until the next Resize.
func (p *Planar[F]) Channels() [][]F {
	return p.views
}

// Samples returns the underlying arena.
func (p *Planar[F]) Samples() []F {
	return p.samples
}

// NumChannels returns the channel count.
func (p *Planar[F]) NumChannels() int {
	return p.channels
}

// Frames returns the number of samples per channel.
func (p *Planar[F]) Frames() int {
	return p.frames
}

// Zero sets all samples to 0.
func (p *Planar[F]) Zero() {
	core.Zero(p.samples)
}
