package oversample

import (
	"github.com/cwbudde/algo-oversample/dsp/buffer"
	"github.com/cwbudde/algo-oversample/dsp/core"
)

// BufferPool owns the intermediate sample buffers of the cascade: one
// upsampling and one downsampling region per level, each holding
// levelRate*blockSize samples per channel, where levelRate is 2 at level 0
// and 16 at level 3.
type BufferPool[F core.Float] struct {
	up          [numLevels]buffer.Planar[F]
	down        [numLevels]buffer.Planar[F]
	inChannels  int
	outChannels int
	blockSize   int
}

// NewBufferPool allocates every region for the given capacities.
func NewBufferPool[F core.Float](inChannels, outChannels, blockSize int) *BufferPool[F] {
	p := &BufferPool[F]{
		inChannels:  inChannels,
		outChannels: outChannels,
	}
	p.Resize(blockSize)

	return p
}

// Resize reallocates every region for blockSize frames and rebuilds all
// channel views. Views obtained before the call must not be used afterwards.
func (p *BufferPool[F]) Resize(blockSize int) {
	for level := range numLevels {
		frames := levelRate(level) * blockSize
		p.up[level].Resize(p.inChannels, frames)
		p.down[level].Resize(p.outChannels, frames)
	}

	p.blockSize = blockSize
}

// Up returns the per-channel upsampling views at level.
func (p *BufferPool[F]) Up(level int) [][]F {
	return p.up[level].Channels()
}

// Down returns the per-channel downsampling views at level.
func (p *BufferPool[F]) Down(level int) [][]F {
	return p.down[level].Channels()
}

// BlockSize returns the host block size the pool is sized for.
func (p *BufferPool[F]) BlockSize() int {
	return p.blockSize
}

// levelRate returns the sample rate multiplier at the output of level.
func levelRate(level int) int {
	return 2 << level
}
