package oversample

import (
	"fmt"

	"github.com/cwbudde/algo-oversample/dsp/core"
	"github.com/cwbudde/algo-oversample/dsp/filter/halfband"
)

// Oversampler runs a Processor at 1x, 2x, 4x, 8x or 16x the host rate.
//
// ProcessBlock is allocation-free. SetBlockSize and Reset allocate and must
// not run concurrently with ProcessBlock. An Oversampler is not safe for
// concurrent use.
type Oversampler[F core.Float] struct {
	bank *Bank[F]
	pool *BufferPool[F]

	factor              Factor
	blockSize           int
	clearOnFactorChange bool

	// Selected on rate change.
	prevRate   int
	activeUp   [][]F
	activeDown [][]F

	// Callback views, one entry per channel of capacity.
	nextIn  [][]F
	nextOut [][]F

	groupDelays [numLevels]float64
}

// New creates an Oversampler sized for the configured channel capacities
// and block size.
func New[F core.Float](opts ...Option) (*Oversampler[F], error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if !cfg.factor.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFactor, int(cfg.factor))
	}

	in := cfg.proc.InputChannels
	out := cfg.proc.OutputChannels

	bank, err := NewBank[F](in, out)
	if err != nil {
		return nil, err
	}

	o := &Oversampler[F]{
		bank:                bank,
		pool:                NewBufferPool[F](in, out, cfg.proc.BlockSize),
		factor:              cfg.factor,
		blockSize:           cfg.proc.BlockSize,
		clearOnFactorChange: cfg.clearOnFactorChange,
		nextIn:              make([][]F, in),
		nextOut:             make([][]F, out),
	}

	for level := range numLevels {
		coeffs, err := halfband.CascadeCoefficients(level)
		if err != nil {
			return nil, err
		}
		o.groupDelays[level] = halfband.GroupDelay(coeffs, 0)
	}

	return o, nil
}

// ProcessBlock oversamples nFrames frames of nInChans input channels, runs p
// at the active rate and writes nFrames frames of nOutChans channels to
// outputs.
//
// At 1x p is called once on views of the host buffers. At rate R > 1 p is
// called R times, call i seeing frames [i*nFrames, (i+1)*nFrames) of the
// oversampled signal.
//
// ProcessBlock panics when a channel count exceeds the constructed capacity
// or nFrames is negative or larger than the block size.
func (o *Oversampler[F]) ProcessBlock(inputs, outputs [][]F, nFrames, nInChans, nOutChans int, p Processor[F]) {
	if nInChans < 0 || nInChans > len(o.nextIn) {
		panic(fmt.Sprintf("oversample: %d input channels, capacity %d", nInChans, len(o.nextIn)))
	}
	if nOutChans < 0 || nOutChans > len(o.nextOut) {
		panic(fmt.Sprintf("oversample: %d output channels, capacity %d", nOutChans, len(o.nextOut)))
	}
	if nFrames < 0 || nFrames > o.blockSize {
		panic(fmt.Sprintf("oversample: %d frames, block size %d", nFrames, o.blockSize))
	}
	if nFrames == 0 {
		return
	}

	rate := o.factor.Rate()
	if rate != o.prevRate {
		o.selectRate(rate)
	}

	if rate == 1 {
		for c := range nInChans {
			o.nextIn[c] = inputs[c][:nFrames]
		}
		for c := range nOutChans {
			o.nextOut[c] = outputs[c][:nFrames]
		}
		p.Process(o.nextIn[:nInChans], o.nextOut[:nOutChans], nFrames)

		return
	}

	stages := o.factor.Stages()

	for c := range nInChans {
		src := inputs[c][:nFrames]
		for level := range stages {
			dst := o.pool.up[level].Channel(c)[:2*len(src)]
			o.bank.up[level][c].UpsampleBlock(dst, src)
			src = dst
		}
	}

	for i := range rate {
		off := i * nFrames
		for c := range nInChans {
			o.nextIn[c] = o.activeUp[c][off : off+nFrames]
		}
		for c := range nOutChans {
			o.nextOut[c] = o.activeDown[c][off : off+nFrames]
		}
		p.Process(o.nextIn[:nInChans], o.nextOut[:nOutChans], nFrames)
	}

	for c := range nOutChans {
		src := o.activeDown[c][:rate*nFrames]
		for level := stages - 1; level >= 0; level-- {
			var dst []F
			if level == 0 {
				dst = outputs[c][:nFrames]
			} else {
				dst = o.pool.down[level-1].Channel(c)[:len(src)/2]
			}
			o.bank.down[level][c].DownsampleBlock(dst, src)
			src = dst
		}
	}
}

// selectRate points the callback buffers at the top level of the new rate
// and clears stages that were idle at the previous rate.
func (o *Oversampler[F]) selectRate(rate int) {
	stages := o.factor.Stages()

	if stages > 0 {
		o.activeUp = o.pool.Up(stages - 1)
		o.activeDown = o.pool.Down(stages - 1)
	} else {
		o.activeUp = nil
		o.activeDown = nil
	}

	if o.clearOnFactorChange && o.prevRate != 0 {
		prevStages := 0
		for o.prevRate>>prevStages > 1 {
			prevStages++
		}
		for level := prevStages; level < stages; level++ {
			o.bank.ResetLevel(level)
		}
	}

	o.prevRate = rate
}

// SetFactor changes the oversampling factor. The change takes effect on the
// next ProcessBlock call.
func (o *Oversampler[F]) SetFactor(f Factor) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidFactor, int(f))
	}

	o.factor = f

	return nil
}

// Factor returns the configured oversampling factor.
func (o *Oversampler[F]) Factor() Factor {
	return o.factor
}

// Rate returns the configured rate multiplier.
func (o *Oversampler[F]) Rate() int {
	return o.factor.Rate()
}

// SetBlockSize reallocates the intermediate buffers for a new maximum block
// size and clears all filter state.
func (o *Oversampler[F]) SetBlockSize(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBlockSize, n)
	}

	o.blockSize = n
	o.Reset()

	return nil
}

// BlockSize returns the maximum number of frames per ProcessBlock call.
func (o *Oversampler[F]) BlockSize() int {
	return o.blockSize
}

// Reset reallocates the intermediate buffers, rebuilds their views and
// clears all filter state.
func (o *Oversampler[F]) Reset() {
	o.pool.Resize(o.blockSize)
	o.bank.ResetAll()
	o.prevRate = 0
	o.activeUp = nil
	o.activeDown = nil
	clear(o.nextIn)
	clear(o.nextOut)
}

// ClearState zeroes every filter delay line without touching the buffers.
// It does not allocate and may be called between ProcessBlock calls on the
// audio goroutine.
func (o *Oversampler[F]) ClearState() {
	o.bank.ResetAll()
	o.prevRate = 0
}

// Channels returns the input and output channel capacities.
func (o *Oversampler[F]) Channels() (in, out int) {
	return len(o.nextIn), len(o.nextOut)
}

// Latency returns the low-frequency delay of the up and down cascades in
// host samples for the configured factor.
func (o *Oversampler[F]) Latency() float64 {
	return cascadeLatency(o.groupDelays[:], o.factor.Stages())
}

// LatencyAt returns the delay Latency would report at factor f.
func (o *Oversampler[F]) LatencyAt(f Factor) float64 {
	return cascadeLatency(o.groupDelays[:], f.Stages())
}

func cascadeLatency(groupDelays []float64, stages int) float64 {
	var latency float64
	for level := range stages {
		latency += (2*groupDelays[level] - 1) / float64(levelRate(level))
	}

	return latency
}
