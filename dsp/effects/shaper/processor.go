package shaper

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-oversample/dsp/buffer"
	"github.com/cwbudde/algo-oversample/dsp/core"
	"github.com/cwbudde/algo-oversample/dsp/oversample"
)

// Processor is an oversampled waveshaper with gain staging and dry/wet mix.
//
// ProcessBlock, Reset and SetRendering belong to the audio goroutine. The
// Set* parameter methods may be called from any goroutine.
type Processor struct {
	transfer TransferFunc
	kernel   oversample.Processor[float64]

	sampleRate float64
	blockSize  int
	channels   int

	realtime *oversample.Oversampler[float64]
	offline  *oversample.Oversampler[float64]
	active   *oversample.Oversampler[float64]

	inputGain  atomic.Uint64
	outputGain atomic.Uint64
	mix        atomic.Uint64

	realtimeFactor atomic.Int32
	offlineFactor  atomic.Int32
	enabled        atomic.Bool
	rendering      bool

	// Dry path delay, aligned to the active oversampler's latency.
	dryHist  buffer.Planar[float64]
	dry      buffer.Planar[float64]
	maxDelay int

	driven buffer.Planar[float64]
	wet    buffer.Planar[float64]
	inView [][]float64
	wetOut [][]float64
}

// New creates a shaper around transfer.
func New(transfer TransferFunc, opts ...Option) (*Processor, error) {
	if transfer == nil {
		return nil, errors.New("shaper transfer function must not be nil")
	}

	cfg := defaultConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	p := &Processor{
		transfer:   transfer,
		sampleRate: cfg.sampleRate,
		blockSize:  cfg.blockSize,
		channels:   cfg.channels,
	}
	p.kernel = oversample.ProcessorFunc[float64](p.shape)

	var err error

	p.realtime, err = p.newOversampler()
	if err != nil {
		return nil, err
	}

	p.offline, err = p.newOversampler()
	if err != nil {
		return nil, err
	}

	p.maxDelay = int(math.Ceil(p.realtime.LatencyAt(oversample.Factor16x)))

	p.storeFloat(&p.inputGain, core.DBToLinear(cfg.inputGainDB))
	p.storeFloat(&p.outputGain, core.DBToLinear(cfg.outputGainDB))
	p.storeFloat(&p.mix, cfg.mix)
	p.realtimeFactor.Store(int32(cfg.realtimeFactor))
	p.offlineFactor.Store(int32(cfg.offlineFactor))
	p.enabled.Store(cfg.enabled)

	p.resizeScratch()
	p.applyPending()

	return p, nil
}

func (p *Processor) newOversampler() (*oversample.Oversampler[float64], error) {
	return oversample.New[float64](oversample.WithProcessorConfig(core.ProcessorConfig{
		SampleRate:     p.sampleRate,
		BlockSize:      p.blockSize,
		InputChannels:  p.channels,
		OutputChannels: p.channels,
	}))
}

func (p *Processor) resizeScratch() {
	p.dryHist.Resize(p.channels, p.maxDelay)
	p.dry.Resize(p.channels, p.blockSize)
	p.driven.Resize(p.channels, p.blockSize)
	p.wet.Resize(p.channels, p.blockSize)
	p.inView = make([][]float64, p.channels)
	p.wetOut = make([][]float64, p.channels)
}

// Reset reconfigures the shaper for a new sample rate and block size and
// clears all filter state. It allocates and must not run concurrently with
// ProcessBlock.
func (p *Processor) Reset(sampleRate float64, blockSize int) error {
	if err := validateSampleRate(sampleRate); err != nil {
		return err
	}

	if blockSize <= 0 {
		return fmt.Errorf("shaper: %w: %d", oversample.ErrInvalidBlockSize, blockSize)
	}

	// Neither fails once the block size is valid.
	_ = p.realtime.SetBlockSize(blockSize)
	_ = p.offline.SetBlockSize(blockSize)

	p.sampleRate = sampleRate
	p.blockSize = blockSize
	p.resizeScratch()

	return nil
}

// SetRendering switches between the real-time and the offline oversampler.
func (p *Processor) SetRendering(offline bool) {
	p.rendering = offline
	p.applyPending()
}

// SetInputGainDB sets the pre-shaper gain in [-24, 24] dB.
func (p *Processor) SetInputGainDB(db float64) error {
	if err := validateRange("input gain", db, minInputGainDB, maxInputGainDB); err != nil {
		return err
	}

	p.storeFloat(&p.inputGain, core.DBToLinear(db))

	return nil
}

// SetOutputGainDB sets the post-shaper gain in [-96, 24] dB.
func (p *Processor) SetOutputGainDB(db float64) error {
	if err := validateRange("output gain", db, minOutputGainDB, maxOutputGainDB); err != nil {
		return err
	}

	p.storeFloat(&p.outputGain, core.DBToLinear(db))

	return nil
}

// SetMix sets the dry/wet mix in [0, 1].
func (p *Processor) SetMix(mix float64) error {
	if err := validateRange("mix", mix, 0, 1); err != nil {
		return err
	}

	p.storeFloat(&p.mix, mix)

	return nil
}

// SetRealtimeFactor requests a new playback factor.
func (p *Processor) SetRealtimeFactor(f oversample.Factor) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %d", oversample.ErrInvalidFactor, int(f))
	}

	p.realtimeFactor.Store(int32(f))

	return nil
}

// SetOfflineFactor requests a new rendering factor. FactorNone follows the
// real-time factor.
func (p *Processor) SetOfflineFactor(f oversample.Factor) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %d", oversample.ErrInvalidFactor, int(f))
	}

	p.offlineFactor.Store(int32(f))

	return nil
}

// SetOversamplingEnabled toggles oversampling.
func (p *Processor) SetOversamplingEnabled(enabled bool) {
	p.enabled.Store(enabled)
}

// Factor returns the factor the active oversampler currently runs at.
func (p *Processor) Factor() oversample.Factor {
	return p.active.Factor()
}

// Latency returns the delay of the active oversampler in host samples. The
// dry path is delayed by the same amount rounded to whole samples.
func (p *Processor) Latency() float64 {
	return p.active.Latency()
}

// SampleRate returns the host sample rate.
func (p *Processor) SampleRate() float64 {
	return p.sampleRate
}

// BlockSize returns the maximum host block size.
func (p *Processor) BlockSize() int {
	return p.blockSize
}

// ProcessBlock shapes nFrames frames of nChans channels from inputs into
// outputs. outputs may alias inputs.
//
// It panics when nChans exceeds the channel capacity or nFrames exceeds the
// block size.
func (p *Processor) ProcessBlock(inputs, outputs [][]float64, nFrames, nChans int) {
	if nChans < 0 || nChans > p.channels {
		panic(fmt.Sprintf("shaper: %d channels, capacity %d", nChans, p.channels))
	}
	if nFrames < 0 || nFrames > p.blockSize {
		panic(fmt.Sprintf("shaper: %d frames, block size %d", nFrames, p.blockSize))
	}

	p.applyPending()

	if nFrames == 0 {
		return
	}

	inGain := p.loadFloat(&p.inputGain)
	outGain := p.loadFloat(&p.outputGain)
	mix := p.loadFloat(&p.mix)

	delay := p.dryDelay()

	for c := range nChans {
		p.delayDry(c, inputs[c][:nFrames], delay)
		p.inView[c] = p.driven.Channel(c)[:nFrames]
		p.wetOut[c] = p.wet.Channel(c)[:nFrames]
		vecmath.ScaleBlock(p.inView[c], inputs[c][:nFrames], inGain)
	}

	p.active.ProcessBlock(p.inView[:nChans], p.wetOut[:nChans], nFrames, nChans, nChans, p.kernel)

	for c := range nChans {
		out := outputs[c][:nFrames]
		wet := p.wetOut[c]

		vecmath.ScaleBlockInPlace(wet, outGain*mix)
		vecmath.ScaleBlock(out, p.dry.Channel(c)[:nFrames], 1-mix)
		vecmath.AddBlockInPlace(out, wet)
	}
}

func (p *Processor) dryDelay() int {
	return min(int(math.Round(p.active.Latency())), p.maxDelay)
}

// delayDry writes in delayed by delay samples to the dry scratch of channel
// c and records in as history. in may alias an output.
func (p *Processor) delayDry(c int, in []float64, delay int) {
	hist := p.dryHist.Channel(c)
	dry := p.dry.Channel(c)[:len(in)]
	n := len(in)
	m := len(hist)

	head := min(delay, n)
	copy(dry[:head], hist[m-delay:])
	copy(dry[head:], in[:n-head])

	if n >= m {
		copy(hist, in[n-m:])
		return
	}

	copy(hist, hist[n:])
	copy(hist[m-n:], in)
}

// shape runs at the oversampled rate.
func (p *Processor) shape(inputs, outputs [][]float64, nFrames int) {
	for c, in := range inputs {
		out := outputs[c][:nFrames]
		for i, x := range in[:nFrames] {
			if x == 0 {
				out[i] = 0
				continue
			}

			out[i] = p.transfer(x)
		}
	}
}

// applyPending moves requested factor changes into the oversamplers.
func (p *Processor) applyPending() {
	rt := oversample.Factor(p.realtimeFactor.Load())
	off := oversample.Factor(p.offlineFactor.Load())

	if off == oversample.FactorNone {
		off = rt
	}

	if !p.enabled.Load() {
		rt = oversample.FactorNone
		off = oversample.FactorNone
	}

	// Both were validated when stored.
	_ = p.realtime.SetFactor(rt)
	_ = p.offline.SetFactor(off)

	next := p.realtime
	if p.rendering {
		next = p.offline
	}

	// The incoming oversampler last saw unrelated audio.
	if p.active != nil && next != p.active {
		next.ClearState()
		p.dryHist.Zero()
	}

	p.active = next
}

func (p *Processor) storeFloat(dst *atomic.Uint64, v float64) {
	dst.Store(math.Float64bits(v))
}

func (p *Processor) loadFloat(src *atomic.Uint64) float64 {
	return math.Float64frombits(src.Load())
}
