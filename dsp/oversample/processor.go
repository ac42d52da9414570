package oversample

import "github.com/cwbudde/algo-oversample/dsp/core"

// Processor is the routine an Oversampler runs at the elevated rate.
//
// Process receives one view per active channel, each exactly nFrames long.
// It runs on the audio thread and must not allocate or block.
type Processor[F core.Float] interface {
	Process(inputs, outputs [][]F, nFrames int)
}

// ProcessorFunc adapts a plain function to the Processor interface.
type ProcessorFunc[F core.Float] func(inputs, outputs [][]F, nFrames int)

// Process calls f(inputs, outputs, nFrames).
func (f ProcessorFunc[F]) Process(inputs, outputs [][]F, nFrames int) {
	f(inputs, outputs, nFrames)
}

// Passthrough copies each input channel to the output channel with the same
// index. Output channels without a matching input are zeroed.
type Passthrough[F core.Float] struct{}

// Process implements Processor.
func (Passthrough[F]) Process(inputs, outputs [][]F, nFrames int) {
	for c, out := range outputs {
		if c < len(inputs) {
			copy(out[:nFrames], inputs[c][:nFrames])
		} else {
			core.Zero(out[:nFrames])
		}
	}
}
