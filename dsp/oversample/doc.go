// Package oversample runs a block-processing routine at 2x, 4x, 8x or 16x
// the host sample rate.
//
// An [Oversampler] upsamples each input channel through a cascade of
// half-band stages, invokes a caller-supplied [Processor] once per original
// block length on contiguous sub-blocks of the expanded signal, and
// downsamples the result back into the host output buffers. At
// [FactorNone] the processor is called directly on the host buffers.
//
// All buffers are sized when the oversampler is created and again on
// [Oversampler.Reset] or [Oversampler.SetBlockSize]; [Oversampler.ProcessBlock]
// never allocates. Reconfiguration must not run concurrently with block
// processing.
//
// Calling ProcessBlock with more channels than the oversampler was built
// for, or with more frames than its block size, is a programming error and
// panics.
package oversample
