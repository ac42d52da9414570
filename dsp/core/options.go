package core

// ProcessorConfig defines common block-processing settings shared by the
// oversampler and the effects built on top of it.
type ProcessorConfig struct {
	SampleRate     float64
	BlockSize      int
	InputChannels  int
	OutputChannels int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns stereo defaults at 48 kHz with the 64-frame
// block size hosts commonly use for real-time rendering.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate:     48000,
		BlockSize:      64,
		InputChannels:  2,
		OutputChannels: 2,
	}
}

// WithBlockSize sets the maximum block size.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithChannels sets the maximum input and output channel counts.
func WithChannels(in, out int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if in > 0 && out > 0 {
			cfg.InputChannels = in
			cfg.OutputChannels = out
		}
	}
}
