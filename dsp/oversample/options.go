package oversample

import (
	"errors"

	"github.com/cwbudde/algo-oversample/dsp/core"
)

// ErrInvalidBlockSize indicates a non-positive block size.
var ErrInvalidBlockSize = errors.New("oversample: invalid block size")

type config struct {
	factor              Factor
	proc                core.ProcessorConfig
	clearOnFactorChange bool
}

// Option configures an Oversampler.
type Option func(*config)

func defaultConfig() config {
	return config{
		factor:              FactorNone,
		proc:                core.DefaultProcessorConfig(),
		clearOnFactorChange: true,
	}
}

// WithFactor sets the initial oversampling factor.
func WithFactor(f Factor) Option {
	return func(cfg *config) {
		cfg.factor = f
	}
}

// WithChannels sets the maximum input and output channel counts.
// Non-positive counts are ignored.
func WithChannels(in, out int) Option {
	return func(cfg *config) {
		core.WithChannels(in, out)(&cfg.proc)
	}
}

// WithBlockSize sets the maximum number of frames per block.
// Non-positive sizes are ignored.
func WithBlockSize(n int) Option {
	return func(cfg *config) {
		core.WithBlockSize(n)(&cfg.proc)
	}
}

// WithProcessorConfig copies block size and channel counts from a shared
// processor configuration.
func WithProcessorConfig(pc core.ProcessorConfig) Option {
	return func(cfg *config) {
		core.WithBlockSize(pc.BlockSize)(&cfg.proc)
		core.WithChannels(pc.InputChannels, pc.OutputChannels)(&cfg.proc)
	}
}

// WithStateClearOnFactorChange controls whether stages that become active
// after a factor change start from cleared delay lines (the default) or keep
// whatever state they held when they were last used.
func WithStateClearOnFactorChange(enabled bool) Option {
	return func(cfg *config) {
		cfg.clearOnFactorChange = enabled
	}
}
