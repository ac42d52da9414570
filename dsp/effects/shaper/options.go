package shaper

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-oversample/dsp/oversample"
)

const (
	defaultSampleRate = 48000.0
	defaultBlockSize  = 512
	defaultChannels   = 2

	minInputGainDB  = -24.0
	maxInputGainDB  = 24.0
	minOutputGainDB = -96.0
	maxOutputGainDB = 24.0
)

// Option mutates construction-time parameters.
type Option func(*config) error

type config struct {
	sampleRate     float64
	blockSize      int
	channels       int
	inputGainDB    float64
	outputGainDB   float64
	mix            float64
	realtimeFactor oversample.Factor
	offlineFactor  oversample.Factor
	enabled        bool
}

func defaultConfig() config {
	return config{
		sampleRate:     defaultSampleRate,
		blockSize:      defaultBlockSize,
		channels:       defaultChannels,
		mix:            1,
		realtimeFactor: oversample.FactorNone,
		offlineFactor:  oversample.FactorNone,
		enabled:        true,
	}
}

// WithSampleRate sets the host sample rate.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *config) error {
		if err := validateSampleRate(sampleRate); err != nil {
			return err
		}

		cfg.sampleRate = sampleRate

		return nil
	}
}

// WithBlockSize sets the maximum host block size.
func WithBlockSize(n int) Option {
	return func(cfg *config) error {
		if n <= 0 {
			return fmt.Errorf("shaper block size must be > 0: %d", n)
		}

		cfg.blockSize = n

		return nil
	}
}

// WithChannels sets the channel capacity.
func WithChannels(n int) Option {
	return func(cfg *config) error {
		if n <= 0 {
			return fmt.Errorf("shaper channel count must be > 0: %d", n)
		}

		cfg.channels = n

		return nil
	}
}

// WithInputGainDB sets the pre-shaper gain in [-24, 24] dB.
func WithInputGainDB(db float64) Option {
	return func(cfg *config) error {
		if err := validateRange("input gain", db, minInputGainDB, maxInputGainDB); err != nil {
			return err
		}

		cfg.inputGainDB = db

		return nil
	}
}

// WithOutputGainDB sets the post-shaper gain in [-96, 24] dB.
func WithOutputGainDB(db float64) Option {
	return func(cfg *config) error {
		if err := validateRange("output gain", db, minOutputGainDB, maxOutputGainDB); err != nil {
			return err
		}

		cfg.outputGainDB = db

		return nil
	}
}

// WithMix sets the dry/wet mix in [0, 1].
func WithMix(mix float64) Option {
	return func(cfg *config) error {
		if err := validateRange("mix", mix, 0, 1); err != nil {
			return err
		}

		cfg.mix = mix

		return nil
	}
}

// WithRealtimeFactor sets the oversampling factor used during playback.
func WithRealtimeFactor(f oversample.Factor) Option {
	return func(cfg *config) error {
		if !f.Valid() {
			return fmt.Errorf("%w: %d", oversample.ErrInvalidFactor, int(f))
		}

		cfg.realtimeFactor = f

		return nil
	}
}

// WithOfflineFactor sets the oversampling factor used while rendering.
// FactorNone follows the real-time factor.
func WithOfflineFactor(f oversample.Factor) Option {
	return func(cfg *config) error {
		if !f.Valid() {
			return fmt.Errorf("%w: %d", oversample.ErrInvalidFactor, int(f))
		}

		cfg.offlineFactor = f

		return nil
	}
}

// WithOversamplingEnabled toggles oversampling. When disabled the shaper
// runs at the host rate regardless of the configured factors.
func WithOversamplingEnabled(enabled bool) Option {
	return func(cfg *config) error {
		cfg.enabled = enabled
		return nil
	}
}

func validateSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("shaper sample rate must be > 0 and finite: %f", sampleRate)
	}

	return nil
}

func validateRange(name string, v, lo, hi float64) error {
	if v < lo || v > hi || math.IsNaN(v) {
		return fmt.Errorf("shaper %s must be in [%g, %g]: %f", name, lo, hi, v)
	}

	return nil
}
