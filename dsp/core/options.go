package core

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Rendering limits accepted by ProcessorConfig.Validate.
const (
	MaxSampleRate = 768000
	MaxBlockSize  = 1 << 16
)

// ErrInvalidConfig is returned by ProcessorConfig.Validate.
var ErrInvalidConfig = errors.New("invalid processor config")

var validate = validator.New()

// ProcessorConfig defines the rendering settings shared by a signal graph
// and every unit built on it.
type ProcessorConfig struct {
	SampleRate float64 `validate:"gt=0,lte=768000"`
	BlockSize  int     `validate:"gt=0,lte=65536"`
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns 48 kHz with 1024-sample blocks.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: 48000,
		BlockSize:  1024,
	}
}

// Nyquist returns half the sample rate.
func (c ProcessorConfig) Nyquist() float64 {
	return c.SampleRate / 2
}

// BlockSeconds returns the duration of one block.
func (c ProcessorConfig) BlockSeconds() float64 {
	return float64(c.BlockSize) / c.SampleRate
}

// Validate checks the config against the rendering limits.
func (c ProcessorConfig) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	e := verrs[0]

	switch e.Tag() {
	case "gt":
		return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, e.Field(), e.Value())
	default:
		return fmt.Errorf("%w: %s must not exceed %s, got %v", ErrInvalidConfig, e.Field(), e.Param(), e.Value())
	}
}

// WithSampleRate sets the processing sample rate. Non-positive values are ignored.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the preferred render block size. Non-positive values are ignored.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
