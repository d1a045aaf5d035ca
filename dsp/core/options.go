package core

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned by [ProcessorConfig.Validate].
var ErrInvalidConfig = errors.New("core: invalid processor config")

// ProcessorConfig defines the stream geometry of an echo cancellation run:
// sample rate, callback block size and adaptive filter length.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
	Taps       int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns the live-capture defaults: 48 kHz with
// 1024-sample blocks and a filter as long as one block.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: 48000,
		BlockSize:  1024,
		Taps:       1024,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the processing block size.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithTaps sets the adaptive filter length.
func WithTaps(taps int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if taps > 0 {
			cfg.Taps = taps
		}
	}
}

// WithTapDuration sets the filter length from the echo tail it has to
// cover. Options apply in order, so place it after WithSampleRate.
func WithTapDuration(d time.Duration) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if taps := cfg.SamplesFor(d); taps > 0 {
			cfg.Taps = taps
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

// SamplesFor converts a duration to a whole number of samples.
func (c ProcessorConfig) SamplesFor(d time.Duration) int {
	return int(d.Seconds() * c.SampleRate)
}

// BlockDuration returns the wall-clock length of one block, which is the
// real-time budget of a single processing call.
func (c ProcessorConfig) BlockDuration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(c.BlockSize) / c.SampleRate * float64(time.Second))
}

// Validate checks that a streaming adapter can run with this geometry.
// Every block must fit into one filter window.
func (c ProcessorConfig) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %g", ErrInvalidConfig, c.SampleRate)
	case c.Taps <= 0:
		return fmt.Errorf("%w: taps %d", ErrInvalidConfig, c.Taps)
	case c.BlockSize <= 0 || c.BlockSize > c.Taps:
		return fmt.Errorf("%w: block size %d must be in [1, %d]", ErrInvalidConfig, c.BlockSize, c.Taps)
	}
	return nil
}
