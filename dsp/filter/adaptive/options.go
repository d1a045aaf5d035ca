package adaptive

import "runtime"

// SafeErrorBound is the magnitude safe mode clips every error sample to.
const SafeErrorBound = 1e4

type config struct {
	safe          bool
	maxIterations int // < 0: whole signal
	keepError     bool
	parallelism   int
}

// Option configures a batch filter run.
type Option func(*config)

func defaultConfig() config {
	return config{
		maxIterations: -1,
		keepError:     true,
		parallelism:   1,
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithSafe clips every error to [-SafeErrorBound, SafeErrorBound] before it
// is stored and before it drives the coefficient update. Only LMS honours it.
func WithSafe() Option {
	return func(cfg *config) {
		cfg.safe = true
	}
}

// WithMaxIterations stops adaptation before index n. Values beyond the
// signal length are capped to it; negative values are ignored.
func WithMaxIterations(n int) Option {
	return func(cfg *config) {
		if n >= 0 {
			cfg.maxIterations = n
		}
	}
}

// WithoutErrorSignal drops the error signal from the [Result].
func WithoutErrorSignal() Option {
	return func(cfg *config) {
		cfg.keepError = false
	}
}

// WithParallelism evaluates up to n LMS step-size candidates concurrently.
// n <= 0 uses GOMAXPROCS. The selected candidate is the same as in a
// serial run.
func WithParallelism(n int) Option {
	return func(cfg *config) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		cfg.parallelism = n
	}
}

// stop returns the exclusive end index of the adaptation loop.
func (c config) stop(length int) int {
	if c.maxIterations < 0 || c.maxIterations > length {
		return length
	}
	return c.maxIterations
}

type streamConfig struct {
	initial []float64
}

// StreamOption configures a [Stream].
type StreamOption func(*streamConfig)

// WithInitialCoefficients starts the stream (and every Reset) from coeffs
// instead of zeros. The slice is copied; its length must equal the tap count.
func WithInitialCoefficients(coeffs []float64) StreamOption {
	return func(cfg *streamConfig) {
		cfg.initial = append([]float64(nil), coeffs...)
	}
}
