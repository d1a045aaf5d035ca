package adaptive

import (
	"sync/atomic"

	"github.com/cwbudde/algo-aec/dsp/core"
)

// Stream applies the LMS update to a live signal delivered in blocks.
//
// The coefficients persist from one block to the next, so a sequence of
// ProcessBlock calls behaves like one continuous LMS adaptation. Windows
// do not reach back into earlier blocks: taps older than the start of the
// current block read as zero. The caller must align the reference block
// with the desired block; Stream does no delay compensation.
//
// A Stream is owned by one processing goroutine. Only SetBypass may be
// called from other goroutines.
type Stream[T core.Sample] struct {
	mu      float64
	safe    bool
	coeffs  []float64
	initial []float64 // nil: zeros
	window  []float64
	out     []T
	bypass  atomic.Bool
}

// NewStream creates a streaming LMS adapter with numTaps coefficients,
// step size mu and optional safe-mode error clipping. Blocks passed to
// ProcessBlock may hold at most numTaps samples.
func NewStream[T core.Sample](numTaps int, mu float64, safe bool, opts ...StreamOption) (*Stream[T], error) {
	if numTaps <= 0 {
		return nil, ErrNoTaps
	}
	if !validStep(mu) {
		return nil, ErrInvalidStepSize
	}

	var cfg streamConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.initial != nil && len(cfg.initial) != numTaps {
		return nil, ErrCoefficientLength
	}

	s := &Stream[T]{
		mu:      mu,
		safe:    safe,
		coeffs:  make([]float64, numTaps),
		initial: cfg.initial,
		window:  make([]float64, numTaps),
		out:     make([]T, numTaps),
	}
	s.Reset()
	return s, nil
}

// ProcessBlock cancels the echo of reference in desired and returns the
// error block. The returned slice belongs to the Stream and is overwritten
// by the next call; copy it to keep it.
func (s *Stream[T]) ProcessBlock(reference, desired []T) ([]T, error) {
	out := s.out[:min(len(desired), len(s.out))]
	if err := s.ProcessBlockTo(out, reference, desired); err != nil {
		return nil, err
	}
	return out, nil
}

// ProcessBlockTo is ProcessBlock writing into dst, which must have the
// block length. dst may alias desired but not reference.
func (s *Stream[T]) ProcessBlockTo(dst, reference, desired []T) error {
	if len(desired) > len(s.coeffs) {
		return ErrBlockTooLarge
	}
	if len(reference) != len(desired) || len(dst) != len(desired) {
		return ErrLengthMismatch
	}

	if s.bypass.Load() {
		copy(dst, desired)
		return nil
	}

	for n := range desired {
		blockWindow(s.window, reference, n)
		dst[n] = T(lmsStep(s.coeffs, s.window, float64(desired[n]), s.mu, s.safe))
	}
	return nil
}

// SetBypass switches between cancellation and passthrough. While bypassed
// ProcessBlock returns desired unchanged and the coefficients are frozen.
// The flag is read once per block.
func (s *Stream[T]) SetBypass(bypass bool) {
	s.bypass.Store(bypass)
}

// Bypassed reports whether the stream is in passthrough mode.
func (s *Stream[T]) Bypassed() bool {
	return s.bypass.Load()
}

// Reset restores the initial coefficients.
func (s *Stream[T]) Reset() {
	if s.initial != nil {
		copy(s.coeffs, s.initial)
		return
	}
	core.Zero(s.coeffs)
}

// Coefficients returns a copy of the current coefficients in the stream
// precision.
func (s *Stream[T]) Coefficients() []T {
	return core.NarrowCopy[T](s.coeffs)
}

// Taps returns the filter length.
func (s *Stream[T]) Taps() int {
	return len(s.coeffs)
}

// StepSize returns the LMS step size.
func (s *Stream[T]) StepSize() float64 {
	return s.mu
}
