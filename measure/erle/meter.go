package erle

import (
	"github.com/cwbudde/algo-aec/dsp/core"
)

// DefaultSmoothing is the per-block weight of a new measurement.
const DefaultSmoothing = 0.1

// Meter tracks a smoothed ERLE over a block-wise stream. It is not safe
// for concurrent use.
type Meter[T core.Sample] struct {
	alpha    float64
	desired  float64
	residual float64
	primed   bool
	scratch  []float64
}

// NewMeter returns a meter for blocks of up to blockSize samples. alpha
// outside (0, 1] falls back to DefaultSmoothing.
func NewMeter[T core.Sample](blockSize int, alpha float64) *Meter[T] {
	if !(alpha > 0 && alpha <= 1) {
		alpha = DefaultSmoothing
	}
	return &Meter[T]{
		alpha:   alpha,
		scratch: make([]float64, max(blockSize, 0)),
	}
}

// ProcessBlock folds the energies of one block into the running averages.
// Blocks longer than the configured size or of mismatched length are
// rejected with ErrLengthMismatch.
func (m *Meter[T]) ProcessBlock(desired, residual []T) error {
	if len(desired) != len(residual) || len(desired) > len(m.scratch) {
		return ErrLengthMismatch
	}
	if len(desired) == 0 {
		return nil
	}

	n := float64(len(desired))
	d := energy(desired, m.scratch) / n
	r := energy(residual, m.scratch) / n
	if !m.primed {
		m.desired, m.residual, m.primed = d, r, true
		return nil
	}
	m.desired += m.alpha * (d - m.desired)
	m.residual += m.alpha * (r - m.residual)
	return nil
}

// ERLE returns the smoothed enhancement in dB, 0 before the first block.
func (m *Meter[T]) ERLE() float64 {
	if !m.primed {
		return 0
	}
	return core.PowerRatioDB(m.desired, m.residual)
}

// Reset forgets all measurements.
func (m *Meter[T]) Reset() {
	m.desired, m.residual, m.primed = 0, 0, false
}
