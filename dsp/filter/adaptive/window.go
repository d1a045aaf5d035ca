package adaptive

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-aec/dsp/core"
	"gonum.org/v1/gonum/floats"
)

// Window returns the m most recent reference samples ending at index n,
// newest first: [reference[n], reference[n-1], ..., reference[n-m+1]].
// Coefficient k therefore weights the reference delayed by k samples.
// It panics unless m-1 <= n < len(reference).
func Window[T core.Sample](reference []T, n, m int) []T {
	checkWindow(len(reference), n, m)
	out := make([]T, m)
	for k := range out {
		out[k] = reference[n-k]
	}
	return out
}

// WindowInto fills dst with the len(dst) most recent reference samples
// ending at index n, newest first, widened to float64.
// It panics unless len(dst)-1 <= n < len(reference).
func WindowInto[T core.Sample](dst []float64, reference []T, n int) {
	checkWindow(len(reference), n, len(dst))
	for k := range dst {
		dst[k] = float64(reference[n-k])
	}
}

// blockWindow is WindowInto for streaming blocks: taps reaching before the
// start of the block read as zero.
func blockWindow[T core.Sample](dst []float64, block []T, n int) {
	for k := range dst {
		if n-k < 0 {
			core.Zero(dst[k:])
			return
		}
		dst[k] = float64(block[n-k])
	}
}

func checkWindow(length, n, m int) {
	if m <= 0 || n < m-1 || n >= length {
		panic(fmt.Sprintf("adaptive: window of %d taps at index %d outside signal of length %d", m, n, length))
	}
}

// lmsStep predicts desired from window, updates coeffs in place with step
// mu and returns the (optionally clipped) error that drove the update.
func lmsStep(coeffs, window []float64, desired, mu float64, safe bool) float64 {
	e := desired - floats.Dot(coeffs, window)
	if safe {
		e = clip(e)
	}
	floats.AddScaled(coeffs, mu*e, window)
	return e
}

// clip bounds e to SafeErrorBound. NaN maps to zero so that one invalid
// sample leaves the coefficients untouched.
func clip(e float64) float64 {
	if math.IsNaN(e) {
		return 0
	}
	return core.ClampSymmetric(e, SafeErrorBound)
}
