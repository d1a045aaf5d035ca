package testutil

import (
	"fmt"
	"math"
	"testing"

	"github.com/cwbudde/algo-aec/dsp/core"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual[T core.Sample](t *testing.T, got, want []T, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(float64(got[i]) - float64(want[i]))
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite[T core.Sample](t *testing.T, data []T) {
	t.Helper()
	for i, v := range data {
		if !core.IsFinite(float64(v)) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireBounded fails t if any element lies outside [-bound, bound].
func RequireBounded[T core.Sample](t *testing.T, data []T, bound float64) {
	t.Helper()
	for i, v := range data {
		if f := float64(v); f < -bound || f > bound || math.IsNaN(f) {
			t.Fatalf("index %d: %v outside [-%v, %v]", i, v, bound, bound)
		}
	}
}

// RequireZeroPrefix fails t if any of the first n elements is non-zero.
func RequireZeroPrefix[T core.Sample](t *testing.T, data []T, n int) {
	t.Helper()
	for i := range min(n, len(data)) {
		if data[i] != 0 {
			t.Fatalf("index %d: got %v, want 0 in warm-up prefix", i, data[i])
		}
	}
}

// MaxAbsDiff returns the maximum absolute difference between two slices.
// Returns an error if the slices differ in length.
func MaxAbsDiff[T core.Sample](a, b []T) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	maxDiff := 0.0
	for i := range a {
		d := math.Abs(float64(a[i]) - float64(b[i]))
		if d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff, nil
}
