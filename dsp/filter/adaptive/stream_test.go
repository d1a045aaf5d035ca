package adaptive

import (
	"errors"
	"math"
	"slices"
	"sync"
	"testing"

	"github.com/cwbudde/algo-aec/internal/testutil"
)

func TestStream_FreshAdapterIsDeterministic(t *testing.T) {
	ref := testutil.Noise[float32](40, 1, 256)
	des := testutil.Echo(ref, testutil.EchoPath(41, 0, 16), nil)

	first := func() []float32 {
		s, err := NewStream[float32](256, 0.01, true)
		if err != nil {
			t.Fatalf("NewStream: %v", err)
		}
		out, err := s.ProcessBlock(ref, des)
		if err != nil {
			t.Fatalf("ProcessBlock: %v", err)
		}
		return slices.Clone(out)
	}
	testutil.RequireSliceNearlyEqual(t, first(), first(), 0)
}

func TestStream_StateAdvancesAcrossBlocks(t *testing.T) {
	ref := testutil.Noise[float32](42, 1, 128)
	des := testutil.Echo(ref, testutil.EchoPath(43, 0, 8), nil)

	s, err := NewStream[float32](128, 0.02, true)
	if err != nil {
		t.Fatalf("NewStream: %v", err)
	}
	out1, _ := s.ProcessBlock(ref, des)
	first := slices.Clone(out1)
	out2, _ := s.ProcessBlock(ref, des)

	if d, _ := testutil.MaxAbsDiff(first, out2); d == 0 {
		t.Fatal("second identical block produced identical output")
	}
	if testutil.Energy(out2, 0, len(out2)) >= testutil.Energy(first, 0, len(first)) {
		t.Fatal("residual did not shrink on the repeated block")
	}
}

func TestStream_MatchesLMSOverZeroPaddedBlock(t *testing.T) {
	const taps = 32
	blocks := 4
	ref := testutil.GaussianNoise[float64](44, 1, taps*blocks)
	des := testutil.Echo(ref, testutil.EchoPath(45, 2, taps), nil)
	const mu = 0.01

	s, err := NewStream[float64](taps, mu, true)
	if err != nil {
		t.Fatalf("NewStream: %v", err)
	}

	coeffs := make([]float64, taps)
	for b := range blocks {
		refBlock := ref[b*taps : (b+1)*taps]
		desBlock := des[b*taps : (b+1)*taps]

		got, err := s.ProcessBlock(refBlock, desBlock)
		if err != nil {
			t.Fatalf("block %d: %v", b, err)
		}

		// One LMS pass over the block preceded by taps zeros, starting from
		// the coefficients the previous block left behind.
		padRef := append(make([]float64, taps), refBlock...)
		padDes := append(make([]float64, taps), desBlock...)
		want, err := LMS(padDes, padRef, coeffs, []float64{mu}, WithSafe())
		if err != nil {
			t.Fatalf("LMS: %v", err)
		}
		testutil.RequireSliceNearlyEqual(t, got, want.Error[taps:], 0)
		testutil.RequireSliceNearlyEqual(t, s.Coefficients(), want.Coefficients, 0)
		coeffs = want.Coefficients
	}
}

func TestStream_ConvergesOnContinuousEcho(t *testing.T) {
	const (
		taps  = 64
		block = 64
	)
	ref := testutil.GaussianNoise[float32](46, 0.5, block*400)
	path := testutil.EchoPath(47, 0, taps/4)
	des := testutil.Echo(ref, path, nil)

	s, err := NewStream[float32](taps, 0.02, true)
	if err != nil {
		t.Fatalf("NewStream: %v", err)
	}
	out := make([]float32, len(des))
	for off := 0; off < len(des); off += block {
		if err := s.ProcessBlockTo(out[off:off+block], ref[off:off+block], des[off:off+block]); err != nil {
			t.Fatalf("offset %d: %v", off, err)
		}
	}

	// Only the first few samples of each block lack taps; compare the
	// last half of every late block.
	var residual, echo float64
	for off := len(des) - 50*block; off < len(des); off += block {
		residual += testutil.Energy(out, off+block/2, off+block)
		echo += testutil.Energy(des, off+block/2, off+block)
	}
	if residual >= 0.05*echo {
		t.Fatalf("residual %.4g not 13 dB below echo %.4g", residual, echo)
	}
}

func TestStream_SafeModeBoundsError(t *testing.T) {
	ref := testutil.Scale(testutil.Noise[float64](48, 1, 64), 1e9)
	s, err := NewStream[float64](64, 1, true)
	if err != nil {
		t.Fatalf("NewStream: %v", err)
	}
	for range 10 {
		out, err := s.ProcessBlock(ref, ref)
		if err != nil {
			t.Fatalf("ProcessBlock: %v", err)
		}
		testutil.RequireBounded(t, out, SafeErrorBound)
	}
}

func TestStream_Bypass(t *testing.T) {
	ref := testutil.Noise[float32](49, 1, 32)
	des := testutil.Noise[float32](50, 1, 32)

	s, err := NewStream[float32](32, 0.1, false)
	if err != nil {
		t.Fatalf("NewStream: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.SetBypass(true)
	}()
	wg.Wait()

	if !s.Bypassed() {
		t.Fatal("Bypassed() = false after SetBypass(true)")
	}
	out, err := s.ProcessBlock(ref, des)
	if err != nil {
		t.Fatalf("ProcessBlock: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, out, des, 0)
	testutil.RequireSliceNearlyEqual(t, s.Coefficients(), make([]float32, 32), 0)

	s.SetBypass(false)
	out, _ = s.ProcessBlock(ref, des)
	if d, _ := testutil.MaxAbsDiff(out, des); d == 0 {
		t.Fatal("cancellation did not resume after bypass")
	}
}

func TestStream_ResetAndInitialCoefficients(t *testing.T) {
	initial := []float64{1, 0, 0, 0}
	s, err := NewStream[float64](4, 0.5, false, WithInitialCoefficients(initial))
	if err != nil {
		t.Fatalf("NewStream: %v", err)
	}
	initial[0] = 7 // the stream keeps its own copy

	ref := []float64{1, 2, 3, 4}
	out, _ := s.ProcessBlock(ref, ref)
	// With w = [1 0 0 0] the echo of an identity path is cancelled exactly.
	testutil.RequireSliceNearlyEqual(t, out, make([]float64, 4), 0)

	s.ProcessBlock(ref, []float64{0, 0, 0, 0})
	s.Reset()
	testutil.RequireSliceNearlyEqual(t, s.Coefficients(), []float64{1, 0, 0, 0}, 0)

	if s.Taps() != 4 || s.StepSize() != 0.5 {
		t.Fatalf("Taps = %d, StepSize = %v", s.Taps(), s.StepSize())
	}
}

func TestStream_Errors(t *testing.T) {
	if _, err := NewStream[float32](0, 0.1, false); !errors.Is(err, ErrNoTaps) {
		t.Fatalf("err = %v, want ErrNoTaps", err)
	}
	for _, mu := range []float64{-0.1, math.NaN(), math.Inf(1)} {
		if _, err := NewStream[float32](4, mu, false); !errors.Is(err, ErrInvalidStepSize) {
			t.Fatalf("mu %v: err = %v, want ErrInvalidStepSize", mu, err)
		}
	}
	if _, err := NewStream[float32](4, 0.1, false, WithInitialCoefficients([]float64{1, 2})); !errors.Is(err, ErrCoefficientLength) {
		t.Fatalf("err = %v, want ErrCoefficientLength", err)
	}

	s, err := NewStream[float32](4, 0.1, false)
	if err != nil {
		t.Fatalf("NewStream: %v", err)
	}
	if _, err := s.ProcessBlock(make([]float32, 5), make([]float32, 5)); !errors.Is(err, ErrBlockTooLarge) {
		t.Fatalf("err = %v, want ErrBlockTooLarge", err)
	}
	if _, err := s.ProcessBlock(make([]float32, 3), make([]float32, 2)); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("err = %v, want ErrLengthMismatch", err)
	}
	if err := s.ProcessBlockTo(make([]float32, 1), make([]float32, 2), make([]float32, 2)); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("err = %v, want ErrLengthMismatch", err)
	}
	out, err := s.ProcessBlock(nil, nil)
	if err != nil || len(out) != 0 {
		t.Fatalf("empty block: out=%v err=%v", out, err)
	}
}

func TestStream_ProcessBlockDoesNotAllocate(t *testing.T) {
	const taps = 256
	ref := testutil.Noise[float32](51, 1, taps)
	des := testutil.Noise[float32](52, 1, taps)
	dst := make([]float32, taps)

	s, err := NewStream[float32](taps, 1e-3, true)
	if err != nil {
		t.Fatalf("NewStream: %v", err)
	}
	allocs := testing.AllocsPerRun(50, func() {
		if _, err := s.ProcessBlock(ref, des); err != nil {
			t.Fatal(err)
		}
		if err := s.ProcessBlockTo(dst, ref, des); err != nil {
			t.Fatal(err)
		}
	})
	if allocs != 0 {
		t.Fatalf("ProcessBlock allocated %.1f times per call, want 0", allocs)
	}
}
