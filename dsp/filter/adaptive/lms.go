package adaptive

import (
	"math"

	"github.com/cwbudde/algo-aec/dsp/core"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of a batch filter run.
type Result[T core.Sample] struct {
	// Error is the residual desired - prediction, one sample per reference
	// sample. Indices that were not adapted hold zero. Nil when the run was
	// configured with WithoutErrorSignal.
	Error []T

	// Coefficients are the final filter weights in the signal precision.
	Coefficients []T

	// StepSize is the selected LMS candidate, the NLMS step size, or 0 for RLS.
	StepSize float64

	// TotalError is the sum of squared error samples.
	TotalError float64
}

// pass is the working state of one LMS candidate.
type pass[T core.Sample] struct {
	coeffs []float64
	window []float64
	errs   []T
	total  float64
}

func newPass[T core.Sample](taps, length int) *pass[T] {
	return &pass[T]{
		coeffs: make([]float64, taps),
		window: make([]float64, taps),
		errs:   make([]T, length),
	}
}

// run adapts p from initial over indices [len(initial), stop).
func (p *pass[T]) run(desired, reference, initial []T, mu float64, stop int, safe bool) {
	core.Widen(p.coeffs, initial)
	core.Zero(p.errs)

	for n := len(initial); n < stop; n++ {
		WindowInto(p.window, reference, n)
		p.errs[n] = T(lmsStep(p.coeffs, p.window, float64(desired[n]), mu, safe))
	}

	p.total = core.SumSquares(p.errs)
}

// LMS runs a least-mean-squares adaptive filter once per candidate step
// size and returns the run with the smallest total squared error.
//
// Every candidate starts from initial, whose length sets the tap count M.
// For n in [M, stop) the filter predicts desired[n] from [Window](reference, n, M),
// stores the error and moves the coefficients by mu*error*window. stop is
// len(reference) unless limited by WithMaxIterations.
//
// Selection uses a strict comparison, so on equal totals the candidate
// listed first wins. A candidate whose total is NaN never wins; if none
// wins, the result carries initial, a zero error signal and stepSizes[0].
// A signal no longer than M is not an error: nothing is adapted.
func LMS[T core.Sample](desired, reference, initial []T, stepSizes []float64, opts ...Option) (Result[T], error) {
	if err := validate(desired, reference, initial); err != nil {
		return Result[T]{}, err
	}
	if len(stepSizes) == 0 {
		return Result[T]{}, ErrNoStepSizes
	}

	cfg := applyOptions(opts)
	stop := cfg.stop(len(reference))

	var best *pass[T]
	bestTotal := math.Inf(1)
	bestMu := stepSizes[0]

	if cfg.parallelism > 1 && len(stepSizes) > 1 {
		passes := make([]*pass[T], len(stepSizes))
		var g errgroup.Group
		g.SetLimit(cfg.parallelism)
		for i, mu := range stepSizes {
			g.Go(func() error {
				p := newPass[T](len(initial), len(reference))
				p.run(desired, reference, initial, mu, stop, cfg.safe)
				passes[i] = p
				return nil
			})
		}
		_ = g.Wait()

		for i, p := range passes {
			if p.total < bestTotal {
				best, bestTotal, bestMu = p, p.total, stepSizes[i]
			}
		}
	} else {
		cur := newPass[T](len(initial), len(reference))
		var spare *pass[T]
		for _, mu := range stepSizes {
			cur.run(desired, reference, initial, mu, stop, cfg.safe)
			if cur.total < bestTotal {
				bestTotal, bestMu = cur.total, mu
				best, spare = cur, best
				if spare == nil {
					spare = newPass[T](len(initial), len(reference))
				}
				cur = spare
			}
		}
	}

	res := Result[T]{StepSize: bestMu}
	if best == nil {
		res.TotalError = math.NaN()
		res.Coefficients = append([]T(nil), initial...)
		if cfg.keepError {
			res.Error = make([]T, len(reference))
		}
		return res, nil
	}

	res.Coefficients = core.NarrowCopy[T](best.coeffs)
	res.TotalError = best.total
	if cfg.keepError {
		res.Error = best.errs
	}
	return res, nil
}

func validate[T core.Sample](desired, reference, initial []T) error {
	if len(initial) == 0 {
		return ErrNoTaps
	}
	if len(desired) != len(reference) {
		return ErrLengthMismatch
	}
	return nil
}
