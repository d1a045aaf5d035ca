package adaptive

import (
	"math"

	"github.com/cwbudde/algo-aec/dsp/core"
	"gonum.org/v1/gonum/floats"
)

// EffectiveStep returns the NLMS step for a window of the given energy:
// stepSize / (power + 1). The constant 1 keeps silent windows finite, so
// the result never exceeds stepSize and equals it only for power == 0.
func EffectiveStep(stepSize, power float64) float64 {
	return stepSize / (power + 1)
}

func validStep(mu float64) bool {
	return mu >= 0 && !math.IsInf(mu, 1)
}

// NLMS runs a normalised least-mean-squares adaptive filter with a single
// step size. Windowing and error follow [LMS]; the update is scaled by
// [EffectiveStep] of the window energy. Safe mode does not apply.
func NLMS[T core.Sample](desired, reference, initial []T, stepSize float64, opts ...Option) (Result[T], error) {
	if err := validate(desired, reference, initial); err != nil {
		return Result[T]{}, err
	}
	if !validStep(stepSize) {
		return Result[T]{}, ErrInvalidStepSize
	}

	cfg := applyOptions(opts)
	stop := cfg.stop(len(reference))

	coeffs := core.WidenCopy(initial)
	window := make([]float64, len(initial))
	errs := make([]T, len(reference))

	for n := len(initial); n < stop; n++ {
		WindowInto(window, reference, n)
		e := float64(desired[n]) - floats.Dot(coeffs, window)
		errs[n] = T(e)

		step := EffectiveStep(stepSize, floats.Dot(window, window))
		floats.AddScaled(coeffs, step*e, window)
	}

	res := Result[T]{
		Coefficients: core.NarrowCopy[T](coeffs),
		StepSize:     stepSize,
		TotalError:   core.SumSquares(errs),
	}
	if cfg.keepError {
		res.Error = errs
	}
	return res, nil
}
