package adaptive

import (
	"math"

	"github.com/cwbudde/algo-aec/dsp/core"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// rls holds the recursive least squares state for M taps.
type rls struct {
	lambda float64

	w      []float64
	window []float64
	gain   []float64

	p  *mat.Dense // inverse correlation estimate, M x M
	u  *mat.VecDense
	pu *mat.VecDense
	uP *mat.VecDense
	g  *mat.VecDense
}

func newRLS(taps int, regParam, lambda float64) *rls {
	s := &rls{
		lambda: lambda,
		w:      make([]float64, taps),
		window: make([]float64, taps),
		gain:   make([]float64, taps),
		p:      mat.NewDense(taps, taps, nil),
		pu:     mat.NewVecDense(taps, nil),
		uP:     mat.NewVecDense(taps, nil),
	}
	s.u = mat.NewVecDense(taps, s.window)
	s.g = mat.NewVecDense(taps, s.gain)
	for i := range taps {
		s.p.Set(i, i, 1/regParam)
	}
	return s
}

// step adapts the state to desired with the window already loaded and
// returns the error of the updated weights.
func (s *rls) step(desired float64) float64 {
	s.pu.MulVec(s.p, s.u)
	denom := s.lambda + mat.Dot(s.u, s.pu)
	for i := range s.gain {
		s.gain[i] = s.pu.AtVec(i) / denom
	}

	prior := desired - floats.Dot(s.w, s.window)
	floats.AddScaled(s.w, prior, s.gain)

	// P = (P - g (u^T P)) / lambda. P is not re-symmetrised; long runs may
	// drift away from symmetry and that is accepted.
	s.uP.MulVec(s.p.T(), s.u)
	s.p.RankOne(s.p, -1, s.g, s.uP)
	s.p.Scale(1/s.lambda, s.p)

	return desired - floats.Dot(s.w, s.window)
}

// RLS runs a recursive least squares adaptive filter.
//
// The inverse correlation matrix starts at I/regParam and the weights at
// zero; initial only fixes the tap count M. For n in [M, stop) the weights
// move by gain * prior error, where the prior error uses the weights from
// before the update. The stored error is recomputed with the updated
// weights. lambda is the forgetting factor, normally in (0, 1].
//
// Nothing guards against P becoming ill-conditioned.
func RLS[T core.Sample](desired, reference, initial []T, regParam, lambda float64, opts ...Option) (Result[T], error) {
	if err := validate(desired, reference, initial); err != nil {
		return Result[T]{}, err
	}
	if !(regParam > 0) || math.IsInf(regParam, 1) {
		return Result[T]{}, ErrInvalidRegularization
	}
	if !(lambda > 0) || math.IsInf(lambda, 1) {
		return Result[T]{}, ErrInvalidForgetting
	}

	cfg := applyOptions(opts)
	stop := cfg.stop(len(reference))

	s := newRLS(len(initial), regParam, lambda)
	errs := make([]T, len(reference))

	for n := len(initial); n < stop; n++ {
		WindowInto(s.window, reference, n)
		errs[n] = T(s.step(float64(desired[n])))
	}

	res := Result[T]{
		Coefficients: core.NarrowCopy[T](s.w),
		TotalError:   core.SumSquares(errs),
	}
	if cfg.keepError {
		res.Error = errs
	}
	return res, nil
}
