// Package adaptive implements adaptive FIR filters for acoustic echo
// cancellation.
//
// Every filter predicts the echo contained in a desired (microphone)
// signal from a reference (loudspeaker) signal and returns the residual
// desired - prediction, the echo-cancelled output. The prediction at index
// n is the dot product of the coefficients with the newest-first window
// returned by [Window]:
//
//	[reference[n], reference[n-1], ..., reference[n-M+1]]
//
// Batch engines:
//
//   - [LMS]: least mean squares with a search over candidate step sizes.
//     The candidate with the lowest total squared error wins; ties keep
//     the earlier candidate.
//   - [NLMS]: LMS with the step normalised by the window energy.
//   - [RLS]: recursive least squares with an inverse correlation matrix
//     and a forgetting factor.
//
// Batch engines only learn from indices n >= M. The first M outputs are a
// warm-up prefix and are always zero.
//
// For live audio, [Stream] applies the LMS update block by block and keeps
// its coefficients between calls. It does not allocate after construction.
//
// Signals may be float32 or float64. LMS and NLMS accumulate coefficients
// in float64 and round them to the signal precision on return.
//
// # Usage
//
//	res, err := adaptive.LMS(mic, loopback, make([]float32, 1024),
//		[]float64{1e-4, 5e-4, 1e-3}, adaptive.WithSafe())
//	if err != nil {
//		return err
//	}
//	// res.Error is the echo-cancelled signal, res.StepSize the winner.
package adaptive
