// Package erle measures how well an echo canceller works.
//
// The package provides:
//
//   - ERLE: echo return loss enhancement, 10*log10 of desired energy over
//     residual energy, for a whole signal or per segment
//   - TailRatio: residual-to-desired energy ratio over the end of a run,
//     the usual convergence criterion
//   - Misalignment: normalised distance between a known echo path and the
//     learned coefficients, in dB
//   - EchoPathResponse: magnitude response of learned coefficients
//   - Meter: smoothed ERLE for block-wise streams
//
// # Usage
//
//	res, _ := adaptive.LMS(mic, loopback, taps, mus, adaptive.WithSafe())
//	db, _ := erle.ERLE(mic, res.Error)
//	fmt.Printf("ERLE %.1f dB\n", db)
package erle
