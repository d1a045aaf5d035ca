package erle

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-aec/dsp/core"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrEmptyInput      = errors.New("erle: empty input")
	ErrLengthMismatch  = errors.New("erle: buffer length mismatch")
	ErrInvalidSegment  = errors.New("erle: invalid segment length")
	ErrInvalidFraction = errors.New("erle: fraction must be in (0, 1]")
	ErrInvalidFFTSize  = errors.New("erle: FFT size must be a power of two covering all taps")
)

// energy returns sum(x[i]^2) using scratch of at least len(x) samples.
func energy[T core.Sample](x []T, scratch []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	buf := scratch[:len(x)]
	core.Widen(buf, x)
	vecmath.MulBlock(buf, buf, buf)
	return floats.Sum(buf)
}

// ERLE returns the echo return loss enhancement in dB:
//
//	10*log10(sum(desired^2) / sum(residual^2))
//
// Both signals must have the same length. A silent residual yields +Inf
// unless desired is silent too (0 dB).
func ERLE[T core.Sample](desired, residual []T) (float64, error) {
	if len(desired) == 0 {
		return 0, ErrEmptyInput
	}
	if len(desired) != len(residual) {
		return 0, ErrLengthMismatch
	}

	scratch := make([]float64, len(desired))
	return core.PowerRatioDB(energy(desired, scratch), energy(residual, scratch)), nil
}

// Segmental returns the ERLE of every complete segment of the given
// length. A trailing partial segment is ignored.
func Segmental[T core.Sample](desired, residual []T, segment int) ([]float64, error) {
	if segment <= 0 {
		return nil, ErrInvalidSegment
	}
	if len(desired) != len(residual) {
		return nil, ErrLengthMismatch
	}
	if len(desired) < segment {
		return nil, ErrEmptyInput
	}

	scratch := make([]float64, segment)
	out := make([]float64, 0, len(desired)/segment)
	for off := 0; off+segment <= len(desired); off += segment {
		d := energy(desired[off:off+segment], scratch)
		r := energy(residual[off:off+segment], scratch)
		out = append(out, core.PowerRatioDB(d, r))
	}
	return out, nil
}

// TailRatio returns sum(residual^2) / sum(desired^2) over the last
// fraction of both signals. A result below 0.01 means the residual is more
// than 20 dB below the desired signal at the end of the run.
func TailRatio[T core.Sample](desired, residual []T, fraction float64) (float64, error) {
	if !(fraction > 0 && fraction <= 1) {
		return 0, ErrInvalidFraction
	}
	if len(desired) != len(residual) {
		return 0, ErrLengthMismatch
	}
	n := int(math.Ceil(float64(len(desired)) * fraction))
	if n == 0 {
		return 0, ErrEmptyInput
	}

	from := len(desired) - n
	scratch := make([]float64, n)
	d := energy(desired[from:], scratch)
	r := energy(residual[from:], scratch)
	if d == 0 {
		if r == 0 {
			return 0, nil
		}
		return math.Inf(1), nil
	}
	return r / d, nil
}

// Misalignment returns 10*log10(||h - w||^2 / ||h||^2) in dB for a known
// echo path h and learned coefficients w. The shorter vector is treated as
// zero-padded.
func Misalignment[T core.Sample](path []float64, learned []T) (float64, error) {
	n := max(len(path), len(learned))
	if n == 0 {
		return 0, ErrEmptyInput
	}

	h := make([]float64, n)
	w := make([]float64, n)
	copy(h, path)
	core.Widen(w, learned)

	dist := floats.Distance(h, w, 2)
	norm := floats.Norm(h, 2)
	return core.PowerRatioDB(dist*dist, norm*norm), nil
}

// EchoPathResponse returns the magnitude response in dB of the learned
// coefficients at fftSize/2+1 equally spaced bins from DC to Nyquist.
// fftSize must be a power of two no smaller than len(coeffs).
func EchoPathResponse[T core.Sample](coeffs []T, fftSize int) ([]float64, error) {
	if len(coeffs) == 0 {
		return nil, ErrEmptyInput
	}
	if fftSize < len(coeffs) || fftSize&(fftSize-1) != 0 {
		return nil, ErrInvalidFFTSize
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("erle: failed to create FFT plan: %w", err)
	}

	in := make([]complex128, fftSize)
	for i, c := range coeffs {
		in[i] = complex(float64(c), 0)
	}
	freq := make([]complex128, fftSize)
	if err := plan.Forward(freq, in); err != nil {
		return nil, fmt.Errorf("erle: forward FFT failed: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for k := range bins {
		re[k] = real(freq[k])
		im[k] = imag(freq[k])
	}

	out := make([]float64, bins)
	vecmath.Power(out, re, im)
	for k, p := range out {
		out[k] = core.LinearPowerToDB(p)
	}
	return out, nil
}
