package fir

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-aec/dsp/core"
)

// Filter implements a direct-form FIR filter using a circular-buffer delay line.
// Coefficients and the delay line are held in float64; only the stream
// samples use the precision of T.
type Filter[T core.Sample] struct {
	coeffs []float64
	delay  []float64
	pos    int
}

// New creates a FIR filter from the given coefficient slice.
// The coefficients are copied.
func New[T core.Sample](coeffs []float64) *Filter[T] {
	c := make([]float64, len(coeffs))
	copy(c, coeffs)
	return &Filter[T]{
		coeffs: c,
		delay:  make([]float64, max(len(coeffs), 1)),
	}
}

// FromCoefficients creates a FIR filter from coefficients stored in the
// stream precision, e.g. the output of an adaptive filter run.
func FromCoefficients[T core.Sample](coeffs []T) *Filter[T] {
	return New[T](core.WidenCopy(coeffs))
}

// ProcessSample filters one input sample.
//
//	y[n] = sum_{k=0}^{N-1} h[k] * x[n-k]
func (f *Filter[T]) ProcessSample(x T) T {
	n := len(f.coeffs)
	if n == 0 {
		return 0
	}

	f.delay[f.pos] = float64(x)
	var y float64
	p := f.pos
	for k := range n {
		y += f.coeffs[k] * f.delay[p]
		p--
		if p < 0 {
			p = n - 1
		}
	}
	f.pos++
	if f.pos >= n {
		f.pos = 0
	}
	return T(y)
}

// ProcessBlock filters a block of samples in-place.
func (f *Filter[T]) ProcessBlock(buf []T) {
	for i, x := range buf {
		buf[i] = f.ProcessSample(x)
	}
}

// ProcessBlockTo filters src into dst. dst must be at least as long as src.
func (f *Filter[T]) ProcessBlockTo(dst, src []T) {
	if len(src) == 0 {
		return
	}
	_ = dst[len(src)-1] // bounds check hint
	for i, x := range src {
		dst[i] = f.ProcessSample(x)
	}
}

// Reset clears the delay line to zero.
func (f *Filter[T]) Reset() {
	core.Zero(f.delay)
	f.pos = 0
}

// Taps returns the number of coefficients.
func (f *Filter[T]) Taps() int {
	return len(f.coeffs)
}

// Coefficients returns a copy of the filter coefficients.
func (f *Filter[T]) Coefficients() []float64 {
	c := make([]float64, len(f.coeffs))
	copy(c, f.coeffs)
	return c
}

// Response computes the complex frequency response H(e^{-jw}) at the given
// frequency (Hz) and sample rate (Hz).
func (f *Filter[T]) Response(freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	var h complex128
	for k, c := range f.coeffs {
		h += complex(c, 0) * cmplx.Exp(complex(0, -w*float64(k)))
	}
	return h
}

// MagnitudeDB returns the magnitude response in dB at the given frequency.
func (f *Filter[T]) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 20 * math.Log10(cmplx.Abs(f.Response(freqHz, sampleRate)))
}

// Apply runs src through a fresh filter built from coeffs and returns the
// filtered copy. The input is left untouched.
func Apply[T core.Sample](coeffs []float64, src []T) []T {
	out := make([]T, len(src))
	New[T](coeffs).ProcessBlockTo(out, src)
	return out
}
