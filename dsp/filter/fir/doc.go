// Package fir provides a direct-form FIR filter runtime over float32 or
// float64 sample streams.
//
// Tap k of a [Filter] multiplies the input delayed by k samples, which is
// the same ordering the adaptive filters in dsp/filter/adaptive use for
// their newest-first prediction windows. Learned echo-path coefficients can
// therefore be replayed, or inspected through [Filter.Response], without
// reordering. The package is also used to synthesise echo paths in tests
// and in cmd/aecsim.
package fir
