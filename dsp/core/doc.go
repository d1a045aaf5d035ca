// Package core holds the small numeric and buffer helpers shared by the
// adaptive filters, the FIR runtime and the measurement packages.
//
// Signals are generic over [Sample] so callers can keep single-precision
// audio buffers while the filters accumulate in float64. [Widen] and
// [Narrow] bridge the two representations without allocating.
package core
