package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen[T Sample](buf []T, n int) []T {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]T, n)
}

// Zero sets all values in buf to 0.
func Zero[T Sample](buf []T) {
	for i := range buf {
		buf[i] = 0
	}
}

// Widen converts src into the float64 slice dst and returns the number of
// converted elements (the shorter of the two lengths).
func Widen[T Sample](dst []float64, src []T) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = float64(src[i])
	}
	return n
}

// Narrow converts the float64 slice src into dst, rounding to the
// precision of T, and returns the number of converted elements.
func Narrow[T Sample](dst []T, src []float64) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = T(src[i])
	}
	return n
}

// WidenCopy returns a newly allocated float64 copy of src.
func WidenCopy[T Sample](src []T) []float64 {
	out := make([]float64, len(src))
	Widen(out, src)
	return out
}

// NarrowCopy returns a newly allocated copy of src in the precision of T.
func NarrowCopy[T Sample](src []float64) []T {
	out := make([]T, len(src))
	Narrow(out, src)
	return out
}
