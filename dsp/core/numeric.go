package core

import "math"

const defaultEpsilon = 1e-12

// Sample is the set of element types accepted for signals and coefficient
// vectors.
type Sample interface {
	~float32 | ~float64
}

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// ClampSymmetric limits value to [-bound, bound]. NaN is returned unchanged.
func ClampSymmetric(value, bound float64) float64 {
	bound = math.Abs(bound)
	if value > bound {
		return bound
	}

	if value < -bound {
		return -bound
	}

	return value
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// IsFinite reports whether x is neither NaN nor an infinity.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// LinearPowerToDB converts linear power to dB (10*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearPowerToDB(power float64) float64 {
	if power < 0 {
		return math.NaN()
	}

	if power == 0 {
		return math.Inf(-1)
	}

	return 10 * math.Log10(power)
}

// PowerRatioDB returns 10*log10(num/den). A zero denominator yields +Inf
// unless the numerator is zero too, in which case the ratio is 0 dB.
func PowerRatioDB(num, den float64) float64 {
	if den == 0 {
		if num == 0 {
			return 0
		}
		return math.Inf(1)
	}

	return LinearPowerToDB(num / den)
}

// SumSquares returns sum(x[i]^2) accumulated in float64.
func SumSquares[T Sample](x []T) float64 {
	var sum float64
	for _, v := range x {
		f := float64(v)
		sum += f * f
	}

	return sum
}
