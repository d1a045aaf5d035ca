package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-aec/dsp/core"
)

// Sine generates a deterministic sine wave.
func Sine[T core.Sample](freqHz, sampleRate, amplitude float64, length int) []T {
	out := make([]T, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = T(amplitude * math.Sin(step*float64(i)))
	}
	return out
}

// Noise generates uniform white noise in [-amplitude, amplitude) with a
// fixed seed for reproducibility.
func Noise[T core.Sample](seed int64, amplitude float64, length int) []T {
	out := make([]T, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = T((rng.Float64()*2 - 1) * amplitude)
	}
	return out
}

// GaussianNoise generates standard-normal white noise scaled by sigma.
func GaussianNoise[T core.Sample](seed int64, sigma float64, length int) []T {
	out := make([]T, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = T(rng.NormFloat64() * sigma)
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse[T core.Sample](length, pos int) []T {
	out := make([]T, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// Scale returns x multiplied by gain.
func Scale[T core.Sample](x []T, gain float64) []T {
	out := make([]T, len(x))
	for i, v := range x {
		out[i] = T(float64(v) * gain)
	}
	return out
}

// EchoPath returns a decaying random room response of the given length
// with its direct tap at index delay.
func EchoPath(seed int64, delay, length int) []float64 {
	path := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for k := delay; k < length; k++ {
		decay := math.Exp(-float64(k-delay) / float64(max(length/8, 1)))
		path[k] = 0.5 * decay * rng.NormFloat64()
	}
	return path
}

// Echo convolves reference with path, i.e. what a microphone picks up from
// a loudspeaker through that path, and adds nearEnd when it is non-nil.
func Echo[T core.Sample](reference []T, path []float64, nearEnd []T) []T {
	out := make([]T, len(reference))
	for n := range reference {
		var acc float64
		for k, h := range path {
			if n-k < 0 {
				break
			}
			acc += h * float64(reference[n-k])
		}
		if n < len(nearEnd) {
			acc += float64(nearEnd[n])
		}
		out[n] = T(acc)
	}
	return out
}

// Energy returns the sum of squares of x[from:to].
func Energy[T core.Sample](x []T, from, to int) float64 {
	return core.SumSquares(x[from:to])
}
