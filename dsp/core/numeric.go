package core

import "math"

const defaultEpsilon = 1e-12

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

// FlushDenormals converts tiny denormal-like values to exact zero.
// This can reduce denormal-related CPU slowdowns in hot DSP loops.
func FlushDenormals(x float64) float64 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}

	return x
}

// Lerp linearly interpolates from a to b by t in [0, 1].
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// MsToSamples converts a duration in milliseconds to a sample count,
// truncated toward zero.
func MsToSamples(ms, sampleRate float64) int {
	return int(ms * 0.001 * sampleRate)
}

// SamplesToMs converts a sample count to milliseconds.
func SamplesToMs(samples int, sampleRate float64) float64 {
	if sampleRate <= 0 {
		return 0
	}

	return float64(samples) * 1000 / sampleRate
}

// SoftClip applies cubic soft saturation. Input beyond |1| is pinned
// to +-2/3, the curve's value at the clip points.
func SoftClip(x float64) float64 {
	if x > 1 {
		return 2.0 / 3.0
	}

	if x < -1 {
		return -2.0 / 3.0
	}

	return x - (x*x*x)/3
}
