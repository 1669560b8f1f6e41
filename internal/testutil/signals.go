package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// StereoSine generates a deterministic stereo pair. The right channel
// runs at the given phase offset in radians: 0 yields perfectly
// correlated channels, pi yields anti-phase channels.
func StereoSine(freqHz, sampleRate, amplitude, phaseOffsetRad float64, length int) (left, right []float64) {
	left = make([]float64, length)
	right = make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range left {
		phase := step * float64(i)
		left[i] = amplitude * math.Sin(phase)
		right[i] = amplitude * math.Sin(phase+phaseOffsetRad)
	}
	return left, right
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// StereoImpulse generates a stereo pair with a unit impulse at the
// given position in both channels.
func StereoImpulse(length, pos int) (left, right []float64) {
	return Impulse(length, pos), Impulse(length, pos)
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}
