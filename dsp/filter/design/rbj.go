// Package design computes biquad coefficients from analog prototypes
// (RBJ audio-EQ cookbook forms).
package design

import (
	"math"

	"github.com/cwbudde/algo-monitor/dsp/filter/biquad"
)

// ButterworthQ is the Q of a maximally flat second-order response.
const ButterworthQ = math.Sqrt2 / 2

// Lowpass returns RBJ lowpass coefficients for the given cutoff and Q.
// Frequencies at or above Nyquist (or non-positive) yield pass-through
// coefficients rather than an unstable filter.
func Lowpass(freq, q, sampleRate float64) biquad.Coefficients {
	if sampleRate <= 0 || freq <= 0 || freq >= sampleRate*0.5 {
		return biquad.Identity()
	}
	if q <= 0 {
		q = ButterworthQ
	}

	omega := 2 * math.Pi * freq / sampleRate
	sinOmega := math.Sin(omega)
	cosOmega := math.Cos(omega)
	alpha := sinOmega / (2 * q)

	a0 := 1 + alpha

	var c biquad.Coefficients
	c.B0 = (1 - cosOmega) / (2 * a0)
	c.B1 = (1 - cosOmega) / a0
	c.B2 = c.B0
	c.A1 = (-2 * cosOmega) / a0
	c.A2 = (1 - alpha) / a0

	return c
}

// Highpass returns RBJ highpass coefficients for the given cutoff and Q.
// Invalid cutoffs yield pass-through coefficients.
func Highpass(freq, q, sampleRate float64) biquad.Coefficients {
	if sampleRate <= 0 || freq <= 0 || freq >= sampleRate*0.5 {
		return biquad.Identity()
	}
	if q <= 0 {
		q = ButterworthQ
	}

	omega := 2 * math.Pi * freq / sampleRate
	sinOmega := math.Sin(omega)
	cosOmega := math.Cos(omega)
	alpha := sinOmega / (2 * q)

	a0 := 1 + alpha

	var c biquad.Coefficients
	c.B0 = (1 + cosOmega) / (2 * a0)
	c.B1 = -(1 + cosOmega) / a0
	c.B2 = c.B0
	c.A1 = (-2 * cosOmega) / a0
	c.A2 = (1 - alpha) / a0

	return c
}
