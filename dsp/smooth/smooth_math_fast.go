//go:build fastmath

package smooth

import (
	"github.com/meko-christian/algo-approx"
)

// mathExp computes e^x using fast approximation.
// The logarithmic smoother calls this once per sample, so the
// approximation error (<0.1% in the audio range) is worth the speedup.
func mathExp(x float64) float64 {
	return approx.FastExp(x)
}

// mathLog computes ln(x) using fast approximation.
func mathLog(x float64) float64 {
	return approx.FastLog(x)
}
