package monitor

import (
	"math"

	"github.com/tphakala/simd/f64"

	"github.com/cwbudde/algo-monitor/dsp/core"
)

// Levels is a point-in-time block measurement.
type Levels struct {
	RMS  float64
	Peak float64
}

// Meter accumulates per-block RMS and peak levels, readable from the
// control thread while the render thread updates them.
type Meter struct {
	rms  core.AtomicFloat64
	peak core.AtomicFloat64
}

// MeasureStereo updates the meter from a stereo block pair. Levels
// cover both channels combined.
func (m *Meter) MeasureStereo(left, right []float64) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}

	if n == 0 {
		return
	}

	left = left[:n]
	right = right[:n]

	sum := f64.DotProductUnsafe(left, left) + f64.DotProductUnsafe(right, right)
	m.rms.Store(math.Sqrt(sum / float64(2*n)))

	peak := 0.0
	for i := 0; i < n; i++ {
		if a := math.Abs(left[i]); a > peak {
			peak = a
		}

		if a := math.Abs(right[i]); a > peak {
			peak = a
		}
	}
	m.peak.Store(peak)
}

// MeasureMono updates the meter from a mono block.
func (m *Meter) MeasureMono(buf []float64) {
	if len(buf) == 0 {
		return
	}

	sum := f64.DotProductUnsafe(buf, buf)
	m.rms.Store(math.Sqrt(sum / float64(len(buf))))

	peak := 0.0
	for _, v := range buf {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	m.peak.Store(peak)
}

// Levels returns the most recent block measurement.
func (m *Meter) Levels() Levels {
	return Levels{RMS: m.rms.Load(), Peak: m.peak.Load()}
}

// Reset zeroes the meter.
func (m *Meter) Reset() {
	m.rms.Store(0)
	m.peak.Store(0)
}
