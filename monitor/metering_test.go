package monitor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeterStereoMatchesScalarReference(t *testing.T) {
	left := make([]float64, 480)
	right := make([]float64, 480)
	for i := range left {
		left[i] = math.Sin(2 * math.Pi * 440 * float64(i) / 48000)
		right[i] = 0.5 * left[i]
	}

	var sum float64
	peak := 0.0
	for i := range left {
		sum += left[i]*left[i] + right[i]*right[i]
		if a := math.Abs(left[i]); a > peak {
			peak = a
		}
		if a := math.Abs(right[i]); a > peak {
			peak = a
		}
	}
	wantRMS := math.Sqrt(sum / float64(2*len(left)))

	var m Meter
	m.MeasureStereo(left, right)

	levels := m.Levels()
	assert.InDelta(t, wantRMS, levels.RMS, 1e-12)
	assert.InDelta(t, peak, levels.Peak, 1e-12)
}

func TestMeterMono(t *testing.T) {
	buf := []float64{0.5, -0.5, 0.5, -0.5}

	var m Meter
	m.MeasureMono(buf)

	levels := m.Levels()
	assert.InDelta(t, 0.5, levels.RMS, 1e-12)
	assert.InDelta(t, 0.5, levels.Peak, 1e-12)
}

func TestMeterZeroLengthKeepsLastReading(t *testing.T) {
	var m Meter
	m.MeasureMono([]float64{1, 1})

	before := m.Levels()
	m.MeasureMono(nil)
	m.MeasureStereo(nil, nil)

	require.Equal(t, before, m.Levels())
}

func TestMeterReset(t *testing.T) {
	var m Meter
	m.MeasureMono([]float64{1, -1})
	m.Reset()

	levels := m.Levels()
	assert.Zero(t, levels.RMS)
	assert.Zero(t, levels.Peak)
}
