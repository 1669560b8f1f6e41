package stereo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(n int, freq, sampleRate, amplitude float64) []float64 {
	buf := make([]float64, n)
	for i := range buf {
		buf[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}

	return buf
}

func TestAnalyzeIdenticalChannels(t *testing.T) {
	left := sine(4096, 440, 48000, 0.5)
	right := append([]float64(nil), left...)

	res := Analyze(left, right, Config{SampleRate: 48000})

	assert.InDelta(t, 1.0, res.Correlation, 1e-12)
	assert.InDelta(t, 0.0, res.WidthRatio, 1e-12)
	assert.InDelta(t, 0.0, res.BalanceDB, 1e-9)
	assert.InDelta(t, res.RMSLeft, res.RMSRight, 1e-12)
}

func TestAnalyzeAntiPhaseChannels(t *testing.T) {
	left := sine(4096, 440, 48000, 0.5)
	right := make([]float64, len(left))
	for i := range left {
		right[i] = -left[i]
	}

	res := Analyze(left, right, Config{SampleRate: 48000})

	assert.InDelta(t, -1.0, res.Correlation, 1e-12)
	// Pure side signal: mid energy is zero, width reads as zero by
	// convention.
	assert.Zero(t, res.WidthRatio)
}

func TestAnalyzeBalanceSign(t *testing.T) {
	left := sine(2048, 440, 48000, 1.0)
	right := sine(2048, 440, 48000, 0.5)

	res := Analyze(left, right, Config{SampleRate: 48000})

	assert.InDelta(t, 6.02, res.BalanceDB, 0.05)

	res = Analyze(right, left, Config{SampleRate: 48000})
	assert.InDelta(t, -6.02, res.BalanceDB, 0.05)
}

func TestAnalyzeHighBandRatio(t *testing.T) {
	lowLeft := sine(4096, 200, 48000, 0.5)
	lowRight := append([]float64(nil), lowLeft...)

	res := Analyze(lowLeft, lowRight, Config{SampleRate: 48000})
	assert.Less(t, res.HighBandRatio, 0.05, "200 Hz tone should carry almost no high-band energy")

	highLeft := sine(4096, 12000, 48000, 0.5)
	highRight := append([]float64(nil), highLeft...)

	res = Analyze(highLeft, highRight, Config{SampleRate: 48000})
	assert.Greater(t, res.HighBandRatio, 0.95, "12 kHz tone should be almost all high-band energy")
}

func TestAnalyzeWidthRatio(t *testing.T) {
	// Uncorrelated sines spread energy between mid and side.
	left := sine(4096, 440, 48000, 0.5)
	right := sine(4096, 443, 48000, 0.5)

	res := Analyze(left, right, Config{SampleRate: 48000})

	assert.Greater(t, res.WidthRatio, 0.5)
	assert.Less(t, res.WidthRatio, 2.0)
}

func TestAnalyzeZeroLength(t *testing.T) {
	res := Analyze(nil, nil, Config{})
	require.Equal(t, Result{}, res)
}

func TestAnalyzeSilence(t *testing.T) {
	res := Analyze(make([]float64, 512), make([]float64, 512), Config{SampleRate: 48000})

	assert.Zero(t, res.Correlation)
	assert.Zero(t, res.WidthRatio)
	assert.Zero(t, res.HighBandRatio)
}

func TestAnalyzeUnequalLengthsTruncates(t *testing.T) {
	left := sine(1000, 440, 48000, 0.5)
	right := sine(800, 440, 48000, 0.5)

	res := Analyze(left, right, Config{SampleRate: 48000})
	assert.InDelta(t, 1.0, res.Correlation, 1e-12)
}
