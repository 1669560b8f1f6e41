// Package stereo measures stereo image properties of a signal pair:
// inter-channel correlation, width, balance and high-band energy
// share. It is an offline analysis tool, not a render-path component.
package stereo

import (
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-monitor/dsp/core"
)

const (
	defaultFFTSize        = 4096
	defaultHighBandCutoff = 8000.0
)

// Config holds stereo analysis parameters.
type Config struct {
	SampleRate float64
	// FFTSize bounds the spectrum used for the high-band energy
	// ratio. Defaults to 4096 and is rounded up to a power of two.
	FFTSize int
	// HighBandCutoffHz splits the spectrum for the high-band energy
	// ratio. Defaults to 8 kHz.
	HighBandCutoffHz float64
}

// Result holds stereo image measurements.
type Result struct {
	// Correlation is the normalized inter-channel correlation in
	// [-1, 1]. Identical channels give 1, anti-phase channels -1.
	Correlation float64
	// WidthRatio is side RMS over mid RMS. 0 for mono.
	WidthRatio float64
	// BalanceDB is the left/right RMS ratio in dB. Positive means
	// left is louder.
	BalanceDB float64
	// HighBandRatio is the share of mid-signal energy above the
	// configured cutoff, in [0, 1].
	HighBandRatio float64
	// RMSLeft and RMSRight are the per-channel RMS levels.
	RMSLeft  float64
	RMSRight float64
}

// Calculator performs stereo image analysis.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a stereo analyzer.
func NewCalculator(cfg Config) *Calculator {
	cfg = normalizeConfig(cfg)
	return &Calculator{cfg: cfg}
}

// Analyze is a one-shot stereo analysis of a left/right pair.
func Analyze(left, right []float64, cfg Config) Result {
	return NewCalculator(cfg).Analyze(left, right)
}

// Analyze measures the stereo image of a left/right pair. Buffers of
// unequal length are truncated to the common prefix.
func (c *Calculator) Analyze(left, right []float64) Result {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}

	if n == 0 {
		return Result{}
	}

	left = left[:n]
	right = right[:n]

	energyLeft := floats.Dot(left, left)
	energyRight := floats.Dot(right, right)

	res := Result{
		RMSLeft:  math.Sqrt(energyLeft / float64(n)),
		RMSRight: math.Sqrt(energyRight / float64(n)),
	}

	if energyLeft > 0 && energyRight > 0 {
		res.Correlation = floats.Dot(left, right) / math.Sqrt(energyLeft*energyRight)
		res.BalanceDB = core.LinearToDB(res.RMSLeft / res.RMSRight)
	}

	var midEnergy, sideEnergy float64
	mid := make([]float64, n)

	for i := 0; i < n; i++ {
		m := (left[i] + right[i]) * 0.5
		s := (left[i] - right[i]) * 0.5
		mid[i] = m
		midEnergy += m * m
		sideEnergy += s * s
	}

	if midEnergy > 0 {
		res.WidthRatio = math.Sqrt(sideEnergy / midEnergy)
	}

	res.HighBandRatio = c.highBandRatio(mid)

	return res
}

// highBandRatio returns the share of spectral energy above the cutoff.
func (c *Calculator) highBandRatio(signal []float64) float64 {
	fftSize := c.cfg.FFTSize
	if len(signal) < fftSize {
		fftSize = nextPowerOfTwo(len(signal))
	}

	if fftSize < 2 {
		return 0
	}

	in := make([]complex128, fftSize)
	for i := 0; i < fftSize && i < len(signal); i++ {
		in[i] = complex(signal[i], 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return 0
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return 0
	}

	binCount := fftSize/2 + 1
	cutoffBin := int(c.cfg.HighBandCutoffHz / c.cfg.SampleRate * float64(fftSize))

	var total, high float64

	for i := 1; i < binCount; i++ {
		power := real(out[i])*real(out[i]) + imag(out[i])*imag(out[i])
		total += power

		if i >= cutoffBin {
			high += power
		}
	}

	if total == 0 {
		return 0
	}

	return high / total
}

func normalizeConfig(cfg Config) Config {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 48000
	}

	if cfg.FFTSize <= 0 {
		cfg.FFTSize = defaultFFTSize
	}
	cfg.FFTSize = nextPowerOfTwo(cfg.FFTSize)

	if cfg.HighBandCutoffHz <= 0 {
		cfg.HighBandCutoffHz = defaultHighBandCutoff
	}

	return cfg
}

func nextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}

	return size
}
