package spatial

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-monitor/dsp/core"
	"github.com/cwbudde/algo-monitor/dsp/delay"
)

const (
	chorusBaseDelayMs = 15.0

	// Depth scales the LFO into up to this much delay modulation.
	chorusModulationSpanMs = 10.0

	chorusMaxDelayMs = 50.0

	defaultChorusRate = 0.5
	minChorusRate     = 0.01
	maxChorusRate     = 10.0

	defaultChorusDepth = 0.3
	minChorusDepth     = 0.0
	maxChorusDepth     = 1.0

	defaultChorusFeedback = 0.2
	minChorusFeedback     = 0.0
	maxChorusFeedback     = 0.95

	defaultChorusMix = 0.3

	defaultChorusStereoOffset = 90.0
)

// StereoChorus thickens and widens a stereo signal with one modulated
// delay line per channel. The right LFO runs at a configurable phase
// offset from the left, which decorrelates the channels and produces
// width.
type StereoChorus struct {
	sampleRate float64

	rate         core.AtomicFloat64
	depth        core.AtomicFloat64
	feedback     core.AtomicFloat64
	wetDryMix    core.AtomicFloat64
	stereoOffset core.AtomicFloat64

	delayLeft  *delay.Line
	delayRight *delay.Line

	lfoPhaseLeft  float64
	lfoPhaseRight float64

	// Offset the render thread last folded into lfoPhaseRight. Render
	// thread only; SetStereoOffset publishes through stereoOffset.
	appliedOffset float64
}

// NewStereoChorus creates a stereo chorus for the given sample rate.
func NewStereoChorus(sampleRate float64) (*StereoChorus, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("chorus sample rate must be > 0 and finite: %f", sampleRate)
	}

	left, err := delay.NewForDuration(chorusMaxDelayMs, sampleRate)
	if err != nil {
		return nil, err
	}

	right, err := delay.NewForDuration(chorusMaxDelayMs, sampleRate)
	if err != nil {
		return nil, err
	}

	c := &StereoChorus{
		sampleRate: sampleRate,
		delayLeft:  left,
		delayRight: right,
	}

	c.rate.Store(defaultChorusRate)
	c.depth.Store(defaultChorusDepth)
	c.feedback.Store(defaultChorusFeedback)
	c.wetDryMix.Store(defaultChorusMix)
	c.stereoOffset.Store(defaultChorusStereoOffset)
	c.lfoPhaseRight = offsetRadians(defaultChorusStereoOffset)
	c.appliedOffset = defaultChorusStereoOffset

	return c, nil
}

// ProcessBlock processes paired left/right buffers in place.
func (c *StereoChorus) ProcessBlock(left, right []float64) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}

	if n == 0 {
		return
	}

	if offset := c.stereoOffset.Load(); offset != c.appliedOffset {
		c.lfoPhaseRight = wrapPhase(c.lfoPhaseLeft + offsetRadians(offset))
		c.appliedOffset = offset
	}

	rate := c.rate.Load()
	depth := c.depth.Load()
	feedback := c.feedback.Load()
	mix := c.wetDryMix.Load()
	phaseIncrement := 2 * math.Pi * rate / c.sampleRate

	for i := 0; i < n; i++ {
		lfoLeft := math.Sin(c.lfoPhaseLeft)
		lfoRight := math.Sin(c.lfoPhaseRight)

		c.lfoPhaseLeft = wrapPhase(c.lfoPhaseLeft + phaseIncrement)
		c.lfoPhaseRight = wrapPhase(c.lfoPhaseRight + phaseIncrement)

		delayLeftMs := chorusBaseDelayMs + lfoLeft*depth*chorusModulationSpanMs
		delayRightMs := chorusBaseDelayMs + lfoRight*depth*chorusModulationSpanMs

		wetLeft := c.processDelay(c.delayLeft, left[i], delayLeftMs, feedback)
		wetRight := c.processDelay(c.delayRight, right[i], delayRightMs, feedback)

		left[i] = left[i]*(1-mix) + wetLeft*mix
		right[i] = right[i]*(1-mix) + wetRight*mix
	}
}

func (c *StereoChorus) processDelay(line *delay.Line, input, delayMs, feedback float64) float64 {
	delaySamples := delayMs * 0.001 * c.sampleRate

	wet := line.ReadFractional(delaySamples)
	line.Write(input + wet*feedback)

	return wet
}

// SetRate sets the LFO rate in Hz, clamped to [0.01, 10].
func (c *StereoChorus) SetRate(rateHz float64) {
	c.rate.Store(clampFinite(rateHz, minChorusRate, maxChorusRate))
}

// SetDepth sets the modulation depth, clamped to [0, 1].
func (c *StereoChorus) SetDepth(depth float64) {
	c.depth.Store(clampFinite(depth, minChorusDepth, maxChorusDepth))
}

// SetFeedback sets the delay-line feedback, clamped to [0, 0.95].
func (c *StereoChorus) SetFeedback(feedback float64) {
	c.feedback.Store(clampFinite(feedback, minChorusFeedback, maxChorusFeedback))
}

// SetWetDryMix sets the wet/dry blend, clamped to [0, 1].
func (c *StereoChorus) SetWetDryMix(mix float64) {
	c.wetDryMix.Store(clampFinite(mix, 0, 1))
}

// SetStereoOffset sets the phase offset between the left and right
// LFOs in degrees. The right oscillator is re-phased by the render
// thread at the start of its next block.
func (c *StereoChorus) SetStereoOffset(offsetDegrees float64) {
	if math.IsNaN(offsetDegrees) || math.IsInf(offsetDegrees, 0) {
		return
	}

	c.stereoOffset.Store(offsetDegrees)
}

// Rate returns the LFO rate in Hz.
func (c *StereoChorus) Rate() float64 { return c.rate.Load() }

// Depth returns the modulation depth.
func (c *StereoChorus) Depth() float64 { return c.depth.Load() }

// Feedback returns the delay-line feedback.
func (c *StereoChorus) Feedback() float64 { return c.feedback.Load() }

// WetDryMix returns the wet/dry blend.
func (c *StereoChorus) WetDryMix() float64 { return c.wetDryMix.Load() }

// StereoOffset returns the LFO phase offset in degrees.
func (c *StereoChorus) StereoOffset() float64 { return c.stereoOffset.Load() }

// SampleRate returns the sample rate in Hz.
func (c *StereoChorus) SampleRate() float64 { return c.sampleRate }

// Reset clears delay buffers and LFO phase. Not safe while the render
// thread is processing.
func (c *StereoChorus) Reset() {
	c.delayLeft.Reset()
	c.delayRight.Reset()
	c.lfoPhaseLeft = 0
	c.appliedOffset = c.stereoOffset.Load()
	c.lfoPhaseRight = offsetRadians(c.appliedOffset)
}

func offsetRadians(offsetDegrees float64) float64 {
	return offsetDegrees / 180 * math.Pi
}

func wrapPhase(phase float64) float64 {
	if phase > 2*math.Pi {
		phase -= 2 * math.Pi
	}

	return phase
}
