package spatial

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-monitor/dsp/core"
	"github.com/cwbudde/algo-monitor/dsp/delay"
)

const (
	haasMaxDelayMs = 50.0

	defaultHaasDelayMs = 10.0
	minHaasDelayMs     = 1.0
	maxHaasDelayMs     = 40.0

	defaultHaasLevel = 0.7

	defaultHaasMix = 1.0
)

// Haas widens the stereo image by delaying one channel a few
// milliseconds relative to the other, below the threshold where the
// delay is heard as a discrete echo.
//
// A delay time of exactly 0 bypasses the effect entirely, leaving both
// channels untouched regardless of the wet/dry mix. Nonzero delay
// times are clamped into the perceptual widening range of 1 to 40 ms.
type Haas struct {
	sampleRate float64

	delayTimeMs core.AtomicFloat64
	level       core.AtomicFloat64
	wetDryMix   core.AtomicFloat64
	delayRight  atomic.Bool

	line *delay.Line
}

// NewHaas creates a Haas processor for the given sample rate.
func NewHaas(sampleRate float64) (*Haas, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("haas sample rate must be > 0 and finite: %f", sampleRate)
	}

	line, err := delay.NewForDuration(haasMaxDelayMs, sampleRate)
	if err != nil {
		return nil, err
	}

	h := &Haas{
		sampleRate: sampleRate,
		line:       line,
	}

	h.delayTimeMs.Store(defaultHaasDelayMs)
	h.level.Store(defaultHaasLevel)
	h.wetDryMix.Store(defaultHaasMix)
	h.delayRight.Store(true)

	return h, nil
}

// ProcessBlock processes paired left/right buffers in place.
func (h *Haas) ProcessBlock(left, right []float64) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}

	delayMs := h.delayTimeMs.Load()
	if delayMs == 0 {
		return
	}

	delaySamples := delayMs * 0.001 * h.sampleRate
	level := h.level.Load()
	mix := h.wetDryMix.Load()
	delayRight := h.delayRight.Load()

	for i := 0; i < n; i++ {
		var source, dry float64
		if delayRight {
			source, dry = right[i], left[i]
		} else {
			source, dry = left[i], right[i]
		}

		wet := h.line.ReadLinear(delaySamples)
		h.line.Write(source)
		wet *= level

		out := dry*(1-mix) + wet*mix
		if delayRight {
			right[i] = out
		} else {
			left[i] = out
		}
	}
}

// SetDelayTime sets the delay in milliseconds. 0 bypasses the effect;
// any other value is clamped to [1, 40].
func (h *Haas) SetDelayTime(delayMs float64) {
	if delayMs == 0 {
		h.delayTimeMs.Store(0)
		return
	}

	h.delayTimeMs.Store(clampFinite(delayMs, minHaasDelayMs, maxHaasDelayMs))
}

// SetDelayRight chooses which channel is delayed.
func (h *Haas) SetDelayRight(delayRight bool) {
	h.delayRight.Store(delayRight)
}

// SetDelayedChannelLevel sets the delayed channel attenuation, clamped
// to [0, 1].
func (h *Haas) SetDelayedChannelLevel(level float64) {
	h.level.Store(clampFinite(level, 0, 1))
}

// SetWetDryMix sets the wet/dry blend on the delayed channel, clamped
// to [0, 1].
func (h *Haas) SetWetDryMix(mix float64) {
	h.wetDryMix.Store(clampFinite(mix, 0, 1))
}

// DelayTime returns the delay in milliseconds, 0 meaning bypassed.
func (h *Haas) DelayTime() float64 { return h.delayTimeMs.Load() }

// DelayRight reports whether the right channel is the delayed one.
func (h *Haas) DelayRight() bool { return h.delayRight.Load() }

// DelayedChannelLevel returns the delayed channel attenuation.
func (h *Haas) DelayedChannelLevel() float64 { return h.level.Load() }

// WetDryMix returns the wet/dry blend.
func (h *Haas) WetDryMix() float64 { return h.wetDryMix.Load() }

// SampleRate returns the sample rate in Hz.
func (h *Haas) SampleRate() float64 { return h.sampleRate }

// Reset clears the delay buffer. Not safe while the render thread is
// processing.
func (h *Haas) Reset() {
	h.line.Reset()
}
