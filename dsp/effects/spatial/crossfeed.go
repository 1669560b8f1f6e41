package spatial

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-monitor/dsp/delay"
	"github.com/cwbudde/algo-monitor/dsp/filter/biquad"
	"github.com/cwbudde/algo-monitor/dsp/filter/design"
	"github.com/cwbudde/algo-monitor/dsp/smooth"
)

const (
	defaultCrossFeedAmount = 0.0
	minCrossFeedAmount     = 0.0
	maxCrossFeedAmount     = 1.0

	defaultCrossFeedWidth = 1.0
	minCrossFeedWidth     = 0.0
	maxCrossFeedWidth     = 2.0

	defaultRolloffFreq = 8000.0
	minRolloffFreq     = 1000.0
	maxRolloffFreq     = 20000.0

	defaultInterChannelDelayMs = 0.0
	minInterChannelDelayMs     = 0.0
	maxInterChannelDelayMs     = 10.0

	// Cross-feed is fed at reduced gain to avoid a net energy increase
	// when both channels are summed.
	crossFeedGainReduction = 0.7

	// Below this, amount/delay/width deviations are treated as inactive.
	crossFeedActivityThreshold = 0.001

	amountSmoothingMs  = 20.0
	widthSmoothingMs   = 20.0
	rolloffSmoothingMs = 100.0
	delaySmoothingMs   = 20.0
)

// CrossFeedOption mutates cross-feed construction parameters.
type CrossFeedOption func(*crossFeedConfig) error

type crossFeedConfig struct {
	amount  float64
	width   float64
	rolloff float64
	delayMs float64
}

func defaultCrossFeedConfig() crossFeedConfig {
	return crossFeedConfig{
		amount:  defaultCrossFeedAmount,
		width:   defaultCrossFeedWidth,
		rolloff: defaultRolloffFreq,
		delayMs: defaultInterChannelDelayMs,
	}
}

// WithCrossFeedAmount sets the initial cross-feed amount.
// 0 = no cross-feed, 1 = maximum (applied at reduced gain).
func WithCrossFeedAmount(amount float64) CrossFeedOption {
	return func(cfg *crossFeedConfig) error {
		if amount < minCrossFeedAmount || amount > maxCrossFeedAmount ||
			math.IsNaN(amount) || math.IsInf(amount, 0) {
			return fmt.Errorf("cross-feed amount must be in [%g, %g]: %f",
				minCrossFeedAmount, maxCrossFeedAmount, amount)
		}

		cfg.amount = amount

		return nil
	}
}

// WithStereoWidth sets the initial stereo width.
// 0 = mono, 1 = unchanged, 2 = maximum widening.
func WithStereoWidth(width float64) CrossFeedOption {
	return func(cfg *crossFeedConfig) error {
		if width < minCrossFeedWidth || width > maxCrossFeedWidth ||
			math.IsNaN(width) || math.IsInf(width, 0) {
			return fmt.Errorf("cross-feed stereo width must be in [%g, %g]: %f",
				minCrossFeedWidth, maxCrossFeedWidth, width)
		}

		cfg.width = width

		return nil
	}
}

// WithHighFreqRolloff sets the initial cross-feed low-pass cutoff in Hz.
func WithHighFreqRolloff(freq float64) CrossFeedOption {
	return func(cfg *crossFeedConfig) error {
		if freq < minRolloffFreq || freq > maxRolloffFreq ||
			math.IsNaN(freq) || math.IsInf(freq, 0) {
			return fmt.Errorf("cross-feed rolloff must be in [%g, %g] Hz: %f",
				minRolloffFreq, maxRolloffFreq, freq)
		}

		cfg.rolloff = freq

		return nil
	}
}

// WithInterChannelDelay sets the initial inter-channel delay in
// milliseconds. 0 disables the delay stage.
func WithInterChannelDelay(delayMs float64) CrossFeedOption {
	return func(cfg *crossFeedConfig) error {
		if delayMs < minInterChannelDelayMs || delayMs > maxInterChannelDelayMs ||
			math.IsNaN(delayMs) || math.IsInf(delayMs, 0) {
			return fmt.Errorf("cross-feed inter-channel delay must be in [%g, %g] ms: %f",
				minInterChannelDelayMs, maxInterChannelDelayMs, delayMs)
		}

		cfg.delayMs = delayMs

		return nil
	}
}

// CrossFeed blends a filtered portion of each channel into the other,
// adjusting the perceived stereo width of headphone monitoring.
//
// The per-sample chain is optional phase inversion, a smoothed
// inter-channel delay, low-pass filtered cross-feed injection and a
// mid/side width transform. Every continuous parameter moves through a
// smoother, so control changes never produce hard jumps.
type CrossFeed struct {
	sampleRate float64

	enabled          atomic.Bool
	phaseInvertLeft  atomic.Bool
	phaseInvertRight atomic.Bool

	amount  *smooth.Smoother
	width   *smooth.Smoother
	rolloff *smooth.Smoother
	delayMs *smooth.Smoother

	delayLeft  *delay.Line
	delayRight *delay.Line

	filterLeft  *biquad.Section
	filterRight *biquad.Section
	lastCutoff  float64
}

// NewCrossFeed creates a cross-feed processor for the given sample rate.
func NewCrossFeed(sampleRate float64, opts ...CrossFeedOption) (*CrossFeed, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("cross-feed sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultCrossFeedConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&cfg)
		if err != nil {
			return nil, err
		}
	}

	c := &CrossFeed{sampleRate: sampleRate}
	c.enabled.Store(true)

	var err error

	if c.amount, err = smooth.New(cfg.amount, amountSmoothingMs, sampleRate, smooth.Exponential); err != nil {
		return nil, err
	}

	if c.width, err = smooth.New(cfg.width, widthSmoothingMs, sampleRate, smooth.Exponential); err != nil {
		return nil, err
	}

	if c.rolloff, err = smooth.New(cfg.rolloff, rolloffSmoothingMs, sampleRate, smooth.Exponential); err != nil {
		return nil, err
	}

	if c.delayMs, err = smooth.New(cfg.delayMs, delaySmoothingMs, sampleRate, smooth.Exponential); err != nil {
		return nil, err
	}

	if c.delayLeft, err = delay.NewForDuration(maxInterChannelDelayMs, sampleRate); err != nil {
		return nil, err
	}

	if c.delayRight, err = delay.NewForDuration(maxInterChannelDelayMs, sampleRate); err != nil {
		return nil, err
	}

	c.filterLeft = biquad.NewSection(biquad.Identity())
	c.filterRight = biquad.NewSection(biquad.Identity())
	c.refreshFilters(cfg.rolloff)

	return c, nil
}

// ProcessBlock processes paired left/right buffers in place. When the
// buffer lengths differ only the common prefix is processed; a
// disabled processor passes the signal through untouched.
func (c *CrossFeed) ProcessBlock(left, right []float64) {
	if !c.enabled.Load() {
		return
	}

	n := len(left)
	if len(right) < n {
		n = len(right)
	}

	if n == 0 {
		return
	}

	// Filter coefficients follow the smoothed cutoff at block rate.
	if cutoff := c.rolloff.Current(); math.Abs(cutoff-c.lastCutoff) > crossFeedActivityThreshold {
		c.refreshFilters(cutoff)
	}

	invertLeft := c.phaseInvertLeft.Load()
	invertRight := c.phaseInvertRight.Load()

	for i := 0; i < n; i++ {
		l, r := left[i], right[i]

		if invertLeft {
			l = -l
		}

		if invertRight {
			r = -r
		}

		if dMs := c.delayMs.Advance(); dMs > crossFeedActivityThreshold {
			dSamples := dMs * 0.001 * c.sampleRate

			c.delayLeft.Write(l)
			l = c.delayLeft.ReadLinear(dSamples + 1)

			c.delayRight.Write(r)
			r = c.delayRight.ReadLinear(dSamples + 1)
		}

		filteredLeft := c.filterLeft.ProcessSample(l)
		filteredRight := c.filterRight.ProcessSample(r)

		if feed := c.amount.Advance(); feed > crossFeedActivityThreshold {
			gain := feed * crossFeedGainReduction
			l, r = l+gain*filteredRight, r+gain*filteredLeft
		}

		if width := c.width.Advance(); math.Abs(width-1) > crossFeedActivityThreshold {
			mid := (l + r) * 0.5
			side := (l - r) * 0.5 * width
			l, r = mid+side, mid-side
		}

		c.rolloff.Advance()

		left[i], right[i] = l, r
	}
}

func (c *CrossFeed) refreshFilters(cutoff float64) {
	coeffs := design.Lowpass(cutoff, design.ButterworthQ, c.sampleRate)
	c.filterLeft.SetCoefficients(coeffs)
	c.filterRight.SetCoefficients(coeffs)
	c.lastCutoff = cutoff
}

// SetCrossFeedAmount retargets the cross-feed amount, clamped to [0, 1].
func (c *CrossFeed) SetCrossFeedAmount(amount float64) {
	c.amount.SetTarget(clampFinite(amount, minCrossFeedAmount, maxCrossFeedAmount))
}

// SetStereoWidth retargets the stereo width, clamped to [0, 2].
func (c *CrossFeed) SetStereoWidth(width float64) {
	c.width.SetTarget(clampFinite(width, minCrossFeedWidth, maxCrossFeedWidth))
}

// SetHighFreqRolloff retargets the cross-feed low-pass cutoff in Hz,
// clamped to [1000, 20000].
func (c *CrossFeed) SetHighFreqRolloff(freq float64) {
	c.rolloff.SetTarget(clampFinite(freq, minRolloffFreq, maxRolloffFreq))
}

// SetInterChannelDelay retargets the inter-channel delay in
// milliseconds, clamped to [0, 10].
func (c *CrossFeed) SetInterChannelDelay(delayMs float64) {
	c.delayMs.SetTarget(clampFinite(delayMs, minInterChannelDelayMs, maxInterChannelDelayMs))
}

// SetPhaseInvert toggles hard polarity inversion per channel.
func (c *CrossFeed) SetPhaseInvert(invertLeft, invertRight bool) {
	c.phaseInvertLeft.Store(invertLeft)
	c.phaseInvertRight.Store(invertRight)
}

// SetEnabled toggles the whole processor. Disabled means bit-exact
// pass-through.
func (c *CrossFeed) SetEnabled(enabled bool) {
	c.enabled.Store(enabled)
}

// Enabled reports whether the processor is active.
func (c *CrossFeed) Enabled() bool { return c.enabled.Load() }

// CrossFeedAmount returns the current cross-feed amount target.
func (c *CrossFeed) CrossFeedAmount() float64 { return c.amount.Target() }

// StereoWidth returns the current stereo width target.
func (c *CrossFeed) StereoWidth() float64 { return c.width.Target() }

// HighFreqRolloff returns the current rolloff cutoff target in Hz.
func (c *CrossFeed) HighFreqRolloff() float64 { return c.rolloff.Target() }

// InterChannelDelay returns the current delay target in milliseconds.
func (c *CrossFeed) InterChannelDelay() float64 { return c.delayMs.Target() }

// SampleRate returns the sample rate in Hz.
func (c *CrossFeed) SampleRate() float64 { return c.sampleRate }

// Reset clears delay and filter state. Not safe while the render
// thread is processing.
func (c *CrossFeed) Reset() {
	c.delayLeft.Reset()
	c.delayRight.Reset()
	c.filterLeft.Reset()
	c.filterRight.Reset()
}

// clampFinite clamps value into [min, max], mapping NaN to min.
func clampFinite(value, min, max float64) float64 {
	if math.IsNaN(value) || value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}
