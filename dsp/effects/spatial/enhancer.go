package spatial

import (
	"sync/atomic"

	"github.com/cwbudde/algo-monitor/dsp/core"
)

// StereoEnhancer runs the spatial processors in a fixed order:
// cross-feed, then chorus, then Haas, then mid/side, each gated by its
// own enable flag and all gated by a master enable.
//
// Processing happens on internally owned scratch buffers sized once at
// construction; blocks longer than the configured maximum are handled
// in segments, never by reallocation.
type StereoEnhancer struct {
	crossFeed *CrossFeed
	chorus    *StereoChorus
	haas      *Haas
	midSide   *MidSide

	enabled        atomic.Bool
	chorusEnabled  atomic.Bool
	haasEnabled    atomic.Bool
	midSideEnabled atomic.Bool

	scratchLeft  []float64
	scratchRight []float64
}

// NewStereoEnhancer creates the spatial chain. Only the cross-feed
// stage starts enabled; chorus, Haas and mid/side are opt-in.
func NewStereoEnhancer(opts ...core.ProcessorOption) (*StereoEnhancer, error) {
	cfg := core.ApplyProcessorOptions(opts...)

	crossFeed, err := NewCrossFeed(cfg.SampleRate)
	if err != nil {
		return nil, err
	}

	chorus, err := NewStereoChorus(cfg.SampleRate)
	if err != nil {
		return nil, err
	}

	haas, err := NewHaas(cfg.SampleRate)
	if err != nil {
		return nil, err
	}

	e := &StereoEnhancer{
		crossFeed:    crossFeed,
		chorus:       chorus,
		haas:         haas,
		midSide:      NewMidSide(),
		scratchLeft:  make([]float64, cfg.MaxBlockSize),
		scratchRight: make([]float64, cfg.MaxBlockSize),
	}
	e.enabled.Store(true)

	return e, nil
}

// ProcessBlock runs the enabled processors over paired left/right
// buffers in place. A disabled enhancer is a bit-exact pass-through.
func (e *StereoEnhancer) ProcessBlock(left, right []float64) {
	if !e.enabled.Load() {
		return
	}

	n := len(left)
	if len(right) < n {
		n = len(right)
	}

	for offset := 0; offset < n; offset += len(e.scratchLeft) {
		end := offset + len(e.scratchLeft)
		if end > n {
			end = n
		}

		e.processSegment(left[offset:end], right[offset:end])
	}
}

func (e *StereoEnhancer) processSegment(left, right []float64) {
	scratchLeft := e.scratchLeft[:len(left)]
	scratchRight := e.scratchRight[:len(right)]
	copy(scratchLeft, left)
	copy(scratchRight, right)

	e.crossFeed.ProcessBlock(scratchLeft, scratchRight)

	if e.chorusEnabled.Load() {
		e.chorus.ProcessBlock(scratchLeft, scratchRight)
	}

	if e.haasEnabled.Load() {
		e.haas.ProcessBlock(scratchLeft, scratchRight)
	}

	if e.midSideEnabled.Load() {
		e.midSide.ProcessBlock(scratchLeft, scratchRight, nil, nil)
	}

	copy(left, scratchLeft)
	copy(right, scratchRight)
}

// CrossFeed exposes the cross-feed stage for configuration.
func (e *StereoEnhancer) CrossFeed() *CrossFeed { return e.crossFeed }

// Chorus exposes the chorus stage for configuration.
func (e *StereoEnhancer) Chorus() *StereoChorus { return e.chorus }

// Haas exposes the Haas stage for configuration.
func (e *StereoEnhancer) Haas() *Haas { return e.haas }

// MidSide exposes the mid/side stage for configuration.
func (e *StereoEnhancer) MidSide() *MidSide { return e.midSide }

// SetEnabled toggles the whole chain.
func (e *StereoEnhancer) SetEnabled(enabled bool) { e.enabled.Store(enabled) }

// SetChorusEnabled toggles the chorus stage.
func (e *StereoEnhancer) SetChorusEnabled(enabled bool) { e.chorusEnabled.Store(enabled) }

// SetHaasEnabled toggles the Haas stage.
func (e *StereoEnhancer) SetHaasEnabled(enabled bool) { e.haasEnabled.Store(enabled) }

// SetMidSideEnabled toggles the mid/side stage.
func (e *StereoEnhancer) SetMidSideEnabled(enabled bool) { e.midSideEnabled.Store(enabled) }

// Enabled reports whether the chain is active.
func (e *StereoEnhancer) Enabled() bool { return e.enabled.Load() }

// ChorusEnabled reports whether the chorus stage is active.
func (e *StereoEnhancer) ChorusEnabled() bool { return e.chorusEnabled.Load() }

// HaasEnabled reports whether the Haas stage is active.
func (e *StereoEnhancer) HaasEnabled() bool { return e.haasEnabled.Load() }

// MidSideEnabled reports whether the mid/side stage is active.
func (e *StereoEnhancer) MidSideEnabled() bool { return e.midSideEnabled.Load() }

// Reset clears the state of every stage. Not safe while the render
// thread is processing.
func (e *StereoEnhancer) Reset() {
	e.crossFeed.Reset()
	e.chorus.Reset()
	e.haas.Reset()

	for i := range e.scratchLeft {
		e.scratchLeft[i] = 0
		e.scratchRight[i] = 0
	}
}
