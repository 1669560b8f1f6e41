package smooth

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-monitor/dsp/core"
)

const (
	// retriggerTolerance is the smallest target change that restarts a
	// smoothing transition. Smaller changes keep the current trajectory.
	retriggerTolerance = 1e-6

	// snapEpsilon terminates smoothing: once the residual is below this
	// the current value is set exactly to the target.
	snapEpsilon = 1e-5

	defaultTimeMs     = 50.0
	defaultSampleRate = 48000.0
)

// Algorithm selects the smoothing update rule.
type Algorithm int

// Smoothing algorithms, from cheapest to most shaped.
const (
	// Linear interpolates with a fixed per-sample step over the
	// configured duration.
	Linear Algorithm = iota

	// Exponential applies a one-pole lowpass toward the target; the
	// workhorse for most audio parameters.
	Exponential

	// SCurve eases in and out with a smoothstep-weighted blend; the
	// most natural feel for user-dragged controls.
	SCurve

	// Logarithmic smooths in the log domain, matching perception for
	// gain-like parameters. Falls back to Exponential when either
	// endpoint is non-positive.
	Logarithmic
)

// String returns the algorithm name.
func (a Algorithm) String() string {
	switch a {
	case Linear:
		return "linear"
	case Exponential:
		return "exponential"
	case SCurve:
		return "s-curve"
	case Logarithmic:
		return "logarithmic"
	default:
		return fmt.Sprintf("algorithm(%d)", int(a))
	}
}

func (a Algorithm) valid() bool {
	return a >= Linear && a <= Logarithmic
}

// Smoother converts step changes of a control value into a per-sample
// trajectory.
//
// Concurrency contract: SetTarget, SetImmediate, SetSmoothingTime and
// SetSampleRate may be called from a control thread; they write only
// atomic state. Advance, ProcessBlock and Current must be called from
// the render thread, which exclusively owns and mutates the current
// value. An immediate value is staged atomically and consumed by the
// render thread on its next access.
type Smoother struct {
	current float64 // render-thread owned

	target    core.AtomicFloat64
	smoothing atomic.Bool

	// Staged by SetImmediate, consumed on the render side.
	immediate    core.AtomicFloat64
	hasImmediate atomic.Bool

	algorithm  Algorithm
	timeMs     float64 // control-thread owned
	sampleRate float64 // control-thread owned

	// Derived from timeMs and sampleRate, published atomically so the
	// render thread observes reconfiguration without tearing.
	expCoeff   core.AtomicFloat64
	linearStep core.AtomicFloat64
	phaseDelta core.AtomicFloat64

	// Per-transition progress, reinitialized by SetTarget.
	remainingSteps atomic.Int64
	phase          core.AtomicFloat64
}

// New creates a smoother holding initial, configured for the given
// smoothing time, sample rate and algorithm.
func New(initial, timeMs, sampleRate float64, algorithm Algorithm) (*Smoother, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("smoother sample rate must be > 0 and finite: %f", sampleRate)
	}
	if math.IsNaN(timeMs) || math.IsInf(timeMs, 0) {
		return nil, fmt.Errorf("smoother time must be finite: %f", timeMs)
	}
	if math.IsNaN(initial) || math.IsInf(initial, 0) {
		return nil, fmt.Errorf("smoother initial value must be finite: %f", initial)
	}
	if !algorithm.valid() {
		return nil, fmt.Errorf("unknown smoothing algorithm: %d", int(algorithm))
	}

	s := &Smoother{
		current:    initial,
		algorithm:  algorithm,
		timeMs:     timeMs,
		sampleRate: sampleRate,
	}
	s.target.Store(initial)
	s.recomputeCoefficients()

	return s, nil
}

// SetTarget records a new target for the render thread to approach.
// Safe to call from a control thread. Retargeting to (nearly) the same
// value does not restart a transition in flight.
func (s *Smoother) SetTarget(value float64) {
	previous := s.target.Swap(value)

	if math.Abs(value-previous) <= retriggerTolerance {
		return
	}

	switch s.algorithm {
	case Linear:
		s.remainingSteps.Store(s.durationSteps())
	case SCurve:
		s.remainingSteps.Store(s.durationSteps())
		s.phase.Store(0)
	case Exponential, Logarithmic:
		// Memoryless rules; no progress state to reinitialize.
	}

	s.smoothing.Store(true)
}

// SetImmediate bypasses smoothing and jumps directly to value. Safe to
// call from a control thread: the value is staged atomically and the
// render thread adopts it on its next access.
func (s *Smoother) SetImmediate(value float64) {
	s.target.Store(value)
	s.immediate.Store(value)
	s.hasImmediate.Store(true)
	s.smoothing.Store(false)
}

// adoptImmediate folds a staged immediate value into the render-owned
// current value. Render thread only. The flag is cleared before the
// value is read so a concurrent restage is never lost, only reapplied.
func (s *Smoother) adoptImmediate() {
	if !s.hasImmediate.Load() {
		return
	}

	s.hasImmediate.Store(false)
	s.current = s.immediate.Load()
}

// Advance computes and returns the next smoothed sample.
// Render thread only. When no transition is active this is a plain
// load of the held value.
func (s *Smoother) Advance() float64 {
	s.adoptImmediate()

	if !s.smoothing.Load() {
		return s.current
	}

	target := s.target.Load()

	switch s.algorithm {
	case Exponential:
		k := s.expCoeff.Load()
		s.current = s.current*k + target*(1-k)

	case Linear:
		if remaining := s.remainingSteps.Load(); remaining > 0 {
			s.current += (target - s.current) * s.linearStep.Load()
			s.remainingSteps.Store(remaining - 1)
		} else {
			s.current = target
		}

	case SCurve:
		// Termination is counted in integer steps so float accumulation
		// in the phase cannot stretch or shorten the transition.
		if remaining := s.remainingSteps.Load(); remaining > 1 {
			delta := s.phaseDelta.Load()
			phase := s.phase.Load() + delta
			blend := phase * phase * (3 - 2*phase)
			s.current += (target - s.current) * blend * delta
			s.phase.Store(phase)
			s.remainingSteps.Store(remaining - 1)
		} else {
			s.current = target
			s.remainingSteps.Store(0)
		}

	case Logarithmic:
		k := s.expCoeff.Load()
		if target > 0 && s.current > 0 {
			logSmoothed := mathLog(s.current)*k + mathLog(target)*(1-k)
			s.current = mathExp(logSmoothed)
		} else {
			// Log domain is undefined here; blend linearly instead.
			s.current = s.current*k + target*(1-k)
		}
	}

	if math.Abs(s.current-target) < snapEpsilon {
		s.current = target
		s.smoothing.Store(false)
	}

	return s.current
}

// ProcessBlock fills buf with the next len(buf) smoothed samples.
// A settled smoother performs a flat fill without per-sample work.
func (s *Smoother) ProcessBlock(buf []float64) {
	if len(buf) == 0 {
		return
	}

	s.adoptImmediate()

	if !s.smoothing.Load() {
		core.Fill(buf, s.current)
		return
	}

	for i := range buf {
		buf[i] = s.Advance()
	}
}

// SetSmoothingTime updates the smoothing time constant, recomputing
// derived coefficients without discarding the current value. The new
// coefficients are published atomically, so this is safe to call while
// the render thread is processing.
func (s *Smoother) SetSmoothingTime(timeMs float64) error {
	if math.IsNaN(timeMs) || math.IsInf(timeMs, 0) {
		return fmt.Errorf("smoother time must be finite: %f", timeMs)
	}

	s.timeMs = timeMs
	s.recomputeCoefficients()

	return nil
}

// SetSampleRate updates the sample rate, recomputing derived
// coefficients without discarding the current value.
func (s *Smoother) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("smoother sample rate must be > 0 and finite: %f", sampleRate)
	}

	s.sampleRate = sampleRate
	s.recomputeCoefficients()

	return nil
}

// IsActive reports whether a transition is in flight.
func (s *Smoother) IsActive() bool { return s.smoothing.Load() }

// Current returns the held value without advancing. Render thread only.
func (s *Smoother) Current() float64 {
	s.adoptImmediate()
	return s.current
}

// Target returns the most recently set target. Safe from any thread.
func (s *Smoother) Target() float64 { return s.target.Load() }

// TimeMs returns the configured smoothing time in milliseconds.
func (s *Smoother) TimeMs() float64 { return s.timeMs }

// SampleRate returns the configured sample rate in Hz.
func (s *Smoother) SampleRate() float64 { return s.sampleRate }

// Algorithm returns the configured smoothing algorithm.
func (s *Smoother) Algorithm() Algorithm { return s.algorithm }

// recomputeCoefficients derives per-sample constants from the time
// constant and sample rate. A non-positive effective duration falls
// back to immediate-snap coefficients instead of dividing by zero.
func (s *Smoother) recomputeCoefficients() {
	durationSamples := s.timeMs / 1000 * s.sampleRate

	if durationSamples <= 0 {
		s.expCoeff.Store(0)
		s.linearStep.Store(1)
		s.phaseDelta.Store(1)
	} else {
		s.expCoeff.Store(mathExp(-1 / durationSamples))
		s.linearStep.Store(1 / durationSamples)
		s.phaseDelta.Store(1 / durationSamples)
	}

	// Restart progress only when a transition is in flight, so a
	// settled smoother stays settled across reconfiguration.
	if s.smoothing.Load() && (s.algorithm == Linear || s.algorithm == SCurve) {
		s.remainingSteps.Store(s.durationSteps())
	}
}

// durationSteps returns the transition length in whole samples, at
// least one.
func (s *Smoother) durationSteps() int64 {
	durationSamples := s.timeMs / 1000 * s.sampleRate
	if durationSamples <= 1 {
		return 1
	}
	return int64(math.Ceil(durationSamples))
}
