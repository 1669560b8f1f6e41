package smooth

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-monitor/dsp/core"
)

// Role identifies one monitor parameter in the fixed bank. The set of
// roles and their smoothing configuration is fixed at construction;
// role-indexed access is O(1) and allocation-free.
type Role int

// Bank parameter roles.
const (
	WetDryMix Role = iota
	InputGain
	OutputGain
	ReverbDecay
	ReverbSize
	DampingHF
	DampingLF

	NumRoles int = iota
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case WetDryMix:
		return "wet-dry-mix"
	case InputGain:
		return "input-gain"
	case OutputGain:
		return "output-gain"
	case ReverbDecay:
		return "reverb-decay"
	case ReverbSize:
		return "reverb-size"
	case DampingHF:
		return "damping-hf"
	case DampingLF:
		return "damping-lf"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// roleTuning fixes each role's initial value, smoothing time and
// algorithm. The mix parameter gets the fastest, most glitch-resistant
// shape; size and decay tolerate slow transitions.
type roleTuning struct {
	initial   float64
	timeMs    float64
	algorithm Algorithm
}

var roleTunings = [NumRoles]roleTuning{
	WetDryMix:   {initial: 0.5, timeMs: 30, algorithm: SCurve},
	InputGain:   {initial: 1.0, timeMs: 40, algorithm: Logarithmic},
	OutputGain:  {initial: 1.0, timeMs: 40, algorithm: Logarithmic},
	ReverbDecay: {initial: 0.7, timeMs: 200, algorithm: Exponential},
	ReverbSize:  {initial: 0.5, timeMs: 300, algorithm: Exponential},
	DampingHF:   {initial: 0.3, timeMs: 100, algorithm: Exponential},
	DampingLF:   {initial: 0.1, timeMs: 100, algorithm: Exponential},
}

// Bank owns one pre-tuned Smoother per Role plus a cache of smoothed
// values refreshed once per audio block by UpdateAll. The cache cells
// are atomic so SetImmediate can refresh them from a control thread
// while the render thread reads and rewrites them.
type Bank struct {
	smoothers [NumRoles]*Smoother
	values    [NumRoles]core.AtomicFloat64
}

// NewBank creates a bank with every role configured for the given
// sample rate.
func NewBank(sampleRate float64) (*Bank, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("bank sample rate must be > 0 and finite: %f", sampleRate)
	}

	b := &Bank{}

	for role, tuning := range roleTunings {
		s, err := New(tuning.initial, tuning.timeMs, sampleRate, tuning.algorithm)
		if err != nil {
			return nil, fmt.Errorf("role %s: %w", Role(role), err)
		}

		b.smoothers[role] = s
		b.values[role].Store(s.Current())
	}

	return b, nil
}

// SetParameter retargets the smoother for role. Out-of-range roles are
// a defensive no-op, never a fault: a malformed index must not be able
// to destabilize the render thread.
func (b *Bank) SetParameter(role Role, value float64) {
	if role < 0 || int(role) >= NumRoles {
		return
	}

	b.smoothers[role].SetTarget(value)
}

// SetImmediate jumps the role's smoother directly to value without a
// transition. Out-of-range roles are a no-op.
func (b *Bank) SetImmediate(role Role, value float64) {
	if role < 0 || int(role) >= NumRoles {
		return
	}

	b.smoothers[role].SetImmediate(value)
	b.values[role].Store(value)
}

// UpdateAll advances every smoother one step and refreshes the cached
// value array. Call once per audio block from the render thread.
func (b *Bank) UpdateAll() {
	for i := range b.smoothers {
		b.values[i].Store(b.smoothers[i].Advance())
	}
}

// Value returns the cached smoothed value for role, refreshed by the
// last UpdateAll. Out-of-range roles read as 0.
func (b *Bank) Value(role Role) float64 {
	if role < 0 || int(role) >= NumRoles {
		return 0
	}

	return b.values[role].Load()
}

// Smoother exposes the underlying smoother for role, or nil when the
// role is out of range. Intended for configuration, not the render path.
func (b *Bank) Smoother(role Role) *Smoother {
	if role < 0 || int(role) >= NumRoles {
		return nil
	}

	return b.smoothers[role]
}

// IsAnyActive reports whether any role is mid-transition.
func (b *Bank) IsAnyActive() bool {
	for i := range b.smoothers {
		if b.smoothers[i].IsActive() {
			return true
		}
	}

	return false
}

// ActivityMask returns a bitmask with bit i set while Role(i) is
// mid-transition. Diagnostic only.
func (b *Bank) ActivityMask() uint32 {
	var mask uint32

	for i := range b.smoothers {
		if b.smoothers[i].IsActive() {
			mask |= 1 << uint(i)
		}
	}

	return mask
}

// SetSampleRate reconfigures every smoother for a new sample rate
// without discarding current values. Not for concurrent use with the
// render thread.
func (b *Bank) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("bank sample rate must be > 0 and finite: %f", sampleRate)
	}

	for i := range b.smoothers {
		if err := b.smoothers[i].SetSampleRate(sampleRate); err != nil {
			return err
		}
	}

	return nil
}

// LoadPreset retargets the roles the preset defines, leaving the rest
// untouched. Each smoother transitions independently with its own time
// constant, so retargeted parameters do not reach their targets
// simultaneously.
func (b *Bank) LoadPreset(preset Preset) {
	values, ok := presetValues[preset]
	if !ok {
		return
	}

	for _, pv := range values {
		b.SetParameter(pv.role, pv.value)
	}
}

// LoadPresetImmediate applies the preset's values without transitions.
// Intended for initialization, before the render thread starts.
func (b *Bank) LoadPresetImmediate(preset Preset) {
	values, ok := presetValues[preset]
	if !ok {
		return
	}

	for _, pv := range values {
		b.SetImmediate(pv.role, pv.value)
	}
}
