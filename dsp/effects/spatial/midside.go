package spatial

import "github.com/cwbudde/algo-monitor/dsp/core"

const (
	defaultMidGain  = 1.0
	defaultSideGain = 1.0

	minChannelGain = 0.0
	maxChannelGain = 2.0

	defaultMidSideBalance = 0.0
	minMidSideBalance     = -1.0
	maxMidSideBalance     = 1.0
)

// EncodeMidSide converts a left/right pair into its mid (sum) and side
// (difference) representation.
func EncodeMidSide(left, right float64) (mid, side float64) {
	return (left + right) * 0.5, (left - right) * 0.5
}

// DecodeMidSide converts a mid/side pair back to left/right. It is the
// exact inverse of EncodeMidSide.
func DecodeMidSide(mid, side float64) (left, right float64) {
	return mid + side, mid - side
}

// SampleFunc transforms a single mid or side sample.
type SampleFunc func(float64) float64

// MidSide applies independent gain and a balance crossfade to the mid
// and side components of a stereo signal.
//
// A positive balance attenuates the mid contribution toward
// side-only; a negative balance attenuates the side contribution
// toward mono. Zero leaves both at their configured gains.
type MidSide struct {
	midGain  core.AtomicFloat64
	sideGain core.AtomicFloat64
	balance  core.AtomicFloat64
}

// NewMidSide creates a mid/side processor with unity gains and
// centered balance.
func NewMidSide() *MidSide {
	m := &MidSide{}
	m.midGain.Store(defaultMidGain)
	m.sideGain.Store(defaultSideGain)
	m.balance.Store(defaultMidSideBalance)

	return m
}

// ProcessBlock processes paired left/right buffers in place. midFn and
// sideFn, when non-nil, transform the respective component per sample
// before gains and balance apply.
func (m *MidSide) ProcessBlock(left, right []float64, midFn, sideFn SampleFunc) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}

	midGain := m.midGain.Load()
	sideGain := m.sideGain.Load()
	balance := m.balance.Load()

	for i := 0; i < n; i++ {
		mid, side := EncodeMidSide(left[i], right[i])

		if midFn != nil {
			mid = midFn(mid)
		}

		if sideFn != nil {
			side = sideFn(side)
		}

		mid *= midGain
		side *= sideGain

		if balance > 0 {
			mid *= 1 - balance
		} else {
			side *= 1 + balance
		}

		left[i], right[i] = DecodeMidSide(mid, side)
	}
}

// SetMidGain sets the mid channel gain, clamped to [0, 2].
func (m *MidSide) SetMidGain(gain float64) {
	m.midGain.Store(clampFinite(gain, minChannelGain, maxChannelGain))
}

// SetSideGain sets the side channel gain, clamped to [0, 2].
func (m *MidSide) SetSideGain(gain float64) {
	m.sideGain.Store(clampFinite(gain, minChannelGain, maxChannelGain))
}

// SetMidSideBalance sets the mid/side crossfade, clamped to [-1, 1].
func (m *MidSide) SetMidSideBalance(balance float64) {
	m.balance.Store(clampFinite(balance, minMidSideBalance, maxMidSideBalance))
}

// MidGain returns the mid channel gain.
func (m *MidSide) MidGain() float64 { return m.midGain.Load() }

// SideGain returns the side channel gain.
func (m *MidSide) SideGain() float64 { return m.sideGain.Load() }

// MidSideBalance returns the mid/side crossfade position.
func (m *MidSide) MidSideBalance() float64 { return m.balance.Load() }
