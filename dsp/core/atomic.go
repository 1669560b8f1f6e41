package core

import (
	"math"
	"sync/atomic"
)

// AtomicFloat64 is a lock-free float64 cell for publishing control
// values to a render thread. The zero value holds 0.
type AtomicFloat64 struct {
	bits atomic.Uint64
}

// Load returns the stored value.
func (a *AtomicFloat64) Load() float64 {
	return math.Float64frombits(a.bits.Load())
}

// Store replaces the stored value.
func (a *AtomicFloat64) Store(value float64) {
	a.bits.Store(math.Float64bits(value))
}

// Swap replaces the stored value and returns the previous one.
func (a *AtomicFloat64) Swap(value float64) float64 {
	return math.Float64frombits(a.bits.Swap(math.Float64bits(value)))
}
