package smooth

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-monitor/dsp/core"
)

// Ranged wraps a Smoother with hard value bounds and normalized (0..1)
// control mapping, the shape UI layers deliver.
type Ranged struct {
	*Smoother

	min, max float64
}

// NewRanged creates a bounded smoother. initial is clamped into
// [min, max].
func NewRanged(min, max, initial, timeMs, sampleRate float64, algorithm Algorithm) (*Ranged, error) {
	if min >= max || math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return nil, fmt.Errorf("ranged smoother bounds must satisfy min < max: [%f, %f]", min, max)
	}

	s, err := New(core.Clamp(initial, min, max), timeMs, sampleRate, algorithm)
	if err != nil {
		return nil, err
	}

	return &Ranged{Smoother: s, min: min, max: max}, nil
}

// SetTarget clamps value into range before retargeting.
func (r *Ranged) SetTarget(value float64) {
	r.Smoother.SetTarget(core.Clamp(value, r.min, r.max))
}

// SetNormalized retargets from a normalized 0..1 control value.
func (r *Ranged) SetNormalized(normalized float64) {
	t := core.Clamp(normalized, 0, 1)
	r.Smoother.SetTarget(r.min + t*(r.max-r.min))
}

// Normalized returns the current value mapped back to 0..1.
// Render thread only.
func (r *Ranged) Normalized() float64 {
	return (r.Current() - r.min) / (r.max - r.min)
}

// Min returns the lower bound.
func (r *Ranged) Min() float64 { return r.min }

// Max returns the upper bound.
func (r *Ranged) Max() float64 { return r.max }

// ExponentialRange wraps a Smoother with exponential (log-spaced)
// normalized mapping for frequency-like and time-like parameters.
type ExponentialRange struct {
	*Ranged

	logMin, logMax float64
}

// NewExponentialRange creates a bounded smoother whose normalized
// mapping is exponential. Both bounds must be positive.
func NewExponentialRange(min, max, initial, timeMs, sampleRate float64, algorithm Algorithm) (*ExponentialRange, error) {
	if min <= 0 {
		return nil, fmt.Errorf("exponential range bounds must be > 0: [%f, %f]", min, max)
	}

	r, err := NewRanged(min, max, initial, timeMs, sampleRate, algorithm)
	if err != nil {
		return nil, err
	}

	return &ExponentialRange{
		Ranged: r,
		logMin: math.Log(min),
		logMax: math.Log(max),
	}, nil
}

// SetNormalized retargets from a normalized 0..1 control value with
// exponential scaling, so equal control movements produce equal ratios.
func (e *ExponentialRange) SetNormalized(normalized float64) {
	t := core.Clamp(normalized, 0, 1)
	e.Smoother.SetTarget(math.Exp(e.logMin + t*(e.logMax-e.logMin)))
}

// Normalized returns the current value mapped back to 0..1 on the
// exponential scale. Render thread only.
func (e *ExponentialRange) Normalized() float64 {
	current := math.Max(e.Current(), e.Min())
	return (math.Log(current) - e.logMin) / (e.logMax - e.logMin)
}
