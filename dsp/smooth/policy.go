package smooth

import "math"

// userDrivenFactor shortens smoothing while a human is actively
// dragging a control, trading smoothness for responsiveness.
const userDrivenFactor = 0.5

// baseTimesMs holds the recommended smoothing time per role for
// programmatic changes.
var baseTimesMs = [NumRoles]float64{
	WetDryMix:   30,
	InputGain:   40,
	OutputGain:  40,
	ReverbDecay: 200,
	ReverbSize:  300,
	DampingHF:   100,
	DampingLF:   100,
}

// audibilityThresholds holds the smallest per-role change that risks
// audible zipper noise.
var audibilityThresholds = [NumRoles]float64{
	WetDryMix:   0.01,
	InputGain:   0.05,
	OutputGain:  0.05,
	ReverbDecay: 0.1,
	ReverbSize:  0.1,
	DampingHF:   0.05,
	DampingLF:   0.05,
}

// RecommendedTimeMs returns the smoothing duration suited to role,
// halved while the change comes from an active user gesture.
// Out-of-range roles get the most conservative (slowest) base time.
func RecommendedTimeMs(role Role, isUserDriven bool) float64 {
	timeMs := 300.0
	if role >= 0 && int(role) < NumRoles {
		timeMs = baseTimesMs[role]
	}

	if isUserDriven {
		timeMs *= userDrivenFactor
	}

	return timeMs
}

// IsChangeAudible reports whether moving role from oldValue to
// newValue risks audible artifacts without smoothing. Below the
// threshold an immediate set is acceptable and saves smoother churn.
// Out-of-range roles always report true.
func IsChangeAudible(oldValue, newValue float64, role Role) bool {
	if role < 0 || int(role) >= NumRoles {
		return true
	}

	return math.Abs(newValue-oldValue) > audibilityThresholds[role]
}
