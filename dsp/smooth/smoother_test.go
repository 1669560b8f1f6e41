package smooth

import (
	"math"
	"testing"
)

const convergenceEpsilon = 1e-5

func mustNew(t *testing.T, initial, timeMs, sampleRate float64, algorithm Algorithm) *Smoother {
	t.Helper()

	s, err := New(initial, timeMs, sampleRate, algorithm)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return s
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name       string
		initial    float64
		timeMs     float64
		sampleRate float64
		algorithm  Algorithm
	}{
		{"zero sample rate", 0, 50, 0, Exponential},
		{"negative sample rate", 0, 50, -48000, Exponential},
		{"NaN sample rate", 0, 50, math.NaN(), Exponential},
		{"Inf time", 0, math.Inf(1), 48000, Exponential},
		{"NaN initial", math.NaN(), 50, 48000, Exponential},
		{"unknown algorithm", 0, 50, 48000, Algorithm(99)},
	}

	for _, tc := range cases {
		if _, err := New(tc.initial, tc.timeMs, tc.sampleRate, tc.algorithm); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestConvergenceAllAlgorithms(t *testing.T) {
	algorithms := []Algorithm{Linear, Exponential, SCurve, Logarithmic}
	configs := []struct {
		timeMs     float64
		sampleRate float64
	}{
		{5, 44100},
		{50, 48000},
		{300, 96000},
	}

	for _, alg := range algorithms {
		for _, cfg := range configs {
			s := mustNew(t, 0.25, cfg.timeMs, cfg.sampleRate, alg)
			s.SetTarget(0.9)

			if !s.IsActive() {
				t.Fatalf("%v %+v: not active after SetTarget", alg, cfg)
			}

			// Generous bound: every algorithm must settle within a few
			// time constants.
			bound := int(cfg.timeMs/1000*cfg.sampleRate)*20 + 10

			settled := -1
			for i := 0; i < bound; i++ {
				s.Advance()
				if !s.IsActive() {
					settled = i
					break
				}
			}

			if settled < 0 {
				t.Fatalf("%v %+v: did not settle within %d advances (current=%v)",
					alg, cfg, bound, s.Current())
			}

			if s.Current() != 0.9 {
				t.Fatalf("%v %+v: settled at %v, want exact 0.9", alg, cfg, s.Current())
			}

			// Settled smoother holds its value.
			if got := s.Advance(); got != 0.9 {
				t.Fatalf("%v %+v: advance after settle = %v", alg, cfg, got)
			}
		}
	}
}

func TestSCurveScenarioExactSnap(t *testing.T) {
	// 0.5 -> 0.0, S-curve, 30 ms @ 48 kHz must land exactly after
	// ceil(48000*0.03) advances.
	s := mustNew(t, 0.5, 30, 48000, SCurve)
	s.SetTarget(0)

	steps := int(math.Ceil(48000 * 0.03))
	for i := 0; i < steps-1; i++ {
		s.Advance()
	}

	if !s.IsActive() {
		t.Fatalf("settled %d advances early", 1)
	}

	if got := s.Advance(); got != 0 {
		t.Fatalf("advance %d = %v, want exact 0", steps, got)
	}

	if s.IsActive() {
		t.Fatal("still active after final advance")
	}
}

func TestSetTargetSameValueDoesNotRetrigger(t *testing.T) {
	s := mustNew(t, 0, 100, 48000, Linear)
	s.SetTarget(1)

	for i := 0; i < 100; i++ {
		s.Advance()
	}

	remaining := s.remainingSteps.Load()
	current := s.Current()

	s.SetTarget(1)

	if got := s.remainingSteps.Load(); got != remaining {
		t.Fatalf("remaining steps restarted: %d -> %d", remaining, got)
	}

	if s.Current() != current {
		t.Fatalf("current value disturbed: %v -> %v", current, s.Current())
	}
}

func TestSetTargetWithinToleranceDoesNotRetrigger(t *testing.T) {
	s := mustNew(t, 0, 100, 48000, SCurve)
	s.SetTarget(1)

	for i := 0; i < 50; i++ {
		s.Advance()
	}

	phase := s.phase.Load()
	s.SetTarget(1 + 5e-7) // below retrigger tolerance

	if got := s.phase.Load(); got != phase {
		t.Fatalf("phase restarted: %v -> %v", phase, got)
	}
}

func TestLogarithmicNonPositiveEndpoints(t *testing.T) {
	cases := []struct {
		name            string
		initial, target float64
	}{
		{"target zero", 1.0, 0},
		{"target negative", 1.0, -0.5},
		{"current zero", 0, 1.0},
		{"both negative", -1.0, -0.25},
	}

	for _, tc := range cases {
		s := mustNew(t, tc.initial, 20, 48000, Logarithmic)
		s.SetTarget(tc.target)

		for i := 0; i < 48000; i++ {
			v := s.Advance()
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("%s: non-finite value %v at advance %d", tc.name, v, i)
			}
		}

		if math.Abs(s.Current()-tc.target) > convergenceEpsilon {
			t.Fatalf("%s: converged to %v, want %v", tc.name, s.Current(), tc.target)
		}
	}
}

func TestLogarithmicPositiveEndpointsConverges(t *testing.T) {
	s := mustNew(t, 1.0, 40, 48000, Logarithmic)
	s.SetTarget(0.125)

	for i := 0; i < 48000 && s.IsActive(); i++ {
		s.Advance()
	}

	if s.Current() != 0.125 {
		t.Fatalf("converged to %v, want exact 0.125", s.Current())
	}
}

func TestSetImmediate(t *testing.T) {
	s := mustNew(t, 0, 100, 48000, Exponential)
	s.SetTarget(1)
	s.Advance()

	s.SetImmediate(0.3)

	if s.IsActive() {
		t.Fatal("active after SetImmediate")
	}
	if s.Current() != 0.3 || s.Target() != 0.3 {
		t.Fatalf("current=%v target=%v, want both 0.3", s.Current(), s.Target())
	}
}

func TestNonPositiveTimeSnapsImmediately(t *testing.T) {
	for _, alg := range []Algorithm{Linear, Exponential, SCurve, Logarithmic} {
		s := mustNew(t, 0.2, 0, 48000, alg)
		s.SetTarget(0.8)

		s.Advance()
		if s.Current() != 0.8 {
			t.Fatalf("%v: current = %v after one advance with zero time, want 0.8", alg, s.Current())
		}
		if s.IsActive() {
			t.Fatalf("%v: still active", alg)
		}
	}
}

func TestProcessBlockZeroLengthIsNoOp(t *testing.T) {
	s := mustNew(t, 0.5, 50, 48000, Exponential)
	s.SetTarget(1)
	s.Advance()

	before := s.Current()
	s.ProcessBlock(nil)
	s.ProcessBlock([]float64{})

	if s.Current() != before {
		t.Fatalf("state changed by zero-length block: %v -> %v", s.Current(), before)
	}
}

func TestProcessBlockIdleFlatFill(t *testing.T) {
	s := mustNew(t, 0.75, 50, 48000, Exponential)

	buf := make([]float64, 193)
	s.ProcessBlock(buf)

	for i, v := range buf {
		if v != 0.75 {
			t.Fatalf("index %d: got %v, want 0.75", i, v)
		}
	}
}

func TestProcessBlockActiveMatchesAdvance(t *testing.T) {
	s1 := mustNew(t, 0, 50, 48000, Exponential)
	s2 := mustNew(t, 0, 50, 48000, Exponential)
	s1.SetTarget(1)
	s2.SetTarget(1)

	want := make([]float64, 256)
	for i := range want {
		want[i] = s1.Advance()
	}

	got := make([]float64, 256)
	s2.ProcessBlock(got)

	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("sample %d: block %v != advance %v", i, got[i], want[i])
		}
	}
}

func TestReconfigureKeepsCurrentValue(t *testing.T) {
	s := mustNew(t, 0.4, 50, 48000, Exponential)
	s.SetTarget(1)

	for i := 0; i < 100; i++ {
		s.Advance()
	}

	mid := s.Current()

	if err := s.SetSmoothingTime(10); err != nil {
		t.Fatalf("SetSmoothingTime() error = %v", err)
	}
	if s.Current() != mid {
		t.Fatalf("SetSmoothingTime discarded current value: %v -> %v", mid, s.Current())
	}

	if err := s.SetSampleRate(96000); err != nil {
		t.Fatalf("SetSampleRate() error = %v", err)
	}
	if s.Current() != mid {
		t.Fatalf("SetSampleRate discarded current value: %v -> %v", mid, s.Current())
	}

	// Still converges after reconfiguration.
	for i := 0; i < 96000 && s.IsActive(); i++ {
		s.Advance()
	}
	if s.Current() != 1 {
		t.Fatalf("did not converge after reconfigure: %v", s.Current())
	}
}

func TestSetSampleRateRejectsInvalid(t *testing.T) {
	s := mustNew(t, 0, 50, 48000, Linear)

	if err := s.SetSampleRate(0); err == nil {
		t.Fatal("SetSampleRate(0) should fail")
	}
	if err := s.SetSmoothingTime(math.NaN()); err == nil {
		t.Fatal("SetSmoothingTime(NaN) should fail")
	}
}

func TestAlgorithmString(t *testing.T) {
	want := map[Algorithm]string{
		Linear:        "linear",
		Exponential:   "exponential",
		SCurve:        "s-curve",
		Logarithmic:   "logarithmic",
		Algorithm(42): "algorithm(42)",
	}

	for alg, name := range want {
		if got := alg.String(); got != name {
			t.Errorf("Algorithm(%d).String() = %q, want %q", int(alg), got, name)
		}
	}
}

func TestControlWritesDuringRender(t *testing.T) {
	s := mustNew(t, 0.5, 30, 48000, SCurve)

	done := make(chan struct{})
	go func() {
		defer close(done)

		for i := 0; i < 1000; i++ {
			switch i % 3 {
			case 0:
				s.SetTarget(float64(i%10) / 10)
			case 1:
				s.SetImmediate(float64(i%7) / 7)
			default:
				if err := s.SetSmoothingTime(float64(10 + i%50)); err != nil {
					t.Errorf("SetSmoothingTime() error = %v", err)
				}
			}
		}
	}()

	buf := make([]float64, 64)
	for rendering := true; rendering; {
		select {
		case <-done:
			rendering = false
		default:
		}

		s.ProcessBlock(buf)
	}

	// All targets and immediates were within [0, 1], so every smoothed
	// value must land there too.
	if v := s.Current(); math.IsNaN(v) || v < 0 || v > 1 {
		t.Fatalf("current = %v after concurrent control writes", v)
	}
	for i, v := range buf {
		if math.IsNaN(v) || v < 0 || v > 1 {
			t.Fatalf("buf[%d] = %v after concurrent control writes", i, v)
		}
	}
}

func BenchmarkAdvanceSettled(b *testing.B) {
	s, _ := New(0.5, 50, 48000, Exponential)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Advance()
	}
}

func BenchmarkAdvanceActive(b *testing.B) {
	s, _ := New(0, 1e9, 48000, Exponential) // effectively never settles
	s.SetTarget(1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Advance()
	}
}

func BenchmarkProcessBlockIdle(b *testing.B) {
	s, _ := New(0.5, 50, 48000, SCurve)
	buf := make([]float64, 512)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.ProcessBlock(buf)
	}
}
