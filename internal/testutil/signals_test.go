package testutil

import (
	"math"
	"testing"
)

func TestDeterministicSineIsReproducible(t *testing.T) {
	a := DeterministicSine(1000, 48000, 0.5, 256)
	b := DeterministicSine(1000, 48000, 0.5, 256)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("index %d: %v != %v", i, a[i], b[i])
		}
	}
	if a[0] != 0 {
		t.Fatalf("sine should start at zero, got %v", a[0])
	}
}

func TestStereoSinePhaseOffset(t *testing.T) {
	left, right := StereoSine(1000, 48000, 1, math.Pi/2, 64)
	if left[0] != 0 {
		t.Fatalf("left should start at zero, got %v", left[0])
	}
	if math.Abs(right[0]-1) > 1e-12 {
		t.Fatalf("right with pi/2 offset should start at 1, got %v", right[0])
	}
}

func TestDeterministicNoiseSeededAndBounded(t *testing.T) {
	a := DeterministicNoise(42, 0.25, 512)
	b := DeterministicNoise(42, 0.25, 512)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("index %d: same seed produced different values", i)
		}
		if math.Abs(a[i]) > 0.25 {
			t.Fatalf("index %d: %v exceeds amplitude", i, a[i])
		}
	}
}

func TestImpulsePlacement(t *testing.T) {
	x := Impulse(16, 3)
	for i, v := range x {
		want := 0.0
		if i == 3 {
			want = 1
		}
		if v != want {
			t.Fatalf("index %d: got %v, want %v", i, v, want)
		}
	}

	// Out-of-range position yields silence.
	y := Impulse(8, 20)
	for i, v := range y {
		if v != 0 {
			t.Fatalf("index %d: expected silence, got %v", i, v)
		}
	}
}

func TestStereoImpulseMatchesChannels(t *testing.T) {
	left, right := StereoImpulse(32, 5)
	for i := range left {
		if left[i] != right[i] {
			t.Fatalf("index %d: channels differ", i)
		}
	}
	if left[5] != 1 {
		t.Fatalf("expected impulse at 5, got %v", left[5])
	}
}

func TestDC(t *testing.T) {
	x := DC(0.75, 10)
	for i, v := range x {
		if v != 0.75 {
			t.Fatalf("index %d: got %v", i, v)
		}
	}
}
