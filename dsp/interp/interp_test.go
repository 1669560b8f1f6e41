package interp

import (
	"math"
	"testing"
)

func TestLinearEndpoints(t *testing.T) {
	if got := Linear(0, 2, 8); got != 2 {
		t.Fatalf("Linear(0) = %v, want 2", got)
	}
	if got := Linear(1, 2, 8); got != 8 {
		t.Fatalf("Linear(1) = %v, want 8", got)
	}
	if got := Linear(0.5, 2, 8); got != 5 {
		t.Fatalf("Linear(0.5) = %v, want 5", got)
	}
}

func TestHermite4Endpoints(t *testing.T) {
	xm1, x0, x1, x2 := 0.1, 0.4, 0.9, 0.2

	if got := Hermite4(0, xm1, x0, x1, x2); math.Abs(got-x0) > 1e-12 {
		t.Fatalf("Hermite4(0) = %v, want %v", got, x0)
	}

	if got := Hermite4(1, xm1, x0, x1, x2); math.Abs(got-x1) > 1e-12 {
		t.Fatalf("Hermite4(1) = %v, want %v", got, x1)
	}
}

func TestHermite4ReproducesLine(t *testing.T) {
	// A cubic kernel must reproduce linear data exactly.
	for _, frac := range []float64{0, 0.25, 0.5, 0.75, 1} {
		got := Hermite4(frac, 1, 2, 3, 4)
		want := 2 + frac
		if math.Abs(got-want) > 1e-12 {
			t.Fatalf("frac %v: got %v, want %v", frac, got, want)
		}
	}
}
