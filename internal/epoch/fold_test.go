package epoch

import (
	"math"
	"testing"
)

func TestPericenterTimeWithinHalfPeriod(t *testing.T) {
	periods := []float64{0.7, 3.5, 10, 365.25}
	refs := []float64{0, 1.3, 55000.5, 58849.12345, -120}
	phis := []float64{0, 0.5, math.Pi, 5.9, -2, 13}

	for _, P := range periods {
		for _, ref := range refs {
			for _, phi0 := range phis {
				t0 := PericenterTime(phi0, P, ref)
				if d := math.Abs(t0 - ref); d > P/2+1e-9*math.Max(1, math.Abs(ref)) {
					t.Errorf("P=%v ref=%v phi0=%v: |t0-ref| = %v > P/2", P, ref, phi0, d)
				}

				// t0 must lie on the pericenter lattice phi0/(2π)·P + n·P.
				n := (t0 - phi0/(2*math.Pi)*P) / P
				if math.Abs(n-math.Round(n)) > 1e-6 {
					t.Errorf("P=%v ref=%v phi0=%v: t0=%v is off the lattice", P, ref, phi0, t0)
				}
			}
		}
	}
}

func TestPericenterTimeZeroPhase(t *testing.T) {
	tests := []struct {
		P, ref, want float64
	}{
		{10, 0, 0},
		{10, 4.9, 0},
		{10, 5.1, 10},
		{10, 57003, 57000},
		{10, -13, -10},
	}

	for _, tt := range tests {
		got := PericenterTime(0, tt.P, tt.ref)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("PericenterTime(0, %v, %v) = %v, want %v", tt.P, tt.ref, got, tt.want)
		}
		if r := math.Mod(got, tt.P); math.Abs(r) > 1e-9 {
			t.Errorf("t0 mod P = %v, want 0", r)
		}
	}
}

func TestPericenterTimeQuarterPhase(t *testing.T) {
	got := PericenterTime(math.Pi/2, 8, 100)
	if math.Abs(got-98) > 1e-9 {
		t.Errorf("expected 98, got %v", got)
	}
}

func TestPhase(t *testing.T) {
	tests := []struct {
		t, t0, P, want float64
	}{
		{0, 0, 10, 0},
		{2.5, 0, 10, 0.25},
		{12.5, 0, 10, 0.25},
		{-2.5, 0, 10, 0.75},
		{57007, 57000, 10, 0.7},
	}
	for _, tt := range tests {
		if got := Phase(tt.t, tt.t0, tt.P); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Phase(%v, %v, %v) = %v, want %v", tt.t, tt.t0, tt.P, got, tt.want)
		}
	}

	ph := Phases([]float64{1, 2, 3}, 0, 4)
	if len(ph) != 3 || ph[2] != 0.75 {
		t.Errorf("Phases = %v", ph)
	}
}
