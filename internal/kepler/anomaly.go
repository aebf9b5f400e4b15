package kepler

import "math"

// MeanAnomaly returns 2π·t/P − phi0 for time t and period P in days.
// The mean anomaly is zero at t = phi0·P/(2π), the pericenter passage.
func MeanAnomaly(t, P, phi0 float64) float64 {
	return twoPi*(t/P) - phi0
}

// MeanAnomalies applies MeanAnomaly to every time in ts.
func MeanAnomalies(ts []float64, P, phi0 float64) []float64 {
	M := make([]float64, len(ts))
	for i, t := range ts {
		M[i] = MeanAnomaly(t, P, phi0)
	}
	return M
}

// TrueAnomaly converts eccentric anomaly to true anomaly using the
// half-angle form, which has no branch cut at E = π.
func TrueAnomaly(E, ecc float64) float64 {
	s, c := math.Sincos(E / 2)
	return 2 * math.Atan2(math.Sqrt(1+ecc)*s, math.Sqrt(1-ecc)*c)
}

// TrueAnomalies applies TrueAnomaly to every element of E.
func TrueAnomalies(E []float64, ecc float64) []float64 {
	nu := make([]float64, len(E))
	for i, e := range E {
		nu[i] = TrueAnomaly(e, ecc)
	}
	return nu
}

// NormalizeAngle maps angle to [0, 2π).
func NormalizeAngle(angle float64) float64 {
	wrapped := math.Mod(angle, twoPi)
	if wrapped < 0 {
		wrapped += twoPi
	}
	return wrapped
}
