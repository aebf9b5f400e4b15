// Package epoch unmods a pericenter phase into an absolute pericenter time.
package epoch

import "math"

// PericenterTime converts phi0 (radians) into the pericenter time, in the
// same days as ref, lying within half a period of ref.
func PericenterTime(phi0, P, ref float64) float64 {
	dt := phi0 / (2 * math.Pi) * P
	n := math.Round((ref - dt) / P)
	return dt + n*P
}

// Phase returns the orbital phase of t relative to pericenter t0, in [0, 1).
func Phase(t, t0, P float64) float64 {
	ph := math.Mod((t-t0)/P, 1)
	if ph < 0 {
		ph++
	}
	if ph >= 1 {
		ph = 0
	}
	return ph
}

// Phases applies Phase to every time in ts.
func Phases(ts []float64, t0, P float64) []float64 {
	out := make([]float64, len(ts))
	for i, t := range ts {
		out[i] = Phase(t, t0, P)
	}
	return out
}
