// Package derived computes the orbit quantities that follow from (P, K, ecc)
// alone: the projected semi-major axis and the mass function.
//
// Inputs use the internal convention (P in days, K in m/s). Results are SI:
// metres for a·sin i and kilograms for f(M). Presentation units are the
// caller's concern; see package units.
package derived

import (
	"errors"
	"fmt"
	"math"
)

const (
	// G is the Newtonian constant of gravitation in m³ kg⁻¹ s⁻².
	G = 6.67430e-11

	secondsPerDay = 86400.0
)

// ErrInvalidInput indicates P ≤ 0, K < 0 or ecc outside [0, 1).
var ErrInvalidInput = errors.New("derived: invalid orbital parameters")

// A1Sini returns K·P·√(1−ecc²)/(2π) in metres.
func A1Sini(P, K, ecc float64) (float64, error) {
	if err := check(P, K, ecc); err != nil {
		return 0, err
	}
	return K * P * secondsPerDay * math.Sqrt(1-ecc*ecc) / (2 * math.Pi), nil
}

// MassFunction returns P·K³·(1−ecc²)^(3/2) / (2πG) in kilograms.
func MassFunction(P, K, ecc float64) (float64, error) {
	if err := check(P, K, ecc); err != nil {
		return 0, err
	}
	return P * secondsPerDay * K * K * K * math.Pow(1-ecc*ecc, 1.5) / (2 * math.Pi * G), nil
}

func check(P, K, ecc float64) error {
	switch {
	case !(P > 0) || math.IsInf(P, 0):
		return fmt.Errorf("%w: period %v must be positive", ErrInvalidInput, P)
	case !(K >= 0) || math.IsInf(K, 0):
		return fmt.Errorf("%w: semi-amplitude %v must be non-negative", ErrInvalidInput, K)
	case !(ecc >= 0 && ecc < 1):
		return fmt.Errorf("%w: eccentricity %v must be in [0, 1)", ErrInvalidInput, ecc)
	}
	return nil
}
