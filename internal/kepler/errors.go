package kepler

import (
	"errors"
	"fmt"
)

var (
	// ErrEccentricity indicates an eccentricity outside [0, 1).
	ErrEccentricity = errors.New("kepler: eccentricity must be in [0, 1)")

	// ErrTolerance indicates a non-positive convergence tolerance.
	ErrTolerance = errors.New("kepler: tolerance must be positive")

	// ErrNotConverged indicates the iteration cap was hit before every
	// element met the tolerance.
	ErrNotConverged = errors.New("kepler: eccentric anomaly did not converge")
)

// ConvergenceError reports how far from convergence a solve ended.
// The accompanying result is still the best available estimate.
type ConvergenceError struct {
	Unconverged int
	Total       int
	MaxResidual float64
	Iterations  int
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%v: %d of %d values above tolerance after %d iterations (max step %.3g)",
		ErrNotConverged, e.Unconverged, e.Total, e.Iterations, e.MaxResidual)
}

func (e *ConvergenceError) Unwrap() error {
	return ErrNotConverged
}
