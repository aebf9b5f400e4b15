// Package kepler solves Kepler's equation and converts between the three
// anomalies of a bound two-body orbit.
//
// Angles are in radians and times in days throughout:
//
//   - [MeanAnomaly]: mean anomaly at time t for period P and pericenter phase phi0
//   - [Solve] / [SolveAll]: eccentric anomaly from mean anomaly (Newton-Raphson)
//   - [TrueAnomaly]: true anomaly from eccentric anomaly (half-angle form)
//
// # Convergence
//
// The solver is seeded with E = M and stops once every element moves by
// less than the tolerance. When the iteration cap is reached first, the
// best estimate is still returned together with a [*ConvergenceError];
// callers decide whether to treat it as fatal.
//
//	E, stats, err := kepler.SolveAll(M, 0.3, 1e-10, kepler.DefaultMaxIter)
//	if errors.Is(err, kepler.ErrNotConverged) {
//	    // E holds the best estimate
//	}
package kepler
