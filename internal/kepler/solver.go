package kepler

import (
	"math"
)

const (
	// DefaultMaxIter caps Newton iterations per solve.
	DefaultMaxIter = 100

	// DefaultTolerance is the step size below which a solve counts as converged.
	DefaultTolerance = 1e-10

	twoPi = 2 * math.Pi
)

// Stats summarises one vectorised solve.
type Stats struct {
	// Iterations is the number of passes made over the array.
	Iterations int
	// Unconverged counts elements still above tolerance at the end.
	Unconverged int
	// MaxResidual is the largest final step among all elements. It is NaN
	// when any element's step is NaN.
	MaxResidual float64
}

// Merge folds the stats of an independent chunk into s.
func (s *Stats) Merge(other Stats) {
	if other.Iterations > s.Iterations {
		s.Iterations = other.Iterations
	}
	s.Unconverged += other.Unconverged
	if math.IsNaN(s.MaxResidual) {
		return
	}
	if other.MaxResidual > s.MaxResidual || math.IsNaN(other.MaxResidual) {
		s.MaxResidual = other.MaxResidual
	}
}

// Solve returns the eccentric anomaly E satisfying M = E - ecc*sin(E) and the
// number of iterations used. A *ConvergenceError is returned alongside the
// best estimate when maxIter is exhausted.
func Solve(M, ecc, tol float64, maxIter int) (float64, int, error) {
	E, stats, err := SolveAll([]float64{M}, ecc, tol, maxIter)
	if E == nil {
		return math.NaN(), 0, err
	}
	return E[0], stats.Iterations, err
}

// SolveAll solves Kepler's equation for every mean anomaly in M with a single
// eccentricity. Each element converges independently; the loop ends when all
// of them have moved by less than tol in their last step, or after maxIter
// passes. A maxIter <= 0 selects DefaultMaxIter.
func SolveAll(M []float64, ecc, tol float64, maxIter int) ([]float64, Stats, error) {
	if err := checkParams(ecc, tol); err != nil {
		return nil, Stats{}, err
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}

	n := len(M)
	E := make([]float64, n)
	reduced := make([]float64, n)
	wraps := make([]float64, n)
	for i, m := range M {
		reduced[i], wraps[i] = reduce(m)
		E[i] = reduced[i]
	}

	step := make([]float64, n)
	done := make([]bool, n)
	remaining := n

	var stats Stats
	for iter := 0; iter < maxIter && remaining > 0; iter++ {
		stats.Iterations++
		for i := range E {
			if done[i] {
				continue
			}
			next := newtonStep(E[i], reduced[i], ecc)
			d := math.Abs(next - E[i])
			E[i] = next
			step[i] = d
			if d < tol {
				done[i] = true
				remaining--
			}
		}
	}

	for i := range E {
		E[i] += wraps[i]
		if step[i] > stats.MaxResidual || math.IsNaN(step[i]) {
			stats.MaxResidual = step[i]
		}
	}
	stats.Unconverged = remaining

	if remaining > 0 {
		return E, stats, &ConvergenceError{
			Unconverged: remaining,
			Total:       n,
			MaxResidual: stats.MaxResidual,
			Iterations:  stats.Iterations,
		}
	}
	return E, stats, nil
}

// Residual returns E - ecc*sin(E) - M.
func Residual(E, M, ecc float64) float64 {
	return E - ecc*math.Sin(E) - M
}

func newtonStep(E, M, ecc float64) float64 {
	return E - (E-ecc*math.Sin(E)-M)/(1-ecc*math.Cos(E))
}

// reduce splits m into a representative in [-π, π) and the multiple of 2π
// that was removed.
func reduce(m float64) (float64, float64) {
	if math.IsNaN(m) || math.IsInf(m, 0) {
		return m, 0
	}
	k := math.Floor((m + math.Pi) / twoPi)
	wrap := k * twoPi
	return m - wrap, wrap
}

func checkParams(ecc, tol float64) error {
	if !(ecc >= 0 && ecc < 1) {
		return ErrEccentricity
	}
	if !(tol > 0) {
		return ErrTolerance
	}
	return nil
}
