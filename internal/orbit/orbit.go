// Package orbit is the public entry point: it wraps one set of orbital
// elements and turns observation times into radial velocities.
//
// An [Orbit] holds no mutable state and is safe for concurrent use.
//
//	el, _ := elements.New("kepler", map[string]any{
//	    "P": "10 d", "K": "5 km/s", "ecc": 0, "omega": 0, "phi0": 0,
//	})
//	o, _ := orbit.New(el)
//	curve, _ := o.Curve([]float64{0, 2.5, 5, 7.5}) // [5 0 -5 0] km/s
package orbit

import (
	"errors"
	"log/slog"
	"time"

	"github.com/nashmit/TwoBody-1/internal/derived"
	"github.com/nashmit/TwoBody-1/internal/elements"
	"github.com/nashmit/TwoBody-1/internal/epoch"
	"github.com/nashmit/TwoBody-1/internal/kepler"
	"github.com/nashmit/TwoBody-1/internal/logging"
	"github.com/nashmit/TwoBody-1/internal/rv"
	"github.com/nashmit/TwoBody-1/internal/timeconv"
	"github.com/nashmit/TwoBody-1/internal/units"
)

// DefaultParallelThreshold is the smallest chunk handed to its own goroutine.
const DefaultParallelThreshold = 4096

// Observer is told about every evaluation.
type Observer interface {
	ObserveSolve(n int, stats kepler.Stats, elapsed time.Duration)
}

// Orbit evaluates the RV curve of one set of elements.
type Orbit struct {
	el                elements.Elements
	logger            *slog.Logger
	observer          Observer
	strict            bool
	maxIter           int
	parallelThreshold int
}

// Option configures an Orbit.
type Option func(*Orbit)

// WithLogger sets the logger used for convergence warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orbit) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver attaches an evaluation observer such as a metrics recorder.
func WithObserver(obs Observer) Option {
	return func(o *Orbit) { o.observer = obs }
}

// WithStrictConvergence makes a Kepler solve that hits the iteration cap an
// evaluation error instead of a logged warning.
func WithStrictConvergence() Option {
	return func(o *Orbit) { o.strict = true }
}

// WithMaxIter overrides kepler.DefaultMaxIter.
func WithMaxIter(n int) Option {
	return func(o *Orbit) { o.maxIter = n }
}

// WithParallelThreshold sets the chunk size above which evaluation fans out
// across goroutines. Zero or negative disables fan-out.
func WithParallelThreshold(n int) Option {
	return func(o *Orbit) { o.parallelThreshold = n }
}

// New validates el and wraps it.
func New(el elements.Elements, opts ...Option) (*Orbit, error) {
	if el.Kind == "" {
		el.Kind = elements.KindKepler
	}
	if el.Trend == nil {
		el.Trend = rv.NoDrift{}
	}
	if err := el.Validate(); err != nil {
		return nil, err
	}

	o := &Orbit{
		el:                el,
		logger:            logging.NewNop(),
		maxIter:           kepler.DefaultMaxIter,
		parallelThreshold: DefaultParallelThreshold,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// FromParams builds the elements through the variant table, then the orbit.
func FromParams(kind string, params map[string]any, opts ...Option) (*Orbit, error) {
	el, err := elements.New(kind, params)
	if err != nil {
		return nil, err
	}
	return New(el, opts...)
}

// Elements returns a copy of the wrapped elements.
func (o *Orbit) Elements() elements.Elements { return o.el }

// Evaluate returns the radial velocity in m/s at each MJD in ts.
//
// When some epochs fail to converge the best estimates are returned and a
// warning is logged; with WithStrictConvergence the *kepler.ConvergenceError
// is returned instead.
func (o *Orbit) Evaluate(ts []float64) ([]float64, error) {
	started := time.Now()
	out := make([]float64, len(ts))

	spans := chunks(len(ts), o.parallelThreshold)
	stats := make([]kepler.Stats, len(spans))
	errs := make([]error, len(spans))
	parallelFor(spans, func(i int, s span) {
		stats[i], errs[i] = o.evaluateInto(ts[s.start:s.end], out[s.start:s.end])
	})

	var total kepler.Stats
	for i := range spans {
		if errs[i] != nil && !errors.Is(errs[i], kepler.ErrNotConverged) {
			return nil, errs[i]
		}
		total.Merge(stats[i])
	}

	if o.observer != nil {
		o.observer.ObserveSolve(len(ts), total, time.Since(started))
	}

	if total.Unconverged > 0 {
		convErr := &kepler.ConvergenceError{
			Unconverged: total.Unconverged,
			Total:       len(ts),
			MaxResidual: total.MaxResidual,
			Iterations:  total.Iterations,
		}
		if o.strict {
			return nil, convErr
		}
		o.logger.Warn("kepler solve did not converge; using best estimate",
			"unconverged", total.Unconverged,
			"samples", len(ts),
			"max_residual", total.MaxResidual,
			"ecc", o.el.Ecc,
			"tol", o.el.AnomalyTol,
		)
	}
	return out, nil
}

func (o *Orbit) evaluateInto(ts, out []float64) (kepler.Stats, error) {
	el := o.el
	M := kepler.MeanAnomalies(ts, el.P, el.Phi0)
	E, stats, err := kepler.SolveAll(M, el.Ecc, el.AnomalyTol, o.maxIter)
	if E == nil {
		return stats, err
	}
	nu := kepler.TrueAnomalies(E, el.Ecc)
	copy(out, rv.Velocities(nu, el.K, el.Ecc, el.Omega))
	rv.ApplyDrift(out, ts, el.Trend)
	return stats, err
}

// EvaluateTimes converts values through timeconv before evaluating.
// Unreadable values surface as *timeconv.DomainError.
func (o *Orbit) EvaluateTimes(values []string, format timeconv.Format) ([]float64, error) {
	ts, err := timeconv.ToRawTime(values, format)
	if err != nil {
		return nil, err
	}
	return o.Evaluate(ts)
}

// Curve is Evaluate tagged in km/s.
func (o *Orbit) Curve(ts []float64) (units.VelocitySeries, error) {
	return o.CurveIn(ts, units.KilometrePerSecond)
}

// CurveIn is Evaluate tagged in unit u.
func (o *Orbit) CurveIn(ts []float64, u units.VelocityUnit) (units.VelocitySeries, error) {
	raw, err := o.Evaluate(ts)
	if err != nil {
		return units.VelocitySeries{}, err
	}
	return units.NewVelocitySeries(raw, u), nil
}

// PericenterTime returns the pericenter passage (MJD) within P/2 of ref.
func (o *Orbit) PericenterTime(ref float64) float64 {
	return epoch.PericenterTime(o.el.Phi0, o.el.P, ref)
}

// Phase returns the orbital phase in [0, 1) of each time, counted from
// the pericenter nearest ref.
func (o *Orbit) Phase(ts []float64, ref float64) []float64 {
	return epoch.Phases(ts, o.PericenterTime(ref), o.el.P)
}

// A1Sini is the projected semi-major axis in metres. The elements were
// validated in New, so the computation cannot fail.
func (o *Orbit) A1Sini() float64 {
	v, _ := derived.A1Sini(o.el.P, o.el.K, o.el.Ecc)
	return v
}

// MassFunction is the binary mass function in kilograms.
func (o *Orbit) MassFunction() float64 {
	v, _ := derived.MassFunction(o.el.P, o.el.K, o.el.Ecc)
	return v
}
