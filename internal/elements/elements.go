// Package elements defines the immutable orbital elements consumed by the
// orbit solver and the table of named variants used to build them.
package elements

import (
	"math"

	"github.com/nashmit/TwoBody-1/internal/kepler"
	"github.com/nashmit/TwoBody-1/internal/rv"
)

// Kind tags an elements variant.
type Kind string

const (
	KindKepler   Kind = "kepler"
	KindCircular Kind = "circular"
)

// Elements is a validated set of Keplerian elements in internal units.
// Values are copied, never shared, so an Elements cannot change once built.
type Elements struct {
	Kind       Kind
	P          float64 // days
	K          float64 // m/s
	Ecc        float64
	Omega      float64 // radians
	Phi0       float64 // radians
	AnomalyTol float64
	Trend      rv.Drift
}

// NewKepler builds and validates a kepler variant with no trend and the
// default solver tolerance.
func NewKepler(P, K, ecc, omega, phi0 float64) (Elements, error) {
	e := Elements{
		Kind:       KindKepler,
		P:          P,
		K:          K,
		Ecc:        ecc,
		Omega:      omega,
		Phi0:       phi0,
		AnomalyTol: kepler.DefaultTolerance,
		Trend:      rv.NoDrift{},
	}
	return e, e.Validate()
}

// WithTrend returns a copy carrying drift d.
func (e Elements) WithTrend(d rv.Drift) Elements {
	if d == nil {
		d = rv.NoDrift{}
	}
	e.Trend = d
	return e
}

// WithAnomalyTol returns a copy with a different solver tolerance.
func (e Elements) WithAnomalyTol(tol float64) Elements {
	e.AnomalyTol = tol
	return e
}

// Validate checks the bound-orbit invariants.
func (e Elements) Validate() error {
	kind := e.Kind
	if kind == "" {
		kind = KindKepler
	}
	switch {
	case !finite(e.P) || e.P <= 0:
		return configErr(kind, "P", "period must be positive, got %v", e.P)
	case !finite(e.K) || e.K < 0:
		return configErr(kind, "K", "semi-amplitude must be non-negative, got %v", e.K)
	case !(e.Ecc >= 0 && e.Ecc < 1):
		return configErr(kind, "ecc", "eccentricity must be in [0, 1), got %v", e.Ecc)
	case !finite(e.Omega):
		return configErr(kind, "omega", "argument of periastron must be finite")
	case !finite(e.Phi0):
		return configErr(kind, "phi0", "pericenter phase must be finite")
	case !finite(e.AnomalyTol) || e.AnomalyTol <= 0:
		return configErr(kind, "anomaly_tol", "tolerance must be positive, got %v", e.AnomalyTol)
	}
	if kind == KindCircular && (e.Ecc != 0 || e.Omega != 0) {
		return configErr(kind, "ecc", "circular elements require ecc = 0 and omega = 0")
	}
	return nil
}

// Params renders the elements as a flat map in internal units.
func (e Elements) Params() map[string]any {
	p := map[string]any{
		"kind":        string(e.Kind),
		"P":           e.P,
		"K":           e.K,
		"ecc":         e.Ecc,
		"omega":       e.Omega,
		"phi0":        e.Phi0,
		"anomaly_tol": e.AnomalyTol,
	}
	switch d := e.Trend.(type) {
	case rv.Polynomial:
		p["trend"] = map[string]any{"kind": "polynomial", "coeffs": d.Coeffs, "t_ref": d.TRef}
	default:
		if rv.IsZero(d) {
			p["trend"] = map[string]any{"kind": "none"}
		} else {
			p["trend"] = map[string]any{"kind": "custom"}
		}
	}
	return p
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
