package rv

import "fmt"

// Drift is a long-term velocity trend evaluated at raw MJD times.
// Implementations must return m/s.
type Drift interface {
	Velocity(t float64) float64
}

// NoDrift is the zero trend.
type NoDrift struct{}

func (NoDrift) Velocity(float64) float64 { return 0 }

func (NoDrift) String() string { return "none" }

// Polynomial is Σ Coeffs[i]·(t − TRef)^i, with Coeffs[i] in m/s/day^i.
type Polynomial struct {
	Coeffs []float64
	TRef   float64
}

// NewPolynomial copies coeffs so the trend cannot change after construction.
func NewPolynomial(tRef float64, coeffs ...float64) Polynomial {
	c := make([]float64, len(coeffs))
	copy(c, coeffs)
	return Polynomial{Coeffs: c, TRef: tRef}
}

func (p Polynomial) Velocity(t float64) float64 {
	dt := t - p.TRef
	v := 0.0
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		v = v*dt + p.Coeffs[i]
	}
	return v
}

func (p Polynomial) String() string {
	return fmt.Sprintf("polynomial(t_ref=%g, coeffs=%v)", p.TRef, p.Coeffs)
}

// ApplyDrift adds d evaluated at ts to v in place. A nil drift is a no-op.
func ApplyDrift(v, ts []float64, d Drift) {
	if d == nil {
		return
	}
	if _, ok := d.(NoDrift); ok {
		return
	}
	for i := range v {
		v[i] += d.Velocity(ts[i])
	}
}

// IsZero reports whether d contributes nothing.
func IsZero(d Drift) bool {
	switch v := d.(type) {
	case nil, NoDrift:
		return true
	case Polynomial:
		for _, c := range v.Coeffs {
			if c != 0 {
				return false
			}
		}
		return true
	}
	return false
}
