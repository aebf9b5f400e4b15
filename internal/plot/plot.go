// Package plot draws RV curves on pluggable surfaces.
//
// A [Surface] only has to draw one polyline. [Draw] evaluates an orbit and
// hands the result over in the presentation unit of the style; [DrawPhased]
// does the same against orbital phase.
package plot

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/nashmit/TwoBody-1/internal/orbit"
	"github.com/nashmit/TwoBody-1/internal/units"
)

var (
	ErrLengthMismatch = errors.New("plot: x and y differ in length")
	ErrNoPoints       = errors.New("plot: nothing to draw")
)

// Surface is anything that can draw a polyline.
type Surface interface {
	Line(x, y []float64, style Style) error
}

// Style describes how a curve is drawn. LineStyle follows the usual
// "-", "--", ":" and "-." shorthands.
//
// A zero Alpha means "use the default"; set an explicit opacity, including
// zero, with WithAlpha.
type Style struct {
	LineStyle string
	Alpha     float64
	Marker    string
	Color     string
	Label     string
	Unit      units.VelocityUnit

	alphaSet bool
}

// WithAlpha returns s with opacity a, clamped to [0, 1].
func (s Style) WithAlpha(a float64) Style {
	s.Alpha = math.Max(0, math.Min(1, a))
	s.alphaSet = true
	return s
}

// DefaultStyle is a solid half-transparent line without markers, in km/s.
func DefaultStyle() Style {
	return Style{
		LineStyle: "-",
		Alpha:     0.5,
		Unit:      units.KilometrePerSecond,
	}
}

func (s Style) withDefaults() Style {
	d := DefaultStyle()
	if s.LineStyle == "" {
		s.LineStyle = d.LineStyle
	}
	if s.Alpha == 0 && !s.alphaSet {
		s.Alpha = d.Alpha
	}
	if s.Unit.MetresPerSecond == 0 {
		s.Unit = d.Unit
	}
	return s
}

// Draw evaluates o at ts and draws the curve against time.
func Draw(s Surface, o *orbit.Orbit, ts []float64, style Style) error {
	style = style.withDefaults()
	curve, err := o.CurveIn(ts, style.Unit)
	if err != nil {
		return fmt.Errorf("plot: evaluate: %w", err)
	}
	return s.Line(ts, curve.Values, style)
}

// DrawPhased draws the curve against phase in [0, 1), counted from the
// pericenter nearest ref. Points are sorted by phase so the line does not
// wrap back on itself.
func DrawPhased(s Surface, o *orbit.Orbit, ts []float64, ref float64, style Style) error {
	style = style.withDefaults()
	curve, err := o.CurveIn(ts, style.Unit)
	if err != nil {
		return fmt.Errorf("plot: evaluate: %w", err)
	}
	phase := o.Phase(ts, ref)

	idx := make([]int, len(ts))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return phase[idx[a]] < phase[idx[b]] })

	x := make([]float64, len(idx))
	y := make([]float64, len(idx))
	for i, j := range idx {
		x[i] = phase[j]
		y[i] = curve.Values[j]
	}
	return s.Line(x, y, style)
}

func checkXY(x, y []float64) error {
	if len(x) != len(y) {
		return ErrLengthMismatch
	}
	if len(x) == 0 {
		return ErrNoPoints
	}
	return nil
}
