package plot

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
)

// ASCIISurface renders lines as a terminal chart. asciigraph spaces points
// evenly, so x only sets the caption range.
type ASCIISurface struct {
	Width  int
	Height int
	series [][]float64
	minX   float64
	maxX   float64
	unit   string
	label  string
}

func NewASCIISurface(width, height int) *ASCIISurface {
	return &ASCIISurface{Width: width, Height: height}
}

func (s *ASCIISurface) Line(x, y []float64, style Style) error {
	if err := checkXY(x, y); err != nil {
		return err
	}
	style = style.withDefaults()
	if len(s.series) == 0 {
		s.minX, s.maxX = x[0], x[len(x)-1]
		s.unit = style.Unit.Name
		s.label = style.Label
	}
	s.series = append(s.series, append([]float64(nil), y...))
	return nil
}

// Render returns the chart, or "" if nothing was drawn.
func (s *ASCIISurface) Render() string {
	if len(s.series) == 0 {
		return ""
	}
	caption := fmt.Sprintf("RV [%s], t = %.3f .. %.3f", s.unit, s.minX, s.maxX)
	if s.label != "" {
		caption = s.label + ": " + caption
	}
	opts := []asciigraph.Option{
		asciigraph.Height(s.Height),
		asciigraph.Precision(2),
		asciigraph.Caption(caption),
	}
	if s.Width > 0 {
		opts = append(opts, asciigraph.Width(s.Width))
	}
	return asciigraph.PlotMany(s.series, opts...)
}
