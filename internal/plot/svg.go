package plot

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// SVGSurface collects lines and renders them into one SVG document on a
// shared set of axes.
type SVGSurface struct {
	Width      int
	Height     int
	Background string
	lines      []svgLine
}

type svgLine struct {
	x, y  []float64
	style Style
}

// NewSVGSurface returns a dark-background surface of the given pixel size.
func NewSVGSurface(width, height int) *SVGSurface {
	return &SVGSurface{Width: width, Height: height, Background: "#0a0a0a"}
}

func (s *SVGSurface) Line(x, y []float64, style Style) error {
	if err := checkXY(x, y); err != nil {
		return err
	}
	s.lines = append(s.lines, svgLine{
		x:     append([]float64(nil), x...),
		y:     append([]float64(nil), y...),
		style: style.withDefaults(),
	})
	return nil
}

// Render returns the SVG document, or "" if nothing was drawn.
func (s *SVGSurface) Render() string {
	if len(s.lines) == 0 {
		return ""
	}
	minX, maxX, minY, maxY := s.bounds()

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, s.Width, s.Height, s.Width, s.Height, s.Background)

	w, h := float64(s.Width), float64(s.Height)
	project := func(x, y float64) (float64, float64) {
		return (x - minX) / (maxX - minX) * w, h - (y-minY)/(maxY-minY)*h
	}

	for _, l := range s.lines {
		color := l.style.Color
		if color == "" {
			color = "#00ccff"
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" stroke-opacity="%.2f"`, color, l.style.Alpha)
		if dash := dashArray(l.style.LineStyle); dash != "" {
			fmt.Fprintf(&sb, ` stroke-dasharray="%s"`, dash)
		}
		sb.WriteString(` d="M`)
		for i := range l.x {
			px, py := project(l.x[i], l.y[i])
			if i == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", px, py)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", px, py)
			}
		}
		sb.WriteString("\"/>\n")

		if l.style.Marker != "" {
			fmt.Fprintf(&sb, `<g fill="%s" fill-opacity="%.2f">`+"\n", color, l.style.Alpha)
			for i := range l.x {
				px, py := project(l.x[i], l.y[i])
				fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="2.0"/>`+"\n", px, py)
			}
			sb.WriteString("</g>\n")
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// WriteTo writes the rendered document to w.
func (s *SVGSurface) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.Render())
	return int64(n), err
}

// bounds spans every line with a 10% margin.
func (s *SVGSurface) bounds() (minX, maxX, minY, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, l := range s.lines {
		for i := range l.x {
			minX = math.Min(minX, l.x[i])
			maxX = math.Max(maxX, l.x[i])
			minY = math.Min(minY, l.y[i])
			maxY = math.Max(maxY, l.y[i])
		}
	}

	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	return minX - rangeX*0.1, maxX + rangeX*0.1, minY - rangeY*0.1, maxY + rangeY*0.1
}

func dashArray(lineStyle string) string {
	switch lineStyle {
	case "--":
		return "6,4"
	case ":":
		return "1,3"
	case "-.":
		return "6,3,1,3"
	}
	return ""
}
