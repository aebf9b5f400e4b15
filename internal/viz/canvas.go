package viz

import (
	"math"
	"strings"
)

// Braille cells are 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
const brailleBlank = 0x2800

var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a Braille pixel grid. In dots it is (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the dot at (x, y). Out-of-range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return
	}
	c.Grid[y/4][x/2] |= pixelMap[y%4][x%2]
}

// Lit reports whether the dot at (x, y) is set.
func (c *Canvas) Lit(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&pixelMap[y%4][x%2] != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws with Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawDisc fills a small disc of radius r dots around (cx, cy).
func (c *Canvas) DrawDisc(cx, cy, r int) {
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= r*r {
				c.Set(cx+x, cy+y)
			}
		}
	}
}

// Viewport maps world coordinates onto the canvas, keeping aspect ratio.
type Viewport struct {
	canvas     *Canvas
	cx, cy     float64
	scale      float64
	midX, midY float64
}

// NewViewport fits the box [minX,maxX] x [minY,maxY] onto c. The box
// centre lands on a whole dot so both axes round the same way.
func NewViewport(c *Canvas, minX, maxX, minY, maxY float64) Viewport {
	midX := math.Floor(float64(c.Width*2-1) / 2)
	midY := math.Floor(float64(c.Height*4-1) / 2)
	spanX, spanY := maxX-minX, maxY-minY
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}
	scale := 2 * midX / spanX
	if s := 2 * midY / spanY; s < scale {
		scale = s
	}
	return Viewport{
		canvas: c,
		cx:     (minX + maxX) / 2,
		cy:     (minY + maxY) / 2,
		scale:  scale,
		midX:   midX,
		midY:   midY,
	}
}

// Project returns the dot for world point (x, y), y pointing up.
func (v Viewport) Project(x, y float64) (int, int) {
	px := v.midX + (x-v.cx)*v.scale
	py := v.midY - (y-v.cy)*v.scale
	return int(math.Round(px)), int(math.Round(py))
}

// Polyline joins consecutive world points.
func (v Viewport) Polyline(xs, ys []float64) {
	for i := 1; i < len(xs) && i < len(ys); i++ {
		x0, y0 := v.Project(xs[i-1], ys[i-1])
		x1, y1 := v.Project(xs[i], ys[i])
		v.canvas.DrawLine(x0, y0, x1, y1)
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
