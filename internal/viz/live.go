package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/nashmit/TwoBody-1/internal/kepler"
	"github.com/nashmit/TwoBody-1/internal/orbit"
	"github.com/nashmit/TwoBody-1/internal/units"
)

const (
	canvasWidth     = 40
	canvasHeight    = 20
	curveSamples    = 120
	outlineSamples  = 240
	historyCapacity = 240
	defaultSpeed    = 1.0 / 300
	frameRate       = 30
)

type TickMsg time.Time

// Model sweeps one orbit through phase [0, 1) and redraws every tick.
type Model struct {
	orbit   *orbit.Orbit
	title   string
	t0      float64
	phase   float64
	speed   float64
	running bool
	theme   Theme
	styles  styles
	canvas  *Canvas

	outlineX, outlineY []float64
	curve              []float64
	history            []float64
	rv                 float64
	err                error
}

// NewModel prepares the sweep of o starting at the pericenter nearest ref.
func NewModel(o *orbit.Orbit, ref float64, title string) (Model, error) {
	el := o.Elements()
	t0 := o.PericenterTime(ref)

	ts := make([]float64, curveSamples)
	for i := range ts {
		ts[i] = t0 + el.P*float64(i)/float64(curveSamples-1)
	}
	curve, err := o.Curve(ts)
	if err != nil {
		return Model{}, err
	}

	m := Model{
		orbit:   o,
		title:   title,
		t0:      t0,
		speed:   defaultSpeed,
		running: true,
		theme:   ThemeCyberpunk,
		styles:  newStyles(ThemeCyberpunk),
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		curve:   curve.Values,
		history: make([]float64, 0, historyCapacity),
	}
	m.outlineX, m.outlineY = relativeOrbit(el.Ecc, el.Omega)
	m.refresh()
	return m, nil
}

// WithTheme returns m restyled with t.
func (m Model) WithTheme(t Theme) Model {
	m.theme = t
	m.styles = newStyles(t)
	return m
}

// Theme is the active color scheme.
func (m Model) Theme() Theme { return m.theme }

// relativeOrbit traces r(nu) for unit semi-major axis, rotated so the
// pericenter sits at angle omega.
func relativeOrbit(ecc, omega float64) ([]float64, []float64) {
	xs := make([]float64, outlineSamples+1)
	ys := make([]float64, outlineSamples+1)
	for i := range xs {
		nu := 2 * math.Pi * float64(i) / outlineSamples
		xs[i], ys[i] = position(nu, ecc, omega)
	}
	return xs, ys
}

func position(nu, ecc, omega float64) (float64, float64) {
	r := (1 - ecc*ecc) / (1 + ecc*math.Cos(nu))
	s, c := math.Sincos(nu + omega)
	return r * c, r * s
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.phase = 0
			m.history = m.history[:0]
			m.refresh()
		case "+", "=":
			m.speed *= 1.5
		case "-", "_":
			m.speed = math.Max(m.speed/1.5, 1e-5)
		case "[":
			if !m.running {
				m.advance(-m.speed)
			}
		case "]":
			if !m.running {
				m.advance(m.speed)
			}
		case "t":
			m.theme = NextTheme(m.theme)
			m.styles = newStyles(m.theme)
		}
	case TickMsg:
		if m.running {
			m.advance(m.speed)
		}
		return m, tick()
	}
	return m, nil
}

// Phase is the current orbital phase in [0, 1).
func (m Model) Phase() float64 { return m.phase }

// RV is the current radial velocity in km/s.
func (m Model) RV() float64 { return m.rv }

// Running reports whether the sweep is advancing.
func (m Model) Running() bool { return m.running }

func (m *Model) advance(d float64) {
	m.phase = math.Mod(m.phase+d, 1)
	if m.phase < 0 {
		m.phase++
	}
	m.refresh()
}

func (m *Model) time() float64 {
	return m.t0 + m.phase*m.orbit.Elements().P
}

func (m *Model) refresh() {
	curve, err := m.orbit.Curve([]float64{m.time()})
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.rv = curve.Values[0]
	if len(m.history) == historyCapacity {
		copy(m.history, m.history[1:])
		m.history = m.history[:historyCapacity-1]
	}
	m.history = append(m.history, m.rv)
}

func (m *Model) draw() {
	el := m.orbit.Elements()
	m.canvas.Clear()

	vp := NewViewport(m.canvas, -2, 2, -2, 2)
	vp.Polyline(m.outlineX, m.outlineY)

	cx, cy := vp.Project(0, 0)
	m.canvas.DrawDisc(cx, cy, 1)

	E, _, _ := kepler.Solve(2*math.Pi*m.phase, el.Ecc, el.AnomalyTol, kepler.DefaultMaxIter)
	bx, by := vp.Project(position(kepler.TrueAnomaly(E, el.Ecc), el.Ecc, el.Omega))
	m.canvas.DrawDisc(bx, by, 2)
}

func (m Model) View() string {
	m.draw()
	st := m.styles
	el := m.orbit.Elements()

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.title)) + "\n")
	if m.running {
		s.WriteString(st.status.Render("SWEEPING") + "\n")
	} else {
		s.WriteString(st.paused.Render("PAUSED") + "\n")
	}

	chart := asciigraph.Plot(m.curve,
		asciigraph.Height(6),
		asciigraph.Width(30),
		asciigraph.Precision(2),
		asciigraph.Caption("RV over one orbit [km/s]"),
	)
	s.WriteString(st.graph.Render(chart) + "\n")
	s.WriteString(sparkline(m.history, 30) + "\n\n")

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Phase", fmt.Sprintf("%.3f", m.phase))
	row("Time", fmt.Sprintf("%.4f MJD", m.time()))
	row("RV", fmt.Sprintf("%+.4f km/s", m.rv))
	row("P", fmt.Sprintf("%.4f d", el.P))
	row("K", fmt.Sprintf("%.4f km/s", el.K/units.KilometrePerSecond.MetresPerSecond))
	row("e", fmt.Sprintf("%.4f", el.Ecc))
	row("omega", fmt.Sprintf("%.2f deg", el.Omega*180/math.Pi))
	row("a1 sin i", fmt.Sprintf("%.4g AU", units.MetresToAU(m.orbit.A1Sini())))
	row("f(M)", fmt.Sprintf("%.4g Msun", units.KgToSolarMass(m.orbit.MassFunction())))
	if m.err != nil {
		row("error", m.err.Error())
	}

	s.WriteString(st.help.Render("SP:Pause R:Reset +/-:Speed\n[ ]:Step T:Theme Q:Quit"))

	canvasView := st.canvas.Render(st.orbit.Render(m.canvas.String()))
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))
}

// Run starts the TUI on the alternate screen and blocks until it exits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
