package viz

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nashmit/TwoBody-1/internal/orbit"
)

func testModel(t *testing.T) Model {
	t.Helper()
	o, err := orbit.FromParams("kepler", map[string]any{
		"P": 10.0, "K": "5 km/s", "ecc": 0.3, "omega": "45 deg", "phi0": 0,
	})
	if err != nil {
		t.Fatalf("orbit: %v", err)
	}
	m, err := NewModel(o, 60000, "test orbit")
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	return m
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	if key == " " {
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	} else {
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelStartsAtPericenter(t *testing.T) {
	m := testModel(t)
	if m.Phase() != 0 {
		t.Errorf("expected phase 0, got %f", m.Phase())
	}
	want := 5 * 1.3 * math.Cos(math.Pi/4)
	if math.Abs(m.RV()-want) > 1e-6 {
		t.Errorf("expected rv %f, got %f", want, m.RV())
	}
}

func TestTickAdvancesPhase(t *testing.T) {
	m := testModel(t)
	next, cmd := m.Update(TickMsg(time.Now()))
	if cmd == nil {
		t.Error("expected another tick to be scheduled")
	}
	m = next.(Model)
	if math.Abs(m.Phase()-defaultSpeed) > 1e-12 {
		t.Errorf("expected phase %f, got %f", defaultSpeed, m.Phase())
	}
}

func TestPauseAndStep(t *testing.T) {
	m := press(testModel(t), " ")
	if m.Running() {
		t.Fatal("expected sweep to be paused")
	}

	next, _ := m.Update(TickMsg(time.Now()))
	m = next.(Model)
	if m.Phase() != 0 {
		t.Errorf("paused tick moved phase to %f", m.Phase())
	}

	m = press(m, "[")
	if math.Abs(m.Phase()-(1-defaultSpeed)) > 1e-12 {
		t.Errorf("expected phase to wrap below zero, got %f", m.Phase())
	}
	m = press(m, "]")
	if math.Abs(m.Phase()) > 1e-12 && math.Abs(m.Phase()-1) > 1e-12 {
		t.Errorf("expected phase back at 0, got %f", m.Phase())
	}
}

func TestQuit(t *testing.T) {
	_, cmd := testModel(t).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestThemeCycles(t *testing.T) {
	m := testModel(t)
	m = press(m, "t")
	if m.theme.Name != ThemeRetroGreen.Name {
		t.Errorf("expected retro theme, got %s", m.theme.Name)
	}
}

func TestGetTheme(t *testing.T) {
	for _, name := range ThemeNames() {
		th, err := GetTheme(name)
		if err != nil {
			t.Fatalf("GetTheme(%q): %v", name, err)
		}
		if th.Name != name {
			t.Errorf("GetTheme(%q) returned %q", name, th.Name)
		}
	}
	if th, err := GetTheme(""); err != nil || th.Name != ThemeCyberpunk.Name {
		t.Errorf("empty name should select cyberpunk, got %q, %v", th.Name, err)
	}
	if _, err := GetTheme("neon"); err == nil || !strings.Contains(err.Error(), "ocean") {
		t.Errorf("expected unknown-theme error listing names, got %v", err)
	}
}

func TestWithTheme(t *testing.T) {
	m := testModel(t).WithTheme(ThemeOcean)
	if m.Theme().Name != "ocean" {
		t.Fatalf("theme = %q", m.Theme().Name)
	}
	m = press(m, "t")
	if m.Theme().Name != ThemeCyberpunk.Name {
		t.Errorf("cycling from ocean should wrap to cyberpunk, got %q", m.Theme().Name)
	}
}

func TestView(t *testing.T) {
	view := testModel(t).View()
	for _, want := range []string{"TEST ORBIT", "km/s", "Msun", "SWEEPING"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestCanvas(t *testing.T) {
	c := NewCanvas(4, 2)
	c.DrawLine(0, 0, 7, 7)
	for _, p := range [][2]int{{0, 0}, {3, 3}, {7, 7}} {
		if !c.Lit(p[0], p[1]) {
			t.Errorf("expected dot %v to be lit", p)
		}
	}
	if c.Lit(7, 0) {
		t.Error("unexpected dot at (7, 0)")
	}

	c.Set(-1, 100)
	c.Clear()
	if strings.Trim(c.String(), "⠀\n") != "" {
		t.Error("expected blank canvas after Clear")
	}
}

func TestViewportKeepsAspect(t *testing.T) {
	for _, size := range [][2]int{{20, 10}, {21, 7}, {40, 20}} {
		c := NewCanvas(size[0], size[1])
		vp := NewViewport(c, -1, 1, -1, 1)
		x0, y0 := vp.Project(0, 0)
		right, _ := vp.Project(1, 0)
		left, _ := vp.Project(-1, 0)
		_, up := vp.Project(0, 1)
		_, down := vp.Project(0, -1)

		if right-x0 != y0-up || x0-left != down-y0 || right-x0 != x0-left {
			t.Errorf("%dx%d: uneven scale right=%d left=%d up=%d down=%d",
				size[0], size[1], right-x0, x0-left, y0-up, down-y0)
		}
		if left < 0 || right >= c.Width*2 || up < 0 || down >= c.Height*4 {
			t.Errorf("%dx%d: unit box projects off canvas", size[0], size[1])
		}
	}
}
