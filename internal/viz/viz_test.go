package viz

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/floatsim/internal/model"
	"github.com/san-kum/floatsim/internal/plot"
)

func TestCanvas_Set(t *testing.T) {
	c := NewCanvas(2, 1)
	if !c.Empty() {
		t.Fatal("new canvas not empty")
	}
	c.Set(0, 0)
	c.Set(3, 3)
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("cell 0 = %U, want U+2801", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("cell 1 = %U, want U+2880", c.Grid[0][1])
	}
	if !c.IsSet(3, 3) || c.IsSet(2, 3) {
		t.Error("IsSet mismatch")
	}
	if w, h := c.Dots(); w != 4 || h != 4 {
		t.Errorf("Dots() = %d, %d", w, h)
	}

	// out of range is ignored
	c.Set(-1, 0)
	c.Set(100, 100)
	if c.IsSet(-1, 0) || c.IsSet(100, 100) {
		t.Error("out of range dot reported set")
	}
	if got := strings.Count(c.String(), "\n"); got != 1 {
		t.Errorf("expected 1 line, got %d", got)
	}
}

func TestCanvas_DrawLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.DrawLine(0, 0, 7, 0)
	for i, r := range c.Grid[0] {
		if r != 0x2809 {
			t.Errorf("cell %d = %U, want top row set", i, r)
		}
	}
}

func TestWireframe_Fit(t *testing.T) {
	w := NewWireframe()
	w.AddEdge(Vec3{10, 0, 0}, Vec3{30, 0, 0}, '#')
	w.AddEdge(Vec3{10, -5, 0}, Vec3{10, 5, 0}, '#')
	w.Fit()
	lo, hi := w.Bounds()
	if math.Abs(lo.X+1) > 1e-12 || math.Abs(hi.X-1) > 1e-12 {
		t.Errorf("x bounds after fit = %v .. %v", lo.X, hi.X)
	}
	if math.Abs(hi.Y-0.5) > 1e-12 {
		t.Errorf("y max after fit = %v, want 0.5", hi.Y)
	}
}

func TestWireframe_AddCylinder(t *testing.T) {
	w := NewWireframe()
	w.AddCylinder(Vec3{0, -1, 0}, Vec3{0, 1, 0}, 0.5, 8, '#')
	// two rings of 8 plus every other generator
	if len(w.Edges) != 20 {
		t.Fatalf("got %d edges, want 20", len(w.Edges))
	}
	for _, e := range w.Edges {
		for _, p := range []Vec3{e.Start, e.End} {
			if r := math.Hypot(p.X, p.Z); math.Abs(r-0.5) > 1e-9 {
				t.Fatalf("point %v off the cylinder surface", p)
			}
		}
	}
}

func TestRender3D_UsesFullCanvas(t *testing.T) {
	w := NewWireframe()
	w.AddEdge(Vec3{-1, 0, 0}, Vec3{1, 0, 0}, '#')
	c := NewCanvas(40, 10)
	Render3D(c, w, NewCamera())

	// the line spans the middle third of the sub-pixel width on both sides
	right := false
	for col := 25; col < 40; col++ {
		for row := range c.Grid {
			if c.Grid[row][col] != 0x2800 {
				right = true
			}
		}
	}
	if !right {
		t.Errorf("nothing drawn in the right half:\n%s", c.String())
	}
}

func testFigure(t *testing.T) *plot.Figure {
	t.Helper()
	w := model.Frequencies{0.1, 0.2, 0.3, 0.4}
	rao := model.NewResponseArray(len(w))
	for _, d := range model.DOFs {
		for i := range w {
			rao.Set(d, i, complex(float64(i), 1))
		}
	}
	ch, err := plot.NewChannels(w, rao)
	if err != nil {
		t.Fatal(err)
	}
	fig := plot.NewFigure(plot.DefaultOptions())
	if err := fig.Draw(ch); err != nil {
		t.Fatal(err)
	}
	return fig
}

func TestRenderAxes(t *testing.T) {
	fig := testFigure(t)
	out := RenderAxes(fig.Axes()[4], GraphOptions{Width: 30, Height: 5})
	for _, want := range []string{"Pitch_RA", "RAO (deg/m)", "Pitch_RA real", "frequency (rad/s): 0.1 .. 0.4"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteFigure(t *testing.T) {
	var b strings.Builder
	if err := WriteFigure(&b, testFigure(t), GraphOptions{}); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"Surge_RA", "Sway_RA", "Heave_RA", "Roll_RA", "Pitch_RA", "Yaw_RA"} {
		if !strings.Contains(b.String(), name) {
			t.Errorf("missing channel %s", name)
		}
	}

	empty := plot.NewFigure(plot.DefaultOptions())
	if err := WriteFigure(&b, empty, GraphOptions{}); err == nil {
		t.Error("expected error for empty figure")
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestViewer_Keys(t *testing.T) {
	v := NewViewer("spar", testFigure(t), "wire")

	steps := []struct {
		key  string
		want int
	}{
		{"right", 1},
		{"right", 2},
		{"left", 1},
		{"left", 0},
		{"left", 5},
		{"4", 3},
		{"9", 3},
	}
	for _, s := range steps {
		m, _ := v.Update(key(s.key))
		v = m.(Viewer)
		if v.Current() != s.want {
			t.Fatalf("after %q current = %d, want %d", s.key, v.Current(), s.want)
		}
	}

	m, _ := v.Update(key("p"))
	v = m.(Viewer)
	if v.Palette().Name != Palettes[1].Name {
		t.Errorf("palette = %s, want %s", v.Palette().Name, Palettes[1].Name)
	}

	if !strings.Contains(v.View(), "Roll_RA") {
		t.Error("view does not show the current channel")
	}
	m, _ = v.Update(key("r"))
	if !strings.Contains(m.(Viewer).View(), "wire") {
		t.Error("render toggle did not show the wireframe")
	}

	_, cmd := v.Update(key("q"))
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestViewer_WithPalette(t *testing.T) {
	v := NewViewer("x", testFigure(t), "").WithPalette("deck")
	if v.Palette().Name != "deck" {
		t.Errorf("palette = %s", v.Palette().Name)
	}
	v = v.WithPalette("no such palette")
	if v.Palette().Name != Palettes[0].Name {
		t.Errorf("unknown palette gave %s", v.Palette().Name)
	}
}

func TestPalettes_ValidColors(t *testing.T) {
	for _, p := range Palettes {
		colors := append([]string{p.Title[0], p.Title[1], p.Text, p.Muted, p.Peak}, p.Channels[:]...)
		for _, c := range colors {
			if _, err := colorful.Hex(c); err != nil {
				t.Errorf("palette %s: %q: %v", p.Name, c, err)
			}
		}
	}
	if got := PaletteNames(); len(got) != len(Palettes) || got[0] != "sea" {
		t.Errorf("PaletteNames() = %v", got)
	}
}

func TestPalette_Gradient(t *testing.T) {
	p := LookupPalette("sea")
	if got := lipgloss.Width(p.Gradient("spar buoy")); got != len("spar buoy") {
		t.Errorf("gradient width = %d", got)
	}
	if p.Gradient("") != "" {
		t.Error("empty text should stay empty")
	}

	bad := Palette{Title: [2]string{"teal", "#ffffff"}}
	if got := bad.Gradient("x"); got != "x" {
		t.Errorf("unparsable title color gave %q", got)
	}
}

func TestPalette_Channel(t *testing.T) {
	p := LookupPalette("deck")
	if p.Channel(model.Heave) != lipgloss.Color(p.Channels[2]) {
		t.Errorf("heave color = %v", p.Channel(model.Heave))
	}
	if p.Channel(model.DOF(9)) != lipgloss.Color(p.Text) {
		t.Error("out of range mode should fall back to text color")
	}
}
