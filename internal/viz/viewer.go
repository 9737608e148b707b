package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/floatsim/internal/analysis"
	"github.com/san-kum/floatsim/internal/model"
	"github.com/san-kum/floatsim/internal/plot"
)

const (
	width  = 80
	height = 24
)

// Viewer is an interactive pager over the subplots of a figure.
type Viewer struct {
	title         string
	axes          []plot.Axes
	render        string
	current       int
	palette       int
	showHelp      bool
	showRender    bool
	width, height int
}

// NewViewer builds a viewer for fig. render is an optional pre-drawn
// wireframe toggled with "r".
func NewViewer(title string, fig *plot.Figure, render string) Viewer {
	return Viewer{
		title:  title,
		axes:   fig.Axes(),
		render: render,
		width:  width,
		height: height,
	}
}

// WithPalette returns a copy of v using the named palette.
func (v Viewer) WithPalette(name string) Viewer {
	v.palette = PaletteIndex(name)
	return v
}

// Current returns the index of the channel on screen.
func (v Viewer) Current() int { return v.current }

// Palette returns the active palette.
func (v Viewer) Palette() Palette { return Palettes[v.palette] }

func (v Viewer) Init() tea.Cmd { return nil }

func (v Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width, v.height = msg.Width, msg.Height
	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v Viewer) handleKey(msg tea.KeyMsg) (Viewer, tea.Cmd) {
	n := len(v.axes)
	switch key := msg.String(); key {
	case "q", "ctrl+c", "esc":
		return v, tea.Quit
	case "right", "l", "tab":
		if n > 0 {
			v.current = (v.current + 1) % n
		}
	case "left", "h", "shift+tab":
		if n > 0 {
			v.current = (v.current + n - 1) % n
		}
	case "1", "2", "3", "4", "5", "6":
		if i := int(key[0] - '1'); i < n {
			v.current = i
		}
	case "p":
		v.palette = (v.palette + 1) % len(Palettes)
	case "r":
		if v.render != "" {
			v.showRender = !v.showRender
		}
	case "?":
		v.showHelp = !v.showHelp
	}
	return v, nil
}

func (v Viewer) View() string {
	pal := Palettes[v.palette]
	var s strings.Builder

	s.WriteString(pal.Gradient(v.title) + "\n\n")
	if v.showRender {
		s.WriteString(v.render + "\n")
		s.WriteString(pal.hint().Render("r: back to channels  q: quit"))
		return s.String()
	}
	if len(v.axes) == 0 {
		return s.String() + pal.label().Render("nothing to show") + "\n"
	}

	tabs := make([]string, len(v.axes))
	for i, ax := range v.axes {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(pal.Muted)).Padding(0, 1)
		if i == v.current {
			style = style.Foreground(pal.Channel(model.DOF(i))).Bold(true).Underline(true)
		}
		tabs[i] = style.Render(ax.Channel)
	}
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n\n")

	ax := v.axes[v.current]
	opts := GraphOptions{Width: v.width - 16, Height: v.height - 14, Color: true}
	s.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(pal.Text)).Render(RenderAxes(ax, opts)))

	mag := ax.Traces[0]
	if f, peak, idx := analysis.Peak(mag.X, mag.Y); idx >= 0 {
		s.WriteString(pal.label().Render("peak ") + pal.value().Render(fmt.Sprintf("%.4g", peak)) +
			pal.label().Render(" at ") + pal.value().Render(fmt.Sprintf("%.4g", f)) + "\n")
	}
	s.WriteString(pal.rule(model.DOF(v.current), 40) + "\n")

	if v.showHelp {
		s.WriteString(pal.hint().Render("←/→ channel  1-6 jump  p palette (" + pal.Name + ")  r render  ? help  q quit"))
	} else {
		s.WriteString(pal.hint().Render("? help  q quit"))
	}
	return s.String()
}

// RunViewer blocks until the user quits the viewer.
func RunViewer(v Viewer) error {
	_, err := tea.NewProgram(v, tea.WithAltScreen()).Run()
	return err
}
