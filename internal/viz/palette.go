package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/floatsim/internal/model"
)

// Palette colors the terminal views. Channels is indexed by model.DOF and
// Title holds the two ends of the heading gradient.
type Palette struct {
	Name     string
	Title    [2]string
	Channels [model.NumDOF]string
	Text     string
	Muted    string
	Peak     string
}

var Palettes = []Palette{
	{
		Name:     "sea",
		Title:    [2]string{"#1b6ca8", "#7fd1e8"},
		Channels: [model.NumDOF]string{"#4aa3df", "#5bc0be", "#2e86ab", "#f6ae2d", "#f26419", "#e55934"},
		Text:     "#dbe9f4",
		Muted:    "#5c7a91",
		Peak:     "#ffd166",
	},
	{
		Name:     "deck",
		Title:    [2]string{"#ff7f11", "#ffd23f"},
		Channels: [model.NumDOF]string{"#ff595e", "#ffca3a", "#8ac926", "#1982c4", "#6a4c93", "#f15bb5"},
		Text:     "#ffffff",
		Muted:    "#8d8d8d",
		Peak:     "#ff7f11",
	},
	{
		Name:     "mono",
		Title:    [2]string{"#9e9e9e", "#ffffff"},
		Channels: [model.NumDOF]string{"#ffffff", "#ffffff", "#ffffff", "#cfcfcf", "#cfcfcf", "#cfcfcf"},
		Text:     "#eeeeee",
		Muted:    "#777777",
		Peak:     "#ffffff",
	},
}

// PaletteNames lists the palettes in the order the viewer cycles them.
func PaletteNames() []string {
	names := make([]string, len(Palettes))
	for i, p := range Palettes {
		names[i] = p.Name
	}
	return names
}

// PaletteIndex returns the position of the named palette, or 0.
func PaletteIndex(name string) int {
	for i, p := range Palettes {
		if p.Name == name {
			return i
		}
	}
	return 0
}

func LookupPalette(name string) Palette { return Palettes[PaletteIndex(name)] }

// Channel returns the color of one motion channel.
func (p Palette) Channel(d model.DOF) lipgloss.Color {
	if d < 0 || int(d) >= model.NumDOF {
		return lipgloss.Color(p.Text)
	}
	return lipgloss.Color(p.Channels[d])
}

// Gradient renders text blended rune by rune across the title colors.
func (p Palette) Gradient(text string) string {
	from, err := colorful.Hex(p.Title[0])
	if err != nil {
		return text
	}
	to, err := colorful.Hex(p.Title[1])
	if err != nil {
		return text
	}

	runes := []rune(text)
	var b strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := from.BlendLab(to, t).Clamped()
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return b.String()
}

func (p Palette) label() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted))
}

func (p Palette) hint() lipgloss.Style { return p.label().Italic(true) }

func (p Palette) value() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(p.Peak)).Bold(true)
}

// rule is a horizontal line in the channel color.
func (p Palette) rule(d model.DOF, width int) string {
	if width < 1 {
		width = 1
	}
	return lipgloss.NewStyle().Foreground(p.Channel(d)).Render(strings.Repeat("─", width))
}
