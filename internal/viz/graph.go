package viz

import (
	"fmt"
	"io"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/floatsim/internal/plot"
)

// GraphOptions sizes terminal charts. Zero values pick defaults.
type GraphOptions struct {
	Width  int
	Height int
	Color  bool
}

const (
	defaultGraphWidth  = 70
	defaultGraphHeight = 10
)

// traceColors tell magnitude, real and imaginary apart where a terminal
// cannot draw dash patterns.
var traceColors = []asciigraph.AnsiColor{asciigraph.Default, asciigraph.Blue, asciigraph.Red}

// RenderAxes draws one subplot's three traces as an ASCII chart.
func RenderAxes(ax plot.Axes, opts GraphOptions) string {
	if opts.Width <= 0 {
		opts.Width = defaultGraphWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultGraphHeight
	}

	var b strings.Builder
	b.WriteString(ax.Channel + "  " + ax.YLabel + "\n")
	if len(ax.Traces[0].Y) == 0 {
		b.WriteString("(no data)\n")
		return b.String()
	}

	series := make([][]float64, len(ax.Traces))
	legends := make([]string, len(ax.Traces))
	for i, tr := range ax.Traces {
		series[i] = tr.Y
		legends[i] = tr.Label
	}
	options := []asciigraph.Option{
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Precision(3),
		asciigraph.SeriesLegends(legends...),
	}
	if opts.Color {
		options = append(options, asciigraph.SeriesColors(traceColors...))
	}
	b.WriteString(asciigraph.PlotMany(series, options...))
	b.WriteString("\n")

	x := ax.Traces[0].X
	fmt.Fprintf(&b, "%s: %.4g .. %.4g\n", ax.XLabel, x[0], x[len(x)-1])
	return b.String()
}

// WriteFigure prints every subplot of fig, one below the other.
func WriteFigure(w io.Writer, fig *plot.Figure, opts GraphOptions) error {
	axes := fig.Axes()
	if len(axes) == 0 {
		return fmt.Errorf("viz: figure has nothing drawn")
	}
	for _, ax := range axes {
		if _, err := io.WriteString(w, RenderAxes(ax, opts)+"\n"); err != nil {
			return err
		}
	}
	return nil
}
