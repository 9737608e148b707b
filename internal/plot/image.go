package plot

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"
)

// Image formats accepted by SaveImage.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// Subplot size used by SaveImage.
var (
	SubplotWidth  = 22 * vg.Centimeter
	SubplotHeight = 6 * vg.Centimeter
)

// FormatFromPath returns the image format implied by a file extension.
func FormatFromPath(path string) (string, error) {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return "", fmt.Errorf("plot: no extension in %q", path)
	}
	switch ext := strings.ToLower(path[i+1:]); ext {
	case FormatPNG, FormatSVG:
		return ext, nil
	default:
		return "", fmt.Errorf("plot: unsupported image format %q", ext)
	}
}

// SaveImage renders the figure as a single column of subplots sharing the
// frequency range and writes it to w.
func SaveImage(fig *Figure, w io.Writer, format string) error {
	if fig.closed {
		return ErrClosed
	}
	if len(fig.axes) == 0 {
		return fmt.Errorf("plot: nothing drawn")
	}

	plots := make([][]*gplot.Plot, len(fig.axes))
	for i, ax := range fig.axes {
		p, err := buildPlot(ax)
		if err != nil {
			return err
		}
		if i == 0 && fig.opts.Title != "" {
			p.Title.Text = fig.opts.Title
		}
		plots[i] = []*gplot.Plot{p}
	}

	width := SubplotWidth
	height := SubplotHeight * vg.Length(len(plots))

	var (
		canvas vg.CanvasSizer
		out    io.WriterTo
	)
	switch format {
	case FormatPNG:
		img := vgimg.New(width, height)
		canvas, out = img, vgimg.PngCanvas{Canvas: img}
	case FormatSVG:
		svg := vgsvg.New(width, height)
		canvas, out = svg, svg
	default:
		return fmt.Errorf("plot: unsupported image format %q", format)
	}

	dc := draw.New(canvas)
	tiles := draw.Tiles{Rows: len(plots), Cols: 1, PadY: vg.Millimeter * 2}
	cells := gplot.Align(plots, tiles, dc)
	for i := range plots {
		plots[i][0].Draw(cells[i][0])
	}

	_, err := out.WriteTo(w)
	return err
}

func buildPlot(ax Axes) (*gplot.Plot, error) {
	p := gplot.New()
	p.X.Label.Text = ax.XLabel
	p.Y.Label.Text = ax.YLabel
	if ax.Grid {
		p.Add(plotter.NewGrid())
	}

	if n := len(ax.Ticks); n > 0 {
		ticks := make([]gplot.Tick, n)
		for i, v := range ax.Ticks {
			ticks[i] = gplot.Tick{Value: v, Label: strconv.FormatFloat(v, 'g', 3, 64)}
		}
		p.X.Tick.Marker = gplot.ConstantTicks(ticks)
		p.X.Min, p.X.Max = ax.Ticks[0], ax.Ticks[n-1]
	}

	for _, tr := range ax.Traces {
		pts := make(plotter.XYs, len(tr.X))
		for i := range tr.X {
			pts[i].X, pts[i].Y = tr.X[i], tr.Y[i]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("plot: %s: %w", tr.Label, err)
		}
		line.LineStyle.Color = tr.Color
		line.LineStyle.Width = vg.Points(1)
		for _, d := range tr.Dashes {
			line.LineStyle.Dashes = append(line.LineStyle.Dashes, vg.Points(d))
		}
		p.Add(line)
		p.Legend.Add(tr.Label, line)
	}
	p.Legend.Top = true
	return p, nil
}
