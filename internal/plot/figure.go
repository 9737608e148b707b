package plot

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/cmplx"

	"gonum.org/v1/plot/plotutil"
)

// NumTicks is the number of x-axis ticks on every subplot.
const NumTicks = 20

// Frequency units accepted by Options.FrequencyUnit.
const (
	RadPerSecond = "rad/s"
	Hertz        = "Hz"
)

var ErrClosed = errors.New("plot: figure is closed")

// Dash patterns, in points. Magnitude is solid.
var (
	RealDashes      = []float64{3, 1}
	ImaginaryDashes = []float64{1, 1}
)

type Options struct {
	Title         string
	LengthUnit    string
	FrequencyUnit string
	// Color overrides the per-channel palette when set.
	Color color.Color
}

func DefaultOptions() Options {
	return Options{LengthUnit: "m", FrequencyUnit: RadPerSecond}
}

type Trace struct {
	Label  string
	X, Y   []float64
	Dashes []float64
	Color  color.Color
}

// Axes is one subplot.
type Axes struct {
	Channel string
	XLabel  string
	YLabel  string
	Ticks   []float64
	Grid    bool
	Traces  [3]Trace
}

// Figure holds the subplots of one drawing. It replaces any shared global
// plotting state: every rendering owns its Figure and closes it when done.
type Figure struct {
	opts   Options
	axes   []Axes
	closed bool
}

func NewFigure(opts Options) *Figure {
	def := DefaultOptions()
	if opts.LengthUnit == "" {
		opts.LengthUnit = def.LengthUnit
	}
	if opts.FrequencyUnit == "" {
		opts.FrequencyUnit = def.FrequencyUnit
	}
	return &Figure{opts: opts}
}

func (f *Figure) Options() Options { return f.opts }

// Axes returns the drawn subplots.
func (f *Figure) Axes() []Axes { return f.axes }

// Draw replaces the figure's subplots with one per channel.
func (f *Figure) Draw(ch Channels) error {
	if f.closed {
		return ErrClosed
	}
	x, err := f.xValues(ch.Frequencies)
	if err != nil {
		return err
	}
	ticks := Linspace(minOf(x), maxOf(x), NumTicks)

	axes := make([]Axes, 0, len(ch.List))
	for i, c := range ch.List {
		if len(c.Values) != len(x) {
			return fmt.Errorf("plot: channel %s has %d values for %d frequencies", c.Name, len(c.Values), len(x))
		}
		scale, unit := 1.0, f.opts.LengthUnit
		if c.Rotational {
			scale, unit = 180/math.Pi, "deg"
		}

		mag := make([]float64, len(x))
		re := make([]float64, len(x))
		im := make([]float64, len(x))
		for j, v := range c.Values {
			mag[j] = cmplx.Abs(v) * scale
			re[j] = real(v) * scale
			im[j] = imag(v) * scale
		}

		col := f.opts.Color
		if col == nil {
			col = plotutil.Color(i)
		}
		axes = append(axes, Axes{
			Channel: c.Name,
			XLabel:  fmt.Sprintf("frequency (%s)", f.opts.FrequencyUnit),
			YLabel:  fmt.Sprintf("RAO (%s/%s)", unit, f.opts.LengthUnit),
			Ticks:   ticks,
			Grid:    true,
			Traces: [3]Trace{
				{Label: c.Name + " magnitude", X: x, Y: mag, Color: col},
				{Label: c.Name + " real", X: x, Y: re, Dashes: RealDashes, Color: col},
				{Label: c.Name + " imaginary", X: x, Y: im, Dashes: ImaginaryDashes, Color: col},
			},
		})
	}
	f.axes = axes
	return nil
}

// Close releases the subplots. Drawing on a closed figure fails.
func (f *Figure) Close() error {
	f.axes = nil
	f.closed = true
	return nil
}

func (f *Figure) xValues(w []float64) ([]float64, error) {
	x := make([]float64, len(w))
	switch f.opts.FrequencyUnit {
	case RadPerSecond:
		copy(x, w)
	case Hertz:
		for i, v := range w {
			x[i] = v / (2 * math.Pi)
		}
	default:
		return nil, fmt.Errorf("plot: unknown frequency unit %q", f.opts.FrequencyUnit)
	}
	return x, nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

func minOf(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	m := v[0]
	for _, x := range v[1:] {
		m = math.Min(m, x)
	}
	return m
}

func maxOf(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	m := v[0]
	for _, x := range v[1:] {
		m = math.Max(m, x)
	}
	return m
}
