package plot

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/san-kum/floatsim/internal/model"
)

func sampleChannels(n int) Channels {
	w := make(model.Frequencies, n)
	rao := model.NewResponseArray(n)
	for i := range w {
		w[i] = 0.1 * float64(i+1)
		for _, d := range model.DOFs {
			rao.Set(d, i, complex(float64(d)+1, -float64(i)))
		}
	}
	ch, err := NewChannels(w, rao)
	if err != nil {
		panic(err)
	}
	return ch
}

func TestChannelNames(t *testing.T) {
	want := []string{"Surge_RA", "Sway_RA", "Heave_RA", "Roll_RA", "Pitch_RA", "Yaw_RA"}
	ch := sampleChannels(3)
	for i, c := range ch.List {
		if c.Name != want[i] {
			t.Errorf("channel %d name = %q, want %q", i, c.Name, want[i])
		}
		if c.Rotational != (i >= 3) {
			t.Errorf("%s rotational = %v", c.Name, c.Rotational)
		}
	}
}

func TestNewChannels_LengthMismatch(t *testing.T) {
	_, err := NewChannels(model.Frequencies{1, 2}, model.NewResponseArray(3))
	if err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestDraw(t *testing.T) {
	fig := NewFigure(Options{LengthUnit: "m"})
	defer fig.Close()

	ch := sampleChannels(10)
	if err := fig.Draw(ch); err != nil {
		t.Fatalf("draw: %v", err)
	}
	axes := fig.Axes()
	if len(axes) != 6 {
		t.Fatalf("got %d axes, want 6", len(axes))
	}

	tests := []struct {
		index  int
		ylabel string
		scale  float64
	}{
		{0, "RAO (m/m)", 1},
		{2, "RAO (m/m)", 1},
		{3, "RAO (deg/m)", 180 / math.Pi},
		{5, "RAO (deg/m)", 180 / math.Pi},
	}
	for _, tt := range tests {
		ax := axes[tt.index]
		if ax.YLabel != tt.ylabel {
			t.Errorf("%s y label = %q, want %q", ax.Channel, ax.YLabel, tt.ylabel)
		}
		if ax.XLabel != "frequency (rad/s)" {
			t.Errorf("%s x label = %q", ax.Channel, ax.XLabel)
		}
		if !ax.Grid {
			t.Errorf("%s has no grid", ax.Channel)
		}

		v := ch.List[tt.index].Values[4]
		if got, want := ax.Traces[1].Y[4], real(v)*tt.scale; math.Abs(got-want) > 1e-12 {
			t.Errorf("%s real = %v, want %v", ax.Channel, got, want)
		}
		if got, want := ax.Traces[2].Y[4], imag(v)*tt.scale; math.Abs(got-want) > 1e-12 {
			t.Errorf("%s imaginary = %v, want %v", ax.Channel, got, want)
		}
		if got, want := ax.Traces[0].Y[4], math.Hypot(real(v), imag(v))*tt.scale; math.Abs(got-want) > 1e-12 {
			t.Errorf("%s magnitude = %v, want %v", ax.Channel, got, want)
		}
	}

	roll := axes[3]
	labels := []string{roll.Traces[0].Label, roll.Traces[1].Label, roll.Traces[2].Label}
	if !reflect.DeepEqual(labels, []string{"Roll_RA magnitude", "Roll_RA real", "Roll_RA imaginary"}) {
		t.Errorf("legend = %v", labels)
	}
	if roll.Traces[0].Dashes != nil || !reflect.DeepEqual(roll.Traces[1].Dashes, RealDashes) ||
		!reflect.DeepEqual(roll.Traces[2].Dashes, ImaginaryDashes) {
		t.Error("unexpected dash patterns")
	}
	if roll.Traces[0].Color != roll.Traces[1].Color || roll.Traces[1].Color != roll.Traces[2].Color {
		t.Error("traces of one channel should share a color")
	}

	ticks := roll.Ticks
	if len(ticks) != NumTicks || ticks[0] != 0.1 || math.Abs(ticks[NumTicks-1]-1.0) > 1e-12 {
		t.Errorf("ticks = %v", ticks)
	}
}

func TestDraw_Hertz(t *testing.T) {
	fig := NewFigure(Options{FrequencyUnit: Hertz})
	if err := fig.Draw(sampleChannels(4)); err != nil {
		t.Fatal(err)
	}
	ax := fig.Axes()[0]
	if ax.XLabel != "frequency (Hz)" {
		t.Errorf("x label = %q", ax.XLabel)
	}
	if want := 0.1 / (2 * math.Pi); math.Abs(ax.Traces[0].X[0]-want) > 1e-12 {
		t.Errorf("first x = %v, want %v", ax.Traces[0].X[0], want)
	}

	bad := NewFigure(Options{FrequencyUnit: "rpm"})
	if err := bad.Draw(sampleChannels(4)); err == nil {
		t.Error("expected unknown unit error")
	}
}

func TestFigure_Closed(t *testing.T) {
	fig := NewFigure(DefaultOptions())
	if err := fig.Close(); err != nil {
		t.Fatal(err)
	}
	if err := fig.Draw(sampleChannels(2)); !errors.Is(err, ErrClosed) {
		t.Errorf("Draw after Close = %v, want ErrClosed", err)
	}
	if err := SaveImage(fig, &bytes.Buffer{}, FormatPNG); !errors.Is(err, ErrClosed) {
		t.Errorf("SaveImage after Close = %v, want ErrClosed", err)
	}
}

func TestLinspace(t *testing.T) {
	tests := []struct {
		lo, hi float64
		n      int
		want   []float64
	}{
		{0, 1, 5, []float64{0, 0.25, 0.5, 0.75, 1}},
		{2, 2, 3, []float64{2, 2, 2}},
		{0, 1, 1, []float64{0}},
		{0, 1, 0, nil},
	}
	for _, tt := range tests {
		if got := Linspace(tt.lo, tt.hi, tt.n); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Linspace(%v, %v, %d) = %v, want %v", tt.lo, tt.hi, tt.n, got, tt.want)
		}
	}
}

func TestSaveImage(t *testing.T) {
	fig := NewFigure(Options{Title: "spar"})
	defer fig.Close()
	if err := fig.Draw(sampleChannels(8)); err != nil {
		t.Fatal(err)
	}

	var png bytes.Buffer
	if err := SaveImage(fig, &png, FormatPNG); err != nil {
		t.Fatalf("png: %v", err)
	}
	if !bytes.HasPrefix(png.Bytes(), []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}

	var svg bytes.Buffer
	if err := SaveImage(fig, &svg, FormatSVG); err != nil {
		t.Fatalf("svg: %v", err)
	}
	if !strings.Contains(svg.String(), "<svg") {
		t.Error("output is not an SVG")
	}

	if err := SaveImage(fig, &bytes.Buffer{}, "bmp"); err == nil {
		t.Error("expected unsupported format error")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"out/rao.png", FormatPNG, false},
		{"RAO.SVG", FormatSVG, false},
		{"rao.pdf", "", true},
		{"rao", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, %v", tt.path, got, err)
		}
	}
}
