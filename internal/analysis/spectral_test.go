package analysis

import (
	"math"
	"math/cmplx"
	"testing"
)

func grid(n int, dw float64) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = dw * float64(i+1)
	}
	return w
}

func TestBinWidths(t *testing.T) {
	tests := []struct {
		name string
		w    []float64
		want []float64
	}{
		{"empty", nil, []float64{}},
		{"single", []float64{0.2}, []float64{0.2}},
		{"uniform", []float64{0.1, 0.2, 0.3}, []float64{0.1, 0.1, 0.1}},
		{"stretched", []float64{1, 2, 4}, []float64{1, 1.5, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BinWidths(tt.w)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-12 {
					t.Errorf("width[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestStdDev_FlatSpectrum(t *testing.T) {
	w := grid(100, 0.01)
	s := make([]float64, len(w))
	for i := range s {
		s[i] = 2
	}
	// m0 = 2 * 100 * 0.01
	if got := StdDev(w, s); math.Abs(got-math.Sqrt(2)) > 1e-9 {
		t.Errorf("StdDev = %v, want sqrt(2)", got)
	}
	if got := SignificantAmplitude(w, s); math.Abs(got-2*math.Sqrt(2)) > 1e-9 {
		t.Errorf("SignificantAmplitude = %v", got)
	}
}

func TestResponseSpectrum(t *testing.T) {
	rao := []complex128{complex(3, 4), 0, complex(0, 1)}
	s := []float64{1, 5, 2}
	got := ResponseSpectrum(rao, s)
	want := []float64{25, 0, 2}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestZeroCrossingPeriod_Narrowband(t *testing.T) {
	w := grid(50, 0.02)
	s := make([]float64, len(w))
	s[24] = 1 // only w = 0.5 carries energy
	want := 2 * math.Pi / 0.5
	if got := ZeroCrossingPeriod(w, s); math.Abs(got-want) > 1e-9 {
		t.Errorf("ZeroCrossingPeriod = %v, want %v", got, want)
	}
	if got := ZeroCrossingPeriod(w, make([]float64, len(w))); got != 0 {
		t.Errorf("empty spectrum period = %v", got)
	}
}

func TestPeak(t *testing.T) {
	w := []float64{0.1, 0.2, 0.3}
	f, v, i := Peak(w, []float64{1, 3, 2})
	if f != 0.2 || v != 3 || i != 1 {
		t.Errorf("Peak = (%v, %v, %d)", f, v, i)
	}
	if _, _, i := Peak(w, []float64{0, 0, 0}); i != -1 {
		t.Errorf("all-zero peak index = %d, want -1", i)
	}
}

func TestFFT(t *testing.T) {
	x := []complex128{1, 0, 0, 0}
	got, err := FFT(x)
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range got {
		if cmplx.Abs(v-1) > 1e-12 {
			t.Errorf("impulse bin %d = %v, want 1", k, v)
		}
	}

	// x[n] = e^{2 pi i n/6} puts all energy into bin 1
	const n = 6
	wave := make([]complex128, n)
	for i := range wave {
		wave[i] = cmplx.Rect(1, 2*math.Pi*float64(i)/n)
	}
	got, err = FFT(wave)
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range got {
		want := 0.0
		if k == 1 {
			want = n
		}
		if cmplx.Abs(v-complex(want, 0)) > 1e-9 {
			t.Errorf("bin %d = %v, want %v", k, v, want)
		}
	}

	if _, err := FFT(nil); err != ErrLength {
		t.Errorf("expected ErrLength, got %v", err)
	}
}

func TestTimeSeries_Variance(t *testing.T) {
	w := grid(64, 0.05)
	s := make([]float64, len(w))
	rao := make([]complex128, len(w))
	for i := range s {
		s[i] = 0.5
		rao[i] = complex(0, 2)
	}

	tt, x, err := TimeSeries(w, s, rao, 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(tt) != len(x) || len(x) < 2*len(w) {
		t.Fatalf("got %d samples for %d frequencies", len(x), len(w))
	}

	var mean, sq float64
	for _, v := range x {
		mean += v
		sq += v * v
	}
	mean /= float64(len(x))
	variance := sq/float64(len(x)) - mean*mean

	want := Moment(w, ResponseSpectrum(rao, s), 0)
	if math.Abs(variance-want) > 1e-9*want {
		t.Errorf("variance = %v, want %v", variance, want)
	}
}
