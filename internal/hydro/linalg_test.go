package hydro

import (
	"math"
	"testing"
)

func TestWrench_MatchesComplex(t *testing.T) {
	f := vec3{X: 1, Y: -2, Z: 3}
	r := vec3{X: 0.5, Y: 4, Z: -10}

	w := wrench(f, r)
	cw := cwrench([3]complex128{complex(f.X, 0), complex(f.Y, 0), complex(f.Z, 0)}, r)
	for i := range w {
		if math.Abs(real(cw[i])-w[i]) > 1e-12 || imag(cw[i]) != 0 {
			t.Errorf("component %d: real %v, complex %v", i, w[i], cw[i])
		}
	}
	// r x f
	want := [3]float64{4*3 - (-10)*(-2), -10*1 - 0.5*3, 0.5*(-2) - 4*1}
	for i, v := range want {
		if math.Abs(w[i+3]-v) > 1e-12 {
			t.Errorf("moment %d = %v, want %v", i, w[i+3], v)
		}
	}
}

func TestSkew_IsCrossProduct(t *testing.T) {
	r := vec3{X: 1, Y: 2, Z: 3}
	v := vec3{X: -4, Y: 0.5, Z: 2}
	s := skew(r)
	vc := comps(v)
	got := vecOf([3]float64{
		s[0][0]*vc[0] + s[0][1]*vc[1] + s[0][2]*vc[2],
		s[1][0]*vc[0] + s[1][1]*vc[1] + s[1][2]*vc[2],
		s[2][0]*vc[0] + s[2][1]*vc[1] + s[2][2]*vc[2],
	})
	want := wrench(v, r)
	if got != (vec3{X: want[3], Y: want[4], Z: want[5]}) {
		t.Errorf("skew(r) v = %v, want %v", got, want[3:])
	}
}
