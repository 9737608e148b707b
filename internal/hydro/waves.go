package hydro

import (
	"math"
	"math/cmplx"
)

// deepWater is the kh above which hyperbolic ratios are replaced by exp(kz).
const deepWater = 20.0

// waveNumber solves the linear dispersion relation w^2 = g k tanh(k h).
func waveNumber(w, h, g float64) float64 {
	if w <= 0 {
		return 0
	}
	k := w * w / g
	if h <= 0 || k*h > deepWater {
		return k
	}
	// deep and shallow limits both bound the root from below
	k = math.Max(k, w/math.Sqrt(g*h))
	for i := 0; i < 100; i++ {
		th := math.Tanh(k * h)
		f := g*k*th - w*w
		df := g*th + g*k*h*(1-th*th)
		dk := f / df
		k -= dk
		if k <= 0 {
			k = w * w / g
		}
		if math.Abs(dk) < 1e-12*k {
			break
		}
	}
	return k
}

// kinematics holds per-unit-amplitude wave field ratios at a depth z.
type kinematics struct {
	horizontal float64 // cosh(k(z+h)) / sinh(kh)
	vertical   float64 // sinh(k(z+h)) / sinh(kh)
	pressure   float64 // cosh(k(z+h)) / cosh(kh)
}

func depthRatios(k, h, z float64) kinematics {
	if k*h > deepWater || h <= 0 {
		e := math.Exp(k * z)
		return kinematics{e, e, e}
	}
	zh := k * (z + h)
	return kinematics{
		horizontal: math.Cosh(zh) / math.Sinh(k*h),
		vertical:   math.Sinh(zh) / math.Sinh(k*h),
		pressure:   math.Cosh(zh) / math.Cosh(k*h),
	}
}

// wave describes one regular wave component of unit amplitude.
type wave struct {
	w, k    float64
	heading float64 // rad
	depth   float64
	rho, g  float64
}

func (wv wave) phase(r vec3) complex128 {
	x := r.X*math.Cos(wv.heading) + r.Y*math.Sin(wv.heading)
	return cmplx.Exp(complex(0, -wv.k*x))
}

// velocity returns the complex fluid velocity at r.
func (wv wave) velocity(r vec3) [3]complex128 {
	kin := depthRatios(wv.k, wv.depth, r.Z)
	e := wv.phase(r)
	h := complex(wv.w*kin.horizontal, 0) * e
	return [3]complex128{
		h * complex(math.Cos(wv.heading), 0),
		h * complex(math.Sin(wv.heading), 0),
		complex(0, wv.w*kin.vertical) * e,
	}
}

// acceleration returns the complex fluid acceleration at r.
func (wv wave) acceleration(r vec3) [3]complex128 {
	u := wv.velocity(r)
	iw := complex(0, wv.w)
	return [3]complex128{iw * u[0], iw * u[1], iw * u[2]}
}

// pressure returns the complex dynamic pressure at r.
func (wv wave) pressure(r vec3) complex128 {
	kin := depthRatios(wv.k, wv.depth, r.Z)
	return complex(wv.rho*wv.g*kin.pressure, 0) * wv.phase(r)
}

// jonswap returns the JONSWAP spectral density in m^2 s/rad.
func jonswap(w, hs, tp, gamma float64) float64 {
	if w <= 0 || hs <= 0 {
		return 0
	}
	if gamma <= 0 {
		gamma = defaultGamma(hs, tp)
	}
	wp := 2 * math.Pi / tp
	sigma := 0.07
	if w > wp {
		sigma = 0.09
	}
	norm := 1 - 0.287*math.Log(gamma)
	pm := 5.0 / 16.0 * hs * hs * math.Pow(wp, 4) * math.Pow(w, -5) * math.Exp(-1.25*math.Pow(w/wp, -4))
	r := math.Exp(-0.5 * math.Pow((w-wp)/(sigma*wp), 2))
	return norm * pm * math.Pow(gamma, r)
}

// defaultGamma is the peak enhancement factor recommended for a sea state
// when none is given.
func defaultGamma(hs, tp float64) float64 {
	ratio := tp / math.Sqrt(hs)
	switch {
	case ratio <= 3.6:
		return 5
	case ratio >= 5:
		return 1
	default:
		return math.Exp(5.75 - 1.15*ratio)
	}
}
