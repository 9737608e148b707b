package analysis

import (
	"math"
	"math/cmplx"
)

// BinWidths returns the frequency band each sample of w represents. For a
// uniform grid starting at one spacing above zero every width equals that
// spacing.
func BinWidths(w []float64) []float64 {
	n := len(w)
	out := make([]float64, n)
	switch n {
	case 0:
		return out
	case 1:
		out[0] = w[0]
		return out
	}
	out[0] = w[1] - w[0]
	out[n-1] = w[n-1] - w[n-2]
	for i := 1; i < n-1; i++ {
		out[i] = (w[i+1] - w[i-1]) / 2
	}
	return out
}

// ResponseSpectrum returns |rao|^2 * s.
func ResponseSpectrum(rao []complex128, s []float64) []float64 {
	out := make([]float64, len(s))
	for i := range s {
		if i >= len(rao) {
			break
		}
		a := cmplx.Abs(rao[i])
		out[i] = a * a * s[i]
	}
	return out
}

// Moment returns the n-th spectral moment of s over w.
func Moment(w, s []float64, n int) float64 {
	dw := BinWidths(w)
	var m float64
	for i := range w {
		if i >= len(s) {
			break
		}
		m += math.Pow(w[i], float64(n)) * s[i] * dw[i]
	}
	return m
}

// StdDev returns the standard deviation of a process with spectrum s.
func StdDev(w, s []float64) float64 {
	return math.Sqrt(Moment(w, s, 0))
}

// SignificantAmplitude returns the significant single amplitude, 2 sigma.
func SignificantAmplitude(w, s []float64) float64 {
	return 2 * StdDev(w, s)
}

// ZeroCrossingPeriod returns the mean zero up-crossing period 2pi sqrt(m0/m2).
// It is zero for an empty spectrum.
func ZeroCrossingPeriod(w, s []float64) float64 {
	m0, m2 := Moment(w, s, 0), Moment(w, s, 2)
	if m0 == 0 || m2 == 0 {
		return 0
	}
	return 2 * math.Pi * math.Sqrt(m0/m2)
}

// Peak returns the largest value in s and the frequency where it occurs.
// idx is -1 for an empty or all-zero series.
func Peak(w, s []float64) (freq, value float64, idx int) {
	idx = -1
	for i, v := range s {
		if i >= len(w) {
			break
		}
		if v > value {
			freq, value, idx = w[i], v, i
		}
	}
	return freq, value, idx
}

// Magnitudes returns |x| for each element.
func Magnitudes(x []complex128) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = cmplx.Abs(v)
	}
	return out
}
