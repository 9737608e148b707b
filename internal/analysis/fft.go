package analysis

import (
	"errors"
	"math"
	"math/cmplx"
	"math/rand/v2"

	"gonum.org/v1/gonum/dsp/fourier"
)

var ErrLength = errors.New("analysis: empty sequence")

// FFT returns the unnormalised forward discrete Fourier transform of x.
func FFT(x []complex128) ([]complex128, error) {
	if len(x) == 0 {
		return nil, ErrLength
	}
	return fourier.NewCmplxFFT(len(x)).Coefficients(nil, x), nil
}

// TimeSeries synthesises one period of a random-phase realisation of the
// response with spectrum |rao|^2 s. w must be the uniform grid k*dw,
// k = 1..len(w). The record length is 2pi/dw.
func TimeSeries(w, s []float64, rao []complex128, seed uint64) (t, x []float64, err error) {
	if len(w) == 0 {
		return nil, nil, nil
	}
	dw := w[0]
	n := 1
	for n < 2*(len(w)+1) {
		n <<= 1
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	resp := ResponseSpectrum(rao, s)
	bins := make([]complex128, n)
	for i := range w {
		amp := math.Sqrt(2 * resp[i] * dw)
		phase := 2 * math.Pi * rng.Float64()
		// conjugate so the forward transform sums e^{+i w t}
		bins[i+1] = cmplx.Conj(cmplx.Rect(amp, phase))
	}

	out, err := FFT(bins)
	if err != nil {
		return nil, nil, err
	}
	dt := 2 * math.Pi / dw / float64(n)
	t = make([]float64, n)
	x = make([]float64, n)
	for m := range out {
		t[m] = float64(m) * dt
		x[m] = real(out[m])
	}
	return t, x, nil
}
