package hydro

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/floatsim/internal/analysis"
	"github.com/san-kum/floatsim/internal/model"
)

type excitationKey struct {
	platform int
	freq     int
	heading  float64
}

// excitation returns the inertial and pressure wave force on a platform for
// a unit-amplitude wave, cached per frequency and heading.
func (e *Engine) excitation(p *platform, i int, heading float64) [6]complex128 {
	key := excitationKey{platform: p.index, freq: i, heading: heading}
	if f, ok := e.cache.Get(key); ok {
		return f
	}

	wv := e.wave(i, heading)
	rho := e.doc.Site.RhoWater
	var f [6]complex128
	for _, s := range p.strips {
		a := wv.acceleration(r3.Add(s.r, p.position))
		df := cwrench(apply3(scaleMat3(s.p, rho*(1+s.ca)*s.vol), a), s.r)
		for j := range f {
			f[j] += df[j]
		}
	}
	for _, c := range p.ends {
		at := r3.Add(c.r, p.position)
		pr := wv.pressure(at)
		a := wv.acceleration(at)
		ax := apply3(scaleMat3(outer3(c.q, c.q), rho*c.caEnd*c.vol), a)
		var fc [3]complex128
		normal := comps(c.normal)
		for j := 0; j < 3; j++ {
			fc[j] = -pr*complex(c.area*normal[j], 0) + ax[j]
		}
		df := cwrench(fc, c.r)
		for j := range f {
			f[j] += df[j]
		}
	}

	e.cache.Add(key, f)
	return f
}

func (e *Engine) wave(i int, heading float64) wave {
	return wave{
		w:       e.w[i],
		k:       e.k[i],
		heading: heading,
		depth:   e.doc.Site.WaterDepth,
		rho:     e.doc.Site.RhoWater,
		g:       e.doc.Site.G,
	}
}

// respond computes the response of one platform to a load case. The viscous
// drag on each strip is linearised against the standard deviation of the
// relative fluid velocity and iterated until that estimate settles.
func (e *Engine) respond(ctx context.Context, p *platform, lc loadCase, s []float64) (model.CaseResponse, error) {
	st := e.statics[p.index]
	mass := addMat6(p.m6, p.a6)
	k := mat6(st.Stiffness)
	blin := p.linearDamping(mass, k)

	nw := len(e.w)
	dw := analysis.BinWidths(e.w)
	rho := e.doc.Site.RhoWater
	sigma := make([]float64, len(p.strips))
	var xi [][6]complex128

	// first estimate assumes a fixed body
	for j, str := range p.strips {
		sigma[j] = e.relativeVelocityStd(p, str, lc.heading, s, dw, nil)
	}

	iterations := 0
	for iterations < e.doc.Settings.NIter {
		if err := ctx.Err(); err != nil {
			return model.CaseResponse{}, err
		}
		iterations++

		bdrag := mat6{}
		coeff := make([]float64, len(p.strips))
		for j, str := range p.strips {
			coeff[j] = math.Sqrt(8/math.Pi) * sigma[j] * 0.5 * rho * str.cd * str.d * str.dl
			if coeff[j] > 0 {
				addTranslational(&bdrag, scaleMat3(str.p, coeff[j]), str.r)
			}
		}
		b := addMat6(blin, bdrag)

		xi = make([][6]complex128, nw)
		for i := 0; i < nw; i++ {
			f := e.excitation(p, i, lc.heading)
			wv := e.wave(i, lc.heading)
			for j, str := range p.strips {
				if coeff[j] == 0 {
					continue
				}
				u := wv.velocity(r3.Add(str.r, p.position))
				df := cwrench(apply3(scaleMat3(str.p, coeff[j]), u), str.r)
				for d := range f {
					f[d] += df[d]
				}
			}

			w := e.w[i]
			var zr, zi mat6
			for r := 0; r < 6; r++ {
				for c := 0; c < 6; c++ {
					zr[r][c] = -w*w*mass[r][c] + k[r][c]
					zi[r][c] = w * b[r][c]
				}
			}
			x, err := solveComplex(zr, zi, f)
			if err != nil {
				return model.CaseResponse{}, fmt.Errorf("%w: platform %d at %.4g rad/s: %v",
					model.ErrSingularSystem, p.index+1, w, err)
			}
			xi[i] = x
		}

		change := 0.0
		for j, str := range p.strips {
			next := e.relativeVelocityStd(p, str, lc.heading, s, dw, xi)
			if sigma[j] > 0 {
				change = math.Max(change, math.Abs(next-sigma[j])/sigma[j])
			} else if next > 0 {
				change = math.Inf(1)
			}
			sigma[j] = next
		}
		if change < e.doc.Settings.ConvCrit {
			break
		}
		if iterations == e.doc.Settings.NIter {
			e.logger.Warn("drag linearisation did not converge",
				"platform", p.index+1, "iterations", iterations, "change", change)
		}
	}

	resp := model.CaseResponse{
		RAO:        model.NewResponseArray(nw),
		Spectrum:   s,
		Iterations: iterations,
		MeanOffset: st.Offset,
	}
	for i := 0; i < nw; i++ {
		for d := 0; d < model.NumDOF; d++ {
			resp.RAO.Set(model.DOF(d), i, xi[i][d])
		}
	}
	for _, d := range model.DOFs {
		resp.StdDev[d] = analysis.StdDev(e.w, analysis.ResponseSpectrum(resp.RAO.Mode(d), s))
	}

	if t := lc.thrust(p.spec.Turbine, e.doc.Site.RhoAir); t > 0 {
		f := vec3{X: t * math.Cos(lc.windHeading), Y: t * math.Sin(lc.windHeading)}
		off, err := solveReal(k, wrench(f, vec3{Z: p.spec.Turbine.HHub}))
		if err != nil {
			return model.CaseResponse{}, fmt.Errorf("%w: platform %d mean offset: %v", model.ErrSingularSystem, p.index+1, err)
		}
		for d := range off {
			resp.MeanOffset[d] += off[d]
		}
	}
	return resp, nil
}

// relativeVelocityStd returns the standard deviation of the transverse fluid
// velocity relative to a strip. xi nil means the body is held fixed.
func (e *Engine) relativeVelocityStd(p *platform, str strip, heading float64, s, dw []float64, xi [][6]complex128) float64 {
	if str.cd == 0 {
		return 0
	}
	var variance float64
	for i := range e.w {
		if s[i] == 0 {
			continue
		}
		u := e.wave(i, heading).velocity(r3.Add(str.r, p.position))
		if xi != nil {
			iw := complex(0, e.w[i])
			x := xi[i]
			rot := [3]complex128{x[3], x[4], x[5]}
			r := [3]complex128{complex(str.r.X, 0), complex(str.r.Y, 0), complex(str.r.Z, 0)}
			v := [3]complex128{
				x[0] + rot[1]*r[2] - rot[2]*r[1],
				x[1] + rot[2]*r[0] - rot[0]*r[2],
				x[2] + rot[0]*r[1] - rot[1]*r[0],
			}
			for j := range u {
				u[j] -= iw * v[j]
			}
		}
		rel := apply3(str.p, u)
		mag := 0.0
		for _, c := range rel {
			a := cmplx.Abs(c)
			mag += a * a
		}
		variance += mag * s[i] * dw[i]
	}
	return math.Sqrt(variance)
}
