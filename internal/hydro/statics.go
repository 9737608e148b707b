package hydro

import (
	"fmt"
	"math"

	"github.com/san-kum/floatsim/internal/model"
)

const maxOffset = 1e6

// equilibrium finds the static offset where hydrostatics, gravity and the
// mooring balance, using Newton iteration on the hardening mooring curve.
func (p *platform) equilibrium(maxIter int, tol float64) (model.Statics, error) {
	var x [6]float64
	for it := 1; it <= maxIter; it++ {
		fm, km := p.mooringForce(x)

		var (
			r [6]float64
			j = p.chs
		)
		for i := 0; i < 6; i++ {
			r[i] = p.f0[i] - fm[i]
			for k := 0; k < 6; k++ {
				r[i] -= p.chs[i][k] * x[k]
			}
			j[i][i] += km[i]
		}

		dx, err := solveReal(j, r)
		if err != nil {
			return model.Statics{}, fmt.Errorf("%w: platform %d: singular stiffness at iteration %d: %v",
				model.ErrConvergence, p.index+1, it, err)
		}

		step := 0.0
		for i := range x {
			x[i] += dx[i]
			if math.IsNaN(x[i]) || math.Abs(x[i]) > maxOffset {
				return model.Statics{}, fmt.Errorf("%w: platform %d: offset diverged in %s",
					model.ErrConvergence, p.index+1, model.DOF(i))
			}
			step = math.Max(step, math.Abs(dx[i]))
		}
		if step < tol {
			return p.statics(x, it), nil
		}
	}
	return model.Statics{}, fmt.Errorf("%w: platform %d: no equilibrium after %d iterations",
		model.ErrConvergence, p.index+1, maxIter)
}

func (p *platform) statics(x [6]float64, iterations int) model.Statics {
	_, km := p.mooringForce(x)
	st := model.Statics{
		Mass:           p.mass,
		Displacement:   p.volume,
		CG:             comps(p.cg),
		CB:             comps(p.cb),
		WaterplaneArea: p.awp,
		Hydrostatic:    p.chs,
		Stiffness:      p.chs,
		Offset:         x,
		Iterations:     iterations,
	}
	for i := range km {
		st.Stiffness[i][i] += km[i]
	}
	return st
}
