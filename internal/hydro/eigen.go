package hydro

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/floatsim/internal/model"
)

// naturalModes solves the undamped eigenproblem (M+A)^-1 K.
func naturalModes(m, k mat6) (model.Modes, error) {
	var inv mat.Dense
	if err := inv.Inverse(dense6(m)); err != nil {
		return model.Modes{}, fmt.Errorf("%w: mass matrix: %v", model.ErrSingularSystem, err)
	}
	var sys mat.Dense
	sys.Mul(&inv, dense6(k))

	var eig mat.Eigen
	if ok := eig.Factorize(&sys, mat.EigenRight); !ok {
		return model.Modes{}, fmt.Errorf("%w: eigen decomposition failed", model.ErrSingularSystem)
	}
	values := eig.Values(nil)
	var vectors mat.CDense
	eig.VectorsTo(&vectors)

	type mode struct {
		freq  float64
		shape [6]float64
		dom   model.DOF
	}
	modes := make([]mode, 0, len(values))
	for j, lambda := range values {
		if real(lambda) <= 0 || math.IsNaN(real(lambda)) {
			return model.Modes{}, fmt.Errorf("%w: mode %d has eigenvalue %.4g", model.ErrSingularSystem, j+1, lambda)
		}
		md := mode{freq: math.Sqrt(real(lambda)) / (2 * math.Pi)}

		peak := 0.0
		for i := 0; i < 6; i++ {
			v := real(vectors.At(i, j))
			md.shape[i] = v
			if math.Abs(v) > math.Abs(peak) {
				peak = v
				md.dom = model.DOF(i)
			}
		}
		if peak != 0 {
			for i := range md.shape {
				md.shape[i] /= peak
			}
		}
		modes = append(modes, md)
	}
	sort.SliceStable(modes, func(a, b int) bool { return modes[a].freq < modes[b].freq })

	var out model.Modes
	for i, md := range modes {
		out.Frequencies[i] = md.freq
		out.Shapes[i] = md.shape
		out.Dominant[i] = md.dom
	}
	return out, nil
}
