package hydro

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

type vec3 = r3.Vec

type mat3 = [3][3]float64

type mat6 = [6][6]float64

func vecOf(a [3]float64) vec3 { return vec3{X: a[0], Y: a[1], Z: a[2]} }
func comps(v vec3) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

// skew returns S(r) with S(r) v = r x v.
func skew(r vec3) mat3 {
	return mat3{
		{0, -r.Z, r.Y},
		{r.Z, 0, -r.X},
		{-r.Y, r.X, 0},
	}
}

func mul3(a, b mat3) mat3 {
	var out mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out[i][j] += a[i][k] * b[k][j]
			}
		}
	}
	return out
}

func outer3(u, v vec3) mat3 {
	a, b := comps(u), comps(v)
	var out mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = a[i] * b[j]
		}
	}
	return out
}

func scaleMat3(a mat3, s float64) mat3 {
	for i := range a {
		for j := range a[i] {
			a[i][j] *= s
		}
	}
	return a
}

func identity3() mat3 { return mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} }

// transverse returns I - q q^T, the projector onto the plane normal to q.
func transverse(q vec3) mat3 {
	p := identity3()
	qq := outer3(q, q)
	for i := range p {
		for j := range p[i] {
			p[i][j] -= qq[i][j]
		}
	}
	return p
}

// axisymmetric returns the inertia tensor of a body symmetric about q.
func axisymmetric(q vec3, axial, trans float64) mat3 {
	t := scaleMat3(transverse(q), trans)
	a := scaleMat3(outer3(q, q), axial)
	for i := range t {
		for j := range t[i] {
			t[i][j] += a[i][j]
		}
	}
	return t
}

// addTranslational adds a translational 3x3 coefficient a (mass, added mass
// or damping) acting at point r to the 6x6 matrix about the origin.
func addTranslational(m *mat6, a mat3, r vec3) {
	s := skew(r)
	as := mul3(a, s)
	sa := mul3(s, a)
	sas := mul3(sa, s)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] += a[i][j]
			m[i][j+3] -= as[i][j]
			m[i+3][j] += sa[i][j]
			m[i+3][j+3] -= sas[i][j]
		}
	}
}

// addPointMass adds a rigid body of mass m with centre r and central
// inertia tensor icg.
func addPointMass(m6 *mat6, m float64, r vec3, icg mat3) {
	addTranslational(m6, scaleMat3(identity3(), m), r)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m6[i+3][j+3] += icg[i][j]
		}
	}
}

// wrench returns the 6-vector of force f applied at r about the origin.
func wrench(f vec3, r vec3) [6]float64 {
	mom := r3.Cross(r, f)
	return [6]float64{f.X, f.Y, f.Z, mom.X, mom.Y, mom.Z}
}

func apply3(a mat3, v [3]complex128) [3]complex128 {
	var out [3]complex128
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i] += complex(a[i][j], 0) * v[j]
		}
	}
	return out
}

// cwrench is wrench for complex amplitudes.
func cwrench(f [3]complex128, r vec3) [6]complex128 {
	var out [6]complex128
	out[0], out[1], out[2] = f[0], f[1], f[2]
	out[3] = complex(r.Y, 0)*f[2] - complex(r.Z, 0)*f[1]
	out[4] = complex(r.Z, 0)*f[0] - complex(r.X, 0)*f[2]
	out[5] = complex(r.X, 0)*f[1] - complex(r.Y, 0)*f[0]
	return out
}

func dense6(m mat6) *mat.Dense {
	d := mat.NewDense(6, 6, nil)
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			d.Set(i, j, m[i][j])
		}
	}
	return d
}

func addMat6(a, b mat6) mat6 {
	for i := range a {
		for j := range a[i] {
			a[i][j] += b[i][j]
		}
	}
	return a
}

// solveComplex solves Z x = f for complex Z = zr + i zi through the
// equivalent real 12x12 block system.
func solveComplex(zr, zi mat6, f [6]complex128) ([6]complex128, error) {
	a := mat.NewDense(12, 12, nil)
	b := mat.NewVecDense(12, nil)
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			a.Set(i, j, zr[i][j])
			a.Set(i, j+6, -zi[i][j])
			a.Set(i+6, j, zi[i][j])
			a.Set(i+6, j+6, zr[i][j])
		}
		b.SetVec(i, real(f[i]))
		b.SetVec(i+6, imag(f[i]))
	}

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return [6]complex128{}, err
	}
	var out [6]complex128
	for i := 0; i < 6; i++ {
		out[i] = complex(x.AtVec(i), x.AtVec(i+6))
	}
	return out, nil
}

// solveReal solves k x = f.
func solveReal(k mat6, f [6]float64) ([6]float64, error) {
	b := mat.NewVecDense(6, f[:])
	var x mat.VecDense
	if err := x.SolveVec(dense6(k), b); err != nil {
		return [6]float64{}, err
	}
	var out [6]float64
	for i := range out {
		out[i] = x.AtVec(i)
	}
	return out, nil
}
