package hydro

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/floatsim/internal/model"
)

// member is a cylinder in platform coordinates.
type member struct {
	spec   MemberSpec
	a, b   vec3
	q      vec3 // unit axis from a to b
	length float64
	radius float64
	ca     float64
	caEnd  float64
}

// strip is a submerged slice of a member used for Morison loads.
type strip struct {
	r      vec3
	q      vec3
	p      mat3
	dl     float64
	vol    float64
	d      float64
	ca, cd float64
}

// endCap is a submerged member end. normal points out of the member.
type endCap struct {
	r      vec3
	q      vec3
	normal vec3
	area   float64
	vol    float64
	caEnd  float64
}

// crossing is where a member pierces the free surface.
type crossing struct {
	x, y float64
	area float64
	iwp  float64
}

type platform struct {
	index    int
	spec     PlatformSpec
	position vec3
	members  []member
	strips   []strip
	ends     []endCap
	cross    []crossing

	mass   float64
	cg     vec3
	volume float64
	cb     vec3
	awp    float64

	m6  mat6 // rigid body mass about the reference point
	a6  mat6 // added mass
	chs mat6 // hydrostatic stiffness
	f0  [6]float64

	mooring  [6]float64
	damping  [6]float64
	hardness float64
	lscale   float64
}

func newPlatform(index int, spec PlatformSpec, site Site, settings Settings) *platform {
	p := &platform{
		index:    index,
		spec:     spec,
		position: vec3{X: spec.Position[0], Y: spec.Position[1]},
		hardness: spec.Mooring.Hardening,
		lscale:   spec.Mooring.LengthScale,
	}
	copy(p.mooring[:], spec.Mooring.Stiffness)
	for i := range p.damping {
		p.damping[i] = DefaultDamping
	}
	copy(p.damping[:], spec.DampingRatio)

	for _, ms := range spec.Members {
		p.members = append(p.members, newMember(ms))
	}

	p.massProperties()
	p.hydrostatics(site, settings.DlsMax)
	return p
}

func newMember(ms MemberSpec) member {
	a, b := vecOf(ms.RA), vecOf(ms.RB)
	axis := r3.Sub(b, a)
	l := r3.Norm(axis)
	m := member{
		spec:   ms,
		a:      a,
		b:      b,
		q:      r3.Scale(1/l, axis),
		length: l,
		radius: ms.D / 2,
		ca:     1,
		caEnd:  0.6,
	}
	if ms.Ca != nil {
		m.ca = *ms.Ca
	}
	if ms.CaEnd != nil {
		m.caEnd = *ms.CaEnd
	}
	return m
}

func (p *platform) massProperties() {
	var (
		total  float64
		moment vec3
	)
	add := func(m float64, r vec3, icg mat3) {
		if m <= 0 {
			return
		}
		addPointMass(&p.m6, m, r, icg)
		total += m
		moment = r3.Add(moment, r3.Scale(m, r))
	}

	for _, mb := range p.members {
		ro := mb.radius
		ri := ro - mb.spec.T
		if ri < 0 {
			ri = 0
		}
		if mb.spec.RhoShell > 0 && mb.spec.T > 0 {
			m := mb.spec.RhoShell * math.Pi * (ro*ro - ri*ri) * mb.length
			mid := r3.Add(mb.a, r3.Scale(mb.length/2, mb.q))
			axial := m * (ro*ro + ri*ri) / 2
			trans := m * ((ro*ro+ri*ri)/4 + mb.length*mb.length/12)
			add(m, mid, axisymmetric(mb.q, axial, trans))
		}
		if mb.spec.RhoFill > 0 && mb.spec.LFill > 0 {
			lf := math.Min(mb.spec.LFill, mb.length)
			m := mb.spec.RhoFill * math.Pi * ri * ri * lf
			mid := r3.Add(mb.a, r3.Scale(lf/2, mb.q))
			axial := m * ri * ri / 2
			trans := m * (3*ri*ri + lf*lf) / 12
			add(m, mid, axisymmetric(mb.q, axial, trans))
		}
	}

	if t := p.spec.Turbine; t != nil {
		add(t.MRNA, vec3{Z: t.HHub}, mat3{})
		add(t.MTower, vec3{Z: t.HHub / 2}, mat3{})
	}

	p.mass = total
	if total > 0 {
		p.cg = r3.Scale(1/total, moment)
	}
}

// submerged clips a member to z <= 0 and returns the wet part as fractions
// of the member length. ok is false for a dry member.
func submerged(mb member) (s0, s1 float64, ok bool) {
	za, zb := mb.a.Z, mb.b.Z
	switch {
	case za >= 0 && zb >= 0:
		return 0, 0, false
	case za <= 0 && zb <= 0:
		return 0, 1, true
	}
	s := za / (za - zb)
	if za < 0 {
		return 0, s, true
	}
	return s, 1, true
}

func (p *platform) hydrostatics(site Site, dlsMax float64) {
	var (
		vol    float64
		moment vec3
	)
	for _, mb := range p.members {
		s0, s1, ok := submerged(mb)
		if !ok {
			continue
		}
		area := math.Pi * mb.radius * mb.radius
		wet := (s1 - s0) * mb.length
		from := r3.Add(mb.a, r3.Scale(s0*mb.length, mb.q))

		v := area * wet
		vol += v
		moment = r3.Add(moment, r3.Scale(v, r3.Add(from, r3.Scale(wet/2, mb.q))))

		n := int(math.Ceil(wet / dlsMax))
		if n < 1 {
			n = 1
		}
		dl := wet / float64(n)
		proj := transverse(mb.q)
		for i := 0; i < n; i++ {
			p.strips = append(p.strips, strip{
				r:   r3.Add(from, r3.Scale((float64(i)+0.5)*dl, mb.q)),
				q:   mb.q,
				p:   proj,
				dl:  dl,
				vol: area * dl,
				d:   mb.spec.D,
				ca:  mb.ca,
				cd:  mb.spec.Cd,
			})
		}

		capVol := 2.0 / 3.0 * math.Pi * math.Pow(mb.radius, 3)
		if mb.a.Z < 0 {
			p.ends = append(p.ends, endCap{r: mb.a, q: mb.q, normal: r3.Scale(-1, mb.q), area: area, vol: capVol, caEnd: mb.caEnd})
		}
		if mb.b.Z < 0 {
			p.ends = append(p.ends, endCap{r: mb.b, q: mb.q, normal: mb.q, area: area, vol: capVol, caEnd: mb.caEnd})
		}

		if s0 > 0 || s1 < 1 {
			at := r3.Add(mb.a, r3.Scale(s1*mb.length, mb.q))
			if s0 > 0 {
				at = from
			}
			qz := math.Max(math.Abs(mb.q.Z), 1e-3)
			p.cross = append(p.cross, crossing{
				x:    at.X,
				y:    at.Y,
				area: area / qz,
				iwp:  math.Pi * math.Pow(mb.spec.D, 4) / 64,
			})
		}
	}

	p.volume = vol
	if vol > 0 {
		p.cb = r3.Scale(1/vol, moment)
	}

	rho := site.RhoWater
	for _, s := range p.strips {
		addTranslational(&p.a6, scaleMat3(s.p, rho*s.ca*s.vol), s.r)
	}
	for _, e := range p.ends {
		addTranslational(&p.a6, scaleMat3(outer3(e.q, e.q), rho*e.caEnd*e.vol), e.r)
	}

	rg := rho * site.G
	var sa, sx, sy, sxx, syy, sxy, si float64
	for _, c := range p.cross {
		sa += c.area
		sx += c.area * c.x
		sy += c.area * c.y
		sxx += c.area * c.x * c.x
		syy += c.area * c.y * c.y
		sxy += c.area * c.x * c.y
		si += c.iwp
	}
	p.awp = sa

	mg := p.mass * site.G
	c := &p.chs
	c[2][2] = rg * sa
	c[2][3] = rg * sy
	c[2][4] = -rg * sx
	c[3][3] = rg*(syy+si+vol*p.cb.Z) - mg*p.cg.Z
	c[4][4] = rg*(sxx+si+vol*p.cb.Z) - mg*p.cg.Z
	c[3][4] = -rg * sxy
	c[3][2], c[4][2], c[4][3] = c[2][3], c[2][4], c[3][4]

	buoy := rg * vol
	p.f0 = [6]float64{
		0,
		0,
		buoy - mg - p.spec.Mooring.Pretension,
		buoy*p.cb.Y - mg*p.cg.Y,
		-(buoy*p.cb.X - mg*p.cg.X),
		0,
	}
}

// mooringForce returns the restoring force of the mooring at offset x and
// its tangent stiffness.
func (p *platform) mooringForce(x [6]float64) (f, k [6]float64) {
	for i := range x {
		l := 1.0
		if !model.DOF(i).Rotational() {
			l = p.lscale
		}
		r := x[i] / l
		f[i] = p.mooring[i] * x[i] * (1 + p.hardness*r*r)
		k[i] = p.mooring[i] * (1 + 3*p.hardness*r*r)
	}
	return f, k
}

// linearDamping returns diagonal damping from the critical damping ratios.
func (p *platform) linearDamping(m, k mat6) mat6 {
	var b mat6
	for i := 0; i < 6; i++ {
		if k[i][i] > 0 && m[i][i] > 0 {
			b[i][i] = 2 * p.damping[i] * math.Sqrt(k[i][i]*m[i][i])
		}
	}
	return b
}
