package viz

import (
	"math"
	"sort"
)

type Vec3 struct {
	X, Y, Z float64
}

// Vec3 methods.
func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }
func (v Vec3) Normalize() Vec3 {
	if l := v.Length(); l != 0 {
		return v.Scale(1 / l)
	}
	return Vec3{}
}
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{v.Y*o.Z - v.Z*o.Y, v.Z*o.X - v.X*o.Z, v.X*o.Y - v.Y*o.X}
}

// Camera manages 3D projection to a 2D plane.
type Camera struct {
	Position, Target, Up Vec3
	FOV, Near, Far       float64
	RotX, RotY, RotZ     float64
	Zoom                 float64
}

func NewCamera() *Camera {
	return &Camera{Position: Vec3{0, 0, 50}, Up: Vec3{0, 1, 0}, FOV: math.Pi / 4, Near: 0.1, Far: 1000, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }

// RotatePoint rotates a point around the camera's axes.
func (c *Camera) RotatePoint(p Vec3) Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project converts 3D world coordinates to 2D screen coordinates.
// Returns x, y, depth, and visibility.
func (c *Camera) Project(p Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.RotatePoint(p).Scale(c.Zoom)
	dist := c.Position.Z
	if rot.Z >= dist-c.Near {
		return 0, 0, 0, false
	}
	scale := dist / (dist - rot.Z)
	minDim := float64(sh)
	if float64(sw) < minDim {
		minDim = float64(sw)
	}
	pScale := minDim / 3.0
	sx := int(rot.X*scale*pScale) + sw/2
	sy := int(-rot.Y*scale*pScale) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End Vec3
	Color      rune
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe                 { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e Vec3, c rune) { w.Edges = append(w.Edges, Edge{s, e, c}) }

type ProjectedEdge struct {
	X1, Y1, X2, Y2 int
	Depth          float64
	Color          rune
	Visible        bool
}

// Render3D draws the wireframe to the canvas using a simple painter's algorithm.
// Projection happens in sub-pixel space, so lines use the full braille
// resolution of the canvas.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.Width*2, c.Height*4
	proj := make([]ProjectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, d2, v2 := cam.Project(e.End, cw, ch)
		if v1 || v2 {
			proj = append(proj, ProjectedEdge{x1, y1, x2, y2, (d1 + d2) / 2, e.Color, true})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].Depth < proj[j].Depth })
	for _, e := range proj {
		if e.X1 == e.X2 && e.Y1 == e.Y2 {
			c.Set(e.X1, e.Y1)
		} else {
			c.DrawLine(e.X1, e.Y1, e.X2, e.Y2)
		}
	}
}

// AddCylinder adds a cylinder between a and b as two end rings joined by
// longitudinal lines.
func (w *Wireframe) AddCylinder(a, b Vec3, radius float64, segments int, c rune) {
	if segments < 3 {
		segments = 3
	}
	axis := b.Sub(a).Normalize()
	ref := Vec3{0, 1, 0}
	if math.Abs(axis.Dot(ref)) > 0.9 {
		ref = Vec3{1, 0, 0}
	}
	u := axis.Cross(ref).Normalize()
	v := axis.Cross(u)

	ring := func(center Vec3, i int) Vec3 {
		t := 2 * math.Pi * float64(i) / float64(segments)
		return center.Add(u.Scale(radius * math.Cos(t))).Add(v.Scale(radius * math.Sin(t)))
	}
	for i := 0; i < segments; i++ {
		w.AddEdge(ring(a, i), ring(a, i+1), c)
		w.AddEdge(ring(b, i), ring(b, i+1), c)
		if i%2 == 0 {
			w.AddEdge(ring(a, i), ring(b, i), c)
		}
	}
}

// AddGrid adds an n x n grid in the horizontal plane y = level, centred on
// (cx, cz) with the given half width.
func (w *Wireframe) AddGrid(cx, cz, level, half float64, n int, c rune) {
	if n < 1 {
		n = 1
	}
	step := 2 * half / float64(n)
	for i := 0; i <= n; i++ {
		o := -half + float64(i)*step
		w.AddEdge(Vec3{cx + o, level, cz - half}, Vec3{cx + o, level, cz + half}, c)
		w.AddEdge(Vec3{cx - half, level, cz + o}, Vec3{cx + half, level, cz + o}, c)
	}
}

// Bounds returns the axis-aligned bounding box of all edge end points.
func (w *Wireframe) Bounds() (lo, hi Vec3) {
	if len(w.Edges) == 0 {
		return Vec3{}, Vec3{}
	}
	lo, hi = w.Edges[0].Start, w.Edges[0].Start
	for _, e := range w.Edges {
		for _, p := range []Vec3{e.Start, e.End} {
			lo = Vec3{math.Min(lo.X, p.X), math.Min(lo.Y, p.Y), math.Min(lo.Z, p.Z)}
			hi = Vec3{math.Max(hi.X, p.X), math.Max(hi.Y, p.Y), math.Max(hi.Z, p.Z)}
		}
	}
	return lo, hi
}

// Fit centres the wireframe on the origin and scales its largest extent
// to 2, the range the camera frames.
func (w *Wireframe) Fit() {
	lo, hi := w.Bounds()
	center := lo.Add(hi).Scale(0.5)
	ext := hi.Sub(lo)
	size := math.Max(ext.X, math.Max(ext.Y, ext.Z))
	if size == 0 {
		size = 1
	}
	s := 2 / size
	for i := range w.Edges {
		w.Edges[i].Start = w.Edges[i].Start.Sub(center).Scale(s)
		w.Edges[i].End = w.Edges[i].End.Sub(center).Scale(s)
	}
}
