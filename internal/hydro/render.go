package hydro

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/floatsim/internal/viz"
)

const (
	renderWidth    = 72
	renderHeight   = 24
	renderSegments = 12
	gridLines      = 8
)

// displaced moves a platform point by a small rigid-body offset.
func displaced(r vec3, x [6]float64) vec3 {
	rot := r3.Cross(vec3{X: x[3], Y: x[4], Z: x[5]}, r)
	return r3.Add(r3.Add(r, rot), vec3{X: x[0], Y: x[1], Z: x[2]})
}

// toView maps z-up platform coordinates to the y-up viewer frame.
func toView(r vec3) viz.Vec3 { return viz.Vec3{X: r.X, Y: r.Z, Z: r.Y} }

// Canvas projects the displaced platforms onto a braille canvas.
func (e *Engine) Canvas(hideGrid bool) *viz.Canvas {
	wf := viz.NewWireframe()
	for i, p := range e.platforms {
		off := e.offsets[i]
		for _, mb := range p.members {
			a := r3.Add(displaced(mb.a, off), p.position)
			b := r3.Add(displaced(mb.b, off), p.position)
			wf.AddCylinder(toView(a), toView(b), mb.radius, renderSegments, '#')
		}
		if t := p.spec.Turbine; t != nil && t.HHub > 0 {
			base := r3.Add(displaced(vec3{}, off), p.position)
			hub := r3.Add(displaced(vec3{Z: t.HHub}, off), p.position)
			wf.AddEdge(toView(base), toView(hub), '|')
			if t.RotorDiameter > 0 {
				r := t.RotorDiameter / 2
				wf.AddEdge(toView(r3.Add(hub, vec3{Y: -r})), toView(r3.Add(hub, vec3{Y: r})), '-')
				wf.AddEdge(toView(r3.Add(hub, vec3{Z: -r})), toView(r3.Add(hub, vec3{Z: r})), '-')
			}
		}
	}

	if !hideGrid {
		lo, hi := wf.Bounds()
		half := 0.6 * math.Max(hi.X-lo.X, hi.Z-lo.Z)
		wf.AddGrid((lo.X+hi.X)/2, (lo.Z+hi.Z)/2, 0, half, gridLines, '.')
	}
	wf.Fit()

	cam := viz.NewCamera()
	cam.RotateX(0.35)
	cam.RotateY(0.6)

	c := viz.NewCanvas(renderWidth, renderHeight)
	viz.Render3D(c, wf, cam)
	return c
}

func (e *Engine) wireframe(hideGrid bool) string {
	c := e.Canvas(hideGrid)
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d platform", e.name, len(e.platforms))
	if len(e.platforms) != 1 {
		b.WriteString("s")
	}
	b.WriteString(")\n")
	b.WriteString(c.String())
	return b.String()
}
