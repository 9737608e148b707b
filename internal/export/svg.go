package export

import (
	"fmt"
	"io"

	"github.com/san-kum/floatsim/internal/viz"
)

// SVG colours used by CanvasToSVG.
const (
	SVGBackground = "#0a0a0a"
	SVGForeground = "#00d7ff"
)

// CanvasToSVG draws every lit braille dot of canvas as a circle, scale user
// units apart.
func CanvasToSVG(w io.Writer, canvas *viz.Canvas, scale float64) error {
	if canvas == nil {
		return fmt.Errorf("export: nil canvas")
	}
	dx, dy := canvas.Dots()
	width := float64(dx) * scale
	height := float64(dy) * scale

	_, err := fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, width, height, width, height, SVGBackground, SVGForeground)
	if err != nil {
		return err
	}

	r := scale * 0.4
	for y := 0; y < dy; y++ {
		for x := 0; x < dx; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			if _, err := fmt.Fprintf(w, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, r); err != nil {
				return err
			}
		}
	}

	_, err = io.WriteString(w, "</g>\n</svg>\n")
	return err
}
