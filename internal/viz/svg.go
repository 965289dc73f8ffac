package viz

import (
	"fmt"
	"strings"

	"github.com/san-kum/hairsim/internal/boundary"
	"github.com/san-kum/hairsim/internal/strands"
)

// StrandsToSVG draws a side view (XY plane) of the strands as polylines,
// with sphere and capsule boundaries outlined underneath.
func StrandsToSVG(list []strands.Strand, bounds []boundary.Entry, v View, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	span := v.Span
	if span <= 0 {
		span = 1
	}
	s := float64(min(width, height)) / span
	px := func(x, y float64) (float64, float64) {
		return float64(width)/2 + (x-v.CenterX)*s, float64(height)/2 - (y-v.CenterY)*s
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	sb.WriteString(`<g fill="none" stroke="#555555" stroke-width="1">` + "\n")
	for _, e := range bounds {
		switch sh := e.Shape.(type) {
		case boundary.Sphere:
			cx, cy := px(sh.Center.X(), sh.Center.Y())
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", cx, cy, sh.Radius*s)
		case boundary.Capsule:
			ax, ay := px(sh.A.X(), sh.A.Y())
			bx, by := px(sh.B.X(), sh.B.Y())
			fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke-width="%.1f" stroke-linecap="round"/>`+"\n",
				ax, ay, bx, by, 2*sh.Radius*s)
		}
	}
	sb.WriteString("</g>\n")

	sb.WriteString(`<g fill="none" stroke="#00ff00" stroke-width="1.5">` + "\n")
	for _, st := range list {
		if len(st.Position) < 2 {
			continue
		}
		sb.WriteString(`<path d="M`)
		for i, p := range st.Position {
			x, y := px(p.X(), p.Y())
			if i == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString(`"/>` + "\n")
	}
	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}
