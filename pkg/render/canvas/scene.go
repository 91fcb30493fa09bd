package canvas

import (
	"math"

	"github.com/matzehuels/notegraph/pkg/interact"
)

// Draw rasterizes scene onto c. Scene coordinates are taken as dot
// coordinates, so the scene's screen should be c.Width()×c.Height().
// Colours are palette roles blended against the background, since a
// terminal cell has no transparency.
//
// Muted lines are drawn before highlighted ones so a shared cell shows the
// highlight colour.
func (c *Canvas) Draw(scene interact.Scene, pal interact.Palette) {
	colors := map[interact.Role]string{
		interact.Muted:     pal.Blend(interact.Muted),
		interact.Highlight: pal.Blend(interact.Highlight),
		interact.Marker:    pal.Blend(interact.Marker),
	}

	for _, pass := range []bool{false, true} {
		for _, l := range scene.Lines {
			if (l.Color != interact.Muted) == pass {
				c.Line(l.From.X, l.From.Y, l.To.X, l.To.Y, colors[l.Color])
			}
		}
	}
	for _, circ := range scene.Circles {
		c.Disc(circ.Center.X, circ.Center.Y, circ.Radius, colors[circ.Color])
	}
	for _, l := range scene.Labels {
		if !finite(l.Pos.X) || !finite(l.Pos.Y) {
			continue
		}
		col := int(math.Floor(l.Pos.X / 2))
		row := int(math.Floor(l.Pos.Y / 4))
		c.Text(col, row, l.Text, colors[l.Color])
	}
}
