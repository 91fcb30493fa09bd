// Package viewport maps between layout space and screen space and finds the
// node under the pointer.
//
// A [Transform] is computed every frame from the current layout bounds, the
// screen rectangle and the [Viewport] state:
//
//	scale  = min((W-2·pad)/bw, (H-2·pad)/bh) · zoom
//	screen = screenCenter + pan + (p - boundsCenter) · scale
//
// The scale is uniform, so circles stay round, and the layout is centred in
// the padded area before panning. [Transform.ToLayout] is the exact inverse
// of [Transform.ToScreen].
package viewport

import (
	"math"

	"github.com/matzehuels/notegraph/pkg/geom"
)

// Default viewport settings.
const (
	DefaultPadding   = 20.0
	DefaultMinZoom   = 0.1
	DefaultMaxZoom   = 3.0
	DefaultZoomStep  = 1.0 / 30
	DefaultThreshold = 100.0
)

// Bounds returns the axis-aligned bounding box of pts. An empty input, or
// an axis with zero extent, gets extent 1 centred on the points.
func Bounds(pts []geom.Point) geom.Rect {
	if len(pts) == 0 {
		return geom.Rect{X: -0.5, Y: -0.5, W: 1, H: 1}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		if !p.IsFinite() {
			continue
		}
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	if minX > maxX {
		return geom.Rect{X: -0.5, Y: -0.5, W: 1, H: 1}
	}
	r := geom.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
	if r.W <= 0 {
		r.X -= 0.5
		r.W = 1
	}
	if r.H <= 0 {
		r.Y -= 0.5
		r.H = 1
	}
	return r
}

// Viewport is the pan and zoom state changed by user input.
type Viewport struct {
	Zoom    float64
	PanX    float64
	PanY    float64
	Padding float64
	MinZoom float64
	MaxZoom float64
}

// New returns a viewport at zoom 1 with no pan. Non-positive arguments take
// their defaults, and the range is swapped if given backwards.
func New(padding, minZoom, maxZoom float64) *Viewport {
	if padding < 0 {
		padding = DefaultPadding
	}
	if !(minZoom > 0) {
		minZoom = DefaultMinZoom
	}
	if !(maxZoom > 0) {
		maxZoom = DefaultMaxZoom
	}
	if minZoom > maxZoom {
		minZoom, maxZoom = maxZoom, minZoom
	}
	return &Viewport{
		Zoom:    clamp(1, minZoom, maxZoom),
		Padding: padding,
		MinZoom: minZoom,
		MaxZoom: maxZoom,
	}
}

// Default returns a viewport with the default padding and zoom range.
func Default() *Viewport { return New(DefaultPadding, DefaultMinZoom, DefaultMaxZoom) }

// Reset restores zoom 1 and removes any pan.
func (v *Viewport) Reset() {
	v.Zoom = clamp(1, v.MinZoom, v.MaxZoom)
	v.PanX, v.PanY = 0, 0
}

// Pan moves the view by (dx, dy) screen units.
func (v *Viewport) Pan(dx, dy float64) {
	v.PanX += dx
	v.PanY += dy
}

// Transform returns the mapping for the given layout bounds and screen.
func (v *Viewport) Transform(bounds, screen geom.Rect) Transform {
	bw, bh := bounds.W, bounds.H
	if !(bw > 0) {
		bw = 1
	}
	if !(bh > 0) {
		bh = 1
	}
	aw := max(screen.W-2*v.Padding, 1)
	ah := max(screen.H-2*v.Padding, 1)
	return Transform{
		Scale:  min(aw/bw, ah/bh) * v.Zoom,
		Origin: screen.Center().Add(geom.Pt(v.PanX, v.PanY)),
		Center: bounds.Center(),
	}
}

// ZoomAt multiplies the zoom by 1+delta·step, clamped to the zoom range,
// and adjusts the pan so the layout point under cursor stays under cursor
// in t's frame. It reports whether the zoom changed; at a limit, further
// zooming in that direction changes nothing.
func (v *Viewport) ZoomAt(t Transform, cursor geom.Point, delta, step float64) bool {
	old := v.Zoom
	next := clamp(old*(1+delta*step), v.MinZoom, v.MaxZoom)
	if next == old || math.IsNaN(next) {
		return false
	}
	// Origin moves toward the cursor in proportion to the zoom change.
	shift := cursor.Sub(t.Origin).Scale(1 - next/old)
	v.PanX += shift.X
	v.PanY += shift.Y
	v.Zoom = next
	return true
}

// Transform maps layout coordinates to screen coordinates for one frame.
type Transform struct {
	Scale  float64    // Screen units per layout unit
	Origin geom.Point // Screen position of Center
	Center geom.Point // Layout point shown at Origin
}

// ToScreen converts a layout point to screen coordinates.
func (t Transform) ToScreen(p geom.Point) geom.Point {
	return t.Origin.Add(p.Sub(t.Center).Scale(t.Scale))
}

// ToLayout converts a screen point to layout coordinates.
func (t Transform) ToLayout(s geom.Point) geom.Point {
	return s.Sub(t.Origin).Scale(1 / t.Scale).Add(t.Center)
}

// Nearest returns the index of the point in pts closest to the layout
// position under screen point s, if that distance is below threshold
// (in layout units). Ties go to the lower index.
func Nearest(t Transform, pts []geom.Point, s geom.Point, threshold float64) (int, bool) {
	q := t.ToLayout(s)
	best, bestDist := -1, math.Inf(1)
	for i, p := range pts {
		if d := p.Dist(q); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 || !(bestDist < threshold) {
		return -1, false
	}
	return best, true
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
