package viewport

import (
	"math"
	"testing"

	"github.com/matzehuels/notegraph/pkg/geom"
)

func near(a, b geom.Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestBounds(t *testing.T) {
	tests := []struct {
		name string
		pts  []geom.Point
		want geom.Rect
	}{
		{"empty", nil, geom.Rect{X: -0.5, Y: -0.5, W: 1, H: 1}},
		{"single", []geom.Point{{X: 3, Y: 4}}, geom.Rect{X: 2.5, Y: 3.5, W: 1, H: 1}},
		{"horizontal", []geom.Point{{X: 0, Y: 2}, {X: 10, Y: 2}}, geom.Rect{X: 0, Y: 1.5, W: 10, H: 1}},
		{"box", []geom.Point{{X: -5, Y: 1}, {X: 5, Y: -3}, {X: 0, Y: 7}}, geom.Rect{X: -5, Y: -3, W: 10, H: 10}},
		{"ignores NaN", []geom.Point{{X: math.NaN(), Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 3}}, geom.Rect{X: 1, Y: 1, W: 1, H: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Bounds(tt.pts); got != tt.want {
				t.Errorf("Bounds = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTransformRoundTrip(t *testing.T) {
	v := Default()
	v.Zoom = 1.7
	v.Pan(13, -8)
	bounds := geom.Rect{X: -100, Y: -50, W: 300, H: 120}
	tr := v.Transform(bounds, geom.Rect{W: 800, H: 600})

	for _, p := range []geom.Point{{X: 0, Y: 0}, {X: -100, Y: 70}, {X: 42.5, Y: -13.25}} {
		if got := tr.ToLayout(tr.ToScreen(p)); !near(got, p) {
			t.Errorf("round trip %v -> %v", p, got)
		}
	}
}

func TestTransformFitsAndCentres(t *testing.T) {
	v := Default()
	screen := geom.Rect{W: 840, H: 440}
	bounds := geom.Rect{X: 0, Y: 0, W: 200, H: 100}
	tr := v.Transform(bounds, screen)

	// Available area is 800x400: both axes give scale 4.
	if tr.Scale != 4 {
		t.Fatalf("scale = %v, want 4", tr.Scale)
	}
	if got := tr.ToScreen(bounds.Center()); !near(got, screen.Center()) {
		t.Errorf("bounds centre maps to %v, want %v", got, screen.Center())
	}
	if got := tr.ToScreen(geom.Pt(0, 0)); !near(got, geom.Pt(20, 20)) {
		t.Errorf("top-left maps to %v, want padding corner", got)
	}

	// Uniform: a tall screen is limited by width.
	tall := v.Transform(bounds, geom.Rect{W: 240, H: 1000})
	if tall.Scale != 1 {
		t.Errorf("tall scale = %v, want 1", tall.Scale)
	}
}

func TestTransformDegenerate(t *testing.T) {
	v := Default()
	tr := v.Transform(geom.Rect{X: 5, Y: 5}, geom.Rect{W: 10, H: 10})
	if !(tr.Scale > 0) || math.IsInf(tr.Scale, 0) {
		t.Fatalf("scale = %v", tr.Scale)
	}
	p := tr.ToLayout(geom.Pt(3, 7))
	if !p.IsFinite() {
		t.Errorf("ToLayout gave %v", p)
	}
}

func TestNearest(t *testing.T) {
	v := Default()
	pts := []geom.Point{{X: 0, Y: 0}, {X: 300, Y: 0}, {X: 0, Y: 300}}
	tr := v.Transform(Bounds(pts), geom.Rect{W: 640, H: 640})

	for i, p := range pts {
		got, ok := Nearest(tr, pts, tr.ToScreen(p), DefaultThreshold)
		if !ok || got != i {
			t.Errorf("exact hit on %d: got %d, %v", i, got, ok)
		}
	}

	// 60 layout units away from node 1: inside the threshold.
	if got, ok := Nearest(tr, pts, tr.ToScreen(geom.Pt(300, 60)), DefaultThreshold); !ok || got != 1 {
		t.Errorf("near hit: got %d, %v", got, ok)
	}
	// Centre of the triangle is over 100 units from every node.
	if got, ok := Nearest(tr, pts, tr.ToScreen(geom.Pt(150, 150)), DefaultThreshold); ok {
		t.Errorf("miss returned %d", got)
	}
	if _, ok := Nearest(tr, nil, geom.Pt(0, 0), DefaultThreshold); ok {
		t.Error("empty input should miss")
	}
}

func TestNearestNeverExceedsThreshold(t *testing.T) {
	v := Default()
	pts := []geom.Point{{X: -40, Y: 10}, {X: 25, Y: 90}, {X: 60, Y: -75}}
	tr := v.Transform(Bounds(pts), geom.Rect{W: 300, H: 200})
	for x := 0.0; x <= 300; x += 7 {
		for y := 0.0; y <= 200; y += 7 {
			s := geom.Pt(x, y)
			if i, ok := Nearest(tr, pts, s, 30); ok && pts[i].Dist(tr.ToLayout(s)) >= 30 {
				t.Fatalf("picked %d at distance %v", i, pts[i].Dist(tr.ToLayout(s)))
			}
		}
	}
}

func TestZoomClamp(t *testing.T) {
	v := Default()
	screen := geom.Rect{W: 400, H: 400}
	bounds := geom.Rect{W: 100, H: 100}
	cursor := geom.Pt(200, 200)

	for range 200 {
		v.ZoomAt(v.Transform(bounds, screen), cursor, 3, DefaultZoomStep)
	}
	if v.Zoom != DefaultMaxZoom {
		t.Fatalf("zoom = %v, want %v", v.Zoom, DefaultMaxZoom)
	}
	pan := geom.Pt(v.PanX, v.PanY)
	if v.ZoomAt(v.Transform(bounds, screen), geom.Pt(10, 10), 3, DefaultZoomStep) {
		t.Error("zoom past the cap reported a change")
	}
	if v.Zoom != DefaultMaxZoom || geom.Pt(v.PanX, v.PanY) != pan {
		t.Error("zoom past the cap changed state")
	}

	for range 500 {
		v.ZoomAt(v.Transform(bounds, screen), cursor, -3, DefaultZoomStep)
	}
	if v.Zoom != DefaultMinZoom {
		t.Errorf("zoom = %v, want %v", v.Zoom, DefaultMinZoom)
	}
	v.ZoomAt(v.Transform(bounds, screen), cursor, -1000, DefaultZoomStep)
	if v.Zoom != DefaultMinZoom {
		t.Errorf("huge negative delta: zoom = %v", v.Zoom)
	}
}

func TestZoomAnchorsCursor(t *testing.T) {
	v := Default()
	v.Pan(-30, 12)
	screen := geom.Rect{W: 800, H: 600}
	bounds := geom.Rect{X: -200, Y: -150, W: 400, H: 300}
	cursor := geom.Pt(610, 95)

	for _, delta := range []float64{3, 3, -3, 1, -6, 2} {
		before := v.Transform(bounds, screen)
		under := before.ToLayout(cursor)
		if !v.ZoomAt(before, cursor, delta, DefaultZoomStep) {
			t.Fatalf("zoom by %v did not change", delta)
		}
		after := v.Transform(bounds, screen)
		if got := after.ToScreen(under); !near(got, cursor) {
			t.Errorf("delta %v: anchored point moved to %v, want %v", delta, got, cursor)
		}
	}
}

func TestPanAndReset(t *testing.T) {
	v := Default()
	bounds := geom.Rect{W: 10, H: 10}
	screen := geom.Rect{W: 100, H: 100}
	p := geom.Pt(5, 5)
	before := v.Transform(bounds, screen).ToScreen(p)
	v.Pan(7, -3)
	after := v.Transform(bounds, screen).ToScreen(p)
	if !near(after.Sub(before), geom.Pt(7, -3)) {
		t.Errorf("pan moved point by %v", after.Sub(before))
	}
	v.Zoom = 2.5
	v.Reset()
	if v.Zoom != 1 || v.PanX != 0 || v.PanY != 0 {
		t.Errorf("after reset: %+v", v)
	}
}

func TestNewNormalizes(t *testing.T) {
	v := New(-1, 5, 0.5)
	if v.Padding != DefaultPadding || v.MinZoom != 0.5 || v.MaxZoom != 5 || v.Zoom != 1 {
		t.Errorf("New = %+v", v)
	}
	w := New(0, 2, 4)
	if w.Zoom != 2 {
		t.Errorf("zoom should start inside range, got %v", w.Zoom)
	}
}
