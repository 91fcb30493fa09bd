package interact

import (
	"math"

	"github.com/matzehuels/notegraph/pkg/geom"
	"github.com/matzehuels/notegraph/pkg/layout"
	"github.com/matzehuels/notegraph/pkg/notegraph"
	"github.com/matzehuels/notegraph/pkg/viewport"
)

// Default controller settings.
const (
	DefaultHighlightStep = 1.0 / 120
	DefaultPointRadius   = 3.0
	DefaultLabelMinSize  = 8.0
)

// EventKind is the kind of a pointer event.
type EventKind int

const (
	Press EventKind = iota
	Release
	Move
	Scroll
)

// Button identifies a pointer button.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// PointerEvent is a pointer input in screen coordinates. Delta is the
// scroll amount for Scroll events; positive zooms in.
type PointerEvent struct {
	Kind   EventKind
	Button Button
	Pos    geom.Point
	Delta  float64
}

// State is the controller state.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Selection is emitted on every left press. Index is -1 when nothing was
// within reach.
type Selection struct {
	Index int
	Name  string
}

// Hit reports whether the press landed on a node.
func (s Selection) Hit() bool { return s.Index >= 0 }

// Options configures a [Controller]. Zero fields take their defaults.
type Options struct {
	DT            float64 // layout step per tick
	HighlightStep float64 // highlight fraction advance per tick
	ZoomStep      float64 // zoom change per scroll unit
	PickThreshold float64 // layout units
	PointRadius   float64 // screen units at zoom 0
	LabelMinSize  float64 // labels smaller than this are not drawn

	// ResumeOnSelect restarts a converged simulation on every hit.
	ResumeOnSelect bool
	// ClearOnMiss drops the selection when a press hits nothing.
	ClearOnMiss bool
}

// SetDefaults fills zero fields with their defaults.
func (o *Options) SetDefaults() {
	if o.DT == 0 {
		o.DT = layout.DefaultDT
	}
	if o.HighlightStep == 0 {
		o.HighlightStep = DefaultHighlightStep
	}
	if o.ZoomStep == 0 {
		o.ZoomStep = viewport.DefaultZoomStep
	}
	if o.PickThreshold == 0 {
		o.PickThreshold = viewport.DefaultThreshold
	}
	if o.PointRadius == 0 {
		o.PointRadius = DefaultPointRadius
	}
	if o.LabelMinSize == 0 {
		o.LabelMinSize = DefaultLabelMinSize
	}
}

// Controller owns selection and highlight state and routes input to the
// viewport and ticks to the layout engine.
//
// A Controller is not safe for concurrent use; the host serializes events.
type Controller struct {
	graph  *notegraph.Graph
	engine *layout.Engine
	view   *viewport.Viewport
	opts   Options

	screen geom.Rect
	state  State
	anchor geom.Point
	active int
	frac   float64
}

// New creates a controller for g laid out by e and viewed through v.
// A nil v gets the default viewport.
func New(g *notegraph.Graph, e *layout.Engine, v *viewport.Viewport, opts Options) *Controller {
	opts.SetDefaults()
	if v == nil {
		v = viewport.Default()
	}
	return &Controller{graph: g, engine: e, view: v, opts: opts, active: -1}
}

// Graph returns the graph being shown.
func (c *Controller) Graph() *notegraph.Graph { return c.graph }

// Engine returns the layout engine.
func (c *Controller) Engine() *layout.Engine { return c.engine }

// Viewport returns the viewport.
func (c *Controller) Viewport() *viewport.Viewport { return c.view }

// State returns the current state.
func (c *Controller) State() State { return c.state }

// HighlightFraction returns the highlight animation position in [0,1).
func (c *Controller) HighlightFraction() float64 { return c.frac }

// Resize sets the screen rectangle used by picking and drawing.
func (c *Controller) Resize(screen geom.Rect) { c.screen = screen }

// Screen returns the current screen rectangle.
func (c *Controller) Screen() geom.Rect { return c.screen }

// Active returns the selected node.
func (c *Controller) Active() (int, bool) { return c.active, c.active >= 0 }

// Select makes node i active. Out of range indices clear the selection.
func (c *Controller) Select(i int) {
	if i < 0 || i >= c.graph.NodeCount() {
		i = -1
	}
	c.active = i
}

// SelectName makes the node with the given identifier active.
func (c *Controller) SelectName(name string) bool {
	i, ok := c.graph.Lookup(name)
	if ok {
		c.active = i
	}
	return ok
}

// ClearSelection drops the active node.
func (c *Controller) ClearSelection() { c.active = -1 }

// Transform returns the current layout-to-screen mapping, computed from
// fresh bounds.
func (c *Controller) Transform() viewport.Transform {
	return c.view.Transform(viewport.Bounds(c.engine.Positions()), c.screen)
}

// Handle processes one pointer event. It returns the selection and true
// when the event was a left press taken while idle.
func (c *Controller) Handle(ev PointerEvent) (Selection, bool) {
	switch ev.Kind {
	case Press:
		if ev.Button != ButtonLeft || c.state != Idle {
			return Selection{}, false
		}
		sel := c.pick(ev.Pos)
		c.state = Dragging
		c.anchor = ev.Pos
		return sel, true

	case Move:
		if c.state == Dragging {
			d := ev.Pos.Sub(c.anchor)
			c.view.Pan(d.X, d.Y)
			c.anchor = ev.Pos
		}

	case Release:
		if ev.Button == ButtonLeft {
			c.state = Idle
		}

	case Scroll:
		if ev.Delta != 0 {
			c.view.ZoomAt(c.Transform(), ev.Pos, ev.Delta, c.opts.ZoomStep)
		}
	}
	return Selection{}, false
}

func (c *Controller) pick(s geom.Point) Selection {
	pts := c.engine.Positions()
	t := c.view.Transform(viewport.Bounds(pts), c.screen)
	i, ok := viewport.Nearest(t, pts, s, c.opts.PickThreshold)
	if !ok {
		if c.opts.ClearOnMiss {
			c.active = -1
		}
		return Selection{Index: -1}
	}
	c.active = i
	if c.opts.ResumeOnSelect {
		c.engine.Resume()
	}
	return Selection{Index: i, Name: c.graph.Name(i)}
}

// Zoom zooms about the screen centre; used for keyboard input.
func (c *Controller) Zoom(delta float64) bool {
	return c.view.ZoomAt(c.Transform(), c.screen.Center(), delta, c.opts.ZoomStep)
}

// Tick advances the layout one step and the highlight fraction by one
// increment. It reports whether the layout moved.
func (c *Controller) Tick() bool {
	moved := c.engine.Step(c.opts.DT)
	c.frac = math.Mod(c.frac+c.opts.HighlightStep, 1)
	return moved
}

// Replace swaps in a rebuilt graph and engine. The viewport is kept and the
// selection follows the active note by name when it still exists. Nodes
// present in both graphs keep their positions.
func (c *Controller) Replace(g *notegraph.Graph, e *layout.Engine) {
	name := ""
	if c.active >= 0 {
		name = c.graph.Name(c.active)
	}
	old := c.engine.Positions()
	for i, n := range c.graph.Nodes() {
		if j, ok := g.Lookup(n.Name); ok && i < len(old) {
			e.Place(j, old[i])
		}
	}
	c.graph, c.engine = g, e
	c.active = -1
	if name != "" {
		c.SelectName(name)
	}
}

// NodeRadius returns the on-screen node radius at the current zoom.
func (c *Controller) NodeRadius() float64 {
	return c.opts.PointRadius * (0.9 + 0.1*c.view.Zoom)
}

// MarkerRadius returns the on-screen marker radius at the current zoom.
func (c *Controller) MarkerRadius() float64 {
	return c.opts.PointRadius * (0.6 + 0.1*c.view.Zoom)
}

// LabelSize returns the label size at the current zoom.
func (c *Controller) LabelSize() float64 {
	return 1.5 * c.opts.PointRadius * c.view.Zoom
}

// Frame returns the drawables for the current state. Labels are emitted
// when the label size exceeds LabelMinSize; the active node is labelled
// regardless.
func (c *Controller) Frame() Scene {
	pts := c.engine.Positions()
	t := c.view.Transform(viewport.Bounds(pts), c.screen)
	screen := make([]geom.Point, len(pts))
	for i, p := range pts {
		screen[i] = t.ToScreen(p)
	}

	edges := c.graph.Edges()
	scene := Scene{
		Screen:  c.screen,
		Lines:   make([]Line, 0, len(edges)),
		Circles: make([]Circle, 0, len(pts)),
	}

	for _, e := range edges {
		role := Muted
		if c.active >= 0 && e.Touches(c.active) {
			role = Highlight
		}
		scene.Lines = append(scene.Lines, Line{From: screen[e.From], To: screen[e.To], Color: role})
	}

	r := c.NodeRadius()
	size := c.LabelSize()
	for i, p := range screen {
		role := Muted
		if i == c.active || (c.active >= 0 && c.graph.IsNeighbor(c.active, i)) {
			role = Highlight
		}
		scene.Circles = append(scene.Circles, Circle{Center: p, Radius: r, Color: role, Node: i})
		if size > c.opts.LabelMinSize || i == c.active {
			scene.Labels = append(scene.Labels, Label{
				Pos:   p.Add(geom.Pt(r*1.5, -r)),
				Size:  size,
				Text:  c.graph.Name(i),
				Color: role,
			})
		}
	}

	if c.active >= 0 {
		mr := c.MarkerRadius()
		for _, e := range edges {
			if !e.Touches(c.active) {
				continue
			}
			// Markers travel away from the active node.
			from, to := screen[c.active], screen[e.Other(c.active)]
			scene.Circles = append(scene.Circles, Circle{
				Center: from.Lerp(to, c.frac),
				Radius: mr,
				Color:  Marker,
				Node:   -1,
			})
		}
	}
	return scene
}
