// Package layout runs the force-directed simulation that places notes.
//
// Every pair of nodes repels with force scale²/d, every edge pulls its two
// endpoints together with force d²/scale, and an optional gravity term draws
// everything toward the origin. Edges are treated as undirected springs.
// Each [Engine.Step] computes all forces from a snapshot of the current
// positions and then integrates:
//
//	v = (v + F·dt) · cooloff
//	p = p + v·dt
//
// The engine counts steps and stops after [Params.MaxSteps]; from then on
// Step is a no-op and the layout is considered converged.
//
// Results are deterministic: two engines built from the same topology and
// parameters, fed the same sequence of dt values, produce identical
// positions.
package layout

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/matzehuels/notegraph/pkg/geom"
	"github.com/matzehuels/notegraph/pkg/notegraph"
)

// Default simulation parameters.
const (
	DefaultScale       = 200.0
	DefaultCooloff     = 0.9
	DefaultDT          = 0.055
	DefaultMaxSteps    = 1000
	DefaultGravity     = 0.1
	DefaultSpread      = 200.0
	DefaultMinDistance = 1.0
	DefaultSeed        = uint64(42)
)

// Topology is the part of a graph the engine needs.
type Topology interface {
	NodeCount() int
	Edges() []notegraph.Edge
}

// Params configures an [Engine]. Zero fields take their defaults in
// [Params.SetDefaults].
type Params struct {
	Scale       float64 `json:"scale" yaml:"scale" toml:"scale"`
	Cooloff     float64 `json:"cooloff" yaml:"cooloff" toml:"cooloff"`
	DT          float64 `json:"dt" yaml:"dt" toml:"dt"`
	MaxSteps    int     `json:"max_steps" yaml:"max_steps" toml:"max_steps"`
	Gravity     float64 `json:"gravity" yaml:"gravity" toml:"gravity"`
	Spread      float64 `json:"spread" yaml:"spread" toml:"spread"`
	MinDistance float64 `json:"min_distance" yaml:"min_distance" toml:"min_distance"`
	Seed        uint64  `json:"seed" yaml:"seed" toml:"seed"`

	// NoGravity disables the centre pull even though Gravity is zero and
	// would otherwise be defaulted.
	NoGravity bool `json:"no_gravity" yaml:"no_gravity" toml:"no_gravity"`
}

// DefaultParams returns the parameters used when none are configured.
func DefaultParams() Params {
	var p Params
	p.SetDefaults()
	return p
}

// SetDefaults fills zero fields with their default values.
func (p *Params) SetDefaults() {
	if p.Scale == 0 {
		p.Scale = DefaultScale
	}
	if p.Cooloff == 0 {
		p.Cooloff = DefaultCooloff
	}
	if p.DT == 0 {
		p.DT = DefaultDT
	}
	if p.MaxSteps == 0 {
		p.MaxSteps = DefaultMaxSteps
	}
	if p.Gravity == 0 && !p.NoGravity {
		p.Gravity = DefaultGravity
	}
	if p.Spread == 0 {
		p.Spread = DefaultSpread
	}
	if p.MinDistance == 0 {
		p.MinDistance = DefaultMinDistance
	}
	if p.Seed == 0 {
		p.Seed = DefaultSeed
	}
}

// Validate checks that the parameters describe a stable simulation.
func (p Params) Validate() error {
	switch {
	case !(p.Scale > 0):
		return fmt.Errorf("scale must be positive, got %v", p.Scale)
	case !(p.Cooloff > 0 && p.Cooloff <= 1):
		return fmt.Errorf("cooloff must be in (0, 1], got %v", p.Cooloff)
	case !(p.DT > 0):
		return fmt.Errorf("dt must be positive, got %v", p.DT)
	case p.MaxSteps < 1:
		return fmt.Errorf("max_steps must be at least 1, got %d", p.MaxSteps)
	case p.Gravity < 0 || math.IsNaN(p.Gravity):
		return fmt.Errorf("gravity must not be negative, got %v", p.Gravity)
	case !(p.Spread > 0):
		return fmt.Errorf("spread must be positive, got %v", p.Spread)
	case !(p.MinDistance > 0):
		return fmt.Errorf("min_distance must be positive, got %v", p.MinDistance)
	}
	return nil
}

// Engine owns node positions and velocities and advances them one tick at
// a time. Node i of the topology is entry i of every table.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	params Params
	edges  [][2]int
	pos    []geom.Point
	vel    []geom.Point
	force  []geom.Point
	snap   []geom.Point
	steps  int
}

// New creates an engine for g with seeded initial positions inside a disc
// of radius p.Spread. Zero fields of p take their defaults; invalid values
// are replaced by defaults too.
func New(g Topology, p Params) *Engine {
	p.SetDefaults()
	if p.Validate() != nil {
		seed := p.Seed
		p = DefaultParams()
		p.Seed = seed
	}

	n := g.NodeCount()
	es := g.Edges()
	e := &Engine{
		params: p,
		edges:  make([][2]int, 0, len(es)),
		pos:    initialPositions(n, p.Spread, p.Seed),
		vel:    make([]geom.Point, n),
		force:  make([]geom.Point, n),
		snap:   make([]geom.Point, n),
	}
	for _, ed := range es {
		if ed.From == ed.To || ed.From < 0 || ed.To < 0 || ed.From >= n || ed.To >= n {
			continue
		}
		e.edges = append(e.edges, [2]int{ed.From, ed.To})
	}
	return e
}

// initialPositions samples n distinct points uniformly from a disc.
func initialPositions(n int, radius float64, seed uint64) []geom.Point {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	pts := make([]geom.Point, n)
	seen := make(map[geom.Point]bool, n)
	for i := range pts {
		for {
			r := radius * math.Sqrt(rng.Float64())
			theta := 2 * math.Pi * rng.Float64()
			p := geom.Pt(r*math.Cos(theta), r*math.Sin(theta))
			if !seen[p] {
				seen[p] = true
				pts[i] = p
				break
			}
		}
	}
	return pts
}

// Params returns the effective parameters.
func (e *Engine) Params() Params { return e.params }

// Len returns the number of nodes.
func (e *Engine) Len() int { return len(e.pos) }

// Steps returns the number of steps that advanced the simulation since
// creation or the last [Engine.Resume].
func (e *Engine) Steps() int { return e.steps }

// Converged reports whether the step cap has been reached.
func (e *Engine) Converged() bool { return e.steps >= e.params.MaxSteps }

// Resume resets the step counter so the simulation runs for another
// MaxSteps steps. Velocities are kept.
func (e *Engine) Resume() { e.steps = 0 }

// Positions returns a copy of all node positions.
func (e *Engine) Positions() []geom.Point {
	out := make([]geom.Point, len(e.pos))
	copy(out, e.pos)
	return out
}

// Position returns the position of node i.
func (e *Engine) Position(i int) (geom.Point, bool) {
	if i < 0 || i >= len(e.pos) {
		return geom.Point{}, false
	}
	return e.pos[i], true
}

// Place moves node i to p and zeroes its velocity. Used to carry positions
// across a rebuild. Returns false if i is out of range or p is not finite.
func (e *Engine) Place(i int, p geom.Point) bool {
	if i < 0 || i >= len(e.pos) || !p.IsFinite() {
		return false
	}
	e.pos[i] = p
	e.vel[i] = geom.Point{}
	return true
}

// KineticEnergy returns the sum of squared speeds, a rough measure of how
// far the layout is from rest.
func (e *Engine) KineticEnergy() float64 {
	var sum float64
	for _, v := range e.vel {
		sum += v.X*v.X + v.Y*v.Y
	}
	return sum
}

// Step advances the simulation by dt and reports whether it moved.
// It is a no-op returning false once converged, or when dt is not a
// positive finite number.
func (e *Engine) Step(dt float64) bool {
	if e.Converged() || !(dt > 0) || math.IsInf(dt, 1) {
		return false
	}
	e.steps++
	if len(e.pos) == 0 {
		return true
	}

	copy(e.snap, e.pos)
	clear(e.force)
	e.repel()
	e.attract()
	e.gravitate()

	cool := e.params.Cooloff
	for i := range e.pos {
		v := e.vel[i].Add(e.force[i].Scale(dt)).Scale(cool)
		if !v.IsFinite() {
			v = geom.Point{}
		}
		e.vel[i] = v
		e.pos[i] = e.snap[i].Add(v.Scale(dt))
	}
	return true
}

// Settle steps the simulation with dt until it converges or ctx is done.
func (e *Engine) Settle(ctx context.Context, dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 1) {
		return fmt.Errorf("settle: invalid dt %v", dt)
	}
	for !e.Converged() {
		if e.steps%64 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		e.Step(dt)
	}
	return nil
}

// separation returns the unit vector from b to a and their distance, with
// the distance clamped to MinDistance. Coincident points get a direction
// derived from the pair indices so the result stays deterministic.
func (e *Engine) separation(i, j int) (geom.Point, float64) {
	d := e.snap[i].Sub(e.snap[j])
	dist := d.Len()
	if dist < 1e-9 {
		lo, hi := min(i, j), max(i, j)
		theta := float64(lo)*2.399963229728653 + float64(hi)*0.6180339887498949
		u := geom.Pt(math.Cos(theta), math.Sin(theta))
		if i > j {
			u = u.Scale(-1)
		}
		return u, e.params.MinDistance
	}
	u := d.Scale(1 / dist)
	return u, max(dist, e.params.MinDistance)
}

func (e *Engine) repel() {
	k2 := e.params.Scale * e.params.Scale
	for i := range e.snap {
		for j := i + 1; j < len(e.snap); j++ {
			u, d := e.separation(i, j)
			f := u.Scale(k2 / d)
			e.force[i] = e.force[i].Add(f)
			e.force[j] = e.force[j].Sub(f)
		}
	}
}

func (e *Engine) attract() {
	k := e.params.Scale
	for _, ed := range e.edges {
		i, j := ed[0], ed[1]
		u, d := e.separation(i, j)
		f := u.Scale(d * d / k)
		e.force[i] = e.force[i].Sub(f)
		e.force[j] = e.force[j].Add(f)
	}
}

func (e *Engine) gravitate() {
	g := e.params.Gravity
	if g == 0 {
		return
	}
	for i, p := range e.snap {
		e.force[i] = e.force[i].Sub(p.Scale(g))
	}
}
