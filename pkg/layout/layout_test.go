package layout

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/notegraph/pkg/geom"
	"github.com/matzehuels/notegraph/pkg/notegraph"
)

type topo struct {
	n     int
	edges []notegraph.Edge
}

func (t topo) NodeCount() int          { return t.n }
func (t topo) Edges() []notegraph.Edge { return t.edges }

func chain(n int) topo {
	t := topo{n: n}
	for i := 1; i < n; i++ {
		t.edges = append(t.edges, notegraph.Edge{From: i - 1, To: i})
	}
	return t
}

func TestDeterministic(t *testing.T) {
	a := New(chain(6), Params{})
	b := New(chain(6), Params{})
	if !reflect.DeepEqual(a.Positions(), b.Positions()) {
		t.Fatal("initial positions differ")
	}
	dts := []float64{0.055, 0.01, 0.1, 0.055}
	for k := range 200 {
		dt := dts[k%len(dts)]
		a.Step(dt)
		b.Step(dt)
		if !reflect.DeepEqual(a.Positions(), b.Positions()) {
			t.Fatalf("positions diverged at step %d", k)
		}
	}
}

func TestSeedChangesLayout(t *testing.T) {
	a := New(chain(4), Params{Seed: 1})
	b := New(chain(4), Params{Seed: 2})
	if reflect.DeepEqual(a.Positions(), b.Positions()) {
		t.Error("different seeds should give different initial positions")
	}
}

func TestInitialPositionsInsideSpread(t *testing.T) {
	e := New(topo{n: 200}, Params{Spread: 50})
	seen := map[geom.Point]bool{}
	for i, p := range e.Positions() {
		if p.Len() > 50+1e-9 {
			t.Errorf("node %d at %v outside spread", i, p)
		}
		if seen[p] {
			t.Errorf("node %d coincides with an earlier node", i)
		}
		seen[p] = true
	}
}

func TestStepCap(t *testing.T) {
	e := New(chain(3), Params{MaxSteps: 5})
	for range 5 {
		if !e.Step(DefaultDT) {
			t.Fatal("step before cap reported no progress")
		}
	}
	if !e.Converged() || e.Steps() != 5 {
		t.Fatalf("converged=%v steps=%d", e.Converged(), e.Steps())
	}
	before := e.Positions()
	if e.Step(DefaultDT) {
		t.Error("step after cap should be a no-op")
	}
	if !reflect.DeepEqual(before, e.Positions()) {
		t.Error("positions changed after cap")
	}

	e.Resume()
	if e.Converged() || !e.Step(DefaultDT) {
		t.Error("Resume should allow further steps")
	}
}

func TestStepInvalidDT(t *testing.T) {
	e := New(chain(2), Params{})
	for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if e.Step(dt) {
			t.Errorf("Step(%v) advanced", dt)
		}
	}
	if e.Steps() != 0 {
		t.Errorf("steps = %d, want 0", e.Steps())
	}
}

func TestEmptyTopology(t *testing.T) {
	e := New(topo{}, Params{MaxSteps: 3})
	if e.Len() != 0 || len(e.Positions()) != 0 {
		t.Fatal("expected no nodes")
	}
	if err := e.Settle(context.Background(), DefaultDT); err != nil {
		t.Fatal(err)
	}
	if !e.Converged() {
		t.Error("empty layout should still converge")
	}
}

func TestCoincidentNodesSeparate(t *testing.T) {
	e := New(topo{n: 2}, Params{NoGravity: true})
	e.Place(0, geom.Pt(10, 10))
	e.Place(1, geom.Pt(10, 10))
	e.Step(DefaultDT)
	p0, _ := e.Position(0)
	p1, _ := e.Position(1)
	if !p0.IsFinite() || !p1.IsFinite() {
		t.Fatalf("non-finite positions %v %v", p0, p1)
	}
	if p0 == p1 {
		t.Error("coincident nodes were not pushed apart")
	}
}

func TestForcesShapeLayout(t *testing.T) {
	// a-b linked, c unlinked: after settling the linked pair is closer.
	g := topo{n: 3, edges: []notegraph.Edge{{From: 0, To: 1}, {From: 1, To: 0}}}
	e := New(g, Params{})
	if err := e.Settle(context.Background(), DefaultDT); err != nil {
		t.Fatal(err)
	}
	pos := e.Positions()
	for i, p := range pos {
		if !p.IsFinite() {
			t.Fatalf("node %d not finite: %v", i, p)
		}
	}
	ab := pos[0].Dist(pos[1])
	if ab >= pos[0].Dist(pos[2]) || ab >= pos[1].Dist(pos[2]) {
		t.Errorf("linked pair not closest: ab=%.1f ac=%.1f bc=%.1f", ab, pos[0].Dist(pos[2]), pos[1].Dist(pos[2]))
	}
}

func TestSettleCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := New(chain(3), Params{})
	if err := e.Settle(ctx, DefaultDT); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if err := e.Settle(context.Background(), 0); err == nil {
		t.Error("expected error for zero dt")
	}
}

func TestIgnoresSelfAndInvalidEdges(t *testing.T) {
	g := topo{n: 2, edges: []notegraph.Edge{{From: 0, To: 0}, {From: 0, To: 7}, {From: 0, To: 1}}}
	e := New(g, Params{})
	if len(e.edges) != 1 {
		t.Errorf("edges = %v, want one", e.edges)
	}
}

func TestParams(t *testing.T) {
	p := DefaultParams()
	if p.Scale != 200 || p.Cooloff != 0.9 || p.DT != 0.055 || p.MaxSteps != 1000 || p.Seed != 42 {
		t.Errorf("defaults = %+v", p)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}

	bad := []Params{
		{Scale: -1, Cooloff: 0.9, DT: 1, MaxSteps: 1, Spread: 1, MinDistance: 1},
		{Scale: 1, Cooloff: 1.5, DT: 1, MaxSteps: 1, Spread: 1, MinDistance: 1},
		{Scale: 1, Cooloff: 0.9, DT: 0, MaxSteps: 1, Spread: 1, MinDistance: 1},
		{Scale: 1, Cooloff: 0.9, DT: 1, MaxSteps: 0, Spread: 1, MinDistance: 1},
		{Scale: 1, Cooloff: 0.9, DT: 1, MaxSteps: 1, Gravity: -1, Spread: 1, MinDistance: 1},
	}
	for i, b := range bad {
		if err := b.Validate(); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}

	e := New(chain(2), Params{Cooloff: 7})
	if e.Params().Cooloff != DefaultCooloff {
		t.Errorf("invalid params should fall back to defaults, got %+v", e.Params())
	}

	ng := Params{NoGravity: true}
	ng.SetDefaults()
	if ng.Gravity != 0 {
		t.Errorf("NoGravity kept gravity %v", ng.Gravity)
	}
}
