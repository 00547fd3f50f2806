package layout

import (
	"context"
	"errors"
	"io"
	"math"
	"math/rand"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/san-kum/forcegraph/internal/physics"
	"github.com/san-kum/forcegraph/internal/vecmath"
)

type testGraph struct {
	bodies  []*physics.Body
	springs []physics.Spring
}

func (g *testGraph) Bodies() []*physics.Body   { return g.bodies }
func (g *testGraph) Springs() []physics.Spring { return g.springs }

func quietEngine(t *testing.T, p Params) *Engine {
	t.Helper()
	e, err := New(p, WithLogger(log.New(io.Discard)))
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func randomBodies(t *testing.T, n int, seed int64) []*physics.Body {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	bodies := make([]*physics.Body, n)
	for i := range bodies {
		pos := vecmath.Vec3{
			(rng.Float64()*2 - 1) * 200,
			(rng.Float64()*2 - 1) * 200,
			(rng.Float64()*2 - 1) * 200,
		}
		b, err := physics.NewBody("", pos, 0.5+rng.Float64())
		if err != nil {
			t.Fatal(err)
		}
		bodies[i] = b
	}
	return bodies
}

func cloneBodies(src []*physics.Body) []*physics.Body {
	out := make([]*physics.Body, len(src))
	for i, b := range src {
		c := *b
		out[i] = &c
	}
	return out
}

func chain(bodies []*physics.Body) []physics.Spring {
	springs := make([]physics.Spring, 0, len(bodies))
	for i := 1; i < len(bodies); i++ {
		springs = append(springs, physics.Spring{From: bodies[i-1], To: bodies[i], Weight: 1})
	}
	return springs
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		ok     bool
	}{
		{"defaults", func(*Params) {}, true},
		{"zero charge", func(p *Params) { p.Charge = 0 }, true},
		{"attractive charge", func(p *Params) { p.Charge = 50 }, true},
		{"zero theta", func(p *Params) { p.Theta = 0 }, true},
		{"pairwise", func(p *Params) { p.Solver = SolverPairwise }, true},
		{"zero stiffness", func(p *Params) { p.EdgeStiffness = 0 }, false},
		{"negative length", func(p *Params) { p.EdgeLength = -1 }, false},
		{"nan charge", func(p *Params) { p.Charge = math.NaN() }, false},
		{"damping above one", func(p *Params) { p.Damping = 1.5 }, false},
		{"negative theta", func(p *Params) { p.Theta = -0.1 }, false},
		{"zero depth", func(p *Params) { p.MaxDepth = 0 }, false},
		{"zero min distance", func(p *Params) { p.MinDistance = 0 }, false},
		{"no workers", func(p *Params) { p.Workers = 0 }, false},
		{"unknown solver", func(p *Params) { p.Solver = "fmm" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidParams) {
				t.Fatalf("expected ErrInvalidParams, got %v", err)
			}
		})
	}
}

func TestNew_RejectsInvalidParams(t *testing.T) {
	p := DefaultParams()
	p.Damping = -1
	if _, err := New(p); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("expected ErrInvalidParams, got %v", err)
	}
}

func TestBounds_RootRadius(t *testing.T) {
	var b Bounds
	if got := b.RootRadius(rootMargin); got != 1 {
		t.Errorf("empty bounds radius = %v, want 1", got)
	}

	b.Extend(vecmath.Vec3{-10, 2, 3})
	b.Extend(vecmath.Vec3{4, 5, -6})
	if b.Min != (vecmath.Vec3{-10, 2, -6}) || b.Max != (vecmath.Vec3{4, 5, 3}) {
		t.Fatalf("bounds = %v..%v", b.Min, b.Max)
	}
	if got, want := b.RootRadius(rootMargin), 10*rootMargin+1; math.Abs(got-want) > 1e-12 {
		t.Errorf("radius = %v, want %v", got, want)
	}
	if got := b.Size(); got != (vecmath.Vec3{14, 3, 9}) {
		t.Errorf("size = %v", got)
	}
}

func TestEngine_RecordsBoundsAfterStep(t *testing.T) {
	e := quietEngine(t, DefaultParams())
	bodies := randomBodies(t, 50, 1)

	if e.Bounds().Valid {
		t.Fatal("fresh engine has bounds")
	}
	s := e.Step(bodies, nil)
	want := BoundsOf(bodies)
	if e.Bounds() != want || s.Bounds != want {
		t.Fatalf("bounds = %+v, want %+v", e.Bounds(), want)
	}

	e.Reset()
	if e.Bounds().Valid {
		t.Fatal("bounds survived Reset")
	}
}

func TestEngine_ParallelMatchesSerial(t *testing.T) {
	for _, solver := range []Solver{SolverBarnesHut, SolverPairwise} {
		t.Run(string(solver), func(t *testing.T) {
			base := randomBodies(t, 500, 7)
			serial, parallel := cloneBodies(base), cloneBodies(base)

			p := DefaultParams()
			p.Solver = solver
			es := quietEngine(t, p)
			p.Workers = 8
			ep := quietEngine(t, p)

			for step := 0; step < 3; step++ {
				ss := es.Step(serial, chain(serial))
				sp := ep.Step(parallel, chain(parallel))
				if ss.TotalKineticEnergy != sp.TotalKineticEnergy {
					t.Fatalf("step %d: energy %v != %v", step, ss.TotalKineticEnergy, sp.TotalKineticEnergy)
				}
			}
			for i := range serial {
				if serial[i].Position != parallel[i].Position {
					t.Fatalf("body %d: %v != %v", i, serial[i].Position, parallel[i].Position)
				}
			}
		})
	}
}

func TestEngine_BarnesHutMatchesPairwiseAtThetaZero(t *testing.T) {
	base := randomBodies(t, 200, 3)
	bh, pw := cloneBodies(base), cloneBodies(base)

	p := DefaultParams()
	p.Theta = 0
	ebh := quietEngine(t, p)
	p.Solver = SolverPairwise
	epw := quietEngine(t, p)

	ebh.Step(bh, nil)
	epw.Step(pw, nil)

	for i := range bh {
		d := vecmath.Distance(bh[i].Position, pw[i].Position)
		if d > 1e-9*(1+pw[i].Position.Len()) {
			t.Fatalf("body %d differs by %v", i, d)
		}
	}
}

func TestEngine_NodesAddedOutsideBounds(t *testing.T) {
	inner := func() []*physics.Body {
		return []*physics.Body{
			{ID: "a", Position: vecmath.Vec3{-5, 0, 0}, Mass: 1},
			{ID: "b", Position: vecmath.Vec3{5, 1, 0}, Mass: 1},
			{ID: "c", Position: vecmath.Vec3{0, 5, -4}, Mass: 1},
		}
	}
	far := func() []*physics.Body {
		return []*physics.Body{
			{ID: "d", Position: vecmath.Vec3{1000, 1000, 1000}, Mass: 1},
			{ID: "e", Position: vecmath.Vec3{3000, 1200, 1100}, Mass: 1},
			{ID: "f", Position: vecmath.Vec3{1100, 2900, 1300}, Mass: 1},
		}
	}

	p := DefaultParams()
	p.Theta = 0.01
	ebh := quietEngine(t, p)
	p.Solver = SolverPairwise
	epw := quietEngine(t, p)

	bh, pw := inner(), inner()
	ebh.Step(bh, nil)
	epw.Step(pw, nil)

	bh, pw = append(bh, far()...), append(pw, far()...)
	stats := ebh.Step(bh, nil)
	epw.Step(pw, nil)

	if stats.Merged != 0 {
		t.Errorf("merged %d bodies, expected none", stats.Merged)
	}
	for i := range bh {
		d := bh[i].Velocity.Sub(pw[i].Velocity).Len()
		if d > 1e-3*(1e-6+pw[i].Velocity.Len()) {
			t.Errorf("body %s: velocity %v, pairwise %v", bh[i].ID, bh[i].Velocity, pw[i].Velocity)
		}
	}
}

func TestEngine_ZeroForcesAfterStep(t *testing.T) {
	e := quietEngine(t, DefaultParams())
	bodies := randomBodies(t, 20, 5)
	e.Step(bodies, chain(bodies))
	for i, b := range bodies {
		if b.Force != (vecmath.Vec3{}) {
			t.Fatalf("body %d kept force %v", i, b.Force)
		}
	}
}

func TestEngine_SanitizesInvalidBodies(t *testing.T) {
	e := quietEngine(t, DefaultParams())
	bodies := []*physics.Body{
		{ID: "massless", Position: vecmath.Vec3{10, 0, 0}},
		{ID: "lost", Position: vecmath.Vec3{math.NaN(), 0, 0}, Mass: 2},
		{ID: "ok", Position: vecmath.Vec3{-10, 0, 0}, Mass: 1},
		nil,
	}

	s := e.Step(bodies, nil)
	if s.InvalidMass != 1 {
		t.Errorf("InvalidMass = %d, want 1", s.InvalidMass)
	}
	if s.Degenerate < 1 {
		t.Errorf("Degenerate = %d, want at least 1", s.Degenerate)
	}
	if s.Bodies != 3 {
		t.Errorf("Bodies = %d, want 3", s.Bodies)
	}
	if bodies[0].Mass != physics.DefaultMass {
		t.Errorf("mass = %v, want %v", bodies[0].Mass, physics.DefaultMass)
	}
	for _, b := range bodies[:3] {
		if !vecmath.IsFinite(b.Position) || !vecmath.IsFinite(b.Velocity) {
			t.Errorf("%s is not finite: %v", b.ID, b)
		}
	}
}

func TestEngine_CoincidentBodiesStayFinite(t *testing.T) {
	e := quietEngine(t, DefaultParams())
	bodies := make([]*physics.Body, 8)
	for i := range bodies {
		bodies[i] = &physics.Body{Position: vecmath.Vec3{1, 1, 1}, Mass: 1}
	}

	for step := 0; step < 5; step++ {
		s := e.Step(bodies, nil)
		if math.IsNaN(s.TotalKineticEnergy) || math.IsInf(s.TotalKineticEnergy, 0) {
			t.Fatalf("step %d: energy %v", step, s.TotalKineticEnergy)
		}
	}
}

func TestEngine_AuditTree(t *testing.T) {
	p := DefaultParams()
	p.AuditTree = true
	e := quietEngine(t, p)
	s := e.Step(randomBodies(t, 300, 11), nil)
	if s.AggregateDrift > 1e-9 {
		t.Fatalf("aggregate drift %v", s.AggregateDrift)
	}
	if s.TreeNodes < 300 {
		t.Fatalf("tree has %d nodes for 300 bodies", s.TreeNodes)
	}
}

type countMetric struct {
	steps int
}

func (m *countMetric) OnStep(int, Stats) { m.steps++ }
func (m *countMetric) Name() string      { return "steps" }
func (m *countMetric) Value() float64    { return float64(m.steps) }
func (m *countMetric) Reset()            { m.steps = 0 }

func TestRun(t *testing.T) {
	t.Run("runs all steps", func(t *testing.T) {
		e := quietEngine(t, DefaultParams())
		bodies := randomBodies(t, 30, 2)
		m := &countMetric{steps: 99}

		res, err := Run(context.Background(), e, &testGraph{bodies, chain(bodies)}, RunConfig{Steps: 25}, m)
		if err != nil {
			t.Fatal(err)
		}
		if res.StepsTaken != 25 || len(res.History) != 25 {
			t.Fatalf("steps = %d, history = %d", res.StepsTaken, len(res.History))
		}
		if res.Metrics["steps"] != 25 {
			t.Fatalf("metric = %v, want 25", res.Metrics["steps"])
		}
	})

	t.Run("stops when stable", func(t *testing.T) {
		p := DefaultParams()
		p.Charge = 0
		e := quietEngine(t, p)
		bodies := randomBodies(t, 5, 4)

		res, err := Run(context.Background(), e, &testGraph{bodies: bodies},
			RunConfig{Steps: 100, StopWhenStable: true})
		if err != nil {
			t.Fatal(err)
		}
		if res.StepsTaken != 1 || !res.Converged {
			t.Fatalf("steps = %d, converged = %t", res.StepsTaken, res.Converged)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		e := quietEngine(t, DefaultParams())
		res, err := Run(ctx, e, &testGraph{bodies: randomBodies(t, 5, 4)}, RunConfig{Steps: 10})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
		if res.StepsTaken != 0 {
			t.Fatalf("steps = %d after cancel", res.StepsTaken)
		}
	})

	t.Run("empty graph", func(t *testing.T) {
		e := quietEngine(t, DefaultParams())
		if _, err := Run(context.Background(), e, &testGraph{}, RunConfig{Steps: 1}); !errors.Is(err, ErrNoBodies) {
			t.Fatalf("err = %v, want ErrNoBodies", err)
		}
	})
}

func BenchmarkStep(b *testing.B) {
	for name, workers := range map[string]int{"serial": 1, "parallel": 4} {
		b.Run(name, func(b *testing.B) {
			rng := rand.New(rand.NewSource(1))
			bodies := make([]*physics.Body, 2000)
			for i := range bodies {
				bodies[i] = &physics.Body{
					Position: vecmath.Vec3{rng.NormFloat64() * 100, rng.NormFloat64() * 100, rng.NormFloat64() * 100},
					Mass:     1,
				}
			}
			p := DefaultParams()
			p.Workers = workers
			e, _ := New(p, WithLogger(log.New(io.Discard)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				e.Step(bodies, nil)
			}
		})
	}
}
