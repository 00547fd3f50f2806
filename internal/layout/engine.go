package layout

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/forcegraph/internal/octree"
	"github.com/san-kum/forcegraph/internal/physics"
	"github.com/san-kum/forcegraph/internal/vecmath"
)

// minParallelBodies keeps small frames on the calling goroutine.
const minParallelBodies = 64

// Graph supplies the bodies and springs of one frame. Mutation happens
// between steps, never during one.
type Graph interface {
	Bodies() []*physics.Body
	Springs() []physics.Spring
}

type Engine struct {
	params Params
	bounds Bounds
	logger *log.Logger
}

type Option func(*Engine)

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func New(params Params, opts ...Option) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{params: params, logger: log.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) Params() Params { return e.params }

func (e *Engine) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	e.params = p
	return nil
}

// Bounds returns the extent recorded at the end of the last step; the next
// step sizes its octree from it.
func (e *Engine) Bounds() Bounds { return e.bounds }

// Reset forgets the recorded bounds, e.g. after the graph was replaced.
func (e *Engine) Reset() { e.bounds = Bounds{} }

func (e *Engine) StepGraph(g Graph) Stats {
	return e.Step(g.Bodies(), g.Springs())
}

// Step advances every body by one frame and returns the frame's stats.
// Nil bodies are skipped, as are springs with a nil endpoint.
func (e *Engine) Step(bodies []*physics.Body, springs []physics.Spring) Stats {
	start := time.Now()
	p := e.params
	stats := Stats{Springs: len(springs)}

	for _, b := range bodies {
		if b == nil {
			continue
		}
		stats.Bodies++
		e.sanitize(b, &stats)
		b.ResetForce()
	}

	for _, s := range springs {
		if s.From == nil || s.To == nil {
			continue
		}
		physics.ApplySpring(s, p.EdgeStiffness, p.EdgeLength)
	}

	// Nodes added since the last step may lie outside the recorded bounds.
	for _, b := range bodies {
		if b != nil {
			e.bounds.Extend(b.Position)
		}
	}
	e.repel(bodies, &stats)

	var next Bounds
	for _, b := range bodies {
		if b == nil {
			continue
		}
		b.Acceleration = b.Force.Mul(1 / b.Mass)
		v := b.Velocity.Add(b.Acceleration).Mul(p.Damping)
		if !vecmath.IsFinite(v) {
			v = vecmath.Vec3{}
			stats.Degenerate++
		}
		b.Velocity = v
		b.Position = b.Position.Add(v)
		b.ResetForce()

		next.Extend(b.Position)
		stats.TotalKineticEnergy += b.KineticEnergy()
	}

	e.bounds = next
	stats.Bounds = next
	stats.Stable = stats.TotalKineticEnergy < p.StableEnergyThreshold
	stats.Elapsed = time.Since(start)

	e.report(stats)
	return stats
}

// sanitize repairs state that would poison the whole frame: a non-positive
// mass is reset to the default, a non-finite position or velocity to zero.
func (e *Engine) sanitize(b *physics.Body, stats *Stats) {
	if err := b.SetMass(b.Mass); err != nil {
		e.logger.Warn("resetting body mass", "body", b.ID, "err", err)
		b.Mass = physics.DefaultMass
		stats.InvalidMass++
	}
	if !vecmath.IsFinite(b.Position) || !vecmath.IsFinite(b.Velocity) {
		e.logger.Warn("resetting non-finite body", "body", b.ID, "err", physics.ErrNumericDegeneracy)
		b.Position = vecmath.Vec3{}
		b.Velocity = vecmath.Vec3{}
		stats.Degenerate++
	}
}

func (e *Engine) repel(bodies []*physics.Body, stats *Stats) {
	p := e.params
	if p.Charge == 0 {
		return
	}

	var degenerate atomic.Int64

	if p.Solver == SolverPairwise {
		parallelFor(len(bodies), p.Workers, minParallelBodies, func(start, end int) {
			local := 0
			for i := start; i < end; i++ {
				if bodies[i] == nil {
					continue
				}
				f, d := octree.PairwiseForce(bodies, i, p.Charge, p.MinDistance)
				bodies[i].AddForce(f)
				local += d
			}
			degenerate.Add(int64(local))
		})
		stats.Degenerate += int(degenerate.Load())
		return
	}

	radius := e.bounds.RootRadius(rootMargin)
	tree := octree.Build(bodies, vecmath.Zero, radius, octree.WithMaxDepth(p.MaxDepth))
	stats.TreeNodes = tree.Len()
	stats.TreeDepth = tree.MaxDepth()
	stats.Merged = tree.Merged()
	if p.AuditTree {
		stats.AggregateDrift = tree.Audit()
	}

	parallelFor(len(bodies), p.Workers, minParallelBodies, func(start, end int) {
		w := octree.NewWalker(tree, p.Theta, p.Charge, p.MinDistance)
		for i := start; i < end; i++ {
			if bodies[i] == nil {
				continue
			}
			bodies[i].AddForce(w.Force(i))
		}
		degenerate.Add(int64(w.Degenerate))
	})
	stats.Degenerate += int(degenerate.Load())
}

func (e *Engine) report(s Stats) {
	if s.Degenerate > 0 {
		e.logger.Debug("clamped degenerate interactions", "err", physics.ErrNumericDegeneracy, "count", s.Degenerate)
	}
	if s.Merged > 0 {
		e.logger.Debug("merged bodies at depth cap", "err", physics.ErrSpatialIndexOverflow,
			"count", s.Merged, "max_depth", e.params.MaxDepth)
	}
	if e.params.AuditTree && s.AggregateDrift > 1e-9 {
		e.logger.Warn("octree aggregates drifted", "drift", fmt.Sprintf("%.3g", s.AggregateDrift))
	}
}
