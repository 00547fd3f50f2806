package octree

import (
	"math"

	"github.com/san-kum/forcegraph/internal/vecmath"
)

type aggregate struct {
	mass     float64
	weighted vecmath.Vec3
}

// recompute derives every node's aggregate from its leaves. Children are
// always allocated after their parent, so a reverse sweep visits children
// first.
func (t *Tree) recompute() []aggregate {
	agg := make([]aggregate, len(t.nodes))
	for i := len(t.nodes) - 1; i >= 0; i-- {
		n := &t.nodes[i]
		var a aggregate
		if n.Internal {
			for _, c := range n.children {
				if c != 0 {
					a.mass += agg[c].mass
					a.weighted = a.weighted.Add(agg[c].weighted)
				}
			}
		} else {
			for _, bi := range n.Members() {
				b := t.bodies[bi]
				a.mass += b.Mass
				a.weighted = a.weighted.Add(b.Position.Mul(b.Mass))
			}
		}
		agg[i] = a
	}
	return agg
}

// Audit compares the incrementally accumulated aggregates with a bottom-up
// recomputation and returns the largest relative difference over all nodes
// (mass and weighted sum alike).
func (t *Tree) Audit() float64 {
	agg := t.recompute()
	worst := 0.0
	for i := range t.nodes {
		n := &t.nodes[i]
		dm := math.Abs(n.mass-agg[i].mass) / math.Max(1, math.Abs(agg[i].mass))
		dw := n.weighted.Sub(agg[i].weighted).Len() / math.Max(1, agg[i].weighted.Len())
		worst = math.Max(worst, math.Max(dm, dw))
	}
	return worst
}
