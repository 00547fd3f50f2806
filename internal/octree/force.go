package octree

import (
	"github.com/san-kum/forcegraph/internal/physics"
	"github.com/san-kum/forcegraph/internal/vecmath"
)

const DefaultMinDistance = 0.01

// Walker accumulates Barnes-Hut forces over a shared, read-only tree. A
// Walker is not safe for concurrent use; give each goroutine its own.
type Walker struct {
	tree        *Tree
	theta       float64
	charge      float64
	minDistance float64

	stack []int32
	path  []int32

	// Degenerate counts interactions whose distance was clamped or zero.
	Degenerate int
}

func NewWalker(t *Tree, theta, charge, minDistance float64) *Walker {
	if minDistance <= 0 {
		minDistance = DefaultMinDistance
	}
	return &Walker{
		tree:        t,
		theta:       theta,
		charge:      charge,
		minDistance: minDistance,
		stack:       make([]int32, 0, 64),
		path:        make([]int32, 0, DefaultMaxDepth+1),
	}
}

// Force returns the approximate net force on body i from every other body.
//
// Nodes on i's own insertion path are always opened so a body never
// interacts with itself; a merged leaf holding i contributes its other
// members as one pseudo-body.
func (w *Walker) Force(i int) vecmath.Vec3 {
	t := w.tree
	src := t.bodies[i]
	if src == nil {
		return vecmath.Vec3{}
	}

	leaf := t.leafOf[i]
	w.path = w.path[:0]
	for n := leaf; n >= 0; n = t.nodes[n].parent {
		w.path = append(w.path, n)
	}

	var total vecmath.Vec3
	w.stack = append(w.stack[:0], 0)
	for len(w.stack) > 0 {
		n := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]
		node := &t.nodes[n]

		if node.mass == 0 {
			continue
		}

		if !node.Internal {
			switch {
			case n == leaf:
				if len(node.merged) == 0 {
					continue
				}
				mass := node.mass - src.Mass
				if mass <= 0 {
					continue
				}
				com := node.weighted.Sub(src.Position.Mul(src.Mass)).Mul(1 / mass)
				total = total.Add(w.pair(src, com, mass))
			case len(node.merged) == 0:
				b := t.bodies[node.body]
				total = total.Add(w.pair(src, b.Position, b.Mass))
			default:
				total = total.Add(w.pair(src, node.CenterOfMass(), node.mass))
			}
			continue
		}

		if !w.onPath(n) {
			com := node.CenterOfMass()
			r := vecmath.Distance(src.Position, com)
			if r > 0 && 2*node.Radius/r <= w.theta {
				total = total.Add(w.pair(src, com, node.mass))
				continue
			}
		}

		for _, c := range node.children {
			if c != 0 {
				w.stack = append(w.stack, c)
			}
		}
	}
	return total
}

func (w *Walker) onPath(n int32) bool {
	for _, p := range w.path {
		if p == n {
			return true
		}
	}
	return false
}

func (w *Walker) pair(src *physics.Body, pos vecmath.Vec3, mass float64) vecmath.Vec3 {
	f, clamped := InverseCube(src, pos, mass, w.charge, w.minDistance)
	if clamped {
		w.Degenerate++
	}
	return f
}

// InverseCube is the force on src from a mass at pos:
// charge * mass * src.Mass / r^3 * (pos - src.Position). r is clamped to
// minDistance; an exactly zero separation has no direction and yields zero.
// The second result reports whether either guard fired.
func InverseCube(src *physics.Body, pos vecmath.Vec3, mass, charge, minDistance float64) (vecmath.Vec3, bool) {
	d := pos.Sub(src.Position)
	r := d.Len()
	if r == 0 {
		return vecmath.Vec3{}, true
	}
	clamped := false
	if r < minDistance {
		r = minDistance
		clamped = true
	}
	return d.Mul(charge * mass * src.Mass / (r * r * r)), clamped
}

// PairwiseForce is the exact O(N) sum of InverseCube over every other body.
// It returns the force and the number of degenerate pairs.
func PairwiseForce(bodies []*physics.Body, i int, charge, minDistance float64) (vecmath.Vec3, int) {
	if minDistance <= 0 {
		minDistance = DefaultMinDistance
	}
	src := bodies[i]
	var total vecmath.Vec3
	degenerate := 0
	for j, b := range bodies {
		if j == i || b == nil {
			continue
		}
		f, clamped := InverseCube(src, b.Position, b.Mass, charge, minDistance)
		if clamped {
			degenerate++
		}
		total = total.Add(f)
	}
	return total, degenerate
}
