package octree

import (
	"math"

	"github.com/san-kum/forcegraph/internal/physics"
	"github.com/san-kum/forcegraph/internal/vecmath"
)

const DefaultMaxDepth = 20

// Node is one cubic cell. A node is an empty leaf, an occupied leaf (one
// body, or several once merged at the depth cap), or an internal node with
// 1-8 children. mass and weighted always equal the sum over the subtree.
type Node struct {
	Center   vecmath.Vec3
	Radius   float64 // half-width of the cube
	Depth    uint32
	Internal bool

	children [8]int32 // 0 = absent; the root is never a child
	parent   int32
	body     int32 // -1 = empty
	merged   []int32

	mass     float64
	weighted vecmath.Vec3 // sum of position * mass
}

func (n *Node) Mass() float64 { return n.mass }

func (n *Node) WeightedSum() vecmath.Vec3 { return n.weighted }

// CenterOfMass is the mass-weighted centroid, or the node center when empty.
func (n *Node) CenterOfMass() vecmath.Vec3 {
	if n.mass == 0 {
		return n.Center
	}
	return n.weighted.Mul(1 / n.mass)
}

func (n *Node) Empty() bool { return !n.Internal && n.body < 0 }

// Body returns the resident body index of a leaf, or -1.
func (n *Node) Body() int { return int(n.body) }

// Members lists every body index held by a leaf, merged ones included.
func (n *Node) Members() []int {
	if n.body < 0 {
		return nil
	}
	out := make([]int, 0, 1+len(n.merged))
	out = append(out, int(n.body))
	for _, m := range n.merged {
		out = append(out, int(m))
	}
	return out
}

// Child returns the arena index of the child in octant o, or 0 if absent.
func (n *Node) Child(o int) int { return int(n.children[o&7]) }

func (n *Node) ChildCount() int {
	c := 0
	for _, ch := range n.children {
		if ch != 0 {
			c++
		}
	}
	return c
}

// Tree is a frame-local octree over a slice of bodies. It holds body
// indices, never copies of bodies, and must not outlive the frame.
type Tree struct {
	nodes    []Node
	bodies   []*physics.Body
	leafOf   []int32
	maxDepth uint32
	deepest  uint32
	merged   int
}

type Option func(*Tree)

// WithMaxDepth caps subdivision. Values below 1 keep the default.
func WithMaxDepth(depth int) Option {
	return func(t *Tree) {
		if depth >= 1 {
			t.maxDepth = uint32(depth)
		}
	}
}

// Build inserts every non-nil body into a fresh tree rooted at center with
// at least the given half-width. The root grows to cover any body outside
// that cube, since node sizes drive the opening test.
func Build(bodies []*physics.Body, center vecmath.Vec3, radius float64, opts ...Option) *Tree {
	if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		radius = 1
	}
	for _, b := range bodies {
		if b == nil {
			continue
		}
		if off := vecmath.MaxAbs(b.Position.Sub(center)); off > radius && !math.IsInf(off, 0) {
			radius = off
		}
	}
	t := &Tree{
		nodes:    make([]Node, 1, 2*len(bodies)+1),
		bodies:   bodies,
		leafOf:   make([]int32, len(bodies)),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.nodes[0] = Node{Center: center, Radius: radius, parent: -1, body: -1}

	for i, b := range bodies {
		t.leafOf[i] = -1
		if b == nil {
			continue
		}
		t.insert(int32(i))
	}
	return t
}

func (t *Tree) insert(bi int32) {
	b := t.bodies[bi]
	p, m := b.Position, b.Mass

	n := int32(0)
	for {
		node := &t.nodes[n]
		switch {
		case node.Internal:
			node.mass += m
			node.weighted = node.weighted.Add(p.Mul(m))
			n = t.descend(n, p)

		case node.body < 0:
			node.body = bi
			node.mass = m
			node.weighted = p.Mul(m)
			t.place(bi, n)
			return

		case node.Depth >= t.maxDepth:
			node.merged = append(node.merged, bi)
			node.mass += m
			node.weighted = node.weighted.Add(p.Mul(m))
			t.leafOf[bi] = n
			t.merged++
			return

		default:
			// split: the resident moves one level down, the node keeps its
			// aggregate and the next pass folds the incoming body in.
			resident := node.body
			node.body = -1
			node.Internal = true

			rb := t.bodies[resident]
			c := t.descend(n, rb.Position)
			child := &t.nodes[c]
			child.body = resident
			child.mass = rb.Mass
			child.weighted = rb.Position.Mul(rb.Mass)
			t.place(resident, c)
		}
	}
}

// descend returns the child of n containing p, allocating it if needed.
func (t *Tree) descend(n int32, p vecmath.Vec3) int32 {
	parent := &t.nodes[n]
	o := octantOf(parent.Center, p)
	if c := parent.children[o]; c != 0 {
		return c
	}
	child := Node{
		Center: octantCenter(parent.Center, parent.Radius, o),
		Radius: parent.Radius / 2,
		Depth:  parent.Depth + 1,
		parent: n,
		body:   -1,
	}
	t.nodes = append(t.nodes, child)
	idx := int32(len(t.nodes) - 1)
	t.nodes[n].children[o] = idx
	return idx
}

func (t *Tree) place(bi, n int32) {
	t.leafOf[bi] = n
	if d := t.nodes[n].Depth; d > t.deepest {
		t.deepest = d
	}
}

func (t *Tree) Root() *Node { return &t.nodes[0] }

func (t *Tree) Node(i int) *Node { return &t.nodes[i] }

// Len is the number of allocated nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// MaxDepth is the deepest leaf observed while building (diagnostic only).
func (t *Tree) MaxDepth() uint32 { return t.deepest }

// Merged counts bodies folded into an already occupied leaf at the depth cap.
func (t *Tree) Merged() int { return t.merged }

func (t *Tree) Bodies() []*physics.Body { return t.bodies }

// LeafOf returns the arena index of the leaf holding body i, or -1.
func (t *Tree) LeafOf(i int) int { return int(t.leafOf[i]) }
