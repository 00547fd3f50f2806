// Package graph holds the mutable node/edge collection the layout engine
// steps, plus a registry of synthetic graph generators.
package graph

import (
	"errors"
	"fmt"

	"github.com/san-kum/forcegraph/internal/physics"
	"github.com/san-kum/forcegraph/internal/vecmath"
)

var (
	ErrDuplicateNode = errors.New("graph: duplicate node")
	ErrNodeNotFound  = errors.New("graph: node not found")
	ErrEdgeNotFound  = errors.New("graph: edge not found")
	ErrSelfLoop      = errors.New("graph: self loop")
)

// Graph owns bodies and springs for one layout. Body order is insertion
// order and stays stable across removals. A Graph must not be mutated while
// a step is in progress.
type Graph struct {
	bodies []*physics.Body
	index  map[string]int
	edges  []physics.Spring
}

func New() *Graph {
	return &Graph{index: make(map[string]int)}
}

func (g *Graph) AddNode(id string, position vecmath.Vec3, mass float64) (*physics.Body, error) {
	if _, ok := g.index[id]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateNode, id)
	}
	b, err := physics.NewBody(id, position, mass)
	if err != nil {
		return nil, err
	}
	g.index[id] = len(g.bodies)
	g.bodies = append(g.bodies, b)
	return b, nil
}

func (g *Graph) Node(id string) (*physics.Body, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return g.bodies[i], true
}

// RemoveNode drops the node and every edge touching it.
func (g *Graph) RemoveNode(id string) error {
	i, ok := g.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}
	b := g.bodies[i]

	kept := g.edges[:0]
	for _, e := range g.edges {
		if e.From != b && e.To != b {
			kept = append(kept, e)
		}
	}
	clear(g.edges[len(kept):])
	g.edges = kept

	copy(g.bodies[i:], g.bodies[i+1:])
	g.bodies[len(g.bodies)-1] = nil
	g.bodies = g.bodies[:len(g.bodies)-1]

	delete(g.index, id)
	for j := i; j < len(g.bodies); j++ {
		g.index[g.bodies[j].ID] = j
	}
	return nil
}

// AddEdge connects two existing nodes. A weight <= 0 means the default
// weight of 1.
func (g *Graph) AddEdge(from, to string, weight float64, bidirectional bool) error {
	if from == to {
		return fmt.Errorf("%w: %q", ErrSelfLoop, from)
	}
	a, ok := g.Node(from)
	if !ok {
		return fmt.Errorf("edge %s->%s: %w: %q", from, to, ErrNodeNotFound, from)
	}
	b, ok := g.Node(to)
	if !ok {
		return fmt.Errorf("edge %s->%s: %w: %q", from, to, ErrNodeNotFound, to)
	}
	g.edges = append(g.edges, physics.Spring{From: a, To: b, Weight: weight, Bidirectional: bidirectional})
	return nil
}

// RemoveEdge removes the first edge from -> to. Bidirectional edges also
// match to -> from.
func (g *Graph) RemoveEdge(from, to string) error {
	for i, e := range g.edges {
		if (e.From.ID == from && e.To.ID == to) || (e.Bidirectional && e.From.ID == to && e.To.ID == from) {
			g.edges = append(g.edges[:i], g.edges[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s->%s", ErrEdgeNotFound, from, to)
}

func (g *Graph) HasEdge(from, to string) bool {
	for _, e := range g.edges {
		if (e.From.ID == from && e.To.ID == to) || (e.Bidirectional && e.From.ID == to && e.To.ID == from) {
			return true
		}
	}
	return false
}

func (g *Graph) Bodies() []*physics.Body { return g.bodies }

func (g *Graph) Springs() []physics.Spring { return g.edges }

func (g *Graph) Len() int { return len(g.bodies) }

func (g *Graph) EdgeCount() int { return len(g.edges) }

// Degree counts edges touching id in either direction.
func (g *Graph) Degree(id string) int {
	n := 0
	for _, e := range g.edges {
		if e.From.ID == id || e.To.ID == id {
			n++
		}
	}
	return n
}
