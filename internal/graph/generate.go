package graph

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"slices"
	"strconv"

	"github.com/san-kum/forcegraph/internal/vecmath"
)

var ErrUnknownGenerator = errors.New("graph: unknown generator")

// Spec describes a synthetic graph.
type Spec struct {
	Kind   string  `yaml:"kind"`
	Nodes  int     `yaml:"nodes"`
	Degree int     `yaml:"degree"`
	Spread float64 `yaml:"spread"`
	Seed   int64   `yaml:"seed"`
}

func DefaultSpec() Spec {
	return Spec{Kind: "random", Nodes: 200, Degree: 2, Spread: 100, Seed: 42}
}

// GeneratorFunc adds edges between the n nodes of g, named by index.
type GeneratorFunc func(g *Graph, spec Spec, rng *rand.Rand) error

type Registry struct {
	generators map[string]GeneratorFunc
}

func NewRegistry() *Registry {
	r := &Registry{generators: make(map[string]GeneratorFunc)}
	r.Register("random", randomEdges)
	r.Register("grid", gridEdges)
	r.Register("ring", ringEdges)
	r.Register("tree", treeEdges)
	r.Register("complete", completeEdges)
	return r
}

func (r *Registry) Register(name string, fn GeneratorFunc) {
	r.generators[name] = fn
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Generate builds spec.Nodes unit-mass nodes scattered uniformly in a cube
// of half-width spec.Spread, then wires them with the named generator. The
// same spec always yields the same graph.
func (r *Registry) Generate(spec Spec) (*Graph, error) {
	fn, ok := r.generators[spec.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGenerator, spec.Kind)
	}
	if spec.Nodes < 0 {
		return nil, fmt.Errorf("graph: node count must be non-negative, got %d", spec.Nodes)
	}
	if spec.Spread <= 0 {
		spec.Spread = DefaultSpec().Spread
	}

	rng := rand.New(rand.NewSource(spec.Seed))
	g := New()
	for i := 0; i < spec.Nodes; i++ {
		pos := vecmath.Vec3{
			(rng.Float64()*2 - 1) * spec.Spread,
			(rng.Float64()*2 - 1) * spec.Spread,
			(rng.Float64()*2 - 1) * spec.Spread,
		}
		if _, err := g.AddNode(nodeID(i), pos, 1); err != nil {
			return nil, err
		}
	}
	if err := fn(g, spec, rng); err != nil {
		return nil, fmt.Errorf("generate %s: %w", spec.Kind, err)
	}
	return g, nil
}

func nodeID(i int) string { return "n" + strconv.Itoa(i) }

func link(g *Graph, i, j int) error {
	return g.AddEdge(nodeID(i), nodeID(j), 1, true)
}

// randomEdges adds about n*degree/2 distinct edges between random pairs.
func randomEdges(g *Graph, spec Spec, rng *rand.Rand) error {
	n := g.Len()
	if n < 2 {
		return nil
	}
	want := n * max(spec.Degree, 1) / 2
	if limit := n * (n - 1) / 2; want > limit {
		want = limit
	}

	seen := make(map[[2]int]struct{}, want)
	for len(seen) < want {
		i, j := rng.Intn(n), rng.Intn(n)
		if i == j {
			continue
		}
		if i > j {
			i, j = j, i
		}
		if _, ok := seen[[2]int{i, j}]; ok {
			continue
		}
		seen[[2]int{i, j}] = struct{}{}
		if err := link(g, i, j); err != nil {
			return err
		}
	}
	return nil
}

// gridEdges lays nodes out row-major on a near-square lattice.
func gridEdges(g *Graph, _ Spec, _ *rand.Rand) error {
	n := g.Len()
	side := int(math.Ceil(math.Sqrt(float64(n))))
	for i := 0; i < n; i++ {
		if (i+1)%side != 0 && i+1 < n {
			if err := link(g, i, i+1); err != nil {
				return err
			}
		}
		if i+side < n {
			if err := link(g, i, i+side); err != nil {
				return err
			}
		}
	}
	return nil
}

func ringEdges(g *Graph, _ Spec, _ *rand.Rand) error {
	n := g.Len()
	if n < 2 {
		return nil
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		if n == 2 && i == 1 {
			break
		}
		if err := link(g, i, j); err != nil {
			return err
		}
	}
	return nil
}

// treeEdges builds a complete tree with branching factor spec.Degree
// (binary when unset).
func treeEdges(g *Graph, spec Spec, _ *rand.Rand) error {
	k := spec.Degree
	if k < 1 {
		k = 2
	}
	for i := 1; i < g.Len(); i++ {
		if err := link(g, (i-1)/k, i); err != nil {
			return err
		}
	}
	return nil
}

func completeEdges(g *Graph, _ Spec, _ *rand.Rand) error {
	n := g.Len()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if err := link(g, i, j); err != nil {
				return err
			}
		}
	}
	return nil
}
