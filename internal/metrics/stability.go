package metrics

import "github.com/san-kum/forcegraph/internal/layout"

// Stability is the fraction of observed steps that reported a stable layout.
type Stability struct {
	name    string
	stable  int
	samples int
}

func NewStability() *Stability {
	return &Stability{name: "stability"}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) OnStep(_ int, st layout.Stats) {
	s.samples++
	if st.Stable {
		s.stable++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.stable) / float64(s.samples)
}

func (s *Stability) Reset() {
	s.stable = 0
	s.samples = 0
}

// Convergence records the first step at which the layout was stable, or -1.
type Convergence struct {
	name  string
	first int
}

func NewConvergence() *Convergence {
	return &Convergence{name: "converged_at", first: -1}
}

func (c *Convergence) Name() string { return c.name }

func (c *Convergence) OnStep(step int, s layout.Stats) {
	if c.first < 0 && s.Stable {
		c.first = step
	}
}

func (c *Convergence) Value() float64 { return float64(c.first) }

func (c *Convergence) Reset() { c.first = -1 }

// TreeDepth tracks the deepest octree seen.
type TreeDepth struct {
	name  string
	depth uint32
}

func NewTreeDepth() *TreeDepth {
	return &TreeDepth{name: "tree_depth"}
}

func (d *TreeDepth) Name() string { return d.name }

func (d *TreeDepth) OnStep(_ int, s layout.Stats) {
	d.depth = max(d.depth, s.TreeDepth)
}

func (d *TreeDepth) Value() float64 { return float64(d.depth) }

func (d *TreeDepth) Reset() { d.depth = 0 }

// Default returns the metrics every run reports.
func Default() []layout.Metric {
	return []layout.Metric{
		NewEnergy(),
		NewEnergyDrop(),
		NewStability(),
		NewConvergence(),
		NewTreeDepth(),
	}
}
