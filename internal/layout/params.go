package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/forcegraph/internal/octree"
	"github.com/san-kum/forcegraph/internal/physics"
)

var ErrInvalidParams = errors.New("layout: invalid parameters")

type Solver string

const (
	SolverBarnesHut Solver = "barnes-hut"
	SolverPairwise  Solver = "pairwise"
)

const (
	DefaultCharge                = -1200.0
	DefaultDamping               = 0.9
	DefaultTheta                 = 1.2
	DefaultStableEnergyThreshold = 1.0
)

type Params struct {
	EdgeStiffness         float64 `yaml:"edge_stiffness"`
	EdgeLength            float64 `yaml:"edge_length"`
	Charge                float64 `yaml:"charge"`
	Damping               float64 `yaml:"damping"`
	Theta                 float64 `yaml:"theta"`
	StableEnergyThreshold float64 `yaml:"stable_energy_threshold"`
	MaxDepth              int     `yaml:"max_depth"`
	MinDistance           float64 `yaml:"min_distance"`
	Workers               int     `yaml:"workers"`
	Solver                Solver  `yaml:"solver"`
	AuditTree             bool    `yaml:"audit_tree"`
}

func DefaultParams() Params {
	return Params{
		EdgeStiffness:         physics.DefaultStiffness,
		EdgeLength:            physics.DefaultRestLength,
		Charge:                DefaultCharge,
		Damping:               DefaultDamping,
		Theta:                 DefaultTheta,
		StableEnergyThreshold: DefaultStableEnergyThreshold,
		MaxDepth:              octree.DefaultMaxDepth,
		MinDistance:           octree.DefaultMinDistance,
		Workers:               1,
		Solver:                SolverBarnesHut,
	}
}

func (p Params) Validate() error {
	switch {
	case !(p.EdgeStiffness > 0) || math.IsInf(p.EdgeStiffness, 0):
		return fmt.Errorf("%w: edge stiffness must be positive, got %v", ErrInvalidParams, p.EdgeStiffness)
	case !(p.EdgeLength >= 0) || math.IsInf(p.EdgeLength, 0):
		return fmt.Errorf("%w: edge length must be non-negative, got %v", ErrInvalidParams, p.EdgeLength)
	case math.IsNaN(p.Charge) || math.IsInf(p.Charge, 0):
		return fmt.Errorf("%w: charge must be finite, got %v", ErrInvalidParams, p.Charge)
	case !(p.Damping >= 0 && p.Damping <= 1):
		return fmt.Errorf("%w: damping must be in [0,1], got %v", ErrInvalidParams, p.Damping)
	case !(p.Theta >= 0) || math.IsInf(p.Theta, 0):
		return fmt.Errorf("%w: theta must be non-negative, got %v", ErrInvalidParams, p.Theta)
	case p.MaxDepth < 1:
		return fmt.Errorf("%w: max depth must be at least 1, got %d", ErrInvalidParams, p.MaxDepth)
	case !(p.MinDistance > 0):
		return fmt.Errorf("%w: min distance must be positive, got %v", ErrInvalidParams, p.MinDistance)
	case p.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidParams, p.Workers)
	}
	switch p.Solver {
	case SolverBarnesHut, SolverPairwise:
	default:
		return fmt.Errorf("%w: unknown solver %q", ErrInvalidParams, p.Solver)
	}
	return nil
}
