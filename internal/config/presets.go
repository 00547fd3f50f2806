package config

import (
	"slices"

	"github.com/san-kum/forcegraph/internal/layout"
)

func preset(kind string, nodes, degree int, tune func(p *layout.Params)) *Config {
	cfg := DefaultConfig()
	cfg.Graph.Kind = kind
	cfg.Graph.Nodes = nodes
	cfg.Graph.Degree = degree
	if tune != nil {
		tune(&cfg.Params)
	}
	return cfg
}

// Presets are keyed by graph kind, then preset name.
var Presets = map[string]map[string]*Config{
	"random": {
		"small": preset("random", 50, 2, nil),
		"large": preset("random", 2000, 3, func(p *layout.Params) {
			p.Workers = 4
		}),
		"dense": preset("random", 300, 12, func(p *layout.Params) {
			p.EdgeLength = 60
			p.Charge = -2000
		}),
		"exact": preset("random", 200, 2, func(p *layout.Params) {
			p.Solver = layout.SolverPairwise
		}),
	},
	"grid": {
		"square": preset("grid", 100, 0, nil),
		"coarse": preset("grid", 400, 0, func(p *layout.Params) {
			p.Theta = 1.5
		}),
	},
	"ring": {
		"loop": preset("ring", 60, 0, nil),
		"tight": preset("ring", 60, 0, func(p *layout.Params) {
			p.EdgeLength = 10
			p.EdgeStiffness = 0.02
		}),
	},
	"tree": {
		"binary":  preset("tree", 127, 2, nil),
		"bushy":   preset("tree", 364, 3, func(p *layout.Params) { p.Damping = 0.8 }),
		"precise": preset("tree", 127, 2, func(p *layout.Params) { p.Theta = 0.5 }),
	},
	"complete": {
		"k12": preset("complete", 12, 0, func(p *layout.Params) {
			p.EdgeLength = 80
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(kind, name string) *Config {
	byName, ok := Presets[kind]
	if !ok {
		return nil
	}
	cfg, ok := byName[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(kind string) []string {
	byName, ok := Presets[kind]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func ListKinds() []string {
	kinds := make([]string, 0, len(Presets))
	for k := range Presets {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}
