package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/layout"
)

const DefaultSteps = 300

type Config struct {
	Params layout.Params    `yaml:"params"`
	Graph  graph.Spec       `yaml:"graph"`
	Run    layout.RunConfig `yaml:"run"`
}

func DefaultConfig() *Config {
	return &Config{
		Params: layout.DefaultParams(),
		Graph:  graph.DefaultSpec(),
		Run:    layout.RunConfig{Steps: DefaultSteps, StopWhenStable: true},
	}
}

// Load reads a YAML file over the defaults, so a file only needs the keys
// it changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if c.Graph.Nodes < 1 {
		return fmt.Errorf("config: graph needs at least one node, got %d", c.Graph.Nodes)
	}
	if c.Run.Steps < 1 {
		return fmt.Errorf("config: steps must be positive, got %d", c.Run.Steps)
	}
	return nil
}
