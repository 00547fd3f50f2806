package layout

import (
	"context"
	"errors"
	"time"
)

var ErrNoBodies = errors.New("layout: graph has no bodies")

// Observer is notified after every step.
type Observer interface {
	OnStep(step int, s Stats)
}

// Metric is an Observer that folds the run into a single value.
type Metric interface {
	Observer
	Name() string
	Value() float64
	Reset()
}

type RunConfig struct {
	Steps          int  `yaml:"steps"`
	StopWhenStable bool `yaml:"stop_when_stable"`
}

type Result struct {
	Final      Stats
	History    []Stats
	Metrics    map[string]float64
	StepsTaken int
	Converged  bool
	Elapsed    time.Duration
}

// Run steps g until cfg.Steps frames have run, the layout settles (when
// cfg.StopWhenStable is set) or ctx is cancelled. A cancelled run returns the
// partial result together with ctx.Err().
func Run(ctx context.Context, e *Engine, g Graph, cfg RunConfig, observers ...Observer) (*Result, error) {
	if len(g.Bodies()) == 0 {
		return nil, ErrNoBodies
	}
	if cfg.Steps <= 0 {
		cfg.Steps = 1
	}

	for _, o := range observers {
		if m, ok := o.(Metric); ok {
			m.Reset()
		}
	}

	start := time.Now()
	res := &Result{
		History: make([]Stats, 0, cfg.Steps),
		Metrics: make(map[string]float64),
	}

	var err error
	for step := 0; step < cfg.Steps; step++ {
		select {
		case <-ctx.Done():
			err = ctx.Err()
		default:
		}
		if err != nil {
			break
		}

		s := e.StepGraph(g)
		res.History = append(res.History, s)
		res.Final = s
		res.StepsTaken++
		for _, o := range observers {
			o.OnStep(step, s)
		}

		res.Converged = s.Stable
		if s.Stable && cfg.StopWhenStable {
			break
		}
	}

	for _, o := range observers {
		if m, ok := o.(Metric); ok {
			res.Metrics[m.Name()] = m.Value()
		}
	}
	res.Elapsed = time.Since(start)

	e.logger.Debug("run finished", "steps", res.StepsTaken, "energy", res.Final.TotalKineticEnergy,
		"converged", res.Converged, "elapsed", res.Elapsed)
	return res, err
}
