package metrics

import (
	"math"

	"github.com/san-kum/forcegraph/internal/layout"
)

// Energy is the mean total kinetic energy over the observed steps.
type Energy struct {
	name    string
	samples int
	total   float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) OnStep(_ int, s layout.Stats) {
	e.total += s.TotalKineticEnergy
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyDrop is the fraction of the first observed energy shed by the
// last observed step. Growing energy gives a negative value.
type EnergyDrop struct {
	name    string
	initial float64
	current float64
	samples int
}

func NewEnergyDrop() *EnergyDrop {
	return &EnergyDrop{name: "energy_drop"}
}

func (e *EnergyDrop) Name() string { return e.name }

func (e *EnergyDrop) OnStep(_ int, s layout.Stats) {
	if e.samples == 0 {
		e.initial = s.TotalKineticEnergy
	}
	e.current = s.TotalKineticEnergy
	e.samples++
}

func (e *EnergyDrop) Value() float64 {
	if e.samples == 0 || e.initial == 0 {
		return 0
	}
	return (e.initial - e.current) / math.Abs(e.initial)
}

func (e *EnergyDrop) Reset() {
	e.initial = 0
	e.current = 0
	e.samples = 0
}
