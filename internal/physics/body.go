package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/forcegraph/internal/vecmath"
)

const DefaultMass = 1.0

// Body is the simulation state of one graph node. Position, Velocity and
// Acceleration persist across steps; Force is zeroed at the start and end
// of every step.
type Body struct {
	ID           string
	Position     vecmath.Vec3
	Velocity     vecmath.Vec3
	Acceleration vecmath.Vec3
	Force        vecmath.Vec3
	Mass         float64
}

func NewBody(id string, position vecmath.Vec3, mass float64) (*Body, error) {
	if err := validateMass(mass); err != nil {
		return nil, fmt.Errorf("body %q: %w", id, err)
	}
	if !vecmath.IsFinite(position) {
		return nil, fmt.Errorf("body %q: position %v: %w", id, position, ErrInvalidBodyState)
	}
	return &Body{ID: id, Position: position, Mass: mass}, nil
}

func (b *Body) SetMass(mass float64) error {
	if err := validateMass(mass); err != nil {
		return fmt.Errorf("body %q: %w", b.ID, err)
	}
	b.Mass = mass
	return nil
}

func validateMass(mass float64) error {
	if mass <= 0 || math.IsNaN(mass) || math.IsInf(mass, 0) {
		return fmt.Errorf("mass %v: %w", mass, ErrInvalidBodyState)
	}
	return nil
}

// KineticEnergy is mass * |velocity|^2, without the 1/2 factor.
func (b *Body) KineticEnergy() float64 {
	return b.Mass * vecmath.LenSq(b.Velocity)
}

func (b *Body) ResetForce() { b.Force = vecmath.Vec3{} }

func (b *Body) AddForce(f vecmath.Vec3) { b.Force = b.Force.Add(f) }

func (b *Body) String() string {
	p, v := b.Position, b.Velocity
	return fmt.Sprintf("%s m: %.4f p: [%.2f, %.2f, %.2f] v: [%.2f, %.2f, %.2f]",
		b.ID, b.Mass, p[0], p[1], p[2], v[0], v[1], v[2])
}
