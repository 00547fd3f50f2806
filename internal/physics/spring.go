package physics

import "github.com/san-kum/forcegraph/internal/vecmath"

const (
	DefaultStiffness  = 0.008
	DefaultRestLength = 30.0
)

// Spring is an undirected edge force between two bodies. Bidirectional is
// carried for the graph's benefit only; it does not change the force.
type Spring struct {
	From, To      *Body
	Weight        float64
	Bidirectional bool
}

func (s Spring) weight() float64 {
	if s.Weight <= 0 {
		return 1
	}
	return s.Weight
}

// SpringForce returns the Hooke force acting on s.From. s.To receives the
// negation. Coincident endpoints have no direction and yield zero.
func SpringForce(s Spring, stiffness, restLength float64) vecmath.Vec3 {
	d := s.To.Position.Sub(s.From.Position)
	dist := d.Len()
	if dist == 0 {
		return vecmath.Vec3{}
	}
	displacement := dist - restLength
	return d.Mul(stiffness * displacement * s.weight() / dist)
}

func ApplySpring(s Spring, stiffness, restLength float64) {
	f := SpringForce(s, stiffness, restLength)
	s.From.AddForce(f)
	s.To.AddForce(f.Mul(-1))
}
