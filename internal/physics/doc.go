// Package physics provides the per-node physical state and the edge force
// model used by the layout engine.
//
//   - [Body]: position, velocity, acceleration, force accumulator and mass
//   - [Spring]: an undirected Hooke spring between two bodies
//
// Bodies are created with [NewBody], which rejects non-positive or
// non-finite masses with [ErrInvalidBodyState].
//
// # Force Model
//
// Springs pull with stiffness * (distance - restLength) along the line
// joining the endpoints:
//
//	f := physics.SpringForce(s, 0.008, 30)
//	s.From.Force = s.From.Force.Add(f)
//	s.To.Force = s.To.Force.Sub(f)
//
// [ApplySpring] does exactly that.
package physics
