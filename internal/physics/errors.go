package physics

import "errors"

// Conditions raised by the layout core.
var (
	// ErrInvalidBodyState indicates a body with zero, negative or non-finite mass.
	ErrInvalidBodyState = errors.New("physics: invalid body state")

	// ErrNumericDegeneracy indicates a near-zero separation between a body and
	// another body or a center of mass. The engine clamps and continues.
	ErrNumericDegeneracy = errors.New("physics: numeric degeneracy (near-zero distance)")

	// ErrSpatialIndexOverflow indicates bodies close enough to exhaust the
	// octree depth cap. The engine merges them into one leaf and continues.
	ErrSpatialIndexOverflow = errors.New("physics: spatial index overflow (depth cap reached)")
)
