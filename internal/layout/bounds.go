package layout

import (
	"math"

	"github.com/san-kum/forcegraph/internal/physics"
	"github.com/san-kum/forcegraph/internal/vecmath"
)

// rootMargin pads the octree root beyond the largest known coordinate.
const rootMargin = 1.1

// Bounds is an axis-aligned box. The zero value is empty.
type Bounds struct {
	Min, Max vecmath.Vec3
	Valid    bool
}

func (b *Bounds) Extend(p vecmath.Vec3) {
	if !b.Valid {
		b.Min, b.Max, b.Valid = p, p, true
		return
	}
	b.Min = vecmath.Min(b.Min, p)
	b.Max = vecmath.Max(b.Max, p)
}

func (b Bounds) Size() vecmath.Vec3 {
	if !b.Valid {
		return vecmath.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

func (b Bounds) Center() vecmath.Vec3 {
	if !b.Valid {
		return vecmath.Vec3{}
	}
	return b.Min.Add(b.Max).Mul(0.5)
}

// RootRadius is the half-width of an origin-centered cube covering the box:
// the largest absolute coordinate, times margin, plus one so a degenerate
// box still yields a usable cube.
func (b Bounds) RootRadius(margin float64) float64 {
	if !b.Valid {
		return 1
	}
	r := math.Max(vecmath.MaxAbs(b.Min), vecmath.MaxAbs(b.Max))
	return r*margin + 1
}

func BoundsOf(bodies []*physics.Body) Bounds {
	var b Bounds
	for _, body := range bodies {
		if body != nil {
			b.Extend(body.Position)
		}
	}
	return b
}
