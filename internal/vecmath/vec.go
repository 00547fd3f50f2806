// Package vecmath holds the small set of 3D vector helpers shared by the
// physics, octree and layout packages. Vectors are mgl64.Vec3 values.
package vecmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Vec3 = mgl64.Vec3

// Zero is the origin.
var Zero = Vec3{}

func LenSq(v Vec3) float64 { return v.Dot(v) }

func Distance(a, b Vec3) float64 { return b.Sub(a).Len() }

// SafeNormalize returns v scaled to unit length. The zero vector (and any
// vector too short to normalize) is returned unchanged.
func SafeNormalize(v Vec3) Vec3 {
	l := v.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return Vec3{}
	}
	return v.Mul(1 / l)
}

func IsFinite(v Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func Min(a, b Vec3) Vec3 {
	return Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])}
}

func Max(a, b Vec3) Vec3 {
	return Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])}
}

// MaxAbs is the largest absolute coordinate of v.
func MaxAbs(v Vec3) float64 {
	return math.Max(math.Abs(v[0]), math.Max(math.Abs(v[1]), math.Abs(v[2])))
}

// ApproxEqual compares component-wise within an absolute tolerance.
func ApproxEqual(a, b Vec3, tol float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}
