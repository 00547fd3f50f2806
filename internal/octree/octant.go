package octree

import "github.com/san-kum/forcegraph/internal/vecmath"

type octant uint8

// child positions (octants), letters read Z Y X.
// L (0) means < center, H (1) means >= center
const (
	LLL octant = 0b000
	LLH octant = 0b001
	LHL octant = 0b010
	LHH octant = 0b011
	HLL octant = 0b100
	HLH octant = 0b101
	HHL octant = 0b110
	HHH octant = 0b111
)

// determines which octant of center the point belongs to.
func octantOf(center, point vecmath.Vec3) (oct octant) {
	if point[0] >= center[0] {
		oct |= LLH
	}
	if point[1] >= center[1] {
		oct |= LHL
	}
	if point[2] >= center[2] {
		oct |= HLL
	}
	return
}

// center of the given octant of a cube, each octant sitting ±radius/2 from
// the parent center on every axis.
func octantCenter(center vecmath.Vec3, radius float64, oct octant) vecmath.Vec3 {
	h := radius / 2
	sign := func(bit octant) float64 {
		if oct&bit != 0 {
			return h
		}
		return -h
	}
	return vecmath.Vec3{center[0] + sign(LLH), center[1] + sign(LHL), center[2] + sign(HLL)}
}
