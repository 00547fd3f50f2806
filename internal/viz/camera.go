package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/forcegraph/internal/layout"
	"github.com/san-kum/forcegraph/internal/physics"
	"github.com/san-kum/forcegraph/internal/vecmath"
)

const (
	nearPlane  = 0.1
	fillFactor = 0.9
)

// Camera orbits the layout. Points are first normalised by Fit so the
// layout spans roughly [-1, 1] regardless of its world size.
type Camera struct {
	Yaw, Pitch float64
	Zoom       float64
	Distance   float64

	center vecmath.Vec3
	scale  float64
}

func NewCamera() *Camera {
	return &Camera{Pitch: 0.35, Zoom: 1, Distance: 4, scale: 1}
}

func (c *Camera) Rotate(yaw, pitch float64) {
	c.Yaw = math.Mod(c.Yaw+yaw, 2*math.Pi)
	c.Pitch = math.Max(-math.Pi/2, math.Min(math.Pi/2, c.Pitch+pitch))
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// Fit centres the camera on b and scales it to unit half-width.
func (c *Camera) Fit(b layout.Bounds) {
	if !b.Valid {
		return
	}
	c.center = b.Center()
	half := vecmath.MaxAbs(b.Size()) / 2
	if half <= 0 {
		half = 1
	}
	c.scale = 1 / half
}

func (c *Camera) view() mgl64.Mat3 {
	return mgl64.Rotate3DX(c.Pitch).Mul3(mgl64.Rotate3DY(c.Yaw))
}

// Project maps a world point onto a w x h pixel plane. The returned depth
// grows toward the viewer.
func (c *Camera) Project(p vecmath.Vec3, w, h int) (x, y int, depth float64, ok bool) {
	q := c.view().Mul3x1(p.Sub(c.center).Mul(c.scale * c.Zoom))
	if q.Z() >= c.Distance-nearPlane {
		return 0, 0, 0, false
	}
	persp := c.Distance / (c.Distance - q.Z())
	half := float64(min(w, h)) / 2 * fillFactor

	x = int(math.Round(q.X()*persp*half)) + w/2
	y = int(math.Round(-q.Y()*persp*half)) + h/2
	return x, y, q.Z(), x >= 0 && x < w && y >= 0 && y < h
}

// DrawGraph renders springs as lines and bodies as dots.
func DrawGraph(cv *Canvas, cam *Camera, bodies []*physics.Body, springs []physics.Spring) {
	w, h := cv.Pixels()
	for _, s := range springs {
		if s.From == nil || s.To == nil {
			continue
		}
		x0, y0, _, ok0 := cam.Project(s.From.Position, w, h)
		x1, y1, _, ok1 := cam.Project(s.To.Position, w, h)
		if ok0 && ok1 {
			cv.DrawLine(x0, y0, x1, y1)
		}
	}
	for _, b := range bodies {
		if b == nil {
			continue
		}
		if x, y, _, ok := cam.Project(b.Position, w, h); ok {
			cv.Dot(x, y)
		}
	}
}
