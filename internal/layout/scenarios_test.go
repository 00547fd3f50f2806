package layout_test

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/forcegraph/internal/layout"
	"github.com/san-kum/forcegraph/internal/physics"
	"github.com/san-kum/forcegraph/internal/vecmath"
)

type graph struct {
	bodies  []*physics.Body
	springs []physics.Spring
}

func (g *graph) Bodies() []*physics.Body   { return g.bodies }
func (g *graph) Springs() []physics.Spring { return g.springs }

func newBody(id string, x, y, z float64) *physics.Body {
	b, err := physics.NewBody(id, vecmath.Vec3{x, y, z}, 1)
	Expect(err).NotTo(HaveOccurred())
	return b
}

func newEngine(p layout.Params) *layout.Engine {
	e, err := layout.New(p, layout.WithLogger(log.New(io.Discard)))
	Expect(err).NotTo(HaveOccurred())
	return e
}

var _ = Describe("Engine", func() {
	var params layout.Params

	BeforeEach(func() {
		params = layout.DefaultParams()
	})

	Context("with a single spring and no repulsion", func() {
		var a, b *physics.Body

		BeforeEach(func() {
			params.Charge = 0
			params.EdgeStiffness = 0.01
			params.EdgeLength = 50
			a = newBody("a", 0, 0, 0)
			b = newBody("b", 100, 0, 0)
		})

		It("pulls a stretched pair together", func() {
			e := newEngine(params)
			e.Step([]*physics.Body{a, b}, []physics.Spring{{From: a, To: b, Weight: 1}})

			step := 0.5 * params.Damping
			Expect(a.Velocity[0]).To(BeNumerically("~", step, 1e-12))
			Expect(b.Velocity[0]).To(BeNumerically("~", -step, 1e-12))
			Expect(a.Position[0]).To(BeNumerically("~", step, 1e-12))
			Expect(b.Position[0]).To(BeNumerically("~", 100-step, 1e-12))
		})

		It("leaves a pair at rest length alone", func() {
			b.Position = vecmath.Vec3{50, 0, 0}
			e := newEngine(params)
			s := e.Step([]*physics.Body{a, b}, []physics.Spring{{From: a, To: b}})

			Expect(s.TotalKineticEnergy).To(BeNumerically("~", 0, 1e-20))
			Expect(a.Position).To(Equal(vecmath.Vec3{}))
			Expect(b.Position).To(Equal(vecmath.Vec3{50, 0, 0}))
		})
	})

	Context("with four charged corners", func() {
		var bodies []*physics.Body

		BeforeEach(func() {
			params.Charge = -1000
			params.Theta = 1.2
			params.Damping = 1
			bodies = []*physics.Body{
				newBody("ne", 50, 50, 0),
				newBody("nw", -50, 50, 0),
				newBody("sw", -50, -50, 0),
				newBody("se", 50, -50, 0),
			}
		})

		It("pushes every corner straight outward by the same amount", func() {
			newEngine(params).Step(bodies, nil)

			speed := bodies[0].Velocity.Len()
			Expect(speed).To(BeNumerically(">", 0))
			for _, b := range bodies {
				Expect(b.Velocity.Len()).To(BeNumerically("~", speed, 1e-9))
				Expect(b.Velocity.Dot(b.Position)).To(BeNumerically(">", 0))
				Expect(b.Velocity[2]).To(BeNumerically("~", 0, 1e-12))
			}
		})

		It("keeps net momentum at zero", func() {
			newEngine(params).Step(bodies, nil)

			var total vecmath.Vec3
			for _, b := range bodies {
				total = total.Add(b.Velocity.Mul(b.Mass))
			}
			Expect(total.Len()).To(BeNumerically("<", 1e-9))
		})
	})

	Context("without forces", func() {
		BeforeEach(func() {
			params.Charge = 0
		})

		It("damps kinetic energy geometrically", func() {
			bodies := []*physics.Body{newBody("a", 0, 0, 0), newBody("b", 10, 0, 0)}
			bodies[0].Velocity = vecmath.Vec3{3, 0, 0}
			bodies[1].Velocity = vecmath.Vec3{0, -4, 1}

			e := newEngine(params)
			prev := e.Step(bodies, nil).TotalKineticEnergy
			for i := 0; i < 20; i++ {
				next := e.Step(bodies, nil).TotalKineticEnergy
				Expect(next).To(BeNumerically("~", prev*params.Damping*params.Damping, 1e-9))
				prev = next
			}
		})
	})

	Context("with a theta near zero", func() {
		It("agrees with the pairwise solver", func() {
			grid := func() []*physics.Body {
				var out []*physics.Body
				for i := 0; i < 5; i++ {
					for j := 0; j < 5; j++ {
						out = append(out, newBody("", float64(i*17-40), float64(j*23-50), float64((i*j)%7*9)))
					}
				}
				return out
			}
			bh, pw := grid(), grid()

			params.Theta = 0.01
			newEngine(params).Step(bh, nil)
			params.Solver = layout.SolverPairwise
			newEngine(params).Step(pw, nil)

			for i := range bh {
				Expect(vecmath.ApproxEqual(bh[i].Position, pw[i].Position, 1e-6)).To(BeTrue(),
					"body %d: %v vs %v", i, bh[i].Position, pw[i].Position)
			}
		})
	})

	Context("when running a ring to rest", func() {
		It("loses energy over time", func() {
			var bodies []*physics.Body
			for i := 0; i < 12; i++ {
				bodies = append(bodies, newBody("", float64(i%4)*10, float64(i/4)*10, float64(i%3)*5))
			}
			var springs []physics.Spring
			for i := range bodies {
				springs = append(springs, physics.Spring{From: bodies[i], To: bodies[(i+1)%len(bodies)]})
			}
			g := &graph{bodies, springs}
			e := newEngine(params)

			early, err := layout.Run(context.Background(), e, g, layout.RunConfig{Steps: 5})
			Expect(err).NotTo(HaveOccurred())
			late, err := layout.Run(context.Background(), e, g, layout.RunConfig{Steps: 500})
			Expect(err).NotTo(HaveOccurred())

			Expect(late.Final.TotalKineticEnergy).To(BeNumerically("<", early.Final.TotalKineticEnergy))
		})
	})
})
