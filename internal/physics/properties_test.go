package physics_test

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/shipsim/internal/craft"
	"github.com/san-kum/shipsim/internal/dynamo"
	"github.com/san-kum/shipsim/internal/integrators"
	"github.com/san-kum/shipsim/internal/parts"
	"github.com/san-kum/shipsim/internal/physics"
)

func part(name string, mass float64, pos, size mgl64.Vec3, spec parts.Spec) parts.Part {
	p, err := parts.New(name, mass, pos, size, spec)
	Expect(err).NotTo(HaveOccurred())
	return p
}

func winged() *craft.Spaceship {
	ship, err := craft.New(
		part("cockpit", 900, mgl64.Vec3{0, 0, 1.5}, mgl64.Vec3{1.8, 1.8, 2}, parts.Cockpit{Crew: 2}),
		part("hull", 500, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{1.5, 1.5, 2.5}, parts.Hull{DragArea: 1}),
		part("engine", 220, mgl64.Vec3{0, 0, -1.8}, mgl64.Vec3{0.8, 0.8, 1}, parts.Engine{MaxThrust: 32000}),
		part("port", 180, mgl64.Vec3{0, -2.5, 0.5}, mgl64.Vec3{0.3, 2.5, 1}, parts.Wing{Area: 8.5, LiftSlope: 4.6, DragCoefficient: 0.05, StallAngle: 0.24}),
		part("starboard", 180, mgl64.Vec3{0, 2.5, 0.5}, mgl64.Vec3{0.3, 2.5, 1}, parts.Wing{Area: 8.5, LiftSlope: 4.6, DragCoefficient: 0.05, StallAngle: 0.24}),
	)
	Expect(err).NotTo(HaveOccurred())
	return ship
}

var _ = Describe("Force model", func() {
	var (
		ship *craft.Spaceship
		rng  *rand.Rand
	)

	BeforeEach(func() {
		ship = winged()
		rng = rand.New(rand.NewSource(GinkgoRandomSeed()))
	})

	It("clamps the throttle instead of rejecting it", func() {
		x := dynamo.AtAltitude(500)
		x.Velocity = mgl64.Vec3{0, 0, 30}
		env := physics.DefaultEnvironment()

		Expect(physics.Compute(x, ship, env, 7)).To(Equal(physics.Compute(x, ship, env, 1)))
		Expect(physics.Compute(x, ship, env, -3)).To(Equal(physics.Compute(x, ship, env, 0)))
	})

	It("keeps lift perpendicular to the airflow", func() {
		env := physics.DefaultEnvironment()
		for i := 0; i < 200; i++ {
			x := dynamo.AtAltitude(rng.Float64() * 5000)
			x.Velocity = mgl64.Vec3{rng.NormFloat64() * 30, rng.NormFloat64() * 30, rng.NormFloat64() * 30}
			x.Orientation = mgl64.QuatRotate(rng.Float64()*math.Pi, mgl64.Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}.Normalize())

			lift := physics.Lift(x, ship, env).Force
			if lift.Len() == 0 {
				continue
			}
			cos := lift.Dot(x.Velocity) / (lift.Len() * x.Airspeed())
			Expect(math.Abs(cos)).To(BeNumerically("<", 1e-9))
		}
	})

	It("balances the roll torque of a symmetric wing pair", func() {
		x := dynamo.AtAltitude(100)
		x.Velocity = mgl64.Vec3{-4, 0, 50}

		torque := physics.Lift(x, ship, physics.DefaultEnvironment()).Torque
		Expect(math.Abs(torque[2])).To(BeNumerically("<", 1e-6))
	})

	It("produces no drag or lift at rest", func() {
		x := dynamo.AtAltitude(10)
		env := physics.DefaultEnvironment()
		Expect(physics.Drag(x, ship, env)).To(Equal(dynamo.Loads{}))
		Expect(physics.Lift(x, ship, env)).To(Equal(dynamo.Loads{}))
	})
})

var _ = Describe("Integrated motion", func() {
	var integ *integrators.SymplecticEuler

	BeforeEach(func() {
		integ = integrators.NewSymplecticEuler()
	})

	It("stays put without gravity, thrust or velocity", func() {
		ship := winged()
		env := physics.DefaultEnvironment()
		env.Gravity = mgl64.Vec3{}
		env.Ground = false

		x0 := dynamo.NewState(mgl64.Vec3{5, -3, 1200})
		x := x0
		for i := 0; i < 500; i++ {
			loads := physics.Compute(x, ship, env, 0)
			var err error
			x, err = integ.Step(x, loads, ship.Body(), 0.1)
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(x.Position).To(Equal(x0.Position))
		Expect(x.Velocity).To(Equal(mgl64.Vec3{}))
	})

	It("loses kinetic energy every step under drag alone", func() {
		hull, err := parts.New("hull", 1000, mgl64.Vec3{}, mgl64.Vec3{2, 2, 4}, parts.Hull{DragArea: 2})
		Expect(err).NotTo(HaveOccurred())
		ship, err := craft.New(hull)
		Expect(err).NotTo(HaveOccurred())

		env := physics.DefaultEnvironment()
		env.Gravity = mgl64.Vec3{}
		env.Ground = false

		x := dynamo.AtAltitude(1000)
		x.Velocity = mgl64.Vec3{50, 0, 20}
		body := ship.Body()
		prev := x.KineticEnergy(body.Mass, body.Inertia)

		for i := 0; i < 300; i++ {
			loads := physics.Compute(x, ship, env, 0)
			Expect(loads.Force.Len()).To(BeNumerically(">", 0))

			x, err = integ.Step(x, loads, body, 0.1)
			Expect(err).NotTo(HaveOccurred())

			ke := x.KineticEnergy(body.Mass, body.Inertia)
			Expect(ke).To(BeNumerically("<", prev), "step %d", i)
			prev = ke
		}
	})

	It("keeps the orientation normalized through tumbling flight", func() {
		ship := winged()
		env := physics.DefaultEnvironment()
		x := dynamo.AtAltitude(2000)
		x.Velocity = mgl64.Vec3{30, -10, 80}
		x.AngularVelocity = mgl64.Vec3{0.4, 0.1, -0.3}

		for i := 0; i < 2000; i++ {
			loads := physics.Compute(x, ship, env, 0.8)
			var err error
			x, err = integ.Step(x, loads, ship.Body(), 0.02)
			Expect(err).NotTo(HaveOccurred())
			Expect(math.Abs(x.Orientation.Len() - 1)).To(BeNumerically("<", 1e-9))
		}
	})
})
