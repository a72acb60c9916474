package craft_test

import (
	"errors"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/san-kum/shipsim/internal/craft"
	"github.com/san-kum/shipsim/internal/dynamo"
	"github.com/san-kum/shipsim/internal/parts"
)

// near compares element-wise, absolutely around zero and relatively for
// large tensor entries.
func near(a, b []float64) bool {
	for i := range a {
		if !scalar.EqualWithinAbsOrRel(a[i], b[i], 1e-9, 1e-9) {
			return false
		}
	}
	return true
}

func randomParts(rng *rand.Rand, n int) []parts.Part {
	kinds := []parts.Spec{
		parts.Hull{DragArea: 1},
		parts.Tank{FuelMass: 40},
		parts.Engine{MaxThrust: 5000},
		parts.Wing{Area: 3, LiftSlope: 4, DragCoefficient: 0.05},
		parts.Cockpit{Crew: 1},
	}
	out := make([]parts.Part, 0, n)
	for i := 0; i < n; i++ {
		pos := mgl64.Vec3{rng.Float64()*10 - 5, rng.Float64()*10 - 5, rng.Float64()*10 - 5}
		size := mgl64.Vec3{0.2 + rng.Float64()*2, 0.2 + rng.Float64()*2, 0.2 + rng.Float64()*2}
		q := mgl64.QuatRotate(rng.Float64()*3, mgl64.Vec3{rng.Float64(), rng.Float64(), 1}.Normalize())
		p, err := parts.New("p", 1+rng.Float64()*500, pos, size, kinds[i%len(kinds)], parts.WithOrientation(q))
		Expect(err).NotTo(HaveOccurred())
		out = append(out, p)
	}
	return out
}

var _ = Describe("Mass aggregation", func() {
	var rng *rand.Rand

	BeforeEach(func() {
		rng = rand.New(rand.NewSource(GinkgoRandomSeed()))
	})

	It("rejects an empty assembly", func() {
		_, err := craft.Aggregate(nil)
		Expect(errors.Is(err, dynamo.ErrInvalidAssembly)).To(BeTrue())
	})

	It("adds part masses including fuel", func() {
		for trial := 0; trial < 50; trial++ {
			ps := randomParts(rng, 1+rng.Intn(12))
			mp, err := craft.Aggregate(ps)
			Expect(err).NotTo(HaveOccurred())

			var sum float64
			for _, p := range ps {
				sum += p.TotalMass()
			}
			Expect(scalar.EqualWithinAbsOrRel(mp.TotalMass, sum, 1e-9, 1e-12)).To(BeTrue())
		}
	})

	It("is additive over disjoint part sets", func() {
		for trial := 0; trial < 50; trial++ {
			ps := randomParts(rng, 2+rng.Intn(12))
			split := 1 + rng.Intn(len(ps)-1)

			whole, err := craft.Aggregate(ps)
			Expect(err).NotTo(HaveOccurred())
			left, err := craft.Aggregate(ps[:split])
			Expect(err).NotTo(HaveOccurred())
			right, err := craft.Aggregate(ps[split:])
			Expect(err).NotTo(HaveOccurred())

			Expect(scalar.EqualWithinAbsOrRel(whole.TotalMass, left.TotalMass+right.TotalMass, 1e-9, 1e-12)).To(BeTrue())
		}
	})

	It("keeps the center of mass inside the bounds of the part positions", func() {
		for trial := 0; trial < 50; trial++ {
			ps := randomParts(rng, 1+rng.Intn(12))
			mp, err := craft.Aggregate(ps)
			Expect(err).NotTo(HaveOccurred())

			for axis := 0; axis < 3; axis++ {
				lo, hi := ps[0].Position[axis], ps[0].Position[axis]
				for _, p := range ps[1:] {
					lo = min(lo, p.Position[axis])
					hi = max(hi, p.Position[axis])
				}
				Expect(mp.CenterOfMass[axis]).To(BeNumerically(">=", lo-1e-9))
				Expect(mp.CenterOfMass[axis]).To(BeNumerically("<=", hi+1e-9))
			}
		}
	})

	It("produces a symmetric positive definite inertia tensor", func() {
		for trial := 0; trial < 50; trial++ {
			ps := randomParts(rng, 1+rng.Intn(12))
			mp, err := craft.Aggregate(ps)
			Expect(err).NotTo(HaveOccurred())

			Expect(parts.IsSymmetric(mp.Inertia, 1e-9)).To(BeTrue())
			Expect(craft.PositiveDefinite(mp.Inertia, 0)).To(BeTrue())
		}
	})

	It("is independent of part order", func() {
		ps := randomParts(rng, 8)
		a, err := craft.Aggregate(ps)
		Expect(err).NotTo(HaveOccurred())

		reversed := make([]parts.Part, len(ps))
		for i, p := range ps {
			reversed[len(ps)-1-i] = p
		}
		b, err := craft.Aggregate(reversed)
		Expect(err).NotTo(HaveOccurred())

		Expect(near(a.CenterOfMass[:], b.CenterOfMass[:])).To(BeTrue())
		Expect(near(a.Inertia[:], b.Inertia[:])).To(BeTrue())
	})
})

var _ = Describe("Spaceship", func() {
	It("recomputes derived fields on attach", func() {
		rng := rand.New(rand.NewSource(7))
		ps := randomParts(rng, 4)

		ship, err := craft.New(ps[:3]...)
		Expect(err).NotTo(HaveOccurred())
		grown, err := ship.Attach(ps[3])
		Expect(err).NotTo(HaveOccurred())

		direct, err := craft.New(ps...)
		Expect(err).NotTo(HaveOccurred())
		Expect(grown.TotalMass()).To(BeNumerically("~", direct.TotalMass(), 1e-9))
		gi, di := grown.Inertia(), direct.Inertia()
		Expect(near(gi[:], di[:])).To(BeTrue())
		Expect(grown.DragArea()).To(BeNumerically("~", direct.DragArea(), 1e-12))
	})

	It("reports principal moments in ascending order", func() {
		p, err := parts.New("box", 12, mgl64.Vec3{}, mgl64.Vec3{1, 2, 3}, parts.Hull{})
		Expect(err).NotTo(HaveOccurred())
		moments, err := craft.PrincipalMoments(p.Inertia)
		Expect(err).NotTo(HaveOccurred())
		Expect(moments[0]).To(BeNumerically("~", 5, 1e-9))
		Expect(moments[1]).To(BeNumerically("~", 10, 1e-9))
		Expect(moments[2]).To(BeNumerically("~", 13, 1e-9))
	})
})
