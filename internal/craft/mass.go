package craft

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/shipsim/internal/dynamo"
	"github.com/san-kum/shipsim/internal/parts"
	"gonum.org/v1/gonum/mat"
)

// MassProperties are the rigid-body mass properties of a set of parts.
// Inertia is about CenterOfMass in craft axes.
type MassProperties struct {
	TotalMass    float64
	CenterOfMass mgl64.Vec3
	Inertia      mgl64.Mat3
}

// Aggregate combines part masses, centroids and inertia tensors using the
// parallel axis theorem. Tank fuel counts as part mass.
func Aggregate(ps []parts.Part) (MassProperties, error) {
	if len(ps) == 0 {
		return MassProperties{}, fmt.Errorf("%w: no parts", dynamo.ErrInvalidAssembly)
	}

	var total float64
	var moment mgl64.Vec3
	for i, p := range ps {
		if err := p.Validate(); err != nil {
			return MassProperties{}, fmt.Errorf("%w: part %d: %w", dynamo.ErrInvalidAssembly, i, err)
		}
		m := p.TotalMass()
		total += m
		moment = moment.Add(p.Position.Mul(m))
	}
	if !(total > 0) || math.IsInf(total, 0) {
		return MassProperties{}, fmt.Errorf("%w: total mass must be positive, got %g", dynamo.ErrInvalidAssembly, total)
	}

	com := moment.Mul(1 / total)

	var inertia mgl64.Mat3
	for _, p := range ps {
		shifted := parts.ParallelAxis(p.TotalMass(), p.Position.Sub(com))
		inertia = inertia.Add(p.Inertia).Add(shifted)
	}

	return MassProperties{
		TotalMass:    total,
		CenterOfMass: com,
		Inertia:      inertia,
	}, nil
}

// PrincipalMoments returns the eigenvalues of a symmetric inertia tensor in
// ascending order.
func PrincipalMoments(m mgl64.Mat3) ([3]float64, error) {
	sym := mat.NewSymDense(3, []float64{
		m.At(0, 0), m.At(0, 1), m.At(0, 2),
		m.At(1, 0), m.At(1, 1), m.At(1, 2),
		m.At(2, 0), m.At(2, 1), m.At(2, 2),
	})

	var eig mat.EigenSym
	if ok := eig.Factorize(sym, false); !ok {
		return [3]float64{}, fmt.Errorf("eigen decomposition failed")
	}

	var out [3]float64
	copy(out[:], eig.Values(nil))
	return out, nil
}

// PositiveDefinite reports whether every principal moment exceeds tol.
func PositiveDefinite(m mgl64.Mat3, tol float64) bool {
	moments, err := PrincipalMoments(m)
	if err != nil {
		return false
	}
	return moments[0] > tol
}
