package integrators

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/shipsim/internal/dynamo"
)

// singularDet matches the threshold the craft uses for its cached inverse.
const singularDet = 1e-12

// SymplecticEuler is the semi-implicit Euler method: velocities are updated
// first and the new velocities move the position and orientation.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (s *SymplecticEuler) Step(x dynamo.State, loads dynamo.Loads, body dynamo.Body, dt float64) (dynamo.State, error) {
	if err := checkStep(body, dt); err != nil {
		return x, err
	}

	next := x
	next.Velocity = x.Velocity.Add(loads.Force.Mul(dt / body.Mass))
	next.Position = x.Position.Add(next.Velocity.Mul(dt))
	next.AngularVelocity = x.AngularVelocity.Add(AngularAcceleration(body, loads.Torque).Mul(dt))
	next.Orientation = Rotate(x.Orientation, next.AngularVelocity, dt)
	return next, nil
}

func checkStep(body dynamo.Body, dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", dynamo.ErrInvalidTimestep, dt)
	}
	if !(body.Mass > 0) {
		return fmt.Errorf("%w: mass must be positive, got %g", dynamo.ErrInvalidAssembly, body.Mass)
	}
	return nil
}

// AngularAcceleration solves I·α = τ in the body frame, using the body's
// cached inverse when it has one. A singular tensor yields no angular
// acceleration.
func AngularAcceleration(body dynamo.Body, torque mgl64.Vec3) mgl64.Vec3 {
	if torque == (mgl64.Vec3{}) {
		return mgl64.Vec3{}
	}
	inv := body.InertiaInverse
	if inv == (mgl64.Mat3{}) {
		if math.Abs(body.Inertia.Det()) <= singularDet {
			return mgl64.Vec3{}
		}
		inv = body.Inertia.Inv()
	}
	return inv.Mul3x1(torque)
}

// Rotate advances q by the exact rotation |ω|·dt about the body-frame axis
// ω̂ and returns the result normalized.
func Rotate(q mgl64.Quat, omega mgl64.Vec3, dt float64) mgl64.Quat {
	rate := omega.Len()
	if rate == 0 {
		return q.Normalize()
	}
	delta := mgl64.QuatRotate(rate*dt, omega.Mul(1/rate))
	return q.Mul(delta).Normalize()
}
