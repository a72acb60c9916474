package integrators

import "github.com/san-kum/shipsim/internal/dynamo"

// Euler is the explicit forward Euler method. It moves the position with
// the velocity from the start of the step and gains energy on orbits and
// oscillations; it is kept for comparison runs.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(x dynamo.State, loads dynamo.Loads, body dynamo.Body, dt float64) (dynamo.State, error) {
	if err := checkStep(body, dt); err != nil {
		return x, err
	}

	next := x
	next.Position = x.Position.Add(x.Velocity.Mul(dt))
	next.Velocity = x.Velocity.Add(loads.Force.Mul(dt / body.Mass))
	next.Orientation = Rotate(x.Orientation, x.AngularVelocity, dt)
	next.AngularVelocity = x.AngularVelocity.Add(AngularAcceleration(body, loads.Torque).Mul(dt))
	return next, nil
}
