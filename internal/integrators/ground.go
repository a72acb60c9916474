package integrators

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/shipsim/internal/dynamo"
)

// ClampToGround projects a state that has sunk below altitude back onto the
// ground, removing the downward velocity and any rotation. It reports
// whether the state was changed.
func ClampToGround(x dynamo.State, altitude float64) (dynamo.State, bool) {
	if x.Altitude() >= altitude {
		return x, false
	}
	x.Position[2] = altitude
	if x.Velocity[2] < 0 {
		x.Velocity[2] = 0
	}
	x.AngularVelocity = mgl64.Vec3{}
	return x, true
}
