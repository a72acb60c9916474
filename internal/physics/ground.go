package physics

import (
	"github.com/san-kum/shipsim/internal/dynamo"
)

// groundTolerance absorbs the rounding left by clamping onto the ground.
const groundTolerance = 1e-9

// OnGround reports whether the craft rests on, or is sinking into, the
// ground.
func OnGround(x dynamo.State, env Environment) bool {
	if !env.Ground {
		return false
	}
	return x.Altitude() <= env.GroundAltitude+groundTolerance && x.Velocity.Dot(dynamo.Up) <= 0
}

// GroundReaction is the normal force that cancels any downward net force on
// a craft sitting on the ground. While the craft is held down it also
// cancels the net torque, so it sits on its gear instead of tipping.
func GroundReaction(x dynamo.State, env Environment, net dynamo.Loads) dynamo.Loads {
	if !OnGround(x, env) {
		return dynamo.Loads{}
	}
	down := net.Force.Dot(dynamo.Up)
	if down >= 0 {
		return dynamo.Loads{}
	}
	return dynamo.Loads{
		Force:  dynamo.Up.Mul(-down),
		Torque: net.Torque.Mul(-1),
	}
}
