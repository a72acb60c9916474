package physics

import (
	"github.com/san-kum/shipsim/internal/craft"
	"github.com/san-kum/shipsim/internal/dynamo"
)

// Breakdown holds each load contribution separately.
type Breakdown struct {
	Gravity dynamo.Loads
	Thrust  dynamo.Loads
	Drag    dynamo.Loads
	Lift    dynamo.Loads
	Ground  dynamo.Loads
}

func (b Breakdown) Total() dynamo.Loads {
	return b.Gravity.Add(b.Thrust).Add(b.Drag).Add(b.Lift).Add(b.Ground)
}

// Analyze evaluates every contribution for one instant. Throttle is clamped
// to [0, 1].
func Analyze(x dynamo.State, ship *craft.Spaceship, env Environment, throttle float64) Breakdown {
	var b Breakdown
	b.Gravity = Gravity(ship, env)
	b.Thrust = Thrust(x, ship, throttle)
	b.Drag = Drag(x, ship, env)
	b.Lift = Lift(x, ship, env)
	b.Ground = GroundReaction(x, env, b.Gravity.Add(b.Thrust).Add(b.Drag).Add(b.Lift))
	return b
}

// Compute returns the net force (world frame) and torque about the center of
// mass (body frame).
func Compute(x dynamo.State, ship *craft.Spaceship, env Environment, throttle float64) dynamo.Loads {
	return Analyze(x, ship, env, throttle).Total()
}
