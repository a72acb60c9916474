package physics

import (
	"github.com/san-kum/shipsim/internal/craft"
	"github.com/san-kum/shipsim/internal/dynamo"
)

// Gravity acts at the center of mass and produces no torque.
func Gravity(ship *craft.Spaceship, env Environment) dynamo.Loads {
	return dynamo.Loads{Force: env.Gravity.Mul(ship.TotalMass())}
}
