package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/shipsim/internal/control"
	"github.com/san-kum/shipsim/internal/craft"
	"github.com/san-kum/shipsim/internal/dynamo"
	"github.com/san-kum/shipsim/internal/parts"
)

// Thrust sums every engine at the given throttle. An engine off the center
// of mass, or not aligned with it, adds torque.
func Thrust(x dynamo.State, ship *craft.Spaceship, throttle float64) dynamo.Loads {
	throttle = control.Clamp(throttle)
	if throttle == 0 {
		return dynamo.Loads{}
	}

	var force, torque mgl64.Vec3
	ship.Each(func(p parts.Part) {
		e, ok := p.Spec.(parts.Engine)
		if !ok || e.MaxThrust == 0 {
			return
		}
		f := p.ToCraft(e.Axis()).Mul(throttle * e.MaxThrust)
		force = force.Add(f)
		torque = torque.Add(ship.Lever(p).Cross(f))
	})

	return dynamo.Loads{Force: x.ToWorld(force), Torque: torque}
}
