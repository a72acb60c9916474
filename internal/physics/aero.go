package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/shipsim/internal/craft"
	"github.com/san-kum/shipsim/internal/dynamo"
	"github.com/san-kum/shipsim/internal/parts"
)

// Drag opposes the velocity with magnitude ½ρ|v|²·CdA, where CdA is the
// craft's aggregate drag area. It acts at the center of mass.
func Drag(x dynamo.State, ship *craft.Spaceship, env Environment) dynamo.Loads {
	speed := x.Airspeed()
	if speed == 0 || ship.DragArea() == 0 {
		return dynamo.Loads{}
	}
	q := env.Atmosphere.DynamicPressure(x.Altitude(), speed)
	return dynamo.Loads{Force: x.Velocity.Mul(-q * ship.DragArea() / speed)}
}

// Lift sums the lift of every wing. Each wing uses a linear lift curve in
// its own chord/normal plane, limited by its stall angle.
func Lift(x dynamo.State, ship *craft.Spaceship, env Environment) dynamo.Loads {
	speed := x.Airspeed()
	if speed == 0 {
		return dynamo.Loads{}
	}
	q := env.Atmosphere.DynamicPressure(x.Altitude(), speed)
	if q == 0 {
		return dynamo.Loads{}
	}
	vBody := x.ToBody(x.Velocity)

	var force, torque mgl64.Vec3
	ship.Each(func(p parts.Part) {
		w, ok := p.Spec.(parts.Wing)
		if !ok || w.Area == 0 || w.LiftSlope == 0 {
			return
		}
		alpha, dir := WingIncidence(p, w, vBody)
		if dir == (mgl64.Vec3{}) {
			return
		}
		l := dir.Mul(q * w.Area * w.LiftSlope * alpha)
		force = force.Add(l)
		torque = torque.Add(ship.Lever(p).Cross(l))
	})

	return dynamo.Loads{Force: x.ToWorld(force), Torque: torque}
}

// WingIncidence returns the angle of attack of a wing for the body-frame
// velocity vBody, and the unit direction in craft axes in which positive
// lift acts. The direction is zero when the airflow has no component in the
// wing's plane or meets it edge-on along the normal.
func WingIncidence(p parts.Part, w parts.Wing, vBody mgl64.Vec3) (float64, mgl64.Vec3) {
	chord, normal := w.Axes()
	chord, normal = p.ToCraft(chord), p.ToCraft(normal)

	vc, vn := vBody.Dot(chord), vBody.Dot(normal)
	inPlane := chord.Mul(vc).Add(normal.Mul(vn))
	if inPlane.Len() == 0 {
		return 0, mgl64.Vec3{}
	}
	flow := inPlane.Normalize()

	alpha := math.Atan2(-vn, vc)
	if w.StallAngle > 0 {
		alpha = mgl64.Clamp(alpha, -w.StallAngle, w.StallAngle)
	}

	dir := normal.Sub(flow.Mul(normal.Dot(flow)))
	if dir.Len() < 1e-12 {
		return alpha, mgl64.Vec3{}
	}
	return alpha, dir.Normalize()
}
