package dynamo

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Nose is the craft's longitudinal axis in the body frame. Engines on the
// default craft fire along it and pitch is measured from it.
var Nose = mgl64.Vec3{0, 0, 1}

// Up is the world vertical; altitude is measured along it.
var Up = mgl64.Vec3{0, 0, 1}

// State is the rigid-body state of one simulation run. Position and
// Velocity are world frame, AngularVelocity is body frame and Orientation
// rotates body vectors into the world frame.
type State struct {
	Position        mgl64.Vec3
	Velocity        mgl64.Vec3
	Orientation     mgl64.Quat
	AngularVelocity mgl64.Vec3
}

// NewState returns a craft at rest at the given position with the nose
// pointing straight up.
func NewState(position mgl64.Vec3) State {
	return State{
		Position:    position,
		Orientation: mgl64.QuatIdent(),
	}
}

// AtAltitude is NewState at (0, 0, altitude).
func AtAltitude(altitude float64) State {
	return NewState(mgl64.Vec3{0, 0, altitude})
}

func (s State) IsValid() bool {
	for _, v := range [][3]float64{s.Position, s.Velocity, s.AngularVelocity, s.Orientation.V} {
		for _, c := range v {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return false
			}
		}
	}
	return !math.IsNaN(s.Orientation.W) && !math.IsInf(s.Orientation.W, 0)
}

func (s State) Altitude() float64 { return s.Position.Dot(Up) }

// Airspeed is the speed relative to still air.
func (s State) Airspeed() float64 { return s.Velocity.Len() }

// Pitch returns the elevation of the nose above the horizon in degrees.
func (s State) Pitch() float64 {
	nose := s.Orientation.Rotate(Nose)
	return mgl64.RadToDeg(math.Asin(mgl64.Clamp(nose.Dot(Up), -1, 1)))
}

// ToWorld rotates a body-frame vector into the world frame.
func (s State) ToWorld(v mgl64.Vec3) mgl64.Vec3 { return s.Orientation.Rotate(v) }

// ToBody rotates a world-frame vector into the body frame.
func (s State) ToBody(v mgl64.Vec3) mgl64.Vec3 { return s.Orientation.Conjugate().Rotate(v) }

// KineticEnergy is the translational plus rotational kinetic energy.
func (s State) KineticEnergy(mass float64, inertia mgl64.Mat3) float64 {
	w := s.AngularVelocity
	return 0.5*mass*s.Velocity.LenSqr() + 0.5*w.Dot(inertia.Mul3x1(w))
}

// Loads is the net force (world frame) and net torque about the center of
// mass (body frame) acting on the craft for one step.
type Loads struct {
	Force  mgl64.Vec3
	Torque mgl64.Vec3
}

func (l Loads) Add(o Loads) Loads {
	return Loads{Force: l.Force.Add(o.Force), Torque: l.Torque.Add(o.Torque)}
}

// Body is the mass model an integrator needs: total mass and the inertia
// tensor about the center of mass in body axes. InertiaInverse may carry a
// precomputed inverse; the zero matrix means none was supplied.
type Body struct {
	Mass           float64
	Inertia        mgl64.Mat3
	InertiaInverse mgl64.Mat3
}

// Snapshot is the telemetry emitted once per step.
type Snapshot struct {
	Step     int
	Time     float64
	Altitude float64
	Airspeed float64
	Pitch    float64
	// Throttle is the setting applied over the step that ended at Time,
	// i.e. the one commanded at Time-dt. The initial snapshot reports the
	// first commanded setting.
	Throttle float64
	Position mgl64.Vec3
	Velocity mgl64.Vec3
}

func NewSnapshot(step int, t float64, x State, throttle float64) Snapshot {
	return Snapshot{
		Step:     step,
		Time:     t,
		Altitude: x.Altitude(),
		Airspeed: x.Airspeed(),
		Pitch:    x.Pitch(),
		Throttle: throttle,
		Position: x.Position,
		Velocity: x.Velocity,
	}
}

func (s Snapshot) String() string {
	return fmt.Sprintf("t=%4.1fs | alt=%6.1f m | speed=%6.1f m/s | pitch=%6.1f°", s.Time, s.Altitude, s.Airspeed, s.Pitch)
}

type Integrator interface {
	Step(x State, loads Loads, body Body, dt float64) (State, error)
}

// Controller decides the throttle for the next step. Implementations may
// ignore the state and act as a pure time profile.
type Controller interface {
	Throttle(x State, t float64) float64
}

type Metric interface {
	Name() string
	Observe(s Snapshot)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Snapshot)
}

type Config struct {
	Dt            float64
	Duration      float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.1,
		Duration:      20.0,
		ValidateState: true,
	}
}

// Steps is the number of integration steps a run of this config takes.
func (c Config) Steps() int {
	if c.Dt <= 0 {
		return 0
	}
	return int(math.Floor(c.Duration/c.Dt + 1e-9))
}

type Result struct {
	Snapshots  []Snapshot
	Final      State
	Metrics    map[string]float64
	StepsTaken int
}
