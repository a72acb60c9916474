package metrics

import (
	"github.com/san-kum/shipsim/internal/dynamo"
)

// KineticEnergy reports the translational kinetic energy at the last
// observed step.
type KineticEnergy struct {
	name    string
	mass    float64
	current float64
}

func NewKineticEnergy(mass float64) *KineticEnergy {
	return &KineticEnergy{
		name: "kinetic_energy",
		mass: mass,
	}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(s dynamo.Snapshot) {
	e.current = 0.5 * e.mass * s.Velocity.LenSqr()
}

func (e *KineticEnergy) Value() float64 { return e.current }

func (e *KineticEnergy) Reset() { e.current = 0 }

// MechanicalEnergy reports the largest kinetic plus potential energy seen.
type MechanicalEnergy struct {
	name    string
	mass    float64
	gravity float64
	peak    float64
	samples int
}

func NewMechanicalEnergy(mass, gravity float64) *MechanicalEnergy {
	return &MechanicalEnergy{
		name:    "mechanical_energy",
		mass:    mass,
		gravity: gravity,
	}
}

func (e *MechanicalEnergy) Name() string { return e.name }

func (e *MechanicalEnergy) Observe(s dynamo.Snapshot) {
	energy := 0.5*e.mass*s.Velocity.LenSqr() + e.mass*e.gravity*s.Altitude
	if e.samples == 0 || energy > e.peak {
		e.peak = energy
	}
	e.samples++
}

func (e *MechanicalEnergy) Value() float64 { return e.peak }

func (e *MechanicalEnergy) Reset() {
	e.peak = 0
	e.samples = 0
}
