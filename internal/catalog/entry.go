package catalog

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/shipsim/internal/dynamo"
	"github.com/san-kum/shipsim/internal/parts"
)

// Entry is one catalog record. Angles are in degrees.
type Entry struct {
	Name     string      `yaml:"name"`
	Category string      `yaml:"category"`
	Mass     float64     `yaml:"mass"`
	Position [3]float64  `yaml:"position"`
	Size     [3]float64  `yaml:"size"`
	Rotation [3]float64  `yaml:"rotation,omitempty"`
	Inertia  *[3]float64 `yaml:"inertia,omitempty"`

	DragArea        float64 `yaml:"drag_area,omitempty"`
	DragCoefficient float64 `yaml:"drag_coefficient,omitempty"`

	Crew int `yaml:"crew,omitempty"`

	Fuel         float64 `yaml:"fuel,omitempty"`
	FuelCapacity float64 `yaml:"fuel_capacity,omitempty"`

	Thrust      float64     `yaml:"thrust,omitempty"`
	Consumption float64     `yaml:"consumption,omitempty"`
	Direction   *[3]float64 `yaml:"direction,omitempty"`

	Area       float64     `yaml:"area,omitempty"`
	LiftSlope  float64     `yaml:"lift_slope,omitempty"`
	StallAngle float64     `yaml:"stall_angle,omitempty"`
	Chord      *[3]float64 `yaml:"chord,omitempty"`
	Normal     *[3]float64 `yaml:"normal,omitempty"`
}

func vec(v *[3]float64) mgl64.Vec3 {
	if v == nil {
		return mgl64.Vec3{}
	}
	return mgl64.Vec3(*v)
}

func (e Entry) Kind() (parts.Kind, error) {
	k, err := parts.ParseKind(e.Category)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", dynamo.ErrInvalidPart, e.Name, err)
	}
	return k, nil
}

func (e Entry) spec(k parts.Kind) parts.Spec {
	switch k {
	case parts.KindCockpit:
		return parts.Cockpit{Crew: e.Crew}
	case parts.KindTank:
		return parts.Tank{FuelMass: e.Fuel, FuelCapacity: e.FuelCapacity}
	case parts.KindEngine:
		return parts.Engine{
			MaxThrust:       e.Thrust,
			Direction:       vec(e.Direction),
			FuelConsumption: e.Consumption,
		}
	case parts.KindWing:
		return parts.Wing{
			Area:            e.Area,
			LiftSlope:       e.LiftSlope,
			DragCoefficient: e.DragCoefficient,
			StallAngle:      mgl64.DegToRad(e.StallAngle),
			Chord:           vec(e.Chord),
			Normal:          vec(e.Normal),
		}
	default:
		return parts.Hull{DragArea: e.DragArea, DragCoefficient: e.DragCoefficient}
	}
}

// Part builds the validated part the entry describes. Only hull and wing
// entries contribute drag.
func (e Entry) Part() (parts.Part, error) {
	k, err := e.Kind()
	if err != nil {
		return parts.Part{}, err
	}

	var opts []parts.Option
	if e.Rotation != ([3]float64{}) {
		q := mgl64.AnglesToQuat(
			mgl64.DegToRad(e.Rotation[0]),
			mgl64.DegToRad(e.Rotation[1]),
			mgl64.DegToRad(e.Rotation[2]),
			mgl64.XYZ,
		)
		opts = append(opts, parts.WithOrientation(q))
	}
	if e.Inertia != nil {
		opts = append(opts, parts.WithInertia(mgl64.Diag3(vec(e.Inertia))))
	}

	return parts.New(e.Name, e.Mass, mgl64.Vec3(e.Position), mgl64.Vec3(e.Size), e.spec(k), opts...)
}
