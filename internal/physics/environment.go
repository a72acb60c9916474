package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

const StandardGravity = 9.81

// Environment is the fixed world a run flies through.
type Environment struct {
	Gravity        mgl64.Vec3
	Atmosphere     Atmosphere
	Ground         bool
	GroundAltitude float64
}

func DefaultEnvironment() Environment {
	return Environment{
		Gravity:    mgl64.Vec3{0, 0, -StandardGravity},
		Atmosphere: StandardAtmosphere(),
		Ground:     true,
	}
}

// Vacuum has no gravity, no air and no ground.
func Vacuum() Environment {
	return Environment{}
}

func (e Environment) Density(altitude float64) float64 {
	return e.Atmosphere.Density(altitude)
}

func (e Environment) GetParams() map[string]float64 {
	ground := 0.0
	if e.Ground {
		ground = 1
	}
	return map[string]float64{
		"gravity":           -e.Gravity[2],
		"sea_level_density": e.Atmosphere.SeaLevelDensity,
		"scale_height":      e.Atmosphere.ScaleHeight,
		"ceiling":           e.Atmosphere.Ceiling,
		"ground":            ground,
		"ground_altitude":   e.GroundAltitude,
	}
}

// SetParam updates one named parameter. Gravity is set as a downward
// magnitude.
func (e *Environment) SetParam(name string, value float64) error {
	switch name {
	case "gravity":
		e.Gravity = mgl64.Vec3{0, 0, -value}
	case "sea_level_density":
		e.Atmosphere.SeaLevelDensity = value
	case "scale_height":
		e.Atmosphere.ScaleHeight = value
	case "ceiling":
		e.Atmosphere.Ceiling = value
	case "ground":
		e.Ground = value != 0
	case "ground_altitude":
		e.GroundAltitude = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
