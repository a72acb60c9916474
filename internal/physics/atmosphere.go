package physics

import "math"

const (
	SeaLevelDensity = 1.225
	ScaleHeight     = 8500.0
	Ceiling         = 100000.0
)

// Atmosphere is an isothermal exponential density model.
type Atmosphere struct {
	SeaLevelDensity float64 `yaml:"sea_level_density" json:"sea_level_density" mapstructure:"sea_level_density"`
	ScaleHeight     float64 `yaml:"scale_height" json:"scale_height" mapstructure:"scale_height"`
	Ceiling         float64 `yaml:"ceiling" json:"ceiling" mapstructure:"ceiling"`
}

func StandardAtmosphere() Atmosphere {
	return Atmosphere{
		SeaLevelDensity: SeaLevelDensity,
		ScaleHeight:     ScaleHeight,
		Ceiling:         Ceiling,
	}
}

// Density returns air density in kg/m³. Below sea level the sea-level value
// is used; above the ceiling there is no air. A zero ceiling means none.
func (a Atmosphere) Density(altitude float64) float64 {
	if altitude <= 0 {
		return a.SeaLevelDensity
	}
	if a.Ceiling > 0 && altitude > a.Ceiling {
		return 0
	}
	if a.ScaleHeight <= 0 {
		return a.SeaLevelDensity
	}
	return a.SeaLevelDensity * math.Exp(-altitude/a.ScaleHeight)
}

// DynamicPressure is ½ρv² at the given altitude and speed.
func (a Atmosphere) DynamicPressure(altitude, speed float64) float64 {
	return 0.5 * a.Density(altitude) * speed * speed
}
