package config

import (
	"sort"

	"github.com/san-kum/shipsim/internal/control"
)

var Presets = map[string]*Config{
	"demo": DefaultConfig(),
	"ascent": func() *Config {
		c := DefaultConfig()
		c.Controller = "constant"
		c.Duration = 10
		return c
	}(),
	"hop": func() *Config {
		c := DefaultConfig()
		c.Controller = "schedule"
		c.Duration = 30
		c.Schedule = []control.Point{
			{Time: 2, Throttle: 1},
			{Time: 6, Throttle: 0.6},
			{Time: 10, Throttle: 0},
		}
		return c
	}(),
	"glide": func() *Config {
		c := DefaultConfig()
		c.Controller = "none"
		c.Duration = 30
		c.InitState = InitStateConfig{
			Altitude: 800,
			Velocity: [3]float64{60, 0, -2},
			Pitch:    5,
		}
		return c
	}(),
	"hover": func() *Config {
		c := DefaultConfig()
		c.Controller = "hover"
		c.Duration = 60
		c.ControllerParams.Target = 50
		c.ControllerParams.Hover = 0.8
		return c
	}(),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
