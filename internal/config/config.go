package config

import (
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/shipsim/internal/catalog"
	"github.com/san-kum/shipsim/internal/control"
	"github.com/san-kum/shipsim/internal/craft"
	"github.com/san-kum/shipsim/internal/dynamo"
	"github.com/san-kum/shipsim/internal/integrators"
	"github.com/san-kum/shipsim/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.1
	DefaultDuration = 20.0
	DefaultTakeoff  = 5.0
	DefaultKp       = 0.02
	DefaultKi       = 0.002
	DefaultKd       = 0.1
)

type Config struct {
	Ship             string            `yaml:"ship" mapstructure:"ship"`
	Parts            []string          `yaml:"parts,omitempty" mapstructure:"parts"`
	Catalog          string            `yaml:"catalog,omitempty" mapstructure:"catalog"`
	Integrator       string            `yaml:"integrator" mapstructure:"integrator"`
	Controller       string            `yaml:"controller" mapstructure:"controller"`
	Dt               float64           `yaml:"dt" mapstructure:"dt"`
	Duration         float64           `yaml:"duration" mapstructure:"duration"`
	Takeoff          float64           `yaml:"takeoff" mapstructure:"takeoff"`
	LogLevel         string            `yaml:"log_level" mapstructure:"log_level"`
	InitState        InitStateConfig   `yaml:"init_state" mapstructure:"init_state"`
	ControllerParams ControllerConfig  `yaml:"controller_params" mapstructure:"controller_params"`
	Schedule         []control.Point   `yaml:"schedule,omitempty" mapstructure:"schedule"`
	Interpolate      bool              `yaml:"interpolate" mapstructure:"interpolate"`
	Environment      EnvironmentConfig `yaml:"environment" mapstructure:"environment"`
}

// InitStateConfig places the craft at the start of a run. Pitch is in
// degrees above the horizon; 90 is nose up.
type InitStateConfig struct {
	Altitude float64    `yaml:"altitude" mapstructure:"altitude"`
	Velocity [3]float64 `yaml:"velocity" mapstructure:"velocity"`
	Pitch    float64    `yaml:"pitch" mapstructure:"pitch"`
}

type ControllerConfig struct {
	Throttle float64 `yaml:"throttle" mapstructure:"throttle"`
	Kp       float64 `yaml:"kp" mapstructure:"kp"`
	Ki       float64 `yaml:"ki" mapstructure:"ki"`
	Kd       float64 `yaml:"kd" mapstructure:"kd"`
	Target   float64 `yaml:"target" mapstructure:"target"`
	Hover    float64 `yaml:"hover" mapstructure:"hover"`
}

type EnvironmentConfig struct {
	Gravity        float64            `yaml:"gravity" mapstructure:"gravity"`
	Ground         bool               `yaml:"ground" mapstructure:"ground"`
	GroundAltitude float64            `yaml:"ground_altitude" mapstructure:"ground_altitude"`
	Atmosphere     physics.Atmosphere `yaml:"atmosphere" mapstructure:"atmosphere"`
}

func DefaultConfig() *Config {
	return &Config{
		Ship:       catalog.DefaultShipName,
		Integrator: integrators.Default,
		Controller: "ramp",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Takeoff:    DefaultTakeoff,
		LogLevel:   "info",
		InitState: InitStateConfig{
			Pitch: 90,
		},
		ControllerParams: ControllerConfig{
			Throttle: 1,
			Kp:       DefaultKp,
			Ki:       DefaultKi,
			Kd:       DefaultKd,
		},
		Environment: EnvironmentConfig{
			Gravity:    physics.StandardGravity,
			Ground:     true,
			Atmosphere: physics.StandardAtmosphere(),
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy, so presets can be customised safely.
func (c *Config) Clone() *Config {
	out := *c
	out.Parts = append([]string(nil), c.Parts...)
	out.Schedule = append([]control.Point(nil), c.Schedule...)
	return &out
}

func (c *Config) Validate() error {
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", dynamo.ErrInvalidTimestep, c.Dt)
	}
	if !(c.Duration > 0) || math.IsInf(c.Duration, 0) {
		return fmt.Errorf("%w: duration must be positive, got %g", dynamo.ErrInvalidConfig, c.Duration)
	}
	if c.Takeoff < 0 {
		return fmt.Errorf("%w: takeoff must not be negative, got %g", dynamo.ErrInvalidConfig, c.Takeoff)
	}
	if c.Controller == "schedule" && len(c.Schedule) == 0 {
		return fmt.Errorf("%w: schedule controller needs points", dynamo.ErrInvalidConfig)
	}
	return nil
}

func (c *Config) SimConfig() dynamo.Config {
	return dynamo.Config{
		Dt:            c.Dt,
		Duration:      c.Duration,
		ValidateState: true,
	}
}

func (c *Config) Env() physics.Environment {
	return physics.Environment{
		Gravity:        mgl64.Vec3{0, 0, -c.Environment.Gravity},
		Atmosphere:     c.Environment.Atmosphere,
		Ground:         c.Environment.Ground,
		GroundAltitude: c.Environment.GroundAltitude,
	}
}

// InitialState rotates the nose from vertical down to the configured pitch,
// towards +x.
func (c *Config) InitialState() dynamo.State {
	x := dynamo.AtAltitude(c.InitState.Altitude)
	x.Velocity = mgl64.Vec3(c.InitState.Velocity)
	if tilt := 90 - c.InitState.Pitch; tilt != 0 {
		x.Orientation = mgl64.QuatRotate(mgl64.DegToRad(tilt), mgl64.Vec3{0, 1, 0})
	}
	return x
}

func (c *Config) GetControllerParams() map[string]float64 {
	return map[string]float64{
		"throttle": c.ControllerParams.Throttle,
		"takeoff":  c.Takeoff,
		"kp":       c.ControllerParams.Kp,
		"ki":       c.ControllerParams.Ki,
		"kd":       c.ControllerParams.Kd,
		"target":   c.ControllerParams.Target,
		"hover":    c.ControllerParams.Hover,
	}
}

func (c *Config) BuildController() (dynamo.Controller, error) {
	if c.Controller == "schedule" {
		return control.NewSchedule(c.Schedule, c.Interpolate)
	}
	return control.New(c.Controller, c.GetControllerParams())
}

func (c *Config) BuildIntegrator() (dynamo.Integrator, error) {
	return integrators.New(c.Integrator)
}

func (c *Config) LoadCatalog() (*catalog.Catalog, error) {
	if c.Catalog == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(c.Catalog)
}

// BuildShip assembles the explicit part list when one is given, and the
// named catalog ship otherwise.
func (c *Config) BuildShip() (*craft.Spaceship, error) {
	cat, err := c.LoadCatalog()
	if err != nil {
		return nil, err
	}
	if len(c.Parts) > 0 {
		return cat.Build(c.Parts...)
	}
	name := c.Ship
	if name == "" {
		name = catalog.DefaultShipName
	}
	return cat.Ship(name)
}

// PartNames lists the parts BuildShip assembles.
func (c *Config) PartNames() []string {
	if len(c.Parts) > 0 {
		return append([]string(nil), c.Parts...)
	}
	cat, err := c.LoadCatalog()
	if err != nil {
		return nil
	}
	names, _ := cat.ShipParts(c.Ship)
	return names
}
