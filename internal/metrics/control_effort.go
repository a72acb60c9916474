package metrics

import (
	"github.com/san-kum/shipsim/internal/dynamo"
)

// ControlEffort is the mean throttle over the run.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(s dynamo.Snapshot) {
	c.sum += s.Throttle
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// FuelBurned integrates engine consumption over throttle. The craft's mass
// is not reduced; the figure is informational.
type FuelBurned struct {
	name        string
	consumption float64
	burned      float64
	lastT       float64
	lastU       float64
	samples     int
}

// NewFuelBurned takes the combined consumption at full throttle in kg/s.
func NewFuelBurned(consumption float64) *FuelBurned {
	return &FuelBurned{
		name:        "fuel_burned",
		consumption: consumption,
	}
}

func (f *FuelBurned) Name() string { return f.name }

func (f *FuelBurned) Observe(s dynamo.Snapshot) {
	if f.samples > 0 {
		if dt := s.Time - f.lastT; dt > 0 {
			f.burned += f.consumption * f.lastU * dt
		}
	}
	f.lastT = s.Time
	f.lastU = s.Throttle
	f.samples++
}

func (f *FuelBurned) Value() float64 { return f.burned }

func (f *FuelBurned) Reset() {
	f.burned = 0
	f.lastT = 0
	f.lastU = 0
	f.samples = 0
}
