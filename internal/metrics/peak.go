package metrics

import (
	"github.com/san-kum/shipsim/internal/dynamo"
)

// Peak tracks the largest value of one snapshot field.
type Peak struct {
	name    string
	field   func(dynamo.Snapshot) float64
	peak    float64
	samples int
}

func NewPeak(name string, field func(dynamo.Snapshot) float64) *Peak {
	return &Peak{name: name, field: field}
}

func NewMaxAltitude() *Peak {
	return NewPeak("max_altitude", func(s dynamo.Snapshot) float64 { return s.Altitude })
}

func NewMaxAirspeed() *Peak {
	return NewPeak("max_airspeed", func(s dynamo.Snapshot) float64 { return s.Airspeed })
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(s dynamo.Snapshot) {
	v := p.field(s)
	if p.samples == 0 || v > p.peak {
		p.peak = v
	}
	p.samples++
}

func (p *Peak) Value() float64 { return p.peak }

func (p *Peak) Reset() {
	p.peak = 0
	p.samples = 0
}
