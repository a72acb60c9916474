package control

import "github.com/san-kum/shipsim/internal/dynamo"

// PID holds altitude at Target. Base is the feed-forward throttle, usually
// the hover setting. The integral stops growing while the output saturates.
type PID struct {
	Kp       float64
	Ki       float64
	Kd       float64
	Target   float64
	Base     float64
	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

func NewPID(kp, ki, kd, target float64) *PID {
	return &PID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
		first:  true,
	}
}

func (p *PID) Throttle(x dynamo.State, t float64) float64 {
	err := p.Target - x.Altitude()

	if p.first {
		p.prevErr = err
		p.prevT = t
		p.first = false
		return Clamp(p.Base + p.Kp*err)
	}

	dt := t - p.prevT
	if dt <= 0 {
		return Clamp(p.Base + p.Kp*err + p.Ki*p.integral)
	}

	derivative := (err - p.prevErr) / dt
	u := p.Base + p.Kp*err + p.Ki*(p.integral+err*dt) + p.Kd*derivative
	if u == Clamp(u) {
		p.integral += err * dt
	}

	p.prevErr = err
	p.prevT = t

	return Clamp(u)
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.prevT = 0
	p.first = true
}

// Tunable controllers expose named parameters for live adjustment.
type Tunable interface {
	dynamo.Controller
	GetParams() map[string]float64
	SetParam(name string, value float64)
}

// GetParams returns tunable parameters for live adjustment
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp":     p.Kp,
		"Ki":     p.Ki,
		"Kd":     p.Kd,
		"Target": p.Target,
		"Base":   p.Base,
	}
}

// SetParam adjusts a PID parameter
func (p *PID) SetParam(name string, value float64) {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	case "Target":
		p.Target = value
	case "Base":
		p.Base = value
	}
}
