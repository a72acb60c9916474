package control

import "github.com/san-kum/shipsim/internal/dynamo"

// Feedback is static state feedback on altitude error and climb rate around
// a hover throttle: u = Hover + K[0]·(Target − z) − K[1]·ż.
type Feedback struct {
	K      [2]float64
	Target float64
	Hover  float64
}

func NewFeedback(k [2]float64, target, hover float64) *Feedback {
	return &Feedback{K: k, Target: target, Hover: hover}
}

var hoverGains = [2]float64{0.05, 0.12}

// NewHover returns a feedback controller tuned for a craft whose hover
// throttle is hover.
func NewHover(target, hover float64) *Feedback {
	return NewFeedback(hoverGains, target, hover)
}

func (f *Feedback) Throttle(x dynamo.State, t float64) float64 {
	climb := x.Velocity.Dot(dynamo.Up)
	return Clamp(f.Hover + f.K[0]*(f.Target-x.Altitude()) - f.K[1]*climb)
}
