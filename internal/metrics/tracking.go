package metrics

import (
	"math"

	"github.com/san-kum/shipsim/internal/dynamo"
)

// AltitudeError is the RMS deviation of altitude from a target.
type AltitudeError struct {
	target  float64
	sumSq   float64
	samples int
}

func NewAltitudeError(target float64) *AltitudeError {
	return &AltitudeError{target: target}
}

func (a *AltitudeError) Name() string { return "altitude_rms_error" }

func (a *AltitudeError) Observe(s dynamo.Snapshot) {
	d := s.Altitude - a.target
	a.sumSq += d * d
	a.samples++
}

func (a *AltitudeError) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return math.Sqrt(a.sumSq / float64(a.samples))
}

func (a *AltitudeError) Reset() {
	a.sumSq = 0
	a.samples = 0
}
