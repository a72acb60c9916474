package metrics

import (
	"math"

	"github.com/san-kum/shipsim/internal/dynamo"
)

// Stability is the fraction of steps whose state was finite and, when a
// threshold is set, whose nose stayed within threshold degrees of vertical.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(snap dynamo.Snapshot) {
	s.samples++
	for _, val := range []float64{snap.Altitude, snap.Airspeed, snap.Pitch} {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			s.violations++
			return
		}
	}
	if s.threshold > 0 && 90-snap.Pitch > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
