package control

import (
	"fmt"
	"sort"

	"github.com/san-kum/shipsim/internal/dynamo"
)

// Func adapts a pure time profile to a controller.
type Func func(t float64) float64

func (f Func) Throttle(x dynamo.State, t float64) float64 {
	return Clamp(f(t))
}

type Constant struct {
	Value float64
}

func NewConstant(u float64) *Constant {
	return &Constant{Value: u}
}

func (c *Constant) Throttle(x dynamo.State, t float64) float64 {
	return Clamp(c.Value)
}

// Takeoff holds the engines off until At, then runs at full throttle.
type Takeoff struct {
	At float64
}

func NewTakeoff(at float64) *Takeoff {
	return &Takeoff{At: at}
}

func (p *Takeoff) Throttle(x dynamo.State, t float64) float64 {
	if t < p.At {
		return 0
	}
	return 1
}

// Ramp idles before takeoff, climbs at a reduced setting for a while, then
// goes to full throttle.
type Ramp struct {
	Takeoff       float64
	Idle          float64
	Climb         float64
	ClimbDuration float64
}

func NewRamp(takeoff float64) *Ramp {
	return &Ramp{
		Takeoff:       takeoff,
		Idle:          0.4,
		Climb:         0.7,
		ClimbDuration: 2.0,
	}
}

func (r *Ramp) Throttle(x dynamo.State, t float64) float64 {
	switch {
	case t < r.Takeoff:
		return Clamp(r.Idle)
	case t < r.Takeoff+r.ClimbDuration:
		return Clamp(r.Climb)
	default:
		return 1
	}
}

type Point struct {
	Time     float64 `yaml:"time" json:"time" mapstructure:"time"`
	Throttle float64 `yaml:"throttle" json:"throttle" mapstructure:"throttle"`
}

// Schedule is a piecewise throttle profile. Between points it either holds
// the earlier value or interpolates linearly. Before the first point the
// throttle is 0.
type Schedule struct {
	points      []Point
	interpolate bool
}

func NewSchedule(points []Point, interpolate bool) (*Schedule, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: empty throttle schedule", dynamo.ErrInvalidConfig)
	}
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })
	return &Schedule{points: sorted, interpolate: interpolate}, nil
}

func (s *Schedule) Throttle(x dynamo.State, t float64) float64 {
	i := sort.Search(len(s.points), func(i int) bool { return s.points[i].Time > t })
	if i == 0 {
		return 0
	}
	prev := s.points[i-1]
	if !s.interpolate || i == len(s.points) {
		return Clamp(prev.Throttle)
	}
	next := s.points[i]
	span := next.Time - prev.Time
	if span <= 0 {
		return Clamp(next.Throttle)
	}
	frac := (t - prev.Time) / span
	return Clamp(prev.Throttle + frac*(next.Throttle-prev.Throttle))
}
