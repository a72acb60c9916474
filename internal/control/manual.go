package control

import (
	"sync/atomic"

	"github.com/san-kum/shipsim/internal/dynamo"
)

// Manual returns whatever throttle was last set. It is safe to set from a
// different goroutine than the one running the simulation.
type Manual struct {
	u atomic.Value
}

func NewManual(initial float64) *Manual {
	m := &Manual{}
	m.Set(initial)
	return m
}

func (m *Manual) Set(u float64) {
	m.u.Store(Clamp(u))
}

// Adjust changes the throttle by delta and returns the new value.
func (m *Manual) Adjust(delta float64) float64 {
	u := Clamp(m.Get() + delta)
	m.u.Store(u)
	return u
}

func (m *Manual) Get() float64 {
	if v, ok := m.u.Load().(float64); ok {
		return v
	}
	return 0
}

func (m *Manual) Throttle(x dynamo.State, t float64) float64 {
	return m.Get()
}
