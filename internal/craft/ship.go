package craft

import (
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/shipsim/internal/dynamo"
	"github.com/san-kum/shipsim/internal/parts"
)

// singularDet is the determinant below which the inertia tensor is treated
// as non-invertible.
const singularDet = 1e-12

// Spaceship is an ordered, immutable assembly of parts with cached mass
// properties. A value may be shared between goroutines.
type Spaceship struct {
	parts      []parts.Part
	mass       MassProperties
	inverse    mgl64.Mat3
	invertible bool
	dragArea   float64
}

// New assembles parts into a craft, computing every derived quantity.
func New(ps ...parts.Part) (*Spaceship, error) {
	mp, err := Aggregate(ps)
	if err != nil {
		return nil, err
	}

	s := &Spaceship{
		parts: slices.Clone(ps),
		mass:  mp,
	}

	if det := mp.Inertia.Det(); math.Abs(det) > singularDet {
		s.inverse = mp.Inertia.Inv()
		s.invertible = true
	}

	for _, p := range ps {
		switch spec := p.Spec.(type) {
		case parts.Hull:
			s.dragArea += spec.CdA()
		case parts.Wing:
			s.dragArea += spec.CdA()
		}
	}

	return s, nil
}

// Attach returns a new craft with the given parts appended.
func (s *Spaceship) Attach(ps ...parts.Part) (*Spaceship, error) {
	next := make([]parts.Part, 0, len(s.parts)+len(ps))
	next = append(next, s.parts...)
	next = append(next, ps...)
	return New(next...)
}

// Detach returns a new craft without the first part called name.
func (s *Spaceship) Detach(name string) (*Spaceship, error) {
	idx := slices.IndexFunc(s.parts, func(p parts.Part) bool { return p.Name == name })
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownPart, name)
	}
	return New(slices.Delete(slices.Clone(s.parts), idx, idx+1)...)
}

// Parts returns a copy of the parts in assembly order.
func (s *Spaceship) Parts() []parts.Part { return slices.Clone(s.parts) }

// Each calls fn for every part in assembly order without copying the list.
func (s *Spaceship) Each(fn func(p parts.Part)) {
	for _, p := range s.parts {
		fn(p)
	}
}

func (s *Spaceship) Len() int { return len(s.parts) }

func (s *Spaceship) MassProperties() MassProperties { return s.mass }
func (s *Spaceship) TotalMass() float64             { return s.mass.TotalMass }
func (s *Spaceship) CenterOfMass() mgl64.Vec3       { return s.mass.CenterOfMass }
func (s *Spaceship) Inertia() mgl64.Mat3            { return s.mass.Inertia }

// InertiaInverse returns the inverse tensor and whether it exists.
func (s *Spaceship) InertiaInverse() (mgl64.Mat3, bool) { return s.inverse, s.invertible }

// DragArea is the aggregate drag coefficient times reference area.
func (s *Spaceship) DragArea() float64 { return s.dragArea }

// Lever is the arm from the center of mass to the part's centroid.
func (s *Spaceship) Lever(p parts.Part) mgl64.Vec3 {
	return p.Position.Sub(s.mass.CenterOfMass)
}

func (s *Spaceship) Body() dynamo.Body {
	return dynamo.Body{Mass: s.mass.TotalMass, Inertia: s.mass.Inertia, InertiaInverse: s.inverse}
}

func (s *Spaceship) MaxThrust() float64 {
	var total float64
	for _, p := range s.parts {
		if e, ok := p.Spec.(parts.Engine); ok {
			total += e.MaxThrust
		}
	}
	return total
}

// FuelConsumption is the combined burn rate of every engine at full throttle.
func (s *Spaceship) FuelConsumption() float64 {
	var total float64
	for _, p := range s.parts {
		if e, ok := p.Spec.(parts.Engine); ok {
			total += e.FuelConsumption
		}
	}
	return total
}

func (s *Spaceship) FuelMass() float64 {
	var total float64
	for _, p := range s.parts {
		if t, ok := p.Spec.(parts.Tank); ok {
			total += t.FuelMass
		}
	}
	return total
}

// ThrustToWeight compares full-throttle thrust with weight under gravity g.
func (s *Spaceship) ThrustToWeight(g float64) float64 {
	if g == 0 {
		return math.Inf(1)
	}
	return s.MaxThrust() / (s.mass.TotalMass * math.Abs(g))
}

// CountByKind reports how many parts of each category the craft carries.
func (s *Spaceship) CountByKind() map[parts.Kind]int {
	out := make(map[parts.Kind]int)
	for _, p := range s.parts {
		out[p.Kind()]++
	}
	return out
}
