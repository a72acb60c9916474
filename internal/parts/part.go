package parts

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/shipsim/internal/dynamo"
)

type Kind int

const (
	KindCockpit Kind = iota
	KindHull
	KindTank
	KindEngine
	KindWing
)

var kindNames = [...]string{"cockpit", "hull", "tank", "engine", "wing"}

// Kinds lists every category in catalog order.
var Kinds = []Kind{KindCockpit, KindHull, KindTank, KindEngine, KindWing}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown part category: %q", s)
}

// Spec is the category-specific payload of a part. Exactly one of Cockpit,
// Hull, Tank, Engine or Wing.
type Spec interface {
	Kind() Kind
}

type Cockpit struct {
	Crew int
}

type Hull struct {
	DragArea        float64
	DragCoefficient float64
}

// Tank fuel is carried as fixed mass; it does not drain.
type Tank struct {
	FuelMass     float64
	FuelCapacity float64
}

type Engine struct {
	MaxThrust       float64
	Direction       mgl64.Vec3
	FuelConsumption float64
}

// Wing lift acts in the plane spanned by Chord and Normal. A positive angle
// of attack produces lift towards Normal.
type Wing struct {
	Area            float64
	LiftSlope       float64
	DragCoefficient float64
	StallAngle      float64
	Chord           mgl64.Vec3
	Normal          mgl64.Vec3
}

func (Cockpit) Kind() Kind { return KindCockpit }
func (Hull) Kind() Kind    { return KindHull }
func (Tank) Kind() Kind    { return KindTank }
func (Engine) Kind() Kind  { return KindEngine }
func (Wing) Kind() Kind    { return KindWing }

// DefaultHullDragCoefficient is used when a hull leaves its coefficient unset.
const DefaultHullDragCoefficient = 0.7

// CdA returns the hull's drag coefficient times its drag area.
func (h Hull) CdA() float64 {
	cd := h.DragCoefficient
	if cd == 0 {
		cd = DefaultHullDragCoefficient
	}
	return cd * h.DragArea
}

// Axis returns the unit thrust direction, defaulting to the nose axis.
func (e Engine) Axis() mgl64.Vec3 {
	if e.Direction.Len() == 0 {
		return dynamo.Nose
	}
	return e.Direction.Normalize()
}

// Axes returns the unit chord and normal, with the normal made perpendicular
// to the chord. Unset axes default to chord +z and normal +x.
func (w Wing) Axes() (chord, normal mgl64.Vec3) {
	chord, normal = w.Chord, w.Normal
	if chord.Len() == 0 {
		chord = dynamo.Nose
	}
	chord = chord.Normalize()
	if normal.Len() == 0 {
		normal = mgl64.Vec3{1, 0, 0}
	}
	normal = normal.Sub(chord.Mul(normal.Dot(chord)))
	if normal.Len() == 0 {
		normal = chord.Cross(mgl64.Vec3{0, 1, 0})
	}
	return chord, normal.Normalize()
}

func (w Wing) CdA() float64 { return w.DragCoefficient * w.Area }

// Part is one salvaged component. Position and Inertia are expressed in the
// craft reference frame; Inertia is taken about the part's own centroid.
// Parts are values: a craft copies them and never changes them in place.
type Part struct {
	Name        string
	Mass        float64
	Position    mgl64.Vec3
	Orientation mgl64.Quat
	Inertia     mgl64.Mat3
	Spec        Spec
}

type Option func(*Part)

func WithOrientation(q mgl64.Quat) Option {
	return func(p *Part) { p.Orientation = q.Normalize() }
}

// WithInertia overrides the inertia tensor derived from the part size.
func WithInertia(m mgl64.Mat3) Option {
	return func(p *Part) { p.Inertia = m }
}

// New builds a validated part whose inertia is that of a solid box of the
// given size, rotated by the part orientation into craft axes.
func New(name string, mass float64, position, size mgl64.Vec3, spec Spec, opts ...Option) (Part, error) {
	p := Part{
		Name:        name,
		Mass:        mass,
		Position:    position,
		Orientation: mgl64.QuatIdent(),
		Spec:        spec,
	}
	for _, opt := range opts {
		opt(&p)
	}
	if p.Inertia == (mgl64.Mat3{}) {
		p.Inertia = RotateInertia(BoxInertia(p.TotalMass(), size), p.Orientation)
	}

	if err := p.Validate(); err != nil {
		return Part{}, err
	}
	return p, nil
}

func (p Part) Kind() Kind {
	if p.Spec == nil {
		return KindHull
	}
	return p.Spec.Kind()
}

// TotalMass is the dry mass plus any fuel carried.
func (p Part) TotalMass() float64 {
	if t, ok := p.Spec.(Tank); ok {
		return p.Mass + t.FuelMass
	}
	return p.Mass
}

// LocalOrientation returns the part orientation, treating the zero
// quaternion as identity.
func (p Part) LocalOrientation() mgl64.Quat {
	if p.Orientation.W == 0 && p.Orientation.V.Len() == 0 {
		return mgl64.QuatIdent()
	}
	return p.Orientation.Normalize()
}

// ToCraft rotates a part-local direction into craft axes.
func (p Part) ToCraft(v mgl64.Vec3) mgl64.Vec3 {
	return p.LocalOrientation().Rotate(v)
}

func (p Part) Validate() error {
	if p.Spec == nil {
		return fmt.Errorf("%w: %s: missing category", dynamo.ErrInvalidPart, p.Name)
	}
	if !(p.Mass > 0) || math.IsInf(p.Mass, 0) {
		return fmt.Errorf("%w: %s: mass must be positive, got %g", dynamo.ErrInvalidPart, p.Name, p.Mass)
	}
	if !IsSymmetric(p.Inertia, 1e-9) {
		return fmt.Errorf("%w: %s: inertia tensor is not symmetric", dynamo.ErrInvalidPart, p.Name)
	}

	switch s := p.Spec.(type) {
	case Tank:
		if s.FuelMass < 0 {
			return fmt.Errorf("%w: %s: fuel mass must not be negative", dynamo.ErrInvalidPart, p.Name)
		}
		if s.FuelCapacity > 0 && s.FuelMass > s.FuelCapacity {
			return fmt.Errorf("%w: %s: fuel mass %g exceeds capacity %g", dynamo.ErrInvalidPart, p.Name, s.FuelMass, s.FuelCapacity)
		}
	case Engine:
		if s.MaxThrust < 0 {
			return fmt.Errorf("%w: %s: max thrust must not be negative", dynamo.ErrInvalidPart, p.Name)
		}
	case Wing:
		if s.Area < 0 {
			return fmt.Errorf("%w: %s: wing area must not be negative", dynamo.ErrInvalidPart, p.Name)
		}
		if s.StallAngle < 0 {
			return fmt.Errorf("%w: %s: stall angle must not be negative", dynamo.ErrInvalidPart, p.Name)
		}
	case Hull:
		if s.DragArea < 0 {
			return fmt.Errorf("%w: %s: drag area must not be negative", dynamo.ErrInvalidPart, p.Name)
		}
	}
	return nil
}

func (p Part) String() string {
	return fmt.Sprintf("%s (%s, %.1f kg)", p.Name, p.Kind(), p.TotalMass())
}
