package craft

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/shipsim/internal/dynamo"
	"github.com/san-kum/shipsim/internal/parts"
	"gonum.org/v1/gonum/floats/scalar"
)

func mustPart(t *testing.T, name string, mass float64, pos mgl64.Vec3, spec parts.Spec) parts.Part {
	t.Helper()
	p, err := parts.New(name, mass, pos, mgl64.Vec3{1, 1, 1}, spec)
	if err != nil {
		t.Fatalf("part %s: %v", name, err)
	}
	return p
}

func TestAggregateEmpty(t *testing.T) {
	_, err := Aggregate(nil)
	if !errors.Is(err, dynamo.ErrInvalidAssembly) {
		t.Errorf("expected ErrInvalidAssembly, got %v", err)
	}
	if _, err := New(); !errors.Is(err, dynamo.ErrInvalidAssembly) {
		t.Errorf("expected ErrInvalidAssembly from New, got %v", err)
	}
}

func TestAggregateRejectsBadPart(t *testing.T) {
	bad := parts.Part{Name: "ghost", Mass: 0, Spec: parts.Hull{}}
	_, err := Aggregate([]parts.Part{bad})
	if !errors.Is(err, dynamo.ErrInvalidAssembly) {
		t.Errorf("expected ErrInvalidAssembly, got %v", err)
	}
	if !errors.Is(err, dynamo.ErrInvalidPart) {
		t.Errorf("expected wrapped ErrInvalidPart, got %v", err)
	}
}

func TestAggregateTwoPoints(t *testing.T) {
	a := parts.Part{Name: "a", Mass: 1, Position: mgl64.Vec3{-1, 0, 0}, Spec: parts.Hull{}}
	b := parts.Part{Name: "b", Mass: 3, Position: mgl64.Vec3{1, 0, 0}, Spec: parts.Hull{}}

	mp, err := Aggregate([]parts.Part{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mp.TotalMass != 4 {
		t.Errorf("expected mass 4, got %f", mp.TotalMass)
	}
	if math.Abs(mp.CenterOfMass[0]-0.5) > 1e-12 {
		t.Errorf("expected COM x=0.5, got %f", mp.CenterOfMass[0])
	}
	// 1·1.5² + 3·0.5² about y and z, nothing about x.
	if mp.Inertia.At(0, 0) != 0 {
		t.Errorf("expected zero moment about x, got %f", mp.Inertia.At(0, 0))
	}
	for _, axis := range []int{1, 2} {
		if math.Abs(mp.Inertia.At(axis, axis)-3.0) > 1e-12 {
			t.Errorf("axis %d: expected 3, got %f", axis, mp.Inertia.At(axis, axis))
		}
	}
}

func TestAggregateCountsFuel(t *testing.T) {
	tank := mustPart(t, "tank", 100, mgl64.Vec3{}, parts.Tank{FuelMass: 50})
	mp, err := Aggregate([]parts.Part{tank})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mp.TotalMass != 150 {
		t.Errorf("expected 150, got %f", mp.TotalMass)
	}
}

func TestAttachDetachCopyOnWrite(t *testing.T) {
	hull := mustPart(t, "hull", 500, mgl64.Vec3{}, parts.Hull{DragArea: 1})
	engine := mustPart(t, "engine", 200, mgl64.Vec3{0, 0, -2}, parts.Engine{MaxThrust: 10000})

	base, err := New(hull)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	grown, err := base.Attach(engine)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if base.Len() != 1 || base.TotalMass() != 500 {
		t.Errorf("original craft changed: %d parts, %f kg", base.Len(), base.TotalMass())
	}
	if grown.Len() != 2 || grown.TotalMass() != 700 {
		t.Errorf("expected 2 parts and 700 kg, got %d and %f", grown.Len(), grown.TotalMass())
	}
	if grown.CenterOfMass()[2] >= 0 {
		t.Errorf("COM should move towards the engine, got %v", grown.CenterOfMass())
	}

	shrunk, err := grown.Detach("engine")
	if err != nil {
		t.Fatalf("detach: %v", err)
	}
	if shrunk.TotalMass() != base.TotalMass() || shrunk.CenterOfMass() != base.CenterOfMass() {
		t.Errorf("detach should restore the original mass properties")
	}
	if grown.Len() != 2 {
		t.Errorf("detach changed its receiver")
	}

	if _, err := grown.Detach("reactor"); !errors.Is(err, dynamo.ErrUnknownPart) {
		t.Errorf("expected ErrUnknownPart, got %v", err)
	}
	if _, err := base.Detach("hull"); !errors.Is(err, dynamo.ErrInvalidAssembly) {
		t.Errorf("detaching the last part should fail with ErrInvalidAssembly, got %v", err)
	}
}

func TestPartsReturnsCopy(t *testing.T) {
	ship, err := New(mustPart(t, "hull", 10, mgl64.Vec3{}, parts.Hull{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ps := ship.Parts()
	ps[0].Mass = 9999
	if ship.TotalMass() != 10 || ship.Parts()[0].Mass != 10 {
		t.Error("mutating the returned slice leaked into the craft")
	}
}

func TestDragArea(t *testing.T) {
	ship, err := New(
		mustPart(t, "hull", 10, mgl64.Vec3{}, parts.Hull{DragArea: 2}),
		mustPart(t, "wing", 10, mgl64.Vec3{}, parts.Wing{Area: 4, DragCoefficient: 0.1}),
		mustPart(t, "engine", 10, mgl64.Vec3{}, parts.Engine{MaxThrust: 100}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 0.7*2 + 0.1*4
	if math.Abs(ship.DragArea()-want) > 1e-12 {
		t.Errorf("expected drag area %f, got %f", want, ship.DragArea())
	}
}

func TestSingularInertia(t *testing.T) {
	point := parts.Part{Name: "point", Mass: 5, Spec: parts.Hull{}}
	ship, err := New(point)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := ship.InertiaInverse(); ok {
		t.Error("a single point mass has no invertible inertia")
	}
}

func TestInertiaInverse(t *testing.T) {
	ship, err := New(mustPart(t, "box", 12, mgl64.Vec3{}, parts.Hull{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inv, ok := ship.InertiaInverse()
	if !ok {
		t.Fatal("expected invertible inertia")
	}
	if ship.Body().InertiaInverse != inv {
		t.Error("expected the body to carry the cached inverse")
	}
	id := ship.Inertia().Mul3(inv)
	if !matNear(id, mgl64.Ident3(), 1e-9) {
		t.Errorf("I·I⁻¹ should be identity, got %v", id)
	}
}

func TestSummary(t *testing.T) {
	ship, err := New(
		mustPart(t, "Survey Cockpit", 900, mgl64.Vec3{0, 0, 1.5}, parts.Cockpit{Crew: 2}),
		mustPart(t, "Twin Thruster", 220, mgl64.Vec3{0, 0, -1.8}, parts.Engine{MaxThrust: 32000}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := ship.Summary()
	for _, want := range []string{"total mass:", "1120.0 kg", "principal:", "Survey Cockpit", "engine"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func matNear(a, b mgl64.Mat3, tol float64) bool {
	for i := range a {
		if !scalar.EqualWithinAbs(a[i], b[i], tol) {
			return false
		}
	}
	return true
}
