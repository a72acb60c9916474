package integrators

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/shipsim/internal/dynamo"
	"gonum.org/v1/gonum/floats/scalar"
)

func unitBody(mass float64) dynamo.Body {
	return dynamo.Body{Mass: mass, Inertia: mgl64.Diag3(mgl64.Vec3{100, 200, 300})}
}

func TestVerticalAscentFirstStep(t *testing.T) {
	integ := NewSymplecticEuler()
	body := unitBody(1000)
	loads := dynamo.Loads{Force: mgl64.Vec3{0, 0, 15000 - 1000*9.81}}

	x, err := integ.Step(dynamo.AtAltitude(0), loads, body, 0.1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(x.Velocity[2]-0.519) > 1e-9 {
		t.Errorf("expected v.z=0.519, got %.10f", x.Velocity[2])
	}
	if math.Abs(x.Position[2]-0.0519) > 1e-9 {
		t.Errorf("expected z=0.0519, got %.10f", x.Position[2])
	}
	if x.Position[0] != 0 || x.Position[1] != 0 {
		t.Errorf("expected no lateral motion, got %v", x.Position)
	}
}

func TestExplicitEulerLagsOneStep(t *testing.T) {
	body := unitBody(1000)
	loads := dynamo.Loads{Force: mgl64.Vec3{0, 0, 5190}}

	x, err := NewEuler().Step(dynamo.AtAltitude(0), loads, body, 0.1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if x.Position[2] != 0 {
		t.Errorf("explicit Euler should not move on the first step from rest, got z=%f", x.Position[2])
	}
	if math.Abs(x.Velocity[2]-0.519) > 1e-9 {
		t.Errorf("expected v.z=0.519, got %f", x.Velocity[2])
	}
}

func TestInvalidTimestep(t *testing.T) {
	tests := []struct {
		name string
		dt   float64
	}{
		{"zero", 0},
		{"negative", -0.1},
		{"nan", math.NaN()},
	}

	integs := map[string]dynamo.Integrator{
		"symplectic": NewSymplecticEuler(),
		"euler":      NewEuler(),
	}

	for iname, integ := range integs {
		for _, tt := range tests {
			t.Run(iname+"/"+tt.name, func(t *testing.T) {
				x0 := dynamo.AtAltitude(10)
				x, err := integ.Step(x0, dynamo.Loads{}, unitBody(1), tt.dt)
				if !errors.Is(err, dynamo.ErrInvalidTimestep) {
					t.Errorf("expected ErrInvalidTimestep, got %v", err)
				}
				if x != x0 {
					t.Error("state should be returned unchanged on error")
				}
			})
		}
	}
}

func TestZeroMassRejected(t *testing.T) {
	_, err := NewSymplecticEuler().Step(dynamo.AtAltitude(0), dynamo.Loads{}, dynamo.Body{}, 0.1)
	if !errors.Is(err, dynamo.ErrInvalidAssembly) {
		t.Errorf("expected ErrInvalidAssembly, got %v", err)
	}
}

func TestZeroLoadsAtRestIsIdempotent(t *testing.T) {
	integ := NewSymplecticEuler()
	x0 := dynamo.NewState(mgl64.Vec3{3, -2, 50})
	x := x0

	for i := 0; i < 1000; i++ {
		var err error
		x, err = integ.Step(x, dynamo.Loads{}, unitBody(500), 0.05)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	if x.Position != x0.Position {
		t.Errorf("position drifted: %v -> %v", x0.Position, x.Position)
	}
	if x.Velocity != (mgl64.Vec3{}) {
		t.Errorf("velocity appeared: %v", x.Velocity)
	}
}

func TestOrientationStaysNormalized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	body := unitBody(800)

	for name, integ := range map[string]dynamo.Integrator{"symplectic": NewSymplecticEuler(), "euler": NewEuler()} {
		x := dynamo.AtAltitude(0)
		x.AngularVelocity = mgl64.Vec3{0.3, -1.2, 2.5}
		for i := 0; i < 5000; i++ {
			torque := mgl64.Vec3{rng.NormFloat64() * 50, rng.NormFloat64() * 50, rng.NormFloat64() * 50}
			var err error
			x, err = integ.Step(x, dynamo.Loads{Torque: torque}, body, 0.01)
			if err != nil {
				t.Fatalf("%s step %d: %v", name, i, err)
			}
			if d := math.Abs(x.Orientation.Len() - 1); d > 1e-9 {
				t.Fatalf("%s step %d: |q| off by %g", name, i, d)
			}
		}
	}
}

func TestConstantSpin(t *testing.T) {
	integ := NewSymplecticEuler()
	x := dynamo.AtAltitude(0)
	x.AngularVelocity = mgl64.Vec3{0, 0, 1}

	steps := 100
	dt := (math.Pi / 2) / float64(steps)
	for i := 0; i < steps; i++ {
		var err error
		x, err = integ.Step(x, dynamo.Loads{}, unitBody(1), dt)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	got := x.ToWorld(mgl64.Vec3{1, 0, 0})
	if !vecNear(got, mgl64.Vec3{0, 1, 0}, 1e-9) {
		t.Errorf("expected body x to point along world y after a quarter turn, got %v", got)
	}
}

func TestAngularAccelerationSingular(t *testing.T) {
	got := AngularAcceleration(dynamo.Body{Mass: 1}, mgl64.Vec3{1, 2, 3})
	if got != (mgl64.Vec3{}) {
		t.Errorf("singular inertia should give no angular acceleration, got %v", got)
	}

	got = AngularAcceleration(unitBody(1), mgl64.Vec3{100, 200, 300})
	if !vecNear(got, mgl64.Vec3{1, 1, 1}, 1e-12) {
		t.Errorf("expected (1,1,1), got %v", got)
	}
}

func TestAngularAccelerationUsesCachedInverse(t *testing.T) {
	body := dynamo.Body{Mass: 1, InertiaInverse: mgl64.Diag3(mgl64.Vec3{2, 2, 2})}
	got := AngularAcceleration(body, mgl64.Vec3{1, 2, 3})
	if !vecNear(got, mgl64.Vec3{2, 4, 6}, 1e-12) {
		t.Errorf("expected the supplied inverse to be used, got %v", got)
	}
}

func TestClampToGround(t *testing.T) {
	tests := []struct {
		name    string
		x       dynamo.State
		clamped bool
		wantZ   float64
		wantVz  float64
	}{
		{
			name:    "above ground",
			x:       dynamo.State{Position: mgl64.Vec3{0, 0, 5}, Velocity: mgl64.Vec3{0, 0, -1}, Orientation: mgl64.QuatIdent()},
			clamped: false,
			wantZ:   5,
			wantVz:  -1,
		},
		{
			name:    "sinking",
			x:       dynamo.State{Position: mgl64.Vec3{1, 0, -0.2}, Velocity: mgl64.Vec3{2, 0, -3}, Orientation: mgl64.QuatIdent(), AngularVelocity: mgl64.Vec3{0, 1, 0}},
			clamped: true,
			wantZ:   0,
			wantVz:  0,
		},
		{
			name:    "below but climbing",
			x:       dynamo.State{Position: mgl64.Vec3{0, 0, -0.1}, Velocity: mgl64.Vec3{0, 0, 2}, Orientation: mgl64.QuatIdent()},
			clamped: true,
			wantZ:   0,
			wantVz:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, clamped := ClampToGround(tt.x, 0)
			if clamped != tt.clamped {
				t.Errorf("clamped = %v, want %v", clamped, tt.clamped)
			}
			if got.Position[2] != tt.wantZ || got.Velocity[2] != tt.wantVz {
				t.Errorf("got z=%f vz=%f, want z=%f vz=%f", got.Position[2], got.Velocity[2], tt.wantZ, tt.wantVz)
			}
			if clamped && got.AngularVelocity != (mgl64.Vec3{}) {
				t.Errorf("expected rotation removed, got %v", got.AngularVelocity)
			}
			if got.Velocity[0] != tt.x.Velocity[0] {
				t.Errorf("horizontal velocity should be kept")
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	for _, name := range Names() {
		if _, err := New(name); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	integ, err := New("")
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if _, ok := integ.(*SymplecticEuler); !ok {
		t.Errorf("expected the default to be semi-implicit Euler, got %T", integ)
	}
	if _, err := New("rk4"); err == nil {
		t.Error("expected error for unknown integrator")
	}
}

func vecNear(a, b mgl64.Vec3, tol float64) bool {
	for i := range a {
		if !scalar.EqualWithinAbs(a[i], b[i], tol) {
			return false
		}
	}
	return true
}
