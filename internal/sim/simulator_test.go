package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/shipsim/internal/control"
	"github.com/san-kum/shipsim/internal/craft"
	"github.com/san-kum/shipsim/internal/dynamo"
	"github.com/san-kum/shipsim/internal/integrators"
	"github.com/san-kum/shipsim/internal/metrics"
	"github.com/san-kum/shipsim/internal/parts"
	"github.com/san-kum/shipsim/internal/physics"
)

func testShip(t *testing.T) *craft.Spaceship {
	t.Helper()
	engine, err := parts.New("engine", 1000, mgl64.Vec3{}, mgl64.Vec3{1, 1, 2}, parts.Engine{MaxThrust: 15000})
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	ship, err := craft.New(engine)
	if err != nil {
		t.Fatalf("craft: %v", err)
	}
	return ship
}

type recorder struct {
	snaps []dynamo.Snapshot
}

func (r *recorder) OnStep(s dynamo.Snapshot) { r.snaps = append(r.snaps, s) }

type failingIntegrator struct {
	after int
	calls int
}

func (f *failingIntegrator) Step(x dynamo.State, loads dynamo.Loads, body dynamo.Body, dt float64) (dynamo.State, error) {
	f.calls++
	if f.calls > f.after {
		return x, dynamo.ErrInvalidTimestep
	}
	return x, nil
}

type nanIntegrator struct{}

func (nanIntegrator) Step(x dynamo.State, loads dynamo.Loads, body dynamo.Body, dt float64) (dynamo.State, error) {
	x.Velocity[0] = math.NaN()
	return x, nil
}

func TestVerticalAscentScenario(t *testing.T) {
	s := New(integrators.NewSymplecticEuler(), control.NewConstant(1), physics.DefaultEnvironment())
	cfg := dynamo.Config{Dt: 0.1, Duration: 0.1, ValidateState: true}

	result, err := s.Run(context.Background(), testShip(t), dynamo.AtAltitude(0), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Snapshots) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(result.Snapshots))
	}
	x := result.Final
	if math.Abs(x.Velocity[2]-0.519) > 1e-9 {
		t.Errorf("expected v.z=0.519, got %.10f", x.Velocity[2])
	}
	if math.Abs(x.Position[2]-0.0519) > 1e-9 {
		t.Errorf("expected z=0.0519, got %.10f", x.Position[2])
	}
	if snap := result.Snapshots[1]; math.Abs(snap.Time-0.1) > 1e-12 || math.Abs(snap.Altitude-0.0519) > 1e-9 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestTakeoffScenario(t *testing.T) {
	s := New(integrators.NewSymplecticEuler(), control.NewTakeoff(5), physics.DefaultEnvironment())
	cfg := dynamo.Config{Dt: 0.1, Duration: 8, ValidateState: true}

	result, err := s.Run(context.Background(), testShip(t), dynamo.AtAltitude(0), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	var lastAlt float64
	for _, snap := range result.Snapshots {
		switch {
		case snap.Time < 5-1e-9:
			if snap.Position != (mgl64.Vec3{}) || snap.Velocity != (mgl64.Vec3{}) {
				t.Fatalf("t=%.1f: craft moved before takeoff: pos=%v vel=%v", snap.Time, snap.Position, snap.Velocity)
			}
			if snap.Throttle != 0 {
				t.Fatalf("t=%.1f: throttle %f before takeoff", snap.Time, snap.Throttle)
			}
		case snap.Time > 5+1e-9:
			if snap.Altitude <= lastAlt {
				t.Fatalf("t=%.1f: expected climb, altitude %f after %f", snap.Time, snap.Altitude, lastAlt)
			}
			if snap.Velocity[2] <= 0 {
				t.Fatalf("t=%.1f: expected upward velocity, got %f", snap.Time, snap.Velocity[2])
			}
		}
		lastAlt = snap.Altitude
	}
	if result.Final.Altitude() <= 0 {
		t.Errorf("expected the craft to be airborne at the end, got altitude %f", result.Final.Altitude())
	}
}

func TestSnapshotCount(t *testing.T) {
	s := New(integrators.NewSymplecticEuler(), control.NewNone(), physics.Vacuum())
	obs := &recorder{}
	s.AddObserver(obs)

	result, err := s.Run(context.Background(), testShip(t), dynamo.AtAltitude(100), dynamo.Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Snapshots) != 11 {
		t.Errorf("expected 11 snapshots, got %d", len(result.Snapshots))
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}
	if len(obs.snaps) != 11 {
		t.Errorf("observer saw %d snapshots, expected 11", len(obs.snaps))
	}
	if result.Final.Position != (mgl64.Vec3{0, 0, 100}) {
		t.Errorf("craft moved in vacuum without thrust: %v", result.Final.Position)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s := New(integrators.NewSymplecticEuler(), control.NewNone(), physics.DefaultEnvironment())

	tests := []struct {
		name string
		cfg  dynamo.Config
		want error
	}{
		{"zero dt", dynamo.Config{Dt: 0, Duration: 1.0}, dynamo.ErrInvalidTimestep},
		{"negative dt", dynamo.Config{Dt: -0.1, Duration: 1.0}, dynamo.ErrInvalidTimestep},
		{"zero duration", dynamo.Config{Dt: 0.1, Duration: 0}, dynamo.ErrInvalidConfig},
		{"negative duration", dynamo.Config{Dt: 0.1, Duration: -1.0}, dynamo.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Run(context.Background(), testShip(t), dynamo.AtAltitude(0), tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := s.Run(context.Background(), nil, dynamo.AtAltitude(0), dynamo.DefaultConfig()); !errors.Is(err, dynamo.ErrInvalidAssembly) {
		t.Errorf("expected ErrInvalidAssembly for a missing craft, got %v", err)
	}
}

func TestIntegratorErrorAbortsRun(t *testing.T) {
	integ := &failingIntegrator{after: 3}
	s := New(integ, control.NewNone(), physics.Vacuum())

	result, err := s.Run(context.Background(), testShip(t), dynamo.AtAltitude(10), dynamo.Config{Dt: 0.1, Duration: 1})
	var simErr *dynamo.SimulationError
	if !errors.As(err, &simErr) {
		t.Fatalf("expected SimulationError, got %v", err)
	}
	if simErr.Step != 3 {
		t.Errorf("expected failure at step 3, got %d", simErr.Step)
	}
	if !errors.Is(err, dynamo.ErrInvalidTimestep) {
		t.Errorf("expected wrapped ErrInvalidTimestep, got %v", err)
	}
	if result == nil || result.StepsTaken != 3 {
		t.Errorf("expected partial result with 3 steps, got %+v", result)
	}
}

func TestInvalidStateAbortsRun(t *testing.T) {
	s := New(nanIntegrator{}, control.NewNone(), physics.Vacuum())
	cfg := dynamo.Config{Dt: 0.1, Duration: 1, ValidateState: true}

	_, err := s.Run(context.Background(), testShip(t), dynamo.AtAltitude(10), cfg)
	if !errors.Is(err, dynamo.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	s := New(integrators.NewSymplecticEuler(), control.NewNone(), physics.DefaultEnvironment())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx, testShip(t), dynamo.AtAltitude(0), dynamo.DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.StepsTaken != 0 {
		t.Errorf("expected an empty partial result, got %+v", result)
	}
}

func TestMetricsCollected(t *testing.T) {
	ship := testShip(t)
	s := New(integrators.NewSymplecticEuler(), control.NewConstant(1), physics.DefaultEnvironment())
	for _, m := range metrics.Defaults(ship, physics.StandardGravity) {
		s.AddMetric(m)
	}

	result, err := s.Run(context.Background(), ship, dynamo.AtAltitude(0), dynamo.Config{Dt: 0.1, Duration: 5})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Metrics["max_altitude"] != result.Final.Altitude() {
		t.Errorf("a steady climb should peak at the end: %f vs %f", result.Metrics["max_altitude"], result.Final.Altitude())
	}
	if result.Metrics["stability"] != 1 {
		t.Errorf("expected full stability, got %f", result.Metrics["stability"])
	}
	if result.Metrics["control_effort"] != 1 {
		t.Errorf("expected full throttle effort, got %f", result.Metrics["control_effort"])
	}
}

func TestRunWithCallbackStops(t *testing.T) {
	s := New(integrators.NewSymplecticEuler(), control.NewConstant(1), physics.DefaultEnvironment())
	count := 0
	err := s.RunWithCallback(context.Background(), testShip(t), dynamo.AtAltitude(0), dynamo.DefaultConfig(), func(snap dynamo.Snapshot) bool {
		count++
		return snap.Step < 4
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 5 {
		t.Errorf("expected 5 callbacks, got %d", count)
	}
}

func TestGroundHoldsCraftBelowHoverThrust(t *testing.T) {
	s := New(integrators.NewSymplecticEuler(), control.NewConstant(0.5), physics.DefaultEnvironment())
	result, err := s.Run(context.Background(), testShip(t), dynamo.AtAltitude(0), dynamo.Config{Dt: 0.05, Duration: 3})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Final.Position != (mgl64.Vec3{}) {
		t.Errorf("7500 N should not lift 1000 kg, final position %v", result.Final.Position)
	}
}

func TestSnapshotThrottleLagsOneStep(t *testing.T) {
	s := New(integrators.NewSymplecticEuler(), control.NewTakeoff(0.2), physics.DefaultEnvironment())
	cfg := dynamo.Config{Dt: 0.1, Duration: 0.4, ValidateState: true}

	res, err := s.Run(context.Background(), testShip(t), dynamo.AtAltitude(0), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// Full throttle is commanded at t=0.2 and first reported by the
	// snapshot that closes that step.
	want := []float64{0, 0, 0, 1, 1}
	if len(res.Snapshots) != len(want) {
		t.Fatalf("expected %d snapshots, got %d", len(want), len(res.Snapshots))
	}
	for i, snap := range res.Snapshots {
		if snap.Throttle != want[i] {
			t.Errorf("snapshot %d (t=%.1f): expected throttle %g, got %g", i, snap.Time, want[i], snap.Throttle)
		}
	}
	if res.Snapshots[2].Altitude != 0 || res.Snapshots[3].Altitude <= 0 {
		t.Errorf("expected liftoff in the step after t=0.2, got %+v", res.Snapshots[2:4])
	}
}
