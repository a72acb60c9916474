package metrics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/shipsim/internal/dynamo"
)

func snap(t, alt float64, v mgl64.Vec3, u float64) dynamo.Snapshot {
	return dynamo.Snapshot{
		Time:     t,
		Altitude: alt,
		Airspeed: v.Len(),
		Pitch:    90,
		Throttle: u,
		Position: mgl64.Vec3{0, 0, alt},
		Velocity: v,
	}
}

func TestKineticEnergy(t *testing.T) {
	m := NewKineticEnergy(2.0)
	m.Observe(snap(0, 0, mgl64.Vec3{0, 0, 10}, 1))
	m.Observe(snap(1, 5, mgl64.Vec3{3, 0, 4}, 1))

	if math.Abs(m.Value()-25) > 1e-12 {
		t.Errorf("expected final energy 25, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestMechanicalEnergyPeak(t *testing.T) {
	m := NewMechanicalEnergy(1.0, 10)
	m.Observe(snap(0, 0, mgl64.Vec3{0, 0, 10}, 0))
	m.Observe(snap(1, 5, mgl64.Vec3{0, 0, 0}, 0))
	m.Observe(snap(2, 1, mgl64.Vec3{}, 0))

	if math.Abs(m.Value()-50) > 1e-12 {
		t.Errorf("expected peak 50, got %f", m.Value())
	}
}

func TestPeaks(t *testing.T) {
	alt := NewMaxAltitude()
	speed := NewMaxAirspeed()
	for i, s := range []dynamo.Snapshot{
		snap(0, -2, mgl64.Vec3{0, 0, -1}, 0),
		snap(1, 40, mgl64.Vec3{0, 0, 30}, 0),
		snap(2, 35, mgl64.Vec3{0, 0, 5}, 0),
	} {
		alt.Observe(s)
		speed.Observe(s)
		if i == 0 && alt.Value() != -2 {
			t.Errorf("first sample should seed the peak, got %f", alt.Value())
		}
	}
	if alt.Value() != 40 || speed.Value() != 30 {
		t.Errorf("expected 40 m and 30 m/s, got %f and %f", alt.Value(), speed.Value())
	}
}

func TestFuelBurned(t *testing.T) {
	m := NewFuelBurned(8)
	m.Observe(snap(0, 0, mgl64.Vec3{}, 1))
	m.Observe(snap(0.5, 0, mgl64.Vec3{}, 0.5))
	m.Observe(snap(1.5, 0, mgl64.Vec3{}, 0))

	// 8·1·0.5 + 8·0.5·1.0
	if math.Abs(m.Value()-8) > 1e-12 {
		t.Errorf("expected 8 kg, got %f", m.Value())
	}
}

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()
	for _, u := range []float64{0, 0.5, 1} {
		m.Observe(snap(0, 0, mgl64.Vec3{}, u))
	}
	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("expected mean 0.5, got %f", m.Value())
	}
}

func TestStability(t *testing.T) {
	m := NewStability(30)
	m.Observe(snap(0, 0, mgl64.Vec3{}, 0))
	tilted := snap(1, 0, mgl64.Vec3{}, 0)
	tilted.Pitch = 45
	m.Observe(tilted)
	broken := snap(2, math.NaN(), mgl64.Vec3{}, 0)
	m.Observe(broken)
	m.Observe(snap(3, 0, mgl64.Vec3{}, 0))

	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 1 {
		t.Errorf("expected 1 with no samples, got %f", m.Value())
	}
}

func TestAltitudeError(t *testing.T) {
	m := NewAltitudeError(10)
	if m.Value() != 0 {
		t.Error("expected zero error before any sample")
	}
	m.Observe(snap(0, 7, mgl64.Vec3{}, 0))
	m.Observe(snap(1, 14, mgl64.Vec3{}, 0))

	want := math.Sqrt((9 + 16) / 2.0)
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("expected %f, got %f", want, m.Value())
	}
	if m.Name() != "altitude_rms_error" {
		t.Errorf("unexpected name %q", m.Name())
	}
}
