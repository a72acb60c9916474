package telemetry

import "github.com/san-kum/shipsim/internal/dynamo"

type Recorder struct {
	Snapshots []dynamo.Snapshot
}

func NewRecorder() *Recorder {
	return &Recorder{Snapshots: make([]dynamo.Snapshot, 0, 256)}
}

func (r *Recorder) OnStep(s dynamo.Snapshot) {
	r.Snapshots = append(r.Snapshots, s)
}

func (r *Recorder) Reset() { r.Snapshots = r.Snapshots[:0] }

// Series extracts one field from every recorded snapshot.
func Series(snaps []dynamo.Snapshot, field func(dynamo.Snapshot) float64) []float64 {
	out := make([]float64, len(snaps))
	for i, s := range snaps {
		out[i] = field(s)
	}
	return out
}

func Altitude(s dynamo.Snapshot) float64 { return s.Altitude }
func Airspeed(s dynamo.Snapshot) float64 { return s.Airspeed }
func Pitch(s dynamo.Snapshot) float64    { return s.Pitch }
func Throttle(s dynamo.Snapshot) float64 { return s.Throttle }
func Time(s dynamo.Snapshot) float64     { return s.Time }

// Fields names the series that Field can extract.
var Fields = []string{"altitude", "airspeed", "pitch", "throttle"}

func Field(name string) (func(dynamo.Snapshot) float64, bool) {
	switch name {
	case "altitude":
		return Altitude, true
	case "airspeed", "speed":
		return Airspeed, true
	case "pitch":
		return Pitch, true
	case "throttle":
		return Throttle, true
	}
	return nil, false
}
