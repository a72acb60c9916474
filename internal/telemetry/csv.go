package telemetry

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/shipsim/internal/dynamo"
)

var Header = []string{
	"step", "time", "altitude", "airspeed", "pitch", "throttle",
	"x", "y", "z", "vx", "vy", "vz",
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func Row(s dynamo.Snapshot) []string {
	return []string{
		strconv.Itoa(s.Step),
		formatFloat(s.Time),
		formatFloat(s.Altitude),
		formatFloat(s.Airspeed),
		formatFloat(s.Pitch),
		formatFloat(s.Throttle),
		formatFloat(s.Position[0]),
		formatFloat(s.Position[1]),
		formatFloat(s.Position[2]),
		formatFloat(s.Velocity[0]),
		formatFloat(s.Velocity[1]),
		formatFloat(s.Velocity[2]),
	}
}

func ParseRow(record []string) (dynamo.Snapshot, error) {
	if len(record) != len(Header) {
		return dynamo.Snapshot{}, fmt.Errorf("expected %d fields, got %d", len(Header), len(record))
	}
	step, err := strconv.Atoi(record[0])
	if err != nil {
		return dynamo.Snapshot{}, fmt.Errorf("step: %w", err)
	}

	vals := make([]float64, len(record)-1)
	for i, field := range record[1:] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return dynamo.Snapshot{}, fmt.Errorf("%s: %w", Header[i+1], err)
		}
		vals[i] = v
	}

	return dynamo.Snapshot{
		Step:     step,
		Time:     vals[0],
		Altitude: vals[1],
		Airspeed: vals[2],
		Pitch:    vals[3],
		Throttle: vals[4],
		Position: mgl64.Vec3{vals[5], vals[6], vals[7]},
		Velocity: mgl64.Vec3{vals[8], vals[9], vals[10]},
	}, nil
}

// CSVSink streams snapshots as CSV rows. The first write error is kept and
// later rows are dropped.
type CSVSink struct {
	w      *csv.Writer
	header bool
	err    error
}

func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{w: csv.NewWriter(w)}
}

func (s *CSVSink) OnStep(snap dynamo.Snapshot) {
	if s.err != nil {
		return
	}
	if !s.header {
		s.header = true
		if s.err = s.w.Write(Header); s.err != nil {
			return
		}
	}
	s.err = s.w.Write(Row(snap))
}

// Flush writes buffered rows and returns the first error seen.
func (s *CSVSink) Flush() error {
	s.w.Flush()
	if s.err != nil {
		return s.err
	}
	return s.w.Error()
}

func WriteCSV(w io.Writer, snaps []dynamo.Snapshot) error {
	sink := NewCSVSink(w)
	if len(snaps) == 0 {
		sink.header = true
		sink.err = sink.w.Write(Header)
	}
	for _, s := range snaps {
		sink.OnStep(s)
	}
	return sink.Flush()
}

func ReadCSV(r io.Reader) ([]dynamo.Snapshot, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []dynamo.Snapshot{}, nil
	}

	snaps := make([]dynamo.Snapshot, 0, len(records)-1)
	for i, record := range records[1:] {
		s, err := ParseRow(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		snaps = append(snaps, s)
	}
	return snaps, nil
}
