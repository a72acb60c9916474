package telemetry

import (
	"fmt"
	"io"

	"github.com/san-kum/shipsim/internal/dynamo"
)

// TableSink prints one console line per Every-th snapshot.
type TableSink struct {
	w     io.Writer
	every int
}

func NewTableSink(w io.Writer, every int) *TableSink {
	if every < 1 {
		every = 1
	}
	return &TableSink{w: w, every: every}
}

func (s *TableSink) OnStep(snap dynamo.Snapshot) {
	if snap.Step%s.every != 0 {
		return
	}
	fmt.Fprintln(s.w, snap.String())
}
