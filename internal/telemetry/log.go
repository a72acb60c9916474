package telemetry

import (
	"github.com/rs/zerolog"
	"github.com/san-kum/shipsim/internal/dynamo"
)

// LogSink writes every Every-th snapshot as a debug event.
type LogSink struct {
	logger zerolog.Logger
	every  int
}

func NewLogSink(l zerolog.Logger, every int) *LogSink {
	if every < 1 {
		every = 1
	}
	return &LogSink{logger: l, every: every}
}

func (s *LogSink) OnStep(snap dynamo.Snapshot) {
	if snap.Step%s.every != 0 {
		return
	}
	s.logger.Debug().
		Int("step", snap.Step).
		Float64("t", snap.Time).
		Float64("altitude", snap.Altitude).
		Float64("airspeed", snap.Airspeed).
		Float64("pitch", snap.Pitch).
		Float64("throttle", snap.Throttle).
		Msg("telemetry")
}
