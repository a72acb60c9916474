package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ParseLevel maps a level name to a zerolog level. Unknown names fall back
// to info.
func ParseLevel(name string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "OFF", "DISABLED":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

type Options struct {
	Level string
	// JSON writes raw JSON lines instead of the console format.
	JSON bool
	// NoColor disables ANSI colors in console output.
	NoColor bool
	// File, when set, also receives every event without colors.
	File io.Writer
}

// New builds a logger writing to w in console format.
func New(w io.Writer, opts Options) zerolog.Logger {
	var out io.Writer = w
	if !opts.JSON {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
			NoColor:    opts.NoColor,
		}
	}
	if opts.File != nil {
		out = zerolog.MultiLevelWriter(out, zerolog.ConsoleWriter{
			Out:        opts.File,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
	}

	return zerolog.New(out).
		Level(ParseLevel(opts.Level)).
		With().Timestamp().Logger()
}

// Sampled thins a logger for per-step events: a burst of events per period,
// then one in n.
func Sampled(l zerolog.Logger, burst uint32, period time.Duration, n uint32) zerolog.Logger {
	return l.Sample(&zerolog.BurstSampler{
		Burst:       burst,
		Period:      period,
		NextSampler: &zerolog.BasicSampler{N: n},
	})
}
