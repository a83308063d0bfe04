// Package telemetry centralizes structured logging for the core. The
// core server and the transport host are constructed with a
// zerolog.Logger rather than reaching for the bare "log" package,
// mirroring how the teacher threads a *Server reference through its
// handlers; the other subsystems take no logger.
package telemetry

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns a console-friendly logger writing to w (or os.Stdout if
// w is nil), tagged with a "component" field so subsystem output can
// be filtered.
func New(w io.Writer, component string) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}

// Nop returns a logger that discards everything, used by tests that
// don't care about log output.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
