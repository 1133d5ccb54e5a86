// Package obslog wraps apex/log with the CLI-friendly handler used for
// the observatory's informational and warning output: SRV resolution
// misses (spec.md §4.2 — "logs are informational"), io_persist failures
// (spec.md §7), and sampler lifecycle events.
package obslog

import (
	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/google/uuid"
)

func init() {
	log.SetHandler(cli.Default)
}

// NewRunID mints a correlation ID for one fan-out round, port scan, or
// monitor session, attached to every log line it touches via WithField.
func NewRunID() string {
	return uuid.NewString()
}

// Infof logs an informational message; used for silent/fallback paths
// that must never surface as caller-visible errors (SRV misses, cache
// expiry).
func Infof(format string, args ...any) {
	log.Infof(format, args...)
}

// Warnf logs a recoverable condition — a swallowed cache or file error
// that the caller never sees.
func Warnf(format string, args ...any) {
	log.Warnf(format, args...)
}

// Errorf logs an unrecoverable condition surfaced to the operator but
// not necessarily to the probing caller.
func Errorf(format string, args ...any) {
	log.Errorf(format, args...)
}

// WithField returns an apex/log entry pre-populated with one field, for
// call sites that want structured context (server name, endpoint) on
// every subsequent log line.
func WithField(key string, value any) *log.Entry {
	return log.WithField(key, value)
}
