// Package orchestrator implements the concurrent query orchestrator:
// bounded fan-out probes across a server fleet, and common/full-range
// port scanning, both cooperatively cancellable.
package orchestrator

import "sync/atomic"

// CancelFlag is the process-wide cooperative cancellation flag from
// spec.md §5. It is modeled as a cancellation token (an atomic bool)
// rather than a single global so call sites that genuinely cannot thread
// a context.Context (the Ctrl-C handler) still have a way to signal
// cancellation, per the Open Question in spec.md §9 — contexts remain
// the preferred, structured mechanism everywhere else.
type CancelFlag struct {
	v atomic.Bool
}

// Set raises the flag.
func (c *CancelFlag) Set() { c.v.Store(true) }

// Reset lowers the flag; called after an operation returns so the flag
// does not leak into the next fan-out or scan.
func (c *CancelFlag) Reset() { c.v.Store(false) }

// Canceled reports whether the flag is currently raised.
func (c *CancelFlag) Canceled() bool { return c.v.Load() }
