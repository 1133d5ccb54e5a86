package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/mcobservatory/observatory/internal/record"
)

// State is one node of the per-monitor state machine from spec.md §4.8.
type State string

const (
	StateCreated   State = "created"
	StateRunning   State = "running"
	StatePagerOpen State = "pager_open"
	StateStopped   State = "stopped"
)

// Monitor ties a Sampler, its Stream and an optional Persister together,
// and tracks the created/running/pager_open/stopped state machine. The
// sampler keeps running while the UI is in pager_open — only the UI
// layer transitions in and out of that state.
type Monitor struct {
	Record    *record.ServerRecord
	Sampler   *Sampler
	Stream    *Stream
	Persister *Persister // nil disables persistence

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
}

// NewMonitor constructs a monitor in state "created".
func NewMonitor(rec *record.ServerRecord, sampler *Sampler, persister *Persister) *Monitor {
	return &Monitor{
		Record:    rec,
		Sampler:   sampler,
		Stream:    NewStream(),
		Persister: persister,
		state:     StateCreated,
	}
}

// State returns the current state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Start transitions created -> running and launches the sampler
// goroutine. A drainer goroutine persists each drained event if a
// Persister is set. Safe to call only once per monitor.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.state != StateCreated {
		m.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.state = StateRunning
	m.mu.Unlock()

	go m.Sampler.Run(runCtx, m.Stream)
	go m.drainLoop(runCtx)
}

// EnterPager transitions running -> pager_open. The sampler is
// unaffected; it never stops during pager mode (spec.md §4.8).
func (m *Monitor) EnterPager() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateRunning {
		m.state = StatePagerOpen
	}
}

// ExitPager transitions pager_open -> running.
func (m *Monitor) ExitPager() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StatePagerOpen {
		m.state = StateRunning
	}
}

// Stop transitions to "stopped" and cancels the sampler goroutine.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
	}
	m.state = StateStopped
}

func (m *Monitor) drainLoop(ctx context.Context) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.flush()
			return
		case <-ticker.C:
			m.flush()
		}
	}
}

func (m *Monitor) flush() {
	for _, e := range m.Stream.Drain() {
		if m.Persister != nil {
			_ = m.Persister.Append(e)
		}
	}
}
