package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mcobservatory/observatory/internal/obsmetrics"
	"github.com/mcobservatory/observatory/internal/probe"
	"github.com/mcobservatory/observatory/internal/record"
)

// Sampler is the dedicated background task per monitored server from
// spec.md §4.8. Each wake calls Prober, diffs against the previous
// result, and emits derived events onto a Stream. The sampler adds no
// cache of its own but does not bypass one inside Prober: with
// orchestrator.NewDefaultProber, as the CLI wires it, a wake within
// cache.StatusTTL of an earlier probe of the same endpoint gets the
// cached status rather than a fresh one.
//
// Run's ticker goroutine and ProbeNow's synchronous manual-probe path
// (the single-server UI's `r` key) both call wake, so interval and the
// previous result are guarded by mu rather than left as bare fields.
type Sampler struct {
	Record *record.ServerRecord
	Prober samplerProber

	mu       sync.Mutex
	interval time.Duration
	prev     *probe.Result
	latest   probe.Result
}

// samplerProber narrows the orchestrator.Prober interface to avoid an
// import cycle (orchestrator already depends on record and probe).
type samplerProber interface {
	ProbeJava(ctx context.Context, host string, port int) (probe.Result, error)
	ProbeBedrock(ctx context.Context, host string, port int) (probe.Result, error)
}

// NewSampler constructs a sampler for rec, clamping interval to [5,300]s
// per spec.md §4.8.
func NewSampler(rec *record.ServerRecord, prober samplerProber, interval time.Duration) *Sampler {
	return &Sampler{Record: rec, Prober: prober, interval: clampInterval(interval)}
}

func clampInterval(d time.Duration) time.Duration {
	if d < 5*time.Second {
		return 5 * time.Second
	}
	if d > 300*time.Second {
		return 300 * time.Second
	}
	return d
}

// Interval returns the current wake cadence.
func (s *Sampler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// SetInterval adjusts the wake cadence, clamped to [5,300]s (the `+`/`-`
// key handler in the single-server UI calls this in 5s steps).
func (s *Sampler) SetInterval(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = clampInterval(d)
}

// Latest returns the most recent probe result and whether one has
// happened yet, used by the single-server UI's detail panel.
func (s *Sampler) Latest() (probe.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.prev != nil
}

// Run wakes on the configured interval until ctx is canceled, probing
// and emitting events to stream on each wake. Intended to run in its
// own goroutine, one per monitored server (spec.md §5).
func (s *Sampler) Run(ctx context.Context, stream *Stream) {
	ticker := time.NewTicker(s.Interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.wake(ctx, stream)
			ticker.Reset(s.Interval())
		}
	}
}

// ProbeNow performs a single synchronous wake, used by the `r` (manual
// probe) key in both single- and multi-server UIs.
func (s *Sampler) ProbeNow(ctx context.Context, stream *Stream) {
	s.wake(ctx, stream)
}

func (s *Sampler) wake(ctx context.Context, stream *Stream) {
	var result probe.Result
	var err error
	if s.Record.Kind == record.KindBedrock {
		result, err = s.Prober.ProbeBedrock(ctx, s.Record.IP, s.Record.Port)
	} else {
		result, err = s.Prober.ProbeJava(ctx, s.Record.IP, s.Record.Port)
	}
	now := time.Now()
	if err != nil {
		result = probe.Result{Kind: s.Record.Kind, Timestamp: now, Error: err.Error()}
	}

	s.mu.Lock()
	events := diff(s.prev, &result, now)
	prev := result
	s.prev = &prev
	s.latest = result
	s.mu.Unlock()

	for _, e := range events {
		stream.Push(e)
		obsmetrics.MonitorEventsTotal.WithLabelValues(string(e.Kind)).Inc()
	}

	mods := result.Mods
	if s.Record.Kind != record.KindJava || result.Failed() {
		mods = nil
	}
	s.Record.RecordQuery(now, result.QueryMs, result.Players.Online, result.Players.Max, mods)
}

// diff computes the events spec.md §4.8 step 2 describes for a
// transition from prev (nil on first wake) to cur.
func diff(prev *probe.Result, cur *probe.Result, at time.Time) []Event {
	var events []Event

	if prev == nil {
		return events
	}

	wasUp := !prev.Failed()
	isUp := !cur.Failed()
	if wasUp != isUp {
		msg := "server came online"
		if !isUp {
			msg = fmt.Sprintf("server went offline: %s", cur.Error)
		}
		events = append(events, Event{Timestamp: at, Kind: EventStatusChange, Message: msg})
	}

	if !wasUp || !isUp {
		return events
	}

	if cur.Players.Online != prev.Players.Online {
		events = append(events, Event{
			Timestamp: at,
			Kind:      EventPlayerCount,
			Message:   fmt.Sprintf("player count changed: %d -> %d", prev.Players.Online, cur.Players.Online),
			Diff:      cur.Players.Online - prev.Players.Online,
		})
	}

	if len(prev.Players.Sample) > 0 || len(cur.Players.Sample) > 0 {
		events = append(events, joinLeaveEvents(prev.Players.Sample, cur.Players.Sample, at)...)
	}

	return events
}

func joinLeaveEvents(prevSample, curSample []probe.PlayerSample, at time.Time) []Event {
	prevNames := make(map[string]bool, len(prevSample))
	for _, p := range prevSample {
		prevNames[probe.StripColor(p.Name)] = true
	}
	curNames := make(map[string]bool, len(curSample))
	for _, p := range curSample {
		curNames[probe.StripColor(p.Name)] = true
	}

	var events []Event
	for name := range curNames {
		if !prevNames[name] {
			events = append(events, Event{Timestamp: at, Kind: EventPlayerJoin, Message: name + " joined", Player: name})
		}
	}
	for name := range prevNames {
		if !curNames[name] {
			events = append(events, Event{Timestamp: at, Kind: EventPlayerLeave, Message: name + " left", Player: name})
		}
	}
	return events
}
