package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/mcobservatory/observatory/internal/probe"
	"github.com/mcobservatory/observatory/internal/record"
)

func TestDiffEmitsStatusChangeOnTransitionToOffline(t *testing.T) {
	prev := &probe.Result{Players: probe.Players{Online: 2, Max: 10}}
	cur := &probe.Result{Error: string(probe.ErrConnectTimeout)}

	events := diff(prev, cur, time.Now())

	if len(events) != 1 || events[0].Kind != EventStatusChange {
		t.Fatalf("events = %+v, want one status_change", events)
	}
}

func TestDiffEmitsPlayerCountAndJoinLeave(t *testing.T) {
	prev := &probe.Result{
		Players: probe.Players{Online: 1, Max: 10, Sample: []probe.PlayerSample{{Name: "§aAlice"}}},
	}
	cur := &probe.Result{
		Players: probe.Players{Online: 2, Max: 10, Sample: []probe.PlayerSample{{Name: "Alice"}, {Name: "Bob"}}},
	}

	events := diff(prev, cur, time.Now())

	var gotCount, gotJoin bool
	for _, e := range events {
		if e.Kind == EventPlayerCount && e.Diff == 1 {
			gotCount = true
		}
		if e.Kind == EventPlayerJoin && e.Player == "Bob" {
			gotJoin = true
		}
	}
	if !gotCount {
		t.Errorf("missing player_count event with diff=1, got %+v", events)
	}
	if !gotJoin {
		t.Errorf("missing player_join event for Bob, got %+v", events)
	}
}

func TestDiffNilPreviousEmitsNothing(t *testing.T) {
	cur := &probe.Result{Players: probe.Players{Online: 1, Max: 10}}
	if events := diff(nil, cur, time.Now()); events != nil {
		t.Fatalf("events = %+v, want nil on first sample", events)
	}
}

func TestStreamDrainPreservesOrder(t *testing.T) {
	s := NewStream()
	s.Push(Event{Kind: EventInfo, Message: "first"})
	s.Push(Event{Kind: EventInfo, Message: "second"})

	drained := s.Drain()
	if len(drained) != 2 || drained[0].Message != "first" || drained[1].Message != "second" {
		t.Fatalf("drained = %+v", drained)
	}
	if s.Len() != 2 {
		t.Fatalf("history len = %d, want 2", s.Len())
	}
	if more := s.Drain(); more != nil {
		t.Fatalf("second drain = %+v, want nil", more)
	}
}

func TestSafeNameReplacesUnsafeCharacters(t *testing.T) {
	got := SafeName(`my<server>:"weird"/name\|?*`)
	if got != "my_server___weird__name____" {
		t.Fatalf("SafeName = %q", got)
	}
}

func TestNewSamplerClampsInterval(t *testing.T) {
	rec := record.NewServerRecord("s", "127.0.0.1", 25565, record.KindJava, "")
	s := NewSampler(rec, nil, time.Second)
	if got := s.Interval(); got != 5*time.Second {
		t.Fatalf("interval = %v, want clamped to 5s", got)
	}
	s = NewSampler(rec, nil, time.Hour)
	if got := s.Interval(); got != 300*time.Second {
		t.Fatalf("interval = %v, want clamped to 300s", got)
	}
}

func TestSamplerSetIntervalClamps(t *testing.T) {
	rec := record.NewServerRecord("s", "127.0.0.1", 25565, record.KindJava, "")
	s := NewSampler(rec, nil, 30*time.Second)
	s.SetInterval(400 * time.Second)
	if got := s.Interval(); got != 300*time.Second {
		t.Fatalf("interval = %v, want clamped to 300s", got)
	}
	s.SetInterval(time.Second)
	if got := s.Interval(); got != 5*time.Second {
		t.Fatalf("interval = %v, want clamped to 5s", got)
	}
}

func TestSamplerLatestReflectsMostRecentWake(t *testing.T) {
	rec := record.NewServerRecord("s", "127.0.0.1", 25565, record.KindJava, "")
	s := NewSampler(rec, fakeProber{result: probe.Result{Players: probe.Players{Online: 4, Max: 10}}}, 5*time.Second)

	if _, ok := s.Latest(); ok {
		t.Fatal("expected no latest result before the first wake")
	}

	s.ProbeNow(context.Background(), NewStream())

	latest, ok := s.Latest()
	if !ok {
		t.Fatal("expected a latest result after ProbeNow")
	}
	if latest.Players.Online != 4 {
		t.Fatalf("latest = %+v", latest)
	}
}

type fakeProber struct {
	result probe.Result
	err    error
}

func (f fakeProber) ProbeJava(ctx context.Context, host string, port int) (probe.Result, error) {
	return f.result, f.err
}

func (f fakeProber) ProbeBedrock(ctx context.Context, host string, port int) (probe.Result, error) {
	return f.result, f.err
}
