package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/mcobservatory/observatory/internal/probe"
	"github.com/mcobservatory/observatory/internal/record"
)

func TestProbeFleetPreCanceledReturnsCanceledResults(t *testing.T) {
	records := []*record.ServerRecord{
		record.NewServerRecord("a", "127.0.0.1", 1, record.KindJava, ""),
		record.NewServerRecord("b", "127.0.0.1", 2, record.KindJava, ""),
	}
	cancel := &CancelFlag{}
	cancel.Set()

	results := ProbeFleet(context.Background(), records, FleetOptions{
		PerProbeTimeout: 50 * time.Millisecond,
		TotalTimeout:    time.Second,
		Cancel:          cancel,
	})

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for i, r := range results {
		if r.Error != string(probe.ErrCanceled) {
			t.Fatalf("result %d error = %q, want %q", i, r.Error, probe.ErrCanceled)
		}
	}
	if cancel.Canceled() {
		t.Fatal("cancel flag should be reset after ProbeFleet returns")
	}
}

func TestProbeFleetUnreachableHostsReportErrors(t *testing.T) {
	records := []*record.ServerRecord{
		record.NewServerRecord("unreachable", "192.0.2.1", 25565, record.KindJava, ""),
	}

	results := ProbeFleet(context.Background(), records, FleetOptions{
		PerProbeTimeout: 200 * time.Millisecond,
		TotalTimeout:    2 * time.Second,
	})

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if !results[0].Failed() {
		t.Fatal("expected a failed result for an unreachable host")
	}
}

func TestProbeFleetProgressCallbackCountsEveryRecord(t *testing.T) {
	records := []*record.ServerRecord{
		record.NewServerRecord("a", "192.0.2.1", 1, record.KindJava, ""),
		record.NewServerRecord("b", "192.0.2.1", 2, record.KindJava, ""),
		record.NewServerRecord("c", "192.0.2.1", 3, record.KindJava, ""),
	}
	var maxDone int
	ProbeFleet(context.Background(), records, FleetOptions{
		PerProbeTimeout: 100 * time.Millisecond,
		TotalTimeout:    2 * time.Second,
		Progress: func(done, total int) {
			if done > maxDone {
				maxDone = done
			}
			if total != len(records) {
				t.Fatalf("progress total = %d, want %d", total, len(records))
			}
		},
	})
	if maxDone != len(records) {
		t.Fatalf("progress never reached %d, stopped at %d", len(records), maxDone)
	}
}
