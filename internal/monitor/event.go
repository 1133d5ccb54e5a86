// Package monitor implements the event-driven monitor engine: a
// per-server sampler, diff-to-event derivation, an ordered event stream,
// and JSONL log persistence with retention.
package monitor

import "time"

// EventKind names the derived event categories from spec.md §4.8. Order
// here matches the pager's grouped-by-kind display order.
type EventKind string

const (
	EventStatusChange EventKind = "status_change"
	EventPlayerJoin   EventKind = "player_join"
	EventPlayerLeave  EventKind = "player_leave"
	EventPlayerCount  EventKind = "player_count"
	EventInfo         EventKind = "info"
)

// GroupOrder is the fixed kind ordering used by the pager's and
// dashboard's grouped-by-kind display mode.
var GroupOrder = []EventKind{
	EventStatusChange, EventPlayerJoin, EventPlayerLeave, EventPlayerCount, EventInfo,
}

// Event is one derived monitor event.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      EventKind `json:"kind"`
	Message   string    `json:"message"`
	Diff      int       `json:"diff,omitempty"`
	Player    string    `json:"player,omitempty"`
}

// Order selects how a list of events is laid out for display, shared by
// the pager and the single-/multi-server dashboards.
type Order int

const (
	// OrderByTime lists events by timestamp ascending (their natural
	// order in the stream's history).
	OrderByTime Order = iota
	// OrderGroupedByKind groups events by GroupOrder, stable time order
	// within each group.
	OrderGroupedByKind
)

// OrderEvents returns events laid out per order. OrderByTime returns
// events unchanged; OrderGroupedByKind returns a stable-sorted copy.
func OrderEvents(events []Event, order Order) []Event {
	if order == OrderByTime {
		return events
	}

	rank := make(map[EventKind]int, len(GroupOrder))
	for i, k := range GroupOrder {
		rank[k] = i
	}
	sorted := append([]Event(nil), events...)
	// stable time order within each group: history is already
	// time-ordered, so a stable sort by kind rank preserves it.
	for i := 1; i < len(sorted); i++ {
		j := i
		for j > 0 && rank[sorted[j-1].Kind] > rank[sorted[j].Kind] {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
			j--
		}
	}
	return sorted
}
