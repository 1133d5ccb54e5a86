package record

import (
	"sync"
	"time"
)

// HistoryCapacity is the fixed ring-buffer size for query and player
// history, per spec.
const HistoryCapacity = 10

// QuerySample is one entry in a ServerRecord's query-latency ring.
type QuerySample struct {
	Timestamp time.Time
	QueryMs   int64
}

// PlayerSample is one entry in a ServerRecord's player-count ring.
type PlayerSample struct {
	Timestamp time.Time
	Online    int
	Max       int
}

// ModEntry is a single mod id/version pair, used both in probe results
// and the persistent mod cache.
type ModEntry struct {
	ModID   string `json:"modid"`
	Version string `json:"version"`
}

// ServerRecord is the collaborator-owned per-server record. Name, IP,
// Port, Kind and Note are immutable from the core's perspective; the
// remaining fields are written only by the sampler that owns this
// record (spec.md §5), guarded here by a per-record mutex (strategy (a)
// from spec.md §9).
type ServerRecord struct {
	Name string `json:"name"`
	IP   string `json:"ip"`
	Port int    `json:"port"`
	Kind Kind   `json:"kind"`
	Note string `json:"note"`

	mu            sync.Mutex
	lastQuery     time.Time
	queryHistory  *Ring[QuerySample]
	playerHistory *Ring[PlayerSample]
	modList       []ModEntry
	chatUsername  string
}

// NewServerRecord constructs a record with empty history rings.
func NewServerRecord(name, ip string, port int, kind Kind, note string) *ServerRecord {
	return &ServerRecord{
		Name:          name,
		IP:            ip,
		Port:          port,
		Kind:          kind,
		Note:          note,
		queryHistory:  NewRing[QuerySample](HistoryCapacity),
		playerHistory: NewRing[PlayerSample](HistoryCapacity),
	}
}

// Endpoint returns the endpoint this record describes.
func (s *ServerRecord) Endpoint() Endpoint {
	return Endpoint{Host: s.IP, Port: s.Port, Kind: s.Kind}
}

// RecordQuery updates last_query, appends to both history rings, and
// replaces the mod list (Java/Forge only; callers pass nil mods for
// Bedrock or failed probes to leave the list untouched).
func (s *ServerRecord) RecordQuery(at time.Time, queryMs int64, online, max int, mods []ModEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastQuery = at
	s.queryHistory.Push(QuerySample{Timestamp: at, QueryMs: queryMs})
	s.playerHistory.Push(PlayerSample{Timestamp: at, Online: online, Max: max})
	if mods != nil {
		s.modList = mods
	}
}

// LastQuery returns the timestamp of the most recent probe.
func (s *ServerRecord) LastQuery() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastQuery
}

// QueryHistory returns a snapshot of the query-latency ring, oldest first.
func (s *ServerRecord) QueryHistory() []QuerySample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queryHistory.Slice()
}

// PlayerHistory returns a snapshot of the player-count ring, oldest first.
func (s *ServerRecord) PlayerHistory() []PlayerSample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playerHistory.Slice()
}

// ModList returns the last known Forge/FML mod list.
func (s *ServerRecord) ModList() []ModEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ModEntry(nil), s.modList...)
}

// ChatUsername returns the username used for the optional chat session.
func (s *ServerRecord) ChatUsername() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chatUsername
}

// SetChatUsername assigns the username used for the optional chat session.
func (s *ServerRecord) SetChatUsername(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatUsername = name
}
