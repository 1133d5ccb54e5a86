// Package probe implements the Java Edition and Bedrock Edition status
// probes, the optional Forge/FML login dialog, and the normalized
// ProbeResult shared across the rest of the observatory.
package probe

import (
	"time"

	"github.com/mcobservatory/observatory/internal/record"
)

// Version describes the reported server/protocol version.
type Version struct {
	Name     string
	Protocol int
}

// PlayerSample is one entry in a status response's player sample list.
type PlayerSample struct {
	Name string
	ID   string
}

// Players describes the reported player counts and (optional) sample.
type Players struct {
	Online int
	Max    int
	Sample []PlayerSample
}

// SrvInfo records the SRV resolution that produced this probe's target,
// populated only when SRV was used for the call.
type SrvInfo struct {
	OriginalHost string
	OriginalPort int
	ResolvedHost string
	ResolvedPort int
}

// Result is the normalized, cross-protocol outcome of a single probe.
//
// Exactly one of Error and the success fields is meaningful. Players.Online
// must be <= Players.Max when both are present, and len(Players.Sample)
// must be <= Players.Online (servers may omit the sample entirely).
type Result struct {
	Kind      record.Kind
	QueryMs   int64
	ConnectMs int64
	Timestamp time.Time

	// Success fields.
	Version Version
	Players Players
	Motd    string
	Forge   bool
	Mods    []record.ModEntry

	// Bedrock-specific fields.
	Edition        string
	GameMode       string
	ServerID       string
	Submotd        string
	GameModeNum    int
	PortIPv4       int
	PortIPv6       int

	// SRV fallback bookkeeping.
	SrvInfo     *SrvInfo
	SrvFallback bool

	// Failure field. Non-empty iff the probe failed.
	Error string
}

// Failed reports whether this result represents a probe failure.
func (r Result) Failed() bool { return r.Error != "" }
