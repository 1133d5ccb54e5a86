package probe

import (
	"testing"
)

func TestParsePongFixture(t *testing.T) {
	advertise := "MCPE;Dedicated;630;1.21.0;3;20;12345;World;Survival;1;19132;19133"
	buf := []byte(advertise)

	result, err := parsePong(buf)
	if err != nil {
		t.Fatalf("parsePong: %v", err)
	}
	if result.Edition != "MCPE" {
		t.Fatalf("edition = %q", result.Edition)
	}
	if result.Players.Online != 3 || result.Players.Max != 20 {
		t.Fatalf("players = %+v", result.Players)
	}
	if result.Version.Name != "1.21.0" {
		t.Fatalf("version name = %q", result.Version.Name)
	}
	if result.PortIPv4 != 19132 {
		t.Fatalf("port_ipv4 = %d", result.PortIPv4)
	}
	wantMotd := "Dedicated\nWorld"
	if got := StripColor(result.Motd); got != wantMotd {
		t.Fatalf("motd = %q, want %q", got, wantMotd)
	}
}

func TestParsePongRejectsEmptyPayload(t *testing.T) {
	_, err := parsePong(nil)
	if err == nil {
		t.Fatal("expected error for empty pong payload")
	}
}

func TestParsePongToleratesMissingTrailingFields(t *testing.T) {
	result, err := parsePong([]byte("MCPE;Short Server;630;1.21.0;1;20"))
	if err != nil {
		t.Fatalf("parsePong: %v", err)
	}
	if result.Edition != "MCPE" || result.Version.Name != "1.21.0" {
		t.Fatalf("result = %+v", result)
	}
	if result.ServerID != "" || result.GameMode != "" {
		t.Fatalf("expected empty trailing fields, got %+v", result)
	}
}
