package monitor

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAppendWritesOneJSONLinePerEvent(t *testing.T) {
	dir := t.TempDir()
	p := &Persister{Dir: dir, ServerName: "Survival One"}

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := p.Append(Event{Timestamp: at, Kind: EventInfo, Message: "hello"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := p.Append(Event{Timestamp: at, Kind: EventInfo, Message: "world"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	data, err := os.ReadFile(LogPath(dir, "Survival One", at))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := splitLines(string(data))
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), data)
	}
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

func TestCleanupOldLogsDeletesOldestBeyondRetention(t *testing.T) {
	dir := t.TempDir()
	logsDir := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		t.Fatal(err)
	}

	names := []string{
		"monitor_srv_20260101.log",
		"monitor_srv_20260102.log",
		"monitor_srv_20260103.log",
	}
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(logsDir, n), []byte("{}\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if err := CleanupOldLogs(dir, "srv", 2); err != nil {
		t.Fatalf("CleanupOldLogs: %v", err)
	}

	if _, err := os.Stat(filepath.Join(logsDir, "monitor_srv_20260101.log")); !os.IsNotExist(err) {
		t.Fatal("expected oldest log to be deleted")
	}
	for _, n := range names[1:] {
		if _, err := os.Stat(filepath.Join(logsDir, n)); err != nil {
			t.Fatalf("expected %s to survive: %v", n, err)
		}
	}
}
