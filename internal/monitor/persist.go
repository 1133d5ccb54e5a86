package monitor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"emperror.dev/errors"

	"github.com/mcobservatory/observatory/internal/obslog"
)

// LogRetentionDefault is the default cap on monitor log files kept per
// spec.md §4.8 ("files beyond a cap (default 50) are deleted oldest
// first").
const LogRetentionDefault = 50

var unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SafeName replaces characters unsafe in a filename with "_", per
// spec.md §4.8's filename-safe form.
func SafeName(serverName string) string {
	return unsafeFilenameChars.ReplaceAllString(serverName, "_")
}

// LogPath builds the path for today's log file for serverName under dir.
func LogPath(dir, serverName string, at time.Time) string {
	return filepath.Join(dir, "logs", "monitor_"+SafeName(serverName)+"_"+at.Format("20060102")+".log")
}

// Persister appends each event as one JSON object per line to the
// server's daily log file (spec.md §4.8 persistence).
type Persister struct {
	Dir        string
	ServerName string
}

// Append writes e as one JSON-encoded line, creating the logs directory
// and file as needed.
func (p *Persister) Append(e Event) error {
	path := LogPath(p.Dir, p.ServerName, e.Timestamp)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create logs directory")
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "open monitor log")
	}
	defer f.Close()

	data, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "encode monitor event")
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return errors.Wrap(err, "append monitor log")
	}
	return nil
}

// CleanupOldLogs deletes log files for serverName beyond retention,
// oldest-first, called at startup per spec.md §4.8. Failures to remove
// an individual file are logged and skipped, not fatal.
func CleanupOldLogs(dir, serverName string, retention int) error {
	if retention <= 0 {
		retention = LogRetentionDefault
	}
	logsDir := filepath.Join(dir, "logs")
	entries, err := os.ReadDir(logsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "read logs directory")
	}

	prefix := "monitor_" + SafeName(serverName) + "_"
	var matches []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), prefix) && strings.HasSuffix(e.Name(), ".log") {
			matches = append(matches, e.Name())
		}
	}
	sort.Strings(matches) // the YYYYMMDD suffix sorts lexicographically by date

	if len(matches) <= retention {
		return nil
	}
	toDelete := matches[:len(matches)-retention]
	for _, name := range toDelete {
		if err := os.Remove(filepath.Join(logsDir, name)); err != nil {
			obslog.Warnf("remove old monitor log %s: %v", name, err)
		}
	}
	return nil
}
