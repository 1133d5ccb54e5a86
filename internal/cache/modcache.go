package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"emperror.dev/errors"

	"github.com/mcobservatory/observatory/internal/obslog"
	"github.com/mcobservatory/observatory/internal/record"
)

// ModCache persists mod lists to one JSON file per (host, port) under a
// base directory (spec.md §6: mods_config/<host_with_dots_replaced>_<port>.json).
type ModCache struct {
	dir string
}

// NewModCache constructs a mod cache rooted at dir.
func NewModCache(dir string) *ModCache {
	return &ModCache{dir: dir}
}

func modCacheFilename(host string, port int) string {
	safe := strings.ReplaceAll(host, ".", "_")
	return fmt.Sprintf("%s_%d.json", safe, port)
}

// Get returns the cached mod list for (host, port). Absence or a parse
// error both mean "not cached" (ok=false) — neither is an error
// propagated to the caller, per spec.md §4.6.
func (m *ModCache) Get(host string, port int) (mods []record.ModEntry, ok bool) {
	path := filepath.Join(m.dir, modCacheFilename(host, port))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	if err := json.Unmarshal(data, &mods); err != nil {
		obslog.Warnf("mod cache parse error for %s:%d: %v", host, port, err)
		return nil, false
	}
	return mods, true
}

// Set persists mods for (host, port), writing atomically via a
// write-then-rename into the same directory.
func (m *ModCache) Set(host string, port int, mods []record.ModEntry) error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return errors.WithMessage(errIOPersist, err.Error())
	}

	data, err := json.MarshalIndent(mods, "", "  ")
	if err != nil {
		return errors.WithMessage(errIOPersist, err.Error())
	}

	final := filepath.Join(m.dir, modCacheFilename(host, port))
	tmp, err := os.CreateTemp(m.dir, "modcache-*.tmp")
	if err != nil {
		return errors.WithMessage(errIOPersist, err.Error())
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.WithMessage(errIOPersist, err.Error())
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.WithMessage(errIOPersist, err.Error())
	}
	if err := os.Rename(tmpPath, final); err != nil {
		os.Remove(tmpPath)
		return errors.WithMessage(errIOPersist, err.Error())
	}
	return nil
}
