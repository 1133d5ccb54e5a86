// Package config loads the observatory's own settings plus the
// collaborator-owned config.json page_size field (spec.md §6).
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"emperror.dev/errors"

	"github.com/creasty/defaults"
)

// CollaboratorConfig mirrors config.json, owned by the CLI dispatcher
// collaborator; core only reads page_size.
type CollaboratorConfig struct {
	PageSize int `json:"page_size"`
}

// Settings holds the observatory's own tunables: cache TTLs are fixed by
// spec.md §3 and not configurable, but sampler cadence, worker counts and
// log retention are.
type Settings struct {
	SamplerIntervalSeconds int `json:"sampler_interval_seconds" default:"30"`
	FullSweepWorkers       int `json:"full_sweep_workers" default:"50"`
	LogRetentionFiles      int `json:"log_retention_files" default:"50"`
	FanOutTimeoutSeconds   int `json:"fan_out_timeout_seconds" default:"15"`
	ProbeTimeoutSeconds    int `json:"probe_timeout_seconds" default:"5"`
	EventHistoryDisplay    int `json:"event_history_display" default:"20"`
}

// SamplerInterval clamps to spec.md §4.8's [5, 300]s range.
func (s Settings) SamplerInterval() time.Duration {
	n := s.SamplerIntervalSeconds
	if n < 5 {
		n = 5
	}
	if n > 300 {
		n = 300
	}
	return time.Duration(n) * time.Second
}

// FanOutTimeout is the total wait cap for a fan-out probe round
// (spec.md §4.7: capped at 15s).
func (s Settings) FanOutTimeout() time.Duration {
	return time.Duration(s.FanOutTimeoutSeconds) * time.Second
}

// ProbeTimeout is the per-probe connect/receive timeout.
func (s Settings) ProbeTimeout() time.Duration {
	return time.Duration(s.ProbeTimeoutSeconds) * time.Second
}

// LoadSettings reads observatory.json at path, applying defaults
// (github.com/creasty/defaults, the same defaulting library Propel-Wings
// uses for its panel config) for any field the file omits, then
// validating. A missing file is not an error — defaults are returned, as
// spec.md §7 treats a missing servers.json as an empty list rather than
// a fatal condition, and the same tolerance applies here.
func LoadSettings(path string) (Settings, error) {
	var s Settings
	if err := defaults.Set(&s); err != nil {
		return Settings{}, errors.Wrap(err, "apply settings defaults")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, errors.Wrap(err, "read observatory settings")
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, errors.Wrap(err, "parse observatory settings")
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// Validate rejects out-of-range settings (teacher pattern from
// internal/cli/settings.go's Settings.Validate).
func (s Settings) Validate() error {
	if s.SamplerIntervalSeconds < 0 {
		return errors.New("sampler interval cannot be negative")
	}
	if s.FullSweepWorkers < 0 {
		return errors.New("full sweep worker count cannot be negative")
	}
	if s.LogRetentionFiles < 0 {
		return errors.New("log retention count cannot be negative")
	}
	if s.FanOutTimeoutSeconds < 0 {
		return errors.New("fan-out timeout cannot be negative")
	}
	if s.ProbeTimeoutSeconds < 0 {
		return errors.New("probe timeout cannot be negative")
	}
	return nil
}

// LoadCollaboratorConfig reads config.json; a missing file yields the
// zero value (page_size=0), left for the collaborator to interpret.
func LoadCollaboratorConfig(path string) (CollaboratorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return CollaboratorConfig{}, nil
		}
		return CollaboratorConfig{}, errors.Wrap(err, "read config.json")
	}
	var c CollaboratorConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return CollaboratorConfig{}, errors.Wrap(err, "parse config.json")
	}
	return c, nil
}

// DefaultSettingsPath mirrors the teacher's per-OS user-config-dir
// convention (internal/cli/settings.go's settingsPath), scoped to this
// project's name.
func DefaultSettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "resolve user config dir")
	}
	return filepath.Join(dir, "mc-observatory", "observatory.json"), nil
}
