package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSettingsMissingFileReturnsDefaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "observatory.json"))
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.SamplerIntervalSeconds != 30 || s.FullSweepWorkers != 50 || s.LogRetentionFiles != 50 {
		t.Fatalf("s = %+v, want defaults", s)
	}
}

func TestLoadSettingsAppliesFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "observatory.json")
	if err := os.WriteFile(path, []byte(`{"sampler_interval_seconds": 10}`), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.SamplerIntervalSeconds != 10 {
		t.Fatalf("sampler interval = %d, want 10", s.SamplerIntervalSeconds)
	}
	if s.FullSweepWorkers != 50 {
		t.Fatalf("full sweep workers = %d, want default 50 preserved", s.FullSweepWorkers)
	}
}

func TestSamplerIntervalClampsToRange(t *testing.T) {
	s := Settings{SamplerIntervalSeconds: 1}
	if got := s.SamplerInterval().Seconds(); got != 5 {
		t.Fatalf("SamplerInterval = %v, want 5s floor", got)
	}
	s.SamplerIntervalSeconds = 1000
	if got := s.SamplerInterval().Seconds(); got != 300 {
		t.Fatalf("SamplerInterval = %v, want 300s ceiling", got)
	}
}

func TestValidateRejectsNegativeValues(t *testing.T) {
	s := Settings{FullSweepWorkers: -1}
	if err := s.Validate(); err == nil {
		t.Fatal("expected an error for a negative worker count")
	}
}

func TestLoadCollaboratorConfigMissingFileIsZeroValue(t *testing.T) {
	c, err := LoadCollaboratorConfig(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("LoadCollaboratorConfig: %v", err)
	}
	if c.PageSize != 0 {
		t.Fatalf("PageSize = %d, want 0", c.PageSize)
	}
}
