package repo

import (
	"path/filepath"
	"testing"

	"github.com/mcobservatory/observatory/internal/record"
)

func TestLoadMissingFileIsEmptyNotError(t *testing.T) {
	fleet, err := Load(filepath.Join(t.TempDir(), "servers.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(fleet) != 0 {
		t.Fatalf("fleet = %+v, want empty", fleet)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "servers.json")
	fleet := []*record.ServerRecord{
		record.NewServerRecord("Survival", "mc.example.com", 25565, record.KindJava, "main server"),
	}

	if err := Save(path, fleet); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Name != "Survival" || loaded[0].Port != 25565 {
		t.Fatalf("loaded = %+v", loaded)
	}
}
