package cache

import (
	"path/filepath"
	"testing"

	"github.com/mcobservatory/observatory/internal/record"
)

func TestStatusCacheRoundTrip(t *testing.T) {
	c := NewStatusCache()
	c.Set("mc.example.com", 25565, record.KindJava, "payload")

	got, ok := c.Get("mc.example.com", 25565, record.KindJava)
	if !ok || got != "payload" {
		t.Fatalf("Get = %v, %v", got, ok)
	}

	if _, ok := c.Get("mc.example.com", 25565, record.KindBedrock); ok {
		t.Fatal("different kind should not hit the same entry")
	}
}

func TestSRVCacheRoundTrip(t *testing.T) {
	c := NewSRVCache()
	c.Set("mc.example.com", "target.example.com", 25566)

	hit, ok := c.Get("mc.example.com")
	if !ok || hit.Host != "target.example.com" || hit.Port != 25566 {
		t.Fatalf("Get = %+v, %v", hit, ok)
	}
}

func TestClearAllEmptiesBothCachesButNotModCache(t *testing.T) {
	caches := NewCaches()
	caches.Status.Set("a", 1, record.KindJava, "x")
	caches.SRV.Set("a", "b", 2)

	dir := t.TempDir()
	mods := NewModCache(dir)
	if err := mods.Set("a", 1, []record.ModEntry{{ModID: "jei", Version: "1.0"}}); err != nil {
		t.Fatalf("mods.Set: %v", err)
	}

	caches.ClearAll()

	if _, ok := caches.Status.Get("a", 1, record.KindJava); ok {
		t.Fatal("status cache should be empty after ClearAll")
	}
	if _, ok := caches.SRV.Get("a"); ok {
		t.Fatal("SRV cache should be empty after ClearAll")
	}

	got, ok := mods.Get("a", 1)
	if !ok || len(got) != 1 || got[0].ModID != "jei" {
		t.Fatalf("mod cache should survive ClearAll, got %+v, %v", got, ok)
	}
}

func TestModCacheAbsentFileIsNotCachedNotError(t *testing.T) {
	mods := NewModCache(t.TempDir())
	got, ok := mods.Get("missing.example.com", 25565)
	if ok || got != nil {
		t.Fatalf("Get = %+v, %v, want not-cached", got, ok)
	}
}

func TestModCacheFilenameReplacesDots(t *testing.T) {
	got := modCacheFilename("mc.example.com", 25565)
	want := "mc_example_com_25565.json"
	if got != want {
		t.Fatalf("modCacheFilename = %q, want %q", got, want)
	}
}

func TestModCacheWriteIsAtomicNoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	mods := NewModCache(dir)
	if err := mods.Set("host", 1, []record.ModEntry{{ModID: "a", Version: "1"}}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	entries, err := filepath.Glob(filepath.Join(dir, "modcache-*.tmp"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("leftover temp files: %v", entries)
	}
}
