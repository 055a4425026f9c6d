package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pvoloshyn/veridian/internal/model"
)

func TestKey(t *testing.T) {
	k1 := Key("narratives/complaint-001.txt")
	k2 := Key("narratives/complaint-001.txt")
	k3 := Key("narratives/complaint-002.txt")

	if k1 != k2 {
		t.Error("key generation must be deterministic")
	}
	if k1 == k3 {
		t.Error("different sources must produce different keys")
	}
	if !strings.HasPrefix(k1, "veridian:v1:") {
		t.Errorf("key missing version prefix: %q", k1)
	}
	if len(k1) != len("veridian:v1:")+64 {
		t.Errorf("expected a full sha256 hex digest, got %d chars", len(k1))
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("empty cache should miss")
	}

	if err := c.Set("k", []byte("value"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, found := c.Get("k")
	if !found || string(val) != "value" {
		t.Errorf("get after set: %q, %v", val, found)
	}

	c.Delete("k")
	if _, found := c.Get("k"); found {
		t.Error("deleted key should miss")
	}

	c.Set("a", []byte("1"), time.Minute)
	c.Set("b", []byte("2"), time.Minute)
	c.Clear()
	if _, found := c.Get("a"); found {
		t.Error("clear should drop everything")
	}
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	if err := c.Set(Key("src"), []byte("payload"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, found := c.Get(Key("src"))
	if !found || string(val) != "payload" {
		t.Errorf("get after set: %q, %v", val, found)
	}

	// Survives a process restart
	c2 := NewDiskCache(dir, time.Hour)
	if _, found := c2.Get(Key("src")); !found {
		t.Error("disk entries should outlive the cache instance")
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)

	// Negative TTL writes an already-expired entry
	if err := c.Set("stale", []byte("old"), -time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, found := c.Get("stale"); found {
		t.Error("expired entry should miss")
	}
	// The expired file is removed on read
	if _, err := os.Stat(filepath.Join(c.dir, "stale.cache")); !os.IsNotExist(err) {
		t.Error("expired entry should be deleted from disk")
	}
}

func TestDiskCache_CorruptEntry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	if err := os.WriteFile(filepath.Join(dir, "bad.cache"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, found := c.Get("bad"); found {
		t.Error("unreadable entry should miss, not panic")
	}
}

func TestDiskCache_StaleFormatEntryMisses(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	// An entry written by an older build carries a lower format number
	old := `{"format":1,"expires_at":"2099-01-01T00:00:00Z","payload":"b2xk"}`
	path := filepath.Join(dir, "legacy.cache")
	if err := os.WriteFile(path, []byte(old), 0644); err != nil {
		t.Fatal(err)
	}

	if _, found := c.Get("legacy"); found {
		t.Error("entries from an older format should miss")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("stale-format entry should be removed from disk")
	}
}

func TestLayeredCache_DiskSurvivesMemory(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Hour)
	if err := c.Set("k", []byte("layered"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if val, found := c.Get("k"); !found || string(val) != "layered" {
		t.Errorf("get after set: %q, %v", val, found)
	}

	// A fresh instance has cold memory but warm disk
	c2 := NewLayeredCache(time.Minute, dir, time.Hour)
	if val, found := c2.Get("k"); !found || string(val) != "layered" {
		t.Errorf("disk layer should serve a cold memory cache: %q, %v", val, found)
	}
}

func TestRulesetCache_ModTimeInvalidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("name: test\nversion: \"1\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	rc := NewRulesetCache(time.Minute, time.Minute)
	rs := &model.Ruleset{Name: "test", Version: "1"}
	rc.Set(path, rs)

	got, found := rc.Get(path)
	if !found || got.Name != "test" {
		t.Fatalf("get after set: %+v, %v", got, found)
	}

	// Touching the file drops the entry
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}
	if _, found := rc.Get(path); found {
		t.Error("modified file should invalidate the cached ruleset")
	}
}

func TestRulesetCache_MissingFile(t *testing.T) {
	rc := NewRulesetCache(time.Minute, time.Minute)
	path := filepath.Join(t.TempDir(), "nope.yaml")
	rc.Set(path, &model.Ruleset{Name: "x"})
	if _, found := rc.Get(path); found {
		t.Error("a ruleset for a missing file must never be cached")
	}
}
