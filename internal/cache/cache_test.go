package cache

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"profstat/internal/profile"
)

func writeLog(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestPutGetRoundTrip(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	prof := &profile.Profile{
		Labels:   map[string][]profile.Interval{"a": {{Start: 1, End: 4}}, "b.c": {{Start: 2, End: 2}, {Start: 5, End: 9}}},
		Dangling: []profile.Dangling{{ID: 3, Start: 9, Line: 7, Label: "x"}},
		Reopened: 1,
		Records:  12,
		Clock:    9,
	}
	var key Digest
	key[0] = 0xab
	if err := c.Put(key, prof); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := c.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(got, prof) {
		t.Fatalf("got %+v, want %+v", got, prof)
	}
}

func TestGetMiss(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok, err := c.Get(Digest{}); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
	var nilCache *Cache
	if _, ok, err := nilCache.Get(Digest{}); ok || err != nil {
		t.Fatalf("nil cache must miss")
	}
}

func TestGetCorruptEntry(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	var key Digest
	key[1] = 0x42
	path := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("not zstd"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok, err := c.Get(key); ok || err == nil {
		t.Fatalf("expected an error for a corrupt entry, got ok=%v err=%v", ok, err)
	}
}

func TestParseFileUsesCache(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	path := writeLog(t, dir, "run.csv", "2,1,task.a\n0,1,10\n1,1,7\n")
	first, err := c.ParseFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	key, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if _, ok, _ := c.Get(key); !ok {
		t.Fatalf("profile was not cached")
	}

	// same content under another name is served from the cache
	other := writeLog(t, dir, "copy.csv", "2,1,task.a\n0,1,10\n1,1,7\n")
	second, err := c.ParseFile(context.Background(), other)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("cached profile differs: %+v vs %+v", first, second)
	}

	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if _, ok, _ := c.Get(key); ok {
		t.Fatalf("DropAll left entries behind")
	}
}

func TestParseFileErrorsAreNotCached(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	path := writeLog(t, dir, "bad.csv", "0,1,10\n1,2,5\n")
	if _, err := c.ParseFile(context.Background(), path); err == nil {
		t.Fatalf("expected parse error")
	}
	key, _ := HashFile(path)
	if _, ok, _ := c.Get(key); ok {
		t.Fatalf("failed parse must not be cached")
	}
}
