// Package cache keeps parsed profiles on disk keyed by the content hash of
// the log they came from.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"profstat/internal/logging"
	"profstat/internal/profile"
)

// Current schema version - increment when Payload format changes
const schemaVersion uint16 = 1

// Digest is the SHA-256 of a log file.
type Digest [sha256.Size]byte

// String returns the hex form of d.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Cache stores parsed profiles under a directory as zstd-compressed
// msgpack. Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// Payload is the on-disk form of a profile.
type Payload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Labels   map[string][]profile.Interval
	Dangling []profile.Dangling
	Reopened int
	Records  int
	Clock    int64
}

// Open returns a cache rooted at dir. An empty dir selects
// $XDG_CACHE_HOME/profstat (or ~/.cache/profstat).
func Open(dir string) (*Cache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "profstat")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	return &Cache{dir: dir, enc: enc, dec: dec}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

func (c *Cache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "profiles", key.String()+".mp.zst")
}

// Put serializes and writes a profile to the cache.
func (c *Cache) Put(key Digest, prof *profile.Profile) (err error) {
	if c == nil || prof == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	payload := Payload{
		Schema:   schemaVersion,
		Labels:   prof.Labels,
		Dangling: prof.Dangling,
		Reopened: prof.Reopened,
		Records:  prof.Records,
		Clock:    prof.Clock,
	}
	data, err := msgpack.Marshal(&payload)
	if err != nil {
		return err
	}
	if _, err = f.Write(c.enc.EncodeAll(data, nil)); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// atomic replace
	return os.Rename(tmp, p)
}

// Get reads a profile from the cache. A missing entry or one written with
// another schema is reported as a miss.
func (c *Cache) Get(key Digest) (*profile.Profile, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	compressed, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	data, err := c.dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, false, fmt.Errorf("corrupt cache entry: %w", err)
	}

	var payload Payload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != schemaVersion {
		return nil, false, nil
	}
	labels := payload.Labels
	if labels == nil {
		labels = make(map[string][]profile.Interval)
	}
	return &profile.Profile{
		Labels:   labels,
		Dangling: payload.Dangling,
		Reopened: payload.Reopened,
		Records:  payload.Records,
		Clock:    payload.Clock,
	}, true, nil
}

// DropAll removes every cached profile.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "profiles"))
}

// HashFile returns the SHA-256 digest of the file at path.
func HashFile(path string) (Digest, error) {
	var d Digest
	f, err := os.Open(path)
	if err != nil {
		return d, err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return d, err
	}
	copy(d[:], h.Sum(nil))
	return d, nil
}

// ParseFile returns the profile of path, from the cache when the file
// content was seen before. A nil cache always parses. Cache failures are
// logged and never fail the parse.
func (c *Cache) ParseFile(ctx context.Context, path string) (*profile.Profile, error) {
	if c == nil {
		return profile.ParseFile(ctx, path)
	}
	log := logging.FromContext(ctx)

	key, err := HashFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open profiling log: %w", err)
	}
	prof, ok, err := c.Get(key)
	switch {
	case err != nil:
		log.Warn("cache read failed", logging.Path(path), logging.Error(err))
	case ok:
		log.Debug("cache hit", logging.Path(path))
		return prof, nil
	}

	prof, err = profile.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := c.Put(key, prof); err != nil {
		log.Warn("cache write failed", logging.Path(path), logging.Error(err))
	}
	return prof, nil
}
