// Package cache persists per-file parse results between runs. An entry is
// valid when the file's content hash and mtime both match; reachability is
// always recomputed, only parsing is skipped.
package cache

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"

	"github.com/driftdetect/deadwood/pkg/graph"
)

// Cache is a directory of JSON entries, one per source file.
type Cache struct {
	dir     string
	enabled bool
}

// Entry wraps a cached parse result with its validity key.
type Entry struct {
	Hash    string            `json:"hash"`
	ModTime time.Time         `json:"mtime"`
	Result  *graph.FileResult `json:"result"`
}

// DefaultDir returns the cache path under the project root.
func DefaultDir(root string) string {
	return filepath.Join(root, ".deadwood-cache")
}

// Open creates the cache directory when enabled.
func Open(dir string, enabled bool) (*Cache, error) {
	if !enabled {
		return &Cache{enabled: false}, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, enabled: true}, nil
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	if !c.enabled {
		return nil
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		os.Remove(filepath.Join(c.dir, e.Name()))
	}
	return nil
}

// HashFile computes the BLAKE3 content hash of a file.
func HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Get returns the cached parse result when content hash and mtime match.
func (c *Cache) Get(path, hash string, mtime time.Time) (*graph.FileResult, bool) {
	if !c.enabled {
		return nil, false
	}
	data, err := os.ReadFile(c.entryPath(path))
	if err != nil {
		return nil, false
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	if entry.Hash != hash || !entry.ModTime.Equal(mtime) {
		return nil, false
	}
	return entry.Result, true
}

// Put stores a parse result.
func (c *Cache) Put(path, hash string, mtime time.Time, result *graph.FileResult) error {
	if !c.enabled {
		return nil
	}
	data, err := json.Marshal(Entry{Hash: hash, ModTime: mtime, Result: result})
	if err != nil {
		return err
	}
	return os.WriteFile(c.entryPath(path), data, 0o644)
}

// entryPath derives a stable file name from the source path.
func (c *Cache) entryPath(path string) string {
	key := strconv.FormatUint(xxhash.Sum64String(path), 16)
	return filepath.Join(c.dir, key+".json")
}
