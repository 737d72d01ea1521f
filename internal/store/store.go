// Package store provides the on-disk text cache for fetched filings.
// Entries are write-once, read-many plain UTF-8 files; a missing entry is
// a cache miss, never an error. The Store interface exists so a future
// implementation can add per-key locking or swap the backing medium
// without touching extraction logic.
package store

import (
	"os"
	"path/filepath"
	"strings"
)

// Store is a key → text blob cache.
type Store interface {
	// Get returns the cached text for key, or ok=false on a miss.
	Get(key string) (text string, ok bool)
	// Put stores text under key, overwriting any existing entry.
	Put(key, text string) error
	// Has reports whether an entry exists for key.
	Has(key string) bool
}

// DirStore stores each blob as a .txt file in a flat directory.
type DirStore struct {
	dir string
}

// NewDirStore creates the directory if needed and returns a store over it.
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DirStore{dir: dir}, nil
}

// Dir returns the backing directory.
func (s *DirStore) Dir() string { return s.dir }

// path maps a key to its file. Keys derive from filing identity
// (CIK, accession, document name); document names occasionally contain
// path separators, which are flattened to keep the layout single-level.
func (s *DirStore) path(key string) string {
	key = strings.ReplaceAll(key, "/", "_")
	key = strings.ReplaceAll(key, string(os.PathSeparator), "_")
	return filepath.Join(s.dir, key+".txt")
}

func (s *DirStore) Get(key string) (string, bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return "", false
	}
	return string(data), true
}

func (s *DirStore) Put(key, text string) error {
	return os.WriteFile(s.path(key), []byte(text), 0o644)
}

func (s *DirStore) Has(key string) bool {
	_, err := os.Stat(s.path(key))
	return err == nil
}
