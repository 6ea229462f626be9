// Package cache stores the last session snapshot on disk so the dashboard
// can paint a list immediately on startup instead of waiting for the first
// poll to complete.
package cache

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/lookout/internal/log"
	"github.com/zjrosen/lookout/internal/session"
)

// MaxAge is how old a cached snapshot may be and still be shown. The first
// poll replaces it within seconds, so staleness only matters for display
// names and ordering.
const MaxAge = 365 * 24 * time.Hour

// Snapshot is the cached session data.
type Snapshot struct {
	Sessions     []session.Agent   `yaml:"sessions"`
	DisplayNames map[string]string `yaml:"displayNames"`
}

type entry struct {
	Value    Snapshot `yaml:"value"`
	StoredAt int64    `yaml:"storedAt"` // unix millis
}

// Store reads and writes the snapshot cache at a fixed path.
type Store struct {
	path string
	now  func() time.Time
}

// NewStore returns a Store rooted at path.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// DefaultPath returns ~/.config/lookout/cache/sessions.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "/tmp"
	}
	return filepath.Join(home, ".config", "lookout", "cache", "sessions.yaml")
}

// Load returns the cached snapshot, or nil when the cache is missing,
// unreadable, or older than MaxAge.
func (s *Store) Load() *Snapshot {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var e entry
	if err := yaml.Unmarshal(data, &e); err != nil {
		log.Warn(log.CatCache, "cache file unparseable, ignoring", "path", s.path)
		return nil
	}

	age := s.now().UnixMilli() - e.StoredAt
	if age < 0 || age >= MaxAge.Milliseconds() {
		return nil
	}
	return &e.Value
}

// Save writes the snapshot with the current timestamp. Errors are logged
// and swallowed.
func (s *Store) Save(snap Snapshot) {
	data, err := yaml.Marshal(entry{Value: snap, StoredAt: s.now().UnixMilli()})
	if err != nil {
		log.ErrorErr(log.CatCache, "marshal cache", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		log.ErrorErr(log.CatCache, "create cache dir", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		log.ErrorErr(log.CatCache, "write cache", err, "path", s.path)
	}
}
