// Package state persists unread tracking across restarts so a dismissed
// dashboard does not forget which agents finished while it was closed.
// Load and save failures are silent: state is a convenience, never a
// prerequisite for starting up.
package state

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/lookout/internal/log"
	"github.com/zjrosen/lookout/internal/session"
)

// Persisted is the on-disk shape of the unread state.
type Persisted struct {
	UnreadPaneIDs []string                  `yaml:"unreadPaneIds"`
	PrevStatusMap map[string]session.Status `yaml:"prevStatusMap"`
	UnreadOrder   map[string]uint64         `yaml:"unreadOrder"`
	UnreadCounter uint64                    `yaml:"unreadCounter"`
}

// Store reads and writes persisted state at a fixed path.
type Store struct {
	path string
}

// NewStore returns a Store rooted at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns ~/.config/lookout/state.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "/tmp"
	}
	return filepath.Join(home, ".config", "lookout", "state.yaml")
}

// Load returns the persisted state, or empty defaults when the file is
// missing or unreadable.
func (s *Store) Load() Persisted {
	empty := Persisted{
		PrevStatusMap: map[string]session.Status{},
		UnreadOrder:   map[string]uint64{},
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return empty
	}

	var p Persisted
	if err := yaml.Unmarshal(data, &p); err != nil {
		log.Warn(log.CatState, "state file unparseable, starting fresh", "path", s.path)
		return empty
	}
	if p.PrevStatusMap == nil {
		p.PrevStatusMap = map[string]session.Status{}
	}
	if p.UnreadOrder == nil {
		p.UnreadOrder = map[string]uint64{}
	}
	return p
}

// Save writes the current unread state. Errors are logged and swallowed.
func (s *Store) Save(unread *session.UnreadState, prevStatus map[string]session.Status) {
	p := Persisted{
		UnreadPaneIDs: unread.IDs(),
		PrevStatusMap: prevStatus,
		UnreadOrder:   unread.Order(),
		UnreadCounter: unread.Counter(),
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		log.ErrorErr(log.CatState, "marshal state", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		log.ErrorErr(log.CatState, "create state dir", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		log.ErrorErr(log.CatState, "write state", err, "path", s.path)
	}
}

// Restore rebuilds an UnreadState from persisted data.
func (p Persisted) Restore() *session.UnreadState {
	return session.RestoreUnreadState(p.UnreadPaneIDs, p.UnreadOrder, p.UnreadCounter)
}
