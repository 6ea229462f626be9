package ui

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"github.com/zjrosen/lookout/internal/clipboard"
	"github.com/zjrosen/lookout/internal/config"
	"github.com/zjrosen/lookout/internal/poller"
	"github.com/zjrosen/lookout/internal/pubsub"
	"github.com/zjrosen/lookout/internal/session"
	"github.com/zjrosen/lookout/internal/state"
)

// Smoke test running the full model through a Bubble Tea program: a
// snapshot arrives over the broker, rows render, q quits.
func TestProgramSmoke(t *testing.T) {
	snapshotBroker := pubsub.NewBroker[poller.Snapshot]()
	defer snapshotBroker.Close()

	model := New(Options{
		Ctx:            context.Background(),
		Tmux:           &fakeTmux{},
		Preview:        &fakeTargets{},
		SnapshotBroker: snapshotBroker,
		PreviewBroker:  pubsub.NewBroker[string](),
		State:          state.NewStore(filepath.Join(t.TempDir(), "state.yaml")),
		Clipboard:      &clipboard.MockClipboard{},
		Config:         config.DefaultConfig(),
	})

	tm := teatest.NewTestModel(t, model, teatest.WithInitialTermSize(120, 40))

	snapshotBroker.Publish(pubsub.SnapshotEvent, poller.Snapshot{
		Agents: []session.Agent{
			testAgent("%1", "api", "fix tests", session.StatusIdle),
		},
		DisplayNames: map[string]string{},
		PromptStates: map[string]session.PromptState{},
	})

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("fix tests"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
}
