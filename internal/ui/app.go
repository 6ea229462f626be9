// Package ui contains the root dashboard model: it owns focus, modal and
// selection state and dispatches every key, mouse and background event.
package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/lookout/internal/cache"
	"github.com/zjrosen/lookout/internal/clipboard"
	"github.com/zjrosen/lookout/internal/config"
	"github.com/zjrosen/lookout/internal/keys"
	"github.com/zjrosen/lookout/internal/poller"
	"github.com/zjrosen/lookout/internal/pubsub"
	"github.com/zjrosen/lookout/internal/session"
	"github.com/zjrosen/lookout/internal/state"
	"github.com/zjrosen/lookout/internal/tmux"
	"github.com/zjrosen/lookout/internal/ui/modals/confirm"
	"github.com/zjrosen/lookout/internal/ui/modals/help"
	"github.com/zjrosen/lookout/internal/ui/previewpane"
	"github.com/zjrosen/lookout/internal/ui/sessionlist"
	"github.com/zjrosen/lookout/internal/ui/toaster"
)

// Focus identifies which pane receives navigation keys.
type Focus int

const (
	// FocusSessions routes j/k to the session list.
	FocusSessions Focus = iota
	// FocusPreview routes j/k to preview scrolling.
	FocusPreview
)

// Modal identifies which overlay, if any, intercepts input.
type Modal int

const (
	// ModalNone means input goes to the focused pane.
	ModalNone Modal = iota
	// ModalConfirmKill is the kill confirmation dialog.
	ModalConfirmKill
	// ModalHelp is the keybind overlay.
	ModalHelp
)

// TmuxService is the slice of tmux operations the dispatcher invokes. All
// calls run inside tea.Cmds so a slow tmux server never blocks rendering.
type TmuxService interface {
	SwitchTo(ctx context.Context, target string) error
	OpenScrollback(ctx context.Context, target string) error
	CreateWindow(ctx context.Context, sessionName, cwd, command string) (*tmux.CreatedPane, error)
	PaneCwd(ctx context.Context, target string) (string, error)
	KillPane(ctx context.Context, target string) error
	FocusedPane(ctx context.Context) (paneID, sessionName string, err error)
}

// TargetSetter points the preview watcher at a pane. An empty target stops
// tailing.
type TargetSetter interface {
	SetTarget(target string)
}

// NameFlusher drops memoized display names after a config reload.
type NameFlusher interface {
	FlushNames()
}

// Options wires the model to its collaborators.
type Options struct {
	Ctx            context.Context
	Tmux           TmuxService
	Preview        TargetSetter
	SnapshotBroker *pubsub.Broker[poller.Snapshot]
	PreviewBroker  *pubsub.Broker[string]
	ConfigChanges  <-chan struct{}
	ReloadConfig   func() (config.Config, error)
	Names          NameFlusher
	State          *state.Store
	Clipboard      clipboard.Clipboard
	Config         config.Config
	Cached         *cache.Snapshot
}

// Model is the root dashboard model.
type Model struct {
	ctx     context.Context
	tmux    TmuxService
	preview TargetSetter
	store   *state.Store
	clip    clipboard.Clipboard
	cfg     config.Config
	reload  func() (config.Config, error)
	names   NameFlusher

	snapshots     *pubsub.ContinuousListener[poller.Snapshot]
	previews      *pubsub.ContinuousListener[string]
	configChanges <-chan struct{}

	keys keys.KeyMap

	agents       []session.Agent
	displayNames map[string]string
	prompts      map[string]session.PromptState
	unread       *session.UnreadState
	prevStatus   map[string]session.Status
	collapsed    map[string]bool
	flat         bool

	list       sessionlist.Model
	previewBuf previewpane.Model
	toast      toaster.Model
	helpModal  help.Model
	confirmKil confirm.Model

	focus Focus
	modal Modal

	// Pane id the preview watcher currently tails. Tracked so selection
	// moves only retarget when the pane actually changed.
	previewPaneID string

	width  int
	height int
}

// New builds the root model. A fresh cached snapshot, when present, gives
// the first paint real content before the first poll completes.
func New(opts Options) Model {
	persisted := opts.State.Load()

	m := Model{
		ctx:           opts.Ctx,
		tmux:          opts.Tmux,
		preview:       opts.Preview,
		store:         opts.State,
		clip:          opts.Clipboard,
		cfg:           opts.Config,
		reload:        opts.ReloadConfig,
		names:         opts.Names,
		configChanges: opts.ConfigChanges,
		keys:          keys.DefaultKeyMap(),
		displayNames:  map[string]string{},
		prompts:       map[string]session.PromptState{},
		unread:        persisted.Restore(),
		prevStatus:    persisted.PrevStatusMap,
		collapsed:     map[string]bool{},
		list:          sessionlist.New(),
		previewBuf:    previewpane.New(),
		toast:         toaster.New(),
		helpModal:     help.New(),
	}
	if m.prevStatus == nil {
		m.prevStatus = map[string]session.Status{}
	}
	if opts.SnapshotBroker != nil {
		m.snapshots = pubsub.NewContinuousListener(opts.Ctx, opts.SnapshotBroker)
	}
	if opts.PreviewBroker != nil {
		m.previews = pubsub.NewContinuousListener(opts.Ctx, opts.PreviewBroker)
	}

	if opts.Cached != nil {
		m.agents = opts.Cached.Sessions
		m.displayNames = opts.Cached.DisplayNames
		m = m.rebuildList()
	}
	return m
}

// focusedPaneMsg carries the pane focused in tmux at startup.
type focusedPaneMsg struct {
	paneID      string
	sessionName string
	err         error
}

// actionDoneMsg reports completion of a deferred tmux action.
type actionDoneMsg struct {
	action string
	target string
	err    error
}

// createDoneMsg reports a create-session attempt.
type createDoneMsg struct {
	created *tmux.CreatedPane
	err     error
}

// configChangedMsg signals that the config file was rewritten.
type configChangedMsg struct{}

// Init starts the background listeners and the startup auto-select query.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.focusedPaneCmd()}
	if m.snapshots != nil {
		cmds = append(cmds, m.snapshots.Listen())
	}
	if m.previews != nil {
		cmds = append(cmds, m.previews.Listen())
	}
	if m.configChanges != nil {
		cmds = append(cmds, listenConfig(m.ctx, m.configChanges))
	}
	return tea.Batch(cmds...)
}

func (m Model) focusedPaneCmd() tea.Cmd {
	return func() tea.Msg {
		paneID, sessionName, err := m.tmux.FocusedPane(m.ctx)
		return focusedPaneMsg{paneID: paneID, sessionName: sessionName, err: err}
	}
}

func listenConfig(ctx context.Context, ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			return configChangedMsg{}
		}
	}
}

// expireToast clears a toast whose deadline passed, checked after every
// processed event so the dismiss tick is a fallback, not a requirement.
func (m Model) expireToast() Model {
	if m.toast.Expired(time.Now()) {
		m.toast = m.toast.Hide()
	}
	return m
}
