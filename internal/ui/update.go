package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/lookout/internal/log"
	"github.com/zjrosen/lookout/internal/poller"
	"github.com/zjrosen/lookout/internal/preview"
	"github.com/zjrosen/lookout/internal/pubsub"
	"github.com/zjrosen/lookout/internal/session"
	"github.com/zjrosen/lookout/internal/ui/modals/confirm"
	"github.com/zjrosen/lookout/internal/ui/toaster"
)

// Update dispatches every event. Synchronous state mutations happen here;
// anything that talks to tmux becomes a tea.Cmd whose completion message
// comes back through this same switch.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.expireToast().resize(msg), nil

	case tea.KeyMsg:
		next, cmd := m.handleKey(msg)
		return next.expireToast(), cmd

	case tea.MouseMsg:
		next, cmd := m.handleMouse(msg)
		return next.expireToast(), cmd

	case pubsub.Event[poller.Snapshot]:
		next := m.applySnapshot(msg.Payload).expireToast()
		return next, next.snapshots.Listen()

	case pubsub.Event[string]:
		m.previewBuf = m.previewBuf.SetContent(msg.Payload)
		return m.expireToast(), m.previews.Listen()

	case configChangedMsg:
		next := m.reloadConfig()
		return next.expireToast(), listenConfig(next.ctx, next.configChanges)

	case focusedPaneMsg:
		if msg.err == nil {
			idx := session.AutoSelectIndex(m.list.Items(), msg.paneID, msg.sessionName)
			m.list = m.list.Select(idx)
			m = m.syncPreviewTarget()
		}
		return m.expireToast(), nil

	case actionDoneMsg:
		return m.applyActionDone(msg)

	case createDoneMsg:
		return m.applyCreateDone(msg)

	case toaster.DismissMsg:
		m.toast = m.toast.Hide()
		return m, nil
	}
	return m, nil
}

func (m Model) resize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	listRect, prevRect := m.layout()
	m.list = m.list.SetSize(listRect.Width-2, listRect.Height-2)
	m.previewBuf = m.previewBuf.SetSize(prevRect.Width-2, prevRect.Height-2)
	m.helpModal = m.helpModal.SetSize(msg.Width, msg.Height)
	m.confirmKil = m.confirmKil.SetSize(msg.Width, msg.Height)
	return m
}

// reloadConfig re-reads the config file, drops memoized display names and
// announces the reload. Failures keep the previous config.
func (m Model) reloadConfig() Model {
	if m.reload == nil {
		return m
	}
	cfg, err := m.reload()
	if err != nil {
		log.ErrorErr(log.CatConfig, "config reload failed", err)
		m.toast = m.toast.Show("Config reload failed", toaster.StyleError)
		return m
	}
	m.cfg = cfg
	if m.names != nil {
		m.names.FlushNames()
	}
	m.toast = m.toast.Show("Config reloaded", toaster.StyleInfo)
	return m
}

// applySnapshot folds a poll result into the model: unread transitions,
// state persistence, list rebuild with selection resolution, and preview
// retargeting when the selected pane changed identity.
func (m Model) applySnapshot(snap poller.Snapshot) Model {
	m.agents = snap.Agents
	m.displayNames = snap.DisplayNames
	m.prompts = snap.PromptStates

	m.prevStatus = m.unread.ApplySnapshot(snap.Agents, m.prevStatus)
	m.store.Save(m.unread, m.prevStatus)

	return m.rebuildList().syncPreviewTarget()
}

// rebuildList regenerates visible items, keeping the selection on the same
// logical row when it survives the rebuild.
func (m Model) rebuildList() Model {
	old := m.list.Items()
	oldIndex := m.list.Selected()

	var items []session.VisibleItem
	if m.flat {
		items = session.BuildFlatVisibleItems(m.agents, m.unread, m.displayNames)
	} else {
		items = session.BuildVisibleItems(
			session.GroupBySessionName(m.agents), m.collapsed, m.unread, m.displayNames)
	}

	m.list = m.list.SetItems(items, m.prompts, m.flat)
	m.list = m.list.Select(session.ResolveSelectedIndex(items, old, oldIndex))
	return m
}

// syncPreviewTarget points the preview watcher at the selected agent's
// pane. Selecting a different pane clears the buffer immediately so stale
// content from the previous session never lingers.
func (m Model) syncPreviewTarget() Model {
	var paneID, target string
	if row, ok := m.list.SelectedItem().(session.AgentRow); ok {
		paneID, target = row.Agent.PaneID, row.Agent.PaneTarget
	}
	if paneID == m.previewPaneID {
		return m
	}
	m.previewPaneID = paneID
	m.previewBuf = m.previewBuf.SetContent("").ClearSelection().ScrollToBottom()
	if m.preview != nil {
		m.preview.SetTarget(target)
	}
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.modal {
	case ModalHelp:
		var closed bool
		m.helpModal, closed = m.helpModal.Update(msg)
		if closed {
			m.modal = ModalNone
		}
		return m, nil
	case ModalConfirmKill:
		switch m.confirmKil.Update(msg) {
		case confirm.Confirmed:
			m.modal = ModalNone
			return m, m.killCmd(m.confirmKil.Target())
		case confirm.Dismissed:
			m.modal = ModalNone
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.modal = ModalHelp
		return m, nil
	case key.Matches(msg, m.keys.FocusSessions):
		m.focus = FocusSessions
		return m, nil
	case key.Matches(msg, m.keys.FocusPreview):
		m.focus = FocusPreview
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.focus == FocusPreview {
			m.previewBuf = m.previewBuf.ScrollUp(1)
			return m, nil
		}
		m.list = m.list.MoveUp()
		return m.syncPreviewTarget(), nil
	case key.Matches(msg, m.keys.Down):
		if m.focus == FocusPreview {
			m.previewBuf = m.previewBuf.ScrollDown(1)
			return m, nil
		}
		m.list = m.list.MoveDown()
		return m.syncPreviewTarget(), nil
	case key.Matches(msg, m.keys.Collapse):
		return m.collapse(), nil
	case key.Matches(msg, m.keys.Expand):
		return m.expand(), nil
	case key.Matches(msg, m.keys.Switch):
		return m.switchToSelected()
	case key.Matches(msg, m.keys.OpenScrollback):
		if row, ok := m.list.SelectedItem().(session.AgentRow); ok {
			return m, m.scrollbackCmd(row.Agent.PaneTarget)
		}
		return m, nil
	case key.Matches(msg, m.keys.MarkRead):
		if row, ok := m.list.SelectedItem().(session.AgentRow); ok {
			m.unread.Clear(row.Agent.PaneID)
			m.store.Save(m.unread, m.prevStatus)
			m = m.rebuildList()
		}
		return m, nil
	case key.Matches(msg, m.keys.Create):
		return m.createInSelectedGroup()
	case key.Matches(msg, m.keys.Kill):
		if row, ok := m.list.SelectedItem().(session.AgentRow); ok {
			m.confirmKil = confirm.NewKill(row.Agent.PaneTarget, m.rowDisplayName(row)).
				SetSize(m.width, m.height)
			m.modal = ModalConfirmKill
		}
		return m, nil
	case key.Matches(msg, m.keys.Yank):
		return m.copyToClipboard(m.previewBuf.Raw(), "Copied preview"), nil
	case key.Matches(msg, m.keys.ToggleFlat):
		m.flat = !m.flat
		return m.rebuildList().syncPreviewTarget(), nil
	}
	return m, nil
}

func (m Model) rowDisplayName(row session.AgentRow) string {
	if row.Agent.Title != "" {
		return row.Agent.Title
	}
	return row.DisplayName
}

// collapse folds the selected group. From an agent row it first jumps to
// the row's header so a second press folds it.
func (m Model) collapse() Model {
	switch item := m.list.SelectedItem().(type) {
	case session.AgentRow:
		for i, it := range m.list.Items() {
			if h, ok := it.(session.GroupHeader); ok && h.SessionName == item.GroupName {
				m.list = m.list.Select(i)
				return m.syncPreviewTarget()
			}
		}
	case session.GroupHeader:
		if !m.flat {
			m.collapsed[item.SessionName] = true
			return m.rebuildList()
		}
	}
	return m
}

func (m Model) expand() Model {
	if h, ok := m.list.SelectedItem().(session.GroupHeader); ok && !m.flat {
		delete(m.collapsed, h.SessionName)
		return m.rebuildList()
	}
	return m
}

func (m Model) switchToSelected() (Model, tea.Cmd) {
	row, ok := m.list.SelectedItem().(session.AgentRow)
	if !ok {
		return m, nil
	}
	// Switching counts as reading the session.
	m.unread.Clear(row.Agent.PaneID)
	m.store.Save(m.unread, m.prevStatus)
	m = m.rebuildList()

	target := row.Agent.PaneTarget
	return m, func() tea.Msg {
		return actionDoneMsg{action: "switch", target: target, err: m.tmux.SwitchTo(m.ctx, target)}
	}
}

func (m Model) scrollbackCmd(target string) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{action: "scrollback", target: target, err: m.tmux.OpenScrollback(m.ctx, target)}
	}
}

func (m Model) killCmd(target string) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{action: "kill", target: target, err: m.tmux.KillPane(m.ctx, target)}
	}
}

// createInSelectedGroup opens a new agent window in the selected group's
// tmux session, using the reference pane's working directory.
func (m Model) createInSelectedGroup() (Model, tea.Cmd) {
	var sessionName, refTarget string
	switch item := m.list.SelectedItem().(type) {
	case session.AgentRow:
		sessionName, refTarget = item.GroupName, item.Agent.PaneTarget
	case session.GroupHeader:
		sessionName = item.SessionName
		for _, a := range m.agents {
			if a.SessionName == item.SessionName {
				refTarget = a.PaneTarget
				break
			}
		}
	default:
		return m, nil
	}

	command := m.cfg.Command
	return m, func() tea.Msg {
		cwd, err := m.tmux.PaneCwd(m.ctx, refTarget)
		if err != nil {
			cwd = ""
		}
		created, err := m.tmux.CreateWindow(m.ctx, sessionName, cwd, command)
		if err != nil {
			return createDoneMsg{err: err}
		}
		if created != nil {
			err = m.tmux.SwitchTo(m.ctx, created.Target)
		}
		return createDoneMsg{created: created, err: err}
	}
}

func (m Model) applyActionDone(msg actionDoneMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		log.ErrorErr(log.CatTmux, "tmux action failed", msg.err, "action", msg.action, "target", msg.target)
		m.toast = m.toast.Show("tmux: "+msg.action+" failed", toaster.StyleError)
		return m.expireToast(), toaster.ScheduleDismiss()
	}

	switch msg.action {
	case "switch":
		if m.cfg.ExitOnSwitch {
			return m, tea.Quit
		}
	case "kill":
		// Drop the pane locally so the list updates before the next poll.
		kept := m.agents[:0:0]
		for _, a := range m.agents {
			if a.PaneTarget != msg.target {
				kept = append(kept, a)
			} else {
				m.unread.Clear(a.PaneID)
				delete(m.prevStatus, a.PaneID)
			}
		}
		m.agents = kept
		m.store.Save(m.unread, m.prevStatus)
		m = m.rebuildList().syncPreviewTarget()
		m.toast = m.toast.Show("Session killed", toaster.StyleSuccess)
		return m.expireToast(), toaster.ScheduleDismiss()
	}
	return m.expireToast(), nil
}

func (m Model) applyCreateDone(msg createDoneMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		log.ErrorErr(log.CatTmux, "create session failed", msg.err)
		m.toast = m.toast.Show("Create session failed", toaster.StyleError)
		return m.expireToast(), toaster.ScheduleDismiss()
	}
	if m.cfg.ExitOnSwitch {
		return m, tea.Quit
	}
	m.toast = m.toast.Show("Session created", toaster.StyleSuccess)
	return m.expireToast(), toaster.ScheduleDismiss()
}

func (m Model) copyToClipboard(text, notice string) Model {
	if text == "" {
		return m
	}
	if err := m.clip.Copy(text); err != nil {
		log.ErrorErr(log.CatClipboard, "clipboard write failed", err)
		m.toast = m.toast.Show("Clipboard unavailable", toaster.StyleError)
		return m
	}
	m.toast = m.toast.Show(notice, toaster.StyleSuccess)
	return m
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.modal != ModalNone {
		return m, nil
	}

	_, prevRect := m.layout()
	rect := preview.Rect{X: prevRect.X, Y: prevRect.Y, Width: prevRect.Width, Height: prevRect.Height}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.previewBuf = m.previewBuf.ScrollUp(3)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.previewBuf = m.previewBuf.ScrollDown(3)
		return m, nil
	}

	// Release events may report no button depending on the terminal's
	// mouse encoding, so they are matched on action alone.
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if i, ok := m.list.HitRow(msg); ok {
			m.focus = FocusSessions
			m.list = m.list.Select(i)
			return m.syncPreviewTarget(), nil
		}
		if pos, ok := preview.MouseToContent(msg.X, msg.Y, rect, m.previewBuf.Offset()); ok {
			m.focus = FocusPreview
			m.previewBuf = m.previewBuf.StartSelection(pos)
		}
		return m, nil
	case tea.MouseActionMotion:
		// Dragging past the frame clamps to its edge instead of dropping
		// the motion, so a fast drag off the pane still extends the
		// selection. DragTo is a no-op when no drag is in progress.
		pos := preview.ClampToContent(msg.X, msg.Y, rect, m.previewBuf.Offset())
		m.previewBuf = m.previewBuf.DragTo(pos)
		return m, nil
	case tea.MouseActionRelease:
		return m.finishSelection(), nil
	}
	return m, nil
}

// finishSelection ends a drag. A release on the anchor cell is a plain
// click and discards the selection; a real drag is copied to the
// clipboard.
func (m Model) finishSelection() Model {
	if !m.previewBuf.HasSelection() {
		return m
	}
	m.previewBuf = m.previewBuf.EndDrag()
	text := m.previewBuf.SelectedText()
	if text == "" {
		m.previewBuf = m.previewBuf.ClearSelection()
		return m
	}
	return m.copyToClipboard(text, "Copied")
}
