// Package sessionlist renders the navigable list of agent sessions,
// grouped by tmux session with collapsible headers.
package sessionlist

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/lookout/internal/session"
	"github.com/zjrosen/lookout/internal/ui/styles"
)

const zonePrefix = "sessionlist:row:"

const (
	iconCollapsed = "▶"
	iconExpanded  = "▼"
	iconActive    = "●"
	iconIdle      = "○"
	iconUnread    = "◉"
)

// Model holds the session list state.
type Model struct {
	items    []session.VisibleItem
	prompts  map[string]session.PromptState
	flat     bool
	selected int
	offset   int
	width    int
	height   int
}

// New creates an empty session list.
func New() Model {
	return Model{}
}

// SetItems replaces the visible rows. The flat flag controls whether agent
// rows carry their session name inline (no headers to provide it).
func (m Model) SetItems(items []session.VisibleItem, prompts map[string]session.PromptState, flat bool) Model {
	m.items = items
	m.prompts = prompts
	m.flat = flat
	if m.selected >= len(items) {
		m.selected = max(0, len(items)-1)
	}
	return m.clampOffset()
}

// Items returns the current visible rows.
func (m Model) Items() []session.VisibleItem {
	return m.items
}

// SetSize updates the content area dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m.clampOffset()
}

// Selected returns the selection index.
func (m Model) Selected() int {
	return m.selected
}

// SelectedItem returns the item under the cursor, or nil for an empty list.
func (m Model) SelectedItem() session.VisibleItem {
	if m.selected < 0 || m.selected >= len(m.items) {
		return nil
	}
	return m.items[m.selected]
}

// Select moves the cursor to index, clamped into range.
func (m Model) Select(index int) Model {
	if index < 0 {
		index = 0
	}
	if index > len(m.items)-1 {
		index = max(0, len(m.items)-1)
	}
	m.selected = index
	return m.clampOffset()
}

// MoveUp moves the cursor one row up.
func (m Model) MoveUp() Model {
	return m.Select(m.selected - 1)
}

// MoveDown moves the cursor one row down.
func (m Model) MoveDown() Model {
	return m.Select(m.selected + 1)
}

// HitRow returns the row index under a mouse event, using the zones
// marked during the last render.
func (m Model) HitRow(msg tea.MouseMsg) (int, bool) {
	for i := range m.items {
		if z := zone.Get(zoneID(i)); z != nil && z.InBounds(msg) {
			return i, true
		}
	}
	return 0, false
}

// clampOffset keeps the selected row inside the visible window.
func (m Model) clampOffset() Model {
	if m.height <= 0 {
		return m
	}
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+m.height {
		m.offset = m.selected - m.height + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
	return m
}

// View renders the visible window of rows, each wrapped in a click zone.
func (m Model) View() string {
	if len(m.items) == 0 {
		return styles.FooterStyle.Render("no agent sessions")
	}

	end := len(m.items)
	if m.height > 0 && m.offset+m.height < end {
		end = m.offset + m.height
	}

	var b strings.Builder
	for i := m.offset; i < end; i++ {
		line := m.renderRow(i)
		if m.width > 0 {
			line = ansi.Truncate(line, m.width, "…")
		}
		b.WriteString(zone.Mark(zoneID(i), line))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderRow(i int) string {
	prefix := "  "
	if i == m.selected {
		prefix = styles.SelectionIndicatorStyle.Render("> ")
	}

	switch item := m.items[i].(type) {
	case session.GroupHeader:
		return prefix + m.renderHeader(item)
	case session.AgentRow:
		return prefix + m.renderAgent(item)
	}
	return prefix
}

func (m Model) renderHeader(h session.GroupHeader) string {
	icon := iconExpanded
	if h.Collapsed {
		icon = iconCollapsed
	}

	style := styles.GroupHeaderStyle
	switch {
	case h.HasUnread:
		style = style.Foreground(styles.UnreadColor)
	case h.HasActive:
		style = style.Foreground(styles.StatusActiveColor)
	}

	return style.Render(fmt.Sprintf("%s %s (%d)", icon, h.DisplayName, h.Count))
}

func (m Model) renderAgent(row session.AgentRow) string {
	var icon, text string
	style := styles.RowStyle

	switch {
	case row.Unread:
		icon = styles.RowUnreadStyle.Render(iconUnread)
		style = styles.RowUnreadStyle
	case row.Agent.Status == session.StatusActive:
		icon = lipglossForeground(styles.StatusActiveColor, iconActive)
	default:
		icon = lipglossForeground(styles.StatusIdleColor, iconIdle)
	}

	title := row.Agent.Title
	if title == "" {
		title = row.Agent.PaneTarget
	}
	// Trim the plain title before styling; the styled line gets a final
	// ANSI-aware truncation in View.
	if m.width > 8 {
		title = runewidth.Truncate(title, m.width-8, "…")
	}
	if m.flat {
		text = fmt.Sprintf("%s · %s", row.DisplayName, title)
	} else {
		text = "  " + title
	}

	line := icon + " " + style.Render(text)
	if badge := m.promptBadge(row); badge != "" {
		line += " " + badge
	}
	return line
}

// promptBadge renders the [plan] or [ask] marker for idle sessions that
// are sitting on an interactive prompt.
func (m Model) promptBadge(row session.AgentRow) string {
	if row.Agent.Status != session.StatusIdle {
		return ""
	}
	switch m.prompts[row.Agent.PaneID] {
	case session.PromptPlan:
		return styles.PlanBadgeStyle.Render("[plan]")
	case session.PromptAsk:
		return styles.AskBadgeStyle.Render("[ask]")
	}
	return ""
}

func lipglossForeground(c lipgloss.AdaptiveColor, s string) string {
	return lipgloss.NewStyle().Foreground(c).Render(s)
}

func zoneID(i int) string {
	return fmt.Sprintf("%s%d", zonePrefix, i)
}
