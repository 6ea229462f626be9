package sessionlist

import (
	"strings"
	"testing"

	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/lookout/internal/session"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	m.Run()
}

func agent(paneID, sessionName, title string, status session.Status) session.Agent {
	return session.Agent{
		PaneID:      paneID,
		PaneTarget:  sessionName + ":0.0",
		Title:       title,
		SessionName: sessionName,
		Status:      status,
	}
}

func groupedItems() []session.VisibleItem {
	agents := []session.Agent{
		agent("%1", "api", "fix tests", session.StatusActive),
		agent("%2", "api", "review", session.StatusIdle),
		agent("%3", "web", "build ui", session.StatusIdle),
	}
	unread := session.NewUnreadState()
	return session.BuildVisibleItems(
		session.GroupBySessionName(agents),
		map[string]bool{},
		unread,
		map[string]string{"api": "API Server"},
	)
}

func TestViewRendersHeadersAndRows(t *testing.T) {
	m := New().SetItems(groupedItems(), nil, false).SetSize(60, 20)
	v := m.View()

	assert.Contains(t, v, iconExpanded+" API Server (2)")
	assert.Contains(t, v, "▼ web (1)")
	assert.Contains(t, v, "fix tests")
	assert.Contains(t, v, iconActive)
	assert.Contains(t, v, iconIdle)
}

func TestCollapsedHeaderIcon(t *testing.T) {
	agents := []session.Agent{agent("%1", "api", "t", session.StatusIdle)}
	items := session.BuildVisibleItems(
		session.GroupBySessionName(agents),
		map[string]bool{"api": true},
		session.NewUnreadState(),
		nil,
	)
	v := New().SetItems(items, nil, false).SetSize(60, 20).View()

	assert.Contains(t, v, iconCollapsed)
	assert.NotContains(t, v, "  t")
}

func TestSelectionIndicator(t *testing.T) {
	m := New().SetItems(groupedItems(), nil, false).SetSize(60, 20).Select(1)
	lines := strings.Split(m.View(), "\n")
	require.Len(t, lines, 5)

	assert.Contains(t, lines[1], ">")
	assert.NotContains(t, lines[0], ">")
}

func TestSelectClamped(t *testing.T) {
	m := New().SetItems(groupedItems(), nil, false)
	assert.Equal(t, 0, m.MoveUp().Selected())
	assert.Equal(t, 4, m.Select(99).Selected())

	m = m.Select(2)
	assert.Equal(t, 3, m.MoveDown().Selected())
}

func TestSelectedItem(t *testing.T) {
	m := New().SetItems(groupedItems(), nil, false).Select(1)
	row, ok := m.SelectedItem().(session.AgentRow)
	require.True(t, ok)
	assert.Equal(t, "%1", row.Agent.PaneID)

	assert.Nil(t, New().SelectedItem())
}

func TestPromptBadges(t *testing.T) {
	prompts := map[string]session.PromptState{
		"%2": session.PromptAsk,
		"%3": session.PromptPlan,
	}
	v := New().SetItems(groupedItems(), prompts, false).SetSize(80, 20).View()

	assert.Contains(t, v, "[ask]")
	assert.Contains(t, v, "[plan]")
}

func TestBadgeOnlyForIdle(t *testing.T) {
	// Prompt state for an active pane is stale and must not render.
	prompts := map[string]session.PromptState{"%1": session.PromptAsk}
	v := New().SetItems(groupedItems(), prompts, false).SetSize(80, 20).View()
	assert.NotContains(t, v, "[ask]")
}

func TestUnreadRow(t *testing.T) {
	agents := []session.Agent{agent("%1", "api", "done", session.StatusIdle)}
	unread := session.NewUnreadState()
	unread.Mark("%1")
	items := session.BuildVisibleItems(
		session.GroupBySessionName(agents), map[string]bool{}, unread, nil)

	v := New().SetItems(items, nil, false).SetSize(60, 20).View()
	assert.Contains(t, v, iconUnread)
}

func TestFlatViewShowsSessionInline(t *testing.T) {
	agents := []session.Agent{
		agent("%1", "api", "fix tests", session.StatusActive),
		agent("%3", "web", "build ui", session.StatusIdle),
	}
	items := session.BuildFlatVisibleItems(agents, session.NewUnreadState(), nil)
	v := New().SetItems(items, nil, true).SetSize(80, 20).View()

	assert.Contains(t, v, "api · fix tests")
	assert.Contains(t, v, "web · build ui")
	assert.NotContains(t, v, iconExpanded)
}

func TestScrollKeepsSelectionVisible(t *testing.T) {
	var agents []session.Agent
	for i := 0; i < 20; i++ {
		agents = append(agents, agent(
			"%"+string(rune('a'+i)), "s", "task "+string(rune('a'+i)), session.StatusIdle))
	}
	items := session.BuildFlatVisibleItems(agents, session.NewUnreadState(), nil)

	m := New().SetItems(items, nil, true).SetSize(60, 5).Select(12)
	v := m.View()
	lines := strings.Split(v, "\n")
	assert.Len(t, lines, 5)
	assert.Contains(t, v, "task m")
}

func TestTruncatesLongRows(t *testing.T) {
	agents := []session.Agent{
		agent("%1", "api", strings.Repeat("x", 100), session.StatusIdle),
	}
	items := session.BuildFlatVisibleItems(agents, session.NewUnreadState(), nil)
	v := New().SetItems(items, nil, true).SetSize(20, 5).View()

	for _, line := range strings.Split(v, "\n") {
		assert.LessOrEqual(t, len([]rune(stripAnsi(line))), 21)
	}
}

func stripAnsi(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case inEsc:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEsc = false
			}
		case r == '\x1b':
			inEsc = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func TestEmptyList(t *testing.T) {
	assert.Contains(t, New().View(), "no agent sessions")
}
