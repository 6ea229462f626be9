package ui

import (
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/truncate"

	"github.com/zjrosen/lookout/internal/ui/styles"
)

// paneRect is a screen-space rectangle for one of the two panes,
// border included.
type paneRect struct {
	X, Y, Width, Height int
}

// layout splits the screen: session list on the left, preview on the
// right, one footer row at the bottom.
func (m Model) layout() (list, prev paneRect) {
	contentHeight := m.height - 1
	if contentHeight < 0 {
		contentHeight = 0
	}

	listWidth := m.width / 3
	if listWidth < 24 {
		listWidth = 24
	}
	if listWidth > 48 {
		listWidth = 48
	}
	if listWidth > m.width {
		listWidth = m.width
	}

	list = paneRect{X: 0, Y: 0, Width: listWidth, Height: contentHeight}
	prev = paneRect{X: listWidth, Y: 0, Width: m.width - listWidth, Height: contentHeight}
	return list, prev
}

// View paints the dashboard and stacks any modal and toast on top. The
// whole frame goes through zone.Scan so the session-list click zones
// resolve to screen coordinates.
func (m Model) View() string {
	if m.width < 10 || m.height < 4 {
		return ""
	}

	listRect, prevRect := m.layout()

	listBorder := styles.PaneBorderStyle
	prevBorder := styles.PaneBorderStyle
	if m.focus == FocusSessions {
		listBorder = styles.PaneBorderFocusedStyle
	} else {
		prevBorder = styles.PaneBorderFocusedStyle
	}

	left := listBorder.
		Width(listRect.Width - 2).
		Height(listRect.Height - 2).
		Render(m.list.View())
	right := prevBorder.
		Width(prevRect.Width - 2).
		Height(prevRect.Height - 2).
		Render(m.previewBuf.View())

	frame := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		m.footer(),
	)

	switch m.modal {
	case ModalHelp:
		frame = m.helpModal.Overlay(frame)
	case ModalConfirmKill:
		frame = m.confirmKil.Overlay(frame)
	}

	frame = m.toast.Overlay(frame, m.width, m.height)
	return zone.Scan(frame)
}

func (m Model) footer() string {
	hint := "1 sessions · 0 preview · o switch · c create · x kill · ? help · q quit"
	if m.flat {
		hint = "flat view · " + hint
	}
	hint = truncate.StringWithTail(hint, uint(m.width), "…")
	return styles.FooterStyle.Width(m.width).Render(hint)
}
