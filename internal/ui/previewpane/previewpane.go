// Package previewpane renders the live capture of the selected agent's
// pane, with scrollback and mouse text selection.
package previewpane

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/lookout/internal/preview"
	"github.com/zjrosen/lookout/internal/ui/styles"
)

const (
	scrollbarTrack = "│"
	scrollbarThumb = "█"
)

var trackStyle = lipgloss.NewStyle().Foreground(styles.BorderDefaultColor)

// Model holds the preview buffer state. The buffer follows the bottom of
// the capture until the operator scrolls up, and re-engages when scrolled
// back to the bottom.
type Model struct {
	lines     []preview.Line
	raw       string
	offset    int
	stick     bool
	selection preview.Selection
	selected  bool
	width     int
	height    int
}

// New creates an empty preview buffer in follow mode.
func New() Model {
	return Model{stick: true}
}

// SetContent replaces the buffer with freshly captured pane output. In
// follow mode the view jumps to the new bottom. An in-progress drag keeps
// its selection; a finished selection is reset since its rows now point at
// different text.
func (m Model) SetContent(raw string) Model {
	m.raw = raw
	m.lines = preview.ParseLines(raw)
	if m.selected && !m.selection.Dragging {
		m = m.ClearSelection()
	}
	if m.stick {
		m.offset = m.maxOffset()
	}
	return m.clampOffset()
}

// Raw returns the last captured content as-is, escapes included.
func (m Model) Raw() string {
	return m.raw
}

// SetSize updates the inner content dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	if m.stick {
		m.offset = m.maxOffset()
	}
	return m.clampOffset()
}

// Offset returns the current scroll offset.
func (m Model) Offset() int {
	return m.offset
}

// Following reports whether the buffer is stuck to the bottom.
func (m Model) Following() bool {
	return m.stick
}

// ScrollUp moves the view up and leaves follow mode.
func (m Model) ScrollUp(n int) Model {
	m.offset -= n
	m.stick = false
	return m.clampOffset()
}

// ScrollDown moves the view down, re-entering follow mode at the bottom.
func (m Model) ScrollDown(n int) Model {
	m.offset += n
	m = m.clampOffset()
	if m.offset == m.maxOffset() {
		m.stick = true
	}
	return m
}

// ScrollToBottom jumps to the end and re-engages follow mode.
func (m Model) ScrollToBottom() Model {
	m.offset = m.maxOffset()
	m.stick = true
	return m
}

func (m Model) maxOffset() int {
	if m.height <= 0 {
		return 0
	}
	n := len(m.lines) - m.height
	if n < 0 {
		return 0
	}
	return n
}

func (m Model) clampOffset() Model {
	if m.offset > m.maxOffset() {
		m.offset = m.maxOffset()
	}
	if m.offset < 0 {
		m.offset = 0
	}
	return m
}

// StartSelection anchors a new drag at a content position.
func (m Model) StartSelection(pos preview.ContentPosition) Model {
	m.selection = preview.Selection{Anchor: pos, Cursor: pos, Dragging: true}
	m.selected = true
	return m
}

// DragTo extends an in-progress drag to a content position.
func (m Model) DragTo(pos preview.ContentPosition) Model {
	if !m.selection.Dragging {
		return m
	}
	m.selection.Cursor = pos
	return m
}

// EndDrag finishes the drag, keeping the selection highlighted.
func (m Model) EndDrag() Model {
	m.selection.Dragging = false
	return m
}

// ClearSelection removes any selection.
func (m Model) ClearSelection() Model {
	m.selection = preview.Selection{}
	m.selected = false
	return m
}

// HasSelection reports whether any text is selected.
func (m Model) HasSelection() bool {
	return m.selected
}

// SelectedText returns the selected text as plain runes, lines joined with
// newlines. Empty when nothing is selected.
func (m Model) SelectedText() string {
	if !m.selected {
		return ""
	}
	return preview.ExtractText(m.lines, m.selection)
}

// View renders the visible window, selection highlight spliced in, with a
// scrollbar column when the content overflows.
func (m Model) View() string {
	if m.height <= 0 || m.width <= 0 {
		return ""
	}

	lines := m.lines
	if m.selected {
		lines = preview.HighlightLines(lines, m.selection, m.offset, m.height, styles.SelectionHighlightSGR)
	}

	hasBar := len(m.lines) > m.height
	textWidth := m.width
	if hasBar {
		textWidth--
	}

	var b strings.Builder
	for row := 0; row < m.height; row++ {
		idx := m.offset + row
		var text string
		if idx < len(lines) {
			text = renderLine(lines[idx], textWidth)
		}
		b.WriteString(text)
		if hasBar {
			pad := textWidth - ansi.StringWidth(text)
			if pad > 0 {
				b.WriteString(strings.Repeat(" ", pad))
			}
			b.WriteString(m.scrollbarCell(row))
		}
		if row < m.height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// scrollbarCell returns the track or thumb character for one screen row.
func (m Model) scrollbarCell(row int) string {
	thumbHeight := m.height * m.height / len(m.lines)
	if thumbHeight < 1 {
		thumbHeight = 1
	}
	maxTop := m.height - thumbHeight
	var thumbTop int
	if span := m.maxOffset(); span > 0 {
		thumbTop = m.offset * maxTop / span
	}
	if row >= thumbTop && row < thumbTop+thumbHeight {
		return scrollbarThumb
	}
	return trackStyle.Render(scrollbarTrack)
}

// renderLine flattens styled runs back into an escape stream, resetting
// after each styled run so highlight styles cannot bleed across runs.
func renderLine(line preview.Line, width int) string {
	var b strings.Builder
	for _, run := range line {
		if run.Style == "" {
			b.WriteString(run.Text)
			continue
		}
		b.WriteString(run.Style)
		b.WriteString(run.Text)
		b.WriteString("\x1b[0m")
	}
	return ansi.Truncate(b.String(), width, "")
}
