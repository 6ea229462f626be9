// Package lineedit implements a single-line text editor with emacs-style
// keybindings, used for inline filter inputs.
package lineedit

import (
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
)

// Model is a single-line editor. The zero value is ready to use.
type Model struct {
	value  []rune
	cursor int
}

// New creates an empty editor.
func New() Model {
	return Model{}
}

// Value returns the current text.
func (m Model) Value() string {
	return string(m.value)
}

// Cursor returns the cursor position in runes, in [0, len].
func (m Model) Cursor() int {
	return m.cursor
}

// SetValue replaces the text and moves the cursor to the end.
func (m Model) SetValue(s string) Model {
	m.value = []rune(s)
	m.cursor = len(m.value)
	return m
}

// Reset clears the text and cursor.
func (m Model) Reset() Model {
	m.value = nil
	m.cursor = 0
	return m
}

// Update applies a key event. It returns the updated model and whether
// the key was consumed by the editor.
func (m Model) Update(msg tea.KeyMsg) (Model, bool) {
	switch msg.Type {
	case tea.KeyRunes:
		if msg.Alt {
			return m, false
		}
		return m.insert(msg.Runes), true
	case tea.KeySpace:
		return m.insert([]rune{' '}), true
	case tea.KeyBackspace:
		if msg.Alt {
			return m.deleteWordBack(), true
		}
		return m.backspace(), true
	case tea.KeyDelete:
		return m.deleteForward(), true
	case tea.KeyLeft:
		if msg.Alt {
			return m.wordLeft(), true
		}
		return m.left(), true
	case tea.KeyRight:
		if msg.Alt {
			return m.wordRight(), true
		}
		return m.right(), true
	case tea.KeyCtrlA, tea.KeyHome:
		m.cursor = 0
		return m, true
	case tea.KeyCtrlE, tea.KeyEnd:
		m.cursor = len(m.value)
		return m, true
	case tea.KeyCtrlB:
		return m.left(), true
	case tea.KeyCtrlF:
		return m.right(), true
	case tea.KeyCtrlU:
		m.value = append([]rune{}, m.value[m.cursor:]...)
		m.cursor = 0
		return m, true
	case tea.KeyCtrlK:
		m.value = m.value[:m.cursor]
		return m, true
	}
	return m, false
}

func (m Model) insert(rs []rune) Model {
	out := make([]rune, 0, len(m.value)+len(rs))
	out = append(out, m.value[:m.cursor]...)
	out = append(out, rs...)
	out = append(out, m.value[m.cursor:]...)
	m.value = out
	m.cursor += len(rs)
	return m
}

func (m Model) backspace() Model {
	if m.cursor == 0 {
		return m
	}
	m.value = append(m.value[:m.cursor-1], m.value[m.cursor:]...)
	m.cursor--
	return m
}

func (m Model) deleteForward() Model {
	if m.cursor >= len(m.value) {
		return m
	}
	m.value = append(m.value[:m.cursor], m.value[m.cursor+1:]...)
	return m
}

func (m Model) left() Model {
	if m.cursor > 0 {
		m.cursor--
	}
	return m
}

func (m Model) right() Model {
	if m.cursor < len(m.value) {
		m.cursor++
	}
	return m
}

// wordLeft moves the cursor to the start of the previous word.
func (m Model) wordLeft() Model {
	for m.cursor > 0 && unicode.IsSpace(m.value[m.cursor-1]) {
		m.cursor--
	}
	for m.cursor > 0 && !unicode.IsSpace(m.value[m.cursor-1]) {
		m.cursor--
	}
	return m
}

// wordRight moves the cursor past the end of the next word.
func (m Model) wordRight() Model {
	for m.cursor < len(m.value) && unicode.IsSpace(m.value[m.cursor]) {
		m.cursor++
	}
	for m.cursor < len(m.value) && !unicode.IsSpace(m.value[m.cursor]) {
		m.cursor++
	}
	return m
}

// deleteWordBack deletes from the cursor to the start of the previous word.
func (m Model) deleteWordBack() Model {
	start := m.wordLeft().cursor
	m.value = append(m.value[:start], m.value[m.cursor:]...)
	m.cursor = start
	return m
}

// View renders the text with a visible cursor block at the cursor
// position. A trailing cursor is shown as a space.
func (m Model) View(cursorStyle func(string) string) string {
	if m.cursor >= len(m.value) {
		return string(m.value) + cursorStyle(" ")
	}
	return string(m.value[:m.cursor]) +
		cursorStyle(string(m.value[m.cursor])) +
		string(m.value[m.cursor+1:])
}
