package lineedit

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func altKey(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t, Alt: true}
}

func apply(t *testing.T, m Model, msgs ...tea.KeyMsg) Model {
	t.Helper()
	for _, msg := range msgs {
		var ok bool
		m, ok = m.Update(msg)
		require.True(t, ok, "key %v not consumed", msg)
	}
	return m
}

func TestInsertAndBackspace(t *testing.T) {
	m := apply(t, New(), runes("hel"), runes("lo"))
	assert.Equal(t, "hello", m.Value())
	assert.Equal(t, 5, m.Cursor())

	m = apply(t, m, key(tea.KeyBackspace))
	assert.Equal(t, "hell", m.Value())
	assert.Equal(t, 4, m.Cursor())
}

func TestInsertMidline(t *testing.T) {
	m := New().SetValue("hllo")
	m = apply(t, m, key(tea.KeyCtrlA), key(tea.KeyRight), runes("e"))
	assert.Equal(t, "hello", m.Value())
	assert.Equal(t, 2, m.Cursor())
}

func TestHomeEndAndKill(t *testing.T) {
	m := New().SetValue("hello world")

	// ctrl+u deletes everything before the cursor.
	m = apply(t, m, key(tea.KeyCtrlU))
	assert.Equal(t, "", m.Value())

	m = m.SetValue("hello world")
	m = apply(t, m, key(tea.KeyCtrlA))
	assert.Equal(t, 0, m.Cursor())

	// ctrl+k from the middle keeps the prefix.
	m = apply(t, m, key(tea.KeyCtrlF), key(tea.KeyCtrlF), key(tea.KeyCtrlF), key(tea.KeyCtrlF), key(tea.KeyCtrlF), key(tea.KeyCtrlK))
	assert.Equal(t, "hello", m.Value())

	m = apply(t, m, key(tea.KeyCtrlE))
	assert.Equal(t, 5, m.Cursor())
}

func TestWordMotions(t *testing.T) {
	m := New().SetValue("foo bar baz")

	m = apply(t, m, altKey(tea.KeyLeft))
	assert.Equal(t, 8, m.Cursor())

	m = apply(t, m, altKey(tea.KeyLeft))
	assert.Equal(t, 4, m.Cursor())

	m = apply(t, m, altKey(tea.KeyRight))
	assert.Equal(t, 7, m.Cursor())

	m = apply(t, m, altKey(tea.KeyBackspace))
	assert.Equal(t, "foo  baz", m.Value())
	assert.Equal(t, 4, m.Cursor())
}

func TestDeleteForward(t *testing.T) {
	m := New().SetValue("abc")
	m = apply(t, m, key(tea.KeyCtrlA), key(tea.KeyDelete))
	assert.Equal(t, "bc", m.Value())

	// Delete at end is a no-op.
	m = apply(t, m, key(tea.KeyCtrlE), key(tea.KeyDelete))
	assert.Equal(t, "bc", m.Value())
}

func TestCursorClamped(t *testing.T) {
	m := New().SetValue("ab")
	m = apply(t, m, key(tea.KeyCtrlE), key(tea.KeyRight), key(tea.KeyRight))
	assert.Equal(t, 2, m.Cursor())

	m = apply(t, m, key(tea.KeyCtrlA), key(tea.KeyLeft))
	assert.Equal(t, 0, m.Cursor())

	m = apply(t, m, key(tea.KeyBackspace))
	assert.Equal(t, "ab", m.Value())
}

func TestUnconsumedKeys(t *testing.T) {
	m := New()
	_, ok := m.Update(key(tea.KeyEnter))
	assert.False(t, ok)
	_, ok = m.Update(key(tea.KeyEsc))
	assert.False(t, ok)
}

func TestViewCursorRendering(t *testing.T) {
	mark := func(s string) string { return "[" + s + "]" }

	m := New().SetValue("ab")
	assert.Equal(t, "ab[ ]", m.View(mark))

	m = apply(t, m, key(tea.KeyCtrlA))
	assert.Equal(t, "[a]b", m.View(mark))
}
