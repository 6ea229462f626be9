// Package keys contains keybinding definitions and the filterable keybind
// table shown in the help modal.
package keys

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	// Focus
	FocusSessions key.Binding
	FocusPreview  key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Collapse key.Binding
	Expand   key.Binding

	// Actions
	Switch         key.Binding
	OpenScrollback key.Binding
	MarkRead       key.Binding
	Create         key.Binding
	Kill           key.Binding
	Yank           key.Binding
	ToggleFlat     key.Binding

	// General
	Help   key.Binding
	Filter key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		FocusSessions: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "focus session list"),
		),
		FocusPreview: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "focus preview pane"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "previous session / scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "next session / scroll down"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "collapse group"),
		),
		Expand: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "expand group"),
		),
		Switch: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "switch to tmux pane"),
		),
		OpenScrollback: key.NewBinding(
			key.WithKeys("O"),
			key.WithHelp("O", "open pane scrollback in popup"),
		),
		MarkRead: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "mark session as read"),
		),
		Create: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "create new session"),
		),
		Kill: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "close session pane"),
		),
		Yank: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy preview to clipboard"),
		),
		ToggleFlat: key.NewBinding(
			key.WithKeys("`"),
			key.WithHelp("`", "toggle flat view"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter keybinds"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Entry is one row of the help modal's keybind table.
type Entry struct {
	Key         string
	Description string
	Context     string
}

// Table lists every binding the help modal can show.
var Table = []Entry{
	{Key: "0", Description: "Focus preview pane", Context: "global"},
	{Key: "1", Description: "Focus session list", Context: "global"},
	{Key: "j / ↓", Description: "Next session / Scroll down", Context: "sessions"},
	{Key: "k / ↑", Description: "Previous session / Scroll up", Context: "sessions"},
	{Key: "h", Description: "Collapse group", Context: "sessions"},
	{Key: "l", Description: "Expand group", Context: "sessions"},
	{Key: "o", Description: "Switch to tmux pane", Context: "global"},
	{Key: "O", Description: "Open pane scrollback in popup", Context: "global"},
	{Key: "r", Description: "Mark session as read", Context: "sessions"},
	{Key: "c", Description: "Create new session", Context: "sessions"},
	{Key: "x", Description: "Close session pane", Context: "sessions"},
	{Key: "y", Description: "Copy preview to clipboard", Context: "preview"},
	{Key: "`", Description: "Toggle flat view", Context: "sessions"},
	{Key: "?", Description: "Toggle help", Context: "global"},
	{Key: "/", Description: "Filter keybinds", Context: "global"},
	{Key: "q", Description: "Quit", Context: "global"},
}

// Filter returns table entries matching query, case insensitively, against
// key, description, and context. An empty query matches everything.
func Filter(query string) []Entry {
	if query == "" {
		return Table
	}
	lower := strings.ToLower(query)
	var out []Entry
	for _, e := range Table {
		if strings.Contains(strings.ToLower(e.Key), lower) ||
			strings.Contains(strings.ToLower(e.Description), lower) ||
			strings.Contains(strings.ToLower(e.Context), lower) {
			out = append(out, e)
		}
	}
	return out
}
