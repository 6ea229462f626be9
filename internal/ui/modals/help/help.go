// Package help contains the help overlay component.
package help

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/lookout/internal/keys"
	"github.com/zjrosen/lookout/internal/ui/lineedit"
	"github.com/zjrosen/lookout/internal/ui/overlay"
	"github.com/zjrosen/lookout/internal/ui/styles"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.OverlayTitleColor).
			PaddingLeft(2)

	dividerStyle = lipgloss.NewStyle().
			Foreground(styles.OverlayBorderColor)

	keyStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondaryColor).
			Width(9)

	descStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimaryColor).
			Width(34)

	contextStyle = lipgloss.NewStyle().
			Foreground(styles.TextMutedColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.OverlayBorderColor)

	contentStyle = lipgloss.NewStyle().
			Padding(0, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			MarginTop(1)

	filterPromptStyle = lipgloss.NewStyle().
				Foreground(styles.BorderFocusColor).
				Bold(true)

	filterCursorStyle = lipgloss.NewStyle().Reverse(true)

	noMatchStyle = lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			Italic(true)
)

// Model holds the help overlay state.
type Model struct {
	filtering bool
	filter    lineedit.Model
	width     int
	height    int
}

// New creates a new help overlay.
func New() Model {
	return Model{}
}

// SetSize updates dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// Filtering reports whether the filter input is active.
func (m Model) Filtering() bool {
	return m.filtering
}

// Update handles a key event. It returns the updated model and whether
// the overlay should be closed.
func (m Model) Update(msg tea.KeyMsg) (Model, bool) {
	if m.filtering {
		switch msg.Type {
		case tea.KeyEsc:
			// Esc leaves filter mode first; a second Esc closes.
			m.filtering = false
			m.filter = m.filter.Reset()
			return m, false
		case tea.KeyEnter:
			// Enter keeps the filter applied but returns key handling
			// to the overlay.
			m.filtering = false
			return m, false
		}
		m.filter, _ = m.filter.Update(msg)
		return m, false
	}

	switch {
	case msg.Type == tea.KeyEsc, msg.Type == tea.KeyEnter:
		return m.reset(), true
	case msg.String() == "?", msg.String() == "q":
		return m.reset(), true
	case msg.String() == "/":
		m.filtering = true
		return m, false
	}
	return m, false
}

func (m Model) reset() Model {
	m.filtering = false
	m.filter = m.filter.Reset()
	return m
}

// Overlay renders the help box centered on top of a background view.
func (m Model) Overlay(background string) string {
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.renderContent(), background)
}

// View renders the help box standalone.
func (m Model) View() string {
	return m.renderContent()
}

func (m Model) renderContent() string {
	entries := keys.Filter(m.filter.Value())

	var rows strings.Builder
	if len(entries) == 0 {
		rows.WriteString(noMatchStyle.Render("no keybinds match"))
		rows.WriteString("\n")
	}
	for _, e := range entries {
		rows.WriteString(keyStyle.Render(e.Key))
		rows.WriteString(descStyle.Render(e.Description))
		rows.WriteString(contextStyle.Render(e.Context))
		rows.WriteString("\n")
	}

	var footer string
	if m.filtering {
		cursor := func(s string) string { return filterCursorStyle.Render(s) }
		footer = filterPromptStyle.Render("/") + m.filter.View(cursor)
	} else if m.filter.Value() != "" {
		footer = "filter: " + m.filter.Value() + "  (/ edit, Esc close)"
	} else {
		footer = "Press / to filter, ? or Esc to close"
	}

	body := contentStyle.Render(strings.TrimRight(rows.String(), "\n") + "\n" + footerStyle.Render(footer))

	boxWidth := lipgloss.Width(body)
	if boxWidth < 40 {
		boxWidth = 40
	}
	divider := dividerStyle.Render(strings.Repeat("─", boxWidth))

	var content strings.Builder
	content.WriteString(titleStyle.Render("Keybindings"))
	content.WriteString("\n")
	content.WriteString(divider)
	content.WriteString("\n")
	content.WriteString(body)

	return boxStyle.Width(boxWidth).Render(content.String())
}
