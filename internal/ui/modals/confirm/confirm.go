// Package confirm contains the kill-pane confirmation overlay.
package confirm

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/lookout/internal/ui/overlay"
	"github.com/zjrosen/lookout/internal/ui/styles"
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.ToastBorderErrorColor).
			Padding(0, 2)

	questionStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimaryColor)

	targetStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.TextPrimaryColor)

	hintStyle = lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			MarginTop(1)
)

// Result indicates how the user answered the confirmation.
type Result int

const (
	// Pending means the key did not resolve the confirmation.
	Pending Result = iota
	// Confirmed means the user accepted.
	Confirmed
	// Dismissed means the user cancelled.
	Dismissed
)

// Model holds the confirmation state for killing a pane.
type Model struct {
	target string
	name   string
	width  int
	height int
}

// NewKill creates a confirmation for killing the pane at target. The
// display name is shown to the user; the target identifies the pane.
func NewKill(target, name string) Model {
	return Model{target: target, name: name}
}

// Target returns the pane target being confirmed.
func (m Model) Target() string {
	return m.target
}

// SetSize updates dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// Update resolves a key event. Only Enter and Esc do anything.
func (m Model) Update(msg tea.KeyMsg) Result {
	switch msg.Type {
	case tea.KeyEnter:
		return Confirmed
	case tea.KeyEsc:
		return Dismissed
	}
	return Pending
}

// Overlay renders the confirmation box centered over a background view.
func (m Model) Overlay(background string) string {
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), background)
}

// View renders the confirmation box.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(questionStyle.Render("Kill session "))
	b.WriteString(targetStyle.Render(m.name))
	b.WriteString(questionStyle.Render(fmt.Sprintf(" (%s)?", m.target)))
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("Enter confirm · Esc cancel"))
	return boxStyle.Render(b.String())
}
