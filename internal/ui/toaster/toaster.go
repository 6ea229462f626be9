// Package toaster provides a transient notification overlay.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/lookout/internal/ui/overlay"
	"github.com/zjrosen/lookout/internal/ui/styles"
)

// DefaultDuration is how long a toast stays up.
const DefaultDuration = 1500 * time.Millisecond

// Style determines the visual appearance of the toast.
type Style int

const (
	// StyleSuccess shows a green border.
	StyleSuccess Style = iota
	// StyleError shows a red border.
	StyleError
	// StyleInfo shows a blue border.
	StyleInfo
)

// Model holds the toaster state. The deadline is carried alongside the
// message so the update loop can also expire toasts opportunistically on
// unrelated events.
type Model struct {
	message  string
	style    Style
	deadline time.Time
	visible  bool
}

// New creates a new toaster model.
func New() Model {
	return Model{}
}

// Show displays a toast with the given message and style.
func (m Model) Show(message string, style Style) Model {
	m.message = message
	m.style = style
	m.deadline = time.Now().Add(DefaultDuration)
	m.visible = true
	return m
}

// Hide dismisses the toast.
func (m Model) Hide() Model {
	m.visible = false
	m.message = ""
	return m
}

// Visible returns whether the toast is currently showing.
func (m Model) Visible() bool {
	return m.visible
}

// Expired reports whether the toast's deadline has passed.
func (m Model) Expired(now time.Time) bool {
	return m.visible && now.After(m.deadline)
}

// View renders the toast box.
func (m Model) View() string {
	if !m.visible || m.message == "" {
		return ""
	}

	style := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder())

	switch m.style {
	case StyleError:
		style = style.BorderForeground(styles.ToastBorderErrorColor)
	case StyleInfo:
		style = style.BorderForeground(styles.ToastBorderInfoColor)
	default: // StyleSuccess
		style = style.BorderForeground(styles.ToastBorderSuccessColor)
	}

	return style.Render(m.message)
}

// Overlay renders the toast on top of a background view, bottom-center
// with padding from the bottom edge.
func (m Model) Overlay(bg string, width, height int) string {
	if !m.visible || m.message == "" {
		return bg
	}

	cfg := overlay.Config{
		Width:    width,
		Height:   height,
		Position: overlay.Bottom,
		PadY:     1,
	}
	return overlay.Place(cfg, m.View(), bg)
}

// DismissMsg signals that the toast should be dismissed.
type DismissMsg struct{}

// ScheduleDismiss returns a command that dismisses the toast after the
// default duration.
func ScheduleDismiss() tea.Cmd {
	return tea.Tick(DefaultDuration, func(_ time.Time) tea.Msg {
		return DismissMsg{}
	})
}
