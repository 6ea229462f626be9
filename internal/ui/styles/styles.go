// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#2D3436", Dark: "#CCCCCC"} // Main/primary text
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#636E72", Dark: "#BBBBBB"} // Session names, counts
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"} // Hints, help text, footers

	// Semantic color names - Border
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"} // Unfocused borders
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"} // Focused pane border

	// Status indicators
	StatusActiveColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"} // Agent working
	StatusIdleColor   = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#777777"} // Agent waiting
	UnreadColor       = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"} // Finished while unwatched

	// Prompt badges
	PromptPlanColor = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#61AFEF"}
	PromptAskColor  = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#E5C07B"}

	// Selection indicator color (used for ">" prefix in lists)
	SelectionIndicatorColor = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}

	// Overlay colors
	OverlayTitleColor  = lipgloss.AdaptiveColor{Light: "#2D3436", Dark: "#C9C9C9"}
	OverlayBorderColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#8C8C8C"}

	// Toast notification colors
	ToastBorderSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	ToastBorderErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	ToastBorderInfoColor    = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	// Selection indicator style (used for ">" prefix in the session list)
	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(SelectionIndicatorColor)

	// Group header style
	GroupHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)

	// Agent row styles
	RowStyle       = lipgloss.NewStyle().Foreground(TextSecondaryColor)
	RowUnreadStyle = lipgloss.NewStyle().Foreground(UnreadColor)

	// Badge styles for idle sessions sitting on a prompt
	PlanBadgeStyle = lipgloss.NewStyle().Foreground(PromptPlanColor).Bold(true)
	AskBadgeStyle  = lipgloss.NewStyle().Foreground(PromptAskColor).Bold(true)

	// Pane frames
	PaneBorderStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(BorderDefaultColor)
	PaneBorderFocusedStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(BorderFocusColor)

	// Footer hint line
	FooterStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
)

// ApplyTheme overrides the highlight and accent colors from config. Empty
// values keep the defaults. Call before the first render.
func ApplyTheme(highlight, accent string) {
	if highlight != "" {
		UnreadColor = lipgloss.AdaptiveColor{Light: highlight, Dark: highlight}
		RowUnreadStyle = RowUnreadStyle.Foreground(UnreadColor)
	}
	if accent != "" {
		BorderFocusColor = lipgloss.AdaptiveColor{Light: accent, Dark: accent}
		PaneBorderFocusedStyle = PaneBorderFocusedStyle.BorderForeground(BorderFocusColor)
	}
}

// SelectionHighlightSGR is the raw SGR sequence applied to selected preview
// text. Preview content is already a stream of captured escape sequences,
// so the highlight is spliced in at that level rather than through lipgloss.
const SelectionHighlightSGR = "\x1b[48;2;68;68;136m\x1b[38;2;255;255;255m"
