// Package session contains the agent-session data model: discovery results,
// Active/Idle status parsing, grouping, and the visible-item list the UI
// navigates.
package session

import "strings"

// Status classifies what an agent process in a pane is doing.
type Status string

const (
	// StatusActive means the agent is currently working.
	StatusActive Status = "active"
	// StatusIdle means the agent is waiting for input.
	StatusIdle Status = "idle"
)

// Agent spinners render into the pane title as braille cells, so a leading
// braille rune is the working signal.
const (
	brailleStart = 0x2800
	brailleEnd   = 0x28FF
)

// ParseStatus derives a session status from its pane title. A title whose
// first rune falls in the braille block is Active; anything else, including
// an empty title, is Idle.
func ParseStatus(paneTitle string) Status {
	for _, r := range paneTitle {
		if r >= brailleStart && r <= brailleEnd {
			return StatusActive
		}
		return StatusIdle
	}
	return StatusIdle
}

// Agent is one detected coding-agent process living in a tmux pane.
type Agent struct {
	PaneID      string `yaml:"paneId"`
	PaneTarget  string `yaml:"paneTarget"`
	Title       string `yaml:"title"`
	SessionName string `yaml:"sessionName"`
	Status      Status `yaml:"status"`
}

// Group is all agents sharing one tmux session name, in discovery order.
// Groups are derived from a snapshot and never persisted.
type Group struct {
	SessionName string
	Agents      []Agent
}

// GroupBySessionName buckets agents by session name, preserving first-seen
// order for both groups and members.
func GroupBySessionName(agents []Agent) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, a := range agents {
		i, ok := index[a.SessionName]
		if !ok {
			i = len(groups)
			index[a.SessionName] = i
			groups = append(groups, Group{SessionName: a.SessionName})
		}
		groups[i].Agents = append(groups[i].Agents, a)
	}
	return groups
}

// PromptState marks an idle session that is sitting on an interactive
// prompt needing a decision from the operator.
type PromptState int

const (
	// PromptNone means no pending prompt was detected.
	PromptNone PromptState = iota
	// PromptPlan means the agent is waiting for plan approval.
	PromptPlan
	// PromptAsk means the agent asked a question and is blocked on it.
	PromptAsk
)

// DetectPromptState inspects captured pane text for the prompt dialogs the
// agent draws when it needs a decision. Only meaningful for idle sessions.
func DetectPromptState(content string) PromptState {
	switch {
	case strings.Contains(content, "Would you like to proceed"),
		strings.Contains(content, "plan mode"):
		return PromptPlan
	case strings.Contains(content, "Do you want"),
		strings.Contains(content, "❯ 1."):
		return PromptAsk
	default:
		return PromptNone
	}
}
