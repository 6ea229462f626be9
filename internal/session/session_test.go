package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  Status
	}{
		{name: "braille spinner", title: "⠋ thinking", want: StatusActive},
		{name: "last braille cell", title: "⣿", want: StatusActive},
		{name: "plain title", title: "fix-auth", want: StatusIdle},
		{name: "braille not leading", title: "x ⠋", want: StatusIdle},
		{name: "empty title", title: "", want: StatusIdle},
		{name: "unicode but not braille", title: "✓ done", want: StatusIdle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseStatus(tt.title))
		})
	}
}

func TestGroupBySessionName_PreservesDiscoveryOrder(t *testing.T) {
	agents := []Agent{
		{PaneID: "%1", SessionName: "beta"},
		{PaneID: "%2", SessionName: "alpha"},
		{PaneID: "%3", SessionName: "beta"},
		{PaneID: "%4", SessionName: "alpha"},
	}

	groups := GroupBySessionName(agents)

	assert.Len(t, groups, 2)
	// Group order follows first sighting, not lexical order.
	assert.Equal(t, "beta", groups[0].SessionName)
	assert.Equal(t, "alpha", groups[1].SessionName)
	assert.Equal(t, []string{"%1", "%3"}, paneIDs(groups[0].Agents))
	assert.Equal(t, []string{"%2", "%4"}, paneIDs(groups[1].Agents))
}

func TestGroupBySessionName_Empty(t *testing.T) {
	assert.Empty(t, GroupBySessionName(nil))
}

func paneIDs(agents []Agent) []string {
	ids := make([]string, len(agents))
	for i, a := range agents {
		ids[i] = a.PaneID
	}
	return ids
}

func TestDetectPromptState(t *testing.T) {
	assert.Equal(t, PromptPlan, DetectPromptState("Would you like to proceed?\n❯ 1. Yes"))
	assert.Equal(t, PromptAsk, DetectPromptState("Do you want to run this command?"))
	assert.Equal(t, PromptNone, DetectPromptState("compiling..."))
	assert.Equal(t, PromptNone, DetectPromptState(""))
}
