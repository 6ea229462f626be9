package session

// VisibleItem is one navigable row in the session list: either a group
// header or an agent row. The unexported marker keeps implementations
// inside this package so switches stay exhaustive.
type VisibleItem interface {
	visibleItem()
}

// GroupHeader is the collapsible header row for one session group.
type GroupHeader struct {
	SessionName string
	DisplayName string
	Count       int
	HasActive   bool
	HasUnread   bool
	Collapsed   bool
}

// AgentRow is one agent session underneath its group header.
type AgentRow struct {
	Agent       Agent
	GroupName   string
	DisplayName string
	Unread      bool
}

func (GroupHeader) visibleItem() {}
func (AgentRow) visibleItem()    {}

// BuildVisibleItems flattens groups into the navigable list: header first,
// then member rows unless the group is collapsed. Order mirrors discovery
// order.
func BuildVisibleItems(
	groups []Group,
	collapsed map[string]bool,
	unread *UnreadState,
	displayNames map[string]string,
) []VisibleItem {
	var items []VisibleItem
	for _, g := range groups {
		hasActive := false
		hasUnread := false
		for _, a := range g.Agents {
			if a.Status == StatusActive {
				hasActive = true
			}
			if unread.Contains(a.PaneID) {
				hasUnread = true
			}
		}
		display := displayNameFor(displayNames, g.SessionName)
		isCollapsed := collapsed[g.SessionName]
		items = append(items, GroupHeader{
			SessionName: g.SessionName,
			DisplayName: display,
			Count:       len(g.Agents),
			HasActive:   hasActive,
			HasUnread:   hasUnread,
			Collapsed:   isCollapsed,
		})
		if isCollapsed {
			continue
		}
		for _, a := range g.Agents {
			items = append(items, AgentRow{
				Agent:       a,
				GroupName:   g.SessionName,
				DisplayName: display,
				Unread:      unread.Contains(a.PaneID),
			})
		}
	}
	return items
}

// BuildFlatVisibleItems produces the ungrouped rendition: agent rows only,
// no headers, in discovery order.
func BuildFlatVisibleItems(
	agents []Agent,
	unread *UnreadState,
	displayNames map[string]string,
) []VisibleItem {
	var items []VisibleItem
	for _, a := range agents {
		items = append(items, AgentRow{
			Agent:       a,
			GroupName:   a.SessionName,
			DisplayName: displayNameFor(displayNames, a.SessionName),
			Unread:      unread.Contains(a.PaneID),
		})
	}
	return items
}

func displayNameFor(displayNames map[string]string, sessionName string) string {
	if d, ok := displayNames[sessionName]; ok && d != "" {
		return d
	}
	return sessionName
}

// ResolveSelectedIndex tracks the previously selected logical entity across
// a rebuild. If the old index pointed at an agent row, the agent is found by
// pane id; a header is found by session name. When the entity is gone the
// old numeric index is clamped into the new list (0 for an empty list).
func ResolveSelectedIndex(newItems, oldItems []VisibleItem, oldIndex int) int {
	if oldIndex >= 0 && oldIndex < len(oldItems) {
		switch old := oldItems[oldIndex].(type) {
		case AgentRow:
			for i, item := range newItems {
				if row, ok := item.(AgentRow); ok && row.Agent.PaneID == old.Agent.PaneID {
					return i
				}
			}
		case GroupHeader:
			for i, item := range newItems {
				if h, ok := item.(GroupHeader); ok && h.SessionName == old.SessionName {
					return i
				}
			}
		}
	}
	if len(newItems) == 0 {
		return 0
	}
	if oldIndex > len(newItems)-1 {
		return len(newItems) - 1
	}
	if oldIndex < 0 {
		return 0
	}
	return oldIndex
}

// AutoSelectIndex picks the startup selection from the pane that was
// focused in tmux when the dashboard launched: the pane itself if it is an
// agent, else the first agent in the same tmux session, else the top of the
// list.
func AutoSelectIndex(items []VisibleItem, focusedPaneID, focusedSessionName string) int {
	for i, item := range items {
		if row, ok := item.(AgentRow); ok && row.Agent.PaneID == focusedPaneID {
			return i
		}
	}
	for i, item := range items {
		if row, ok := item.(AgentRow); ok && row.Agent.SessionName == focusedSessionName {
			return i
		}
	}
	return 0
}
