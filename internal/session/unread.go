package session

// UnreadState tracks sessions that finished working and have not been looked
// at. Membership is a set of pane ids; Order ranks them by when they became
// idle using a counter that only ever grows, so ordering survives pruning
// and process restarts.
type UnreadState struct {
	ids     map[string]bool
	order   map[string]uint64
	counter uint64
}

// NewUnreadState returns an empty unread tracker.
func NewUnreadState() *UnreadState {
	return &UnreadState{
		ids:   make(map[string]bool),
		order: make(map[string]uint64),
	}
}

// RestoreUnreadState rebuilds a tracker from persisted fields. Nil maps are
// tolerated so a missing state file restores to empty.
func RestoreUnreadState(ids []string, order map[string]uint64, counter uint64) *UnreadState {
	u := NewUnreadState()
	for _, id := range ids {
		u.ids[id] = true
	}
	for id, n := range order {
		u.order[id] = n
	}
	u.counter = counter
	return u
}

// Contains reports whether the pane is unread.
func (u *UnreadState) Contains(paneID string) bool {
	return u.ids[paneID]
}

// IDs returns the unread pane ids in unspecified order.
func (u *UnreadState) IDs() []string {
	out := make([]string, 0, len(u.ids))
	for id := range u.ids {
		out = append(out, id)
	}
	return out
}

// Order returns a copy of the insertion-order map.
func (u *UnreadState) Order() map[string]uint64 {
	out := make(map[string]uint64, len(u.order))
	for id, n := range u.order {
		out[id] = n
	}
	return out
}

// Counter returns the highest order value ever assigned.
func (u *UnreadState) Counter() uint64 {
	return u.counter
}

// OrderOf returns the insertion order assigned to a pane, if any.
func (u *UnreadState) OrderOf(paneID string) (uint64, bool) {
	n, ok := u.order[paneID]
	return n, ok
}

// Len returns the number of unread panes.
func (u *UnreadState) Len() int {
	return len(u.ids)
}

// Mark records a pane as unread with the next order value. Marking an
// already-unread pane keeps its original position.
func (u *UnreadState) Mark(paneID string) {
	if u.ids[paneID] {
		return
	}
	u.ids[paneID] = true
	u.counter++
	u.order[paneID] = u.counter
}

// Clear removes a pane from the unread set, e.g. after the operator reads
// or switches to it.
func (u *UnreadState) Clear(paneID string) {
	delete(u.ids, paneID)
	delete(u.order, paneID)
}

// ApplySnapshot folds a poll snapshot into the tracker: an Active→Idle
// transition marks the pane unread, and panes absent from the snapshot are
// pruned so the set never outlives the sessions it refers to. prevStatus is
// the status map from the previous snapshot. The returned map is the status
// map to carry into the next cycle.
func (u *UnreadState) ApplySnapshot(agents []Agent, prevStatus map[string]Status) map[string]Status {
	current := make(map[string]bool, len(agents))
	next := make(map[string]Status, len(agents))
	for _, a := range agents {
		current[a.PaneID] = true
		next[a.PaneID] = a.Status
		if prevStatus[a.PaneID] == StatusActive && a.Status == StatusIdle {
			u.Mark(a.PaneID)
		}
	}
	for id := range u.ids {
		if !current[id] {
			delete(u.ids, id)
			delete(u.order, id)
		}
	}
	return next
}
