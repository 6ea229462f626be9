// Package pubsub provides a generic publish/subscribe event system used to
// move data from background tasks (the session poller, the preview watcher)
// into the Bubble Tea update loop without shared state.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// SnapshotEvent carries a fresh session poll result.
	SnapshotEvent EventType = "snapshot"
	// PreviewEvent carries new content for the selected pane.
	PreviewEvent EventType = "preview"
	// LogEvent carries a formatted log entry.
	LogEvent EventType = "log"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
