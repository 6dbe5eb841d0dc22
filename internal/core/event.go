package core

import "time"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventMessage carries a persisted chat message, broadcast to the room.
	EventMessage EventKind = iota
	// EventSystem is a join/leave notice, broadcast but never persisted.
	EventSystem
	// EventHistory delivers the replay batch to a single client after join.
	EventHistory
	// EventError notifies a single client about a domain error.
	EventError
)

// Event is sent to clients to describe what happened in the room.
type Event struct {
	Kind     EventKind
	Message  Message
	Messages []Message // for EventHistory, ascending sequence order
	Text     string    // for EventSystem
	At       time.Time // for EventSystem
	Error    *CoreError
}
