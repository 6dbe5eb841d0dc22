package core

import "time"

// Message is the domain model for a chat message. ID is the sequence
// identifier assigned by the store at persist time and defines the total
// order of messages in the room.
type Message struct {
	ID        int64
	From      string
	Text      string
	CreatedAt time.Time
}
