package core

import "time"

// Client is a chat participant as seen by the core layer. The transport
// owns the underlying connection; the core only holds this handle and
// delivers events through the buffered Events channel.
type Client struct {
	ID     string
	Events chan *Event

	// Fields below are session state owned exclusively by the hub loop.
	gone        bool
	replaying   bool
	windowStart time.Time
	windowCount int
}

// NewClient constructs a client handle with an initialized event channel.
func NewClient(id string) *Client {
	return &Client{
		ID:     id,
		Events: make(chan *Event, 32),
	}
}
