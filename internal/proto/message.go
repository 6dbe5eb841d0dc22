package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoin   = "join"
	InboundTypeMsg    = "msg"
	InboundTypeLogout = "logout"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventNameHistory = "history"
	EventNameMessage = "message"
	EventNameSystem  = "system"
)

// JoinData announces the display identity the client wants to use. An empty
// user gets a synthesized guest name.
type JoinData struct {
	User string `json:"user,omitempty"`
}

// MsgData is a chat message from the client.
type MsgData struct {
	Text string `json:"text"`
}

// LogoutData requests an explicit logout, optionally keyed by identity.
type LogoutData struct {
	User string `json:"user,omitempty"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventMessage is a chat message broadcast to all clients.
type EventMessage struct {
	ID   int64  `json:"id"`
	User string `json:"user"`
	Text string `json:"text"`
	TS   int64  `json:"ts"`
}

// EventSystem is a join/leave notice. It is never persisted or replayed.
type EventSystem struct {
	Text   string `json:"text"`
	TS     int64  `json:"ts"`
	System bool   `json:"system"`
}

// EventHistory delivers the replay batch to a freshly joined client.
type EventHistory struct {
	Messages []EventMessage `json:"messages"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
