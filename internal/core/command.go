package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoin claims a display identity and requests history replay.
	CommandJoin CommandKind = iota
	// CommandSendMessage posts a chat message to the room.
	CommandSendMessage
	// CommandLogout releases the client's presence binding.
	CommandLogout
)

// Command represents an action requested by a client.
type Command struct {
	Kind CommandKind
	Name string // join: requested identity (may be empty); logout: identity key (may be empty)
	Text string // send: message body
}
