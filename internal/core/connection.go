package core

// Frame is a serialized outbound payload.
type Frame []byte

// Token uniquely identifies one live connection.
type Token string

// Connection abstracts one client's live bidirectional channel.
// Owned by the adapter; the adapter must Close() it. The registry holds
// a non-owning reference for fan-out only.
type Connection interface {
	TrySend(Frame) error
	Close()
}
