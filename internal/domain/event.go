package domain

import (
	"encoding/json"
	"fmt"
)

// Event is the closed set of things that can happen in a room.
// Serialization matches on the concrete type exhaustively; there is no
// string-keyed dispatch anywhere.
type Event interface {
	isEvent()
}

// Message carries one line of chat from a participant.
type Message struct {
	Sender string
	Text   string
}

// Join announces that a participant connected to the room.
type Join struct {
	Identity string
}

// Leave announces that a participant disconnected from the room.
type Leave struct {
	Identity string
}

func (Message) isEvent() {}
func (Join) isEvent()    {}
func (Leave) isEvent()   {}

// wireFrame is the outbound JSON shape shared by all three variants.
type wireFrame struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Username string `json:"username,omitempty"`
}

// EncodeEvent serializes an event to its outbound wire frame.
func EncodeEvent(ev Event) ([]byte, error) {
	var frame wireFrame
	switch e := ev.(type) {
	case Message:
		frame = wireFrame{Type: "message", Message: e.Text, Username: e.Sender}
	case Join:
		frame = wireFrame{Type: "join", Message: fmt.Sprintf("%s has joined the chat.", e.Identity)}
	case Leave:
		frame = wireFrame{Type: "leave", Message: fmt.Sprintf("%s has left the chat.", e.Identity)}
	default:
		return nil, fmt.Errorf("unknown event type %T", ev)
	}
	return json.Marshal(frame)
}
