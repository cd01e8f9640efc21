package domain

// RoomID is the opaque identifier a room is keyed by (UUID-shaped string).
type RoomID string

// Room is a two-participant chat session. User1 and User2 are the only
// identities allowed to connect to it.
type Room struct {
	ID    RoomID
	User1 string
	User2 string
}

// HasParticipant reports whether identity occupies one of the room's
// two authorized slots.
func (r *Room) HasParticipant(identity string) bool {
	return identity != "" && (identity == r.User1 || identity == r.User2)
}
