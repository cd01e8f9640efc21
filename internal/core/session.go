package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"chatrelay/internal/domain"
)

// RoomDirectory is the external collaborator that knows which
// participants a room admits. Any lookup failure refuses the connection.
type RoomDirectory interface {
	Lookup(ctx context.Context, id domain.RoomID) (*domain.Room, error)
}

var (
	ErrMissingParams  = errors.New("room id or identity missing")
	ErrNotParticipant = errors.New("identity not authorized for room")
	ErrSessionClosed  = errors.New("session closed")
)

type sessionState int

const (
	stateConnecting sessionState = iota
	stateActive
	stateClosed
)

// inboundFrame is the only inbound shape the relay understands; other
// fields are ignored.
type inboundFrame struct {
	Message string `json:"message"`
}

// Session drives one connection through Connecting -> Active -> Closed.
// There is no way back to Active once closed.
type Session struct {
	registry   *Registry
	dispatcher *Dispatcher
	directory  RoomDirectory

	token Token
	conn  Connection

	mu       sync.Mutex
	state    sessionState
	roomID   domain.RoomID
	identity string
}

func NewSession(registry *Registry, dispatcher *Dispatcher, directory RoomDirectory, token Token, conn Connection) *Session {
	return &Session{
		registry:   registry,
		dispatcher: dispatcher,
		directory:  directory,
		token:      token,
		conn:       conn,
		state:      stateConnecting,
	}
}

// Connect validates the initiation parameters against the room directory
// and, on success, registers the connection and announces the join to the
// whole room, the joiner included. A refusal closes the session without
// touching the registry.
func (s *Session) Connect(ctx context.Context, roomID domain.RoomID, identity string) error {
	s.mu.Lock()
	if s.state != stateConnecting {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if roomID == "" || identity == "" {
		s.state = stateClosed
		s.mu.Unlock()
		return ErrMissingParams
	}

	room, err := s.directory.Lookup(ctx, roomID)
	if err != nil {
		s.state = stateClosed
		s.mu.Unlock()
		return fmt.Errorf("lookup room %s: %w", roomID, err)
	}
	if !room.HasParticipant(identity) {
		s.state = stateClosed
		s.mu.Unlock()
		return ErrNotParticipant
	}

	s.roomID = roomID
	s.identity = identity
	s.registry.Join(roomID, s.token, s.conn)
	s.state = stateActive
	s.mu.Unlock()

	s.dispatcher.Broadcast(roomID, domain.Join{Identity: identity}, "")
	log.Info().Str("module", "core.session").Str("room", string(roomID)).Str("user", identity).Msg("session active")
	return nil
}

// HandleFrame processes one inbound frame while Active. Malformed frames
// and frames without a message are dropped without closing the session.
func (s *Session) HandleFrame(data []byte) {
	s.mu.Lock()
	if s.state != stateActive {
		s.mu.Unlock()
		return
	}
	roomID, identity := s.roomID, s.identity
	s.mu.Unlock()

	var in inboundFrame
	if err := json.Unmarshal(data, &in); err != nil {
		log.Debug().Str("module", "core.session").Str("user", identity).Err(err).Msg("dropping malformed frame")
		return
	}
	if in.Message == "" {
		return
	}

	s.dispatcher.Broadcast(roomID, domain.Message{Sender: identity, Text: in.Message}, "")
}

// Close runs the Active -> Closed transition exactly once: announce the
// leave best-effort, then deregister unconditionally. Safe to call from
// any goroutine, in any state, any number of times.
func (s *Session) Close() {
	s.mu.Lock()
	if s.state == stateClosed {
		s.mu.Unlock()
		return
	}
	wasActive := s.state == stateActive
	roomID, identity := s.roomID, s.identity
	s.state = stateClosed
	s.mu.Unlock()

	if !wasActive {
		return
	}
	s.dispatcher.Broadcast(roomID, domain.Leave{Identity: identity}, "")
	s.registry.Leave(roomID, s.token)
	log.Info().Str("module", "core.session").Str("room", string(roomID)).Str("user", identity).Msg("session closed")
}
