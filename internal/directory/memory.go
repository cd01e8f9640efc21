package directory

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"chatrelay/internal/domain"
)

// Memory is an in-process directory. It backs the "memory" config
// backend and the tests.
type Memory struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]domain.Room
}

func NewMemory() *Memory {
	return &Memory{rooms: make(map[domain.RoomID]domain.Room)}
}

func (m *Memory) Lookup(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &room, nil
}

func (m *Memory) Create(ctx context.Context, user1, user2 string) (*domain.Room, error) {
	if err := validateParticipants(user1, user2); err != nil {
		return nil, err
	}
	room := newRoom(user1, user2)
	m.mu.Lock()
	m.rooms[room.ID] = *room
	m.mu.Unlock()
	log.Info().Str("module", "directory.memory").Str("room", string(room.ID)).Msg("room created")
	return room, nil
}
