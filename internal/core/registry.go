package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"chatrelay/internal/domain"
)

// Member pairs a connection token with its handle in a membership snapshot.
type Member struct {
	Token Token
	Conn  Connection
}

// RoomInfo is a read-only view for the rooms listing.
type RoomInfo struct {
	ID          domain.RoomID `json:"room_id"`
	MemberCount int           `json:"client_count"`
}

// roomEntry holds one room's membership behind its own lock, so traffic
// in different rooms never contends.
type roomEntry struct {
	mu      sync.Mutex
	members map[Token]Connection
	closed  bool
}

// Registry maps rooms to their active connections. Entries are created
// lazily on first join and removed when the last member leaves.
type Registry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*roomEntry
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[domain.RoomID]*roomEntry)}
}

func (r *Registry) getOrCreate(id domain.RoomID) *roomEntry {
	r.mu.RLock()
	e, ok := r.rooms[id]
	r.mu.RUnlock()
	if ok {
		return e
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok = r.rooms[id]; ok {
		return e
	}
	e = &roomEntry{members: make(map[Token]Connection)}
	r.rooms[id] = e
	return e
}

// Join registers a connection under a room, creating the entry if absent.
// Re-joining with the same token replaces the previous handle.
func (r *Registry) Join(id domain.RoomID, token Token, conn Connection) {
	for {
		e := r.getOrCreate(id)
		e.mu.Lock()
		if e.closed {
			// Lost the race against the last leave; the entry is already
			// unlinked, take a fresh one.
			e.mu.Unlock()
			continue
		}
		e.members[token] = conn
		e.mu.Unlock()
		log.Info().Str("module", "core.registry").Str("room", string(id)).Str("token", string(token)).Msg("member joined")
		return
	}
}

// Leave removes a connection from a room and drops the entry once it is
// empty. Absent rooms and tokens are a no-op: disconnect paths are
// expected to race and double-remove.
func (r *Registry) Leave(id domain.RoomID, token Token) {
	r.mu.RLock()
	e, ok := r.rooms[id]
	r.mu.RUnlock()
	if !ok {
		return
	}

	e.mu.Lock()
	delete(e.members, token)
	empty := len(e.members) == 0
	e.mu.Unlock()
	log.Info().Str("module", "core.registry").Str("room", string(id)).Str("token", string(token)).Msg("member left")
	if !empty {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.rooms[id]; ok && cur == e {
		e.mu.Lock()
		if len(e.members) == 0 {
			e.closed = true
			delete(r.rooms, id)
			log.Info().Str("module", "core.registry").Str("room", string(id)).Msg("room entry removed")
		}
		e.mu.Unlock()
	}
}

// MembersOf returns a snapshot copy of the room's membership. Callers
// never see the live map.
func (r *Registry) MembersOf(id domain.RoomID) []Member {
	r.mu.RLock()
	e, ok := r.rooms[id]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Member, 0, len(e.members))
	for token, conn := range e.members {
		out = append(out, Member{Token: token, Conn: conn})
	}
	return out
}

// Exists reports whether the room currently has at least one member.
func (r *Registry) Exists(id domain.RoomID) bool {
	r.mu.RLock()
	e, ok := r.rooms[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.members) > 0
}

// Rooms lists the active rooms with their member counts.
func (r *Registry) Rooms() []RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]RoomInfo, 0, len(r.rooms))
	for id, e := range r.rooms {
		e.mu.Lock()
		n := len(e.members)
		e.mu.Unlock()
		out = append(out, RoomInfo{ID: id, MemberCount: n})
	}
	return out
}
