package core_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"chatrelay/internal/core"
	"chatrelay/internal/domain"
)

func TestRegistry_JoinCreatesRoom(t *testing.T) {
	req := require.New(t)
	reg := core.NewRegistry()
	roomID := domain.RoomID("abc")

	req.False(reg.Exists(roomID))
	req.Empty(reg.MembersOf(roomID))

	conn := newMockConn()
	reg.Join(roomID, "t1", conn)

	req.True(reg.Exists(roomID))
	members := reg.MembersOf(roomID)
	req.Len(members, 1)
	req.Equal(core.Token("t1"), members[0].Token)
}

func TestRegistry_RejoinSameTokenReplacesHandle(t *testing.T) {
	req := require.New(t)
	reg := core.NewRegistry()
	roomID := domain.RoomID("abc")

	first := newMockConn()
	second := newMockConn()
	reg.Join(roomID, "t1", first)
	reg.Join(roomID, "t1", second)

	members := reg.MembersOf(roomID)
	req.Len(members, 1)
	req.Same(second, members[0].Conn)
}

func TestRegistry_LeaveRemovesEmptyRoom(t *testing.T) {
	req := require.New(t)
	reg := core.NewRegistry()
	roomID := domain.RoomID("abc")

	reg.Join(roomID, "t1", newMockConn())
	reg.Join(roomID, "t2", newMockConn())

	reg.Leave(roomID, "t1")
	req.True(reg.Exists(roomID))
	req.Len(reg.MembersOf(roomID), 1)

	reg.Leave(roomID, "t2")
	req.False(reg.Exists(roomID))
	req.Empty(reg.MembersOf(roomID))
	req.Empty(reg.Rooms())
}

func TestRegistry_LeaveIsIdempotent(t *testing.T) {
	req := require.New(t)
	reg := core.NewRegistry()
	roomID := domain.RoomID("abc")

	// Never-joined room and token must be silent no-ops.
	req.NotPanics(func() {
		reg.Leave(roomID, "ghost")
	})

	reg.Join(roomID, "t1", newMockConn())
	reg.Join(roomID, "t2", newMockConn())

	reg.Leave(roomID, "t1")
	reg.Leave(roomID, "t1")
	req.Len(reg.MembersOf(roomID), 1)

	reg.Leave(roomID, "unknown")
	req.Len(reg.MembersOf(roomID), 1)
}

func TestRegistry_MembersOfIsASnapshot(t *testing.T) {
	req := require.New(t)
	reg := core.NewRegistry()
	roomID := domain.RoomID("abc")

	reg.Join(roomID, "t1", newMockConn())
	snapshot := reg.MembersOf(roomID)

	reg.Join(roomID, "t2", newMockConn())
	req.Len(snapshot, 1)
	req.Len(reg.MembersOf(roomID), 2)
}

func TestRegistry_ConcurrentJoinLeave(t *testing.T) {
	req := require.New(t)
	reg := core.NewRegistry()

	const rooms = 8
	const perRoom = 16

	var wg sync.WaitGroup
	for r := 0; r < rooms; r++ {
		roomID := domain.RoomID(fmt.Sprintf("room-%d", r))
		for i := 0; i < perRoom; i++ {
			wg.Add(1)
			token := core.Token(fmt.Sprintf("conn-%d", i))
			go func() {
				defer wg.Done()
				reg.Join(roomID, token, newMockConn())
				reg.MembersOf(roomID)
				reg.Leave(roomID, token)
			}()
		}
	}
	wg.Wait()

	for r := 0; r < rooms; r++ {
		roomID := domain.RoomID(fmt.Sprintf("room-%d", r))
		req.False(reg.Exists(roomID))
		req.Empty(reg.MembersOf(roomID))
	}
	req.Empty(reg.Rooms())
}
