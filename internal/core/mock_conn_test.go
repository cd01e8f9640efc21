package core_test

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"chatrelay/internal/core"
)

// mockConn records every frame it is asked to deliver. Setting failSend
// simulates a handle that is already closing.
type mockConn struct {
	mu       sync.Mutex
	frames   []core.Frame
	failSend bool
	closed   bool
}

func newMockConn() *mockConn {
	return &mockConn{}
}

func (c *mockConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failSend || c.closed {
		return errors.New("send failed")
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *mockConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *mockConn) Frames() []core.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.Frame, len(c.frames))
	copy(out, c.frames)
	return out
}

// wireMsg mirrors the outbound frame shape for assertions.
type wireMsg struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Username string `json:"username"`
}

func (c *mockConn) Received(t *testing.T) []wireMsg {
	t.Helper()
	frames := c.Frames()
	out := make([]wireMsg, 0, len(frames))
	for _, f := range frames {
		var m wireMsg
		require.NoError(t, json.Unmarshal(f, &m))
		out = append(out, m)
	}
	return out
}
