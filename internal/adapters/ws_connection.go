package adapters

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"chatrelay/internal/core"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

const writeWait = 5 * time.Second

// WSConn is an indirection over *websocket.Conn to ease testing.
type WSConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(mt int, data []byte) error
	SetReadLimit(limit int64)
	SetWriteDeadline(t time.Time) error
	Close() error
}

// WSConnection is one client's websocket endpoint. It implements
// core.Connection. The adapter owns the transport and closes it; the
// registry only ever sees TrySend and Close.
type WSConnection struct {
	conn WSConn
	send chan core.Frame

	mu     sync.Mutex
	closed bool
}

func NewWSConnection(conn WSConn) *WSConnection {
	return &WSConnection{conn: conn, send: make(chan core.Frame, 64)}
}

// TrySend queues a frame without blocking. A full buffer means the peer
// is not draining; the dispatcher records that as a failed delivery.
func (c *WSConnection) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- f:
		return nil
	default:
		return ErrBackpressure
	}
}

func (c *WSConnection) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	c.mu.Unlock()
	_ = c.conn.Close()
}

// StartWriteLoop pumps frames to the network and pings to keep the
// connection alive.
func (c *WSConnection) StartWriteLoop(ctx context.Context, pingPeriod time.Duration) {
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer func() {
			ticker.Stop()
			c.Close()
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case data, ok := <-c.send:
				if !ok {
					_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
				_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
					return
				}
			case <-ticker.C:
				_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()
}

// StartReadLoop feeds inbound frames to the session. On exit the session
// is closed, which announces the leave and deregisters the connection.
func (c *WSConnection) StartReadLoop(ctx context.Context, sess *core.Session, readLimit int64) {
	go func() {
		defer func() {
			sess.Close()
			c.Close()
		}()
		c.conn.SetReadLimit(readLimit)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				_, data, err := c.conn.ReadMessage()
				if err != nil {
					return
				}
				sess.HandleFrame(data)
			}
		}
	}()
}
