package ws

import (
	"sync"
	"time"
)

// WriterConn is the write side of a websocket transport, as gorilla
// exposes it.
type WriterConn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// SafeConn serializes writes to an underlying connection. The transport
// permits only one concurrent writer, but broadcasts arrive on request
// goroutines while pings come from the connection's own ticker goroutine,
// so every write is funneled through one mutex.
type SafeConn struct {
	mu   sync.Mutex
	conn WriterConn
}

func NewSafeConn(conn WriterConn) *SafeConn {
	return &SafeConn{conn: conn}
}

func (c *SafeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *SafeConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(messageType, data)
}

func (c *SafeConn) SetWriteDeadline(t time.Time) error {
	return c.conn.SetWriteDeadline(t)
}

func (c *SafeConn) Close() error {
	return c.conn.Close()
}
