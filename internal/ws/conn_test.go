package ws

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// racyConn flags any overlapping writes, the condition the real transport
// panics on.
type racyConn struct {
	active  int32
	overlap int32
	writes  int32
}

func (c *racyConn) write() error {
	if atomic.AddInt32(&c.active, 1) > 1 {
		atomic.StoreInt32(&c.overlap, 1)
	}
	time.Sleep(time.Millisecond)
	atomic.AddInt32(&c.active, -1)
	atomic.AddInt32(&c.writes, 1)
	return nil
}

func (c *racyConn) WriteJSON(v interface{}) error { return c.write() }

func (c *racyConn) WriteMessage(messageType int, data []byte) error { return c.write() }

func (c *racyConn) SetWriteDeadline(t time.Time) error { return nil }

func (c *racyConn) Close() error { return nil }

func TestSafeConnSerializesWriters(t *testing.T) {
	underlying := &racyConn{}
	conn := NewSafeConn(underlying)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				conn.WriteJSON(Envelope{Type: "message"})
				conn.WriteMessage(9, nil)
			}
		}()
	}
	wg.Wait()

	if atomic.LoadInt32(&underlying.overlap) != 0 {
		t.Fatal("writes overlapped through SafeConn")
	}
	if got := atomic.LoadInt32(&underlying.writes); got != 16*10*2 {
		t.Errorf("writes = %d, want %d", got, 16*10*2)
	}
}

func TestConcurrentBroadcastsAndPingsDoNotOverlap(t *testing.T) {
	hub := NewHub()
	underlying := &racyConn{}
	conn := NewSafeConn(underlying)
	hub.Register("1", conn)

	var wg sync.WaitGroup

	// Broadcasts from many request goroutines at once.
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				hub.Broadcast("1", "message", map[string]string{"content": "hi"})
			}
		}()
	}

	// The connection's ping writer racing against them.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 50; j++ {
			conn.SetWriteDeadline(time.Now().Add(time.Second))
			conn.WriteMessage(9, nil)
		}
	}()

	wg.Wait()

	if atomic.LoadInt32(&underlying.overlap) != 0 {
		t.Fatal("broadcast and ping writes overlapped on one connection")
	}
}
