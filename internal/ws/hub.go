// Package ws holds the realtime room registry and broadcaster.
package ws

import (
	"log"
	"strconv"
	"sync"
	"time"
)

// OOCRoom is the singleton out-of-character room key, disjoint from all
// campaign rooms (campaign rooms are keyed by the decimal campaign id).
const OOCRoom = "ooc"

// CampaignRoom returns the room key for a campaign id.
func CampaignRoom(campaignID uint) string {
	return strconv.FormatUint(uint64(campaignID), 10)
}

const writeWait = 10 * time.Second

// Conn is the slice of a websocket connection the hub needs. It is
// satisfied by *websocket.Conn.
type Conn interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Envelope is the payload shape pushed to clients.
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maps room keys to the set of open connections registered under them.
// It is owned by the process: constructed at startup, handed to the router,
// and torn down on shutdown.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[Conn]bool),
	}
}

// Register adds conn to the room's membership set. A connection belongs to
// exactly one room for its lifetime.
func (h *Hub) Register(room string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms == nil {
		// Shut down; the caller's connection is simply never registered.
		return
	}

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[Conn]bool)
	}
	h.rooms[room][conn] = true
}

// Unregister removes conn from the room. Safe to call for connections that
// were never registered.
func (h *Hub) Unregister(room string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, exists := h.rooms[room]; exists {
		delete(clients, conn)

		if len(clients) == 0 {
			delete(h.rooms, room)
		}
	}
}

// RoomSize returns the number of connections currently registered in room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[room])
}

// Broadcast delivers an {type, data} envelope to every connection in the
// room, best effort: it returns once a write has been attempted to each
// current member. Connections whose writes fail are evicted and closed;
// the error is not surfaced to the caller.
func (h *Hub) Broadcast(room string, eventType string, data interface{}) {
	h.mu.RLock()
	clients, exists := h.rooms[room]
	if !exists || len(clients) == 0 {
		h.mu.RUnlock()
		return
	}

	// Copy the membership so the lock is not held during writes.
	clientsCopy := make([]Conn, 0, len(clients))
	for conn := range clients {
		clientsCopy = append(clientsCopy, conn)
	}
	h.mu.RUnlock()

	envelope := Envelope{Type: eventType, Data: data}

	for _, conn := range clientsCopy {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("Failed to set write deadline for broadcast: %v", err)
			continue
		}

		if err := conn.WriteJSON(envelope); err != nil {
			log.Printf("Failed to broadcast to client in room %s: %v", room, err)
			h.Unregister(room, conn)
			conn.Close()
		}
	}
}

// Shutdown closes every registered connection and empties the registry.
// Subsequent registrations are ignored.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.rooms {
		for conn := range clients {
			conn.Close()
		}
	}

	h.rooms = nil
}
