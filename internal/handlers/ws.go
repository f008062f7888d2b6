package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/campforge-dev/campforge/internal/access"
	"github.com/campforge-dev/campforge/internal/types"
	"github.com/campforge-dev/campforge/internal/utils"
	"github.com/campforge-dev/campforge/internal/ws"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// WebSocket upgrades the request and registers the connection into exactly
// one room, chosen at connect time: ?campaignId=<id> for a campaign room or
// ?room=ooc for out-of-character chat. The channel is receive-only from the
// client's perspective; client frames are logged and dropped.
func (h *Handler) WebSocket(c *gin.Context) {
	user, err := utils.GetCurrentUser(c)

	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	room, ok := h.resolveRoom(c, user.ID)

	if !ok {
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins() {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	// Broadcasts and pings write from different goroutines; the transport
	// allows one writer at a time.
	safe := ws.NewSafeConn(conn)

	h.Hub.Register(room, safe)

	done := make(chan struct{})

	defer func() {
		close(done)
		h.Hub.Unregister(room, safe)
		safe.Close()

		log.Printf("WebSocket connection closed for room %s", room)
	}()

	if err := safe.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		log.Printf("Failed to set write deadline for welcome message: %v", err)
		return
	}

	err = safe.WriteJSON(map[string]string{
		"type": "connected",
		"room": room,
	})

	if err != nil {
		log.Printf("Failed to send welcome message: %v", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := safe.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					log.Printf("Failed to set write deadline for room %s: %v", room, err)
					return
				}
				if err := safe.WriteMessage(websocket.PingMessage, nil); err != nil {
					log.Printf("Ping failed for room %s: %v", room, err)
					return
				}
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline for room %s: %v", room, err)
			break
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for room %s: %v", room, err)
			}
			break
		}

		// Clients publish through the REST endpoints, never this channel.
		log.Printf("Dropping client frame in room %s: %s", room, string(message))
	}
}

// resolveRoom maps the connect-time query parameters to a room key,
// enforcing campaign membership for campaign rooms.
func (h *Handler) resolveRoom(c *gin.Context, userID uint) (string, bool) {
	if campaignParam := c.Query("campaignId"); campaignParam != "" {
		id, err := strconv.ParseUint(campaignParam, 10, 64)

		if err != nil || id == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid campaign ID"})
			return "", false
		}

		if _, err := h.Access.Require(uint(id), userID, access.RolePlayer); err != nil {
			respondAccessError(c, err)
			return "", false
		}

		return ws.CampaignRoom(uint(id)), true
	}

	if c.Query("room") == ws.OOCRoom {
		return ws.OOCRoom, true
	}

	c.JSON(http.StatusBadRequest, gin.H{"error": "A campaignId or room=ooc query parameter is required"})
	return "", false
}
