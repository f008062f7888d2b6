package handlers

import (
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/campforge-dev/campforge/internal/access"
	"github.com/campforge-dev/campforge/internal/middleware"
	"github.com/campforge-dev/campforge/internal/types"
	"github.com/campforge-dev/campforge/internal/ws"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type fakeAccessStore struct {
	campaigns   map[uint]bool
	memberships map[[2]uint]access.Role
}

func (s *fakeAccessStore) CampaignExists(campaignID uint) (bool, error) {
	return s.campaigns[campaignID], nil
}

func (s *fakeAccessStore) MembershipRole(campaignID, userID uint) (access.Role, bool, error) {
	role, ok := s.memberships[[2]uint{campaignID, userID}]
	return role, ok, nil
}

func newWSTestServer(t *testing.T, userID uint, store access.Store) (*httptest.Server, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := &Handler{
		Hub:    ws.NewHub(),
		Access: access.NewChecker(store),
	}

	r := gin.New()
	r.GET("/api/ws", func(ctx *gin.Context) {
		ctx.Set(types.ContextUserKey, middleware.AuthenticatedUser{ID: userID, Name: "Tester"})
	}, h.WebSocket)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	t.Cleanup(h.Hub.Shutdown)

	return srv, h
}

func dial(t *testing.T, srv *httptest.Server, query string) (*websocket.Conn, *http.Response, error) {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws?" + query
	header := http.Header{"Origin": []string{"http://localhost:3000"}}

	return websocket.DefaultDialer.Dial(wsURL, header)
}

func TestWebSocketOOCConnectAndBroadcast(t *testing.T) {
	srv, h := newWSTestServer(t, 1, &fakeAccessStore{})

	conn, _, err := dial(t, srv, "room=ooc")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var welcome map[string]string
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("reading welcome message: %v", err)
	}
	if welcome["type"] != "connected" || welcome["room"] != ws.OOCRoom {
		t.Fatalf("welcome = %v", welcome)
	}

	// Registration is async from the dialer's point of view; the welcome
	// message above guarantees it has happened.
	h.Hub.Broadcast(ws.OOCRoom, "message", map[string]string{"content": "Hello"})

	var envelope struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&envelope); err != nil {
		t.Fatalf("reading broadcast: %v", err)
	}
	if envelope.Type != "message" || envelope.Data["content"] != "Hello" {
		t.Fatalf("envelope = %+v", envelope)
	}
}

func TestWebSocketCampaignRoomRequiresMembership(t *testing.T) {
	store := &fakeAccessStore{
		campaigns:   map[uint]bool{1: true},
		memberships: map[[2]uint]access.Role{{1, 2}: access.RolePlayer},
	}
	srv, _ := newWSTestServer(t, 1, store)

	// User 1 is not a member of campaign 1.
	_, resp, err := dial(t, srv, "campaignId=1")
	if err == nil {
		t.Fatal("dial succeeded for a non-member")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("handshake response = %v, want 403", resp)
	}

	// And campaign 99 does not exist at all.
	_, resp, err = dial(t, srv, "campaignId=99")
	if err == nil {
		t.Fatal("dial succeeded for a missing campaign")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("handshake response = %v, want 404", resp)
	}
}

func TestWebSocketCampaignRoomMemberConnects(t *testing.T) {
	store := &fakeAccessStore{
		campaigns:   map[uint]bool{1: true},
		memberships: map[[2]uint]access.Role{{1, 1}: access.RolePlayer},
	}
	srv, h := newWSTestServer(t, 1, store)

	conn, _, err := dial(t, srv, "campaignId=1")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var welcome map[string]string
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("reading welcome message: %v", err)
	}
	if welcome["room"] != ws.CampaignRoom(1) {
		t.Fatalf("registered in room %q, want %q", welcome["room"], ws.CampaignRoom(1))
	}

	if h.Hub.RoomSize(ws.CampaignRoom(1)) != 1 {
		t.Errorf("room size = %d, want 1", h.Hub.RoomSize(ws.CampaignRoom(1)))
	}
}

func TestWebSocketRejectsMissingRoom(t *testing.T) {
	srv, _ := newWSTestServer(t, 1, &fakeAccessStore{})

	_, resp, err := dial(t, srv, "")
	if err == nil {
		t.Fatal("dial succeeded without a room")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("handshake response = %v, want 400", resp)
	}
}

func TestWebSocketCleansUpGoroutinesOnClose(t *testing.T) {
	srv, h := newWSTestServer(t, 1, &fakeAccessStore{})

	cycle := func() {
		t.Helper()

		conn, _, err := dial(t, srv, "room=ooc")
		if err != nil {
			t.Fatalf("dial: %v", err)
		}

		var welcome map[string]string
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		if err := conn.ReadJSON(&welcome); err != nil {
			t.Fatalf("reading welcome message: %v", err)
		}

		conn.Close()

		deadline := time.Now().Add(2 * time.Second)
		for h.Hub.RoomSize(ws.OOCRoom) != 0 {
			if time.Now().After(deadline) {
				t.Fatal("connection still registered after close")
			}
			time.Sleep(10 * time.Millisecond)
		}
	}

	// Warm up so the server's steady-state goroutines exist.
	cycle()
	time.Sleep(100 * time.Millisecond)
	base := runtime.NumGoroutine()

	for i := 0; i < 20; i++ {
		cycle()
	}

	deadline := time.Now().Add(3 * time.Second)
	for runtime.NumGoroutine() > base+5 {
		if time.Now().After(deadline) {
			t.Fatalf("goroutines grew from %d to %d after 20 connect/close cycles",
				base, runtime.NumGoroutine())
		}
		time.Sleep(25 * time.Millisecond)
	}
}

func TestWebSocketUnregistersOnClose(t *testing.T) {
	srv, h := newWSTestServer(t, 1, &fakeAccessStore{})

	conn, _, err := dial(t, srv, "room=ooc")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	var welcome map[string]string
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("reading welcome message: %v", err)
	}

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for h.Hub.RoomSize(ws.OOCRoom) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("connection still registered after close")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
