package handlers

import (
	"errors"
	"net/http"

	"github.com/campforge-dev/campforge/internal/access"
	"github.com/campforge-dev/campforge/internal/auth"
	"github.com/campforge-dev/campforge/internal/ws"
	"github.com/gin-gonic/gin"
)

// Handler carries the gateway's collaborators: the realtime hub, the
// identity verifier and the access checker. It is built once at startup
// and shared by every route.
type Handler struct {
	Hub      *ws.Hub
	Verifier auth.Verifier
	Access   *access.Checker
	Members  membershipStore
}

func New(hub *ws.Hub, verifier auth.Verifier) *Handler {
	return &Handler{
		Hub:      hub,
		Verifier: verifier,
		Access:   access.NewChecker(access.GormStore{}),
		Members:  gormMembershipStore{},
	}
}

// respondAccessError translates access-control failures into responses.
// Non-members of an existing campaign get 403; a missing campaign is 404.
func respondAccessError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, access.ErrCampaignNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
	case errors.Is(err, access.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
