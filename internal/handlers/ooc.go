package handlers

import (
	"log"
	"net/http"

	"github.com/campforge-dev/campforge/db"
	"github.com/campforge-dev/campforge/internal/models"
	"github.com/campforge-dev/campforge/internal/utils"
	"github.com/campforge-dev/campforge/internal/ws"
	"github.com/gin-gonic/gin"
)

// Out-of-character chat is one shared room for all authenticated users,
// independent of any campaign.

func (h *Handler) ListOOCMessages(ctx *gin.Context) {
	if _, err := utils.GetCurrentUserID(ctx); err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	response, err := recentMessages(db.DB.Where("campaign_id IS NULL AND kind = ?", models.MessageKindOOC))

	if err != nil {
		log.Printf("Failed to list OOC messages: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve messages"})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) CreateOOCMessage(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateMessageRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	message := models.Message{
		CampaignID: nil,
		AuthorID:   userID,
		Content:    body.Content,
		Kind:       models.MessageKindOOC,
	}

	if err := db.DB.Create(&message).Error; err != nil {
		log.Printf("Failed to create OOC message: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create message"})
		return
	}

	response := toMessageResponse(message)

	h.Hub.Broadcast(ws.OOCRoom, "message", response)

	ctx.JSON(http.StatusCreated, response)
}
