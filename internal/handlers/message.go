package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/campforge-dev/campforge/db"
	"github.com/campforge-dev/campforge/internal/access"
	"github.com/campforge-dev/campforge/internal/models"
	"github.com/campforge-dev/campforge/internal/utils"
	"github.com/campforge-dev/campforge/internal/ws"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const messageHistoryLimit = 100

type CreateMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type MessageResponse struct {
	ID         uint      `json:"id"`
	CampaignID *uint     `json:"campaign_id"`
	UserID     uint      `json:"user_id"`
	Content    string    `json:"content"`
	Kind       string    `json:"kind"`
	CreatedAt  time.Time `json:"created_at"`
}

func toMessageResponse(msg models.Message) MessageResponse {
	return MessageResponse{
		ID:         msg.ID,
		CampaignID: msg.CampaignID,
		UserID:     msg.AuthorID,
		Content:    msg.Content,
		Kind:       msg.Kind,
		CreatedAt:  msg.CreatedAt,
	}
}

// recentMessages returns the newest messages matching query, oldest first.
func recentMessages(query *gorm.DB) ([]MessageResponse, error) {
	var messages []models.Message

	if err := query.Order("created_at DESC, id DESC").Limit(messageHistoryLimit).Find(&messages).Error; err != nil {
		return nil, err
	}

	response := make([]MessageResponse, len(messages))

	for i, msg := range messages {
		response[len(messages)-1-i] = toMessageResponse(msg)
	}

	return response, nil
}

func (h *Handler) ListMessages(ctx *gin.Context) {
	campaignID, err := utils.GetCampaignID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if _, err := h.Access.Require(campaignID, userID, access.RolePlayer); err != nil {
		respondAccessError(ctx, err)
		return
	}

	response, err := recentMessages(db.DB.Where("campaign_id = ?", campaignID))

	if err != nil {
		log.Printf("Failed to list messages: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve messages"})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) CreateMessage(ctx *gin.Context) {
	campaignID, err := utils.GetCampaignID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if _, err := h.Access.Require(campaignID, userID, access.RolePlayer); err != nil {
		respondAccessError(ctx, err)
		return
	}

	var body CreateMessageRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	message := models.Message{
		CampaignID: &campaignID,
		AuthorID:   userID,
		Content:    body.Content,
		Kind:       models.MessageKindText,
	}

	if err := db.DB.Create(&message).Error; err != nil {
		log.Printf("Failed to create message: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create message"})
		return
	}

	response := toMessageResponse(message)

	h.Hub.Broadcast(ws.CampaignRoom(campaignID), "message", response)

	ctx.JSON(http.StatusCreated, response)
}
