package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/campforge-dev/campforge/db"
	"github.com/campforge-dev/campforge/internal/access"
	"github.com/campforge-dev/campforge/internal/models"
	"github.com/campforge-dev/campforge/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UpdateSettingsRequest struct {
	Settings json.RawMessage `json:"settings" binding:"required"`
}

type SettingsResponse struct {
	Settings   json.RawMessage `json:"settings"`
	InviteCode string          `json:"invite_code"`
}

func (h *Handler) GetSettings(ctx *gin.Context) {
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

	// Players may read settings; only mutation is GM-gated.
	if _, err := h.Access.Require(campaignID, userID, access.RolePlayer); err != nil {
		respondAccessError(ctx, err)
		return
	}

	campaign, ok := fetchCampaign(ctx, campaignID)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, SettingsResponse{
		Settings:   settingsDocument(campaign.Settings),
		InviteCode: campaign.InviteCode,
	})
}

func (h *Handler) UpdateSettings(ctx *gin.Context) {
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

	if _, err := h.Access.Require(campaignID, userID, access.RoleGameMaster); err != nil {
		respondAccessError(ctx, err)
		return
	}

	var body UpdateSettingsRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Settings document is required"})
		return
	}

	settings, err := parseSettingsDocument(body.Settings)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Settings must be a JSON object"})
		return
	}

	campaign, ok := fetchCampaign(ctx, campaignID)

	if !ok {
		return
	}

	campaign.Settings = settings

	if err := db.DB.Save(campaign).Error; err != nil {
		log.Printf("Failed to update settings: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		return
	}

	ctx.JSON(http.StatusOK, SettingsResponse{
		Settings:   settingsDocument(campaign.Settings),
		InviteCode: campaign.InviteCode,
	})
}

func (h *Handler) RegenerateInvite(ctx *gin.Context) {
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

	if _, err := h.Access.Require(campaignID, userID, access.RoleGameMaster); err != nil {
		respondAccessError(ctx, err)
		return
	}

	campaign, ok := fetchCampaign(ctx, campaignID)

	if !ok {
		return
	}

	// Policy gate on top of the role check. Read settings, decide, write:
	// two GMs racing here is last-write-wins on the code, which is fine.
	if !access.InviteRegenAllowed(campaign.Settings) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invite code regeneration is disabled for this campaign"})
		return
	}

	inviteCode, err := utils.NewInviteCode()

	if err != nil {
		log.Printf("Failed to generate invite code: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := db.DB.Model(campaign).Update("invite_code", inviteCode).Error; err != nil {
		log.Printf("Failed to update invite code: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to regenerate invite code"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"invite_code": inviteCode})
}

func fetchCampaign(ctx *gin.Context, campaignID uint) (*models.Campaign, bool) {
	var campaign models.Campaign

	if err := db.DB.First(&campaign, campaignID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
		} else {
			log.Printf("Failed to fetch campaign: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return nil, false
	}

	return &campaign, true
}

// parseSettingsDocument validates that raw is a JSON object and returns it
// for storage. JSON null is not an object: unmarshal accepts it, leaving a
// nil map, so it is rejected explicitly.
func parseSettingsDocument(raw json.RawMessage) (datatypes.JSON, error) {
	var doc map[string]interface{}

	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	if doc == nil {
		return nil, errors.New("settings must be a JSON object")
	}

	return datatypes.JSON(raw), nil
}

func settingsDocument(settings datatypes.JSON) json.RawMessage {
	if len(settings) == 0 {
		return json.RawMessage("{}")
	}
	return json.RawMessage(settings)
}
