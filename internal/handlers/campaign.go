package handlers

import (
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
	"gorm.io/gorm/clause"
)

type CreateCampaignRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Ruleset     string `json:"ruleset"`
}

type JoinCampaignRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
}

type CampaignResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Ruleset     string `json:"ruleset"`
	OwnerID     uint   `json:"owner_id"`
	InviteCode  string `json:"invite_code"`
	IsOwner     bool   `json:"is_owner"`
}

func (h *Handler) CreateCampaign(ctx *gin.Context) {
	var body CreateCampaignRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if body.Ruleset == "" {
		body.Ruleset = "custom"
	}

	inviteCode, err := utils.NewInviteCode()

	if err != nil {
		log.Printf("Failed to generate invite code: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	campaign := models.Campaign{
		Name:        body.Name,
		Description: body.Description,
		Ruleset:     body.Ruleset,
		OwnerID:     userID,
		InviteCode:  inviteCode,
		Settings:    datatypes.JSON([]byte("{}")),
	}

	// The campaign and its owner's GM membership are created together or
	// not at all.
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&campaign).Error; err != nil {
			return err
		}

		membership := models.CampaignMembership{
			CampaignID: campaign.ID,
			UserID:     userID,
			Role:       string(access.RoleGameMaster),
		}

		return tx.Create(&membership).Error
	})

	if err != nil {
		log.Printf("Failed to create campaign: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create campaign"})
		return
	}

	ctx.JSON(http.StatusCreated, CampaignResponse{
		ID:          campaign.ID,
		Name:        campaign.Name,
		Description: campaign.Description,
		Ruleset:     campaign.Ruleset,
		OwnerID:     campaign.OwnerID,
		InviteCode:  campaign.InviteCode,
		IsOwner:     true,
	})
}

func (h *Handler) ListCampaigns(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var campaigns []models.Campaign

	err = db.DB.
		Joins("JOIN campaign_memberships ON campaign_memberships.campaign_id = campaigns.id").
		Where("campaign_memberships.user_id = ? AND campaign_memberships.deleted_at IS NULL", userID).
		Find(&campaigns).Error

	if err != nil {
		log.Printf("Failed to list campaigns: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve campaigns"})
		return
	}

	response := make([]CampaignResponse, 0, len(campaigns))

	for _, campaign := range campaigns {
		response = append(response, CampaignResponse{
			ID:          campaign.ID,
			Name:        campaign.Name,
			Description: campaign.Description,
			Ruleset:     campaign.Ruleset,
			OwnerID:     campaign.OwnerID,
			InviteCode:  campaign.InviteCode,
			IsOwner:     campaign.OwnerID == userID,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

// membershipStore is the slice of storage the join flow needs, narrow so
// the idempotence rules can be exercised against a fake.
type membershipStore interface {
	CampaignIDByInviteCode(code string) (uint, bool, error)
	MembershipRole(campaignID, userID uint) (string, bool, error)
	CreateMembership(campaignID, userID uint, role string) error
}

type gormMembershipStore struct{}

func (gormMembershipStore) CampaignIDByInviteCode(code string) (uint, bool, error) {
	var campaign models.Campaign

	err := db.DB.Select("id").Where("invite_code = ?", code).First(&campaign).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}

	if err != nil {
		return 0, false, err
	}

	return campaign.ID, true, nil
}

func (gormMembershipStore) MembershipRole(campaignID, userID uint) (string, bool, error) {
	var membership models.CampaignMembership

	err := db.DB.Where("campaign_id = ? AND user_id = ?", campaignID, userID).First(&membership).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}

	if err != nil {
		return "", false, err
	}

	return membership.Role, true, nil
}

func (gormMembershipStore) CreateMembership(campaignID, userID uint, role string) error {
	membership := models.CampaignMembership{
		CampaignID: campaignID,
		UserID:     userID,
		Role:       role,
	}

	// Two first-joins racing past the membership check resolve at the
	// unique index; losing the race is not an error.
	return db.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&membership).Error
}

func (h *Handler) JoinCampaign(ctx *gin.Context) {
	var body JoinCampaignRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invite code is required"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	campaignID, found, err := h.Members.CampaignIDByInviteCode(body.InviteCode)

	if err != nil {
		log.Printf("Failed to look up invite code: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !found {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Invalid invite code"})
		return
	}

	// Joining twice is a no-op: an existing membership, whatever its
	// role, is left untouched.
	_, member, err := h.Members.MembershipRole(campaignID, userID)

	if err != nil {
		log.Printf("Failed to check membership: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !member {
		if err := h.Members.CreateMembership(campaignID, userID, string(access.RolePlayer)); err != nil {
			log.Printf("Failed to join campaign: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join campaign"})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"id": campaignID})
}
