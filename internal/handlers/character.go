package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/campforge-dev/campforge/db"
	"github.com/campforge-dev/campforge/internal/access"
	"github.com/campforge-dev/campforge/internal/models"
	"github.com/campforge-dev/campforge/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MaxSheetSize caps a character sheet document at 200KB. The server treats
// the sheet as an opaque blob beyond this limit and JSON validity.
const MaxSheetSize = 200 * 1024

var (
	errSheetTooLarge = errors.New("sheet exceeds maximum size")
	errSheetInvalid  = errors.New("sheet must be valid JSON")
)

// normalizeSheet decides whether an update replaces the stored sheet. An
// absent sheet and the literal JSON null both mean "keep the current sheet",
// so a name-only update cannot wipe the document.
func normalizeSheet(raw json.RawMessage) (datatypes.JSON, bool, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, false, nil
	}

	if len(raw) > MaxSheetSize {
		return nil, false, errSheetTooLarge
	}

	if !json.Valid(raw) {
		return nil, false, errSheetInvalid
	}

	return datatypes.JSON(raw), true, nil
}

type CreateCharacterRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateCharacterRequest struct {
	Name  string          `json:"name"`
	Sheet json.RawMessage `json:"sheet"`
}

type CharacterResponse struct {
	ID         uint            `json:"id"`
	CampaignID uint            `json:"campaign_id"`
	UserID     uint            `json:"user_id"`
	Name       string          `json:"name"`
	Sheet      json.RawMessage `json:"sheet"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func toCharacterResponse(character models.Character) CharacterResponse {
	return CharacterResponse{
		ID:         character.ID,
		CampaignID: character.CampaignID,
		UserID:     character.OwnerID,
		Name:       character.Name,
		Sheet:      json.RawMessage(character.Sheet),
		UpdatedAt:  character.UpdatedAt,
	}
}

// defaultSheet is the blank sheet template every new character starts from.
func defaultSheet(name string) map[string]interface{} {
	return map[string]interface{}{
		"name":       name,
		"class":      "",
		"level":      1,
		"race":       "",
		"background": "",
		"abilities": map[string]int{
			"str": 10,
			"dex": 10,
			"con": 10,
			"int": 10,
			"wis": 10,
			"cha": 10,
		},
		"skills":     map[string]interface{}{},
		"saves":      map[string]interface{}{},
		"hp":         0,
		"ac":         0,
		"speed":      0,
		"initiative": 0,
		"attacks":    []interface{}{},
		"spells":     []interface{}{},
		"equipment":  []interface{}{},
	}
}

func (h *Handler) ListCharacters(ctx *gin.Context) {
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

	role, err := h.Access.Require(campaignID, userID, access.RolePlayer)

	if err != nil {
		respondAccessError(ctx, err)
		return
	}

	query := db.DB.Where("campaign_id = ?", campaignID)

	// A GM sees every character in the campaign; players see their own.
	if role != access.RoleGameMaster {
		query = query.Where("owner_id = ?", userID)
	}

	var characters []models.Character

	if err := query.Find(&characters).Error; err != nil {
		log.Printf("Failed to list characters: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve characters"})
		return
	}

	response := make([]CharacterResponse, 0, len(characters))

	for _, character := range characters {
		response = append(response, toCharacterResponse(character))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) CreateCharacter(ctx *gin.Context) {
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

	// Any member may create a character; the creator becomes its owner.
	if _, err := h.Access.Require(campaignID, userID, access.RolePlayer); err != nil {
		respondAccessError(ctx, err)
		return
	}

	var body CreateCharacterRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	sheetJSON, err := json.Marshal(defaultSheet(body.Name))

	if err != nil {
		log.Printf("Failed to marshal sheet template: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	character := models.Character{
		CampaignID: campaignID,
		OwnerID:    userID,
		Name:       body.Name,
		Sheet:      datatypes.JSON(sheetJSON),
	}

	if err := db.DB.Create(&character).Error; err != nil {
		log.Printf("Failed to create character: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create character"})
		return
	}

	ctx.JSON(http.StatusCreated, toCharacterResponse(character))
}

func (h *Handler) GetCharacter(ctx *gin.Context) {
	characterID, err := utils.GetCharacterID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var character models.Character

	if err := db.DB.First(&character, characterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Character not found"})
		} else {
			log.Printf("Failed to fetch character: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	if _, err := h.Access.Require(character.CampaignID, userID, access.RolePlayer); err != nil {
		respondAccessError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toCharacterResponse(character))
}

func (h *Handler) UpdateCharacter(ctx *gin.Context) {
	characterID, err := utils.GetCharacterID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var character models.Character

	if err := db.DB.First(&character, characterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Character not found"})
		} else {
			log.Printf("Failed to fetch character: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	allowed, err := h.Access.CanMutateCharacter(character.CampaignID, character.OwnerID, userID)

	if err != nil {
		log.Printf("Failed to check character permissions: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !allowed {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var body UpdateCharacterRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	sheet, replace, err := normalizeSheet(body.Sheet)

	if err != nil {
		if errors.Is(err, errSheetTooLarge) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Sheet exceeds maximum size"})
		} else {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Sheet must be valid JSON"})
		}
		return
	}

	if body.Name != "" {
		character.Name = body.Name
	}

	if replace {
		character.Sheet = sheet
	}

	if err := db.DB.Save(&character).Error; err != nil {
		log.Printf("Failed to update character: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update character"})
		return
	}

	ctx.JSON(http.StatusOK, toCharacterResponse(character))
}
