package utils

import (
	"fmt"
	"strconv"

	"github.com/campforge-dev/campforge/internal/middleware"
	"github.com/campforge-dev/campforge/internal/types"
	"github.com/gin-gonic/gin"
)

func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, fmt.Errorf("User not authenticated")
	}

	authenticatedUser, ok := user.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, fmt.Errorf("Invalid user type in context")
	}

	return authenticatedUser, nil
}

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.ID, nil
}

// GetCampaignID parses the :campaign_id route parameter.
func GetCampaignID(ctx *gin.Context) (uint, error) {
	raw := ctx.Param("campaign_id")

	id, err := strconv.ParseUint(raw, 10, 64)

	if err != nil || id == 0 {
		return 0, fmt.Errorf("Invalid campaign ID")
	}

	return uint(id), nil
}

// GetCharacterID parses the :character_id route parameter.
func GetCharacterID(ctx *gin.Context) (uint, error) {
	raw := ctx.Param("character_id")

	id, err := strconv.ParseUint(raw, 10, 64)

	if err != nil || id == 0 {
		return 0, fmt.Errorf("Invalid character ID")
	}

	return uint(id), nil
}
