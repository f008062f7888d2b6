package access

import (
	"errors"

	"github.com/campforge-dev/campforge/db"
	"github.com/campforge-dev/campforge/internal/models"
	"gorm.io/gorm"
)

// GormStore resolves memberships against the shared database handle.
type GormStore struct{}

func (GormStore) CampaignExists(campaignID uint) (bool, error) {
	var campaign models.Campaign

	err := db.DB.Select("id").First(&campaign, campaignID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}

func (GormStore) MembershipRole(campaignID, userID uint) (Role, bool, error) {
	var membership models.CampaignMembership

	err := db.DB.Where("campaign_id = ? AND user_id = ?", campaignID, userID).First(&membership).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}

	if err != nil {
		return "", false, err
	}

	return Role(membership.Role), true, nil
}
