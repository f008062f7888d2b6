package models

import "gorm.io/gorm"

type CampaignMembership struct {
	gorm.Model

	CampaignID uint   `gorm:"not null;uniqueIndex:idx_campaign_user"`
	UserID     uint   `gorm:"not null;uniqueIndex:idx_campaign_user"`
	Role       string `gorm:"not null;default:PLAYER"`

	// Relationships
	Campaign Campaign `gorm:"foreignKey:CampaignID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User     User     `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
