package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	GoogleSub string `gorm:"uniqueIndex;not null"`
	Name      string `gorm:"not null"`
	Email     string `gorm:"index;not null"`

	// Relationships
	OwnedCampaigns      []Campaign           `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	CampaignMemberships []CampaignMembership `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Characters          []Character          `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
