package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Campaign struct {
	gorm.Model

	Name        string `gorm:"not null"`
	Description string
	Ruleset     string         `gorm:"not null;default:custom"`
	OwnerID     uint           `gorm:"not null;index"`
	InviteCode  string         `gorm:"uniqueIndex;not null"`
	Settings    datatypes.JSON `gorm:"type:jsonb"`

	// Relationships
	Owner               User                 `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	CampaignMemberships []CampaignMembership `gorm:"foreignKey:CampaignID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Characters          []Character          `gorm:"foreignKey:CampaignID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Messages            []Message            `gorm:"foreignKey:CampaignID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	DiceRolls           []DiceRoll           `gorm:"foreignKey:CampaignID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
