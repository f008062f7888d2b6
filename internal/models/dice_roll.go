package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DiceRoll is the audit record for a roll, kept separately from the chat
// message that announces it.
type DiceRoll struct {
	gorm.Model

	CampaignID uint           `gorm:"not null;index"`
	UserID     uint           `gorm:"not null;index"`
	Expression string         `gorm:"not null"`
	Result     datatypes.JSON `gorm:"type:jsonb"`

	// Relationships
	Campaign Campaign `gorm:"foreignKey:CampaignID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User     User     `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
