package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Character struct {
	gorm.Model

	CampaignID uint           `gorm:"not null;index"`
	OwnerID    uint           `gorm:"not null;index"`
	Name       string         `gorm:"not null"`
	Sheet      datatypes.JSON `gorm:"type:jsonb"`

	// Relationships
	Campaign Campaign `gorm:"foreignKey:CampaignID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Owner    User     `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
