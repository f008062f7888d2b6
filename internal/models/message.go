package models

import "gorm.io/gorm"

const (
	MessageKindText = "text"
	MessageKindRoll = "roll"
	MessageKindOOC  = "ooc"
)

// Message is an append-only chat log entry. CampaignID is nil for
// out-of-character messages, which live outside any campaign.
type Message struct {
	gorm.Model

	CampaignID *uint  `gorm:"index"`
	AuthorID   uint   `gorm:"not null;index"`
	Content    string `gorm:"not null"`
	Kind       string `gorm:"not null;default:text;index"`

	// Relationships
	Author User `gorm:"foreignKey:AuthorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
