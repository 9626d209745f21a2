package models

import (
	"time"

	"gorm.io/gorm"
)

type Notification struct {
	gorm.Model

	UserID       uint   `gorm:"not null;index"`
	UserActionID uint   `gorm:"not null;index"`
	MessageID    string `gorm:"uniqueIndex;not null"` // dispatcher-assigned UUID
	Channel      string `gorm:"not null"`             // e.g. "webhook", "feed"
	Status       string `gorm:"not null"`             // "sent" or "failed"
	Title        string
	Message      string
	SentAt       *time.Time

	// Relationships
	User       User       `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	UserAction UserAction `gorm:"foreignKey:UserActionID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
