package models

import "github.com/lib/pq"

// The content hierarchy is authored centrally and shared by all users:
// Category -> Goal -> Behavior -> Action.

type Category struct {
	BaseModel

	Title       string `gorm:"uniqueIndex;not null"`
	Description string
	Order       int    `gorm:"not null;default:0"`
	Color       string // hex color for the mobile clients

	// Relationships
	Goals []Goal `gorm:"foreignKey:CategoryID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

type Goal struct {
	BaseModel

	CategoryID  uint   `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Subtitle    string
	Description string

	// Relationships
	Category  Category   `gorm:"foreignKey:CategoryID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Behaviors []Behavior `gorm:"foreignKey:GoalID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

type Behavior struct {
	BaseModel

	GoalID      uint   `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string

	// Relationships
	Goal    Goal     `gorm:"foreignKey:GoalID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Actions []Action `gorm:"foreignKey:BehaviorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

type Action struct {
	BaseModel

	BehaviorID       uint   `gorm:"not null;index"`
	Title            string `gorm:"not null"`
	Description      string
	NotificationText string
	Sequence         int            `gorm:"not null;default:0"`
	Keywords         pq.StringArray `gorm:"type:text[]"`

	// DefaultTrigger is shared: many actions may point at the same trigger
	// row (e.g. the system daily reminder), so it outlives any one action.
	DefaultTriggerID *uint

	// Relationships
	Behavior       Behavior `gorm:"foreignKey:BehaviorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	DefaultTrigger *Trigger `gorm:"foreignKey:DefaultTriggerID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
