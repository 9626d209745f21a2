package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/habitloop-dev/habitloop/internal/recurrence"
)

type User struct {
	gorm.Model

	Name     string `gorm:"not null"`
	Email    string `gorm:"uniqueIndex;not null"`
	Timezone string `gorm:"not null;default:'America/Chicago'"` // IANA name

	// Relationships
	UserCategories []UserCategory `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	UserGoals      []UserGoal     `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	UserBehaviors  []UserBehavior `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	UserActions    []UserAction   `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Notifications  []Notification `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// Location resolves the user's timezone, falling back to the historical
// default when the stored name is empty or unknown.
func (u *User) Location() *time.Location {
	name := u.Timezone
	if name == "" {
		name = recurrence.DefaultTimezone
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		loc, err = time.LoadLocation(recurrence.DefaultTimezone)
		if err != nil {
			return time.UTC
		}
	}
	return loc
}
