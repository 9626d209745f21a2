package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User-specific mirrors of the content hierarchy. UserGoal, UserBehavior and
// UserAction each carry an optional custom trigger plus the cached next/prev
// fire times (UTC). The cache is written only by the scheduler sweep, never
// by the recurrence code itself.

type UserCategory struct {
	gorm.Model

	UserID     uint `gorm:"not null;uniqueIndex:idx_user_category"`
	CategoryID uint `gorm:"not null;uniqueIndex:idx_user_category"`

	// Relationships
	User     User     `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Category Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

type UserGoal struct {
	gorm.Model

	UserID          uint `gorm:"not null;uniqueIndex:idx_user_goal"`
	GoalID          uint `gorm:"not null;uniqueIndex:idx_user_goal"`
	CustomTriggerID *uint
	NextTriggerDate *time.Time `gorm:"index"`
	PrevTriggerDate *time.Time

	// Relationships
	User          User     `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Goal          Goal     `gorm:"foreignKey:GoalID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	CustomTrigger *Trigger `gorm:"foreignKey:CustomTriggerID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}

type UserBehavior struct {
	gorm.Model

	UserID          uint `gorm:"not null;uniqueIndex:idx_user_behavior"`
	BehaviorID      uint `gorm:"not null;uniqueIndex:idx_user_behavior"`
	CustomTriggerID *uint
	NextTriggerDate *time.Time `gorm:"index"`
	PrevTriggerDate *time.Time

	// Relationships
	User          User     `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Behavior      Behavior `gorm:"foreignKey:BehaviorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	CustomTrigger *Trigger `gorm:"foreignKey:CustomTriggerID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}

type UserAction struct {
	gorm.Model

	UserID          uint `gorm:"not null;index"`
	ActionID        uint `gorm:"not null;index"`
	CustomTriggerID *uint
	NextTriggerDate *time.Time `gorm:"index"`
	PrevTriggerDate *time.Time

	Completed   bool `gorm:"not null;default:false"`
	CompletedAt *time.Time

	// SerializedAction snapshots the action as it looked when the user
	// selected it, so later content edits don't rewrite reminder history.
	SerializedAction datatypes.JSON `gorm:"type:jsonb"`

	// Relationships
	User          User     `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Action        Action   `gorm:"foreignKey:ActionID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	CustomTrigger *Trigger `gorm:"foreignKey:CustomTriggerID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}

// Trigger returns the reminder specification in effect for this user action:
// the user's customization when present, otherwise the action's shared
// default. Both relations must be preloaded; nil means no reminder at all.
func (ua *UserAction) Trigger() *Trigger {
	if ua.CustomTrigger != nil {
		return ua.CustomTrigger
	}
	return ua.Action.DefaultTrigger
}

// ResolveContext builds the resolver input for this user action: selection
// time as the anchor and the user's timezone.
func (ua *UserAction) ResolveContext(now time.Time) ResolveContext {
	anchor := ua.CreatedAt
	loc := ua.User.Location()
	return ResolveContext{
		Now:       now.In(loc),
		Location:  loc,
		Anchor:    &anchor,
		Completed: ua.Completed,
	}
}
