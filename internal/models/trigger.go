package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/habitloop-dev/habitloop/internal/recurrence"
)

// RelativeUnits values for Trigger.RelativeUnits.
const (
	RelativeDays   = "days"
	RelativeWeeks  = "weeks"
	RelativeMonths = "months"
	RelativeYears  = "years"
)

// Trigger is a reminder specification. A row with a nil UserID is a shared
// system default referenced by action definitions; a row with a UserID is one
// user's customization, owned by a single UserGoal/UserBehavior/UserAction.
//
// Scheduling state (next/prev fire times) is never cached here: many owners
// can share one default trigger, so the cache lives on the owning record.
type Trigger struct {
	BaseModel

	UserID *uint `gorm:"index"` // nil = system default trigger
	Name   string

	Disabled bool `gorm:"not null;default:false"`

	// Timing. Time and TimeOfDay are alternatives, as are Recurrences,
	// Frequency and a bare TriggerDate (one-shot). Precedence when rows carry
	// both is resolved in Spec.
	Time        *recurrence.ClockTime `gorm:"type:time"`
	TriggerDate *time.Time            `gorm:"type:date"`
	Recurrences string                // raw RFC 2445 RRULE, e.g. "RRULE:FREQ=DAILY"
	Frequency   recurrence.Frequency
	TimeOfDay   recurrence.Bucket

	// Relative scheduling: start RelativeValue RelativeUnits after the anchor
	// event (typically when the user selected the owning action).
	RelativeValue int `gorm:"not null;default:0"`
	RelativeUnits string

	StartWhenSelected bool `gorm:"not null;default:false"`
	StopOnComplete    bool `gorm:"not null;default:false"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// ResolveContext carries the caller-supplied inputs the trigger itself does
// not know: the reference instant, the user's timezone, the owning relation's
// anchor date and its completion state.
type ResolveContext struct {
	Now      time.Time
	Location *time.Location

	// Anchor is the owning relation's creation time. It is the base for
	// relative offsets and the start date when StartWhenSelected is set.
	Anchor *time.Time

	Completed bool
}

// NextOccurrence returns the next fire instant strictly after ctx.Now in UTC,
// or nil when there is nothing left to schedule.
func (t *Trigger) NextOccurrence(ctx ResolveContext) (*time.Time, error) {
	return recurrence.Next(t.Spec(ctx), ctx.Now)
}

// PreviousOccurrence returns the latest occurrence strictly before ctx.Now in
// UTC; used to detect missed reminders.
func (t *Trigger) PreviousOccurrence(ctx ResolveContext) (*time.Time, error) {
	return recurrence.Previous(t.Spec(ctx), ctx.Now)
}

// DisplayText renders the recurrence as reminder text, e.g.
// "Every day at 7:30 AM".
func (t *Trigger) DisplayText() string {
	return recurrence.Describe(t.Spec(ResolveContext{}))
}

// Spec assembles the resolver input from the trigger's fields.
//
// Start date precedence: StartWhenSelected beats the relative offset, which
// beats TriggerDate. Recurrence source precedence: an explicit RRULE beats
// the Frequency enum; rows carrying both are dirty data and the more specific
// input wins rather than failing the batch.
func (t *Trigger) Spec(ctx ResolveContext) recurrence.Spec {
	s := recurrence.Spec{
		Clock:          t.Time,
		Bucket:         t.TimeOfDay,
		Disabled:       t.Disabled,
		StopOnComplete: t.StopOnComplete,
		Completed:      ctx.Completed,
		Seed:           fmt.Sprintf("trigger-%d", t.ID),
		Location:       ctx.Location,
	}

	switch {
	case t.StartWhenSelected && ctx.Anchor != nil:
		d := *ctx.Anchor
		s.StartDate = &d
	case t.RelativeValue != 0 && ctx.Anchor != nil:
		d := addRelative(*ctx.Anchor, t.RelativeValue, t.RelativeUnits)
		s.StartDate = &d
	case t.TriggerDate != nil:
		d := *t.TriggerDate
		s.StartDate = &d
	}

	switch {
	case strings.TrimSpace(t.Recurrences) != "":
		s.Kind = recurrence.KindRRule
		s.RRule = t.Recurrences
	case t.Frequency != "":
		s.Kind = recurrence.KindFrequency
		s.Frequency = t.Frequency
	case s.StartDate != nil:
		s.Kind = recurrence.KindOneShot
	}

	return s
}

// IsDefault reports whether the trigger is a shared system default rather
// than one user's customization.
func (t *Trigger) IsDefault() bool {
	return t.UserID == nil
}

func addRelative(anchor time.Time, value int, units string) time.Time {
	switch units {
	case RelativeWeeks:
		return anchor.AddDate(0, 0, 7*value)
	case RelativeMonths:
		return anchor.AddDate(0, value, 0)
	case RelativeYears:
		return anchor.AddDate(value, 0, 0)
	default:
		return anchor.AddDate(0, 0, value)
	}
}
