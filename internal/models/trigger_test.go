package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitloop-dev/habitloop/internal/recurrence"
)

func chicago(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)
	return loc
}

func clockPtr(hour, minute int) *recurrence.ClockTime {
	return &recurrence.ClockTime{Hour: hour, Minute: minute}
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestSpecRRuleWinsOverFrequency(t *testing.T) {
	trigger := Trigger{
		Recurrences: "RRULE:FREQ=WEEKLY;BYDAY=MO",
		Frequency:   recurrence.FrequencyDaily,
	}

	spec := trigger.Spec(ResolveContext{})
	assert.Equal(t, recurrence.KindRRule, spec.Kind)
	assert.Equal(t, "RRULE:FREQ=WEEKLY;BYDAY=MO", spec.RRule)
}

func TestSpecStartWhenSelectedWins(t *testing.T) {
	anchor := time.Date(2024, 2, 10, 14, 30, 0, 0, time.UTC)
	trigger := Trigger{
		Frequency:         recurrence.FrequencyDaily,
		TriggerDate:       timePtr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		RelativeValue:     3,
		RelativeUnits:     RelativeDays,
		StartWhenSelected: true,
	}

	spec := trigger.Spec(ResolveContext{Anchor: &anchor})
	require.NotNil(t, spec.StartDate)
	assert.True(t, spec.StartDate.Equal(anchor))
}

func TestSpecRelativeOffsetBeatsTriggerDate(t *testing.T) {
	anchor := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	trigger := Trigger{
		Frequency:     recurrence.FrequencyDaily,
		TriggerDate:   timePtr(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)),
		RelativeValue: 3,
		RelativeUnits: RelativeDays,
	}

	spec := trigger.Spec(ResolveContext{Anchor: &anchor})
	require.NotNil(t, spec.StartDate)
	assert.Equal(t, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), *spec.StartDate)

	trigger.RelativeUnits = RelativeWeeks
	spec = trigger.Spec(ResolveContext{Anchor: &anchor})
	assert.Equal(t, time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC), *spec.StartDate)

	trigger.RelativeUnits = RelativeMonths
	spec = trigger.Spec(ResolveContext{Anchor: &anchor})
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), *spec.StartDate)
}

func TestSpecTriggerDateFallback(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	trigger := Trigger{TriggerDate: &date}

	// No anchor supplied: relative scheduling can't apply.
	spec := trigger.Spec(ResolveContext{})
	require.NotNil(t, spec.StartDate)
	assert.True(t, spec.StartDate.Equal(date))
	assert.Equal(t, recurrence.KindOneShot, spec.Kind)
}

func TestSpecNothingConfigured(t *testing.T) {
	trigger := Trigger{}
	spec := trigger.Spec(ResolveContext{})
	assert.Equal(t, recurrence.KindNone, spec.Kind)
	assert.Nil(t, spec.StartDate)
}

func TestNextOccurrenceStopOnComplete(t *testing.T) {
	loc := chicago(t)
	trigger := Trigger{
		Frequency:      recurrence.FrequencyDaily,
		Time:           clockPtr(7, 30),
		StopOnComplete: true,
	}

	ctx := ResolveContext{
		Now:       time.Date(2024, 1, 1, 12, 0, 0, 0, loc),
		Location:  loc,
		Completed: true,
	}

	next, err := trigger.NextOccurrence(ctx)
	require.NoError(t, err)
	assert.Nil(t, next)

	ctx.Completed = false
	next, err = trigger.NextOccurrence(ctx)
	require.NoError(t, err)
	assert.NotNil(t, next)
}

func TestNextOccurrenceDisabled(t *testing.T) {
	loc := chicago(t)
	trigger := Trigger{
		Disabled:  true,
		Frequency: recurrence.FrequencyDaily,
		Time:      clockPtr(7, 30),
	}

	next, err := trigger.NextOccurrence(ResolveContext{
		Now:      time.Date(2024, 1, 1, 0, 0, 0, 0, loc),
		Location: loc,
	})
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestDisplayText(t *testing.T) {
	trigger := Trigger{
		Frequency: recurrence.FrequencyDaily,
		Time:      clockPtr(7, 30),
	}
	assert.Equal(t, "Every day at 7:30 AM", trigger.DisplayText())

	// With neither a time nor a bucket the evening default applies.
	trigger.Time = nil
	assert.Equal(t, "Every day in the evening", trigger.DisplayText())
}

func TestUserActionTriggerFallback(t *testing.T) {
	defaultTrigger := &Trigger{Name: "default"}
	custom := &Trigger{Name: "custom"}

	userAction := UserAction{Action: Action{DefaultTrigger: defaultTrigger}}
	assert.Equal(t, defaultTrigger, userAction.Trigger())

	userAction.CustomTrigger = custom
	assert.Equal(t, custom, userAction.Trigger())
}

func TestUserLocation(t *testing.T) {
	user := User{Timezone: "America/New_York"}
	assert.Equal(t, "America/New_York", user.Location().String())

	user.Timezone = "Not/AZone"
	assert.Equal(t, "America/Chicago", user.Location().String())

	user.Timezone = ""
	assert.Equal(t, "America/Chicago", user.Location().String())
}
