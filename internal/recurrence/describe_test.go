package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDescribeFrequency(t *testing.T) {
	spec := Spec{
		Kind:      KindFrequency,
		Frequency: FrequencyDaily,
		Clock:     clockPtr(7, 30),
	}
	assert.Equal(t, "Every day at 7:30 AM", Describe(spec))

	spec.Frequency = FrequencyBiweekly
	spec.Clock = nil
	assert.Equal(t, "Twice a week on Tuesday and Friday in the evening", Describe(spec))

	spec.Frequency = FrequencyMonthly
	assert.Equal(t, "Twice a week on Tuesday and Friday in the evening", Describe(spec))

	spec.Frequency = FrequencyWeekends
	spec.Bucket = BucketMorning
	assert.Equal(t, "On weekends in the morning", Describe(spec))
}

func TestDescribeRRule(t *testing.T) {
	spec := Spec{
		Kind:  KindRRule,
		RRule: "RRULE:FREQ=WEEKLY;BYDAY=MO,WE,FR",
		Clock: clockPtr(9, 0),
	}
	assert.Equal(t, "Every week on Monday, Wednesday and Friday at 9:00 AM", Describe(spec))

	spec.RRule = "RRULE:FREQ=DAILY"
	assert.Equal(t, "Every day at 9:00 AM", Describe(spec))

	spec.RRule = "RRULE:FREQ=WEEKLY;INTERVAL=2"
	assert.Equal(t, "Every 2 weeks at 9:00 AM", Describe(spec))
}

func TestDescribeAllDay(t *testing.T) {
	spec := Spec{
		Kind:      KindFrequency,
		Frequency: FrequencyDaily,
		Bucket:    BucketAllDay,
	}
	assert.Equal(t, "Every day sometime during the day", Describe(spec))
}

func TestDescribeOneShot(t *testing.T) {
	spec := Spec{
		Kind:      KindOneShot,
		StartDate: datePtr(2024, time.January, 2),
		Clock:     clockPtr(10, 0),
	}
	assert.Equal(t, "On January 2, 2024 at 10:00 AM", Describe(spec))

	spec.Clock = nil
	spec.Bucket = BucketNoonish
	assert.Equal(t, "On January 2, 2024 around noon", Describe(spec))
}

func TestDescribeDefaultsToEvening(t *testing.T) {
	spec := Spec{
		Kind:      KindFrequency,
		Frequency: FrequencyDaily,
	}
	assert.Equal(t, "Every day in the evening", Describe(spec))
}

func TestDescribeNothing(t *testing.T) {
	assert.Equal(t, "", Describe(Spec{}))
	assert.Equal(t, "", Describe(Spec{Kind: KindOneShot}))
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "12:05 AM", formatClock(ClockTime{Hour: 0, Minute: 5}))
	assert.Equal(t, "12:00 PM", formatClock(ClockTime{Hour: 12, Minute: 0}))
	assert.Equal(t, "11:59 PM", formatClock(ClockTime{Hour: 23, Minute: 59}))
	assert.Equal(t, "7:30 AM", formatClock(ClockTime{Hour: 7, Minute: 30}))
}
