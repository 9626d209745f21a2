package recurrence

import (
	"fmt"
	"time"
)

// Frequency is the coarse recurrence enum offered to users who do not edit a
// raw RRULE. Each value expands to a fixed weekly pattern, see frequencyOption.
type Frequency string

const (
	FrequencyDaily       Frequency = "daily"
	FrequencyWeekly      Frequency = "weekly"
	FrequencyBiweekly    Frequency = "biweekly"    // twice a week: Tuesday and Friday
	FrequencyMultiweekly Frequency = "multiweekly" // three times a week: Monday, Wednesday, Friday
	FrequencyWeekends    Frequency = "weekends"
	// FrequencyMonthly is retired; existing rows are scheduled as biweekly,
	// matching the migration that reset monthly reminders.
	FrequencyMonthly Frequency = "monthly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly,
		FrequencyMultiweekly, FrequencyWeekends, FrequencyMonthly:
		return true
	}
	return false
}

// Kind discriminates how a Spec schedules. Exactly one interpretation applies
// per Spec; the zero value schedules nothing.
type Kind int

const (
	// KindNone has nothing to schedule; Next and Previous return nil.
	KindNone Kind = iota
	// KindOneShot fires once at StartDate plus the clock time, then never again.
	KindOneShot
	// KindRRule evaluates the raw RRULE string.
	KindRRule
	// KindFrequency synthesizes a weekly pattern from the Frequency enum.
	KindFrequency
)

// Spec is the full input to the resolver: a discriminated recurrence
// configuration plus the stop conditions. It is a plain value; resolving it
// reads no global state, including the process timezone and clock.
type Spec struct {
	Kind Kind

	// StartDate is the effective start day; only the calendar date matters.
	// Nil means the rule starts "today" relative to the reference instant
	// (one-shots with a nil StartDate schedule nothing).
	StartDate *time.Time

	// Clock is the exact fire time. When nil, Bucket's representative time is
	// used, and an empty Bucket falls back to DefaultBucket.
	Clock  *ClockTime
	Bucket Bucket

	RRule     string    // KindRRule only
	Frequency Frequency // KindFrequency only

	Disabled       bool
	StopOnComplete bool
	Completed      bool

	// Seed keys the per-occurrence time chosen for the allday bucket, so the
	// same trigger asks for the same instant until the day changes. Typically
	// the trigger's identity.
	Seed string

	// Location is the user's timezone. Nil falls back to DefaultTimezone.
	Location *time.Location
}

// InvalidRecurrenceError reports an RRULE string that cannot be parsed. It is
// the only error the resolver produces; every other malformed input degrades
// to a nil occurrence instead.
type InvalidRecurrenceError struct {
	Rule string
	Err  error
}

func (e *InvalidRecurrenceError) Error() string {
	return fmt.Sprintf("invalid recurrence rule %q: %v", e.Rule, e.Err)
}

func (e *InvalidRecurrenceError) Unwrap() error {
	return e.Err
}
