package recurrence

import (
	"hash/fnv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// DefaultTimezone is the historical fallback applied when a user has no
// timezone on record.
const DefaultTimezone = "America/Chicago"

// allday times are drawn from the 06:00-21:59 window so a reminder never
// lands in the middle of the night.
const (
	alldayFirstHour = 6
	alldayHourSpan  = 16
)

// maxAlldayScan caps how many occurrence days the allday path walks before
// giving up, mirroring the expansion cap idiom for unbounded rules.
const maxAlldayScan = 366

// Next computes the first fire instant strictly after now, normalized to UTC.
// A nil result with a nil error means there is nothing to schedule: the spec
// is disabled, consumed, or incomplete. The error is always an
// *InvalidRecurrenceError.
func Next(s Spec, now time.Time) (*time.Time, error) {
	if s.Disabled || (s.StopOnComplete && s.Completed) {
		return nil, nil
	}

	loc := s.location()
	local := now.In(loc)

	switch s.Kind {
	case KindOneShot:
		return s.nextOneShot(local, loc), nil
	case KindRRule, KindFrequency:
		return s.nextRecurring(local, loc)
	default:
		return nil, nil
	}
}

// Previous computes the latest occurrence strictly before now, normalized to
// UTC. One-shots have no previous occurrence; once fired they are consumed.
func Previous(s Spec, now time.Time) (*time.Time, error) {
	if s.Disabled || (s.StopOnComplete && s.Completed) {
		return nil, nil
	}
	if s.Kind != KindRRule && s.Kind != KindFrequency {
		return nil, nil
	}

	loc := s.location()
	local := now.In(loc)

	rule, allday, err := s.rule(local, loc)
	if err != nil || rule == nil {
		return nil, err
	}

	if !allday {
		prev := rule.Before(local, false)
		if prev.IsZero() {
			return nil, nil
		}
		return utc(prev), nil
	}

	// Walk occurrence days backwards until the chosen time precedes now.
	cursor := startOfDay(local).Add(24 * time.Hour)
	for i := 0; i < maxAlldayScan; i++ {
		day := rule.Before(cursor, false)
		if day.IsZero() {
			return nil, nil
		}
		at := alldayInstant(s.Seed, day)
		if at.Before(local) {
			return utc(at), nil
		}
		cursor = day
	}
	return nil, nil
}

// ValidateRule parses a raw RRULE string, returning an
// *InvalidRecurrenceError when it is malformed. Used at write time so a
// broken rule is rejected before it is persisted.
func ValidateRule(raw string) error {
	_, err := parseROption(raw)
	return err
}

func (s Spec) nextOneShot(local time.Time, loc *time.Location) *time.Time {
	if s.StartDate == nil {
		return nil
	}
	day := dateIn(*s.StartDate, loc)

	var at time.Time
	if clock, allday := s.clock(); allday {
		at = alldayInstant(s.Seed, day)
	} else {
		at = clock.At(day, loc)
	}

	if !at.After(local) {
		return nil
	}
	return utc(at)
}

func (s Spec) nextRecurring(local time.Time, loc *time.Location) (*time.Time, error) {
	rule, allday, err := s.rule(local, loc)
	if err != nil || rule == nil {
		return nil, err
	}

	if !allday {
		next := rule.After(local, false)
		if next.IsZero() {
			return nil, nil
		}
		return utc(next), nil
	}

	// Allday rules anchor at midnight; for each occurrence day pick the
	// seeded time and keep walking while it has already passed.
	cursor := startOfDay(local).Add(-time.Second)
	for i := 0; i < maxAlldayScan; i++ {
		day := rule.After(cursor, false)
		if day.IsZero() {
			return nil, nil
		}
		at := alldayInstant(s.Seed, day)
		if at.After(local) {
			return utc(at), nil
		}
		cursor = day
	}
	return nil, nil
}

// rule builds the evaluable RRULE for a rrule- or frequency-based spec. The
// returned rule is nil (with a nil error) when the spec has no usable
// recurrence source, e.g. an unknown frequency value.
func (s Spec) rule(local time.Time, loc *time.Location) (*rrule.RRule, bool, error) {
	var opt *rrule.ROption
	if s.Kind == KindRRule {
		parsed, err := parseROption(s.RRule)
		if err != nil {
			return nil, false, err
		}
		opt = parsed
	} else {
		opt = frequencyOption(s.Frequency)
		if opt == nil {
			return nil, false, nil
		}
	}

	startDay := startOfDay(local)
	if s.StartDate != nil {
		startDay = dateIn(*s.StartDate, loc)
	}

	clock, allday := s.clock()
	if allday {
		opt.Dtstart = startDay
	} else {
		opt.Dtstart = clock.At(startDay, loc)
	}

	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, false, &InvalidRecurrenceError{Rule: s.RRule, Err: err}
	}
	return rule, allday, nil
}

func (s Spec) clock() (ClockTime, bool) {
	if s.Clock != nil {
		return *s.Clock, false
	}
	bucket := s.Bucket
	if bucket == "" {
		bucket = DefaultBucket
	}
	if bucket == BucketAllDay {
		return ClockTime{}, true
	}
	ct, ok := bucket.RepresentativeTime()
	if !ok {
		ct, _ = DefaultBucket.RepresentativeTime()
	}
	return ct, false
}

func (s Spec) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func parseROption(raw string) (*rrule.ROption, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "RRULE:")
	opt, err := rrule.StrToROption(trimmed)
	if err != nil {
		return nil, &InvalidRecurrenceError{Rule: raw, Err: err}
	}
	return opt, nil
}

// frequencyOption expands the coarse frequency enum into a concrete weekly
// pattern. The weekday sets are fixed: biweekly (and legacy monthly) fire
// Tuesday and Friday, multiweekly fires Monday, Wednesday and Friday.
func frequencyOption(f Frequency) *rrule.ROption {
	switch f {
	case FrequencyDaily:
		return &rrule.ROption{Freq: rrule.DAILY}
	case FrequencyWeekly:
		return &rrule.ROption{Freq: rrule.WEEKLY}
	case FrequencyBiweekly, FrequencyMonthly:
		return &rrule.ROption{Freq: rrule.WEEKLY, Byweekday: []rrule.Weekday{rrule.TU, rrule.FR}}
	case FrequencyMultiweekly:
		return &rrule.ROption{Freq: rrule.WEEKLY, Byweekday: []rrule.Weekday{rrule.MO, rrule.WE, rrule.FR}}
	case FrequencyWeekends:
		return &rrule.ROption{Freq: rrule.WEEKLY, Byweekday: []rrule.Weekday{rrule.SA, rrule.SU}}
	default:
		return nil
	}
}

// alldayInstant derives the fire time for an allday occurrence from the seed
// and the occurrence day, so repeated resolutions of the same day agree while
// different days spread across the window.
func alldayInstant(seed string, day time.Time) time.Time {
	h := fnv.New64a()
	h.Write([]byte(seed))
	h.Write([]byte(day.Format("2006-01-02")))
	sum := h.Sum64()

	hour := alldayFirstHour + int(sum%alldayHourSpan)
	minute := int((sum / alldayHourSpan) % 60)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

func dateIn(d time.Time, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func utc(t time.Time) *time.Time {
	u := t.UTC()
	return &u
}
