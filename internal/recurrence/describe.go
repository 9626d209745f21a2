package recurrence

import (
	"fmt"
	"strings"

	"github.com/teambition/rrule-go"
)

var bucketPhrases = map[Bucket]string{
	BucketEarly:     "in the early morning",
	BucketMorning:   "in the morning",
	BucketNoonish:   "around noon",
	BucketAfternoon: "in the afternoon",
	BucketEvening:   "in the evening",
	BucketLate:      "late at night",
	BucketAllDay:    "sometime during the day",
}

// weekday ordinals as rrule-go numbers them, Monday first.
var weekdayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Describe renders a spec as reminder text, e.g. "Every day at 7:30 AM" or
// "Twice a week on Tuesday and Friday in the evening". Unschedulable specs
// yield an empty string.
func Describe(s Spec) string {
	switch s.Kind {
	case KindOneShot:
		if s.StartDate == nil {
			return ""
		}
		return fmt.Sprintf("On %s %s", s.StartDate.Format("January 2, 2006"), s.timePhrase())
	case KindRRule:
		pattern := describeRule(s.RRule)
		if pattern == "" {
			return ""
		}
		return pattern + " " + s.timePhrase()
	case KindFrequency:
		pattern := describeFrequency(s.Frequency)
		if pattern == "" {
			return ""
		}
		return pattern + " " + s.timePhrase()
	default:
		return ""
	}
}

func (s Spec) timePhrase() string {
	if s.Clock != nil {
		return "at " + formatClock(*s.Clock)
	}
	bucket := s.Bucket
	if bucket == "" {
		bucket = DefaultBucket
	}
	if phrase, ok := bucketPhrases[bucket]; ok {
		return phrase
	}
	return bucketPhrases[DefaultBucket]
}

func describeFrequency(f Frequency) string {
	switch f {
	case FrequencyDaily:
		return "Every day"
	case FrequencyWeekly:
		return "Every week"
	case FrequencyBiweekly, FrequencyMonthly:
		return "Twice a week on Tuesday and Friday"
	case FrequencyMultiweekly:
		return "Three times a week on Monday, Wednesday and Friday"
	case FrequencyWeekends:
		return "On weekends"
	default:
		return ""
	}
}

// describeRule covers the rule shapes the system actually produces: daily and
// weekly, with an optional interval and BYDAY list. Anything richer falls
// back to the raw rule text.
func describeRule(raw string) string {
	opt, err := parseROption(raw)
	if err != nil {
		return strings.TrimSpace(raw)
	}

	interval := opt.Interval
	if interval <= 0 {
		interval = 1
	}

	switch opt.Freq {
	case rrule.DAILY:
		if interval == 1 {
			return "Every day"
		}
		return fmt.Sprintf("Every %d days", interval)
	case rrule.WEEKLY:
		base := "Every week"
		if interval > 1 {
			base = fmt.Sprintf("Every %d weeks", interval)
		}
		if days := joinWeekdays(opt.Byweekday); days != "" {
			return base + " on " + days
		}
		return base
	case rrule.MONTHLY:
		if interval == 1 {
			return "Every month"
		}
		return fmt.Sprintf("Every %d months", interval)
	case rrule.YEARLY:
		if interval == 1 {
			return "Every year"
		}
		return fmt.Sprintf("Every %d years", interval)
	default:
		return strings.TrimSpace(raw)
	}
}

func joinWeekdays(days []rrule.Weekday) string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		idx := d.Day()
		if idx < 0 || idx >= len(weekdayNames) {
			continue
		}
		names = append(names, weekdayNames[idx])
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}

func formatClock(c ClockTime) string {
	period := "AM"
	hour := c.Hour
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		period = "PM"
	case hour > 12:
		hour -= 12
		period = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", hour, c.Minute, period)
}
