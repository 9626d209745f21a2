package recurrence

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Bucket is a coarse time-of-day label used when a trigger carries no exact
// clock time.
type Bucket string

const (
	BucketEarly     Bucket = "early"     // 06:00-08:59
	BucketMorning   Bucket = "morning"   // 09:00-10:59
	BucketNoonish   Bucket = "noonish"   // 11:00-13:59
	BucketAfternoon Bucket = "afternoon" // 14:00-17:59
	BucketEvening   Bucket = "evening"   // 18:00-21:59
	BucketLate      Bucket = "late"      // 22:00-05:59
	BucketAllDay    Bucket = "allday"    // no fixed hour, resolver picks one per occurrence
)

// DefaultBucket is used when a trigger has neither an exact time nor a bucket.
const DefaultBucket = BucketEvening

var representativeTimes = map[Bucket]ClockTime{
	BucketEarly:     {Hour: 7, Minute: 30},
	BucketMorning:   {Hour: 9, Minute: 30},
	BucketNoonish:   {Hour: 12, Minute: 0},
	BucketAfternoon: {Hour: 15, Minute: 0},
	BucketEvening:   {Hour: 19, Minute: 0},
	BucketLate:      {Hour: 23, Minute: 0},
}

func (b Bucket) Valid() bool {
	if _, ok := representativeTimes[b]; ok {
		return true
	}
	return b == BucketAllDay
}

// RepresentativeTime returns the concrete clock time standing in for the
// bucket. The second return is false for allday, which has no fixed hour.
func (b Bucket) RepresentativeTime() (ClockTime, bool) {
	ct, ok := representativeTimes[b]
	return ct, ok
}

// BucketFor maps an exact clock time back to the bucket its hour falls into.
// A nil clock time maps to the default bucket.
func BucketFor(c *ClockTime) Bucket {
	if c == nil {
		return DefaultBucket
	}
	switch h := c.Hour; {
	case h >= 6 && h < 9:
		return BucketEarly
	case h >= 9 && h < 11:
		return BucketMorning
	case h >= 11 && h < 14:
		return BucketNoonish
	case h >= 14 && h < 18:
		return BucketAfternoon
	case h >= 18 && h < 22:
		return BucketEvening
	default:
		return BucketLate
	}
}

// ClockTime is a wall-clock time of day with minute precision. It scans from
// and stores to a SQL time column.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime accepts "15:04" or "15:04:05"; seconds are discarded.
func ParseClockTime(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	layout := "15:04"
	if strings.Count(s, ":") == 2 {
		layout = "15:04:05"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// At anchors the clock time on the given calendar day in loc.
func (c ClockTime) At(day time.Time, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, loc)
}

func (c *ClockTime) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		c.Hour, c.Minute = v.Hour(), v.Minute()
		return nil
	case []byte:
		parsed, err := ParseClockTime(string(v))
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	case string:
		parsed, err := ParseClockTime(v)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into ClockTime", value)
	}
}

func (c ClockTime) Value() (driver.Value, error) {
	return fmt.Sprintf("%02d:%02d:00", c.Hour, c.Minute), nil
}
