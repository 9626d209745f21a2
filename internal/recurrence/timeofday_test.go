package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketRoundTrip(t *testing.T) {
	buckets := []Bucket{
		BucketEarly, BucketMorning, BucketNoonish,
		BucketAfternoon, BucketEvening, BucketLate,
	}

	for _, bucket := range buckets {
		rep, ok := bucket.RepresentativeTime()
		require.True(t, ok, "bucket %s should have a representative time", bucket)
		assert.Equal(t, bucket, BucketFor(&rep))
	}
}

func TestBucketForNil(t *testing.T) {
	assert.Equal(t, BucketEvening, BucketFor(nil))
}

func TestBucketBoundaries(t *testing.T) {
	cases := []struct {
		hour, minute int
		want         Bucket
	}{
		{5, 59, BucketLate},
		{6, 0, BucketEarly},
		{8, 59, BucketEarly},
		{9, 0, BucketMorning},
		{10, 59, BucketMorning},
		{11, 0, BucketNoonish},
		{13, 59, BucketNoonish},
		{14, 0, BucketAfternoon},
		{17, 59, BucketAfternoon},
		{18, 0, BucketEvening},
		{21, 59, BucketEvening},
		{22, 0, BucketLate},
		{0, 0, BucketLate},
	}

	for _, tc := range cases {
		clock := ClockTime{Hour: tc.hour, Minute: tc.minute}
		assert.Equal(t, tc.want, BucketFor(&clock), "hour %02d:%02d", tc.hour, tc.minute)
	}
}

func TestAllDayHasNoRepresentativeTime(t *testing.T) {
	_, ok := BucketAllDay.RepresentativeTime()
	assert.False(t, ok)
	assert.True(t, BucketAllDay.Valid())
	assert.False(t, Bucket("midafternoonish").Valid())
}

func TestRepresentativeTimes(t *testing.T) {
	evening, ok := BucketEvening.RepresentativeTime()
	require.True(t, ok)
	assert.Equal(t, ClockTime{Hour: 19, Minute: 0}, evening)

	early, ok := BucketEarly.RepresentativeTime()
	require.True(t, ok)
	assert.Equal(t, ClockTime{Hour: 7, Minute: 30}, early)
}

func TestParseClockTime(t *testing.T) {
	clock, err := ParseClockTime("07:30")
	require.NoError(t, err)
	assert.Equal(t, ClockTime{Hour: 7, Minute: 30}, clock)

	clock, err = ParseClockTime("19:05:45")
	require.NoError(t, err)
	assert.Equal(t, ClockTime{Hour: 19, Minute: 5}, clock)

	_, err = ParseClockTime("25:00")
	assert.Error(t, err)

	_, err = ParseClockTime("noonish")
	assert.Error(t, err)
}

func TestClockTimeAt(t *testing.T) {
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	at := ClockTime{Hour: 7, Minute: 30}.At(day, loc)
	assert.Equal(t, time.Date(2024, 1, 15, 7, 30, 0, 0, loc), at)
}

func TestClockTimeSQLRoundTrip(t *testing.T) {
	value, err := ClockTime{Hour: 7, Minute: 30}.Value()
	require.NoError(t, err)
	assert.Equal(t, "07:30:00", value)

	var scanned ClockTime
	require.NoError(t, scanned.Scan("07:30:00"))
	assert.Equal(t, ClockTime{Hour: 7, Minute: 30}, scanned)

	require.NoError(t, scanned.Scan(time.Date(2000, 1, 1, 19, 0, 0, 0, time.UTC)))
	assert.Equal(t, ClockTime{Hour: 19, Minute: 0}, scanned)

	assert.Error(t, scanned.Scan(42))
}
