package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUTCDay(t *testing.T) {
	now := time.Date(2025, 3, 14, 17, 42, 9, 120, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), UTCDay(now))

	// Non-UTC input is normalized first.
	loc := time.FixedZone("plus5", 5*3600)
	assert.Equal(t,
		time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		UTCDay(time.Date(2025, 3, 15, 2, 0, 0, 0, loc)))
}

func TestLocalMidnight(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		offset   int
		expected time.Time
	}{
		{
			name:     "UTC user",
			now:      time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
			offset:   0,
			expected: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "west of UTC mid-day",
			now:      time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
			offset:   -3,
			expected: time.Date(2025, 3, 14, 3, 0, 0, 0, time.UTC),
		},
		{
			name:   "west of UTC just after UTC midnight is still previous local day",
			now:    time.Date(2025, 3, 14, 1, 0, 0, 0, time.UTC),
			offset: -3,
			// Local time is 22:00 on the 13th, so their day started at 03:00 UTC the 13th.
			expected: time.Date(2025, 3, 13, 3, 0, 0, 0, time.UTC),
		},
		{
			name:   "far east user already in tomorrow",
			now:    time.Date(2025, 3, 14, 23, 0, 0, 0, time.UTC),
			offset: 12,
			// Local time is 11:00 on the 15th; local midnight was 12:00 UTC the 14th.
			expected: time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
		},
		{
			name:     "east of UTC mid-day",
			now:      time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
			offset:   3,
			expected: time.Date(2025, 3, 13, 21, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LocalMidnight(tt.now, tt.offset)
			assert.Equal(t, tt.expected, got)

			// The instant maps back to 00:00 in the user's local frame.
			local := got.Add(time.Duration(tt.offset) * time.Hour)
			assert.Equal(t, 0, local.Hour())
			assert.Equal(t, 0, local.Minute())
		})
	}
}

func TestDayWindow(t *testing.T) {
	midnight := time.Date(2025, 3, 14, 3, 0, 0, 0, time.UTC)
	from, to := DayWindow(midnight)
	assert.Equal(t, midnight, from)
	assert.Equal(t, midnight.Add(24*time.Hour), to)
}

func TestRandomDeliveryTime_Bounds(t *testing.T) {
	midnight := time.Date(2025, 3, 14, 3, 0, 0, 0, time.UTC)
	lo := midnight.Add(10 * time.Hour)
	hi := midnight.Add(22*time.Hour + 59*time.Minute + 59*time.Second)

	for i := 0; i < 5000; i++ {
		got := RandomDeliveryTime(midnight, 10, 22)
		assert.False(t, got.Before(lo), "delivery %v before window start %v", got, lo)
		assert.False(t, got.After(hi), "delivery %v after window end %v", got, hi)
	}
}

func TestRandomDeliveryTime_SingleHourWindow(t *testing.T) {
	midnight := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 100; i++ {
		got := RandomDeliveryTime(midnight, 12, 12)
		assert.Equal(t, 12, got.Hour())
	}
}
