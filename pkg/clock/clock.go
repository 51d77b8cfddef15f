// Package clock holds the timezone arithmetic used by the special mission
// engine. Offsets are whole hours from UTC; daylight-saving shifts and
// sub-hour zones are not supported.
package clock

import (
	"math/rand"
	"time"
)

// UTCDay truncates t to the start of its UTC calendar day.
func UTCDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// LocalMidnight returns the start of the user's current local day as a UTC
// instant. The day is picked in the user's local frame, so users far east or
// west of UTC land on the right side of their own midnight.
func LocalMidnight(nowUTC time.Time, offsetHours int) time.Time {
	offset := time.Duration(offsetHours) * time.Hour
	local := nowUTC.UTC().Add(offset)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	return midnight.Add(-offset)
}

// DayWindow returns the half-open interval [midnight, midnight+24h).
func DayWindow(midnight time.Time) (time.Time, time.Time) {
	return midnight, midnight.Add(24 * time.Hour)
}

// RandomDeliveryTime returns localMidnight plus a uniformly random hour in
// [fromHour, toHour] and random minute and second in [0, 59]. Each call
// re-rolls; the result is bounded but not reproducible.
func RandomDeliveryTime(localMidnight time.Time, fromHour, toHour int) time.Time {
	hour := fromHour + rand.Intn(toHour-fromHour+1)
	minute := rand.Intn(60)
	second := rand.Intn(60)

	return localMidnight.Add(
		time.Duration(hour)*time.Hour +
			time.Duration(minute)*time.Minute +
			time.Duration(second)*time.Second)
}
