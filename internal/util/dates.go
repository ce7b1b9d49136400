package util

import (
	"math"
	"time"

	"habitz/internal/model"
)

const DateLayout = "2006-01-02"

// LocalDate converts a UTC instant to the user's calendar date in the named
// IANA zone. Unknown or empty zone names fall back to the default zone
// instead of failing; a wrong date is worse than a default one, but a hard
// error on every request is worse still.
func LocalDate(tzName string, instant time.Time) time.Time {
	if tzName == "" {
		tzName = model.DefaultTimezone
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		loc, _ = time.LoadLocation(model.DefaultTimezone)
	}
	local := instant.In(loc)
	return Midnight(local)
}

// UserToday resolves "today" for a user at the given instant. All predicates
// and rollups receive the resulting date explicitly; nothing downstream
// reads the wall clock.
func UserToday(u *model.User, now time.Time) time.Time {
	return LocalDate(u.Timezone, now)
}

// ZoneName validates an IANA zone name, substituting the default zone when
// the name is empty or unknown. Repositories interpolate the result into
// AT TIME ZONE expressions, so an unvalidated name must never reach them.
func ZoneName(tzName string) string {
	if tzName == "" {
		return model.DefaultTimezone
	}
	if _, err := time.LoadLocation(tzName); err != nil {
		return model.DefaultTimezone
	}
	return tzName
}

// Midnight truncates t to its date, normalized to UTC midnight so dates
// compare and marshal consistently regardless of the zone they came from.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two instants fall on the same normalized date.
func SameDay(a, b time.Time) bool {
	return Midnight(a).Equal(Midnight(b))
}

// WeekdayOffset maps time.Weekday (Sunday=0) to the Monday=0 offset used by
// calendar layouts.
func WeekdayOffset(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Round1 rounds to one decimal place, the precision nutrition snapshots are
// stored at.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
