package availability

import (
	"time"
)

// DefaultZone is used whenever a class or booking carries no usable IANA zone.
const DefaultZone = "America/Toronto"

// IsBefore reports whether a is strictly before b.
func IsBefore(a, b time.Time) bool {
	return a.Before(b)
}

// DateOnly truncates t to midnight of its calendar day in loc.
func DateOnly(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// IsMoreThanDaysOut reports whether t lies strictly more than days*24h after now.
func IsMoreThanDaysOut(t, now time.Time, days int) bool {
	return t.Sub(now) > time.Duration(days)*24*time.Hour
}

// LoadZone resolves an IANA zone name, falling back to DefaultZone and then UTC.
func LoadZone(name string) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if loc, err := time.LoadLocation(DefaultZone); err == nil {
		return loc
	}
	return time.UTC
}

// ParseDay parses a YYYY-MM-DD calendar day as midnight in loc.
func ParseDay(day string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", day, loc)
}
