package availability

import (
	"time"

	"pocketclass/models"
)

// Overlaps reports whether two half-open intervals intersect. It is symmetric and
// covers a start inside [s, e), an end inside (s, e] and full containment.
func Overlaps(a, b models.Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// ConflictsWith reports whether [start, end) collides with any appointment that
// still holds its slot. When seats > 0 only appointments booked for the same
// number of seats are considered, so each group size forms its own series.
func ConflictsWith(appointments []models.Appointment, start, end time.Time, seats int) bool {
	candidate := models.Interval{Start: start, End: end}
	for _, appt := range appointments {
		if !appt.Active() {
			continue
		}
		if seats > 0 && appt.ClassStudents != seats {
			continue
		}
		if Overlaps(candidate, appt.Interval()) {
			return true
		}
	}
	return false
}

// Covers reports whether some availability interval contains [start, end).
func Covers(intervals []models.AvailabilityInterval, start, end time.Time) bool {
	for _, iv := range intervals {
		if !iv.Start.After(start) && !iv.End.Before(end) {
			return true
		}
	}
	return false
}
