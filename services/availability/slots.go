package availability

import (
	"fmt"
	"time"

	"pocketclass/models"
)

// SlotsPerDay is the fixed number of hourly slots generated for a calendar day.
const SlotsPerDay = 24

// SlotOptions controls how a day's slots are gated.
type SlotOptions struct {
	// CheckConflicts enables availability coverage, overlap and seat gating.
	// Without it slots are listed with coverage only.
	CheckConflicts bool
	// Seats is the number of group seats being requested; 0 for private classes.
	Seats int
	// Ledger and TotalSeats describe a group class' seat bookings.
	Ledger     map[string]models.SlotBooking
	TotalSeats int
}

// SlotLabel renders a slot label on a 12-hour clock, e.g. "9:00 AM - 10:00 AM".
func SlotLabel(start, end time.Time) string {
	return fmt.Sprintf("%s - %s", start.Format("3:04 PM"), end.Format("3:04 PM"))
}

// GenerateSlots walks day (interpreted in loc) in one hour steps and returns
// exactly SlotsPerDay slots. The last slot ends at 23:59 so it never spills into
// the next day. Hours are stepped on the wall clock, so DST days still yield 24
// slots. A wall hour skipped by a spring-forward shift resolves to an empty
// slot, which is never available.
func GenerateSlots(
	day time.Time,
	loc *time.Location,
	intervals []models.AvailabilityInterval,
	appointments []models.Appointment,
	opts SlotOptions,
) []models.Slot {
	if loc == nil {
		loc = LoadZone("")
	}
	midnight := DateOnly(day, loc)
	y, m, d := midnight.Date()

	slots := make([]models.Slot, 0, SlotsPerDay)
	for hour := 0; hour < SlotsPerDay; hour++ {
		start := time.Date(y, m, d, hour, 0, 0, 0, loc)
		var end time.Time
		if hour == SlotsPerDay-1 {
			end = time.Date(y, m, d, 23, 59, 0, 0, loc)
		} else {
			end = time.Date(y, m, d, hour+1, 0, 0, 0, loc)
		}

		slot := models.Slot{
			Label: SlotLabel(start, end),
			Start: start,
			End:   end,
		}

		if !end.After(start) {
			slots = append(slots, slot)
			continue
		}

		covered := Covers(intervals, start, end)
		if !opts.CheckConflicts {
			slot.IsAvailable = covered
			slots = append(slots, slot)
			continue
		}

		available := covered && !ConflictsWith(appointments, start, end, opts.Seats)
		if opts.TotalSeats > 0 {
			remaining := RemainingSeats(opts.Ledger, start, opts.TotalSeats)
			slot.RemainingSeats = &remaining
			if opts.Seats > remaining {
				available = false
			}
		}
		slot.IsAvailable = available
		slots = append(slots, slot)
	}
	return slots
}

// RemainingSeats returns the seats left at start given a class' ledger.
func RemainingSeats(ledger map[string]models.SlotBooking, start time.Time, total int) int {
	entry, ok := ledger[models.SlotKey(start)]
	if !ok {
		return total
	}
	if entry.RemainingSeats < 0 {
		return 0
	}
	return entry.RemainingSeats
}

// FindSlot returns the generated slot starting at start, if any. Empty slots
// are skipped.
func FindSlot(slots []models.Slot, start time.Time) (models.Slot, bool) {
	for _, s := range slots {
		if s.End.After(s.Start) && s.Start.Equal(start) {
			return s, true
		}
	}
	return models.Slot{}, false
}
