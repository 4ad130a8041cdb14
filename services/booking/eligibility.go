package booking

import (
	"fmt"
	"time"

	"pocketclass/models"
	"pocketclass/services/availability"
)

// DefaultWindow is how long before the start a booking stops being changeable.
const DefaultWindow = 24 * time.Hour

// BookingState is where a booking sits relative to its cancellation window.
type BookingState string

const (
	StateCancellable BookingState = "cancellable"
	StateLocked      BookingState = "locked"
	StatePast        BookingState = "past"
)

// Action is a student-initiated change to a booking.
type Action string

const (
	ActionCancel     Action = "cancel"
	ActionReschedule Action = "reschedule"
	ActionRefund     Action = "refund"
)

// Actions lists every action Evaluate understands.
var Actions = []Action{ActionCancel, ActionReschedule, ActionRefund}

// Decision is the outcome of an eligibility check. A rejected decision is a
// result, not an error; the booking is left as it was.
type Decision struct {
	Action  Action       `json:"action"`
	Allowed bool         `json:"allowed"`
	State   BookingState `json:"state"`
	Reason  string       `json:"reason,omitempty"`
	// Deadline is the last instant the booking can still be changed, in the
	// booking's zone.
	Deadline time.Time `json:"deadline"`
}

// Policy holds the rules every cancel, reschedule and refund path goes through.
type Policy struct {
	Window      time.Duration
	DefaultZone *time.Location
}

// NewPolicy builds a Policy from a window in hours and a fallback zone name.
func NewPolicy(windowHours int, zone string) Policy {
	window := time.Duration(windowHours) * time.Hour
	if window <= 0 {
		window = DefaultWindow
	}
	return Policy{Window: window, DefaultZone: availability.LoadZone(zone)}
}

// zoneFor resolves the zone an appointment is judged in.
func (p Policy) zoneFor(appt models.Appointment) *time.Location {
	if appt.Timezone != "" {
		if loc, err := time.LoadLocation(appt.Timezone); err == nil {
			return loc
		}
	}
	if p.DefaultZone != nil {
		return p.DefaultZone
	}
	return availability.LoadZone("")
}

func (p Policy) window() time.Duration {
	if p.Window <= 0 {
		return DefaultWindow
	}
	return p.Window
}

// StateOf places the appointment relative to now, both read in the
// appointment's zone.
func (p Policy) StateOf(appt models.Appointment, now time.Time) BookingState {
	loc := p.zoneFor(appt)
	start := appt.Start.In(loc)
	until := start.Sub(now.In(loc))
	switch {
	case until <= 0:
		return StatePast
	case until < p.window():
		return StateLocked
	default:
		return StateCancellable
	}
}

// Evaluate decides whether action may be applied to appt at now.
func (p Policy) Evaluate(appt models.Appointment, action Action, now time.Time) Decision {
	loc := p.zoneFor(appt)
	d := Decision{
		Action:   action,
		State:    p.StateOf(appt, now),
		Deadline: appt.Start.In(loc).Add(-p.window()),
	}

	switch appt.Status {
	case models.StatusCancelled:
		d.Reason = "booking is already cancelled"
		return d
	case models.StatusCompleted:
		d.Reason = "booking is already completed"
		return d
	case models.StatusPending:
		d.Reason = "booking is not confirmed yet"
		return d
	}

	switch d.State {
	case StatePast:
		d.Reason = "class has already started"
		return d
	case StateLocked:
		d.Reason = fmt.Sprintf("changes close %s before the class (deadline %s)",
			formatWindow(p.window()), d.Deadline.Format("Mon Jan 2 3:04 PM MST"))
		return d
	}

	switch action {
	case ActionCancel:
		if appt.PackagePaid() {
			d.Reason = "package bookings cannot be cancelled, reschedule instead"
			return d
		}
	case ActionRefund:
		if appt.PackagePaid() {
			d.Reason = "package bookings are not refundable"
			return d
		}
		if !appt.Paid || appt.PaymentIntentID == "" {
			d.Reason = "nothing to refund"
			return d
		}
	case ActionReschedule:
	default:
		d.Reason = fmt.Sprintf("unknown action %q", action)
		return d
	}

	d.Allowed = true
	return d
}

// EvaluateAll runs Evaluate for every action.
func (p Policy) EvaluateAll(appt models.Appointment, now time.Time) []Decision {
	out := make([]Decision, 0, len(Actions))
	for _, a := range Actions {
		out = append(out, p.Evaluate(appt, a, now))
	}
	return out
}

func formatWindow(w time.Duration) string {
	if w%time.Hour == 0 {
		return fmt.Sprintf("%dh", int(w.Hours()))
	}
	return w.String()
}
