package booking

import (
	"testing"
	"time"

	"pocketclass/models"
)

func confirmedAt(start time.Time, zone string) models.Appointment {
	return models.Appointment{
		ID:              "appt-1",
		StudentID:       "stu-1",
		Start:           start,
		End:             start.Add(time.Hour),
		Status:          models.StatusConfirmed,
		Paid:            true,
		PaymentMethod:   models.PaymentCard,
		PaymentIntentID: "pi_123",
		Timezone:        zone,
	}
}

func TestStateOfWindowBoundary(t *testing.T) {
	p := NewPolicy(24, "America/Toronto")
	now := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start time.Time
		want  BookingState
	}{
		{"24h1m out", now.Add(24*time.Hour + time.Minute), StateCancellable},
		{"exactly 24h", now.Add(24 * time.Hour), StateCancellable},
		{"23h59m out", now.Add(23*time.Hour + 59*time.Minute), StateLocked},
		{"one minute out", now.Add(time.Minute), StateLocked},
		{"starting now", now, StatePast},
		{"yesterday", now.Add(-24 * time.Hour), StatePast},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := p.StateOf(confirmedAt(tc.start, "America/Toronto"), now)
			if got != tc.want {
				t.Fatalf("StateOf = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestEvaluateAcrossDSTUsesElapsedTime(t *testing.T) {
	// Toronto springs forward at 02:00 on 2026-03-08.
	loc, err := time.LoadLocation("America/Toronto")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	now := time.Date(2026, 3, 7, 12, 0, 0, 0, loc)
	sameWallClock := time.Date(2026, 3, 8, 12, 0, 0, 0, loc) // 23h later in real time

	d := NewPolicy(24, "").Evaluate(confirmedAt(sameWallClock, "America/Toronto"), ActionCancel, now)
	if d.Allowed || d.State != StateLocked {
		t.Fatalf("expected locked across DST, got %+v", d)
	}
}

func TestEvaluateZoneFromAppointment(t *testing.T) {
	p := NewPolicy(24, "")
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	appt := confirmedAt(now.Add(30*time.Hour), "Asia/Tokyo")
	d := p.Evaluate(appt, ActionCancel, now)
	if !d.Allowed {
		t.Fatalf("expected allowed, got %+v", d)
	}
	if d.Deadline.Location().String() != "Asia/Tokyo" {
		t.Fatalf("deadline should be in the booking zone, got %s", d.Deadline.Location())
	}
	if !d.Deadline.Equal(appt.Start.Add(-24 * time.Hour)) {
		t.Fatalf("unexpected deadline %s", d.Deadline)
	}
}

func TestEvaluateActions(t *testing.T) {
	p := NewPolicy(24, "America/Toronto")
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(72 * time.Hour)

	packageBooking := confirmedAt(future, "")
	packageBooking.PaymentMethod = models.PaymentPackage
	packageBooking.PackageID = "pkg-1"
	packageBooking.PaymentIntentID = ""

	unpaid := confirmedAt(future, "")
	unpaid.Paid = false
	unpaid.PaymentIntentID = ""

	cancelled := confirmedAt(future, "")
	cancelled.Status = models.StatusCancelled

	completed := confirmedAt(now.Add(-72*time.Hour), "")
	completed.Status = models.StatusCompleted

	tests := []struct {
		name   string
		appt   models.Appointment
		action Action
		want   bool
	}{
		{"card cancel", confirmedAt(future, ""), ActionCancel, true},
		{"card refund", confirmedAt(future, ""), ActionRefund, true},
		{"card reschedule", confirmedAt(future, ""), ActionReschedule, true},
		{"package cancel", packageBooking, ActionCancel, false},
		{"package reschedule", packageBooking, ActionReschedule, true},
		{"package refund", packageBooking, ActionRefund, false},
		{"unpaid refund", unpaid, ActionRefund, false},
		{"unpaid cancel", unpaid, ActionCancel, true},
		{"cancelled reschedule", cancelled, ActionReschedule, false},
		{"completed cancel", completed, ActionCancel, false},
		{"locked reschedule", confirmedAt(now.Add(2*time.Hour), ""), ActionReschedule, false},
		{"unknown action", confirmedAt(future, ""), Action("transfer"), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := p.Evaluate(tc.appt, tc.action, now)
			if d.Allowed != tc.want {
				t.Fatalf("Allowed = %v, want %v (reason %q)", d.Allowed, tc.want, d.Reason)
			}
			if !d.Allowed && d.Reason == "" {
				t.Fatal("rejections must carry a reason")
			}
		})
	}
}

func TestEvaluateAll(t *testing.T) {
	p := NewPolicy(24, "")
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	ds := p.EvaluateAll(confirmedAt(now.Add(48*time.Hour), ""), now)
	if len(ds) != len(Actions) {
		t.Fatalf("expected %d decisions, got %d", len(Actions), len(ds))
	}
	for _, d := range ds {
		if !d.Allowed {
			t.Fatalf("expected %s allowed", d.Action)
		}
	}
}

func TestNewPolicyDefaults(t *testing.T) {
	p := NewPolicy(0, "Not/AZone")
	if p.Window != DefaultWindow {
		t.Fatalf("expected default window, got %s", p.Window)
	}
	if p.DefaultZone.String() != "America/Toronto" {
		t.Fatalf("expected Toronto fallback, got %s", p.DefaultZone)
	}
}
