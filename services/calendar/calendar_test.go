package calendar

import (
	"testing"
	"time"

	"pocketclass/models"
)

func TestBuildEvent(t *testing.T) {
	loc, err := time.LoadLocation("America/Toronto")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	start := time.Date(2026, 7, 1, 10, 0, 0, 0, loc)
	appt := models.Appointment{
		ID:            "appt-1",
		ClassID:       "yoga",
		StudentID:     "stu-1",
		Start:         start,
		End:           start.Add(time.Hour),
		Timezone:      "America/Toronto",
		GroupClass:    true,
		ClassStudents: 2,
	}

	ev := buildEvent(appt, "Morning yoga")
	if ev.Summary != "Morning yoga" {
		t.Fatalf("unexpected summary %q", ev.Summary)
	}
	if ev.Start.DateTime != "2026-07-01T10:00:00-04:00" || ev.Start.TimeZone != "America/Toronto" {
		t.Fatalf("unexpected start %+v", ev.Start)
	}
	if ev.ExtendedProperties.Private["appointmentId"] != "appt-1" {
		t.Fatal("appointment id should be kept on the event")
	}
	if ev.Description == "" {
		t.Fatal("group events describe their seats")
	}

	patch := buildEvent(appt, "")
	if patch.Summary != "" {
		t.Fatal("patches must not clear the summary")
	}
}
