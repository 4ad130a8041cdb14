package calendar

import (
	"context"
	"fmt"
	"time"

	"pocketclass/models"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Calendar mirrors confirmed appointments into an external calendar.
type Calendar interface {
	CreateEvent(ctx context.Context, appt models.Appointment, title string) (string, error)
	UpdateEvent(ctx context.Context, eventID string, appt models.Appointment) error
	DeleteEvent(ctx context.Context, eventID string) error
}

// GoogleCalendar writes events to one Google Calendar.
type GoogleCalendar struct {
	svc        *gcal.Service
	calendarID string
}

// NewGoogleCalendar builds a client from a service account credentials file.
func NewGoogleCalendar(ctx context.Context, credentialsFile, calendarID string) (*GoogleCalendar, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	opts = append(opts, option.WithScopes(gcal.CalendarEventsScope))

	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("calendar: init service: %w", err)
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	return &GoogleCalendar{svc: svc, calendarID: calendarID}, nil
}

func eventTime(t time.Time, zone string) *gcal.EventDateTime {
	return &gcal.EventDateTime{DateTime: t.Format(time.RFC3339), TimeZone: zone}
}

// buildEvent maps an appointment onto a calendar event.
func buildEvent(appt models.Appointment, title string) *gcal.Event {
	ev := &gcal.Event{
		Start: eventTime(appt.Start, appt.Timezone),
		End:   eventTime(appt.End, appt.Timezone),
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{
				"appointmentId": appt.ID,
				"classId":       appt.ClassID,
				"studentId":     appt.StudentID,
			},
		},
	}
	if title != "" {
		ev.Summary = title
	}
	if appt.GroupClass {
		ev.Description = fmt.Sprintf("Group class, %d seat(s)", appt.ClassStudents)
	}
	return ev
}

func (c *GoogleCalendar) CreateEvent(ctx context.Context, appt models.Appointment, title string) (string, error) {
	ev, err := c.svc.Events.Insert(c.calendarID, buildEvent(appt, title)).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("calendar: insert event for %s: %w", appt.ID, err)
	}
	return ev.Id, nil
}

func (c *GoogleCalendar) UpdateEvent(ctx context.Context, eventID string, appt models.Appointment) error {
	if _, err := c.svc.Events.Patch(c.calendarID, eventID, buildEvent(appt, "")).Context(ctx).Do(); err != nil {
		return fmt.Errorf("calendar: patch event %s: %w", eventID, err)
	}
	return nil
}

// DeleteEvent treats an already removed event as success.
func (c *GoogleCalendar) DeleteEvent(ctx context.Context, eventID string) error {
	err := c.svc.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		if gerr, ok := err.(*googleapi.Error); ok && (gerr.Code == 404 || gerr.Code == 410) {
			return nil
		}
		return fmt.Errorf("calendar: delete event %s: %w", eventID, err)
	}
	return nil
}

// NoopCalendar is used when calendar sync is disabled.
type NoopCalendar struct{}

func (NoopCalendar) CreateEvent(context.Context, models.Appointment, string) (string, error) {
	return "", nil
}

func (NoopCalendar) UpdateEvent(context.Context, string, models.Appointment) error { return nil }

func (NoopCalendar) DeleteEvent(context.Context, string) error { return nil }
