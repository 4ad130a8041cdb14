package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pocketclass/models"

	"github.com/hibiken/asynq"
)

const (
	TypeSendReminder = "reminder:send"
	TypeCompletePast = "appointments:complete"
)

// QueueDefault is the only queue the worker serves.
const QueueDefault = "default"

// ReminderTaskID is the asynq task id of an appointment's reminder.
func ReminderTaskID(appointmentID string) string {
	return "reminder:" + appointmentID
}

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(ReminderTaskID(payload.AppointmentID)),
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(3),
	}
	return task, opts, nil
}

func NewCompletePastTask() *asynq.Task {
	return asynq.NewTask(TypeCompletePast, nil)
}

// ReminderScheduler plans and withdraws booking reminders.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, appt models.Appointment) error
	CancelReminder(ctx context.Context, appointmentID string) error
}

// AsynqReminderScheduler enqueues reminders lead before the class starts.
type AsynqReminderScheduler struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	lead      time.Duration
	now       func() time.Time
}

func NewAsynqReminderScheduler(opt asynq.RedisConnOpt, lead time.Duration) *AsynqReminderScheduler {
	return &AsynqReminderScheduler{
		client:    asynq.NewClient(opt),
		inspector: asynq.NewInspector(opt),
		lead:      lead,
		now:       time.Now,
	}
}

// ReminderAt is when a reminder for a class starting at start should fire;
// the zero time means it is too late to bother.
func ReminderAt(start, now time.Time, lead time.Duration) time.Time {
	at := start.Add(-lead)
	if at.Before(now) {
		if start.After(now) {
			return now
		}
		return time.Time{}
	}
	return at
}

func (s *AsynqReminderScheduler) ScheduleReminder(ctx context.Context, appt models.Appointment) error {
	fireAt := ReminderAt(appt.Start, s.now(), s.lead)
	if fireAt.IsZero() {
		return nil
	}
	task, opts, err := NewReminderTask(models.ReminderPayload{
		AppointmentID: appt.ID,
		StudentID:     appt.StudentID,
		Start:         appt.Start,
	}, fireAt)
	if err != nil {
		return fmt.Errorf("build reminder task: %w", err)
	}

	// Replace an existing reminder, e.g. after a reschedule.
	if err := s.CancelReminder(ctx, appt.ID); err != nil {
		return err
	}
	if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("enqueue reminder for %s: %w", appt.ID, err)
	}
	return nil
}

func (s *AsynqReminderScheduler) CancelReminder(_ context.Context, appointmentID string) error {
	err := s.inspector.DeleteTask(QueueDefault, ReminderTaskID(appointmentID))
	if err == nil || errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
		return nil
	}
	return fmt.Errorf("delete reminder for %s: %w", appointmentID, err)
}

func (s *AsynqReminderScheduler) Close() error {
	if err := s.inspector.Close(); err != nil {
		return err
	}
	return s.client.Close()
}
