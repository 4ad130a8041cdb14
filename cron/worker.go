package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pocketclass/config"
	"pocketclass/database"
	"pocketclass/models"
	"pocketclass/services/notification"
	"pocketclass/services/tasks"
	"pocketclass/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// AppointmentReader loads an appointment by id.
type AppointmentReader interface {
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
}

// Completer closes out bookings that already ended.
type Completer interface {
	CompletePast(ctx context.Context) (int64, error)
}

// CompletionInterval is how often the completion sweep runs.
const CompletionInterval = "@every 15m"

// RedisOpt is the asynq connection for the task database.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	}
}

// Worker runs the asynq server and the periodic scheduler.
type Worker struct {
	srv       *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
}

// NewWorker registers the reminder and completion handlers.
func NewWorker(opt asynq.RedisConnOpt, notifSvc notification.NotificationService, appts AppointmentReader, completer Completer) (*Worker, error) {
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{tasks.QueueDefault: 1},
		Logger:      utils.GetLogger().Sugar(),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, HandleReminderTask(notifSvc, appts))
	mux.HandleFunc(tasks.TypeCompletePast, HandleCompleteTask(completer))

	scheduler := asynq.NewScheduler(opt, &asynq.SchedulerOpts{Location: time.UTC})
	if _, err := scheduler.Register(CompletionInterval, tasks.NewCompletePastTask(), asynq.Queue(tasks.QueueDefault)); err != nil {
		return nil, fmt.Errorf("register completion sweep: %w", err)
	}
	return &Worker{srv: srv, scheduler: scheduler, mux: mux}, nil
}

// Start runs the worker in the background.
func (w *Worker) Start() error {
	if err := w.scheduler.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	if err := w.srv.Start(w.mux); err != nil {
		w.scheduler.Shutdown()
		return fmt.Errorf("start worker: %w", err)
	}
	utils.GetLogger().Info("Task worker started")
	return nil
}

func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.srv.Shutdown()
}

// HandleReminderTask pushes a reminder unless the booking was cancelled or
// moved since the task was queued.
func HandleReminderTask(notifSvc notification.NotificationService, appts AppointmentReader) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			return fmt.Errorf("invalid reminder payload: %v: %w", err, asynq.SkipRetry)
		}

		appt, err := appts.GetByID(ctx, p.AppointmentID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return nil
			}
			return err
		}
		if appt.Status != models.StatusConfirmed || !appt.Start.Equal(p.Start) {
			utils.GetLogger().Debug("Dropping stale reminder", zap.String("appointmentId", p.AppointmentID))
			return nil
		}

		if err := notifSvc.NotifyBooking(ctx, notification.KindReminder, *appt); err != nil {
			utils.GetLogger().Warn("Reminder push failed", zap.String("appointmentId", appt.ID), zap.Error(err))
			return err
		}
		return nil
	}
}

func HandleCompleteTask(completer Completer) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		_, err := completer.CompletePast(ctx)
		return err
	}
}
