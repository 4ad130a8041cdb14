package notification

import (
	"context"
	"fmt"
	"time"

	"pocketclass/models"
	"pocketclass/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// Booking event kinds sent to students.
const (
	KindConfirmed   = "booking_confirmed"
	KindCancelled   = "booking_cancelled"
	KindRescheduled = "booking_rescheduled"
	KindReminder    = "booking_reminder"
)

// NotificationService defines methods for sending FCM pushes.
type NotificationService interface {
	SendUserPushNotification(ctx context.Context, userID, title, body string, data map[string]string) error
	NotifyBooking(ctx context.Context, kind string, appt models.Appointment) error
}

// Sender is the part of the FCM client the service uses.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// DefaultNotificationService pushes to the per-user topic every device of a
// user subscribes to at sign-in.
type DefaultNotificationService struct {
	sender Sender
}

func NewDefaultNotificationService(sender Sender) (*DefaultNotificationService, error) {
	if sender == nil {
		return nil, fmt.Errorf("notification service initialization error: FCM sender is nil")
	}
	return &DefaultNotificationService{sender: sender}, nil
}

// UserTopic is the FCM topic of a user.
func UserTopic(userID string) string {
	return "user-" + userID
}

func (s *DefaultNotificationService) SendUserPushNotification(
	ctx context.Context,
	userID, title, body string,
	data map[string]string,
) error {
	if data == nil {
		data = map[string]string{}
	}
	if _, ok := data["role"]; !ok {
		data["role"] = utils.RoleStudent
	}

	msg := &messaging.Message{
		Topic: UserTopic(userID),
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "bookings",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}

	id, err := s.sender.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("SendUserPushNotification: failed to send FCM message: %w", err)
	}
	utils.GetLogger().Debug("Push sent", zap.String("userId", userID), zap.String("messageId", id))
	return nil
}

// NotifyBooking tells the student about a change to their booking.
func (s *DefaultNotificationService) NotifyBooking(ctx context.Context, kind string, appt models.Appointment) error {
	title, body := BookingMessage(kind, appt)
	return s.SendUserPushNotification(ctx, appt.StudentID, title, body, map[string]string{
		"type":          kind,
		"appointmentId": appt.ID,
		"classId":       appt.ClassID,
		"start":         appt.Start.UTC().Format(time.RFC3339),
	})
}

// BookingMessage renders the title and body of a booking push, with times in
// the booking's zone.
func BookingMessage(kind string, appt models.Appointment) (string, string) {
	when := localStart(appt).Format("Mon Jan 2 at 3:04 PM MST")
	switch kind {
	case KindConfirmed:
		return "Booking confirmed", fmt.Sprintf("Your class is booked for %s.", when)
	case KindCancelled:
		body := fmt.Sprintf("Your class on %s was cancelled.", when)
		if appt.RefundID != "" {
			body += " A refund is on its way."
		}
		return "Booking cancelled", body
	case KindRescheduled:
		return "Booking rescheduled", fmt.Sprintf("Your class moved to %s.", when)
	case KindReminder:
		return "Class coming up", fmt.Sprintf("Your class starts %s. Last chance to reschedule or cancel.", when)
	}
	return "Booking update", fmt.Sprintf("Your class on %s was updated.", when)
}

func localStart(appt models.Appointment) time.Time {
	if appt.Timezone != "" {
		if loc, err := time.LoadLocation(appt.Timezone); err == nil {
			return appt.Start.In(loc)
		}
	}
	return appt.Start
}
