package models

import "time"

// ReminderPayload is the body of a scheduled reminder task. Start lets the
// worker drop reminders made stale by a reschedule.
type ReminderPayload struct {
	AppointmentID string    `json:"appointmentId"`
	StudentID     string    `json:"studentId"`
	Start         time.Time `json:"start"`
}
