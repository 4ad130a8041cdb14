package models

import "time"

// CheckoutRequest is a student's request to book one slot.
type CheckoutRequest struct {
	ClassID   string    `json:"classId" binding:"required"`
	Start     time.Time `json:"start" binding:"required"`
	Seats     int       `json:"seats"`
	PackageID string    `json:"packageId,omitempty"`
	StudentID string    `json:"-"`
}

// PendingCheckout holds a not yet confirmed appointment between payment
// creation and confirmation.
type PendingCheckout struct {
	ID           string      `json:"id"`
	Appointment  Appointment `json:"appointment"`
	ClientSecret string      `json:"clientSecret,omitempty"`
	ExpiresAt    time.Time   `json:"expiresAt"`
}

// RescheduleRequest moves an appointment to a new start.
type RescheduleRequest struct {
	Start time.Time `json:"start" binding:"required"`
}
