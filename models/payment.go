package models

import "time"

// PaymentRequest describes a card charge for one appointment.
type PaymentRequest struct {
	StudentID      string
	Amount         int64 // minor units
	Currency       string
	IdempotencyKey string
	Metadata       map[string]string
	Description    string
}

// PaymentIntent is the gateway's view of a charge.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret,omitempty"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// Refund is the gateway's view of a refund.
type Refund struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}

// Payment intent statuses the booking flow cares about.
const (
	PaymentSucceeded = "succeeded"
)
