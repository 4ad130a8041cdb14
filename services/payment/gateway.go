package payment

import (
	"context"
	"errors"

	"pocketclass/models"
)

// ErrNotConfigured is returned by gateways that were built without credentials.
var ErrNotConfigured = errors.New("payment gateway not configured")

// Gateway charges and refunds card bookings.
type Gateway interface {
	CreateIntent(ctx context.Context, req models.PaymentRequest) (*models.PaymentIntent, error)
	GetIntent(ctx context.Context, id string) (*models.PaymentIntent, error)
	CancelIntent(ctx context.Context, id string) error
	// Refund returns amount (minor units) of a succeeded intent. Calls with the
	// same idempotency key produce one refund.
	Refund(ctx context.Context, intentID string, amount int64, idempotencyKey string) (*models.Refund, error)
}
