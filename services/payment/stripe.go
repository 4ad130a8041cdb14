package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pocketclass/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeGateway implements Gateway with Stripe PaymentIntents.
type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(secretKey string) *StripeGateway {
	return &StripeGateway{api: client.New(secretKey, nil)}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, req models.PaymentRequest) (*models.PaymentIntent, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("invalid amount %d", req.Amount)
	}
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(req.Amount),
		Currency:    stripe.String(strings.ToLower(req.Currency)),
		Description: stripe.String(req.Description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.IdempotencyKey = stripe.String(req.IdempotencyKey)
	}
	params.AddMetadata("studentId", req.StudentID)
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create payment intent: %w", err)
	}
	return toIntent(pi), nil
}

func (g *StripeGateway) GetIntent(ctx context.Context, id string) (*models.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := g.api.PaymentIntents.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: get payment intent %s: %w", id, err)
	}
	return toIntent(pi), nil
}

func (g *StripeGateway) CancelIntent(ctx context.Context, id string) error {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx
	if _, err := g.api.PaymentIntents.Cancel(id, params); err != nil {
		return fmt.Errorf("stripe: cancel payment intent %s: %w", id, err)
	}
	return nil
}

func (g *StripeGateway) Refund(ctx context.Context, intentID string, amount int64, idempotencyKey string) (*models.Refund, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(intentID),
		Reason:        stripe.String(string(stripe.RefundReasonRequestedByCustomer)),
	}
	if amount > 0 {
		params.Amount = stripe.Int64(amount)
	}
	params.Context = ctx
	if idempotencyKey != "" {
		params.IdempotencyKey = stripe.String(idempotencyKey)
	}

	r, err := g.api.Refunds.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: refund %s: %w", intentID, err)
	}
	return &models.Refund{
		ID:        r.ID,
		Status:    string(r.Status),
		Amount:    r.Amount,
		CreatedAt: time.Unix(r.Created, 0).UTC(),
	}, nil
}

func toIntent(pi *stripe.PaymentIntent) *models.PaymentIntent {
	return &models.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Amount:       pi.Amount,
		Currency:     strings.ToUpper(string(pi.Currency)),
	}
}

// DisabledGateway rejects every call; it is used when no Stripe key is set so
// package bookings keep working.
type DisabledGateway struct{}

func (DisabledGateway) CreateIntent(context.Context, models.PaymentRequest) (*models.PaymentIntent, error) {
	return nil, ErrNotConfigured
}

func (DisabledGateway) GetIntent(context.Context, string) (*models.PaymentIntent, error) {
	return nil, ErrNotConfigured
}

func (DisabledGateway) CancelIntent(context.Context, string) error {
	return ErrNotConfigured
}

func (DisabledGateway) Refund(context.Context, string, int64, string) (*models.Refund, error) {
	return nil, ErrNotConfigured
}
