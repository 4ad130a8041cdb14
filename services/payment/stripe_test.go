package payment

import (
	"context"
	"errors"
	"testing"

	"pocketclass/models"

	"github.com/stripe/stripe-go/v76"
)

func TestToIntent(t *testing.T) {
	pi := &stripe.PaymentIntent{
		ID:           "pi_1",
		ClientSecret: "pi_1_secret",
		Status:       stripe.PaymentIntentStatusSucceeded,
		Amount:       4500,
		Currency:     stripe.CurrencyCAD,
	}
	got := toIntent(pi)
	if got.Status != models.PaymentSucceeded {
		t.Fatalf("unexpected status %q", got.Status)
	}
	if got.Currency != "CAD" || got.Amount != 4500 || got.ClientSecret != "pi_1_secret" {
		t.Fatalf("unexpected intent %+v", got)
	}
}

func TestCreateIntentRejectsNonPositiveAmount(t *testing.T) {
	g := NewStripeGateway("sk_test_unused")
	if _, err := g.CreateIntent(context.Background(), models.PaymentRequest{Amount: 0, Currency: "cad"}); err == nil {
		t.Fatal("expected error for zero amount")
	}
}

func TestDisabledGateway(t *testing.T) {
	var g Gateway = DisabledGateway{}
	if _, err := g.CreateIntent(context.Background(), models.PaymentRequest{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if err := g.CancelIntent(context.Background(), "pi"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
