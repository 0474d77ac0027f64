package gateway

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/notenexus/note-nexus-api/pkg/config"
)

// PaymentIntent is the gateway-side staged payment. The client secret is
// handed to the browser for confirmation; funds move only after the
// client-side confirm.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
}

// PaymentGateway creates card payment intents. Amounts are in the
// currency's smallest unit.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (*PaymentIntent, error)
}

// StripeGateway implements PaymentGateway against the Stripe API.
type StripeGateway struct {
	api *client.API
}

// NewStripeGateway constructs a Stripe-backed gateway.
func NewStripeGateway(cfg config.StripeConfig) *StripeGateway {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &StripeGateway{api: api}
}

// CreateIntent stages a card payment for the given amount.
func (g *StripeGateway) CreateIntent(ctx context.Context, amount int64, currency string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Params:             stripe.Params{Context: ctx},
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	return &PaymentIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}
