// Package stripe adapts Stripe payment intents and signed webhooks to the
// payment.Gateway interface.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/MrJamesThe3rd/wandura/internal/payment"
)

const (
	MetaBookingID  = "booking_id"
	MetaCustomerID = "customer_id"
	MetaWorkerID   = "worker_id"
)

type Gateway struct {
	intents       *paymentintent.Client
	webhookSecret string
}

func New(secretKey, webhookSecret string) *Gateway {
	return NewWithBackend(stripe.GetBackend(stripe.APIBackend), secretKey, webhookSecret)
}

// NewWithBackend lets tests point the client at a fake API backend.
func NewWithBackend(b stripe.Backend, secretKey, webhookSecret string) *Gateway {
	return &Gateway{
		intents:       &paymentintent.Client{B: b, Key: secretKey},
		webhookSecret: webhookSecret,
	}
}

func (g *Gateway) CreateIntent(ctx context.Context, p payment.IntentParams) (*payment.Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(p.Amount),
		Currency: stripe.String(p.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata(MetaBookingID, p.BookingID.String())
	params.AddMetadata(MetaCustomerID, p.CustomerID.String())
	params.AddMetadata(MetaWorkerID, p.WorkerID.String())
	// Retried creates for the same booking and amount return the same intent.
	params.SetIdempotencyKey(fmt.Sprintf("booking-%s-%d", p.BookingID, p.Amount))

	pi, err := g.intents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create intent: %w", err)
	}

	return toIntent(pi), nil
}

func (g *Gateway) GetIntent(ctx context.Context, id string) (*payment.Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := g.intents.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("stripe get intent %s: %w", id, err)
	}

	return toIntent(pi), nil
}

// ParseEvent checks the Stripe-Signature header against the webhook secret
// and decodes payment intent events.
func (g *Gateway) ParseEvent(ctx context.Context, payload []byte, signature string) (*payment.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ev, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		Tolerance:                webhook.DefaultTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("verifying stripe signature: %w", err)
	}

	out := &payment.Event{ID: ev.ID, Type: string(ev.Type)}

	if out.Type != payment.EventSucceeded && out.Type != payment.EventFailed {
		return out, nil
	}

	if ev.Data == nil {
		return nil, fmt.Errorf("stripe event %s has no data", ev.ID)
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(ev.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("decoding payment intent: %w", err)
	}

	out.IntentID = pi.ID
	out.IntentStatus = string(pi.Status)
	out.Amount = pi.Amount
	out.BookingID = pi.Metadata[MetaBookingID]

	return out, nil
}

func toIntent(pi *stripe.PaymentIntent) *payment.Intent {
	return &payment.Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Amount:       pi.Amount,
	}
}

var _ payment.Gateway = (*Gateway)(nil)
