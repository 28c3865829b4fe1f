package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/wandura/internal/apperr"
)

// Gateway event types handled by settlement. Anything else is acknowledged
// and ignored.
const (
	EventSucceeded = "payment_intent.succeeded"
	EventFailed    = "payment_intent.payment_failed"
)

const IntentSucceeded = "succeeded"

// ErrAlreadyPaid is returned when a payment is requested for a booking whose
// payment has already completed.
var ErrAlreadyPaid = fmt.Errorf("%w: booking already paid", apperr.ErrValidation)

// ErrVerificationTimeout is returned when the gateway could not be consulted in
// time. The event is refused so the gateway delivers it again.
var ErrVerificationTimeout = fmt.Errorf("gateway verification timed out: %w", apperr.ErrUnavailable)

type IntentParams struct {
	Amount     int64 // cents
	Currency   string
	BookingID  uuid.UUID
	CustomerID uuid.UUID
	WorkerID   uuid.UUID
}

type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
}

// Event is a verified gateway callback about a payment intent.
type Event struct {
	ID           string
	Type         string
	IntentID     string
	IntentStatus string
	Amount       int64
	// BookingID is the raw metadata value; it is not trusted to be a UUID.
	BookingID string
}

//go:generate mockgen -source=payment.go -destination=gateway_mock.go -package=payment
type Gateway interface {
	CreateIntent(ctx context.Context, params IntentParams) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
	// ParseEvent verifies signature over payload with the shared webhook
	// secret and decodes the event.
	ParseEvent(ctx context.Context, payload []byte, signature string) (*Event, error)
}
