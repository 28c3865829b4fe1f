// Package events publishes domain events to a topic exchange. Publishing is
// best effort and never blocks the request that produced the event.
package events

import (
	"context"
	"log/slog"
	"time"
)

const (
	BookingCreated    = "booking.created"
	BookingAccepted   = "booking.accepted"
	BookingRejected   = "booking.rejected"
	BookingInProgress = "booking.in_progress"
	BookingCompleted  = "booking.completed"
	BookingCancelled  = "booking.cancelled"
	PaymentSucceeded  = "payment.succeeded"
	PaymentFailed     = "payment.failed"
)

type Publisher interface {
	Publish(ctx context.Context, key string, v any) error
}

type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }

const emitTimeout = 3 * time.Second

// Emit publishes v and logs any failure instead of returning it. The publish
// is detached from ctx cancellation so an event raised at the end of a request
// still goes out.
func Emit(ctx context.Context, p Publisher, key string, v any) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), emitTimeout)
	defer cancel()

	if err := p.Publish(ctx, key, v); err != nil {
		slog.Warn("failed to publish event", "key", key, "error", err)
	}
}
