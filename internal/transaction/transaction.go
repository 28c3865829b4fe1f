package transaction

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/wandura/internal/apperr"
)

// Type classifies a ledger entry.
type Type string

const (
	TypeBookingPayment Type = "BOOKING_PAYMENT"
	TypeCommission     Type = "COMMISSION"
	TypeOther          Type = "OTHER"
)

// Status represents the lifecycle state of a ledger entry.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

var ErrNotFound = fmt.Errorf("transaction %w", apperr.ErrNotFound)

// Transaction is a ledger entry owned by a single user.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Type        Type
	Amount      int64 // Amount in cents, negative for deductions
	Status      Status
	Description string
	BookingID   *uuid.UUID
	ExternalRef string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
