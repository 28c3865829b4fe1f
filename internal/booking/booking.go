package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/wandura/internal/apperr"
	"github.com/MrJamesThe3rd/wandura/internal/worker"
)

var (
	ErrNotFound        = fmt.Errorf("booking %w", apperr.ErrNotFound)
	ErrProjectNotFound = fmt.Errorf("project %w", apperr.ErrNotFound)

	// ErrConflict is returned when the booking changed status between being
	// read and being updated.
	ErrConflict = fmt.Errorf("%w: booking status changed concurrently", apperr.ErrValidation)
)

// PaymentStatus tracks settlement and only moves through the payment handler.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

type Location struct {
	Address string
	City    string
	State   string
	ZipCode string
}

// Booking is an engagement of one worker by one customer over a date range.
// The monetary fields are fixed when the booking is created.
type Booking struct {
	ID            uuid.UUID
	CustomerID    uuid.UUID
	WorkerID      uuid.UUID
	ProjectID     *uuid.UUID
	Skill         worker.Skill
	StartDate     time.Time
	EndDate       time.Time
	TotalDays     int
	RatePerDay    int64 // cents
	TotalAmount   int64 // cents
	Commission    int64 // cents
	Description   string
	Location      Location
	Status        Status
	PaymentStatus PaymentStatus
	PaymentRef    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (b *Booking) WorkerEarning() int64 {
	return b.TotalAmount - b.Commission
}

func (b *Booking) IsParticipant(userID uuid.UUID) bool {
	return userID == b.CustomerID || userID == b.WorkerID
}

// Counterpart returns the other participant of the booking.
func (b *Booking) Counterpart(userID uuid.UUID) uuid.UUID {
	if userID == b.CustomerID {
		return b.WorkerID
	}

	return b.CustomerID
}
