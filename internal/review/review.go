package review

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/wandura/internal/apperr"
)

// ErrDuplicate is returned when the author already reviewed the booking.
var ErrDuplicate = fmt.Errorf("%w: booking already reviewed", apperr.ErrValidation)

type Review struct {
	ID          uuid.UUID
	BookingID   uuid.UUID
	AuthorID    uuid.UUID
	RecipientID uuid.UUID
	Rating      int
	Comment     string
	CreatedAt   time.Time
}
