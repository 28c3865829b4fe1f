package review

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/wandura/internal/apperr"
	"github.com/MrJamesThe3rd/wandura/internal/auth"
	"github.com/MrJamesThe3rd/wandura/internal/booking"
	"github.com/MrJamesThe3rd/wandura/internal/notification"
	"github.com/MrJamesThe3rd/wandura/internal/validate"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=review
type Repository interface {
	GetBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// CreateReview stores r and n and refreshes the recipient's average
	// rating in one database transaction.
	CreateReview(ctx context.Context, r *Review, n *notification.Notification) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	BookingID uuid.UUID `validate:"required"`
	Rating    int       `validate:"min=1,max=5"`
	Comment   string    `validate:"max=2000"`
}

// Create records a review by one booking participant about the other once
// the booking is completed.
func (s *Service) Create(ctx context.Context, caller auth.Identity, params CreateParams) (*Review, error) {
	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	b, err := s.repo.GetBooking(ctx, params.BookingID)
	if err != nil {
		return nil, err
	}

	if !b.IsParticipant(caller.UserID) {
		return nil, apperr.Authorization("not a participant of booking %s", b.ID)
	}

	if b.Status != booking.StatusCompleted {
		return nil, apperr.Validation("booking %s is %s, only completed bookings can be reviewed", b.ID, b.Status)
	}

	r := &Review{
		BookingID:   b.ID,
		AuthorID:    caller.UserID,
		RecipientID: b.Counterpart(caller.UserID),
		Rating:      params.Rating,
		Comment:     params.Comment,
	}

	if err := s.repo.CreateReview(ctx, r, notification.ReviewReceived(r.RecipientID, r.Rating)); err != nil {
		return nil, fmt.Errorf("creating review: %w", err)
	}

	slog.Info("review created", "review_id", r.ID, "booking_id", b.ID, "rating", r.Rating)

	return r, nil
}
