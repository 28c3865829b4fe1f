package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/wandura/internal/booking"
	bookingStore "github.com/MrJamesThe3rd/wandura/internal/booking/store"
	"github.com/MrJamesThe3rd/wandura/internal/notification"
	notificationStore "github.com/MrJamesThe3rd/wandura/internal/notification/store"
	"github.com/MrJamesThe3rd/wandura/internal/review"
	workerStore "github.com/MrJamesThe3rd/wandura/internal/worker/store"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return bookingStore.Get(ctx, s.db, id, false)
}

func (s *Store) CreateReview(ctx context.Context, r *review.Review, n *notification.Notification) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO reviews (booking_id, author_id, recipient_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err = dbTx.QueryRowContext(ctx, query,
		r.BookingID,
		r.AuthorID,
		r.RecipientID,
		r.Rating,
		r.Comment,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return review.ErrDuplicate
		}

		return fmt.Errorf("inserting review: %w", err)
	}

	// Recipients without a worker profile are left untouched.
	if err := workerStore.RecomputeRating(ctx, dbTx, r.RecipientID); err != nil {
		return err
	}

	if err := notificationStore.Insert(ctx, dbTx, n); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}
