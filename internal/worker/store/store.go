package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/wandura/internal/database"
	"github.com/MrJamesThe3rd/wandura/internal/worker"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectProfileColumns = `
	p.user_id, u.name, p.skill, p.daily_rate, p.hourly_rate, p.experience, p.bio, p.city,
	p.is_available, p.total_earnings, p.wallet_balance, p.rating, p.total_reviews,
	p.created_at, p.updated_at
`

func scanProfile(s scanner) (*worker.Profile, error) {
	var (
		p     worker.Profile
		skill string
	)

	if err := s.Scan(
		&p.UserID, &p.Name, &skill, &p.DailyRate, &p.HourlyRate, &p.Experience, &p.Bio, &p.City,
		&p.IsAvailable, &p.TotalEarnings, &p.WalletBalance, &p.Rating, &p.TotalReviews,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.Skill = worker.Skill(skill)

	return &p, nil
}

func (s *Store) GetProfile(ctx context.Context, userID uuid.UUID) (*worker.Profile, error) {
	query := `SELECT ` + selectProfileColumns + `
		FROM worker_profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1`

	p, err := scanProfile(s.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, worker.ErrNotFound
		}

		return nil, fmt.Errorf("getting worker profile: %w", err)
	}

	return p, nil
}

func (s *Store) SetAvailability(ctx context.Context, userID uuid.UUID, available bool) (*worker.Profile, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE worker_profiles SET is_available = $1, updated_at = NOW() WHERE user_id = $2`,
		available, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating availability: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking rows affected: %w", err)
	}

	if n == 0 {
		return nil, worker.ErrNotFound
	}

	return s.GetProfile(ctx, userID)
}

// Credit adds earning to the worker's total earnings and wallet balance as a
// relative increment, so concurrent credits never overwrite each other.
func Credit(ctx context.Context, q database.Querier, userID uuid.UUID, earning int64) error {
	res, err := q.ExecContext(ctx, `
		UPDATE worker_profiles
		SET total_earnings = total_earnings + $1,
		    wallet_balance = wallet_balance + $1,
		    updated_at = NOW()
		WHERE user_id = $2`,
		earning, userID,
	)
	if err != nil {
		return fmt.Errorf("crediting worker: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}

	if n == 0 {
		return fmt.Errorf("crediting worker %s: %w", userID, worker.ErrNotFound)
	}

	return nil
}

// RecomputeRating sets the worker's rating to the mean of all reviews they
// received and refreshes the review count.
func RecomputeRating(ctx context.Context, q database.Querier, userID uuid.UUID) error {
	_, err := q.ExecContext(ctx, `
		UPDATE worker_profiles p
		SET rating = r.avg_rating,
		    total_reviews = r.review_count,
		    updated_at = NOW()
		FROM (
			SELECT COALESCE(AVG(rating), 0)::DOUBLE PRECISION AS avg_rating, COUNT(*) AS review_count
			FROM reviews
			WHERE recipient_id = $1
		) r
		WHERE p.user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("recomputing rating: %w", err)
	}

	return nil
}
