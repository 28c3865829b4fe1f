package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/wandura/internal/booking"
	"github.com/MrJamesThe3rd/wandura/internal/database"
	"github.com/MrJamesThe3rd/wandura/internal/notification"
	notificationStore "github.com/MrJamesThe3rd/wandura/internal/notification/store"
	"github.com/MrJamesThe3rd/wandura/internal/worker"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectBookingColumns = `
	id, customer_id, worker_id, project_id, skill, start_date, end_date, total_days,
	rate_per_day, total_amount, commission, description, address, city, state, zip_code,
	status, payment_status, payment_ref, created_at, updated_at
`

// Expected column order matches selectBookingColumns.
func scanBooking(s scanner) (*booking.Booking, error) {
	var (
		b                        booking.Booking
		skill, status, payStatus string
		paymentRef               sql.NullString
	)

	if err := s.Scan(
		&b.ID, &b.CustomerID, &b.WorkerID, &b.ProjectID, &skill, &b.StartDate, &b.EndDate, &b.TotalDays,
		&b.RatePerDay, &b.TotalAmount, &b.Commission, &b.Description,
		&b.Location.Address, &b.Location.City, &b.Location.State, &b.Location.ZipCode,
		&status, &payStatus, &paymentRef, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}

	b.Skill = worker.Skill(skill)
	b.Status = booking.Status(status)
	b.PaymentStatus = booking.PaymentStatus(payStatus)
	b.PaymentRef = paymentRef.String

	return &b, nil
}

func (s *Store) CreateBooking(ctx context.Context, b *booking.Booking, n *notification.Notification) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO bookings (
			id, customer_id, worker_id, project_id, skill, start_date, end_date, total_days,
			rate_per_day, total_amount, commission, description, address, city, state, zip_code,
			status, payment_status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err = dbTx.QueryRowContext(ctx, query,
		b.ID,
		b.CustomerID,
		b.WorkerID,
		b.ProjectID,
		b.Skill,
		b.StartDate,
		b.EndDate,
		b.TotalDays,
		b.RatePerDay,
		b.TotalAmount,
		b.Commission,
		b.Description,
		b.Location.Address,
		b.Location.City,
		b.Location.State,
		b.Location.ZipCode,
		b.Status,
		b.PaymentStatus,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting booking: %w", err)
	}

	if err := notificationStore.Insert(ctx, dbTx, n); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) GetBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return Get(ctx, s.db, id, false)
}

func (s *Store) ProjectOwner(ctx context.Context, projectID uuid.UUID) (uuid.UUID, error) {
	var owner uuid.UUID

	err := s.db.QueryRowContext(ctx, `SELECT owner_id FROM projects WHERE id = $1`, projectID).Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, booking.ErrProjectNotFound
		}

		return uuid.Nil, fmt.Errorf("getting project owner: %w", err)
	}

	return owner, nil
}

// Get loads a booking through q. With forUpdate the row stays locked until
// q's transaction ends.
func Get(ctx context.Context, q database.Querier, id uuid.UUID, forUpdate bool) (*booking.Booking, error) {
	query := `SELECT ` + selectBookingColumns + ` FROM bookings WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	b, err := scanBooking(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrNotFound
		}

		return nil, fmt.Errorf("getting booking: %w", err)
	}

	return b, nil
}

func (s *Store) ListBookings(ctx context.Context, filter booking.ListFilter) ([]*booking.Booking, error) {
	query := `SELECT ` + selectBookingColumns + ` FROM bookings WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.CustomerID != nil {
		query += fmt.Sprintf(" AND customer_id = $%d", argIdx)

		args = append(args, *filter.CustomerID)
		argIdx++
	}

	if filter.WorkerID != nil {
		query += fmt.Sprintf(" AND worker_id = $%d", argIdx)

		args = append(args, *filter.WorkerID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
	}

	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}
	defer rows.Close()

	var list []*booking.Booking

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning booking: %w", err)
		}

		list = append(list, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bookings: %w", err)
	}

	return list, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, from, to booking.Status, n *notification.Notification) (*booking.Booking, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		UPDATE bookings
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING ` + selectBookingColumns

	b, err := scanBooking(dbTx.QueryRowContext(ctx, query, to, id, from))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrConflict
		}

		return nil, fmt.Errorf("updating booking status: %w", err)
	}

	if err := notificationStore.Insert(ctx, dbTx, n); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return b, nil
}
