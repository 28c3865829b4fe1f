package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/wandura/internal/booking"
	bookingStore "github.com/MrJamesThe3rd/wandura/internal/booking/store"
	"github.com/MrJamesThe3rd/wandura/internal/notification"
	notificationStore "github.com/MrJamesThe3rd/wandura/internal/notification/store"
	"github.com/MrJamesThe3rd/wandura/internal/payment"
	"github.com/MrJamesThe3rd/wandura/internal/transaction"
	transactionStore "github.com/MrJamesThe3rd/wandura/internal/transaction/store"
	workerStore "github.com/MrJamesThe3rd/wandura/internal/worker/store"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return bookingStore.Get(ctx, s.db, id, false)
}

// RecordIntent points the booking at ref and adds the PENDING ledger entry
// unless one already exists for ref. The booking row is locked so a
// settlement committing during the gateway call is observed.
func (s *Store) RecordIntent(ctx context.Context, bookingID uuid.UUID, ref string, entry *transaction.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	b, err := bookingStore.Get(ctx, dbTx, bookingID, true)
	if err != nil {
		return err
	}

	if b.PaymentStatus == booking.PaymentCompleted {
		return payment.ErrAlreadyPaid
	}

	_, err = dbTx.ExecContext(ctx,
		`UPDATE bookings SET payment_ref = $1, updated_at = NOW() WHERE id = $2 AND payment_status <> $3`,
		ref, bookingID, booking.PaymentCompleted,
	)
	if err != nil {
		return fmt.Errorf("storing payment reference: %w", err)
	}

	var exists bool

	err = dbTx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM transactions WHERE external_ref = $1 AND type = $2)`,
		ref, transaction.TypeBookingPayment,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking payment transaction: %w", err)
	}

	if !exists {
		if err := transactionStore.Insert(ctx, dbTx, entry); err != nil {
			return err
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

type settlementTx struct {
	tx *sql.Tx
}

func (s *Store) BeginSettlement(ctx context.Context) (payment.SettlementTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning settlement tx: %w", err)
	}

	return &settlementTx{tx: dbTx}, nil
}

func (stx *settlementTx) Commit() error   { return stx.tx.Commit() }
func (stx *settlementTx) Rollback() error { return stx.tx.Rollback() }

func (stx *settlementTx) LockBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return bookingStore.Get(ctx, stx.tx, id, true)
}

func (stx *settlementTx) MarkEventProcessed(ctx context.Context, eventID, eventType string) (bool, error) {
	res, err := stx.tx.ExecContext(ctx,
		`INSERT INTO processed_events (id, type) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		eventID, eventType,
	)
	if err != nil {
		return false, fmt.Errorf("recording processed event: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking rows affected: %w", err)
	}

	return n == 1, nil
}

func (stx *settlementTx) SetPaymentStatus(ctx context.Context, bookingID uuid.UUID, status booking.PaymentStatus, ref string) error {
	_, err := stx.tx.ExecContext(ctx,
		`UPDATE bookings SET payment_status = $1, payment_ref = $2, updated_at = NOW() WHERE id = $3`,
		status, ref, bookingID,
	)
	if err != nil {
		return fmt.Errorf("updating payment status: %w", err)
	}

	return nil
}

func (stx *settlementTx) UpdatePaymentTransaction(ctx context.Context, ref string, status transaction.Status) (int64, error) {
	return transactionStore.UpdatePaymentStatus(ctx, stx.tx, ref, status)
}

func (stx *settlementTx) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	return transactionStore.Insert(ctx, stx.tx, tx)
}

func (stx *settlementTx) CreditWorker(ctx context.Context, workerID uuid.UUID, earning int64) error {
	return workerStore.Credit(ctx, stx.tx, workerID, earning)
}

func (stx *settlementTx) CreateNotification(ctx context.Context, n *notification.Notification) error {
	return notificationStore.Insert(ctx, stx.tx, n)
}
