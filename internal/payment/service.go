package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/wandura/internal/apperr"
	"github.com/MrJamesThe3rd/wandura/internal/auth"
	"github.com/MrJamesThe3rd/wandura/internal/booking"
	"github.com/MrJamesThe3rd/wandura/internal/events"
	"github.com/MrJamesThe3rd/wandura/internal/lock"
	"github.com/MrJamesThe3rd/wandura/internal/notification"
	"github.com/MrJamesThe3rd/wandura/internal/pricing"
	"github.com/MrJamesThe3rd/wandura/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=payment
type Repository interface {
	GetBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// RecordIntent stores ref on the booking and appends entry in one
	// database transaction.
	RecordIntent(ctx context.Context, bookingID uuid.UUID, ref string, entry *transaction.Transaction) error
	BeginSettlement(ctx context.Context) (SettlementTx, error)
}

// SettlementTx applies one gateway event atomically.
type SettlementTx interface {
	// LockBooking reads the booking and holds its row lock until the
	// transaction ends.
	LockBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// MarkEventProcessed records eventID and reports false if it was
	// already recorded.
	MarkEventProcessed(ctx context.Context, eventID, eventType string) (bool, error)
	SetPaymentStatus(ctx context.Context, bookingID uuid.UUID, status booking.PaymentStatus, ref string) error
	// UpdatePaymentTransaction moves the non-completed booking payment entry
	// for ref to status and returns how many entries changed.
	UpdatePaymentTransaction(ctx context.Context, ref string, status transaction.Status) (int64, error)
	CreateTransaction(ctx context.Context, tx *transaction.Transaction) error
	CreditWorker(ctx context.Context, workerID uuid.UUID, earning int64) error
	CreateNotification(ctx context.Context, n *notification.Notification) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo    Repository
	gateway Gateway
	calc    *pricing.Calculator
	locker  lock.Locker
	events  events.Publisher

	currency      string
	verifyTimeout time.Duration
	confirm       bool
}

type Option func(*Service)

func WithLocker(l lock.Locker) Option {
	return func(s *Service) { s.locker = l }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.events = p }
}

func WithCurrency(currency string) Option {
	return func(s *Service) { s.currency = currency }
}

func WithVerifyTimeout(d time.Duration) Option {
	return func(s *Service) { s.verifyTimeout = d }
}

// WithConfirmation makes settlement re-read each intent from the gateway and
// drop events whose outcome the gateway does not confirm.
func WithConfirmation(confirm bool) Option {
	return func(s *Service) { s.confirm = confirm }
}

func NewService(repo Repository, gateway Gateway, calc *pricing.Calculator, opts ...Option) *Service {
	s := &Service{
		repo:          repo,
		gateway:       gateway,
		calc:          calc,
		locker:        lock.Nop{},
		events:        events.Nop{},
		currency:      "usd",
		verifyTimeout: 5 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreateIntent opens a gateway payment for the booking's stored total and
// records a PENDING ledger entry for the customer.
func (s *Service) CreateIntent(ctx context.Context, caller auth.Identity, bookingID uuid.UUID) (*Intent, error) {
	if !caller.Is(auth.RoleCustomer) {
		return nil, apperr.Authorization("only customers can pay for bookings")
	}

	b, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.CustomerID != caller.UserID {
		return nil, apperr.Authorization("booking %s belongs to another customer", bookingID)
	}

	switch {
	case b.PaymentStatus == booking.PaymentCompleted:
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrAlreadyPaid)
	case b.Status == booking.StatusRejected || b.Status == booking.StatusCancelled:
		return nil, apperr.Validation("booking %s is %s", bookingID, b.Status)
	}

	intent, err := s.gateway.CreateIntent(ctx, IntentParams{
		Amount:     b.TotalAmount,
		Currency:   s.currency,
		BookingID:  b.ID,
		CustomerID: b.CustomerID,
		WorkerID:   b.WorkerID,
	})
	if err != nil {
		return nil, fmt.Errorf("creating payment intent: %w", err)
	}

	entry := &transaction.Transaction{
		UserID:      b.CustomerID,
		Type:        transaction.TypeBookingPayment,
		Amount:      b.TotalAmount,
		Status:      transaction.StatusPending,
		Description: "Payment for booking",
		BookingID:   &b.ID,
		ExternalRef: intent.ID,
	}

	if err := s.repo.RecordIntent(ctx, b.ID, intent.ID, entry); err != nil {
		return nil, fmt.Errorf("recording payment intent: %w", err)
	}

	slog.Info("payment intent created", "booking_id", b.ID, "intent_id", intent.ID, "amount", b.TotalAmount)

	return intent, nil
}

// SettlementEvent is the payload published after a settlement commits.
type SettlementEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	IntentID   string    `json:"intent_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	WorkerID   uuid.UUID `json:"worker_id"`
	Amount     int64     `json:"amount"`
	Commission int64     `json:"commission"`
	OccurredAt time.Time `json:"occurred_at"`
}

// HandleEvent verifies and applies a gateway callback. A nil error means the
// event may be acknowledged, including events that are ignored. Any error
// leaves the store untouched.
func (s *Service) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	event, err := s.verify(ctx, payload, signature)
	if err != nil {
		return err
	}

	if event == nil {
		return nil
	}

	log := slog.With("event_id", event.ID, "event_type", event.Type, "intent_id", event.IntentID)

	bookingID, err := uuid.Parse(event.BookingID)
	if err != nil {
		log.Warn("dropping gateway event without booking reference", "booking_ref", event.BookingID)
		return nil
	}

	release, err := s.locker.Lock(ctx, "settlement:"+event.IntentID)
	if err != nil {
		return fmt.Errorf("locking settlement: %w", err)
	}
	defer release()

	stx, err := s.repo.BeginSettlement(ctx)
	if err != nil {
		return fmt.Errorf("begin settlement: %w", err)
	}
	defer stx.Rollback()

	b, err := stx.LockBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			log.Warn("dropping gateway event for unknown booking", "booking_id", bookingID)
			return nil
		}

		return fmt.Errorf("locking booking: %w", err)
	}

	fresh, err := stx.MarkEventProcessed(ctx, event.ID, event.Type)
	if err != nil {
		return fmt.Errorf("marking event processed: %w", err)
	}

	if !fresh {
		log.Info("skipping already processed gateway event")
		return nil
	}

	var (
		applied bool
		key     string
	)

	switch event.Type {
	case EventSucceeded:
		key = events.PaymentSucceeded
		applied, err = s.settleSucceeded(ctx, stx, b, event)
	case EventFailed:
		key = events.PaymentFailed
		applied, err = s.settleFailed(ctx, stx, b, event)
	}

	if err != nil {
		return err
	}

	if err := stx.Commit(); err != nil {
		return fmt.Errorf("commit settlement: %w", err)
	}

	if !applied {
		log.Info("gateway event left booking unchanged", "booking_id", b.ID, "payment_status", b.PaymentStatus)
		return nil
	}

	log.Info("settlement applied", "booking_id", b.ID)

	events.Emit(ctx, s.events, key, SettlementEvent{
		BookingID:  b.ID,
		IntentID:   event.IntentID,
		CustomerID: b.CustomerID,
		WorkerID:   b.WorkerID,
		Amount:     b.TotalAmount,
		Commission: b.Commission,
		OccurredAt: time.Now().UTC(),
	})

	return nil
}

// verify authenticates the callback under the verification timeout. It
// returns a nil event for callbacks that need no processing.
func (s *Service) verify(ctx context.Context, payload []byte, signature string) (*Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.verifyTimeout)
	defer cancel()

	event, err := s.gateway.ParseEvent(ctx, payload, signature)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrVerificationTimeout
		}

		return nil, fmt.Errorf("%w: %w", apperr.ErrAuthentication, err)
	}

	if event.Type != EventSucceeded && event.Type != EventFailed {
		slog.Debug("ignoring gateway event", "event_id", event.ID, "event_type", event.Type)
		return nil, nil
	}

	if event.IntentStatus != "" && !statusAgrees(event.Type, event.IntentStatus) {
		slog.Warn("dropping gateway event contradicting its own intent status",
			"event_id", event.ID, "event_type", event.Type, "intent_status", event.IntentStatus)

		return nil, nil
	}

	if !s.confirm {
		return event, nil
	}

	intent, err := s.gateway.GetIntent(ctx, event.IntentID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrVerificationTimeout
		}

		return nil, fmt.Errorf("confirming intent %s: %w: %w", event.IntentID, apperr.ErrUnavailable, err)
	}

	if !statusAgrees(event.Type, intent.Status) {
		slog.Warn("dropping gateway event not confirmed by gateway",
			"event_id", event.ID, "event_type", event.Type, "intent_status", intent.Status)

		return nil, nil
	}

	return event, nil
}

// statusAgrees reports whether an intent status matches the outcome the event
// type claims.
func statusAgrees(eventType, intentStatus string) bool {
	return (eventType == EventSucceeded) == (intentStatus == IntentSucceeded)
}

func (s *Service) settleSucceeded(ctx context.Context, stx SettlementTx, b *booking.Booking, event *Event) (bool, error) {
	if b.PaymentStatus == booking.PaymentCompleted {
		return false, nil
	}

	if event.Amount != 0 && event.Amount != b.TotalAmount {
		slog.Warn("gateway amount differs from booking total",
			"booking_id", b.ID, "gateway_amount", event.Amount, "total_amount", b.TotalAmount)
	}

	if err := stx.SetPaymentStatus(ctx, b.ID, booking.PaymentCompleted, event.IntentID); err != nil {
		return false, fmt.Errorf("setting payment status: %w", err)
	}

	updated, err := stx.UpdatePaymentTransaction(ctx, event.IntentID, transaction.StatusCompleted)
	if err != nil {
		return false, fmt.Errorf("completing payment transaction: %w", err)
	}

	if updated == 0 {
		err := stx.CreateTransaction(ctx, &transaction.Transaction{
			UserID:      b.CustomerID,
			Type:        transaction.TypeBookingPayment,
			Amount:      b.TotalAmount,
			Status:      transaction.StatusCompleted,
			Description: "Payment for booking",
			BookingID:   &b.ID,
			ExternalRef: event.IntentID,
		})
		if err != nil {
			return false, fmt.Errorf("creating payment transaction: %w", err)
		}
	}

	// The commission stored at creation is what the customer agreed to.
	if current, _ := s.calc.Split(b.TotalAmount); current != b.Commission {
		slog.Warn("stored commission differs from current rate",
			"booking_id", b.ID, "stored", b.Commission, "current", current, "rate", s.calc.Rate())
	}

	commission := b.Commission
	earning := b.WorkerEarning()

	if err := stx.CreditWorker(ctx, b.WorkerID, earning); err != nil {
		return false, fmt.Errorf("crediting worker: %w", err)
	}

	err = stx.CreateTransaction(ctx, &transaction.Transaction{
		UserID:      b.WorkerID,
		Type:        transaction.TypeCommission,
		Amount:      -commission,
		Status:      transaction.StatusCompleted,
		Description: "Platform commission",
		BookingID:   &b.ID,
	})
	if err != nil {
		return false, fmt.Errorf("creating commission transaction: %w", err)
	}

	notices := []*notification.Notification{
		notification.PaymentSucceeded(b.CustomerID, b.ID, b.TotalAmount),
		notification.PaymentReceived(b.WorkerID, earning),
	}

	for _, n := range notices {
		if err := stx.CreateNotification(ctx, n); err != nil {
			return false, fmt.Errorf("creating notification: %w", err)
		}
	}

	return true, nil
}

func (s *Service) settleFailed(ctx context.Context, stx SettlementTx, b *booking.Booking, event *Event) (bool, error) {
	switch {
	case b.PaymentStatus == booking.PaymentCompleted:
		return false, nil
	case b.PaymentStatus == booking.PaymentFailed && b.PaymentRef == event.IntentID:
		return false, nil
	}

	if err := stx.SetPaymentStatus(ctx, b.ID, booking.PaymentFailed, event.IntentID); err != nil {
		return false, fmt.Errorf("setting payment status: %w", err)
	}

	if _, err := stx.UpdatePaymentTransaction(ctx, event.IntentID, transaction.StatusFailed); err != nil {
		return false, fmt.Errorf("failing payment transaction: %w", err)
	}

	if err := stx.CreateNotification(ctx, notification.PaymentFailed(b.CustomerID, b.ID)); err != nil {
		return false, fmt.Errorf("creating notification: %w", err)
	}

	return true, nil
}
