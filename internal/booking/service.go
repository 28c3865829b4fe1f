package booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/wandura/internal/apperr"
	"github.com/MrJamesThe3rd/wandura/internal/auth"
	"github.com/MrJamesThe3rd/wandura/internal/events"
	"github.com/MrJamesThe3rd/wandura/internal/notification"
	"github.com/MrJamesThe3rd/wandura/internal/pricing"
	"github.com/MrJamesThe3rd/wandura/internal/validate"
	"github.com/MrJamesThe3rd/wandura/internal/worker"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=booking
type Repository interface {
	// CreateBooking stores b together with the notice for the worker.
	CreateBooking(ctx context.Context, b *Booking, n *notification.Notification) error
	GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error)
	// ProjectOwner returns the owner of the project, or ErrProjectNotFound.
	ProjectOwner(ctx context.Context, projectID uuid.UUID) (uuid.UUID, error)
	ListBookings(ctx context.Context, filter ListFilter) ([]*Booking, error)
	// UpdateStatus moves the booking from one status to another and stores n
	// in the same database transaction. It returns ErrConflict when the
	// booking is no longer in from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, n *notification.Notification) (*Booking, error)
}

type Workers interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*worker.Profile, error)
}

type Service struct {
	repo    Repository
	workers Workers
	calc    *pricing.Calculator
	events  events.Publisher
}

func NewService(repo Repository, workers Workers, calc *pricing.Calculator, publisher events.Publisher) *Service {
	return &Service{repo: repo, workers: workers, calc: calc, events: publisher}
}

type CreateParams struct {
	WorkerID    uuid.UUID    `validate:"required"`
	ProjectID   *uuid.UUID   `validate:"omitempty"`
	Skill       worker.Skill `validate:"omitempty,oneof=MASON TILE_LAYER WELDER STEEL_FIXER CARPENTER PLUMBER ELECTRICIAN PAINTER"`
	StartDate   time.Time    `validate:"required"`
	EndDate     time.Time    `validate:"required"`
	Description string       `validate:"max=2000"`
	Address     string       `validate:"required,min=5"`
	City        string       `validate:"required,min=2"`
	State       string       `validate:"required,min=2"`
	ZipCode     string       `validate:"required,min=5"`
}

type ListFilter struct {
	CustomerID *uuid.UUID
	WorkerID   *uuid.UUID
	Status     *Status
}

// Event is the payload published for booking changes.
type Event struct {
	BookingID  uuid.UUID `json:"booking_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	WorkerID   uuid.UUID `json:"worker_id"`
	Status     Status    `json:"status"`
	Amount     int64     `json:"total_amount"`
	OccurredAt time.Time `json:"occurred_at"`
}

var eventKeys = map[Status]string{
	StatusPending:    events.BookingCreated,
	StatusAccepted:   events.BookingAccepted,
	StatusRejected:   events.BookingRejected,
	StatusInProgress: events.BookingInProgress,
	StatusCompleted:  events.BookingCompleted,
	StatusCancelled:  events.BookingCancelled,
}

// Create books a worker for the caller. The rate is snapshotted from the
// worker's profile and the amounts are computed here once.
func (s *Service) Create(ctx context.Context, caller auth.Identity, params CreateParams) (*Booking, error) {
	if !caller.Is(auth.RoleCustomer) {
		return nil, apperr.Authorization("only customers can create bookings")
	}

	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	if params.WorkerID == caller.UserID {
		return nil, apperr.Validation("cannot book yourself")
	}

	if params.ProjectID != nil {
		owner, err := s.repo.ProjectOwner(ctx, *params.ProjectID)
		if err != nil {
			return nil, err
		}

		if owner != caller.UserID {
			return nil, apperr.Authorization("project %s belongs to another customer", *params.ProjectID)
		}
	}

	profile, err := s.workers.GetProfile(ctx, params.WorkerID)
	if err != nil {
		return nil, fmt.Errorf("loading worker: %w", err)
	}

	quote, err := s.calc.Quote(profile.DailyRate, params.StartDate, params.EndDate)
	if err != nil {
		return nil, err
	}

	b := &Booking{
		ID:          uuid.New(),
		CustomerID:  caller.UserID,
		WorkerID:    params.WorkerID,
		ProjectID:   params.ProjectID,
		Skill:       params.Skill,
		StartDate:   quote.StartDate,
		EndDate:     quote.EndDate,
		TotalDays:   quote.TotalDays,
		RatePerDay:  quote.RatePerDay,
		TotalAmount: quote.TotalAmount,
		Commission:  quote.Commission,
		Description: params.Description,
		Location: Location{
			Address: params.Address,
			City:    params.City,
			State:   params.State,
			ZipCode: params.ZipCode,
		},
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
	}

	notice := notification.BookingCreated(b.WorkerID, b.ID, b.TotalDays)

	if err := s.repo.CreateBooking(ctx, b, notice); err != nil {
		return nil, fmt.Errorf("creating booking: %w", err)
	}

	slog.Info("booking created", "booking_id", b.ID, "worker_id", b.WorkerID, "total_amount", b.TotalAmount)
	s.publish(ctx, b)

	return b, nil
}

// Get returns the booking if caller takes part in it.
func (s *Service) Get(ctx context.Context, caller auth.Identity, id uuid.UUID) (*Booking, error) {
	b, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if !b.IsParticipant(caller.UserID) {
		return nil, apperr.Authorization("not a participant of booking %s", id)
	}

	return b, nil
}

// List returns the caller's bookings, newest first, optionally narrowed to
// one status.
func (s *Service) List(ctx context.Context, caller auth.Identity, status *Status) ([]*Booking, error) {
	filter := ListFilter{Status: status}

	switch caller.Role {
	case auth.RoleCustomer:
		filter.CustomerID = &caller.UserID
	case auth.RoleWorker:
		filter.WorkerID = &caller.UserID
	default:
		return nil, apperr.Authorization("role %s has no bookings", caller.Role)
	}

	if status != nil && !status.Valid() {
		return nil, apperr.Validation("unknown booking status %q", *status)
	}

	return s.repo.ListBookings(ctx, filter)
}

// Transition moves the booking to next on behalf of caller and notifies the
// other participant.
func (s *Service) Transition(ctx context.Context, caller auth.Identity, id uuid.UUID, next Status) (*Booking, error) {
	if !next.Valid() {
		return nil, apperr.Validation("unknown booking status %q", next)
	}

	b, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := checkTransition(b, caller, next); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, b.ID, b.Status, next, transitionNotice(b, next))
	if err != nil {
		return nil, fmt.Errorf("updating booking status: %w", err)
	}

	slog.Info("booking status changed", "booking_id", b.ID, "from", b.Status, "to", next, "by", caller.UserID)
	s.publish(ctx, updated)

	return updated, nil
}

func (s *Service) publish(ctx context.Context, b *Booking) {
	events.Emit(ctx, s.events, eventKeys[b.Status], Event{
		BookingID:  b.ID,
		CustomerID: b.CustomerID,
		WorkerID:   b.WorkerID,
		Status:     b.Status,
		Amount:     b.TotalAmount,
		OccurredAt: time.Now().UTC(),
	})
}
