package booking_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/wandura/internal/apperr"
	"github.com/MrJamesThe3rd/wandura/internal/auth"
	"github.com/MrJamesThe3rd/wandura/internal/booking"
	"github.com/MrJamesThe3rd/wandura/internal/events"
	"github.com/MrJamesThe3rd/wandura/internal/notification"
	"github.com/MrJamesThe3rd/wandura/internal/pricing"
	"github.com/MrJamesThe3rd/wandura/internal/worker"
)

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(_ context.Context, key string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.keys = append(p.keys, key)

	return nil
}

func newCalculator(t *testing.T) *pricing.Calculator {
	t.Helper()

	calc, err := pricing.NewCalculator(pricing.DefaultCommissionRate)
	require.NoError(t, err)

	return calc
}

func validParams(workerID uuid.UUID) booking.CreateParams {
	return booking.CreateParams{
		WorkerID:  workerID,
		Skill:     worker.SkillMason,
		StartDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC),
		Address:   "12 Harbour Road",
		City:      "Mombasa",
		State:     "Coast",
		ZipCode:   "80100",
	}
}

func TestService_Create(t *testing.T) {
	customer := auth.Identity{UserID: uuid.New(), Role: auth.RoleCustomer}
	workerID := uuid.New()
	projectID := uuid.New()

	type testCase struct {
		name      string
		caller    auth.Identity
		params    booking.CreateParams
		setupMock func(repo *booking.MockRepository, workers *booking.MockWorkers)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			caller: customer,
			params: validParams(workerID),
			setupMock: func(repo *booking.MockRepository, workers *booking.MockWorkers) {
				workers.EXPECT().GetProfile(gomock.Any(), workerID).
					Return(&worker.Profile{UserID: workerID, DailyRate: 25000}, nil)

				repo.EXPECT().
					CreateBooking(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, b *booking.Booking, n *notification.Notification) error {
						assert.Equal(t, 5, b.TotalDays)
						assert.Equal(t, int64(25000), b.RatePerDay)
						assert.Equal(t, int64(125000), b.TotalAmount)
						assert.Equal(t, int64(12500), b.Commission)
						assert.Equal(t, booking.StatusPending, b.Status)
						assert.Equal(t, booking.PaymentPending, b.PaymentStatus)
						assert.Equal(t, customer.UserID, b.CustomerID)

						assert.Equal(t, workerID, n.UserID)
						assert.Equal(t, notification.TypeBookingCreated, n.Type)
						assert.Equal(t, "You have a new booking request for 5 days", n.Message)
						assert.Equal(t, notification.BookingLink(b.ID), n.Link)

						return nil
					})
			},
		},
		{
			name:    "WorkerCannotBook",
			caller:  auth.Identity{UserID: uuid.New(), Role: auth.RoleWorker},
			params:  validParams(workerID),
			wantErr: apperr.ErrAuthorization,
		},
		{
			name:   "MissingLocation",
			caller: customer,
			params: func() booking.CreateParams {
				p := validParams(workerID)
				p.Address = ""
				p.ZipCode = "1"

				return p
			}(),
			wantErr: apperr.ErrValidation,
		},
		{
			name:   "UnknownSkill",
			caller: customer,
			params: func() booking.CreateParams {
				p := validParams(workerID)
				p.Skill = "ASTRONAUT"

				return p
			}(),
			wantErr: apperr.ErrValidation,
		},
		{
			name:   "EndBeforeStart",
			caller: customer,
			params: func() booking.CreateParams {
				p := validParams(workerID)
				p.EndDate = p.StartDate.AddDate(0, 0, -1)

				return p
			}(),
			setupMock: func(_ *booking.MockRepository, workers *booking.MockWorkers) {
				workers.EXPECT().GetProfile(gomock.Any(), workerID).
					Return(&worker.Profile{UserID: workerID, DailyRate: 25000}, nil)
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name:   "WorkerNotFound",
			caller: customer,
			params: validParams(workerID),
			setupMock: func(_ *booking.MockRepository, workers *booking.MockWorkers) {
				workers.EXPECT().GetProfile(gomock.Any(), workerID).Return(nil, worker.ErrNotFound)
			},
			wantErr: apperr.ErrNotFound,
		},
		{
			name:   "OwnProject",
			caller: customer,
			params: func() booking.CreateParams {
				p := validParams(workerID)
				p.ProjectID = &projectID

				return p
			}(),
			setupMock: func(repo *booking.MockRepository, workers *booking.MockWorkers) {
				repo.EXPECT().ProjectOwner(gomock.Any(), projectID).Return(customer.UserID, nil)
				workers.EXPECT().GetProfile(gomock.Any(), workerID).
					Return(&worker.Profile{UserID: workerID, DailyRate: 25000}, nil)
				repo.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:   "UnknownProject",
			caller: customer,
			params: func() booking.CreateParams {
				p := validParams(workerID)
				p.ProjectID = &projectID

				return p
			}(),
			setupMock: func(repo *booking.MockRepository, _ *booking.MockWorkers) {
				repo.EXPECT().ProjectOwner(gomock.Any(), projectID).Return(uuid.Nil, booking.ErrProjectNotFound)
			},
			wantErr: apperr.ErrNotFound,
		},
		{
			name:   "AnotherCustomersProject",
			caller: customer,
			params: func() booking.CreateParams {
				p := validParams(workerID)
				p.ProjectID = &projectID

				return p
			}(),
			setupMock: func(repo *booking.MockRepository, _ *booking.MockWorkers) {
				repo.EXPECT().ProjectOwner(gomock.Any(), projectID).Return(uuid.New(), nil)
			},
			wantErr: apperr.ErrAuthorization,
		},
		{
			name:   "RepoError",
			caller: customer,
			params: validParams(workerID),
			setupMock: func(repo *booking.MockRepository, workers *booking.MockWorkers) {
				workers.EXPECT().GetProfile(gomock.Any(), workerID).
					Return(&worker.Profile{UserID: workerID, DailyRate: 25000}, nil)
				repo.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := booking.NewMockRepository(ctrl)
			workers := booking.NewMockWorkers(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, workers)
			}

			pub := &recordingPublisher{}
			svc := booking.NewService(repo, workers, newCalculator(t), pub)

			got, err := svc.Create(context.Background(), tt.caller, tt.params)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, got)
				assert.Empty(t, pub.keys)

				if apperr.IsDomain(tt.wantErr) {
					assert.ErrorIs(t, err, tt.wantErr)
				}

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
			assert.Equal(t, []string{events.BookingCreated}, pub.keys)
		})
	}
}

func TestService_Transition(t *testing.T) {
	customerID := uuid.New()
	workerID := uuid.New()
	bookingID := uuid.New()

	asWorker := auth.Identity{UserID: workerID, Role: auth.RoleWorker}
	asCustomer := auth.Identity{UserID: customerID, Role: auth.RoleCustomer}

	stored := func(s booking.Status) *booking.Booking {
		return &booking.Booking{ID: bookingID, CustomerID: customerID, WorkerID: workerID, Status: s}
	}

	type testCase struct {
		name          string
		caller        auth.Identity
		current       booking.Status
		next          booking.Status
		wantRecipient uuid.UUID
		updateErr     error
		wantErr       error
		wantEvent     string
	}

	tests := []testCase{
		{
			name: "Accept", caller: asWorker, current: booking.StatusPending, next: booking.StatusAccepted,
			wantRecipient: customerID, wantEvent: events.BookingAccepted,
		},
		{
			name: "Reject", caller: asWorker, current: booking.StatusPending, next: booking.StatusRejected,
			wantRecipient: customerID, wantEvent: events.BookingRejected,
		},
		{
			name: "Start", caller: asWorker, current: booking.StatusAccepted, next: booking.StatusInProgress,
			wantRecipient: customerID, wantEvent: events.BookingInProgress,
		},
		{
			name: "Complete", caller: asWorker, current: booking.StatusInProgress, next: booking.StatusCompleted,
			wantRecipient: customerID, wantEvent: events.BookingCompleted,
		},
		{
			name: "Cancel", caller: asCustomer, current: booking.StatusAccepted, next: booking.StatusCancelled,
			wantRecipient: workerID, wantEvent: events.BookingCancelled,
		},
		{
			name: "ConcurrentChange", caller: asWorker, current: booking.StatusPending, next: booking.StatusAccepted,
			wantRecipient: customerID, updateErr: booking.ErrConflict, wantErr: apperr.ErrValidation,
		},
		{
			name: "IllegalEdge", caller: asWorker, current: booking.StatusCompleted, next: booking.StatusAccepted,
			wantErr: apperr.ErrValidation,
		},
		{
			name: "Outsider", caller: auth.Identity{UserID: uuid.New(), Role: auth.RoleWorker},
			current: booking.StatusPending, next: booking.StatusAccepted, wantErr: apperr.ErrAuthorization,
		},
		{
			name: "UnknownStatus", caller: asWorker, current: booking.StatusPending, next: "ARCHIVED",
			wantErr: apperr.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := booking.NewMockRepository(ctrl)

			if tt.next.Valid() {
				repo.EXPECT().GetBooking(gomock.Any(), bookingID).Return(stored(tt.current), nil)
			}

			if tt.wantRecipient != uuid.Nil {
				repo.EXPECT().
					UpdateStatus(gomock.Any(), bookingID, tt.current, tt.next, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ uuid.UUID, _, to booking.Status, n *notification.Notification) (*booking.Booking, error) {
						assert.Equal(t, tt.wantRecipient, n.UserID)
						assert.Equal(t, notification.BookingLink(bookingID), n.Link)

						if tt.updateErr != nil {
							return nil, tt.updateErr
						}

						return stored(to), nil
					})
			}

			pub := &recordingPublisher{}
			svc := booking.NewService(repo, booking.NewMockWorkers(ctrl), newCalculator(t), pub)

			got, err := svc.Transition(context.Background(), tt.caller, bookingID, tt.next)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, pub.keys)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.next, got.Status)
			assert.Equal(t, []string{tt.wantEvent}, pub.keys)
		})
	}
}

func TestService_Transition_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)

	id := uuid.New()
	repo := booking.NewMockRepository(ctrl)
	repo.EXPECT().GetBooking(gomock.Any(), id).Return(nil, booking.ErrNotFound)

	svc := booking.NewService(repo, booking.NewMockWorkers(ctrl), newCalculator(t), events.Nop{})

	_, err := svc.Transition(context.Background(), auth.Identity{UserID: uuid.New(), Role: auth.RoleWorker}, id, booking.StatusAccepted)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestService_Get(t *testing.T) {
	b := &booking.Booking{ID: uuid.New(), CustomerID: uuid.New(), WorkerID: uuid.New()}

	type testCase struct {
		name    string
		caller  uuid.UUID
		wantErr error
	}

	tests := []testCase{
		{name: "Customer", caller: b.CustomerID},
		{name: "Worker", caller: b.WorkerID},
		{name: "Outsider", caller: uuid.New(), wantErr: apperr.ErrAuthorization},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := booking.NewMockRepository(ctrl)
			repo.EXPECT().GetBooking(gomock.Any(), b.ID).Return(b, nil)

			svc := booking.NewService(repo, booking.NewMockWorkers(ctrl), newCalculator(t), events.Nop{})

			got, err := svc.Get(context.Background(), auth.Identity{UserID: tt.caller}, b.ID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, b.ID, got.ID)
		})
	}
}

func TestService_List(t *testing.T) {
	userID := uuid.New()
	accepted := booking.StatusAccepted
	bogus := booking.Status("ARCHIVED")

	type testCase struct {
		name       string
		role       auth.Role
		status     *booking.Status
		wantFilter *booking.ListFilter
		wantErr    error
	}

	tests := []testCase{
		{
			name:       "Customer",
			role:       auth.RoleCustomer,
			wantFilter: &booking.ListFilter{CustomerID: &userID},
		},
		{
			name:       "WorkerWithStatus",
			role:       auth.RoleWorker,
			status:     &accepted,
			wantFilter: &booking.ListFilter{WorkerID: &userID, Status: &accepted},
		},
		{name: "HardwareStore", role: auth.RoleHardwareStore, wantErr: apperr.ErrAuthorization},
		{name: "UnknownStatus", role: auth.RoleCustomer, status: &bogus, wantErr: apperr.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := booking.NewMockRepository(ctrl)
			if tt.wantFilter != nil {
				repo.EXPECT().ListBookings(gomock.Any(), *tt.wantFilter).
					Return([]*booking.Booking{{ID: uuid.New()}}, nil)
			}

			svc := booking.NewService(repo, booking.NewMockWorkers(ctrl), newCalculator(t), events.Nop{})

			got, err := svc.List(context.Background(), auth.Identity{UserID: userID, Role: tt.role}, tt.status)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Len(t, got, 1)
		})
	}
}
