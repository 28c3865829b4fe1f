package review_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/wandura/internal/apperr"
	"github.com/MrJamesThe3rd/wandura/internal/auth"
	"github.com/MrJamesThe3rd/wandura/internal/booking"
	"github.com/MrJamesThe3rd/wandura/internal/notification"
	"github.com/MrJamesThe3rd/wandura/internal/review"
)

func TestService_Create(t *testing.T) {
	b := &booking.Booking{ID: uuid.New(), CustomerID: uuid.New(), WorkerID: uuid.New(), Status: booking.StatusCompleted}

	withStatus := func(s booking.Status) *booking.Booking {
		cp := *b
		cp.Status = s

		return &cp
	}

	type testCase struct {
		name          string
		caller        uuid.UUID
		params        review.CreateParams
		setupMock     func(m *review.MockRepository)
		wantRecipient uuid.UUID
		wantErr       error
	}

	tests := []testCase{
		{
			name:   "CustomerReviewsWorker",
			caller: b.CustomerID,
			params: review.CreateParams{BookingID: b.ID, Rating: 4, Comment: "Tidy work"},
			setupMock: func(m *review.MockRepository) {
				m.EXPECT().GetBooking(gomock.Any(), b.ID).Return(b, nil)
				m.EXPECT().CreateReview(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, r *review.Review, n *notification.Notification) error {
						assert.Equal(t, b.WorkerID, r.RecipientID)
						assert.Equal(t, b.WorkerID, n.UserID)
						assert.Equal(t, notification.TypeReviewReceived, n.Type)
						assert.Equal(t, "You received a 4-star review", n.Message)

						r.ID = uuid.New()

						return nil
					})
			},
			wantRecipient: b.WorkerID,
		},
		{
			name:   "WorkerReviewsCustomer",
			caller: b.WorkerID,
			params: review.CreateParams{BookingID: b.ID, Rating: 5},
			setupMock: func(m *review.MockRepository) {
				m.EXPECT().GetBooking(gomock.Any(), b.ID).Return(b, nil)
				m.EXPECT().CreateReview(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			wantRecipient: b.CustomerID,
		},
		{
			name:    "RatingOutOfRange",
			caller:  b.CustomerID,
			params:  review.CreateParams{BookingID: b.ID, Rating: 6},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "MissingBooking",
			caller:  b.CustomerID,
			params:  review.CreateParams{Rating: 3},
			wantErr: apperr.ErrValidation,
		},
		{
			name:   "Outsider",
			caller: uuid.New(),
			params: review.CreateParams{BookingID: b.ID, Rating: 3},
			setupMock: func(m *review.MockRepository) {
				m.EXPECT().GetBooking(gomock.Any(), b.ID).Return(b, nil)
			},
			wantErr: apperr.ErrAuthorization,
		},
		{
			name:   "PendingBooking",
			caller: b.CustomerID,
			params: review.CreateParams{BookingID: b.ID, Rating: 1},
			setupMock: func(m *review.MockRepository) {
				m.EXPECT().GetBooking(gomock.Any(), b.ID).Return(withStatus(booking.StatusPending), nil)
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name:   "CancelledBooking",
			caller: b.CustomerID,
			params: review.CreateParams{BookingID: b.ID, Rating: 1},
			setupMock: func(m *review.MockRepository) {
				m.EXPECT().GetBooking(gomock.Any(), b.ID).Return(withStatus(booking.StatusCancelled), nil)
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name:   "Duplicate",
			caller: b.CustomerID,
			params: review.CreateParams{BookingID: b.ID, Rating: 3},
			setupMock: func(m *review.MockRepository) {
				m.EXPECT().GetBooking(gomock.Any(), b.ID).Return(b, nil)
				m.EXPECT().CreateReview(gomock.Any(), gomock.Any(), gomock.Any()).Return(review.ErrDuplicate)
			},
			wantErr: apperr.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := review.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := review.NewService(repo).Create(context.Background(), auth.Identity{UserID: tt.caller}, tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantRecipient, got.RecipientID)
			assert.Equal(t, tt.caller, got.AuthorID)
		})
	}
}
