package transaction_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/wandura/internal/apperr"
	"github.com/MrJamesThe3rd/wandura/internal/transaction"
)

func TestService_List(t *testing.T) {
	owner := uuid.New()
	commission := transaction.TypeCommission

	type args struct {
		filter transaction.ListFilter
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *transaction.MockRepository)
		wantLen   int
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{filter: transaction.ListFilter{UserID: owner}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{UserID: owner}).
					Return([]*transaction.Transaction{
						{ID: uuid.New(), UserID: owner},
						{ID: uuid.New(), UserID: owner},
					}, nil)
			},
			wantLen: 2,
		},
		{
			name: "TypeFilterPassedThrough",
			args: args{filter: transaction.ListFilter{UserID: owner, Type: &commission}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{UserID: owner, Type: &commission}).
					Return([]*transaction.Transaction{{ID: uuid.New(), Type: commission}}, nil)
			},
			wantLen: 1,
		},
		{
			name:    "MissingUser",
			args:    args{filter: transaction.ListFilter{}},
			wantErr: apperr.ErrValidation,
		},
		{
			name: "Error",
			args: args{filter: transaction.ListFilter{UserID: owner}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{UserID: owner}).
					Return(nil, errors.New("list error"))
			},
			wantErr: errors.New("list error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo)
			got, err := svc.List(context.Background(), tt.args.filter)

			if tt.wantErr != nil {
				assert.Error(t, err)

				if errors.Is(tt.wantErr, apperr.ErrValidation) {
					assert.ErrorIs(t, err, apperr.ErrValidation)
				}

				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_Get(t *testing.T) {
	owner := uuid.New()
	id := uuid.New()

	type testCase struct {
		name      string
		caller    uuid.UUID
		setupMock func(m *transaction.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Owner",
			caller: owner,
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().GetTransaction(gomock.Any(), id).
					Return(&transaction.Transaction{ID: id, UserID: owner}, nil)
			},
		},
		{
			name:   "OtherUser",
			caller: uuid.New(),
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().GetTransaction(gomock.Any(), id).
					Return(&transaction.Transaction{ID: id, UserID: owner}, nil)
			},
			wantErr: apperr.ErrAuthorization,
		},
		{
			name:   "NotFound",
			caller: owner,
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().GetTransaction(gomock.Any(), id).Return(nil, transaction.ErrNotFound)
			},
			wantErr: apperr.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := transaction.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := transaction.NewService(repo).Get(context.Background(), tt.caller, id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, id, got.ID)
		})
	}
}
