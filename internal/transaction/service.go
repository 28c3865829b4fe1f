package transaction

import (
	"context"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/wandura/internal/apperr"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ListFilter struct {
	UserID uuid.UUID
	Type   *Type
	Status *Status
}

// List returns the ledger entries of the user named in the filter, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	if filter.UserID == uuid.Nil {
		return nil, apperr.Validation("user id is required")
	}

	return s.repo.ListTransactions(ctx, filter)
}

// Get returns a single entry. Entries belonging to another user are refused.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if tx.UserID != userID {
		return nil, apperr.Authorization("transaction belongs to another user")
	}

	return tx, nil
}
