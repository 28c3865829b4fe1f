package worker

import (
	"context"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/wandura/internal/apperr"
	"github.com/MrJamesThe3rd/wandura/internal/auth"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=worker
type Repository interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)
	SetAvailability(ctx context.Context, userID uuid.UUID, available bool) (*Profile, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the worker's profile. Only the worker sees their own balances.
func (s *Service) Get(ctx context.Context, caller auth.Identity, workerID uuid.UUID) (*Profile, error) {
	p, err := s.repo.GetProfile(ctx, workerID)
	if err != nil {
		return nil, err
	}

	if caller.UserID != workerID {
		return p.Public(), nil
	}

	return p, nil
}

func (s *Service) SetAvailability(ctx context.Context, caller auth.Identity, available bool) (*Profile, error) {
	if !caller.Is(auth.RoleWorker) {
		return nil, apperr.Authorization("only workers can change availability")
	}

	return s.repo.SetAvailability(ctx, caller.UserID, available)
}
