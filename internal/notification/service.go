package notification

import (
	"context"

	"github.com/google/uuid"
)

// ListLimit caps how many notifications a single listing returns.
const ListLimit = 50

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=notification
type Repository interface {
	ListNotifications(ctx context.Context, userID uuid.UUID, limit int) ([]*Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the caller's most recent notifications, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Notification, error) {
	return s.repo.ListNotifications(ctx, userID, ListLimit)
}

// MarkRead flags one notification as read. Notifications owned by someone
// else are reported as not found.
func (s *Service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, userID, id)
}

func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}
