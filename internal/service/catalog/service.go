package catalog

import (
	"context"

	"github.com/jwalitptl/notification-api/internal/model"
	"github.com/jwalitptl/notification-api/internal/repository"
)

// Service serves the notification category catalog.
type Service interface {
	Get(ctx context.Context, code string) (*model.NotificationCategory, error)
	List(ctx context.Context) ([]*model.NotificationCategory, error)
}

type service struct {
	repo repository.CategoryReader
}

func NewService(repo repository.CategoryReader) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context, code string) (*model.NotificationCategory, error) {
	return s.repo.Fetch(ctx, code)
}

func (s *service) List(ctx context.Context) ([]*model.NotificationCategory, error) {
	return s.repo.List(ctx)
}
