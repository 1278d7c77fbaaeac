package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jwalitptl/notification-api/internal/model"
	"github.com/jwalitptl/notification-api/internal/repository"
	apperrors "github.com/jwalitptl/notification-api/pkg/errors"
)

type categoryRepository struct {
	BaseRepository
}

func NewCategoryRepository(base BaseRepository) repository.CategoryReader {
	return &categoryRepository{base}
}

func (r *categoryRepository) Fetch(ctx context.Context, code string) (*model.NotificationCategory, error) {
	query := `
		SELECT code, name, channel, group_label, created_at
		FROM notification_categories
		WHERE code = $1
	`

	var cat model.NotificationCategory
	err := r.db.GetContext(ctx, &cat, query, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewBadRequest(fmt.Sprintf("unknown category %q", code), nil)
		}
		return nil, apperrors.NewStoreUnavailable(fmt.Errorf("fetch category %q: %w", code, err))
	}
	return &cat, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]*model.NotificationCategory, error) {
	query := `
		SELECT code, name, channel, group_label, created_at
		FROM notification_categories
		ORDER BY code
	`

	var cats []*model.NotificationCategory
	if err := r.db.SelectContext(ctx, &cats, query); err != nil {
		return nil, apperrors.NewStoreUnavailable(fmt.Errorf("list categories: %w", err))
	}
	return cats, nil
}
