package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/notification-api/internal/model"
	"github.com/jwalitptl/notification-api/internal/repository"
	apperrors "github.com/jwalitptl/notification-api/pkg/errors"
)

type templateRepository struct {
	BaseRepository
}

func NewTemplateRepository(base BaseRepository) repository.TemplateReader {
	return &templateRepository{base}
}

const templateColumns = `
	t.id, t.tenant_id, t.slug, t.kind, t.channel, t.subject, t.status,
	t.current_version, t.created_at, t.updated_at
`

const versionColumns = `
	v.id, v.template_id, v.version, v.content, v.published_at, v.published_by,
	v.created_at
`

func (r *templateRepository) FetchPublished(ctx context.Context, tenantID int64, slug string) (*model.Template, *model.TemplateVersion, error) {
	query := `
		SELECT ` + templateColumns + `, ` + versionColumns + `
		FROM templates t
		JOIN template_versions v
		  ON v.template_id = t.id AND v.version = t.current_version
		WHERE t.tenant_id = $1
		  AND t.slug = $2
		  AND t.status = $3
		  AND t.current_version IS NOT NULL
	`

	row := r.db.QueryRowxContext(ctx, query, tenantID, slug, model.StatusActive)

	tmpl, ver, err := scanTemplateWithVersion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, apperrors.NewTemplateNotFound(tenantID, slug)
		}
		return nil, nil, apperrors.NewStoreUnavailable(fmt.Errorf("fetch published %q: %w", slug, err))
	}
	return tmpl, ver, nil
}

func (r *templateRepository) FetchDraft(ctx context.Context, tenantID int64, slug string) (*model.Template, *model.TemplateVersion, error) {
	// The template must exist and be active regardless of whether a draft row
	// does, so the two lookups stay separate to tell the error classes apart.
	tmpl, err := r.fetchActive(ctx, tenantID, slug)
	if err != nil {
		return nil, nil, err
	}

	query := `
		SELECT ` + versionColumns + `
		FROM template_versions v
		WHERE v.template_id = $1 AND v.version = $2
	`

	var ver model.TemplateVersion
	err = r.db.QueryRowxContext(ctx, query, tmpl.ID, model.DraftVersion).Scan(
		&ver.ID, &ver.TemplateID, &ver.Version, &ver.Content,
		&ver.PublishedAt, &ver.PublishedBy, &ver.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, apperrors.NewDraftNotFound(tenantID, slug)
		}
		return nil, nil, apperrors.NewStoreUnavailable(fmt.Errorf("fetch draft %q: %w", slug, err))
	}
	return tmpl, &ver, nil
}

func (r *templateRepository) FetchPublishedPartials(ctx context.Context, tenantID int64) ([]*model.Template, []*model.TemplateVersion, error) {
	query := `
		SELECT ` + templateColumns + `, ` + versionColumns + `
		FROM templates t
		JOIN template_versions v
		  ON v.template_id = t.id AND v.version = t.current_version
		WHERE t.tenant_id = $1
		  AND t.status = $2
		  AND t.kind IN ($3, $4)
		  AND t.current_version IS NOT NULL
		ORDER BY t.slug
	`

	rows, err := r.db.QueryxContext(ctx, query, tenantID, model.StatusActive, model.KindPartial, model.KindLayout)
	if err != nil {
		return nil, nil, apperrors.NewStoreUnavailable(fmt.Errorf("fetch partials for tenant %d: %w", tenantID, err))
	}
	defer rows.Close()

	var templates []*model.Template
	var versions []*model.TemplateVersion
	for rows.Next() {
		tmpl, ver, err := scanTemplateWithVersion(rows)
		if err != nil {
			return nil, nil, apperrors.NewStoreUnavailable(fmt.Errorf("scan partial row: %w", err))
		}
		templates = append(templates, tmpl)
		versions = append(versions, ver)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewStoreUnavailable(fmt.Errorf("iterate partial rows: %w", err))
	}
	return templates, versions, nil
}

func (r *templateRepository) FetchMapping(ctx context.Context, tenantID int64, categoryCode string) (*model.CategoryMapping, error) {
	query := `
		SELECT id, tenant_id, category_code, template_id, created_at
		FROM category_mappings
		WHERE tenant_id = $1 AND category_code = $2
	`

	var mapping model.CategoryMapping
	err := r.db.GetContext(ctx, &mapping, query, tenantID, categoryCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// No override is not an error; the presenter default applies.
			return nil, nil
		}
		return nil, apperrors.NewStoreUnavailable(fmt.Errorf("fetch mapping %q: %w", categoryCode, err))
	}
	return &mapping, nil
}

func (r *templateRepository) FetchByID(ctx context.Context, id uuid.UUID) (*model.Template, error) {
	query := `
		SELECT id, tenant_id, slug, kind, channel, subject, status,
		       current_version, created_at, updated_at
		FROM templates
		WHERE id = $1
	`

	var tmpl model.Template
	err := r.db.GetContext(ctx, &tmpl, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewTemplateNotFound(0, id.String())
		}
		return nil, apperrors.NewStoreUnavailable(fmt.Errorf("fetch template %s: %w", id, err))
	}
	return &tmpl, nil
}

func (r *templateRepository) fetchActive(ctx context.Context, tenantID int64, slug string) (*model.Template, error) {
	query := `
		SELECT id, tenant_id, slug, kind, channel, subject, status,
		       current_version, created_at, updated_at
		FROM templates
		WHERE tenant_id = $1 AND slug = $2 AND status = $3
	`

	var tmpl model.Template
	err := r.db.GetContext(ctx, &tmpl, query, tenantID, slug, model.StatusActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewTemplateNotFound(tenantID, slug)
		}
		return nil, apperrors.NewStoreUnavailable(fmt.Errorf("fetch template %q: %w", slug, err))
	}
	return &tmpl, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTemplateWithVersion(row rowScanner) (*model.Template, *model.TemplateVersion, error) {
	var tmpl model.Template
	var ver model.TemplateVersion
	err := row.Scan(
		&tmpl.ID, &tmpl.TenantID, &tmpl.Slug, &tmpl.Kind, &tmpl.Channel,
		&tmpl.Subject, &tmpl.Status, &tmpl.CurrentVersion, &tmpl.CreatedAt,
		&tmpl.UpdatedAt,
		&ver.ID, &ver.TemplateID, &ver.Version, &ver.Content,
		&ver.PublishedAt, &ver.PublishedBy, &ver.CreatedAt,
	)
	if err != nil {
		return nil, nil, err
	}
	return &tmpl, &ver, nil
}
