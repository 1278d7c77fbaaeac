package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/notification-api/internal/model"
)

// TemplateReader is the store surface the rendering core consumes. The core
// only ever reads; authoring writes happen elsewhere and reach us as change
// events on the bus.
type TemplateReader interface {
	// FetchPublished returns the active template and its currently published
	// version content for (tenant, slug). Archived templates and templates
	// without a published version are reported as TemplateNotFound.
	FetchPublished(ctx context.Context, tenantID int64, slug string) (*model.Template, *model.TemplateVersion, error)

	// FetchDraft returns the active template and its mutable draft (version 0).
	// A missing template is TemplateNotFound; a template without a draft row
	// is DraftNotFound.
	FetchDraft(ctx context.Context, tenantID int64, slug string) (*model.Template, *model.TemplateVersion, error)

	// FetchPublishedPartials returns all active, currently published
	// Partial/Layout templates of a tenant, for bulk cache pre-warming.
	FetchPublishedPartials(ctx context.Context, tenantID int64) ([]*model.Template, []*model.TemplateVersion, error)

	// FetchMapping returns the tenant's category override, or (nil, nil) when
	// the tenant has none for this category.
	FetchMapping(ctx context.Context, tenantID int64, categoryCode string) (*model.CategoryMapping, error)

	// FetchByID resolves a mapping's template id to the template row.
	FetchByID(ctx context.Context, id uuid.UUID) (*model.Template, error)
}

// CategoryReader serves the notification category catalog.
type CategoryReader interface {
	Fetch(ctx context.Context, code string) (*model.NotificationCategory, error)
	List(ctx context.Context) ([]*model.NotificationCategory, error)
}
