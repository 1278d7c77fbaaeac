package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationCategory is one row of the category catalog (~100 entries).
// Group is the shared-presenter label: all categories with the same group are
// presented by one presenter implementation.
type NotificationCategory struct {
	Code      string    `db:"code"`
	Name      string    `db:"name"`
	Channel   Channel   `db:"channel"`
	Group     string    `db:"group_label"`
	CreatedAt time.Time `db:"created_at"`
}

// CategoryMapping overrides the presenter's default template for one tenant.
// At most one per (tenant_id, category_code).
type CategoryMapping struct {
	ID           uuid.UUID `db:"id"`
	TenantID     int64     `db:"tenant_id"`
	CategoryCode string    `db:"category_code"`
	TemplateID   uuid.UUID `db:"template_id"`
	CreatedAt    time.Time `db:"created_at"`
}
