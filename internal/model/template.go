package model

import (
	"time"

	"github.com/google/uuid"
)

type TemplateKind string

const (
	KindRenderable TemplateKind = "renderable"
	KindPartial    TemplateKind = "partial"
	KindLayout     TemplateKind = "layout"
)

// Includable reports whether a template of this kind may be pulled in as a
// partial reference.
func (k TemplateKind) Includable() bool {
	return k == KindPartial || k == KindLayout
}

type TemplateStatus string

const (
	StatusActive   TemplateStatus = "active"
	StatusArchived TemplateStatus = "archived"
)

type Channel string

const (
	ChannelEmail   Channel = "email"
	ChannelWebhook Channel = "webhook"
	ChannelSMS     Channel = "sms"
)

// Template is a tenant-owned named template. Unique by (tenant_id, slug).
// CurrentVersion points at the published version number; nil means the
// template has never been published and is invisible to rendering.
type Template struct {
	ID             uuid.UUID      `db:"id"`
	TenantID       int64          `db:"tenant_id"`
	Slug           string         `db:"slug"`
	Kind           TemplateKind   `db:"kind"`
	Channel        Channel        `db:"channel"`
	Subject        string         `db:"subject"`
	Status         TemplateStatus `db:"status"`
	CurrentVersion *int           `db:"current_version"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

// Renderable reports whether the template can serve a render call at all.
func (t *Template) Renderable() bool {
	return t.Status == StatusActive && t.CurrentVersion != nil
}

// TemplateVersion is one row of a template's append-only history.
// Version 0 is the single mutable draft; versions >= 1 are immutable once
// written and are never reused, so past renders stay reproducible.
type TemplateVersion struct {
	ID          uuid.UUID  `db:"id"`
	TemplateID  uuid.UUID  `db:"template_id"`
	Version     int        `db:"version"`
	Content     string     `db:"content"`
	PublishedAt *time.Time `db:"published_at"`
	PublishedBy *uuid.UUID `db:"published_by"`
	CreatedAt   time.Time  `db:"created_at"`
}

const DraftVersion = 0

func (v *TemplateVersion) IsDraft() bool {
	return v.Version == DraftVersion
}

// TemplateVariable documents the context shape a template expects.
// Authoring-time only; never consulted during rendering.
type TemplateVariable struct {
	ID         uuid.UUID `db:"id"`
	TemplateID uuid.UUID `db:"template_id"`
	Name       string    `db:"name"`
	Path       string    `db:"path"`
	Type       string    `db:"type"`
	Required   bool      `db:"required"`
}
