package messaging

import (
	"context"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// TemplateChannel carries template change events used for cache invalidation.
const TemplateChannel = "templates.changed"

// TemplateEventType identifies what happened to a template.
type TemplateEventType string

const (
	TemplateUpdated   TemplateEventType = "template.updated"
	TemplatePublished TemplateEventType = "template.published"
	TemplateArchived  TemplateEventType = "template.archived"
)

// TemplateEvent is published by the authoring side whenever a template's
// content or lifecycle changes. Consumers evict cached resolutions for
// (TenantID, Slug).
type TemplateEvent struct {
	Type     TemplateEventType `json:"type"`
	TenantID int64             `json:"tenant_id"`
	Slug     string            `json:"slug"`
	Version  int               `json:"version,omitempty"`
}
