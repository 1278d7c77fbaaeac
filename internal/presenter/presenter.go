// Package presenter translates notification requests into rendering
// contexts. Each presenter owns a set of category codes and exposes only
// sanctioned fields; raw domain objects never reach a template except
// through the fallback presenter.
package presenter

import (
	"fmt"
	"time"

	"github.com/jwalitptl/notification-api/internal/model"
	apperrors "github.com/jwalitptl/notification-api/pkg/errors"
)

// Request is the inbound notification request as the orchestrator sees it.
// Payload is opaque here; each presenter asserts the concrete type it needs.
type Request struct {
	Category  string
	TenantID  int64
	Payload   interface{}
	Recipient model.Recipient
	Metadata  map[string]interface{}
}

// Presenter builds a rendering context for the categories it owns. Presenters
// are pure functions of the request and the injected time; they perform no
// I/O and hold no mutable state.
type Presenter interface {
	// Categories lists the category codes this presenter owns.
	Categories() []string

	// DefaultSlug returns the template slug used for a category when the
	// tenant has no mapping override. Several categories may share one slug.
	DefaultSlug(category string) string

	// NewPayload returns a fresh payload value the transport can decode
	// into for this category.
	NewPayload(category string) interface{}

	// Present builds the context tree for the request.
	Present(req *Request, now time.Time) (map[string]interface{}, error)
}

// Urgency levels attached to contexts for conditional template display.
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

func payloadError(req *Request, want string) error {
	return apperrors.NewRenderingError(
		fmt.Sprintf("category %q expects %s payload, got %T", req.Category, want, req.Payload), nil)
}
