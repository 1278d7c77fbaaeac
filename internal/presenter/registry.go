package presenter

import (
	"fmt"
	"time"
)

// Registry routes categories to their owning presenter. Built once at
// startup; duplicate category ownership is a configuration error that must
// block serving.
type Registry struct {
	byCategory map[string]Presenter
	fallback   Presenter
	clock      func() time.Time
}

// NewRegistry builds the category map. The clock is injected so presenter
// output stays deterministic under test; pass time.Now in production.
func NewRegistry(clock func() time.Time, fallback Presenter, presenters ...Presenter) (*Registry, error) {
	if clock == nil {
		clock = time.Now
	}

	byCategory := make(map[string]Presenter)
	for _, p := range presenters {
		for _, code := range p.Categories() {
			if _, taken := byCategory[code]; taken {
				return nil, fmt.Errorf("category %q claimed by more than one presenter", code)
			}
			byCategory[code] = p
		}
	}

	return &Registry{
		byCategory: byCategory,
		fallback:   fallback,
		clock:      clock,
	}, nil
}

// Lookup returns the owning presenter, or the fallback for unregistered
// categories. Unregistered categories never error.
func (r *Registry) Lookup(category string) Presenter {
	if p, ok := r.byCategory[category]; ok {
		return p
	}
	return r.fallback
}

// Present builds the rendering context for the request.
func (r *Registry) Present(req *Request) (map[string]interface{}, error) {
	return r.Lookup(req.Category).Present(req, r.clock())
}

// DefaultSlug returns the template slug to use absent a tenant override.
func (r *Registry) DefaultSlug(category string) string {
	return r.Lookup(category).DefaultSlug(category)
}

// NewPayload returns a decodable payload prototype for the category.
func (r *Registry) NewPayload(category string) interface{} {
	return r.Lookup(category).NewPayload(category)
}

// Size reports how many categories have a dedicated presenter.
func (r *Registry) Size() int {
	return len(r.byCategory)
}
