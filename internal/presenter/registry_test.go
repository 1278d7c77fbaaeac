package presenter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/notification-api/internal/model"
	"github.com/jwalitptl/notification-api/internal/presenter/format"
)

func testClock() time.Time {
	return time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
}

func newTestRegistry(t *testing.T) *Registry {
	f := format.NewFormatter("en-US")
	r, err := NewRegistry(testClock, NewFallbackPresenter(f),
		NewBillingPresenter(f),
		NewAccountPresenter(f),
		NewAppointmentPresenter(f),
		NewSecurityPresenter(f),
		NewWebhookPresenter(f),
	)
	require.NoError(t, err)
	return r
}

func TestRegistryCoversAllPresenterCategories(t *testing.T) {
	r := newTestRegistry(t)
	assert.Equal(t, 25, r.Size())
}

func TestRegistryRejectsDuplicateOwnership(t *testing.T) {
	f := format.NewFormatter("en-US")

	// Registering the same presenter twice makes every category contested.
	_, err := NewRegistry(testClock, NewFallbackPresenter(f),
		NewBillingPresenter(f),
		NewBillingPresenter(f),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "claimed by more than one presenter")
}

func TestRegistryFallsBackForUnknownCategory(t *testing.T) {
	r := newTestRegistry(t)

	p := r.Lookup("totally-custom-category")
	assert.IsType(t, &FallbackPresenter{}, p)

	// The fallback derives the slug from the category itself.
	assert.Equal(t, "totally-custom-category", r.DefaultSlug("totally-custom-category"))
}

func TestRegistryFallbackPassesPayloadThrough(t *testing.T) {
	r := newTestRegistry(t)

	ctx, err := r.Present(&Request{
		Category: "totally-custom-category",
		TenantID: 7,
		Payload:  map[string]interface{}{"answer": 42},
		Recipient: model.Recipient{
			Name:  "Ada Lovelace",
			Email: "ada@example.com",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"answer": 42}, ctx["payload"])
	assert.Equal(t, "totally-custom-category", ctx["category"])
}

func TestRegistryInjectsClock(t *testing.T) {
	r := newTestRegistry(t)

	ctx, err := r.Present(&Request{
		Category: "webhook-invoice-paid",
		TenantID: 7,
		Payload:  map[string]interface{}{"id": "inv_1"},
	})
	require.NoError(t, err)

	event := ctx["event"].(map[string]interface{})
	assert.Equal(t, testClock().Unix(), event["created"])
}
