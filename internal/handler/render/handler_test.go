package render

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/notification-api/internal/middleware"
	"github.com/jwalitptl/notification-api/internal/model"
	"github.com/jwalitptl/notification-api/internal/presenter"
	"github.com/jwalitptl/notification-api/internal/presenter/format"
	apperrors "github.com/jwalitptl/notification-api/pkg/errors"
)

type fakeRenderService struct {
	renderFn      func(ctx context.Context, req *presenter.Request) (*model.RenderResult, error)
	renderDraftFn func(ctx context.Context, tenantID int64, slug string, sample map[string]interface{}) (*model.RenderResult, error)
	validateFn    func(ctx context.Context, tenantID int64, source string, sample map[string]interface{}) *model.ValidationResult
}

func (f *fakeRenderService) Render(ctx context.Context, req *presenter.Request) (*model.RenderResult, error) {
	return f.renderFn(ctx, req)
}

func (f *fakeRenderService) RenderDraft(ctx context.Context, tenantID int64, slug string, sample map[string]interface{}) (*model.RenderResult, error) {
	return f.renderDraftFn(ctx, tenantID, slug, sample)
}

func (f *fakeRenderService) Validate(ctx context.Context, tenantID int64, source string, sample map[string]interface{}) *model.ValidationResult {
	return f.validateFn(ctx, tenantID, source, sample)
}

type fakeCatalog struct{}

func (fakeCatalog) Get(_ context.Context, code string) (*model.NotificationCategory, error) {
	return &model.NotificationCategory{Code: code, Channel: model.ChannelEmail}, nil
}

func (fakeCatalog) List(context.Context) ([]*model.NotificationCategory, error) {
	return []*model.NotificationCategory{
		{Code: "invoice-overdue", Name: "Invoice Overdue", Channel: model.ChannelEmail, Group: "billing"},
	}, nil
}

func newTestRouter(t *testing.T, svc *fakeRenderService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	require.NoError(t, middleware.RegisterValidations())

	f := format.NewFormatter("en-US")
	registry, err := presenter.NewRegistry(time.Now, presenter.NewFallbackPresenter(f),
		presenter.NewBillingPresenter(f))
	require.NoError(t, err)

	h := NewHandler(svc, fakeCatalog{}, registry, nil, nil)
	engine := gin.New()
	h.RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func postJSON(t *testing.T, engine *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestRenderEndpoint(t *testing.T) {
	svc := &fakeRenderService{
		renderFn: func(_ context.Context, req *presenter.Request) (*model.RenderResult, error) {
			// The handler must decode the payload into the presenter's shape.
			inv, ok := req.Payload.(*model.InvoicePayload)
			require.True(t, ok)
			assert.Equal(t, "INV-1001", inv.Number)

			return &model.RenderResult{
				Category:        req.Category,
				Channel:         model.ChannelEmail,
				Subject:         "Invoice INV-1001",
				Body:            "rendered body",
				TemplateSlug:    "invoice-status",
				TemplateVersion: 4,
			}, nil
		},
	}
	engine := newTestRouter(t, svc)

	rec := postJSON(t, engine, "/api/v1/render", map[string]interface{}{
		"category":  "invoice-overdue",
		"tenant_id": 7,
		"payload":   map[string]interface{}{"number": "INV-1001", "currency": "USD"},
		"recipient": map[string]interface{}{"name": "Ada", "email": "ada@example.com"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Body            string `json:"body"`
			TemplateVersion int    `json:"template_version"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "rendered body", resp.Data.Body)
	assert.Equal(t, 4, resp.Data.TemplateVersion)
}

func TestRenderEndpointRejectsBadCategoryCode(t *testing.T) {
	engine := newTestRouter(t, &fakeRenderService{})

	rec := postJSON(t, engine, "/api/v1/render", map[string]interface{}{
		"category":  "Not A Category!",
		"tenant_id": 7,
		"recipient": map[string]interface{}{"name": "Ada"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRenderEndpointMissingTemplateIs404(t *testing.T) {
	svc := &fakeRenderService{
		renderFn: func(context.Context, *presenter.Request) (*model.RenderResult, error) {
			return nil, apperrors.NewTemplateNotFound(7, "invoice-status")
		},
	}
	engine := newTestRouter(t, svc)

	rec := postJSON(t, engine, "/api/v1/render", map[string]interface{}{
		"category":  "invoice-overdue",
		"tenant_id": 7,
		"recipient": map[string]interface{}{"name": "Ada"},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRenderEndpointStoreOutageIs503(t *testing.T) {
	svc := &fakeRenderService{
		renderFn: func(context.Context, *presenter.Request) (*model.RenderResult, error) {
			return nil, apperrors.NewStoreUnavailable(assert.AnError)
		},
	}
	engine := newTestRouter(t, svc)

	rec := postJSON(t, engine, "/api/v1/render", map[string]interface{}{
		"category":  "invoice-overdue",
		"tenant_id": 7,
		"recipient": map[string]interface{}{"name": "Ada"},
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDraftEndpoint(t *testing.T) {
	svc := &fakeRenderService{
		renderDraftFn: func(_ context.Context, tenantID int64, slug string, sample map[string]interface{}) (*model.RenderResult, error) {
			assert.EqualValues(t, 7, tenantID)
			assert.Equal(t, "invoice-status", slug)
			return &model.RenderResult{Body: "draft body", TemplateVersion: model.DraftVersion}, nil
		},
	}
	engine := newTestRouter(t, svc)

	rec := postJSON(t, engine, "/api/v1/render/draft", map[string]interface{}{
		"tenant_id":      7,
		"slug":           "invoice-status",
		"sample_context": map[string]interface{}{"title": "x"},
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidateEndpointAlwaysSucceedsTransportwise(t *testing.T) {
	svc := &fakeRenderService{
		validateFn: func(_ context.Context, _ int64, source string, _ map[string]interface{}) *model.ValidationResult {
			return &model.ValidationResult{Valid: false, ErrorMessage: "parse error", Line: 1}
		},
	}
	engine := newTestRouter(t, svc)

	rec := postJSON(t, engine, "/api/v1/templates/validate", map[string]interface{}{
		"tenant_id": 7,
		"template":  "{{#if}}",
	})

	// Invalid template text is still a 200: validity is data, not failure.
	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data struct {
			Valid        bool   `json:"valid"`
			ErrorMessage string `json:"error_message"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Valid)
	assert.Equal(t, "parse error", resp.Data.ErrorMessage)
}

func TestListCategoriesEndpoint(t *testing.T) {
	engine := newTestRouter(t, &fakeRenderService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "invoice-overdue")
}
