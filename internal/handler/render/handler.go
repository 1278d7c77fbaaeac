package render

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/notification-api/internal/dispatch"
	"github.com/jwalitptl/notification-api/internal/model"
	"github.com/jwalitptl/notification-api/internal/presenter"
	"github.com/jwalitptl/notification-api/internal/service/catalog"
	renderService "github.com/jwalitptl/notification-api/internal/service/render"
	apperrors "github.com/jwalitptl/notification-api/pkg/errors"
	"github.com/jwalitptl/notification-api/pkg/httputil"
	"github.com/jwalitptl/notification-api/pkg/logger"
)

type Handler struct {
	service    renderService.Service
	catalog    catalog.Service
	registry   *presenter.Registry
	dispatcher dispatch.Dispatcher
	logger     *logger.Logger
}

func NewHandler(svc renderService.Service, cat catalog.Service, registry *presenter.Registry, dispatcher dispatch.Dispatcher, log *logger.Logger) *Handler {
	return &Handler{
		service:    svc,
		catalog:    cat,
		registry:   registry,
		dispatcher: dispatcher,
		logger:     log,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/render", h.Render)
	r.POST("/render/draft", h.RenderDraft)
	r.POST("/templates/validate", h.Validate)
	r.GET("/categories", h.ListCategories)
}

type recipientRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Locale   string `json:"locale"`
	Timezone string `json:"timezone"`
	Phone    string `json:"phone"`
}

type renderRequest struct {
	Category  string                 `json:"category" binding:"required,notifcategory"`
	TenantID  int64                  `json:"tenant_id" binding:"required"`
	Payload   json.RawMessage        `json:"payload"`
	Recipient recipientRequest       `json:"recipient" binding:"required"`
	Metadata  map[string]interface{} `json:"metadata"`
	Dispatch  bool                   `json:"dispatch"`
}

func (h *Handler) Render(c *gin.Context) {
	var req renderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	payload, err := h.decodePayload(req.Category, req.Payload)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	recipient := model.Recipient{
		Name:     req.Recipient.Name,
		Email:    req.Recipient.Email,
		Locale:   req.Recipient.Locale,
		Timezone: req.Recipient.Timezone,
		Phone:    req.Recipient.Phone,
	}

	result, err := h.service.Render(c.Request.Context(), &presenter.Request{
		Category:  req.Category,
		TenantID:  req.TenantID,
		Payload:   payload,
		Recipient: recipient,
		Metadata:  req.Metadata,
	})
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if req.Dispatch && h.dispatcher != nil {
		if derr := h.dispatcher.Dispatch(c.Request.Context(), result, recipient); derr != nil {
			h.logger.Error(derr, "dispatch failed",
				"category", result.Category, "channel", string(result.Channel))
		}
	}

	httputil.RespondWithSuccess(c, result)
}

type draftRenderRequest struct {
	TenantID      int64                  `json:"tenant_id" binding:"required"`
	Slug          string                 `json:"slug" binding:"required"`
	SampleContext map[string]interface{} `json:"sample_context"`
}

func (h *Handler) RenderDraft(c *gin.Context) {
	var req draftRenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	result, err := h.service.RenderDraft(c.Request.Context(), req.TenantID, req.Slug, req.SampleContext)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, result)
}

type validateRequest struct {
	TenantID      int64                  `json:"tenant_id"`
	Template      string                 `json:"template" binding:"required"`
	SampleContext map[string]interface{} `json:"sample_context"`
}

func (h *Handler) Validate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	result := h.service.Validate(c.Request.Context(), req.TenantID, req.Template, req.SampleContext)
	httputil.RespondWithSuccess(c, result)
}

func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.catalog.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"categories": cats})
}

// decodePayload unmarshals the opaque payload into the shape the owning
// presenter expects. A shape mismatch is a rendering-class failure, never a
// silent coercion.
func (h *Handler) decodePayload(category string, raw json.RawMessage) (interface{}, error) {
	proto := h.registry.NewPayload(category)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, proto); err != nil {
			return nil, apperrors.NewRenderingError("payload does not match the category's expected shape", err)
		}
	}
	if m, ok := proto.(*map[string]interface{}); ok {
		return *m, nil
	}
	return proto, nil
}
