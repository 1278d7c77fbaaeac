// Package render orchestrates the notification pipeline: presenter builds a
// context, the resolver supplies template source, the engine applies one to
// the other. Tenant identity travels as an explicit argument through every
// call, so nothing can leak between concurrent renders.
package render

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jwalitptl/notification-api/internal/engine"
	"github.com/jwalitptl/notification-api/internal/model"
	"github.com/jwalitptl/notification-api/internal/presenter"
	"github.com/jwalitptl/notification-api/internal/repository"
	"github.com/jwalitptl/notification-api/internal/resolver"
	"github.com/jwalitptl/notification-api/internal/service/catalog"
	apperrors "github.com/jwalitptl/notification-api/pkg/errors"
	"github.com/jwalitptl/notification-api/pkg/logger"
	"github.com/jwalitptl/notification-api/pkg/metrics"
)

type Service interface {
	// Render produces the published-version output for a request.
	Render(ctx context.Context, req *presenter.Request) (*model.RenderResult, error)

	// RenderDraft previews the mutable draft (version 0) against a caller
	// supplied sample context, bypassing the published-version requirement.
	RenderDraft(ctx context.Context, tenantID int64, slug string, sample map[string]interface{}) (*model.RenderResult, error)

	// Validate compiles and applies ad-hoc template text. The outcome is
	// always a structured result, never a fault.
	Validate(ctx context.Context, tenantID int64, source string, sample map[string]interface{}) *model.ValidationResult
}

type service struct {
	registry *presenter.Registry
	resolver *resolver.Resolver
	engine   *engine.Engine
	store    repository.TemplateReader
	catalog  catalog.Service
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

func NewService(
	registry *presenter.Registry,
	res *resolver.Resolver,
	eng *engine.Engine,
	store repository.TemplateReader,
	cat catalog.Service,
	m *metrics.Metrics,
	log *logger.Logger,
) Service {
	return &service{
		registry: registry,
		resolver: res,
		engine:   eng,
		store:    store,
		catalog:  cat,
		metrics:  m,
		logger:   log,
	}
}

func (s *service) Render(ctx context.Context, req *presenter.Request) (result *model.RenderResult, err error) {
	start := time.Now()
	defer func() {
		s.observeRender(req.Category, start, err)
	}()

	// Context building and slug resolution are independent; run them
	// concurrently, but both must finish before compile/apply.
	var (
		rctx map[string]interface{}
		slug string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, perr := s.registry.Present(req)
		rctx = c
		return perr
	})
	g.Go(func() error {
		sl, serr := s.resolveSlug(gctx, req.TenantID, req.Category)
		slug = sl
		return serr
	})
	if err = g.Wait(); err != nil {
		return nil, s.classify(err)
	}

	src, partials, rerr := s.resolver.ResolveTree(ctx, req.TenantID, slug)
	if rerr != nil {
		err = s.classify(rerr)
		return nil, err
	}

	body, berr := s.engine.Render(src.Content, partials, rctx)
	if berr != nil {
		s.logRenderFailure(req, slug, berr)
		err = berr
		return nil, err
	}

	var subject string
	if src.Subject != "" {
		// Subject templates are inline text on the template row; they are
		// compiled directly, never slug-resolved.
		subject, berr = s.engine.Render(src.Subject, nil, rctx)
		if berr != nil {
			s.logRenderFailure(req, slug, berr)
			err = berr
			return nil, err
		}
	}

	return &model.RenderResult{
		Category:        req.Category,
		Channel:         s.channelFor(ctx, req.Category, src.Channel),
		Subject:         subject,
		Body:            body,
		RecipientEmail:  req.Recipient.Email,
		TemplateSlug:    src.Slug,
		TemplateVersion: src.Version,
	}, nil
}

func (s *service) RenderDraft(ctx context.Context, tenantID int64, slug string, sample map[string]interface{}) (*model.RenderResult, error) {
	tmpl, ver, err := s.store.FetchDraft(ctx, tenantID, slug)
	if err != nil {
		return nil, s.classify(err)
	}

	partials, err := s.resolver.PartialsFor(ctx, tenantID, ver.Content)
	if err != nil {
		return nil, err
	}

	body, err := s.engine.Render(ver.Content, partials, sample)
	if err != nil {
		return nil, err
	}

	var subject string
	if tmpl.Subject != "" {
		subject, err = s.engine.Render(tmpl.Subject, nil, sample)
		if err != nil {
			return nil, err
		}
	}

	if s.metrics != nil {
		s.metrics.DraftRenders.Inc()
	}

	return &model.RenderResult{
		Channel:         tmpl.Channel,
		Subject:         subject,
		Body:            body,
		TemplateSlug:    tmpl.Slug,
		TemplateVersion: model.DraftVersion,
	}, nil
}

func (s *service) Validate(ctx context.Context, tenantID int64, source string, sample map[string]interface{}) *model.ValidationResult {
	// Partial references inside validated text resolve against the tenant's
	// published partials; a resolution failure is a validation outcome, not
	// a fault.
	partials, err := s.resolver.PartialsFor(ctx, tenantID, source)
	if err != nil {
		return s.countValidation(&model.ValidationResult{
			Valid:        false,
			ErrorMessage: err.Error(),
		})
	}

	return s.countValidation(s.engine.Validate(source, partials, sample))
}

// resolveSlug applies the tenant's category mapping override, falling back
// to the owning presenter's default slug.
func (s *service) resolveSlug(ctx context.Context, tenantID int64, category string) (string, error) {
	mapping, err := s.store.FetchMapping(ctx, tenantID, category)
	if err != nil {
		return "", err
	}
	if mapping == nil {
		return s.registry.DefaultSlug(category), nil
	}

	tmpl, err := s.store.FetchByID(ctx, mapping.TemplateID)
	if err != nil {
		return "", err
	}
	return tmpl.Slug, nil
}

// channelFor prefers the template's own channel, then the catalog's.
func (s *service) channelFor(ctx context.Context, category string, tmplChannel model.Channel) model.Channel {
	if tmplChannel != "" {
		return tmplChannel
	}
	cat, err := s.catalog.Get(ctx, category)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("category channel lookup failed", "category", category, "error", err.Error())
		}
		return ""
	}
	return cat.Channel
}

// classify keeps taxonomy errors intact and wraps anything foreign so
// resolution and rendering failures never escape untyped.
func (s *service) classify(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.NewInternal(err)
}

func (s *service) observeRender(category string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = statusLabel(err)
	}
	s.metrics.RendersTotal.WithLabelValues(category, status).Inc()
	s.metrics.RenderDuration.WithLabelValues(category).Observe(time.Since(start).Seconds())
}

func statusLabel(err error) string {
	switch apperrors.Code(err) {
	case apperrors.ErrTemplateNotFound:
		return "not_found"
	case apperrors.ErrDraftNotFound:
		return "draft_not_found"
	case apperrors.ErrTemplateRendering:
		return "rendering_error"
	default:
		return "error"
	}
}

func (s *service) countValidation(res *model.ValidationResult) *model.ValidationResult {
	if s.metrics != nil {
		label := "valid"
		if !res.Valid {
			label = "invalid"
		}
		s.metrics.Validations.WithLabelValues(label).Inc()
	}
	return res
}

func (s *service) logRenderFailure(req *presenter.Request, slug string, err error) {
	if s.logger != nil {
		s.logger.Error(err, "template rendering failed",
			"tenant_id", req.TenantID, "category", req.Category, "slug", slug)
	}
}
