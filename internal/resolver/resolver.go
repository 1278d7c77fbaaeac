// Package resolver turns a (tenant, slug) reference into compiled-ready
// template source. Lookups are cached per key with a bounded TTL; explicit
// invalidation from template change events always beats TTL staleness.
package resolver

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/jwalitptl/notification-api/internal/model"
	"github.com/jwalitptl/notification-api/internal/repository"
	apperrors "github.com/jwalitptl/notification-api/pkg/errors"
	"github.com/jwalitptl/notification-api/pkg/logger"
	"github.com/jwalitptl/notification-api/pkg/metrics"
)

// Source is the cached resolution of a published template version.
type Source struct {
	Slug        string
	Version     int
	Content     string
	Subject     string
	Kind        model.TemplateKind
	Channel     model.Channel
	PublishedAt time.Time
}

type Config struct {
	TTL             time.Duration
	CleanupInterval time.Duration
	MaxPartialDepth int
}

func DefaultConfig() Config {
	return Config{
		TTL:             5 * time.Minute,
		CleanupInterval: 15 * time.Minute,
		MaxPartialDepth: 10,
	}
}

type Resolver struct {
	store    repository.TemplateReader
	cache    *cache.Cache
	group    singleflight.Group
	gens     sync.Map // cache key -> *atomic.Uint64 invalidation generation
	ttl      time.Duration
	maxDepth int
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

func New(store repository.TemplateReader, cfg Config, m *metrics.Metrics, log *logger.Logger) *Resolver {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultConfig().TTL
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultConfig().CleanupInterval
	}
	if cfg.MaxPartialDepth <= 0 {
		cfg.MaxPartialDepth = DefaultConfig().MaxPartialDepth
	}
	return &Resolver{
		store:    store,
		cache:    cache.New(cfg.TTL, cfg.CleanupInterval),
		ttl:      cfg.TTL,
		maxDepth: cfg.MaxPartialDepth,
		metrics:  m,
		logger:   log,
	}
}

func cacheKey(tenantID int64, slug string) string {
	return fmt.Sprintf("%d:%s", tenantID, slug)
}

// gen returns the invalidation generation counter for key. Invalidate bumps
// it so a fetch that was already in flight when the invalidation arrived can
// tell its result is stale and must not be cached.
func (r *Resolver) gen(key string) *atomic.Uint64 {
	v, _ := r.gens.LoadOrStore(key, new(atomic.Uint64))
	return v.(*atomic.Uint64)
}

// Resolve returns the source of the currently published version for
// (tenant, slug). Concurrent resolutions of the same key coalesce into one
// store fetch; distinct keys never serialize against each other.
func (r *Resolver) Resolve(ctx context.Context, tenantID int64, slug string) (*Source, error) {
	key := cacheKey(tenantID, slug)

	if v, ok := r.cache.Get(key); ok {
		r.countHit()
		return v.(*Source), nil
	}
	r.countMiss()

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		// A concurrent caller may have refilled the cache while this call
		// waited on the flight group.
		if v, ok := r.cache.Get(key); ok {
			return v.(*Source), nil
		}

		gen := r.gen(key)
		before := gen.Load()

		start := time.Now()
		tmpl, ver, err := r.store.FetchPublished(ctx, tenantID, slug)
		r.observeFetch(time.Since(start))
		if err != nil {
			return nil, err
		}

		src := sourceOf(tmpl, ver)
		// An invalidation that landed during the fetch means this result may
		// predate the publish: hand it to the waiters that started before the
		// publish, but never cache it past the call.
		if gen.Load() == before {
			r.cache.Set(key, src, r.ttl)
			if gen.Load() != before {
				r.cache.Delete(key)
			}
		}
		return src, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Source), nil
}

// ResolvePartial resolves a partial reference. Only Partial and Layout kinds
// may be included; anything else fails the render.
func (r *Resolver) ResolvePartial(ctx context.Context, tenantID int64, name string) (*Source, error) {
	src, err := r.Resolve(ctx, tenantID, name)
	if err != nil {
		return nil, err
	}
	if !src.Kind.Includable() {
		return nil, apperrors.NewRenderingError(
			fmt.Sprintf("template %q is %s, not includable as a partial", name, src.Kind), nil)
	}
	return src, nil
}

// PartialsFor recursively resolves every partial referenced by content,
// returning name -> source for engine registration. A reference cycle or a
// chain deeper than the configured maximum fails with a rendering error
// instead of hanging or overflowing.
func (r *Resolver) PartialsFor(ctx context.Context, tenantID int64, content string) (map[string]string, error) {
	acc := make(map[string]string)
	depth, err := r.collect(ctx, tenantID, content, nil, acc)
	if err != nil {
		return nil, err
	}
	r.observeDepth(depth)
	return acc, nil
}

// ResolveTree resolves the top-level template and its full partial closure.
func (r *Resolver) ResolveTree(ctx context.Context, tenantID int64, slug string) (*Source, map[string]string, error) {
	src, err := r.Resolve(ctx, tenantID, slug)
	if err != nil {
		return nil, nil, err
	}
	partials, err := r.PartialsFor(ctx, tenantID, src.Content)
	if err != nil {
		return nil, nil, err
	}
	return src, partials, nil
}

func (r *Resolver) collect(ctx context.Context, tenantID int64, content string, path []string, acc map[string]string) (int, error) {
	maxDepth := len(path)
	for _, name := range partialRefs(content) {
		for _, active := range path {
			if active == name {
				return 0, apperrors.NewRenderingError(
					fmt.Sprintf("partial cycle detected: %s", cycleString(path, name)), nil)
			}
		}
		if len(path)+1 > r.maxDepth {
			return 0, apperrors.NewRenderingError(
				fmt.Sprintf("partial nesting exceeds maximum depth %d at %q", r.maxDepth, name), nil)
		}
		if _, done := acc[name]; done {
			continue
		}

		src, err := r.ResolvePartial(ctx, tenantID, name)
		if err != nil {
			return 0, err
		}
		acc[name] = src.Content

		d, err := r.collect(ctx, tenantID, src.Content, append(path, name), acc)
		if err != nil {
			return 0, err
		}
		if d > maxDepth {
			maxDepth = d
		}
	}
	return maxDepth, nil
}

// Invalidate evicts the cached resolution for (tenant, slug) and forgets any
// in-flight fetch so a stale result can never mask a fresh publish. The
// generation bump comes first: a fetch already past Forget re-checks it
// before caching, so its pre-publish result cannot be re-inserted.
func (r *Resolver) Invalidate(tenantID int64, slug string) {
	key := cacheKey(tenantID, slug)
	r.gen(key).Add(1)
	r.cache.Delete(key)
	r.group.Forget(key)
	r.countInvalidation()
}

// Prewarm bulk-loads every published partial of a tenant into the cache.
func (r *Resolver) Prewarm(ctx context.Context, tenantID int64) error {
	templates, versions, err := r.store.FetchPublishedPartials(ctx, tenantID)
	if err != nil {
		return err
	}
	for i, tmpl := range templates {
		r.cache.Set(cacheKey(tenantID, tmpl.Slug), sourceOf(tmpl, versions[i]), r.ttl)
	}
	if r.logger != nil {
		r.logger.Debug("prewarmed partials", "tenant_id", tenantID, "count", len(templates))
	}
	return nil
}

func sourceOf(tmpl *model.Template, ver *model.TemplateVersion) *Source {
	publishedAt := ver.CreatedAt
	if ver.PublishedAt != nil {
		publishedAt = *ver.PublishedAt
	}
	return &Source{
		Slug:        tmpl.Slug,
		Version:     ver.Version,
		Content:     ver.Content,
		Subject:     tmpl.Subject,
		Kind:        tmpl.Kind,
		Channel:     tmpl.Channel,
		PublishedAt: publishedAt,
	}
}

func cycleString(path []string, repeat string) string {
	out := ""
	for _, p := range path {
		out += p + " -> "
	}
	return out + repeat
}

func (r *Resolver) countHit() {
	if r.metrics != nil {
		r.metrics.CacheHits.Inc()
	}
}

func (r *Resolver) countMiss() {
	if r.metrics != nil {
		r.metrics.CacheMisses.Inc()
	}
}

func (r *Resolver) countInvalidation() {
	if r.metrics != nil {
		r.metrics.Invalidations.Inc()
	}
}

func (r *Resolver) observeFetch(d time.Duration) {
	if r.metrics != nil {
		r.metrics.ResolveLatency.Observe(d.Seconds())
	}
}

func (r *Resolver) observeDepth(depth int) {
	if r.metrics != nil {
		r.metrics.PartialDepth.Observe(float64(depth))
	}
}
