// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"
	"sync"

	"github.com/wedly-admin/wedly-be/internal/model"
)

const siteKeyPrefix = "site:"

// SiteCache caches published microsite views by slug.
//
// Every Invalidate bumps a per-slug generation. Readers take the
// generation before loading a view and store it with Fill, which drops the
// view when an invalidation happened in between. Generations are local to
// the process; across instances sharing Redis a stale fill lives at most
// one TTL.
type SiteCache struct {
	views  *TypedCache[model.SiteView]
	logger *slog.Logger

	mu   sync.Mutex
	gens map[string]uint64
}

// NewSiteCache stores views in backend for DefaultTTL unless a ttl is set.
func NewSiteCache(backend Cacher, logger *slog.Logger) *SiteCache {
	return &SiteCache{
		views:  NewTypedCache[model.SiteView](backend, 0),
		logger: logger,
		gens:   make(map[string]uint64),
	}
}

func (c *SiteCache) Get(ctx context.Context, slug string) (model.SiteView, bool) {
	return c.views.Get(ctx, siteKeyPrefix+slug)
}

// Generation returns the invalidation count of slug.
func (c *SiteCache) Generation(slug string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[slug]
}

// Set stores view unconditionally.
func (c *SiteCache) Set(ctx context.Context, slug string, view model.SiteView) {
	if err := c.views.Set(ctx, siteKeyPrefix+slug, view); err != nil {
		c.logger.WarnContext(ctx, "caching site view failed", "slug", slug, "error", err)
	}
}

// Fill stores a view loaded at generation gen. It is a no-op when slug was
// invalidated since, and removes the entry again when an invalidation
// raced with the write.
func (c *SiteCache) Fill(ctx context.Context, slug string, gen uint64, view model.SiteView) {
	if c.Generation(slug) != gen {
		return
	}
	c.Set(ctx, slug, view)
	if c.Generation(slug) != gen {
		c.delete(ctx, slug)
	}
}

func (c *SiteCache) Invalidate(ctx context.Context, slug string) {
	c.mu.Lock()
	c.gens[slug]++
	c.mu.Unlock()
	c.delete(ctx, slug)
}

func (c *SiteCache) delete(ctx context.Context, slug string) {
	if err := c.views.Delete(ctx, siteKeyPrefix+slug); err != nil {
		c.logger.WarnContext(ctx, "invalidating site view failed", "slug", slug, "error", err)
	}
}
