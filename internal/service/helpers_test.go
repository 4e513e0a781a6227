// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wedly-admin/wedly-be/internal/auth"
	"github.com/wedly-admin/wedly-be/internal/model"
	"github.com/wedly-admin/wedly-be/internal/testutil"
)

// fastHasher keeps argon2 cheap in tests.
func fastHasher() *auth.Hasher {
	return auth.NewHasher(auth.Params{Time: 1, Memory: 64, Threads: 1, KeyLen: 16, SaltLen: 8})
}

func testTokens() *auth.TokenManager {
	return auth.NewTokenManager("test-access-secret", "test-refresh-secret", time.Minute, time.Hour)
}

func newTestAccounts(db *sql.DB) *AccountService {
	return NewAccountService(db, fastHasher(), testTokens(), newRecordingMailer(), testutil.TestLogger())
}

// recordingMailer keeps the last token mailed to each address.
type recordingMailer struct {
	mu     sync.Mutex
	verify map[string]string
	reset  map[string]string
	err    error
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{verify: make(map[string]string), reset: make(map[string]string)}
}

func (m *recordingMailer) SendVerification(_ context.Context, to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verify[to] = token
	return m.err
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset[to] = token
	return m.err
}

func (m *recordingMailer) lastVerify(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.verify[to]
}

func (m *recordingMailer) lastReset(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reset[to]
}

// newTenant registers an account and resolves its primary event.
func newTenant(t *testing.T, db *sql.DB, email string) Tenant {
	t.Helper()
	ctx := context.Background()
	res, err := newTestAccounts(db).Register(ctx, email, "secret-pass", strings.Split(email, "@")[0])
	require.NoError(t, err)
	tenant, err := NewTenantResolver(db).Resolve(ctx, res.User.ID)
	require.NoError(t, err)
	return tenant
}

func newGuest(t *testing.T, db *sql.DB, tenant Tenant, first string) model.Guest {
	t.Helper()
	g, err := NewGuestService(db, testutil.TestLogger()).Create(context.Background(), tenant, GuestInput{FirstName: &first})
	require.NoError(t, err)
	return g
}

func ptr[T any](v T) *T {
	return &v
}

// recordingCache is an in-memory SiteCache that records invalidations.
type recordingCache struct {
	mu          sync.Mutex
	views       map[string]model.SiteView
	gens        map[string]uint64
	invalidated []string
}

func newRecordingCache() *recordingCache {
	return &recordingCache{views: make(map[string]model.SiteView), gens: make(map[string]uint64)}
}

func (c *recordingCache) Get(_ context.Context, slug string) (model.SiteView, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.views[slug]
	return v, ok
}

func (c *recordingCache) Generation(slug string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[slug]
}

func (c *recordingCache) Fill(_ context.Context, slug string, gen uint64, view model.SiteView) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[slug] == gen {
		c.views[slug] = view
	}
}

func (c *recordingCache) Invalidate(_ context.Context, slug string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[slug]++
	delete(c.views, slug)
	c.invalidated = append(c.invalidated, slug)
}

func (c *recordingCache) wasInvalidated(slug string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.invalidated {
		if s == slug {
			return true
		}
	}
	return false
}
