// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wedly-admin/wedly-be/internal/auth"
	"github.com/wedly-admin/wedly-be/internal/cache"
	"github.com/wedly-admin/wedly-be/internal/imaging"
	"github.com/wedly-admin/wedly-be/internal/middleware"
	"github.com/wedly-admin/wedly-be/internal/service"
	"github.com/wedly-admin/wedly-be/internal/storage"
	"github.com/wedly-admin/wedly-be/internal/testutil"
)

// testAPI is a router wired to real services over a temporary database.
type testAPI struct {
	t       *testing.T
	router  http.Handler
	login   *middleware.LoginProtection
	mailbox *mailbox
}

// mailbox keeps the last token mailed to each address, keyed by kind.
type mailbox struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (m *mailbox) put(kind, to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[kind+":"+to] = token
	return nil
}

func (m *mailbox) SendVerification(_ context.Context, to, token string) error {
	return m.put("verify", to, token)
}

func (m *mailbox) SendPasswordReset(_ context.Context, to, token string) error {
	return m.put("reset", to, token)
}

func (m *mailbox) last(kind, to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[kind+":"+to]
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db := testutil.TestDB(t)
	logger := testutil.TestLogger()
	tokens := auth.NewTokenManager("api-test-access-secret", "api-test-refresh-secret", time.Minute, time.Hour)
	hasher := auth.NewHasher(auth.Params{Time: 1, Memory: 64, Threads: 1, KeyLen: 16, SaltLen: 8})
	sites := cache.NewSiteCache(cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute}), logger)
	uploadsDir := t.TempDir()
	objects := storage.New(uploadsDir, "/uploads")
	login := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		IPRateLimit:       1000,
		IPBurst:           1000,
		MaxFailedAttempts: 3,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Hour,
	})

	tenants := service.NewTenantResolver(db)
	box := &mailbox{tokens: make(map[string]string)}
	h := NewHandler(Deps{
		DB:           db,
		Logger:       logger,
		Tokens:       tokens,
		Tenants:      tenants,
		EventTenants: tenants,
		Accounts:     service.NewAccountService(db, hasher, tokens, box, logger),
		Events:       service.NewEventService(db, sites, logger),
		Guests:       service.NewGuestService(db, logger),
		Checklist:    service.NewChecklistService(db, logger),
		Budget:       service.NewBudgetService(db, logger),
		Seating:      service.NewSeatingService(db, logger),
		Microsites:   service.NewMicrositeService(db, sites, logger),
		Media:        service.NewMediaService(db, objects, logger),
		GuestPhotos:  service.NewGuestPhotoService(db, objects, imaging.NewProcessor(64, 80), logger),
		Dashboard:    service.NewDashboardService(db, logger),
		Login:        login,
		UploadsDir:   uploadsDir,
		UploadsURL:   "/uploads",
	})
	return &testAPI{t: t, router: h.Routes(), login: login, mailbox: box}
}

// do sends a JSON request. body may be nil, a string sent verbatim, or a
// value that is marshalled.
func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(a.t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// register creates an account and returns its access token and user ID.
func (a *testAPI) register(email string) (token, userID string) {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/auth/register", "", map[string]string{
		"email": email, "password": "secret-pass", "name": "Test",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	data := decodeData(a.t, rec)
	user := data["user"].(map[string]any)
	return data["accessToken"].(string), user["_id"].(string)
}

// decodeData returns the "data" object of a success envelope.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env.Data
}

// decodeList returns the "data" array of a success envelope.
func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var env struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env.Data
}

// decodeError returns the error detail of a failure envelope.
func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()
	var env ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env.Error
}

type filePart struct {
	field string
	name  string
	data  []byte
}

// multipartBody builds a body holding one file.
func multipartBody(t *testing.T, field, name string, data []byte) (io.Reader, string) {
	t.Helper()
	return multipartFiles(t, nil, filePart{field: field, name: name, data: data})
}

// multipartFiles builds a body holding text fields and files.
func multipartFiles(t *testing.T, fields map[string]string, files ...filePart) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = fw.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}
