// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/wedly-admin/wedly-be/internal/logging"
	"github.com/wedly-admin/wedly-be/internal/service"
)

// ContextKey is the type of context keys set by this package.
type ContextKey string

const (
	ContextKeyUserID ContextKey = "user_id"
	ContextKeyTenant ContextKey = "tenant"
)

// AccessTokenParser validates an access token and returns its subject.
type AccessTokenParser interface {
	ParseAccess(token string) (string, error)
}

// TenantResolver maps an authenticated user to their tenant.
type TenantResolver interface {
	Resolve(ctx context.Context, userID string) (service.Tenant, error)
}

// BearerAuth rejects requests without a valid "Authorization: Bearer"
// access token and stores the user ID in the request context.
func BearerAuth(tokens AccessTokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized", "Missing bearer token")
				return
			}
			userID, err := tokens.ParseAccess(raw)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, userID)
			ctx = logging.WithUserID(ctx, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// EventTenantResolver checks that an explicitly addressed event belongs to
// the caller.
type EventTenantResolver interface {
	ResolveEvent(ctx context.Context, userID, eventID string) (service.Tenant, error)
}

// ResolveTenant resolves the caller's primary event. It must run after
// BearerAuth.
func ResolveTenant(resolver TenantResolver) func(http.Handler) http.Handler {
	return tenantMiddleware(func(r *http.Request, userID string) (service.Tenant, error) {
		return resolver.Resolve(r.Context(), userID)
	})
}

// ResolveEventTenant scopes the request to the event named by eventID(r).
// Events the caller does not own answer 404. It must run after BearerAuth.
func ResolveEventTenant(resolver EventTenantResolver, eventID func(*http.Request) string) func(http.Handler) http.Handler {
	return tenantMiddleware(func(r *http.Request, userID string) (service.Tenant, error) {
		return resolver.ResolveEvent(r.Context(), userID, eventID(r))
	})
}

func tenantMiddleware(resolve func(r *http.Request, userID string) (service.Tenant, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r)
			if userID == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
				return
			}

			tenant, err := resolve(r, userID)
			if err != nil {
				var se *service.Error
				if errors.As(err, &se) && se.Kind == service.KindNotFound {
					writeError(w, http.StatusNotFound, "not_found", se.Message)
					return
				}
				slog.ErrorContext(r.Context(), "resolving tenant failed", "error", err)
				writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyTenant, tenant)
			ctx = logging.WithEventID(ctx, tenant.EventID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID returns the authenticated user ID, or "".
func GetUserID(r *http.Request) string {
	id, _ := r.Context().Value(ContextKeyUserID).(string)
	return id
}

// GetTenant returns the tenant set by ResolveTenant or ResolveEventTenant.
func GetTenant(r *http.Request) (service.Tenant, bool) {
	t, ok := r.Context().Value(ContextKeyTenant).(service.Tenant)
	return t, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
