// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wedly-admin/wedly-be/internal/store"
)

// Tenant is the resolved tenancy boundary of one request. Every nested
// resource read or written on behalf of the caller must carry EventID.
type Tenant struct {
	UserID  string
	EventID string
}

// TenantResolver maps an authenticated user to their primary event.
type TenantResolver struct {
	queries *store.Queries
}

// NewTenantResolver creates a new TenantResolver.
func NewTenantResolver(db *sql.DB) *TenantResolver {
	return &TenantResolver{queries: store.New(db)}
}

// Resolve returns the caller's tenant. Fails with NotFound when the user is
// missing or was never linked to a primary event.
func (r *TenantResolver) Resolve(ctx context.Context, userID string) (Tenant, error) {
	user, err := r.queries.GetUserByID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return Tenant{}, notFound("User primary event not found")
	}
	if err != nil {
		return Tenant{}, fmt.Errorf("loading user: %w", err)
	}
	if !user.PrimaryEventID.Valid || user.PrimaryEventID.String == "" {
		return Tenant{}, notFound("User primary event not found")
	}
	return Tenant{UserID: user.ID, EventID: user.PrimaryEventID.String}, nil
}

// ResolveEvent returns the tenant of an event addressed by ID. Events owned
// by someone else are reported as missing.
func (r *TenantResolver) ResolveEvent(ctx context.Context, userID, eventID string) (Tenant, error) {
	if eventID == "" {
		return Tenant{}, notFound("Event not found")
	}
	event, err := getOwnedEvent(ctx, r.queries, userID, eventID)
	if err != nil {
		return Tenant{}, err
	}
	return Tenant{UserID: userID, EventID: event.ID}, nil
}
