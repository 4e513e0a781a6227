// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wedly-admin/wedly-be/internal/model"
	"github.com/wedly-admin/wedly-be/internal/store"
)

// GuestInput holds guest fields. On update nil fields are left unchanged.
type GuestInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Email     *string
	Side      *string
	Status    *string
	Guests    *int64
	Tags      []string
	Notes     *string
}

// GuestService manages the guest list of an event.
type GuestService struct {
	db      *sql.DB
	queries *store.Queries
	logger  *slog.Logger
}

// NewGuestService creates a new GuestService.
func NewGuestService(db *sql.DB, logger *slog.Logger) *GuestService {
	return &GuestService{
		db:      db,
		queries: store.New(db),
		logger:  logger,
	}
}

// Create adds a guest. Unknown side and status values fall back to OTHER
// and PENDING.
func (s *GuestService) Create(ctx context.Context, t Tenant, in GuestInput) (model.Guest, error) {
	row := store.Guest{
		Side:      string(model.SideOther),
		Status:    string(model.GuestPending),
		PartySize: 1,
		Tags:      "[]",
	}
	if err := applyGuestInput(&row, in); err != nil {
		return model.Guest{}, err
	}
	if row.FirstName == "" {
		return model.Guest{}, badRequest("First name is required")
	}

	now := time.Now()
	created, err := s.queries.CreateGuest(ctx, store.CreateGuestParams{
		ID:        newID(),
		EventID:   t.EventID,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Phone:     row.Phone,
		Email:     row.Email,
		Side:      row.Side,
		Status:    row.Status,
		PartySize: row.PartySize,
		Tags:      row.Tags,
		Notes:     row.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.Guest{}, fmt.Errorf("creating guest: %w", err)
	}
	return guestFromStore(created), nil
}

// List returns the event's guests ordered by first name.
func (s *GuestService) List(ctx context.Context, t Tenant) ([]model.Guest, error) {
	rows, err := s.queries.ListGuests(ctx, t.EventID)
	if err != nil {
		return nil, fmt.Errorf("listing guests: %w", err)
	}
	out := make([]model.Guest, len(rows))
	for i, r := range rows {
		out[i] = guestFromStore(r)
	}
	return out, nil
}

// Get returns one guest of the event.
func (s *GuestService) Get(ctx context.Context, t Tenant, id string) (model.Guest, error) {
	row, err := getGuest(ctx, s.queries, t, id)
	if err != nil {
		return model.Guest{}, err
	}
	return guestFromStore(row), nil
}

// Update applies a partial update to a guest.
func (s *GuestService) Update(ctx context.Context, t Tenant, id string, in GuestInput) (model.Guest, error) {
	row, err := getGuest(ctx, s.queries, t, id)
	if err != nil {
		return model.Guest{}, err
	}
	if err := applyGuestInput(&row, in); err != nil {
		return model.Guest{}, err
	}
	if row.FirstName == "" {
		return model.Guest{}, badRequest("First name must not be empty")
	}

	updated, err := s.queries.UpdateGuest(ctx, store.UpdateGuestParams{
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Phone:     row.Phone,
		Email:     row.Email,
		Side:      row.Side,
		Status:    row.Status,
		PartySize: row.PartySize,
		Tags:      row.Tags,
		Notes:     row.Notes,
		UpdatedAt: time.Now(),
		ID:        row.ID,
		EventID:   t.EventID,
	})
	if err != nil {
		return model.Guest{}, fmt.Errorf("updating guest: %w", err)
	}
	return guestFromStore(updated), nil
}

// Remove deletes a guest and their seat assignment.
func (s *GuestService) Remove(ctx context.Context, t Tenant, id string) error {
	err := store.RunInTx(ctx, s.db, func(q *store.Queries) error {
		n, err := q.DeleteGuest(ctx, store.DeleteGuestParams{ID: id, EventID: t.EventID})
		if err != nil {
			return fmt.Errorf("deleting guest: %w", err)
		}
		if n == 0 {
			return notFound("Guest not found")
		}
		if err := q.DeleteSeatAssignmentsByGuest(ctx, store.DeleteSeatAssignmentsByGuestParams{
			GuestID: id,
			EventID: t.EventID,
		}); err != nil {
			return fmt.Errorf("deleting guest seat: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "guest removed", "event_id", t.EventID, "guest_id", id)
	return nil
}

func applyGuestInput(row *store.Guest, in GuestInput) error {
	if in.FirstName != nil {
		row.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		row.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Phone != nil {
		row.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Email != nil {
		row.Email = strings.TrimSpace(*in.Email)
	}
	if in.Side != nil {
		row.Side = string(model.ParseGuestSide(*in.Side))
	}
	if in.Status != nil {
		row.Status = string(model.ParseGuestStatus(*in.Status))
	}
	if in.Guests != nil {
		if *in.Guests < 1 {
			return badRequest("Guests must be at least 1")
		}
		row.PartySize = *in.Guests
	}
	if in.Tags != nil {
		tags := make([]string, 0, len(in.Tags))
		for _, tag := range in.Tags {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
		encoded, err := json.Marshal(tags)
		if err != nil {
			return fmt.Errorf("encoding tags: %w", err)
		}
		row.Tags = string(encoded)
	}
	if in.Notes != nil {
		row.Notes = *in.Notes
	}
	return nil
}

func getGuest(ctx context.Context, q *store.Queries, t Tenant, id string) (store.Guest, error) {
	row, err := q.GetGuest(ctx, store.GetGuestParams{ID: id, EventID: t.EventID})
	if errors.Is(err, sql.ErrNoRows) {
		return store.Guest{}, notFound("Guest not found")
	}
	if err != nil {
		return store.Guest{}, fmt.Errorf("loading guest: %w", err)
	}
	return row, nil
}
