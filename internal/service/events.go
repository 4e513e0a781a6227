// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wedly-admin/wedly-be/internal/model"
	"github.com/wedly-admin/wedly-be/internal/store"
	"github.com/wedly-admin/wedly-be/internal/util"
)

// EventInput holds the fields of an event. On update nil fields are left
// unchanged and an empty Date clears it.
type EventInput struct {
	Title  *string
	Date   *string
	Locale *string
}

// EventService manages the events owned by a user.
type EventService struct {
	db      *sql.DB
	queries *store.Queries
	cache   SiteCache
	logger  *slog.Logger
}

// NewEventService creates a new EventService. cache may be nil.
func NewEventService(db *sql.DB, cache SiteCache, logger *slog.Logger) *EventService {
	return &EventService{
		db:      db,
		queries: store.New(db),
		cache:   cache,
		logger:  logger,
	}
}

// Create adds an event owned by userID.
func (s *EventService) Create(ctx context.Context, userID string, in EventInput) (model.Event, error) {
	title := ""
	if in.Title != nil {
		title = strings.TrimSpace(*in.Title)
	}
	if title == "" {
		return model.Event{}, badRequest("Event title is required")
	}
	locale := DefaultEventLocale
	if in.Locale != nil && strings.TrimSpace(*in.Locale) != "" {
		locale = strings.TrimSpace(*in.Locale)
	}
	date, err := parseOptionalDate(in.Date, "date")
	if err != nil {
		return model.Event{}, err
	}

	now := time.Now()
	row, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		ID:        newID(),
		OwnerID:   userID,
		Title:     title,
		Date:      date,
		Locale:    locale,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.Event{}, fmt.Errorf("creating event: %w", err)
	}
	return eventFromStore(row), nil
}

// List returns the user's events, oldest first.
func (s *EventService) List(ctx context.Context, userID string) ([]model.Event, error) {
	rows, err := s.queries.ListEventsByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	out := make([]model.Event, len(rows))
	for i, r := range rows {
		out[i] = eventFromStore(r)
	}
	return out, nil
}

// Get returns one event owned by userID.
func (s *EventService) Get(ctx context.Context, userID, id string) (model.Event, error) {
	row, err := getOwnedEvent(ctx, s.queries, userID, id)
	if err != nil {
		return model.Event{}, err
	}
	return eventFromStore(row), nil
}

// Update applies a partial update to an owned event.
func (s *EventService) Update(ctx context.Context, userID, id string, in EventInput) (model.Event, error) {
	row, err := getOwnedEvent(ctx, s.queries, userID, id)
	if err != nil {
		return model.Event{}, err
	}

	params := store.UpdateEventParams{
		Title:     row.Title,
		Date:      row.Date,
		Locale:    row.Locale,
		UpdatedAt: time.Now(),
		ID:        row.ID,
		OwnerID:   userID,
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return model.Event{}, badRequest("Event title must not be empty")
		}
		params.Title = title
	}
	if in.Locale != nil && strings.TrimSpace(*in.Locale) != "" {
		params.Locale = strings.TrimSpace(*in.Locale)
	}
	if in.Date != nil {
		if params.Date, err = parseOptionalDate(in.Date, "date"); err != nil {
			return model.Event{}, err
		}
	}

	updated, err := s.queries.UpdateEvent(ctx, params)
	if err != nil {
		return model.Event{}, fmt.Errorf("updating event: %w", err)
	}
	return eventFromStore(updated), nil
}

// Delete removes an owned event and everything scoped to it. The user's
// primary event cannot be deleted.
func (s *EventService) Delete(ctx context.Context, userID, id string) error {
	var slug string
	err := store.RunInTx(ctx, s.db, func(q *store.Queries) error {
		event, err := getOwnedEvent(ctx, q, userID, id)
		if err != nil {
			return err
		}
		user, err := q.GetUserByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("loading user: %w", err)
		}
		if user.PrimaryEventID.Valid && user.PrimaryEventID.String == event.ID {
			return badRequest("The primary event cannot be deleted")
		}

		if site, err := q.GetMicrositeByEvent(ctx, event.ID); err == nil {
			slug = site.Slug
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("loading microsite: %w", err)
		}
		return deleteEventData(ctx, q, event.ID)
	})
	if err != nil {
		return err
	}

	if s.cache != nil && slug != "" {
		s.cache.Invalidate(ctx, slug)
	}
	s.logger.InfoContext(ctx, "event deleted", "user_id", userID, "event_id", id)
	return nil
}

// deleteEventData removes every row scoped to eventID, then the event.
func deleteEventData(ctx context.Context, q *store.Queries, eventID string) error {
	steps := []struct {
		what string
		fn   func(context.Context, string) error
	}{
		{"seat assignments", q.DeleteSeatAssignmentsByEvent},
		{"tables", q.DeleteSeatingTablesByEvent},
		{"guests", q.DeleteGuestsByEvent},
		{"checklist items", q.DeleteChecklistItemsByEvent},
		{"budget items", q.DeleteBudgetItemsByEvent},
		{"media assets", q.DeleteMediaAssetsByEvent},
		{"microsite", func(ctx context.Context, id string) error {
			_, err := q.DeleteMicrositeByEvent(ctx, id)
			return err
		}},
		{"event", q.DeleteEvent},
	}
	for _, step := range steps {
		if err := step.fn(ctx, eventID); err != nil {
			return fmt.Errorf("deleting %s: %w", step.what, err)
		}
	}
	return nil
}

func getOwnedEvent(ctx context.Context, q *store.Queries, userID, id string) (store.Event, error) {
	row, err := q.GetEventForOwner(ctx, store.GetEventForOwnerParams{ID: id, OwnerID: userID})
	if errors.Is(err, sql.ErrNoRows) {
		return store.Event{}, notFound("Event not found")
	}
	if err != nil {
		return store.Event{}, fmt.Errorf("loading event: %w", err)
	}
	return row, nil
}

// parseOptionalDate converts a client date string. Nil and blank input
// yield a NULL date.
func parseOptionalDate(s *string, field string) (sql.NullTime, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return sql.NullTime{}, nil
	}
	d, err := util.ParseDate(*s)
	if err != nil {
		var issues model.Issues
		issues.Add(field, "must be YYYY-MM-DD, MM-DD-YYYY or an ISO timestamp")
		return sql.NullTime{}, invalid(issues)
	}
	return sql.NullTime{Time: d, Valid: true}, nil
}
