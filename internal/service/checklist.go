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
)

// ChecklistInput holds checklist item fields. On update nil fields are left
// unchanged and an empty DueDate clears it.
type ChecklistInput struct {
	Title          *string
	Note           *string
	Status         *string
	Price          *int64
	AdvancePayment *int64
	DueDate        *string
	Order          *int64
}

// ChecklistService manages the planning tasks of an event.
type ChecklistService struct {
	queries *store.Queries
	logger  *slog.Logger
}

// NewChecklistService creates a new ChecklistService.
func NewChecklistService(db *sql.DB, logger *slog.Logger) *ChecklistService {
	return &ChecklistService{
		queries: store.New(db),
		logger:  logger,
	}
}

// Create adds a checklist item.
func (s *ChecklistService) Create(ctx context.Context, t Tenant, in ChecklistInput) (model.ChecklistItem, error) {
	row := store.ChecklistItem{Status: string(model.StatusTodo)}
	if err := applyChecklistInput(&row, in); err != nil {
		return model.ChecklistItem{}, err
	}
	if row.Title == "" {
		return model.ChecklistItem{}, badRequest("Title is required")
	}

	now := time.Now()
	created, err := s.queries.CreateChecklistItem(ctx, store.CreateChecklistItemParams{
		ID:             newID(),
		EventID:        t.EventID,
		Title:          row.Title,
		Description:    row.Description,
		Status:         row.Status,
		Price:          row.Price,
		AdvancePayment: row.AdvancePayment,
		DueDate:        row.DueDate,
		SortOrder:      row.SortOrder,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return model.ChecklistItem{}, fmt.Errorf("creating checklist item: %w", err)
	}
	return checklistItemFromStore(created), nil
}

// List returns the event's checklist items by display order, newest first
// among items of the same order.
func (s *ChecklistService) List(ctx context.Context, t Tenant) ([]model.ChecklistItem, error) {
	rows, err := s.queries.ListChecklistItems(ctx, t.EventID)
	if err != nil {
		return nil, fmt.Errorf("listing checklist items: %w", err)
	}
	out := make([]model.ChecklistItem, len(rows))
	for i, r := range rows {
		out[i] = checklistItemFromStore(r)
	}
	return out, nil
}

// Get returns one checklist item of the event.
func (s *ChecklistService) Get(ctx context.Context, t Tenant, id string) (model.ChecklistItem, error) {
	row, err := s.get(ctx, t, id)
	if err != nil {
		return model.ChecklistItem{}, err
	}
	return checklistItemFromStore(row), nil
}

// Update applies a partial update to a checklist item.
func (s *ChecklistService) Update(ctx context.Context, t Tenant, id string, in ChecklistInput) (model.ChecklistItem, error) {
	row, err := s.get(ctx, t, id)
	if err != nil {
		return model.ChecklistItem{}, err
	}
	row.Status = string(model.NormalizeItemStatus(row.Status))
	if err := applyChecklistInput(&row, in); err != nil {
		return model.ChecklistItem{}, err
	}
	if row.Title == "" {
		return model.ChecklistItem{}, badRequest("Title must not be empty")
	}

	updated, err := s.queries.UpdateChecklistItem(ctx, store.UpdateChecklistItemParams{
		Title:          row.Title,
		Description:    row.Description,
		Status:         row.Status,
		Price:          row.Price,
		AdvancePayment: row.AdvancePayment,
		DueDate:        row.DueDate,
		SortOrder:      row.SortOrder,
		UpdatedAt:      time.Now(),
		ID:             row.ID,
		EventID:        t.EventID,
	})
	if err != nil {
		return model.ChecklistItem{}, fmt.Errorf("updating checklist item: %w", err)
	}
	return checklistItemFromStore(updated), nil
}

// Remove deletes a checklist item.
func (s *ChecklistService) Remove(ctx context.Context, t Tenant, id string) error {
	n, err := s.queries.DeleteChecklistItem(ctx, store.DeleteChecklistItemParams{ID: id, EventID: t.EventID})
	if err != nil {
		return fmt.Errorf("deleting checklist item: %w", err)
	}
	if n == 0 {
		return notFound("Task not found")
	}
	return nil
}

func (s *ChecklistService) get(ctx context.Context, t Tenant, id string) (store.ChecklistItem, error) {
	row, err := s.queries.GetChecklistItem(ctx, store.GetChecklistItemParams{ID: id, EventID: t.EventID})
	if errors.Is(err, sql.ErrNoRows) {
		return store.ChecklistItem{}, notFound("Task not found")
	}
	if err != nil {
		return store.ChecklistItem{}, fmt.Errorf("loading checklist item: %w", err)
	}
	return row, nil
}

func applyChecklistInput(row *store.ChecklistItem, in ChecklistInput) error {
	var issues model.Issues
	if in.Title != nil {
		row.Title = strings.TrimSpace(*in.Title)
	}
	if in.Note != nil {
		row.Description = *in.Note
	}
	if in.Status != nil {
		if st, ok := model.ParseItemStatus(*in.Status); ok {
			row.Status = string(st)
		} else {
			issues.Add("status", "must be one of TODO, IN_PROGRESS, DONE")
		}
	}
	nonNegative(&issues, "price", in.Price, &row.Price)
	nonNegative(&issues, "advancePayment", in.AdvancePayment, &row.AdvancePayment)
	nonNegative(&issues, "order", in.Order, &row.SortOrder)
	if in.DueDate != nil {
		d, err := parseOptionalDate(in.DueDate, "dueDate")
		if err != nil {
			return err
		}
		row.DueDate = d
	}
	return invalid(issues)
}

// nonNegative copies v into dst when set, recording an issue if negative.
func nonNegative(issues *model.Issues, field string, v *int64, dst *int64) {
	if v == nil {
		return
	}
	if *v < 0 {
		issues.Add(field, "must not be negative")
		return
	}
	*dst = *v
}
