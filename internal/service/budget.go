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

// BudgetInput holds budget item fields. On update nil fields are left
// unchanged and an empty DueDate clears it.
type BudgetInput struct {
	Category *string
	Title    *string
	Planned  *int64
	Paid     *int64
	Status   *string
	DueDate  *string
	Notes    *string
	Order    *int64
}

// BudgetService manages the budget lines of an event.
type BudgetService struct {
	queries *store.Queries
	logger  *slog.Logger
}

// NewBudgetService creates a new BudgetService.
func NewBudgetService(db *sql.DB, logger *slog.Logger) *BudgetService {
	return &BudgetService{
		queries: store.New(db),
		logger:  logger,
	}
}

// Create adds a budget item. Category and title are required.
func (s *BudgetService) Create(ctx context.Context, t Tenant, in BudgetInput) (model.BudgetItem, error) {
	row := store.BudgetItem{Status: string(model.StatusTodo)}
	if err := applyBudgetInput(&row, in); err != nil {
		return model.BudgetItem{}, err
	}
	if err := requireBudgetNames(row); err != nil {
		return model.BudgetItem{}, err
	}

	now := time.Now()
	created, err := s.queries.CreateBudgetItem(ctx, store.CreateBudgetItemParams{
		ID:        newID(),
		EventID:   t.EventID,
		Category:  row.Category,
		Title:     row.Title,
		Planned:   row.Planned,
		Paid:      row.Paid,
		Status:    row.Status,
		DueDate:   row.DueDate,
		Notes:     row.Notes,
		SortOrder: row.SortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.BudgetItem{}, fmt.Errorf("creating budget item: %w", err)
	}
	return budgetItemFromStore(created), nil
}

// List returns the event's budget items by display order.
func (s *BudgetService) List(ctx context.Context, t Tenant) ([]model.BudgetItem, error) {
	rows, err := s.queries.ListBudgetItems(ctx, t.EventID)
	if err != nil {
		return nil, fmt.Errorf("listing budget items: %w", err)
	}
	out := make([]model.BudgetItem, len(rows))
	for i, r := range rows {
		out[i] = budgetItemFromStore(r)
	}
	return out, nil
}

// Get returns one budget item of the event.
func (s *BudgetService) Get(ctx context.Context, t Tenant, id string) (model.BudgetItem, error) {
	row, err := s.get(ctx, t, id)
	if err != nil {
		return model.BudgetItem{}, err
	}
	return budgetItemFromStore(row), nil
}

// Update applies a partial update to a budget item.
func (s *BudgetService) Update(ctx context.Context, t Tenant, id string, in BudgetInput) (model.BudgetItem, error) {
	row, err := s.get(ctx, t, id)
	if err != nil {
		return model.BudgetItem{}, err
	}
	row.Status = string(model.NormalizeItemStatus(row.Status))
	if err := applyBudgetInput(&row, in); err != nil {
		return model.BudgetItem{}, err
	}
	if err := requireBudgetNames(row); err != nil {
		return model.BudgetItem{}, err
	}

	updated, err := s.queries.UpdateBudgetItem(ctx, store.UpdateBudgetItemParams{
		Category:  row.Category,
		Title:     row.Title,
		Planned:   row.Planned,
		Paid:      row.Paid,
		Status:    row.Status,
		DueDate:   row.DueDate,
		Notes:     row.Notes,
		SortOrder: row.SortOrder,
		UpdatedAt: time.Now(),
		ID:        row.ID,
		EventID:   t.EventID,
	})
	if err != nil {
		return model.BudgetItem{}, fmt.Errorf("updating budget item: %w", err)
	}
	return budgetItemFromStore(updated), nil
}

// Remove deletes a budget item.
func (s *BudgetService) Remove(ctx context.Context, t Tenant, id string) error {
	n, err := s.queries.DeleteBudgetItem(ctx, store.DeleteBudgetItemParams{ID: id, EventID: t.EventID})
	if err != nil {
		return fmt.Errorf("deleting budget item: %w", err)
	}
	if n == 0 {
		return notFound("Budget item not found")
	}
	return nil
}

func (s *BudgetService) get(ctx context.Context, t Tenant, id string) (store.BudgetItem, error) {
	row, err := s.queries.GetBudgetItem(ctx, store.GetBudgetItemParams{ID: id, EventID: t.EventID})
	if errors.Is(err, sql.ErrNoRows) {
		return store.BudgetItem{}, notFound("Budget item not found")
	}
	if err != nil {
		return store.BudgetItem{}, fmt.Errorf("loading budget item: %w", err)
	}
	return row, nil
}

func applyBudgetInput(row *store.BudgetItem, in BudgetInput) error {
	var issues model.Issues
	if in.Category != nil {
		row.Category = strings.TrimSpace(*in.Category)
	}
	if in.Title != nil {
		row.Title = strings.TrimSpace(*in.Title)
	}
	if in.Status != nil {
		if st, ok := model.ParseItemStatus(*in.Status); ok {
			row.Status = string(st)
		} else {
			issues.Add("status", "must be one of TODO, IN_PROGRESS, DONE")
		}
	}
	if in.Notes != nil {
		row.Notes = *in.Notes
	}
	nonNegative(&issues, "planned", in.Planned, &row.Planned)
	nonNegative(&issues, "paid", in.Paid, &row.Paid)
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

func requireBudgetNames(row store.BudgetItem) error {
	var issues model.Issues
	if row.Category == "" {
		issues.Add("category", "is required")
	}
	if row.Title == "" {
		issues.Add("title", "is required")
	}
	return invalid(issues)
}
