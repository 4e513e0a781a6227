// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/wedly-admin/wedly-be/internal/model"
	"github.com/wedly-admin/wedly-be/internal/store"
)

// Dashboard is the overview shown on the planner home screen.
type Dashboard struct {
	TotalBudget     int64                `json:"totalBudget"`
	Spent           int64                `json:"spent"`
	Remaining       int64                `json:"remaining"`
	TotalTasks      int                  `json:"totalTasks"`
	FinishedTasks   int                  `json:"finishedTasks"`
	TotalGuests     int64                `json:"totalGuests"`
	WeddingProgress int                  `json:"weddingProgress"`
	Currency        model.Currency       `json:"currency"`
	Seating         model.SeatingSummary `json:"seating"`
}

// BudgetStats summarises spending against the account budget.
type BudgetStats struct {
	TotalBudget    int64          `json:"totalBudget"`
	Spent          int64          `json:"spent"`
	Remaining      int64          `json:"remaining"`
	TotalTasks     int            `json:"totalTasks"`
	CompletedTasks int            `json:"completedTasks"`
	Currency       model.Currency `json:"currency"`
}

// DashboardService computes read-only aggregates over one event.
type DashboardService struct {
	queries *store.Queries
	logger  *slog.Logger
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(db *sql.DB, logger *slog.Logger) *DashboardService {
	return &DashboardService{
		queries: store.New(db),
		logger:  logger,
	}
}

// Dashboard loads the account, tasks, guests and seating concurrently.
func (s *DashboardService) Dashboard(ctx context.Context, t Tenant) (Dashboard, error) {
	var (
		user    store.User
		tasks   []store.ChecklistItem
		guests  []store.Guest
		seating store.GetSeatingSummaryRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if user, err = s.queries.GetUserByID(gctx, t.UserID); err != nil {
			return fmt.Errorf("loading user: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if tasks, err = s.queries.ListChecklistItems(gctx, t.EventID); err != nil {
			return fmt.Errorf("listing checklist items: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if guests, err = s.queries.ListGuests(gctx, t.EventID); err != nil {
			return fmt.Errorf("listing guests: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if seating, err = s.queries.GetSeatingSummary(gctx, t.EventID); err != nil {
			return fmt.Errorf("loading seating summary: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	spent, done := taskTotals(tasks)
	var totalGuests int64
	for _, guest := range guests {
		totalGuests += max(guest.PartySize, 1)
	}

	return Dashboard{
		TotalBudget:     user.TotalBudget,
		Spent:           spent,
		Remaining:       user.TotalBudget - spent,
		TotalTasks:      len(tasks),
		FinishedTasks:   done,
		TotalGuests:     totalGuests,
		WeddingProgress: progress(done, len(tasks)),
		Currency:        userCurrency(user),
		Seating: model.SeatingSummary{
			Tables:   seating.Tables,
			Capacity: seating.Capacity,
			Seated:   seating.Seated,
		},
	}, nil
}

// BudgetStats totals advance payments of the event's tasks.
func (s *DashboardService) BudgetStats(ctx context.Context, t Tenant) (BudgetStats, error) {
	user, err := s.queries.GetUserByID(ctx, t.UserID)
	if err != nil {
		return BudgetStats{}, fmt.Errorf("loading user: %w", err)
	}
	tasks, err := s.queries.ListChecklistItems(ctx, t.EventID)
	if err != nil {
		return BudgetStats{}, fmt.Errorf("listing checklist items: %w", err)
	}

	spent, done := taskTotals(tasks)
	return BudgetStats{
		TotalBudget:    user.TotalBudget,
		Spent:          spent,
		Remaining:      user.TotalBudget - spent,
		TotalTasks:     len(tasks),
		CompletedTasks: done,
		Currency:       userCurrency(user),
	}, nil
}

func taskTotals(tasks []store.ChecklistItem) (spent int64, done int) {
	for _, task := range tasks {
		spent += task.AdvancePayment
		if model.NormalizeItemStatus(task.Status) == model.StatusDone {
			done++
		}
	}
	return spent, done
}

// progress is the rounded percentage of finished tasks.
func progress(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

func userCurrency(u store.User) model.Currency {
	if c, ok := model.ParseCurrency(u.Currency); ok {
		return c
	}
	return model.DefaultCurrency
}
