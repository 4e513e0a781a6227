// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wedly-admin/wedly-be/internal/model"
	"github.com/wedly-admin/wedly-be/internal/testutil"
)

func TestDashboard(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewDashboardService(db, testutil.TestLogger())
	tenant := newTenant(t, db, "anna@example.com")
	ctx := context.Background()

	empty, err := svc.Dashboard(ctx, tenant)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.WeddingProgress)
	assert.Equal(t, model.CurrencyRSD, empty.Currency)

	_, err = newTestAccounts(db).UpdateProfile(ctx, tenant.UserID, ProfilePatch{
		TotalBudget: ptr(int64(10000)),
		Currency:    ptr("EUR"),
	})
	require.NoError(t, err)

	tasks := NewChecklistService(db, testutil.TestLogger())
	for _, in := range []ChecklistInput{
		{Title: ptr("Venue"), Status: ptr("DONE"), AdvancePayment: ptr(int64(2000))},
		{Title: ptr("Band"), Status: ptr("completed"), AdvancePayment: ptr(int64(500))},
		{Title: ptr("Cake")},
	} {
		_, err := tasks.Create(ctx, tenant, in)
		require.NoError(t, err)
	}

	guests := NewGuestService(db, testutil.TestLogger())
	_, err = guests.Create(ctx, tenant, GuestInput{FirstName: ptr("Ana"), Guests: ptr(int64(3))})
	require.NoError(t, err)
	_, err = guests.Create(ctx, tenant, GuestInput{FirstName: ptr("Bojan")})
	require.NoError(t, err)

	_, err = NewSeatingService(db, testutil.TestLogger()).CreateTable(ctx, tenant, TableInput{Name: "T", Capacity: ptr(int64(10))})
	require.NoError(t, err)

	d, err := svc.Dashboard(ctx, tenant)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), d.TotalBudget)
	assert.Equal(t, int64(2500), d.Spent)
	assert.Equal(t, int64(7500), d.Remaining)
	assert.Equal(t, 3, d.TotalTasks)
	assert.Equal(t, 2, d.FinishedTasks)
	assert.Equal(t, int64(4), d.TotalGuests)
	assert.Equal(t, 67, d.WeddingProgress)
	assert.Equal(t, model.CurrencyEUR, d.Currency)
	assert.Equal(t, model.SeatingSummary{Tables: 1, Capacity: 10, Seated: 0}, d.Seating)

	stats, err := svc.BudgetStats(ctx, tenant)
	require.NoError(t, err)
	assert.Equal(t, BudgetStats{
		TotalBudget:    10000,
		Spent:          2500,
		Remaining:      7500,
		TotalTasks:     3,
		CompletedTasks: 2,
		Currency:       model.CurrencyEUR,
	}, stats)
}

func TestProgress(t *testing.T) {
	tests := []struct {
		done, total, want int
	}{
		{0, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{5, 5, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, progress(tt.done, tt.total), "%d/%d", tt.done, tt.total)
	}
}
