// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wedly-admin/wedly-be/internal/model"
	"github.com/wedly-admin/wedly-be/internal/store"
	"github.com/wedly-admin/wedly-be/internal/testutil"
)

func TestGuestRegistry(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewGuestService(db, testutil.TestLogger())
	tenant := newTenant(t, db, "anna@example.com")
	other := newTenant(t, db, "bob@example.com")
	ctx := context.Background()

	_, err := svc.Create(ctx, tenant, GuestInput{LastName: ptr("NoFirst")})
	assert.ErrorIs(t, err, ErrBadRequest)
	_, err = svc.Create(ctx, tenant, GuestInput{FirstName: ptr("Zed"), Guests: ptr(int64(0))})
	assert.ErrorIs(t, err, ErrBadRequest)

	zed, err := svc.Create(ctx, tenant, GuestInput{
		FirstName: ptr("Zed"),
		Side:      ptr("martian"),
		Status:    ptr("maybe"),
		Tags:      []string{" vip ", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, model.SideOther, zed.Side)
	assert.Equal(t, model.GuestPending, zed.Status)
	assert.Equal(t, int64(1), zed.Guests)
	assert.Equal(t, []string{"vip"}, zed.Tags)

	ana, err := svc.Create(ctx, tenant, GuestInput{FirstName: ptr("Ana"), Side: ptr("bride"), Guests: ptr(int64(2))})
	require.NoError(t, err)
	assert.Equal(t, model.SideBride, ana.Side)

	guests, err := svc.List(ctx, tenant)
	require.NoError(t, err)
	require.Len(t, guests, 2)
	assert.Equal(t, "Ana", guests[0].FirstName)
	assert.Equal(t, "Zed", guests[1].FirstName)

	updated, err := svc.Update(ctx, tenant, zed.ID, GuestInput{Status: ptr("COMING"), Notes: ptr("vegan")})
	require.NoError(t, err)
	assert.Equal(t, model.GuestComing, updated.Status)
	assert.Equal(t, "vegan", updated.Notes)
	assert.Equal(t, []string{"vip"}, updated.Tags)

	_, err = svc.Get(ctx, other, zed.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Remove(ctx, other, zed.ID), ErrNotFound)
}

func TestRemoveGuestRemovesSeat(t *testing.T) {
	db := testutil.TestDB(t)
	guests := NewGuestService(db, testutil.TestLogger())
	seating := NewSeatingService(db, testutil.TestLogger())
	tenant := newTenant(t, db, "anna@example.com")
	ctx := context.Background()

	table, err := seating.CreateTable(ctx, tenant, TableInput{Name: "T", Capacity: ptr(int64(1))})
	require.NoError(t, err)
	g := newGuest(t, db, tenant, "Ana")
	_, err = seating.CreateSeat(ctx, tenant, SeatInput{TableID: table.ID, GuestID: g.ID})
	require.NoError(t, err)

	require.NoError(t, guests.Remove(ctx, tenant, g.ID))
	seats, err := seating.ListSeats(ctx, tenant)
	require.NoError(t, err)
	assert.Empty(t, seats)

	// The freed seat is available again.
	g2 := newGuest(t, db, tenant, "Bojan")
	_, err = seating.CreateSeat(ctx, tenant, SeatInput{TableID: table.ID, GuestID: g2.ID})
	assert.NoError(t, err)
}

func TestChecklistRegistry(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewChecklistService(db, testutil.TestLogger())
	tenant := newTenant(t, db, "anna@example.com")
	ctx := context.Background()

	_, err := svc.Create(ctx, tenant, ChecklistInput{})
	assert.ErrorIs(t, err, ErrBadRequest)
	_, err = svc.Create(ctx, tenant, ChecklistInput{Title: ptr("Band"), Price: ptr(int64(-5))})
	assert.ErrorIs(t, err, ErrBadRequest)
	_, err = svc.Create(ctx, tenant, ChecklistInput{Title: ptr("Band"), Status: ptr("someday")})
	assert.ErrorIs(t, err, ErrBadRequest)

	item, err := svc.Create(ctx, tenant, ChecklistInput{
		Title:          ptr("Book venue"),
		Note:           ptr("call on Monday"),
		Status:         ptr("pending"),
		Price:          ptr(int64(5000)),
		AdvancePayment: ptr(int64(1000)),
		DueDate:        ptr("2027-03-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusTodo, item.Status)
	assert.Equal(t, "call on Monday", item.Note)
	require.NotNil(t, item.DueDate)

	done, err := svc.Update(ctx, tenant, item.ID, ChecklistInput{Status: ptr("completed")})
	require.NoError(t, err)
	assert.Equal(t, model.StatusDone, done.Status)
	assert.Equal(t, int64(5000), done.Price)

	items, err := svc.List(ctx, tenant)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, svc.Remove(ctx, tenant, item.ID))
	_, err = svc.Get(ctx, tenant, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Remove(ctx, tenant, item.ID), ErrNotFound)
}

func TestChecklistListsNewestFirst(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewChecklistService(db, testutil.TestLogger())
	tenant := newTenant(t, db, "anna@example.com")
	ctx := context.Background()
	q := store.New(db)

	base := time.Date(2027, 1, 1, 12, 0, 0, 0, time.UTC)
	add := func(title string, order int64, age time.Duration) {
		t.Helper()
		_, err := q.CreateChecklistItem(ctx, store.CreateChecklistItemParams{
			ID:        uuid.NewString(),
			EventID:   tenant.EventID,
			Title:     title,
			Status:    string(model.StatusTodo),
			SortOrder: order,
			CreatedAt: base.Add(-age),
			UpdatedAt: base.Add(-age),
		})
		require.NoError(t, err)
	}
	add("oldest", 0, 3*time.Hour)
	add("newest", 0, time.Minute)
	add("middle", 0, time.Hour)
	add("later in order", 1, 0)

	items, err := svc.List(ctx, tenant)
	require.NoError(t, err)
	titles := make([]string, len(items))
	for i, it := range items {
		titles[i] = it.Title
	}
	assert.Equal(t, []string{"newest", "middle", "oldest", "later in order"}, titles)
}

func TestBudgetRegistry(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewBudgetService(db, testutil.TestLogger())
	tenant := newTenant(t, db, "anna@example.com")
	other := newTenant(t, db, "bob@example.com")
	ctx := context.Background()

	_, err := svc.Create(ctx, tenant, BudgetInput{Title: ptr("Cake")})
	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "category", se.Issues[0].Field)

	_, err = svc.Create(ctx, tenant, BudgetInput{Category: ptr("Food"), Title: ptr("Cake"), Paid: ptr(int64(-1))})
	assert.ErrorIs(t, err, ErrBadRequest)

	item, err := svc.Create(ctx, tenant, BudgetInput{
		Category: ptr("Food"),
		Title:    ptr("Cake"),
		Planned:  ptr(int64(300)),
		Order:    ptr(int64(2)),
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusTodo, item.Status)

	first, err := svc.Create(ctx, tenant, BudgetInput{Category: ptr("Venue"), Title: ptr("Hall"), Order: ptr(int64(1))})
	require.NoError(t, err)

	items, err := svc.List(ctx, tenant)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].ID)

	updated, err := svc.Update(ctx, tenant, item.ID, BudgetInput{Paid: ptr(int64(150)), Status: ptr("in_progress")})
	require.NoError(t, err)
	assert.Equal(t, int64(150), updated.Paid)
	assert.Equal(t, int64(300), updated.Planned)
	assert.Equal(t, model.StatusInProgress, updated.Status)

	_, err = svc.Update(ctx, tenant, item.ID, BudgetInput{Title: ptr("")})
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = svc.Get(ctx, other, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, svc.Remove(ctx, tenant, item.ID))
}
