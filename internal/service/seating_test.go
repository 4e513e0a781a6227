// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wedly-admin/wedly-be/internal/store"
	"github.com/wedly-admin/wedly-be/internal/testutil"
)

func TestCreateTable(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewSeatingService(db, testutil.TestLogger())
	tenant := newTenant(t, db, "anna@example.com")
	ctx := context.Background()

	table, err := svc.CreateTable(ctx, tenant, TableInput{Name: "  Family  "})
	require.NoError(t, err)
	assert.Equal(t, "Family", table.Name)
	assert.Equal(t, int64(DefaultTableCapacity), table.Capacity)
	assert.Equal(t, int64(0), table.Order)
	assert.Nil(t, table.Side)
	assert.Equal(t, tenant.EventID, table.EventID)

	tests := []struct {
		name string
		in   TableInput
	}{
		{"empty name", TableInput{Name: " "}},
		{"zero capacity", TableInput{Name: "T", Capacity: ptr(int64(0))}},
		{"negative order", TableInput{Name: "T", Order: ptr(int64(-1))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTable(ctx, tenant, tt.in)
			assert.ErrorIs(t, err, ErrBadRequest)
		})
	}
}

func TestListTablesOrdered(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewSeatingService(db, testutil.TestLogger())
	tenant := newTenant(t, db, "anna@example.com")
	ctx := context.Background()

	for i, name := range []string{"C", "A", "B"} {
		_, err := svc.CreateTable(ctx, tenant, TableInput{Name: name, Order: ptr(int64(2 - i))})
		require.NoError(t, err)
	}
	tables, err := svc.ListTables(ctx, tenant)
	require.NoError(t, err)
	require.Len(t, tables, 3)
	assert.Equal(t, []string{"B", "A", "C"}, []string{tables[0].Name, tables[1].Name, tables[2].Name})
}

func TestTenantIsolation(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewSeatingService(db, testutil.TestLogger())
	ctx := context.Background()
	alice := newTenant(t, db, "alice@example.com")
	bob := newTenant(t, db, "bob@example.com")

	table, err := svc.CreateTable(ctx, alice, TableInput{Name: "Alice table"})
	require.NoError(t, err)
	guest := newGuest(t, db, alice, "Marko")

	_, err = svc.GetTable(ctx, bob, table.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.UpdateTable(ctx, bob, table.ID, TablePatch{Name: ptr("Mine")})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.RemoveTable(ctx, bob, table.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Bob cannot seat Alice's guest even at his own table.
	bobTable, err := svc.CreateTable(ctx, bob, TableInput{Name: "Bob table"})
	require.NoError(t, err)
	_, err = svc.CreateSeat(ctx, bob, SeatInput{TableID: bobTable.ID, GuestID: guest.ID})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.CreateSeat(ctx, bob, SeatInput{TableID: table.ID, GuestID: guest.ID})
	assert.ErrorIs(t, err, ErrNotFound)

	tables, err := svc.ListTables(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, tables, 1)
}

func TestCreateSeatChecks(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewSeatingService(db, testutil.TestLogger())
	tenant := newTenant(t, db, "anna@example.com")
	ctx := context.Background()

	table, err := svc.CreateTable(ctx, tenant, TableInput{Name: "Small", Capacity: ptr(int64(2))})
	require.NoError(t, err)
	g1 := newGuest(t, db, tenant, "Ana")
	g2 := newGuest(t, db, tenant, "Bojan")
	g3 := newGuest(t, db, tenant, "Ceca")

	seat, err := svc.CreateSeat(ctx, tenant, SeatInput{TableID: table.ID, GuestID: g1.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(0), seat.Position)

	_, err = svc.CreateSeat(ctx, tenant, SeatInput{TableID: table.ID, GuestID: g1.ID, Position: ptr(int64(1))})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.CreateSeat(ctx, tenant, SeatInput{TableID: table.ID, GuestID: g2.ID, Position: ptr(int64(2))})
	assert.ErrorIs(t, err, ErrBadRequest, "position outside capacity")

	_, err = svc.CreateSeat(ctx, tenant, SeatInput{TableID: table.ID, GuestID: g2.ID, Position: ptr(int64(-1))})
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = svc.CreateSeat(ctx, tenant, SeatInput{TableID: table.ID, GuestID: g2.ID, Position: ptr(int64(1))})
	require.NoError(t, err)

	_, err = svc.CreateSeat(ctx, tenant, SeatInput{TableID: table.ID, GuestID: g3.ID})
	assert.ErrorIs(t, err, ErrBadRequest, "table full")
	assert.Contains(t, err.Error(), "Table is full")

	_, err = svc.CreateSeat(ctx, tenant, SeatInput{TableID: "missing", GuestID: g3.ID})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Table not found", err.Error())

	_, err = svc.CreateSeat(ctx, tenant, SeatInput{TableID: table.ID, GuestID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Guest not found", err.Error())

	seats, err := svc.ListSeats(ctx, tenant)
	require.NoError(t, err)
	assert.Len(t, seats, 2)
}

func TestCreateSeatConcurrentCapacity(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewSeatingService(db, testutil.TestLogger())
	tenant := newTenant(t, db, "anna@example.com")
	ctx := context.Background()

	table, err := svc.CreateTable(ctx, tenant, TableInput{Name: "Race", Capacity: ptr(int64(3))})
	require.NoError(t, err)

	const guests = 10
	ids := make([]string, guests)
	for i := range ids {
		ids[i] = newGuest(t, db, tenant, fmt.Sprintf("Guest %d", i)).ID
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var ok int
	for i := 0; i < guests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.CreateSeat(ctx, tenant, SeatInput{TableID: table.ID, GuestID: ids[i], Position: ptr(int64(i % 3))})
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 3, ok)
	summary, err := svc.Summary(ctx, tenant)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.Seated)
}

func TestUpdateTableCapacity(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewSeatingService(db, testutil.TestLogger())
	tenant := newTenant(t, db, "anna@example.com")
	ctx := context.Background()

	table, err := svc.CreateTable(ctx, tenant, TableInput{Name: "T", Capacity: ptr(int64(4))})
	require.NoError(t, err)
	for i, name := range []string{"A", "B", "C"} {
		g := newGuest(t, db, tenant, name)
		_, err := svc.CreateSeat(ctx, tenant, SeatInput{TableID: table.ID, GuestID: g.ID, Position: ptr(int64(i))})
		require.NoError(t, err)
	}

	_, err = svc.UpdateTable(ctx, tenant, table.ID, TablePatch{Capacity: ptr(int64(2))})
	assert.ErrorIs(t, err, ErrBadRequest)

	updated, err := svc.UpdateTable(ctx, tenant, table.ID, TablePatch{
		Capacity: ptr(int64(3)),
		Side:     ptr("BRIDE"),
		Name:     ptr("Bride family"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated.Capacity)
	assert.Equal(t, "Bride family", updated.Name)
	require.NotNil(t, updated.Side)
	assert.Equal(t, "BRIDE", *updated.Side)

	cleared, err := svc.UpdateTable(ctx, tenant, table.ID, TablePatch{Side: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, cleared.Side)

	_, err = svc.UpdateTable(ctx, tenant, table.ID, TablePatch{Capacity: ptr(int64(0))})
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestUpdateTableCapacityKeepsPositionsInside(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewSeatingService(db, testutil.TestLogger())
	tenant := newTenant(t, db, "anna@example.com")
	ctx := context.Background()

	table, err := svc.CreateTable(ctx, tenant, TableInput{Name: "T", Capacity: ptr(int64(8))})
	require.NoError(t, err)
	g := newGuest(t, db, tenant, "Ana")
	_, err = svc.CreateSeat(ctx, tenant, SeatInput{TableID: table.ID, GuestID: g.ID, Position: ptr(int64(7))})
	require.NoError(t, err)

	// One seat fits by count, but position 7 would fall outside a table of 1.
	_, err = svc.UpdateTable(ctx, tenant, table.ID, TablePatch{Capacity: ptr(int64(1))})
	assert.ErrorIs(t, err, ErrBadRequest)
	got, err := svc.GetTable(ctx, tenant, table.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(8), got.Capacity)

	updated, err := svc.UpdateTable(ctx, tenant, table.ID, TablePatch{Capacity: ptr(int64(8))})
	require.NoError(t, err)
	assert.Equal(t, int64(8), updated.Capacity)
	_, err = svc.UpdateTable(ctx, tenant, table.ID, TablePatch{Capacity: ptr(int64(7))})
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestRemoveTableCascades(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewSeatingService(db, testutil.TestLogger())
	tenant := newTenant(t, db, "anna@example.com")
	ctx := context.Background()

	keep, err := svc.CreateTable(ctx, tenant, TableInput{Name: "Keep"})
	require.NoError(t, err)
	drop, err := svc.CreateTable(ctx, tenant, TableInput{Name: "Drop"})
	require.NoError(t, err)
	g1 := newGuest(t, db, tenant, "A")
	g2 := newGuest(t, db, tenant, "B")
	_, err = svc.CreateSeat(ctx, tenant, SeatInput{TableID: keep.ID, GuestID: g1.ID})
	require.NoError(t, err)
	_, err = svc.CreateSeat(ctx, tenant, SeatInput{TableID: drop.ID, GuestID: g2.ID})
	require.NoError(t, err)

	removed, err := svc.RemoveTable(ctx, tenant, drop.ID)
	require.NoError(t, err)
	assert.Equal(t, "Drop", removed.Name)

	seats, err := svc.ListSeats(ctx, tenant)
	require.NoError(t, err)
	require.Len(t, seats, 1)
	assert.Equal(t, keep.ID, seats[0].TableID)

	// The guest of the removed table can be seated again.
	_, err = svc.CreateSeat(ctx, tenant, SeatInput{TableID: keep.ID, GuestID: g2.ID, Position: ptr(int64(1))})
	assert.NoError(t, err)
}

func TestUpdateSeat(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewSeatingService(db, testutil.TestLogger())
	tenant := newTenant(t, db, "anna@example.com")
	ctx := context.Background()

	big, err := svc.CreateTable(ctx, tenant, TableInput{Name: "Big", Capacity: ptr(int64(4))})
	require.NoError(t, err)
	one, err := svc.CreateTable(ctx, tenant, TableInput{Name: "One", Capacity: ptr(int64(1))})
	require.NoError(t, err)
	g1 := newGuest(t, db, tenant, "A")
	g2 := newGuest(t, db, tenant, "B")
	g3 := newGuest(t, db, tenant, "C")

	s1, err := svc.CreateSeat(ctx, tenant, SeatInput{TableID: big.ID, GuestID: g1.ID, Position: ptr(int64(3))})
	require.NoError(t, err)
	s2, err := svc.CreateSeat(ctx, tenant, SeatInput{TableID: one.ID, GuestID: g2.ID})
	require.NoError(t, err)

	// Moving to a full table fails.
	_, err = svc.UpdateSeat(ctx, tenant, s1.ID, SeatPatch{TableID: &one.ID, Position: ptr(int64(0))})
	assert.ErrorIs(t, err, ErrBadRequest)

	// Moving keeps position 3, which does not fit a single seat table.
	_, err = svc.UpdateSeat(ctx, tenant, s2.ID, SeatPatch{TableID: &big.ID})
	require.NoError(t, err)
	_, err = svc.UpdateSeat(ctx, tenant, s1.ID, SeatPatch{TableID: &one.ID})
	assert.ErrorIs(t, err, ErrBadRequest)

	moved, err := svc.UpdateSeat(ctx, tenant, s1.ID, SeatPatch{TableID: &one.ID, Position: ptr(int64(0))})
	require.NoError(t, err)
	assert.Equal(t, one.ID, moved.TableID)
	assert.Equal(t, int64(0), moved.Position)

	// A seat already at its table does not count against itself.
	same, err := svc.UpdateSeat(ctx, tenant, s1.ID, SeatPatch{TableID: &one.ID})
	require.NoError(t, err)
	assert.Equal(t, one.ID, same.TableID)

	// Swapping in an already seated guest conflicts; an unseated one works.
	_, err = svc.UpdateSeat(ctx, tenant, s1.ID, SeatPatch{GuestID: &g2.ID})
	assert.ErrorIs(t, err, ErrConflict)
	swapped, err := svc.UpdateSeat(ctx, tenant, s1.ID, SeatPatch{GuestID: &g3.ID})
	require.NoError(t, err)
	assert.Equal(t, g3.ID, swapped.GuestID)

	_, err = svc.UpdateSeat(ctx, tenant, "missing", SeatPatch{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBatchUpdatePositions(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewSeatingService(db, testutil.TestLogger())
	tenant := newTenant(t, db, "anna@example.com")
	other := newTenant(t, db, "other@example.com")
	ctx := context.Background()

	table, err := svc.CreateTable(ctx, tenant, TableInput{Name: "T", Capacity: ptr(int64(3))})
	require.NoError(t, err)
	var seats []string
	for i, name := range []string{"A", "B", "C"} {
		g := newGuest(t, db, tenant, name)
		s, err := svc.CreateSeat(ctx, tenant, SeatInput{TableID: table.ID, GuestID: g.ID, Position: ptr(int64(i))})
		require.NoError(t, err)
		seats = append(seats, s.ID)
	}

	out, err := svc.BatchUpdatePositions(ctx, tenant, []PositionUpdate{
		{ID: seats[0], Position: 2},
		{ID: seats[2], Position: 0},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, seats[2], out[0].ID)
	assert.Equal(t, int64(0), out[0].Position)
	assert.Equal(t, seats[0], out[1].ID)
	assert.Equal(t, int64(2), out[1].Position)

	failing := []struct {
		name    string
		tenant  Tenant
		updates []PositionUpdate
	}{
		{"empty", tenant, nil},
		{"missing id", tenant, []PositionUpdate{{ID: "", Position: 0}}},
		{"negative", tenant, []PositionUpdate{{ID: seats[1], Position: -1}}},
		{"unknown seat", tenant, []PositionUpdate{{ID: seats[1], Position: 0}, {ID: "nope", Position: 1}}},
		{"duplicate", tenant, []PositionUpdate{{ID: seats[1], Position: 0}, {ID: seats[1], Position: 1}}},
		{"over capacity", tenant, []PositionUpdate{{ID: seats[1], Position: 0}, {ID: seats[0], Position: 3}}},
		{"foreign tenant", other, []PositionUpdate{{ID: seats[1], Position: 0}}},
	}
	for _, tt := range failing {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.BatchUpdatePositions(ctx, tt.tenant, tt.updates)
			assert.ErrorIs(t, err, ErrBadRequest)
		})
	}

	// Failed batches wrote nothing.
	all, err := svc.ListSeats(ctx, tenant)
	require.NoError(t, err)
	positions := map[string]int64{}
	for _, s := range all {
		positions[s.ID] = s.Position
	}
	assert.Equal(t, map[string]int64{seats[0]: 2, seats[1]: 1, seats[2]: 0}, positions)
}

func TestRemoveSeatAndSummary(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewSeatingService(db, testutil.TestLogger())
	tenant := newTenant(t, db, "anna@example.com")
	ctx := context.Background()

	t1, err := svc.CreateTable(ctx, tenant, TableInput{Name: "T1", Capacity: ptr(int64(5))})
	require.NoError(t, err)
	_, err = svc.CreateTable(ctx, tenant, TableInput{Name: "T2", Capacity: ptr(int64(7))})
	require.NoError(t, err)
	g := newGuest(t, db, tenant, "A")
	seat, err := svc.CreateSeat(ctx, tenant, SeatInput{TableID: t1.ID, GuestID: g.ID})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, tenant)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Tables)
	assert.Equal(t, int64(12), summary.Capacity)
	assert.Equal(t, int64(1), summary.Seated)

	removed, err := svc.RemoveSeat(ctx, tenant, seat.ID)
	require.NoError(t, err)
	assert.Equal(t, seat.ID, removed.ID)
	_, err = svc.RemoveSeat(ctx, tenant, seat.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSweepOrphans(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewSeatingService(db, testutil.TestLogger())
	tenant := newTenant(t, db, "anna@example.com")
	ctx := context.Background()

	table, err := svc.CreateTable(ctx, tenant, TableInput{Name: "T"})
	require.NoError(t, err)
	g1 := newGuest(t, db, tenant, "A")
	g2 := newGuest(t, db, tenant, "B")
	_, err = svc.CreateSeat(ctx, tenant, SeatInput{TableID: table.ID, GuestID: g1.ID})
	require.NoError(t, err)
	_, err = svc.CreateSeat(ctx, tenant, SeatInput{TableID: table.ID, GuestID: g2.ID, Position: ptr(int64(1))})
	require.NoError(t, err)

	// Delete a guest row directly, bypassing the cascading service path.
	_, err = store.New(db).DeleteGuest(ctx, store.DeleteGuestParams{ID: g2.ID, EventID: tenant.EventID})
	require.NoError(t, err)

	n, err := svc.SweepOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	seats, err := svc.ListSeats(ctx, tenant)
	require.NoError(t, err)
	require.Len(t, seats, 1)
	assert.Equal(t, g1.ID, seats[0].GuestID)
}
