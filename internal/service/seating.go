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

// DefaultTableCapacity is used when a table is created without a capacity.
const DefaultTableCapacity = 8

// SeatingService manages tables and seat assignments of one event.
//
// The capacity and single-seat-per-guest checks are read-validate-write
// sequences. Each multi-step mutation runs in one immediate transaction, so
// concurrent editors are serialised on the SQLite writer lock and a check
// cannot be invalidated before its write lands.
type SeatingService struct {
	db      *sql.DB
	queries *store.Queries
	logger  *slog.Logger
}

// NewSeatingService creates a new SeatingService.
func NewSeatingService(db *sql.DB, logger *slog.Logger) *SeatingService {
	return &SeatingService{
		db:      db,
		queries: store.New(db),
		logger:  logger,
	}
}

// TableInput holds the fields for a new table.
type TableInput struct {
	Name     string
	Capacity *int64
	Side     *string
	Order    *int64
}

// TablePatch holds a partial table update. An empty Side clears it.
type TablePatch struct {
	Name     *string
	Capacity *int64
	Side     *string
	Order    *int64
}

// SeatInput holds the fields for a new seat assignment.
type SeatInput struct {
	TableID  string
	GuestID  string
	Position *int64
}

// SeatPatch holds a partial seat assignment update.
type SeatPatch struct {
	TableID  *string
	GuestID  *string
	Position *int64
}

// PositionUpdate moves one seat to a new position within its table.
type PositionUpdate struct {
	ID       string
	Position int64
}

// CreateTable adds a table with zero assigned seats.
func (s *SeatingService) CreateTable(ctx context.Context, t Tenant, in TableInput) (model.Table, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Table{}, badRequest("Table name is required")
	}
	capacity := int64(DefaultTableCapacity)
	if in.Capacity != nil {
		capacity = *in.Capacity
	}
	if capacity < 1 {
		return model.Table{}, badRequest("Capacity must be at least 1")
	}
	var order int64
	if in.Order != nil {
		order = *in.Order
	}
	if order < 0 {
		return model.Table{}, badRequest("Order must not be negative")
	}

	now := time.Now()
	row, err := s.queries.CreateSeatingTable(ctx, store.CreateSeatingTableParams{
		ID:        newID(),
		EventID:   t.EventID,
		Name:      name,
		Capacity:  capacity,
		Side:      util.NullStringFromPtr(in.Side),
		SortOrder: order,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.Table{}, fmt.Errorf("creating table: %w", err)
	}
	return tableFromStore(row), nil
}

// ListTables returns the event's tables ordered by their display order.
func (s *SeatingService) ListTables(ctx context.Context, t Tenant) ([]model.Table, error) {
	rows, err := s.queries.ListSeatingTables(ctx, t.EventID)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	out := make([]model.Table, len(rows))
	for i, r := range rows {
		out[i] = tableFromStore(r)
	}
	return out, nil
}

// GetTable returns one table of the event.
func (s *SeatingService) GetTable(ctx context.Context, t Tenant, id string) (model.Table, error) {
	row, err := getTable(ctx, s.queries, t, id)
	if err != nil {
		return model.Table{}, err
	}
	return tableFromStore(row), nil
}

// UpdateTable applies a partial update. Capacity may not drop below the
// number of seats currently assigned to the table.
func (s *SeatingService) UpdateTable(ctx context.Context, t Tenant, id string, patch TablePatch) (model.Table, error) {
	var out store.SeatingTable
	err := store.RunInTx(ctx, s.db, func(q *store.Queries) error {
		table, err := getTable(ctx, q, t, id)
		if err != nil {
			return err
		}

		params := store.UpdateSeatingTableParams{
			Name:      table.Name,
			Capacity:  table.Capacity,
			Side:      table.Side,
			SortOrder: table.SortOrder,
			UpdatedAt: time.Now(),
			ID:        table.ID,
			EventID:   t.EventID,
		}
		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if name == "" {
				return badRequest("Table name is required")
			}
			params.Name = name
		}
		if patch.Side != nil {
			params.Side = util.NullStringFromValue(*patch.Side)
		}
		if patch.Order != nil {
			if *patch.Order < 0 {
				return badRequest("Order must not be negative")
			}
			params.SortOrder = *patch.Order
		}
		if patch.Capacity != nil {
			capacity := *patch.Capacity
			if capacity < 1 {
				return badRequest("Capacity must be at least 1")
			}
			if capacity < table.Capacity {
				assigned, err := q.CountSeatsByTable(ctx, store.CountSeatsByTableParams{TableID: table.ID, EventID: t.EventID})
				if err != nil {
					return fmt.Errorf("counting seats: %w", err)
				}
				if capacity < assigned {
					return badRequest("Capacity %d is lower than the %d seats already assigned to this table", capacity, assigned)
				}
				maxPosition, err := q.MaxSeatPositionByTable(ctx, store.MaxSeatPositionByTableParams{TableID: table.ID, EventID: t.EventID})
				if err != nil {
					return fmt.Errorf("checking seat positions: %w", err)
				}
				if maxPosition >= capacity {
					return badRequest("Capacity %d leaves a seat at position %d outside the table; move it first", capacity, maxPosition)
				}
			}
			params.Capacity = capacity
		}

		out, err = q.UpdateSeatingTable(ctx, params)
		if err != nil {
			return fmt.Errorf("updating table: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Table{}, err
	}
	return tableFromStore(out), nil
}

// RemoveTable deletes every seat assignment of the table and then the table
// itself. Returns the removed table.
func (s *SeatingService) RemoveTable(ctx context.Context, t Tenant, id string) (model.Table, error) {
	var removed store.SeatingTable
	var seats int64
	err := store.RunInTx(ctx, s.db, func(q *store.Queries) error {
		var err error
		removed, err = getTable(ctx, q, t, id)
		if err != nil {
			return err
		}
		seats, err = q.DeleteSeatAssignmentsByTable(ctx, store.DeleteSeatAssignmentsByTableParams{TableID: id, EventID: t.EventID})
		if err != nil {
			return fmt.Errorf("removing table seats: %w", err)
		}
		if err := q.DeleteSeatingTable(ctx, store.DeleteSeatingTableParams{ID: id, EventID: t.EventID}); err != nil {
			return fmt.Errorf("removing table: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Table{}, err
	}
	s.logger.InfoContext(ctx, "table removed", "table_id", id, "event_id", t.EventID, "seats_removed", seats)
	return tableFromStore(removed), nil
}

// CreateSeat assigns a guest to a table. The table and the guest must belong
// to the caller's event, the guest must not already be seated and the table
// must have a free seat. Nothing is written unless every check passes.
func (s *SeatingService) CreateSeat(ctx context.Context, t Tenant, in SeatInput) (model.Seat, error) {
	var position int64
	if in.Position != nil {
		position = *in.Position
	}
	if position < 0 {
		return model.Seat{}, badRequest("Position must not be negative")
	}

	var out store.SeatAssignment
	err := store.RunInTx(ctx, s.db, func(q *store.Queries) error {
		table, err := getTable(ctx, q, t, in.TableID)
		if err != nil {
			return err
		}
		if err := requireGuest(ctx, q, t, in.GuestID); err != nil {
			return err
		}
		if err := requireUnseated(ctx, q, t, in.GuestID); err != nil {
			return err
		}

		assigned, err := q.CountSeatsByTable(ctx, store.CountSeatsByTableParams{TableID: table.ID, EventID: t.EventID})
		if err != nil {
			return fmt.Errorf("counting seats: %w", err)
		}
		if assigned >= table.Capacity {
			return badRequest("Table is full (%d/%d seats assigned)", assigned, table.Capacity)
		}
		if position >= table.Capacity {
			return badRequest("Position %d is outside table capacity %d", position, table.Capacity)
		}

		now := time.Now()
		out, err = q.CreateSeatAssignment(ctx, store.CreateSeatAssignmentParams{
			ID:        newID(),
			EventID:   t.EventID,
			TableID:   table.ID,
			GuestID:   in.GuestID,
			Position:  position,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if store.IsUniqueViolation(err) {
			return conflict("Guest already has a seat assignment")
		}
		if err != nil {
			return fmt.Errorf("creating seat: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Seat{}, err
	}
	return seatFromStore(out), nil
}

// ListSeats returns the event's seat assignments ordered by table and position.
func (s *SeatingService) ListSeats(ctx context.Context, t Tenant) ([]model.Seat, error) {
	rows, err := s.queries.ListSeatAssignments(ctx, t.EventID)
	if err != nil {
		return nil, fmt.Errorf("listing seats: %w", err)
	}
	return seatsFromStore(rows), nil
}

// UpdateSeat moves a seat to another table, position or guest. Moving to a
// new table requires a free seat there, not counting the seat being moved.
// The resulting position must lie within the capacity of the seat's table.
func (s *SeatingService) UpdateSeat(ctx context.Context, t Tenant, id string, patch SeatPatch) (model.Seat, error) {
	var out store.SeatAssignment
	err := store.RunInTx(ctx, s.db, func(q *store.Queries) error {
		seat, err := getSeat(ctx, q, t, id)
		if err != nil {
			return err
		}

		params := store.UpdateSeatAssignmentParams{
			TableID:   seat.TableID,
			GuestID:   seat.GuestID,
			Position:  seat.Position,
			UpdatedAt: time.Now(),
			ID:        seat.ID,
			EventID:   t.EventID,
		}

		moved := patch.TableID != nil && *patch.TableID != seat.TableID
		targetID := seat.TableID
		if moved {
			targetID = *patch.TableID
		}
		table, err := getTable(ctx, q, t, targetID)
		if err != nil {
			return err
		}
		if moved {
			others, err := q.CountOtherSeatsByTable(ctx, store.CountOtherSeatsByTableParams{
				TableID:   table.ID,
				EventID:   t.EventID,
				ExcludeID: seat.ID,
			})
			if err != nil {
				return fmt.Errorf("counting seats: %w", err)
			}
			if others >= table.Capacity {
				return badRequest("Table is full (%d/%d seats assigned)", others, table.Capacity)
			}
			params.TableID = table.ID
		}

		if patch.GuestID != nil && *patch.GuestID != seat.GuestID {
			if err := requireGuest(ctx, q, t, *patch.GuestID); err != nil {
				return err
			}
			if err := requireUnseated(ctx, q, t, *patch.GuestID); err != nil {
				return err
			}
			params.GuestID = *patch.GuestID
		}

		if patch.Position != nil {
			if *patch.Position < 0 {
				return badRequest("Position must not be negative")
			}
			params.Position = *patch.Position
		}
		if (moved || patch.Position != nil) && params.Position >= table.Capacity {
			return badRequest("Position %d is outside table capacity %d", params.Position, table.Capacity)
		}

		out, err = q.UpdateSeatAssignment(ctx, params)
		if store.IsUniqueViolation(err) {
			return conflict("Guest already has a seat assignment")
		}
		if err != nil {
			return fmt.Errorf("updating seat: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Seat{}, err
	}
	return seatFromStore(out), nil
}

// RemoveSeat deletes one seat assignment and returns it.
func (s *SeatingService) RemoveSeat(ctx context.Context, t Tenant, id string) (model.Seat, error) {
	seat, err := getSeat(ctx, s.queries, t, id)
	if err != nil {
		return model.Seat{}, err
	}
	if err := s.queries.DeleteSeatAssignment(ctx, store.DeleteSeatAssignmentParams{ID: id, EventID: t.EventID}); err != nil {
		return model.Seat{}, fmt.Errorf("removing seat: %w", err)
	}
	return seatFromStore(seat), nil
}

// BatchUpdatePositions reorders seats in one all-or-nothing step. Every id
// must name a distinct seat of the caller's event and every new position
// must fit its table; otherwise nothing is written. Returns the updated
// seats ordered by table and position.
func (s *SeatingService) BatchUpdatePositions(ctx context.Context, t Tenant, updates []PositionUpdate) ([]model.Seat, error) {
	if len(updates) == 0 {
		return nil, badRequest("Body must be { updates: [{ id: string, position: number }, ...] }")
	}
	ids := make([]string, len(updates))
	for i, u := range updates {
		if u.ID == "" {
			return nil, badRequest("updates[%d].id is required", i)
		}
		if u.Position < 0 {
			return nil, badRequest("updates[%d].position must not be negative", i)
		}
		ids[i] = u.ID
	}

	var out []store.SeatAssignment
	err := store.RunInTx(ctx, s.db, func(q *store.Queries) error {
		seats, err := q.ListSeatAssignmentsByIDs(ctx, t.EventID, ids)
		if err != nil {
			return fmt.Errorf("loading seats: %w", err)
		}
		// Duplicate ids load once, so they fail here as well.
		if len(seats) != len(updates) {
			return badRequest("One or more seat assignments were not found")
		}

		byID := make(map[string]store.SeatAssignment, len(seats))
		var tableIDs []string
		seen := make(map[string]bool)
		for _, seat := range seats {
			byID[seat.ID] = seat
			if !seen[seat.TableID] {
				seen[seat.TableID] = true
				tableIDs = append(tableIDs, seat.TableID)
			}
		}

		tables, err := q.ListSeatingTablesByIDs(ctx, t.EventID, tableIDs)
		if err != nil {
			return fmt.Errorf("loading tables: %w", err)
		}
		capacity := make(map[string]int64, len(tables))
		for _, table := range tables {
			capacity[table.ID] = table.Capacity
		}

		for _, u := range updates {
			seat := byID[u.ID]
			c, ok := capacity[seat.TableID]
			if !ok {
				return badRequest("Table of seat %s was not found", u.ID)
			}
			if u.Position >= c {
				return badRequest("Position %d is outside table capacity %d", u.Position, c)
			}
		}

		now := time.Now()
		for _, u := range updates {
			if err := q.UpdateSeatPosition(ctx, store.UpdateSeatPositionParams{
				Position:  u.Position,
				UpdatedAt: now,
				ID:        u.ID,
				EventID:   t.EventID,
			}); err != nil {
				return fmt.Errorf("updating seat position: %w", err)
			}
		}

		out, err = q.ListSeatAssignmentsByIDs(ctx, t.EventID, ids)
		if err != nil {
			return fmt.Errorf("reloading seats: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return seatsFromStore(out), nil
}

// Summary returns table, capacity and seated counts for the event.
func (s *SeatingService) Summary(ctx context.Context, t Tenant) (model.SeatingSummary, error) {
	row, err := s.queries.GetSeatingSummary(ctx, t.EventID)
	if err != nil {
		return model.SeatingSummary{}, fmt.Errorf("loading seating summary: %w", err)
	}
	return model.SeatingSummary{Tables: row.Tables, Capacity: row.Capacity, Seated: row.Seated}, nil
}

// SweepOrphans removes seat assignments whose table or guest no longer
// exists in the same event.
func (s *SeatingService) SweepOrphans(ctx context.Context) (int64, error) {
	n, err := s.queries.DeleteOrphanSeatAssignments(ctx)
	if err != nil {
		return 0, fmt.Errorf("sweeping orphan seats: %w", err)
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "removed orphan seat assignments", "count", n)
	}
	return n, nil
}

func getTable(ctx context.Context, q *store.Queries, t Tenant, id string) (store.SeatingTable, error) {
	table, err := q.GetSeatingTable(ctx, store.GetSeatingTableParams{ID: id, EventID: t.EventID})
	if errors.Is(err, sql.ErrNoRows) {
		return store.SeatingTable{}, notFound("Table not found")
	}
	if err != nil {
		return store.SeatingTable{}, fmt.Errorf("loading table: %w", err)
	}
	return table, nil
}

func getSeat(ctx context.Context, q *store.Queries, t Tenant, id string) (store.SeatAssignment, error) {
	seat, err := q.GetSeatAssignment(ctx, store.GetSeatAssignmentParams{ID: id, EventID: t.EventID})
	if errors.Is(err, sql.ErrNoRows) {
		return store.SeatAssignment{}, notFound("Seat assignment not found")
	}
	if err != nil {
		return store.SeatAssignment{}, fmt.Errorf("loading seat: %w", err)
	}
	return seat, nil
}

func requireGuest(ctx context.Context, q *store.Queries, t Tenant, guestID string) error {
	_, err := getGuest(ctx, q, t, guestID)
	return err
}

func requireUnseated(ctx context.Context, q *store.Queries, t Tenant, guestID string) error {
	_, err := q.GetSeatAssignmentByGuest(ctx, store.GetSeatAssignmentByGuestParams{EventID: t.EventID, GuestID: guestID})
	if err == nil {
		return conflict("Guest already has a seat assignment")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("loading guest seat: %w", err)
	}
	return nil
}
