// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

const seatingTableColumns = `id, event_id, name, capacity, side, sort_order, created_at, updated_at`

func scanSeatingTable(row interface{ Scan(...any) error }) (SeatingTable, error) {
	var i SeatingTable
	err := row.Scan(
		&i.ID,
		&i.EventID,
		&i.Name,
		&i.Capacity,
		&i.Side,
		&i.SortOrder,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func collectSeatingTables(rows *sql.Rows) ([]SeatingTable, error) {
	defer func() { _ = rows.Close() }()
	items := []SeatingTable{}
	for rows.Next() {
		i, err := scanSeatingTable(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createSeatingTable = `-- name: CreateSeatingTable :one
INSERT INTO seating_tables (id, event_id, name, capacity, side, sort_order, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + seatingTableColumns

type CreateSeatingTableParams struct {
	ID        string         `json:"id"`
	EventID   string         `json:"event_id"`
	Name      string         `json:"name"`
	Capacity  int64          `json:"capacity"`
	Side      sql.NullString `json:"side"`
	SortOrder int64          `json:"sort_order"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (q *Queries) CreateSeatingTable(ctx context.Context, arg CreateSeatingTableParams) (SeatingTable, error) {
	row := q.db.QueryRowContext(ctx, createSeatingTable,
		arg.ID,
		arg.EventID,
		arg.Name,
		arg.Capacity,
		arg.Side,
		arg.SortOrder,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanSeatingTable(row)
}

const getSeatingTable = `-- name: GetSeatingTable :one
SELECT ` + seatingTableColumns + ` FROM seating_tables WHERE id = ? AND event_id = ?`

type GetSeatingTableParams struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
}

func (q *Queries) GetSeatingTable(ctx context.Context, arg GetSeatingTableParams) (SeatingTable, error) {
	return scanSeatingTable(q.db.QueryRowContext(ctx, getSeatingTable, arg.ID, arg.EventID))
}

const listSeatingTables = `-- name: ListSeatingTables :many
SELECT ` + seatingTableColumns + ` FROM seating_tables WHERE event_id = ?
ORDER BY sort_order ASC, created_at ASC, id ASC`

func (q *Queries) ListSeatingTables(ctx context.Context, eventID string) ([]SeatingTable, error) {
	rows, err := q.db.QueryContext(ctx, listSeatingTables, eventID)
	if err != nil {
		return nil, err
	}
	return collectSeatingTables(rows)
}

const listSeatingTablesByIDs = `-- name: ListSeatingTablesByIDs :many
SELECT ` + seatingTableColumns + ` FROM seating_tables WHERE event_id = ? AND id IN (/*SLICE:ids*/?)`

func (q *Queries) ListSeatingTablesByIDs(ctx context.Context, eventID string, ids []string) ([]SeatingTable, error) {
	if len(ids) == 0 {
		return []SeatingTable{}, nil
	}
	query, args := expandSlice(listSeatingTablesByIDs, eventID, ids)
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectSeatingTables(rows)
}

const updateSeatingTable = `-- name: UpdateSeatingTable :one
UPDATE seating_tables SET name = ?, capacity = ?, side = ?, sort_order = ?, updated_at = ?
WHERE id = ? AND event_id = ?
RETURNING ` + seatingTableColumns

type UpdateSeatingTableParams struct {
	Name      string         `json:"name"`
	Capacity  int64          `json:"capacity"`
	Side      sql.NullString `json:"side"`
	SortOrder int64          `json:"sort_order"`
	UpdatedAt time.Time      `json:"updated_at"`
	ID        string         `json:"id"`
	EventID   string         `json:"event_id"`
}

func (q *Queries) UpdateSeatingTable(ctx context.Context, arg UpdateSeatingTableParams) (SeatingTable, error) {
	row := q.db.QueryRowContext(ctx, updateSeatingTable,
		arg.Name,
		arg.Capacity,
		arg.Side,
		arg.SortOrder,
		arg.UpdatedAt,
		arg.ID,
		arg.EventID,
	)
	return scanSeatingTable(row)
}

const deleteSeatingTable = `-- name: DeleteSeatingTable :exec
DELETE FROM seating_tables WHERE id = ? AND event_id = ?`

type DeleteSeatingTableParams struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
}

func (q *Queries) DeleteSeatingTable(ctx context.Context, arg DeleteSeatingTableParams) error {
	_, err := q.db.ExecContext(ctx, deleteSeatingTable, arg.ID, arg.EventID)
	return err
}

const deleteSeatingTablesByEvent = `-- name: DeleteSeatingTablesByEvent :exec
DELETE FROM seating_tables WHERE event_id = ?`

func (q *Queries) DeleteSeatingTablesByEvent(ctx context.Context, eventID string) error {
	_, err := q.db.ExecContext(ctx, deleteSeatingTablesByEvent, eventID)
	return err
}

const seatAssignmentColumns = `id, event_id, table_id, guest_id, position, created_at, updated_at`

func scanSeatAssignment(row interface{ Scan(...any) error }) (SeatAssignment, error) {
	var i SeatAssignment
	err := row.Scan(
		&i.ID,
		&i.EventID,
		&i.TableID,
		&i.GuestID,
		&i.Position,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func collectSeatAssignments(rows *sql.Rows) ([]SeatAssignment, error) {
	defer func() { _ = rows.Close() }()
	items := []SeatAssignment{}
	for rows.Next() {
		i, err := scanSeatAssignment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createSeatAssignment = `-- name: CreateSeatAssignment :one
INSERT INTO seat_assignments (id, event_id, table_id, guest_id, position, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + seatAssignmentColumns

type CreateSeatAssignmentParams struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	TableID   string    `json:"table_id"`
	GuestID   string    `json:"guest_id"`
	Position  int64     `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Queries) CreateSeatAssignment(ctx context.Context, arg CreateSeatAssignmentParams) (SeatAssignment, error) {
	row := q.db.QueryRowContext(ctx, createSeatAssignment,
		arg.ID,
		arg.EventID,
		arg.TableID,
		arg.GuestID,
		arg.Position,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanSeatAssignment(row)
}

const getSeatAssignment = `-- name: GetSeatAssignment :one
SELECT ` + seatAssignmentColumns + ` FROM seat_assignments WHERE id = ? AND event_id = ?`

type GetSeatAssignmentParams struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
}

func (q *Queries) GetSeatAssignment(ctx context.Context, arg GetSeatAssignmentParams) (SeatAssignment, error) {
	return scanSeatAssignment(q.db.QueryRowContext(ctx, getSeatAssignment, arg.ID, arg.EventID))
}

const getSeatAssignmentByGuest = `-- name: GetSeatAssignmentByGuest :one
SELECT ` + seatAssignmentColumns + ` FROM seat_assignments WHERE event_id = ? AND guest_id = ?`

type GetSeatAssignmentByGuestParams struct {
	EventID string `json:"event_id"`
	GuestID string `json:"guest_id"`
}

func (q *Queries) GetSeatAssignmentByGuest(ctx context.Context, arg GetSeatAssignmentByGuestParams) (SeatAssignment, error) {
	return scanSeatAssignment(q.db.QueryRowContext(ctx, getSeatAssignmentByGuest, arg.EventID, arg.GuestID))
}

const listSeatAssignments = `-- name: ListSeatAssignments :many
SELECT ` + seatAssignmentColumns + ` FROM seat_assignments WHERE event_id = ?
ORDER BY table_id ASC, position ASC, id ASC`

func (q *Queries) ListSeatAssignments(ctx context.Context, eventID string) ([]SeatAssignment, error) {
	rows, err := q.db.QueryContext(ctx, listSeatAssignments, eventID)
	if err != nil {
		return nil, err
	}
	return collectSeatAssignments(rows)
}

const listSeatAssignmentsByIDs = `-- name: ListSeatAssignmentsByIDs :many
SELECT ` + seatAssignmentColumns + ` FROM seat_assignments WHERE event_id = ? AND id IN (/*SLICE:ids*/?)
ORDER BY table_id ASC, position ASC, id ASC`

func (q *Queries) ListSeatAssignmentsByIDs(ctx context.Context, eventID string, ids []string) ([]SeatAssignment, error) {
	if len(ids) == 0 {
		return []SeatAssignment{}, nil
	}
	query, args := expandSlice(listSeatAssignmentsByIDs, eventID, ids)
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectSeatAssignments(rows)
}

const countSeatsByTable = `-- name: CountSeatsByTable :one
SELECT COUNT(*) FROM seat_assignments WHERE table_id = ? AND event_id = ?`

type CountSeatsByTableParams struct {
	TableID string `json:"table_id"`
	EventID string `json:"event_id"`
}

func (q *Queries) CountSeatsByTable(ctx context.Context, arg CountSeatsByTableParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countSeatsByTable, arg.TableID, arg.EventID).Scan(&count)
	return count, err
}

const maxSeatPositionByTable = `-- name: MaxSeatPositionByTable :one
SELECT COALESCE(MAX(position), -1) FROM seat_assignments WHERE table_id = ? AND event_id = ?`

type MaxSeatPositionByTableParams struct {
	TableID string `json:"table_id"`
	EventID string `json:"event_id"`
}

// MaxSeatPositionByTable returns -1 for a table without seats.
func (q *Queries) MaxSeatPositionByTable(ctx context.Context, arg MaxSeatPositionByTableParams) (int64, error) {
	var position int64
	err := q.db.QueryRowContext(ctx, maxSeatPositionByTable, arg.TableID, arg.EventID).Scan(&position)
	return position, err
}

const countOtherSeatsByTable = `-- name: CountOtherSeatsByTable :one
SELECT COUNT(*) FROM seat_assignments WHERE table_id = ? AND event_id = ? AND id != ?`

type CountOtherSeatsByTableParams struct {
	TableID   string `json:"table_id"`
	EventID   string `json:"event_id"`
	ExcludeID string `json:"exclude_id"`
}

func (q *Queries) CountOtherSeatsByTable(ctx context.Context, arg CountOtherSeatsByTableParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countOtherSeatsByTable, arg.TableID, arg.EventID, arg.ExcludeID).Scan(&count)
	return count, err
}

const updateSeatAssignment = `-- name: UpdateSeatAssignment :one
UPDATE seat_assignments SET table_id = ?, guest_id = ?, position = ?, updated_at = ?
WHERE id = ? AND event_id = ?
RETURNING ` + seatAssignmentColumns

type UpdateSeatAssignmentParams struct {
	TableID   string    `json:"table_id"`
	GuestID   string    `json:"guest_id"`
	Position  int64     `json:"position"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
}

func (q *Queries) UpdateSeatAssignment(ctx context.Context, arg UpdateSeatAssignmentParams) (SeatAssignment, error) {
	row := q.db.QueryRowContext(ctx, updateSeatAssignment,
		arg.TableID,
		arg.GuestID,
		arg.Position,
		arg.UpdatedAt,
		arg.ID,
		arg.EventID,
	)
	return scanSeatAssignment(row)
}

const updateSeatPosition = `-- name: UpdateSeatPosition :exec
UPDATE seat_assignments SET position = ?, updated_at = ? WHERE id = ? AND event_id = ?`

type UpdateSeatPositionParams struct {
	Position  int64     `json:"position"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
}

func (q *Queries) UpdateSeatPosition(ctx context.Context, arg UpdateSeatPositionParams) error {
	_, err := q.db.ExecContext(ctx, updateSeatPosition, arg.Position, arg.UpdatedAt, arg.ID, arg.EventID)
	return err
}

const deleteSeatAssignment = `-- name: DeleteSeatAssignment :exec
DELETE FROM seat_assignments WHERE id = ? AND event_id = ?`

type DeleteSeatAssignmentParams struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
}

func (q *Queries) DeleteSeatAssignment(ctx context.Context, arg DeleteSeatAssignmentParams) error {
	_, err := q.db.ExecContext(ctx, deleteSeatAssignment, arg.ID, arg.EventID)
	return err
}

const deleteSeatAssignmentsByTable = `-- name: DeleteSeatAssignmentsByTable :execrows
DELETE FROM seat_assignments WHERE table_id = ? AND event_id = ?`

type DeleteSeatAssignmentsByTableParams struct {
	TableID string `json:"table_id"`
	EventID string `json:"event_id"`
}

func (q *Queries) DeleteSeatAssignmentsByTable(ctx context.Context, arg DeleteSeatAssignmentsByTableParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteSeatAssignmentsByTable, arg.TableID, arg.EventID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteSeatAssignmentsByGuest = `-- name: DeleteSeatAssignmentsByGuest :exec
DELETE FROM seat_assignments WHERE guest_id = ? AND event_id = ?`

type DeleteSeatAssignmentsByGuestParams struct {
	GuestID string `json:"guest_id"`
	EventID string `json:"event_id"`
}

func (q *Queries) DeleteSeatAssignmentsByGuest(ctx context.Context, arg DeleteSeatAssignmentsByGuestParams) error {
	_, err := q.db.ExecContext(ctx, deleteSeatAssignmentsByGuest, arg.GuestID, arg.EventID)
	return err
}

const deleteSeatAssignmentsByEvent = `-- name: DeleteSeatAssignmentsByEvent :exec
DELETE FROM seat_assignments WHERE event_id = ?`

func (q *Queries) DeleteSeatAssignmentsByEvent(ctx context.Context, eventID string) error {
	_, err := q.db.ExecContext(ctx, deleteSeatAssignmentsByEvent, eventID)
	return err
}

const deleteOrphanSeatAssignments = `-- name: DeleteOrphanSeatAssignments :execrows
DELETE FROM seat_assignments
WHERE NOT EXISTS (
    SELECT 1 FROM seating_tables t
    WHERE t.id = seat_assignments.table_id AND t.event_id = seat_assignments.event_id
) OR NOT EXISTS (
    SELECT 1 FROM guests g
    WHERE g.id = seat_assignments.guest_id AND g.event_id = seat_assignments.event_id
)`

func (q *Queries) DeleteOrphanSeatAssignments(ctx context.Context) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteOrphanSeatAssignments)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getSeatingSummary = `-- name: GetSeatingSummary :one
SELECT
    (SELECT COUNT(*) FROM seating_tables WHERE seating_tables.event_id = ?1) AS tables,
    (SELECT COALESCE(SUM(capacity), 0) FROM seating_tables WHERE seating_tables.event_id = ?1) AS capacity,
    (SELECT COUNT(*) FROM seat_assignments WHERE seat_assignments.event_id = ?1) AS seated`

type GetSeatingSummaryRow struct {
	Tables   int64 `json:"tables"`
	Capacity int64 `json:"capacity"`
	Seated   int64 `json:"seated"`
}

func (q *Queries) GetSeatingSummary(ctx context.Context, eventID string) (GetSeatingSummaryRow, error) {
	var i GetSeatingSummaryRow
	err := q.db.QueryRowContext(ctx, getSeatingSummary, eventID).Scan(&i.Tables, &i.Capacity, &i.Seated)
	return i, err
}

// expandSlice replaces the /*SLICE:ids*/? marker with one placeholder per id.
func expandSlice(query string, eventID string, ids []string) (string, []any) {
	args := make([]any, 0, len(ids)+1)
	args = append(args, eventID)
	for _, id := range ids {
		args = append(args, id)
	}
	marks := strings.Repeat(",?", len(ids))[1:]
	return strings.Replace(query, "/*SLICE:ids*/?", marks, 1), args
}
