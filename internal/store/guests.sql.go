// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const guestColumns = `id, event_id, first_name, last_name, phone, email, side, status, party_size,
    tags, notes, created_at, updated_at`

func scanGuest(row interface{ Scan(...any) error }) (Guest, error) {
	var i Guest
	err := row.Scan(
		&i.ID,
		&i.EventID,
		&i.FirstName,
		&i.LastName,
		&i.Phone,
		&i.Email,
		&i.Side,
		&i.Status,
		&i.PartySize,
		&i.Tags,
		&i.Notes,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createGuest = `-- name: CreateGuest :one
INSERT INTO guests (id, event_id, first_name, last_name, phone, email, side, status, party_size,
    tags, notes, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + guestColumns

type CreateGuestParams struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Side      string    `json:"side"`
	Status    string    `json:"status"`
	PartySize int64     `json:"party_size"`
	Tags      string    `json:"tags"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Queries) CreateGuest(ctx context.Context, arg CreateGuestParams) (Guest, error) {
	row := q.db.QueryRowContext(ctx, createGuest,
		arg.ID,
		arg.EventID,
		arg.FirstName,
		arg.LastName,
		arg.Phone,
		arg.Email,
		arg.Side,
		arg.Status,
		arg.PartySize,
		arg.Tags,
		arg.Notes,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanGuest(row)
}

const getGuest = `-- name: GetGuest :one
SELECT ` + guestColumns + ` FROM guests WHERE id = ? AND event_id = ?`

type GetGuestParams struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
}

func (q *Queries) GetGuest(ctx context.Context, arg GetGuestParams) (Guest, error) {
	return scanGuest(q.db.QueryRowContext(ctx, getGuest, arg.ID, arg.EventID))
}

const listGuests = `-- name: ListGuests :many
SELECT ` + guestColumns + ` FROM guests WHERE event_id = ? ORDER BY first_name ASC, id ASC`

func (q *Queries) ListGuests(ctx context.Context, eventID string) ([]Guest, error) {
	rows, err := q.db.QueryContext(ctx, listGuests, eventID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []Guest{}
	for rows.Next() {
		i, err := scanGuest(rows)
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

const updateGuest = `-- name: UpdateGuest :one
UPDATE guests
SET first_name = ?, last_name = ?, phone = ?, email = ?, side = ?, status = ?, party_size = ?,
    tags = ?, notes = ?, updated_at = ?
WHERE id = ? AND event_id = ?
RETURNING ` + guestColumns

type UpdateGuestParams struct {
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Side      string    `json:"side"`
	Status    string    `json:"status"`
	PartySize int64     `json:"party_size"`
	Tags      string    `json:"tags"`
	Notes     string    `json:"notes"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
}

func (q *Queries) UpdateGuest(ctx context.Context, arg UpdateGuestParams) (Guest, error) {
	row := q.db.QueryRowContext(ctx, updateGuest,
		arg.FirstName,
		arg.LastName,
		arg.Phone,
		arg.Email,
		arg.Side,
		arg.Status,
		arg.PartySize,
		arg.Tags,
		arg.Notes,
		arg.UpdatedAt,
		arg.ID,
		arg.EventID,
	)
	return scanGuest(row)
}

const deleteGuest = `-- name: DeleteGuest :execrows
DELETE FROM guests WHERE id = ? AND event_id = ?`

type DeleteGuestParams struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
}

func (q *Queries) DeleteGuest(ctx context.Context, arg DeleteGuestParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteGuest, arg.ID, arg.EventID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteGuestsByEvent = `-- name: DeleteGuestsByEvent :exec
DELETE FROM guests WHERE event_id = ?`

func (q *Queries) DeleteGuestsByEvent(ctx context.Context, eventID string) error {
	_, err := q.db.ExecContext(ctx, deleteGuestsByEvent, eventID)
	return err
}
