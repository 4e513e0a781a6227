// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const eventColumns = `id, owner_id, title, date, locale, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (Event, error) {
	var i Event
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Title,
		&i.Date,
		&i.Locale,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createEvent = `-- name: CreateEvent :one
INSERT INTO events (id, owner_id, title, date, locale, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + eventColumns

type CreateEventParams struct {
	ID        string       `json:"id"`
	OwnerID   string       `json:"owner_id"`
	Title     string       `json:"title"`
	Date      sql.NullTime `json:"date"`
	Locale    string       `json:"locale"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (Event, error) {
	row := q.db.QueryRowContext(ctx, createEvent,
		arg.ID,
		arg.OwnerID,
		arg.Title,
		arg.Date,
		arg.Locale,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanEvent(row)
}

const getEventForOwner = `-- name: GetEventForOwner :one
SELECT ` + eventColumns + ` FROM events WHERE id = ? AND owner_id = ?`

type GetEventForOwnerParams struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
}

func (q *Queries) GetEventForOwner(ctx context.Context, arg GetEventForOwnerParams) (Event, error) {
	return scanEvent(q.db.QueryRowContext(ctx, getEventForOwner, arg.ID, arg.OwnerID))
}

const listEventsByOwner = `-- name: ListEventsByOwner :many
SELECT ` + eventColumns + ` FROM events WHERE owner_id = ? ORDER BY created_at ASC, id ASC`

func (q *Queries) ListEventsByOwner(ctx context.Context, ownerID string) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx, listEventsByOwner, ownerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []Event{}
	for rows.Next() {
		i, err := scanEvent(rows)
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

const updateEvent = `-- name: UpdateEvent :one
UPDATE events SET title = ?, date = ?, locale = ?, updated_at = ?
WHERE id = ? AND owner_id = ?
RETURNING ` + eventColumns

type UpdateEventParams struct {
	Title     string       `json:"title"`
	Date      sql.NullTime `json:"date"`
	Locale    string       `json:"locale"`
	UpdatedAt time.Time    `json:"updated_at"`
	ID        string       `json:"id"`
	OwnerID   string       `json:"owner_id"`
}

func (q *Queries) UpdateEvent(ctx context.Context, arg UpdateEventParams) (Event, error) {
	row := q.db.QueryRowContext(ctx, updateEvent,
		arg.Title,
		arg.Date,
		arg.Locale,
		arg.UpdatedAt,
		arg.ID,
		arg.OwnerID,
	)
	return scanEvent(row)
}

const deleteEvent = `-- name: DeleteEvent :exec
DELETE FROM events WHERE id = ?`

func (q *Queries) DeleteEvent(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, deleteEvent, id)
	return err
}
