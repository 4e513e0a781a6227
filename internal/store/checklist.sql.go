// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const checklistItemColumns = `id, event_id, title, description, status, price, advance_payment, due_date,
    sort_order, created_at, updated_at`

func scanChecklistItem(row interface{ Scan(...any) error }) (ChecklistItem, error) {
	var i ChecklistItem
	err := row.Scan(
		&i.ID,
		&i.EventID,
		&i.Title,
		&i.Description,
		&i.Status,
		&i.Price,
		&i.AdvancePayment,
		&i.DueDate,
		&i.SortOrder,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createChecklistItem = `-- name: CreateChecklistItem :one
INSERT INTO checklist_items (id, event_id, title, description, status, price, advance_payment,
    due_date, sort_order, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + checklistItemColumns

type CreateChecklistItemParams struct {
	ID             string       `json:"id"`
	EventID        string       `json:"event_id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Status         string       `json:"status"`
	Price          int64        `json:"price"`
	AdvancePayment int64        `json:"advance_payment"`
	DueDate        sql.NullTime `json:"due_date"`
	SortOrder      int64        `json:"sort_order"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (q *Queries) CreateChecklistItem(ctx context.Context, arg CreateChecklistItemParams) (ChecklistItem, error) {
	row := q.db.QueryRowContext(ctx, createChecklistItem,
		arg.ID,
		arg.EventID,
		arg.Title,
		arg.Description,
		arg.Status,
		arg.Price,
		arg.AdvancePayment,
		arg.DueDate,
		arg.SortOrder,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanChecklistItem(row)
}

const getChecklistItem = `-- name: GetChecklistItem :one
SELECT ` + checklistItemColumns + ` FROM checklist_items WHERE id = ? AND event_id = ?`

type GetChecklistItemParams struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
}

func (q *Queries) GetChecklistItem(ctx context.Context, arg GetChecklistItemParams) (ChecklistItem, error) {
	return scanChecklistItem(q.db.QueryRowContext(ctx, getChecklistItem, arg.ID, arg.EventID))
}

const listChecklistItems = `-- name: ListChecklistItems :many
SELECT ` + checklistItemColumns + ` FROM checklist_items WHERE event_id = ?
ORDER BY sort_order ASC, created_at DESC, id DESC`

func (q *Queries) ListChecklistItems(ctx context.Context, eventID string) ([]ChecklistItem, error) {
	rows, err := q.db.QueryContext(ctx, listChecklistItems, eventID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []ChecklistItem{}
	for rows.Next() {
		i, err := scanChecklistItem(rows)
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

const updateChecklistItem = `-- name: UpdateChecklistItem :one
UPDATE checklist_items
SET title = ?, description = ?, status = ?, price = ?, advance_payment = ?, due_date = ?,
    sort_order = ?, updated_at = ?
WHERE id = ? AND event_id = ?
RETURNING ` + checklistItemColumns

type UpdateChecklistItemParams struct {
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Status         string       `json:"status"`
	Price          int64        `json:"price"`
	AdvancePayment int64        `json:"advance_payment"`
	DueDate        sql.NullTime `json:"due_date"`
	SortOrder      int64        `json:"sort_order"`
	UpdatedAt      time.Time    `json:"updated_at"`
	ID             string       `json:"id"`
	EventID        string       `json:"event_id"`
}

func (q *Queries) UpdateChecklistItem(ctx context.Context, arg UpdateChecklistItemParams) (ChecklistItem, error) {
	row := q.db.QueryRowContext(ctx, updateChecklistItem,
		arg.Title,
		arg.Description,
		arg.Status,
		arg.Price,
		arg.AdvancePayment,
		arg.DueDate,
		arg.SortOrder,
		arg.UpdatedAt,
		arg.ID,
		arg.EventID,
	)
	return scanChecklistItem(row)
}

const deleteChecklistItem = `-- name: DeleteChecklistItem :execrows
DELETE FROM checklist_items WHERE id = ? AND event_id = ?`

type DeleteChecklistItemParams struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
}

func (q *Queries) DeleteChecklistItem(ctx context.Context, arg DeleteChecklistItemParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteChecklistItem, arg.ID, arg.EventID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteChecklistItemsByEvent = `-- name: DeleteChecklistItemsByEvent :exec
DELETE FROM checklist_items WHERE event_id = ?`

func (q *Queries) DeleteChecklistItemsByEvent(ctx context.Context, eventID string) error {
	_, err := q.db.ExecContext(ctx, deleteChecklistItemsByEvent, eventID)
	return err
}
