// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const budgetItemColumns = `id, event_id, category, title, planned, paid, status, due_date, notes,
    sort_order, created_at, updated_at`

func scanBudgetItem(row interface{ Scan(...any) error }) (BudgetItem, error) {
	var i BudgetItem
	err := row.Scan(
		&i.ID,
		&i.EventID,
		&i.Category,
		&i.Title,
		&i.Planned,
		&i.Paid,
		&i.Status,
		&i.DueDate,
		&i.Notes,
		&i.SortOrder,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createBudgetItem = `-- name: CreateBudgetItem :one
INSERT INTO budget_items (id, event_id, category, title, planned, paid, status, due_date, notes,
    sort_order, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + budgetItemColumns

type CreateBudgetItemParams struct {
	ID        string       `json:"id"`
	EventID   string       `json:"event_id"`
	Category  string       `json:"category"`
	Title     string       `json:"title"`
	Planned   int64        `json:"planned"`
	Paid      int64        `json:"paid"`
	Status    string       `json:"status"`
	DueDate   sql.NullTime `json:"due_date"`
	Notes     string       `json:"notes"`
	SortOrder int64        `json:"sort_order"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (q *Queries) CreateBudgetItem(ctx context.Context, arg CreateBudgetItemParams) (BudgetItem, error) {
	row := q.db.QueryRowContext(ctx, createBudgetItem,
		arg.ID,
		arg.EventID,
		arg.Category,
		arg.Title,
		arg.Planned,
		arg.Paid,
		arg.Status,
		arg.DueDate,
		arg.Notes,
		arg.SortOrder,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanBudgetItem(row)
}

const getBudgetItem = `-- name: GetBudgetItem :one
SELECT ` + budgetItemColumns + ` FROM budget_items WHERE id = ? AND event_id = ?`

type GetBudgetItemParams struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
}

func (q *Queries) GetBudgetItem(ctx context.Context, arg GetBudgetItemParams) (BudgetItem, error) {
	return scanBudgetItem(q.db.QueryRowContext(ctx, getBudgetItem, arg.ID, arg.EventID))
}

const listBudgetItems = `-- name: ListBudgetItems :many
SELECT ` + budgetItemColumns + ` FROM budget_items WHERE event_id = ?
ORDER BY sort_order ASC, created_at ASC, id ASC`

func (q *Queries) ListBudgetItems(ctx context.Context, eventID string) ([]BudgetItem, error) {
	rows, err := q.db.QueryContext(ctx, listBudgetItems, eventID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []BudgetItem{}
	for rows.Next() {
		i, err := scanBudgetItem(rows)
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

const updateBudgetItem = `-- name: UpdateBudgetItem :one
UPDATE budget_items
SET category = ?, title = ?, planned = ?, paid = ?, status = ?, due_date = ?, notes = ?,
    sort_order = ?, updated_at = ?
WHERE id = ? AND event_id = ?
RETURNING ` + budgetItemColumns

type UpdateBudgetItemParams struct {
	Category  string       `json:"category"`
	Title     string       `json:"title"`
	Planned   int64        `json:"planned"`
	Paid      int64        `json:"paid"`
	Status    string       `json:"status"`
	DueDate   sql.NullTime `json:"due_date"`
	Notes     string       `json:"notes"`
	SortOrder int64        `json:"sort_order"`
	UpdatedAt time.Time    `json:"updated_at"`
	ID        string       `json:"id"`
	EventID   string       `json:"event_id"`
}

func (q *Queries) UpdateBudgetItem(ctx context.Context, arg UpdateBudgetItemParams) (BudgetItem, error) {
	row := q.db.QueryRowContext(ctx, updateBudgetItem,
		arg.Category,
		arg.Title,
		arg.Planned,
		arg.Paid,
		arg.Status,
		arg.DueDate,
		arg.Notes,
		arg.SortOrder,
		arg.UpdatedAt,
		arg.ID,
		arg.EventID,
	)
	return scanBudgetItem(row)
}

const deleteBudgetItem = `-- name: DeleteBudgetItem :execrows
DELETE FROM budget_items WHERE id = ? AND event_id = ?`

type DeleteBudgetItemParams struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
}

func (q *Queries) DeleteBudgetItem(ctx context.Context, arg DeleteBudgetItemParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteBudgetItem, arg.ID, arg.EventID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteBudgetItemsByEvent = `-- name: DeleteBudgetItemsByEvent :exec
DELETE FROM budget_items WHERE event_id = ?`

func (q *Queries) DeleteBudgetItemsByEvent(ctx context.Context, eventID string) error {
	_, err := q.db.ExecContext(ctx, deleteBudgetItemsByEvent, eventID)
	return err
}
