// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const micrositeColumns = `id, event_id, slug, status, theme, seo, draft_sections, pub_sections,
    published_at, preview_token, created_at, updated_at`

func scanMicrosite(row interface{ Scan(...any) error }) (Microsite, error) {
	var i Microsite
	err := row.Scan(
		&i.ID,
		&i.EventID,
		&i.Slug,
		&i.Status,
		&i.Theme,
		&i.Seo,
		&i.DraftSections,
		&i.PubSections,
		&i.PublishedAt,
		&i.PreviewToken,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createMicrosite = `-- name: CreateMicrosite :one
INSERT INTO microsites (id, event_id, slug, status, theme, seo, draft_sections, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + micrositeColumns

type CreateMicrositeParams struct {
	ID            string         `json:"id"`
	EventID       string         `json:"event_id"`
	Slug          string         `json:"slug"`
	Status        string         `json:"status"`
	Theme         sql.NullString `json:"theme"`
	Seo           sql.NullString `json:"seo"`
	DraftSections string         `json:"draft_sections"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (q *Queries) CreateMicrosite(ctx context.Context, arg CreateMicrositeParams) (Microsite, error) {
	row := q.db.QueryRowContext(ctx, createMicrosite,
		arg.ID,
		arg.EventID,
		arg.Slug,
		arg.Status,
		arg.Theme,
		arg.Seo,
		arg.DraftSections,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanMicrosite(row)
}

const getMicrositeByEvent = `-- name: GetMicrositeByEvent :one
SELECT ` + micrositeColumns + ` FROM microsites WHERE event_id = ?`

func (q *Queries) GetMicrositeByEvent(ctx context.Context, eventID string) (Microsite, error) {
	return scanMicrosite(q.db.QueryRowContext(ctx, getMicrositeByEvent, eventID))
}

const getMicrositeBySlug = `-- name: GetMicrositeBySlug :one
SELECT ` + micrositeColumns + ` FROM microsites WHERE slug = ?`

func (q *Queries) GetMicrositeBySlug(ctx context.Context, slug string) (Microsite, error) {
	return scanMicrosite(q.db.QueryRowContext(ctx, getMicrositeBySlug, slug))
}

const slugTakenByOtherEvent = `-- name: SlugTakenByOtherEvent :one
SELECT EXISTS (SELECT 1 FROM microsites WHERE slug = ? AND event_id != ?)`

type SlugTakenByOtherEventParams struct {
	Slug    string `json:"slug"`
	EventID string `json:"event_id"`
}

func (q *Queries) SlugTakenByOtherEvent(ctx context.Context, arg SlugTakenByOtherEventParams) (bool, error) {
	var taken bool
	err := q.db.QueryRowContext(ctx, slugTakenByOtherEvent, arg.Slug, arg.EventID).Scan(&taken)
	return taken, err
}

const updateMicrositeDraft = `-- name: UpdateMicrositeDraft :one
UPDATE microsites SET slug = ?, theme = ?, seo = ?, draft_sections = ?, updated_at = ?
WHERE event_id = ?
RETURNING ` + micrositeColumns

type UpdateMicrositeDraftParams struct {
	Slug          string         `json:"slug"`
	Theme         sql.NullString `json:"theme"`
	Seo           sql.NullString `json:"seo"`
	DraftSections string         `json:"draft_sections"`
	UpdatedAt     time.Time      `json:"updated_at"`
	EventID       string         `json:"event_id"`
}

func (q *Queries) UpdateMicrositeDraft(ctx context.Context, arg UpdateMicrositeDraftParams) (Microsite, error) {
	row := q.db.QueryRowContext(ctx, updateMicrositeDraft,
		arg.Slug,
		arg.Theme,
		arg.Seo,
		arg.DraftSections,
		arg.UpdatedAt,
		arg.EventID,
	)
	return scanMicrosite(row)
}

const updateMicrositePublication = `-- name: UpdateMicrositePublication :one
UPDATE microsites SET status = ?, pub_sections = ?, published_at = ?, updated_at = ?
WHERE event_id = ?
RETURNING ` + micrositeColumns

type UpdateMicrositePublicationParams struct {
	Status      string         `json:"status"`
	PubSections sql.NullString `json:"pub_sections"`
	PublishedAt sql.NullTime   `json:"published_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	EventID     string         `json:"event_id"`
}

func (q *Queries) UpdateMicrositePublication(ctx context.Context, arg UpdateMicrositePublicationParams) (Microsite, error) {
	row := q.db.QueryRowContext(ctx, updateMicrositePublication,
		arg.Status,
		arg.PubSections,
		arg.PublishedAt,
		arg.UpdatedAt,
		arg.EventID,
	)
	return scanMicrosite(row)
}

const updateMicrositeSlug = `-- name: UpdateMicrositeSlug :one
UPDATE microsites SET slug = ?, updated_at = ? WHERE event_id = ?
RETURNING ` + micrositeColumns

type UpdateMicrositeSlugParams struct {
	Slug      string    `json:"slug"`
	UpdatedAt time.Time `json:"updated_at"`
	EventID   string    `json:"event_id"`
}

func (q *Queries) UpdateMicrositeSlug(ctx context.Context, arg UpdateMicrositeSlugParams) (Microsite, error) {
	return scanMicrosite(q.db.QueryRowContext(ctx, updateMicrositeSlug, arg.Slug, arg.UpdatedAt, arg.EventID))
}

const updateMicrositePreviewToken = `-- name: UpdateMicrositePreviewToken :one
UPDATE microsites SET preview_token = ?, updated_at = ? WHERE event_id = ?
RETURNING ` + micrositeColumns

type UpdateMicrositePreviewTokenParams struct {
	PreviewToken sql.NullString `json:"preview_token"`
	UpdatedAt    time.Time      `json:"updated_at"`
	EventID      string         `json:"event_id"`
}

func (q *Queries) UpdateMicrositePreviewToken(ctx context.Context, arg UpdateMicrositePreviewTokenParams) (Microsite, error) {
	return scanMicrosite(q.db.QueryRowContext(ctx, updateMicrositePreviewToken, arg.PreviewToken, arg.UpdatedAt, arg.EventID))
}

const deleteMicrositeByEvent = `-- name: DeleteMicrositeByEvent :execrows
DELETE FROM microsites WHERE event_id = ?`

func (q *Queries) DeleteMicrositeByEvent(ctx context.Context, eventID string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteMicrositeByEvent, eventID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
