// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const mediaAssetColumns = `id, event_id, url, kind, alt, meta, created_at`

func scanMediaAsset(row interface{ Scan(...any) error }) (MediaAsset, error) {
	var i MediaAsset
	err := row.Scan(
		&i.ID,
		&i.EventID,
		&i.Url,
		&i.Kind,
		&i.Alt,
		&i.Meta,
		&i.CreatedAt,
	)
	return i, err
}

const createMediaAsset = `-- name: CreateMediaAsset :one
INSERT INTO media_assets (id, event_id, url, kind, alt, meta, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + mediaAssetColumns

type CreateMediaAssetParams struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Url       string    `json:"url"`
	Kind      string    `json:"kind"`
	Alt       string    `json:"alt"`
	Meta      string    `json:"meta"`
	CreatedAt time.Time `json:"created_at"`
}

func (q *Queries) CreateMediaAsset(ctx context.Context, arg CreateMediaAssetParams) (MediaAsset, error) {
	row := q.db.QueryRowContext(ctx, createMediaAsset,
		arg.ID,
		arg.EventID,
		arg.Url,
		arg.Kind,
		arg.Alt,
		arg.Meta,
		arg.CreatedAt,
	)
	return scanMediaAsset(row)
}

const listMediaAssets = `-- name: ListMediaAssets :many
SELECT ` + mediaAssetColumns + ` FROM media_assets WHERE event_id = ?
ORDER BY created_at DESC, id DESC`

func (q *Queries) ListMediaAssets(ctx context.Context, eventID string) ([]MediaAsset, error) {
	rows, err := q.db.QueryContext(ctx, listMediaAssets, eventID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []MediaAsset{}
	for rows.Next() {
		i, err := scanMediaAsset(rows)
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

const deleteMediaAssetsByEvent = `-- name: DeleteMediaAssetsByEvent :exec
DELETE FROM media_assets WHERE event_id = ?`

func (q *Queries) DeleteMediaAssetsByEvent(ctx context.Context, eventID string) error {
	_, err := q.db.ExecContext(ctx, deleteMediaAssetsByEvent, eventID)
	return err
}

const guestPhotoSubmissionColumns = `id, user_id, message, image_urls, created_at`

func scanGuestPhotoSubmission(row interface{ Scan(...any) error }) (GuestPhotoSubmission, error) {
	var i GuestPhotoSubmission
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Message,
		&i.ImageUrls,
		&i.CreatedAt,
	)
	return i, err
}

const createGuestPhotoSubmission = `-- name: CreateGuestPhotoSubmission :one
INSERT INTO guest_photo_submissions (id, user_id, message, image_urls, created_at)
VALUES (?, ?, ?, ?, ?)
RETURNING ` + guestPhotoSubmissionColumns

type CreateGuestPhotoSubmissionParams struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Message   sql.NullString `json:"message"`
	ImageUrls string         `json:"image_urls"`
	CreatedAt time.Time      `json:"created_at"`
}

func (q *Queries) CreateGuestPhotoSubmission(ctx context.Context, arg CreateGuestPhotoSubmissionParams) (GuestPhotoSubmission, error) {
	row := q.db.QueryRowContext(ctx, createGuestPhotoSubmission,
		arg.ID,
		arg.UserID,
		arg.Message,
		arg.ImageUrls,
		arg.CreatedAt,
	)
	return scanGuestPhotoSubmission(row)
}

const listGuestPhotoSubmissions = `-- name: ListGuestPhotoSubmissions :many
SELECT ` + guestPhotoSubmissionColumns + ` FROM guest_photo_submissions WHERE user_id = ?
ORDER BY created_at DESC, id DESC`

func (q *Queries) ListGuestPhotoSubmissions(ctx context.Context, userID string) ([]GuestPhotoSubmission, error) {
	rows, err := q.db.QueryContext(ctx, listGuestPhotoSubmissions, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []GuestPhotoSubmission{}
	for rows.Next() {
		i, err := scanGuestPhotoSubmission(rows)
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

const countGuestPhotoImages = `-- name: CountGuestPhotoImages :one
SELECT COALESCE(SUM(json_array_length(image_urls)), 0) FROM guest_photo_submissions WHERE user_id = ?`

func (q *Queries) CountGuestPhotoImages(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countGuestPhotoImages, userID).Scan(&count)
	return count, err
}
