// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const userColumns = `id, email, password_hash, name, groom_full_name, bride_full_name, wedding_date,
    wedding_country, wedding_city, currency, total_budget, default_table_capacity, primary_event_id,
    email_verified_at, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.PasswordHash,
		&i.Name,
		&i.GroomFullName,
		&i.BrideFullName,
		&i.WeddingDate,
		&i.WeddingCountry,
		&i.WeddingCity,
		&i.Currency,
		&i.TotalBudget,
		&i.DefaultTableCapacity,
		&i.PrimaryEventID,
		&i.EmailVerifiedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createUser = `-- name: CreateUser :one
INSERT INTO users (id, email, password_hash, name, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING ` + userColumns

type CreateUserParams struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, createUser,
		arg.ID,
		arg.Email,
		arg.PasswordHash,
		arg.Name,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanUser(row)
}

const getUserByID = `-- name: GetUserByID :one
SELECT ` + userColumns + ` FROM users WHERE id = ?`

func (q *Queries) GetUserByID(ctx context.Context, id string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByID, id))
}

const getUserByEmail = `-- name: GetUserByEmail :one
SELECT ` + userColumns + ` FROM users WHERE email = ?`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByEmail, email))
}

const updateUserProfile = `-- name: UpdateUserProfile :one
UPDATE users
SET groom_full_name = ?, bride_full_name = ?, wedding_date = ?, wedding_country = ?,
    wedding_city = ?, currency = ?, total_budget = ?, default_table_capacity = ?, updated_at = ?
WHERE id = ?
RETURNING ` + userColumns

type UpdateUserProfileParams struct {
	GroomFullName        string       `json:"groom_full_name"`
	BrideFullName        string       `json:"bride_full_name"`
	WeddingDate          sql.NullTime `json:"wedding_date"`
	WeddingCountry       string       `json:"wedding_country"`
	WeddingCity          string       `json:"wedding_city"`
	Currency             string       `json:"currency"`
	TotalBudget          int64        `json:"total_budget"`
	DefaultTableCapacity int64        `json:"default_table_capacity"`
	UpdatedAt            time.Time    `json:"updated_at"`
	ID                   string       `json:"id"`
}

func (q *Queries) UpdateUserProfile(ctx context.Context, arg UpdateUserProfileParams) (User, error) {
	row := q.db.QueryRowContext(ctx, updateUserProfile,
		arg.GroomFullName,
		arg.BrideFullName,
		arg.WeddingDate,
		arg.WeddingCountry,
		arg.WeddingCity,
		arg.Currency,
		arg.TotalBudget,
		arg.DefaultTableCapacity,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanUser(row)
}

const updateUserPassword = `-- name: UpdateUserPassword :exec
UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`

type UpdateUserPasswordParams struct {
	PasswordHash string    `json:"password_hash"`
	UpdatedAt    time.Time `json:"updated_at"`
	ID           string    `json:"id"`
}

func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error {
	_, err := q.db.ExecContext(ctx, updateUserPassword, arg.PasswordHash, arg.UpdatedAt, arg.ID)
	return err
}

const setUserPrimaryEvent = `-- name: SetUserPrimaryEvent :exec
UPDATE users SET primary_event_id = ?, updated_at = ? WHERE id = ?`

type SetUserPrimaryEventParams struct {
	PrimaryEventID sql.NullString `json:"primary_event_id"`
	UpdatedAt      time.Time      `json:"updated_at"`
	ID             string         `json:"id"`
}

func (q *Queries) SetUserPrimaryEvent(ctx context.Context, arg SetUserPrimaryEventParams) error {
	_, err := q.db.ExecContext(ctx, setUserPrimaryEvent, arg.PrimaryEventID, arg.UpdatedAt, arg.ID)
	return err
}

const setUserEmailVerified = `-- name: SetUserEmailVerified :exec
UPDATE users SET email_verified_at = ?, updated_at = ? WHERE id = ?`

type SetUserEmailVerifiedParams struct {
	EmailVerifiedAt sql.NullTime `json:"email_verified_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
	ID              string       `json:"id"`
}

func (q *Queries) SetUserEmailVerified(ctx context.Context, arg SetUserEmailVerifiedParams) error {
	_, err := q.db.ExecContext(ctx, setUserEmailVerified, arg.EmailVerifiedAt, arg.UpdatedAt, arg.ID)
	return err
}
