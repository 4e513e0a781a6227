// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const accountTokenColumns = `id, user_id, purpose, token_hash, expires_at, created_at`

func scanAccountToken(row interface{ Scan(...any) error }) (AccountToken, error) {
	var i AccountToken
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Purpose,
		&i.TokenHash,
		&i.ExpiresAt,
		&i.CreatedAt,
	)
	return i, err
}

const createAccountToken = `-- name: CreateAccountToken :exec
INSERT INTO account_tokens (id, user_id, purpose, token_hash, expires_at, created_at)
VALUES (?, ?, ?, ?, ?, ?)`

type CreateAccountTokenParams struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Purpose   string    `json:"purpose"`
	TokenHash string    `json:"token_hash"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (q *Queries) CreateAccountToken(ctx context.Context, arg CreateAccountTokenParams) error {
	_, err := q.db.ExecContext(ctx, createAccountToken,
		arg.ID,
		arg.UserID,
		arg.Purpose,
		arg.TokenHash,
		arg.ExpiresAt,
		arg.CreatedAt,
	)
	return err
}

const getAccountTokenByHash = `-- name: GetAccountTokenByHash :one
SELECT ` + accountTokenColumns + ` FROM account_tokens WHERE token_hash = ?`

func (q *Queries) GetAccountTokenByHash(ctx context.Context, tokenHash string) (AccountToken, error) {
	return scanAccountToken(q.db.QueryRowContext(ctx, getAccountTokenByHash, tokenHash))
}

const deleteAccountTokensForUser = `-- name: DeleteAccountTokensForUser :exec
DELETE FROM account_tokens WHERE user_id = ? AND purpose = ?`

type DeleteAccountTokensForUserParams struct {
	UserID  string `json:"user_id"`
	Purpose string `json:"purpose"`
}

func (q *Queries) DeleteAccountTokensForUser(ctx context.Context, arg DeleteAccountTokensForUserParams) error {
	_, err := q.db.ExecContext(ctx, deleteAccountTokensForUser, arg.UserID, arg.Purpose)
	return err
}

const deleteExpiredAccountTokens = `-- name: DeleteExpiredAccountTokens :execrows
DELETE FROM account_tokens WHERE expires_at <= ?`

func (q *Queries) DeleteExpiredAccountTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteExpiredAccountTokens, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
