// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/wedly-admin/wedly-be/internal/auth"
	"github.com/wedly-admin/wedly-be/internal/model"
	"github.com/wedly-admin/wedly-be/internal/store"
	"github.com/wedly-admin/wedly-be/internal/util"
)

// Defaults for events created on behalf of a new account.
const (
	DefaultEventTitle  = "My Wedding"
	DefaultEventLocale = "en"
)

// Bounds for the per-account default table capacity.
const (
	MinDefaultTableCapacity      = 1
	MaxDefaultTableCapacity      = 20
	FallbackDefaultTableCapacity = 12
)

// Lifetimes of emailed one-time tokens.
const (
	VerifyEmailTokenTTL   = 24 * time.Hour
	ResetPasswordTokenTTL = time.Hour
)

// Purposes of account tokens.
const (
	purposeVerifyEmail   = "verify_email"
	purposeResetPassword = "reset_password"
)

// TokenIssuer issues and verifies bearer token pairs.
type TokenIssuer interface {
	IssuePair(userID string) (auth.TokenPair, error)
	ParseRefresh(token string) (string, error)
}

// Mailer delivers account emails carrying a one-time token.
type Mailer interface {
	SendVerification(ctx context.Context, to, token string) error
	SendPasswordReset(ctx context.Context, to, token string) error
}

// AuthUser is the account summary returned with a token pair.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AuthResult is the response of register, login and refresh. Token mirrors
// AccessToken for older clients.
type AuthResult struct {
	User         AuthUser `json:"user"`
	Token        string   `json:"token"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
}

// ProfilePatch is a partial profile update. Nil fields are left unchanged.
// An empty WeddingDate clears the date.
type ProfilePatch struct {
	GroomFullName        *string
	BrideFullName        *string
	WeddingDate          *string
	WeddingCountry       *string
	WeddingCity          *string
	Currency             *string
	TotalBudget          *int64
	DefaultTableCapacity *int64
}

// AccountService handles registration, authentication and the profile of
// the signed-in user.
type AccountService struct {
	db      *sql.DB
	queries *store.Queries
	hasher  *auth.Hasher
	tokens  TokenIssuer
	mailer  Mailer
	logger  *slog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(db *sql.DB, hasher *auth.Hasher, tokens TokenIssuer, mailer Mailer, logger *slog.Logger) *AccountService {
	return &AccountService{
		db:      db,
		queries: store.New(db),
		hasher:  hasher,
		tokens:  tokens,
		mailer:  mailer,
		logger:  logger,
	}
}

// Register creates an account together with its primary event.
func (s *AccountService) Register(ctx context.Context, email, password, name string) (AuthResult, error) {
	email = normalizeEmail(email)
	var issues model.Issues
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		issues.Add("email", "must be a valid email address")
	}
	if len(password) < auth.MinPasswordLength {
		issues.Add("password", "must be at least %d characters", auth.MinPasswordLength)
	}
	if err := invalid(issues); err != nil {
		return AuthResult{}, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hashing password: %w", err)
	}

	var user store.User
	err = store.RunInTx(ctx, s.db, func(q *store.Queries) error {
		if _, err := q.GetUserByEmail(ctx, email); err == nil {
			return badRequest("User with this email already exists")
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking email: %w", err)
		}

		now := time.Now()
		var err error
		user, err = q.CreateUser(ctx, store.CreateUserParams{
			ID:           newID(),
			Email:        email,
			PasswordHash: hash,
			Name:         strings.TrimSpace(name),
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if store.IsUniqueViolation(err) {
			return badRequest("User with this email already exists")
		}
		if err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
		user, err = attachPrimaryEvent(ctx, q, user, now)
		return err
	})
	if err != nil {
		return AuthResult{}, err
	}

	s.logger.InfoContext(ctx, "account registered", "user_id", user.ID)
	s.sendVerification(ctx, user)
	return s.issue(user)
}

// Login verifies credentials. Accounts created before events were
// introduced get a primary event on their first login.
func (s *AccountService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	user, err := s.queries.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return AuthResult{}, unauthorized("Invalid credentials")
	}
	if err != nil {
		return AuthResult{}, fmt.Errorf("loading user: %w", err)
	}
	if user.PasswordHash == "" {
		return AuthResult{}, unauthorized("Invalid credentials")
	}
	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		s.logger.WarnContext(ctx, "unreadable password hash", "user_id", user.ID, "error", err)
		return AuthResult{}, unauthorized("Invalid credentials")
	}
	if !ok {
		return AuthResult{}, unauthorized("Invalid credentials")
	}

	if s.hasher.NeedsRehash(user.PasswordHash) {
		if hash, err := s.hasher.Hash(password); err == nil {
			if err := s.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
				PasswordHash: hash,
				UpdatedAt:    time.Now(),
				ID:           user.ID,
			}); err != nil {
				s.logger.WarnContext(ctx, "password rehash failed", "user_id", user.ID, "error", err)
			}
		}
	}

	if !user.PrimaryEventID.Valid || user.PrimaryEventID.String == "" {
		err := store.RunInTx(ctx, s.db, func(q *store.Queries) error {
			var err error
			user, err = attachPrimaryEvent(ctx, q, user, time.Now())
			return err
		})
		if err != nil {
			return AuthResult{}, err
		}
		s.logger.InfoContext(ctx, "primary event backfilled", "user_id", user.ID, "event_id", user.PrimaryEventID.String)
	}

	return s.issue(user)
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	userID, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return AuthResult{}, unauthorized("Invalid refresh token")
	}
	user, err := s.queries.GetUserByID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return AuthResult{}, unauthorized("User not found")
	}
	if err != nil {
		return AuthResult{}, fmt.Errorf("loading user: %w", err)
	}
	return s.issue(user)
}

// Me returns the profile of the signed-in user.
func (s *AccountService) Me(ctx context.Context, userID string) (model.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	return userFromStore(user), nil
}

// UpdateProfile applies a partial profile update. An out-of-range default
// table capacity falls back to FallbackDefaultTableCapacity.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, p ProfilePatch) (model.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return model.User{}, err
	}

	params := store.UpdateUserProfileParams{
		GroomFullName:        user.GroomFullName,
		BrideFullName:        user.BrideFullName,
		WeddingDate:          user.WeddingDate,
		WeddingCountry:       user.WeddingCountry,
		WeddingCity:          user.WeddingCity,
		Currency:             user.Currency,
		TotalBudget:          user.TotalBudget,
		DefaultTableCapacity: user.DefaultTableCapacity,
		UpdatedAt:            time.Now(),
		ID:                   user.ID,
	}

	var issues model.Issues
	if p.GroomFullName != nil {
		params.GroomFullName = strings.TrimSpace(*p.GroomFullName)
	}
	if p.BrideFullName != nil {
		params.BrideFullName = strings.TrimSpace(*p.BrideFullName)
	}
	if p.WeddingDate != nil {
		if strings.TrimSpace(*p.WeddingDate) == "" {
			params.WeddingDate = sql.NullTime{}
		} else if d, err := util.ParseDate(*p.WeddingDate); err != nil {
			issues.Add("weddingDate", "must be YYYY-MM-DD, MM-DD-YYYY or an ISO timestamp")
		} else {
			params.WeddingDate = sql.NullTime{Time: d, Valid: true}
		}
	}
	if p.WeddingCountry != nil {
		params.WeddingCountry = strings.TrimSpace(*p.WeddingCountry)
	}
	if p.WeddingCity != nil {
		params.WeddingCity = strings.TrimSpace(*p.WeddingCity)
	}
	if p.Currency != nil {
		if c, ok := model.ParseCurrency(*p.Currency); ok {
			params.Currency = string(c)
		} else {
			issues.Add("currency", "must be one of RSD, EUR, USD")
		}
	}
	if p.TotalBudget != nil {
		if *p.TotalBudget < 0 {
			issues.Add("totalBudget", "must not be negative")
		}
		params.TotalBudget = *p.TotalBudget
	}
	if p.DefaultTableCapacity != nil {
		params.DefaultTableCapacity = clampDefaultCapacity(*p.DefaultTableCapacity)
	}
	if err := invalid(issues); err != nil {
		return model.User{}, err
	}

	updated, err := s.queries.UpdateUserProfile(ctx, params)
	if err != nil {
		return model.User{}, fmt.Errorf("updating profile: %w", err)
	}
	return userFromStore(updated), nil
}

// ChangePassword replaces the password after verifying the current one.
func (s *AccountService) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.queries.GetUserByID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && user.PasswordHash == "") {
		return unauthorized("Invalid credentials")
	}
	if err != nil {
		return fmt.Errorf("loading user: %w", err)
	}
	ok, err := s.hasher.Verify(current, user.PasswordHash)
	if err != nil || !ok {
		return unauthorized("Invalid current password")
	}
	if len(next) < auth.MinPasswordLength {
		return badRequest("Password must be at least %d characters", auth.MinPasswordLength)
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := s.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
		PasswordHash: hash,
		UpdatedAt:    time.Now(),
		ID:           user.ID,
	}); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	s.logger.InfoContext(ctx, "password changed", "user_id", user.ID)
	return nil
}

// ForgotPassword mails a password reset link. Unknown addresses succeed
// without sending anything so the endpoint does not reveal accounts.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	email, err := validEmail(email)
	if err != nil {
		return err
	}
	user, err := s.queries.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading user: %w", err)
	}

	token, err := s.newAccountToken(ctx, user.ID, purposeResetPassword, ResetPasswordTokenTTL)
	if err != nil {
		return err
	}
	if err := s.mailer.SendPasswordReset(ctx, user.Email, token); err != nil {
		s.logger.WarnContext(ctx, "sending password reset failed", "user_id", user.ID, "error", err)
	}
	return nil
}

// ResetPassword sets a new password using a token from ForgotPassword. The
// token and every other reset token of the account stop working.
func (s *AccountService) ResetPassword(ctx context.Context, token, password string) error {
	if len(password) < auth.MinPasswordLength {
		return badRequest("Password must be at least %d characters", auth.MinPasswordLength)
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	var userID string
	err = store.RunInTx(ctx, s.db, func(q *store.Queries) error {
		row, err := consumeAccountToken(ctx, q, token, purposeResetPassword)
		if err != nil {
			return err
		}
		userID = row.UserID
		if err := q.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
			PasswordHash: hash,
			UpdatedAt:    time.Now(),
			ID:           row.UserID,
		}); err != nil {
			return fmt.Errorf("updating password: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "password reset", "user_id", userID)
	return nil
}

// VerifyEmail marks the account of a verification token as verified.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) error {
	var userID string
	err := store.RunInTx(ctx, s.db, func(q *store.Queries) error {
		row, err := consumeAccountToken(ctx, q, token, purposeVerifyEmail)
		if err != nil {
			return err
		}
		userID = row.UserID
		now := time.Now()
		if err := q.SetUserEmailVerified(ctx, store.SetUserEmailVerifiedParams{
			EmailVerifiedAt: sql.NullTime{Time: now, Valid: true},
			UpdatedAt:       now,
			ID:              row.UserID,
		}); err != nil {
			return fmt.Errorf("verifying email: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "email verified", "user_id", userID)
	return nil
}

// ResendVerification mails a fresh verification link. Unknown and already
// verified addresses succeed without sending anything.
func (s *AccountService) ResendVerification(ctx context.Context, email string) error {
	email, err := validEmail(email)
	if err != nil {
		return err
	}
	user, err := s.queries.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading user: %w", err)
	}
	if user.EmailVerifiedAt.Valid {
		return nil
	}
	s.sendVerification(ctx, user)
	return nil
}

// SweepExpiredTokens removes account tokens past their expiry.
func (s *AccountService) SweepExpiredTokens(ctx context.Context) (int64, error) {
	n, err := s.queries.DeleteExpiredAccountTokens(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("sweeping account tokens: %w", err)
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "expired account tokens removed", "count", n)
	}
	return n, nil
}

// sendVerification mails a verification link. Failures are logged; the
// user can ask for another link.
func (s *AccountService) sendVerification(ctx context.Context, user store.User) {
	token, err := s.newAccountToken(ctx, user.ID, purposeVerifyEmail, VerifyEmailTokenTTL)
	if err != nil {
		s.logger.WarnContext(ctx, "creating verification token failed", "user_id", user.ID, "error", err)
		return
	}
	if err := s.mailer.SendVerification(ctx, user.Email, token); err != nil {
		s.logger.WarnContext(ctx, "sending verification failed", "user_id", user.ID, "error", err)
	}
}

// newAccountToken replaces the user's tokens of purpose with a new one and
// returns its raw value.
func (s *AccountService) newAccountToken(ctx context.Context, userID, purpose string, ttl time.Duration) (string, error) {
	raw, hash, err := auth.NewOneTimeToken()
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	err = store.RunInTx(ctx, s.db, func(q *store.Queries) error {
		if err := q.DeleteAccountTokensForUser(ctx, store.DeleteAccountTokensForUserParams{
			UserID: userID, Purpose: purpose,
		}); err != nil {
			return err
		}
		return q.CreateAccountToken(ctx, store.CreateAccountTokenParams{
			ID:        newID(),
			UserID:    userID,
			Purpose:   purpose,
			TokenHash: hash,
			ExpiresAt: now.Add(ttl),
			CreatedAt: now,
		})
	})
	if err != nil {
		return "", fmt.Errorf("storing %s token: %w", purpose, err)
	}
	return raw, nil
}

// consumeAccountToken checks a raw token and deletes every token of its
// user and purpose.
func consumeAccountToken(ctx context.Context, q *store.Queries, raw, purpose string) (store.AccountToken, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return store.AccountToken{}, badRequest("Invalid or expired token")
	}
	row, err := q.GetAccountTokenByHash(ctx, auth.HashOneTimeToken(raw))
	if errors.Is(err, sql.ErrNoRows) {
		return store.AccountToken{}, badRequest("Invalid or expired token")
	}
	if err != nil {
		return store.AccountToken{}, fmt.Errorf("loading token: %w", err)
	}
	if row.Purpose != purpose || !time.Now().Before(row.ExpiresAt) {
		return store.AccountToken{}, badRequest("Invalid or expired token")
	}
	if err := q.DeleteAccountTokensForUser(ctx, store.DeleteAccountTokensForUserParams{
		UserID: row.UserID, Purpose: purpose,
	}); err != nil {
		return store.AccountToken{}, fmt.Errorf("consuming token: %w", err)
	}
	return row, nil
}

func validEmail(email string) (string, error) {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		var issues model.Issues
		issues.Add("email", "must be a valid email address")
		return "", invalid(issues)
	}
	return email, nil
}

func (s *AccountService) getUser(ctx context.Context, userID string) (store.User, error) {
	user, err := s.queries.GetUserByID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return store.User{}, notFound("User not found")
	}
	if err != nil {
		return store.User{}, fmt.Errorf("loading user: %w", err)
	}
	return user, nil
}

func (s *AccountService) issue(user store.User) (AuthResult, error) {
	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issuing tokens: %w", err)
	}
	return AuthResult{
		User:         AuthUser{ID: user.ID, Email: user.Email, Name: user.Name},
		Token:        pair.AccessToken,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// attachPrimaryEvent creates the default event for user and links it.
func attachPrimaryEvent(ctx context.Context, q *store.Queries, user store.User, now time.Time) (store.User, error) {
	event, err := q.CreateEvent(ctx, store.CreateEventParams{
		ID:        newID(),
		OwnerID:   user.ID,
		Title:     DefaultEventTitle,
		Locale:    DefaultEventLocale,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return store.User{}, fmt.Errorf("creating primary event: %w", err)
	}
	if err := q.SetUserPrimaryEvent(ctx, store.SetUserPrimaryEventParams{
		PrimaryEventID: sql.NullString{String: event.ID, Valid: true},
		UpdatedAt:      now,
		ID:             user.ID,
	}); err != nil {
		return store.User{}, fmt.Errorf("linking primary event: %w", err)
	}
	user.PrimaryEventID = sql.NullString{String: event.ID, Valid: true}
	user.UpdatedAt = now
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func clampDefaultCapacity(c int64) int64 {
	if c < MinDefaultTableCapacity || c > MaxDefaultTableCapacity {
		return FallbackDefaultTableCapacity
	}
	return c
}
