// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/wedly-admin/wedly-be/internal/middleware"
	"github.com/wedly-admin/wedly-be/internal/model"
	"github.com/wedly-admin/wedly-be/internal/service"
)

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Validate checks required fields. Format rules are enforced by the
// account service.
func (req *RegisterRequest) Validate() model.Issues {
	var issues model.Issues
	if strings.TrimSpace(req.Email) == "" {
		issues.Add("email", "is required")
	}
	if req.Password == "" {
		issues.Add("password", "is required")
	}
	return issues
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks required fields.
func (req *LoginRequest) Validate() model.Issues {
	var issues model.Issues
	if strings.TrimSpace(req.Email) == "" {
		issues.Add("email", "is required")
	}
	if req.Password == "" {
		issues.Add("password", "is required")
	}
	return issues
}

// RefreshRequest is the body of POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Validate checks required fields.
func (req *RefreshRequest) Validate() model.Issues {
	var issues model.Issues
	if req.RefreshToken == "" {
		issues.Add("refreshToken", "is required")
	}
	return issues
}

// EmailRequest is the body of POST /auth/forgot-password and
// /auth/resend-verification.
type EmailRequest struct {
	Email string `json:"email"`
}

// Validate checks required fields.
func (req *EmailRequest) Validate() model.Issues {
	var issues model.Issues
	if strings.TrimSpace(req.Email) == "" {
		issues.Add("email", "is required")
	}
	return issues
}

// ResetPasswordRequest is the body of POST /auth/reset-password.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Validate checks required fields.
func (req *ResetPasswordRequest) Validate() model.Issues {
	var issues model.Issues
	if strings.TrimSpace(req.Token) == "" {
		issues.Add("token", "is required")
	}
	if req.Password == "" {
		issues.Add("password", "is required")
	}
	return issues
}

// VerifyEmailRequest is the body of POST /auth/verify-email.
type VerifyEmailRequest struct {
	Token string `json:"token"`
}

// Validate checks required fields.
func (req *VerifyEmailRequest) Validate() model.Issues {
	var issues model.Issues
	if strings.TrimSpace(req.Token) == "" {
		issues.Add("token", "is required")
	}
	return issues
}

// ProfileRequest is the body of PATCH /users/me.
type ProfileRequest struct {
	GroomFullName        *string `json:"groomFullName"`
	BrideFullName        *string `json:"brideFullName"`
	WeddingDate          *string `json:"weddingDate"`
	WeddingCountry       *string `json:"weddingCountry"`
	WeddingCity          *string `json:"weddingCity"`
	Currency             *string `json:"currency"`
	TotalBudget          *int64  `json:"totalBudget"`
	DefaultTableCapacity *int64  `json:"defaultTableCapacity"`
}

// PasswordRequest is the body of POST /users/me/password.
type PasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Validate checks required fields.
func (req *PasswordRequest) Validate() model.Issues {
	var issues model.Issues
	if req.CurrentPassword == "" {
		issues.Add("currentPassword", "is required")
	}
	if req.NewPassword == "" {
		issues.Add("newPassword", "is required")
	}
	return issues
}

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Accounts.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteCreated(w, res)
}

// LoginUser handles POST /auth/login. Repeated failures lock the email for
// an increasing period.
func (h *Handler) LoginUser(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if h.Login != nil {
		if locked, remaining := h.Login.IsAccountLocked(req.Email); locked {
			writeLocked(w, remaining.Minutes())
			return
		}
	}

	res, err := h.Accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if h.Login != nil && errors.Is(err, service.ErrUnauthorized) {
			if locked, d := h.Login.RecordFailedAttempt(req.Email); locked {
				writeLocked(w, d.Minutes())
				return
			}
		}
		h.writeServiceError(w, r, err)
		return
	}
	if h.Login != nil {
		h.Login.RecordSuccessfulLogin(req.Email)
	}
	WriteSuccess(w, res)
}

func writeLocked(w http.ResponseWriter, minutes float64) {
	WriteError(w, http.StatusTooManyRequests, "account_locked",
		fmt.Sprintf("Too many failed attempts. Try again in %d minutes.", int(math.Ceil(minutes))), nil)
}

// Refresh handles POST /auth/refresh.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Accounts.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, res)
}

// ForgotPassword handles POST /auth/forgot-password. The answer is the same
// whether or not the address has an account.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.Accounts.ForgotPassword(r.Context(), req.Email); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, map[string]string{"message": "If the address has an account, a reset link was sent."})
}

// ResetPassword handles POST /auth/reset-password.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.Accounts.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, map[string]bool{"success": true})
}

// VerifyEmail handles POST /auth/verify-email.
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req VerifyEmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.Accounts.VerifyEmail(r.Context(), req.Token); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, map[string]bool{"success": true})
}

// ResendVerification handles POST /auth/resend-verification.
func (h *Handler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.Accounts.ResendVerification(r.Context(), req.Email); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, map[string]string{"message": "If the address needs verification, a new link was sent."})
}

// Me handles GET /users/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.Accounts.Me(r.Context(), middleware.GetUserID(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, user)
}

// UpdateMe handles PATCH /users/me.
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.Accounts.UpdateProfile(r.Context(), middleware.GetUserID(r), service.ProfilePatch{
		GroomFullName:        req.GroomFullName,
		BrideFullName:        req.BrideFullName,
		WeddingDate:          req.WeddingDate,
		WeddingCountry:       req.WeddingCountry,
		WeddingCity:          req.WeddingCity,
		Currency:             req.Currency,
		TotalBudget:          req.TotalBudget,
		DefaultTableCapacity: req.DefaultTableCapacity,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, user)
}

// ChangePassword handles POST /users/me/password.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req PasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.Accounts.ChangePassword(r.Context(), middleware.GetUserID(r), req.CurrentPassword, req.NewPassword); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, map[string]bool{"success": true})
}
