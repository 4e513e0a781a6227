// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mail delivers account emails.
package mail

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
)

// Link paths on the web app.
const (
	VerifyEmailPath   = "/verify-email"
	ResetPasswordPath = "/reset-password"
)

// LogMailer writes account emails to the log instead of sending them.
// It is meant for development and for deployments without SMTP.
type LogMailer struct {
	appURL string
	logger *slog.Logger
}

// NewLogMailer creates a LogMailer building links below appURL.
func NewLogMailer(appURL string, logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{appURL: strings.TrimRight(appURL, "/"), logger: logger}
}

// SendVerification logs the email verification link for to.
func (m *LogMailer) SendVerification(ctx context.Context, to, token string) error {
	m.send(ctx, "Verify your Wedly account", to, m.Link(VerifyEmailPath, token))
	return nil
}

// SendPasswordReset logs the password reset link for to.
func (m *LogMailer) SendPasswordReset(ctx context.Context, to, token string) error {
	m.send(ctx, "Reset your Wedly password", to, m.Link(ResetPasswordPath, token))
	return nil
}

// Link returns the web app URL carrying token.
func (m *LogMailer) Link(path, token string) string {
	return m.appURL + path + "?token=" + url.QueryEscape(token)
}

func (m *LogMailer) send(ctx context.Context, subject, to, link string) {
	m.logger.InfoContext(ctx, "account email not sent, SMTP is not configured",
		"subject", subject, "to", to, "link", link)
}
