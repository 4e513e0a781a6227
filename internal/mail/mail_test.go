// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mail

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer("https://app.example.com/", slog.New(slog.NewTextHandler(&buf, nil)))
	ctx := context.Background()

	tests := []struct {
		name    string
		send    func() error
		subject string
		link    string
	}{
		{
			name:    "verification",
			send:    func() error { return m.SendVerification(ctx, "anna@example.com", "tok+1") },
			subject: "Verify your Wedly account",
			link:    "https://app.example.com/verify-email?token=tok%2B1",
		},
		{
			name:    "password reset",
			send:    func() error { return m.SendPasswordReset(ctx, "anna@example.com", "abc") },
			subject: "Reset your Wedly password",
			link:    "https://app.example.com/reset-password?token=abc",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			require.NoError(t, tt.send())
			out := buf.String()
			assert.Contains(t, out, tt.subject)
			assert.Contains(t, out, "to=anna@example.com")
			assert.Contains(t, out, tt.link)
		})
	}
}
