// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import "testing"

func TestNewOneTimeToken(t *testing.T) {
	raw, hash, err := NewOneTimeToken()
	if err != nil {
		t.Fatalf("NewOneTimeToken: %v", err)
	}
	if len(raw) != 43 {
		t.Errorf("raw token length = %d, want 43", len(raw))
	}
	if len(hash) != 64 {
		t.Errorf("hash length = %d, want 64", len(hash))
	}
	if HashOneTimeToken(raw) != hash {
		t.Error("hash does not match the raw token")
	}

	other, _, err := NewOneTimeToken()
	if err != nil {
		t.Fatalf("NewOneTimeToken: %v", err)
	}
	if other == raw {
		t.Error("two tokens are equal")
	}
}
