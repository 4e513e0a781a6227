// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testLoginProtection(maxAttempts int, lockout, window time.Duration) (*LoginProtection, *time.Time) {
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       10,
		IPBurst:           100,
		MaxFailedAttempts: maxAttempts,
		LockoutDuration:   lockout,
		AttemptWindow:     window,
	})
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	lp.now = func() time.Time { return now }
	return lp, &now
}

func TestNewLoginProtectionDefaultValues(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{})

	if lp.maxFailedAttempts != 5 {
		t.Errorf("maxFailedAttempts = %d, want 5", lp.maxFailedAttempts)
	}
	if lp.lockoutDuration != 15*time.Minute {
		t.Errorf("lockoutDuration = %v, want 15m", lp.lockoutDuration)
	}
	if lp.attemptWindow != 15*time.Minute {
		t.Errorf("attemptWindow = %v, want 15m", lp.attemptWindow)
	}
}

func TestLoginProtectionLockout(t *testing.T) {
	lp, now := testLoginProtection(3, time.Minute, time.Hour)
	email := "Bride@Example.com"

	for i := 0; i < 2; i++ {
		if locked, _ := lp.RecordFailedAttempt(email); locked {
			t.Fatalf("attempt %d locked the account", i+1)
		}
	}
	locked, d := lp.RecordFailedAttempt(email)
	if !locked || d != time.Minute {
		t.Fatalf("third attempt: locked=%v duration=%v, want true 1m", locked, d)
	}

	// Lookup is case and whitespace insensitive.
	if locked, _ := lp.IsAccountLocked("  bride@example.com "); !locked {
		t.Error("account should be locked")
	}

	*now = now.Add(2 * time.Minute)
	if locked, _ := lp.IsAccountLocked(email); locked {
		t.Error("lock should have expired")
	}

	// The second lockout doubles.
	for i := 0; i < 2; i++ {
		lp.RecordFailedAttempt(email)
	}
	if _, d := lp.RecordFailedAttempt(email); d != 2*time.Minute {
		t.Errorf("second lockout = %v, want 2m", d)
	}
}

func TestLoginProtectionLockoutCap(t *testing.T) {
	lp, _ := testLoginProtection(1, 10*time.Hour, time.Hour)
	email := "cap@example.com"

	// The first attempt only opens the window.
	lp.RecordFailedAttempt(email)
	var d time.Duration
	for i := 0; i < 4; i++ {
		_, d = lp.RecordFailedAttempt(email)
	}
	if d != 24*time.Hour {
		t.Errorf("lockout = %v, want 24h cap", d)
	}
}

func TestLoginProtectionWindowReset(t *testing.T) {
	lp, now := testLoginProtection(2, time.Minute, time.Minute)
	email := "window@example.com"

	lp.RecordFailedAttempt(email)
	*now = now.Add(2 * time.Minute)
	if locked, _ := lp.RecordFailedAttempt(email); locked {
		t.Error("attempt outside the window should restart the count")
	}
}

func TestLoginProtectionSuccessClears(t *testing.T) {
	lp, _ := testLoginProtection(2, time.Minute, time.Hour)
	email := "ok@example.com"

	lp.RecordFailedAttempt(email)
	lp.RecordSuccessfulLogin(email)
	if locked, _ := lp.RecordFailedAttempt(email); locked {
		t.Error("successful login should reset the count")
	}
}

func TestLoginProtectionSweep(t *testing.T) {
	lp, now := testLoginProtection(5, time.Minute, time.Minute)
	lp.RecordFailedAttempt("old@example.com")

	*now = now.Add(5 * time.Minute)
	lp.RecordFailedAttempt("new@example.com")
	lp.Sweep()

	if _, ok := lp.failedAttempts["old@example.com"]; ok {
		t.Error("stale entry should be swept")
	}
	if _, ok := lp.failedAttempts["new@example.com"]; !ok {
		t.Error("fresh entry should survive")
	}
}

func TestLoginProtectionMiddleware(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 2})
	h := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(method string) int {
		req := httptest.NewRequest(method, "/api/v1/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := send(http.MethodPost); code != http.StatusOK {
			t.Fatalf("request %d = %d, want 200", i+1, code)
		}
	}
	if code := send(http.MethodPost); code != http.StatusTooManyRequests {
		t.Errorf("third POST = %d, want 429", code)
	}
	if code := send(http.MethodGet); code != http.StatusOK {
		t.Errorf("GET = %d, want 200", code)
	}
}
