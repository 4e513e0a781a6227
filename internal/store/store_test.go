// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// testDB creates a migrated database in a temporary directory.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "store-test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, q *Queries, id, email string) User {
	t.Helper()
	now := time.Now().UTC()
	u, err := q.CreateUser(context.Background(), CreateUserParams{
		ID:           id,
		Email:        email,
		PasswordHash: "hash",
		Name:         "Test",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func seedEvent(t *testing.T, q *Queries, id, ownerID string) Event {
	t.Helper()
	now := time.Now().UTC()
	e, err := q.CreateEvent(context.Background(), CreateEventParams{
		ID:        id,
		OwnerID:   ownerID,
		Title:     "Wedding",
		Locale:    "sr",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	return e
}

func seedGuest(t *testing.T, q *Queries, id, eventID string) Guest {
	t.Helper()
	now := time.Now().UTC()
	g, err := q.CreateGuest(context.Background(), CreateGuestParams{
		ID:        id,
		EventID:   eventID,
		FirstName: "Ana",
		Side:      "BRIDE",
		Status:    "PENDING",
		PartySize: 1,
		Tags:      "[]",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateGuest: %v", err)
	}
	return g
}

func createTable(t *testing.T, q *Queries, id, eventID string, capacity int64) SeatingTable {
	t.Helper()
	now := time.Now().UTC()
	tbl, err := q.CreateSeatingTable(context.Background(), CreateSeatingTableParams{
		ID:        id,
		EventID:   eventID,
		Name:      "Table " + id,
		Capacity:  capacity,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateSeatingTable: %v", err)
	}
	return tbl
}

func createSeat(q *Queries, id, eventID, tableID, guestID string, position int64) (SeatAssignment, error) {
	now := time.Now().UTC()
	return q.CreateSeatAssignment(context.Background(), CreateSeatAssignmentParams{
		ID:        id,
		EventID:   eventID,
		TableID:   tableID,
		GuestID:   guestID,
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func TestDSN(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		prefix string
	}{
		{"plain path", "./data/wedly.db", "./data/wedly.db?"},
		{"existing query", "file:test.db?mode=memory", "file:test.db?mode=memory&"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn := DSN(tt.path)
			if !strings.HasPrefix(dsn, tt.prefix) {
				t.Errorf("DSN(%q) = %q, want prefix %q", tt.path, dsn, tt.prefix)
			}
			for _, want := range []string{"foreign_keys%281%29", "_txlock=immediate", "busy_timeout%285000%29"} {
				if !strings.Contains(dsn, want) {
					t.Errorf("DSN(%q) = %q, missing %q", tt.path, dsn, want)
				}
			}
		})
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := testDB(t)
	if err := Migrate(db); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}

func TestUserEmailUnique(t *testing.T) {
	q := New(testDB(t))
	seedUser(t, q, "u1", "ana@example.com")

	now := time.Now().UTC()
	_, err := q.CreateUser(context.Background(), CreateUserParams{
		ID: "u2", Email: "ana@example.com", PasswordHash: "hash", CreatedAt: now, UpdatedAt: now,
	})
	if !IsUniqueViolation(err) {
		t.Fatalf("duplicate email error = %v, want unique violation", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if IsUniqueViolation(nil) {
		t.Error("IsUniqueViolation(nil) = true")
	}
	if IsUniqueViolation(errors.New("UNIQUE constraint failed")) {
		t.Error("plain error must not count as a unique violation")
	}
}

func TestUserDefaults(t *testing.T) {
	q := New(testDB(t))
	seedUser(t, q, "u1", "ana@example.com")

	u, err := q.GetUserByEmail(context.Background(), "ana@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if u.Currency != "RSD" {
		t.Errorf("Currency = %q, want RSD", u.Currency)
	}
	if u.DefaultTableCapacity != 12 {
		t.Errorf("DefaultTableCapacity = %d, want 12", u.DefaultTableCapacity)
	}
	if u.PrimaryEventID.Valid {
		t.Errorf("PrimaryEventID = %q, want NULL", u.PrimaryEventID.String)
	}
}

func TestGetEventForOwner(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()
	seedEvent(t, q, "e1", "u1")

	if _, err := q.GetEventForOwner(ctx, GetEventForOwnerParams{ID: "e1", OwnerID: "u1"}); err != nil {
		t.Fatalf("GetEventForOwner(owner): %v", err)
	}
	_, err := q.GetEventForOwner(ctx, GetEventForOwnerParams{ID: "e1", OwnerID: "u2"})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("GetEventForOwner(stranger) error = %v, want sql.ErrNoRows", err)
	}
}

func TestRunInTx(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	errBoom := errors.New("boom")

	err := RunInTx(ctx, db, func(q *Queries) error {
		seedEvent(t, q, "e1", "u1")
		return errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("RunInTx error = %v, want %v", err, errBoom)
	}
	events, err := New(db).ListEventsByOwner(ctx, "u1")
	if err != nil {
		t.Fatalf("ListEventsByOwner: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("rolled back transaction left %d events", len(events))
	}

	if err := RunInTx(ctx, db, func(q *Queries) error {
		seedEvent(t, q, "e2", "u1")
		return nil
	}); err != nil {
		t.Fatalf("RunInTx: %v", err)
	}
	events, err = New(db).ListEventsByOwner(ctx, "u1")
	if err != nil {
		t.Fatalf("ListEventsByOwner: %v", err)
	}
	if len(events) != 1 || events[0].ID != "e2" {
		t.Fatalf("events = %+v, want only e2", events)
	}
}

func TestSeatAssignmentConstraints(t *testing.T) {
	q := New(testDB(t))
	seedGuest(t, q, "g1", "e1")
	createTable(t, q, "t1", "e1", 2)

	if _, err := createSeat(q, "s1", "e1", "t1", "g1", 0); err != nil {
		t.Fatalf("createSeat: %v", err)
	}
	if _, err := createSeat(q, "s2", "e1", "t1", "g1", 1); !IsUniqueViolation(err) {
		t.Errorf("second seat for guest error = %v, want unique violation", err)
	}
	if _, err := createSeat(q, "s3", "e1", "t1", "g2", -1); err == nil {
		t.Error("negative position must violate the check constraint")
	}
}

func TestCountSeatsByTable(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()
	createTable(t, q, "t1", "e1", 4)
	for i, g := range []string{"g1", "g2", "g3"} {
		seedGuest(t, q, g, "e1")
		if _, err := createSeat(q, "s"+g, "e1", "t1", g, int64(i)); err != nil {
			t.Fatalf("createSeat: %v", err)
		}
	}

	n, err := q.CountSeatsByTable(ctx, CountSeatsByTableParams{TableID: "t1", EventID: "e1"})
	if err != nil {
		t.Fatalf("CountSeatsByTable: %v", err)
	}
	if n != 3 {
		t.Errorf("CountSeatsByTable = %d, want 3", n)
	}

	other, err := q.CountOtherSeatsByTable(ctx, CountOtherSeatsByTableParams{TableID: "t1", EventID: "e1", ExcludeID: "sg1"})
	if err != nil {
		t.Fatalf("CountOtherSeatsByTable: %v", err)
	}
	if other != 2 {
		t.Errorf("CountOtherSeatsByTable = %d, want 2", other)
	}
}

func TestListSeatAssignmentsByIDs(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()
	createTable(t, q, "t1", "e1", 4)
	createTable(t, q, "t2", "e2", 4)
	seedGuest(t, q, "g1", "e1")
	seedGuest(t, q, "g2", "e1")
	seedGuest(t, q, "g3", "e2")
	for _, s := range [][3]string{{"s1", "e1", "g1"}, {"s2", "e1", "g2"}} {
		if _, err := createSeat(q, s[0], s[1], "t1", s[2], 0); err != nil {
			t.Fatalf("createSeat: %v", err)
		}
	}
	if _, err := createSeat(q, "s3", "e2", "t2", "g3", 0); err != nil {
		t.Fatalf("createSeat: %v", err)
	}

	seats, err := q.ListSeatAssignmentsByIDs(ctx, "e1", []string{"s1", "s3", "missing"})
	if err != nil {
		t.Fatalf("ListSeatAssignmentsByIDs: %v", err)
	}
	if len(seats) != 1 || seats[0].ID != "s1" {
		t.Fatalf("seats = %+v, want only s1 from event e1", seats)
	}
}

func TestExpandSlice(t *testing.T) {
	query, args := expandSlice("SELECT * FROM x WHERE event_id = ? AND id IN (/*SLICE:ids*/?)", "e1", []string{"a", "b", "c"})
	if want := "SELECT * FROM x WHERE event_id = ? AND id IN (?,?,?)"; query != want {
		t.Errorf("query = %q, want %q", query, want)
	}
	if len(args) != 4 || args[0] != "e1" || args[3] != "c" {
		t.Errorf("args = %v, want [e1 a b c]", args)
	}
}

func TestDeleteOrphanSeatAssignments(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()
	createTable(t, q, "t1", "e1", 8)
	seedGuest(t, q, "g1", "e1")
	seedGuest(t, q, "g2", "e1")

	for _, s := range []struct {
		id, table, guest string
	}{
		{"keep", "t1", "g1"},
		{"no-table", "gone", "g2"},
		{"no-guest", "t1", "gone"},
	} {
		if _, err := createSeat(q, s.id, "e1", s.table, s.guest, 0); err != nil {
			t.Fatalf("createSeat(%s): %v", s.id, err)
		}
	}

	n, err := q.DeleteOrphanSeatAssignments(ctx)
	if err != nil {
		t.Fatalf("DeleteOrphanSeatAssignments: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d, want 2", n)
	}
	seats, err := q.ListSeatAssignments(ctx, "e1")
	if err != nil {
		t.Fatalf("ListSeatAssignments: %v", err)
	}
	if len(seats) != 1 || seats[0].ID != "keep" {
		t.Errorf("remaining seats = %+v, want only keep", seats)
	}
}

func TestGetSeatingSummary(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()

	empty, err := q.GetSeatingSummary(ctx, "e1")
	if err != nil {
		t.Fatalf("GetSeatingSummary(empty): %v", err)
	}
	if empty != (GetSeatingSummaryRow{}) {
		t.Errorf("empty summary = %+v, want zeros", empty)
	}

	createTable(t, q, "t1", "e1", 8)
	createTable(t, q, "t2", "e1", 4)
	seedGuest(t, q, "g1", "e1")
	if _, err := createSeat(q, "s1", "e1", "t1", "g1", 0); err != nil {
		t.Fatalf("createSeat: %v", err)
	}

	got, err := q.GetSeatingSummary(ctx, "e1")
	if err != nil {
		t.Fatalf("GetSeatingSummary: %v", err)
	}
	want := GetSeatingSummaryRow{Tables: 2, Capacity: 12, Seated: 1}
	if got != want {
		t.Errorf("summary = %+v, want %+v", got, want)
	}
}

func TestMicrositeSlugUniqueness(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := q.CreateMicrosite(ctx, CreateMicrositeParams{
		ID: "m1", EventID: "e1", Slug: "ana-marko", Status: "DRAFT", DraftSections: "[]",
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("CreateMicrosite: %v", err)
	}

	tests := []struct {
		name    string
		slug    string
		eventID string
		want    bool
	}{
		{"own slug", "ana-marko", "e1", false},
		{"taken by other event", "ana-marko", "e2", true},
		{"free slug", "other", "e2", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taken, err := q.SlugTakenByOtherEvent(ctx, SlugTakenByOtherEventParams{Slug: tt.slug, EventID: tt.eventID})
			if err != nil {
				t.Fatalf("SlugTakenByOtherEvent: %v", err)
			}
			if taken != tt.want {
				t.Errorf("SlugTakenByOtherEvent(%q, %q) = %v, want %v", tt.slug, tt.eventID, taken, tt.want)
			}
		})
	}

	_, err := q.CreateMicrosite(ctx, CreateMicrositeParams{
		ID: "m2", EventID: "e2", Slug: "ana-marko", Status: "DRAFT", DraftSections: "[]",
		CreatedAt: now, UpdatedAt: now,
	})
	if !IsUniqueViolation(err) {
		t.Errorf("duplicate slug error = %v, want unique violation", err)
	}
}

func TestAccountTokens(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()
	seedUser(t, q, "u1", "anna@example.com")
	now := time.Now().UTC()

	add := func(id, purpose, hash string, expires time.Time) {
		t.Helper()
		if err := q.CreateAccountToken(ctx, CreateAccountTokenParams{
			ID: id, UserID: "u1", Purpose: purpose, TokenHash: hash, ExpiresAt: expires, CreatedAt: now,
		}); err != nil {
			t.Fatalf("CreateAccountToken(%s): %v", id, err)
		}
	}
	add("t1", "reset_password", "h1", now.Add(time.Hour))
	add("t2", "verify_email", "h2", now.Add(-time.Minute))
	add("t3", "reset_password", "h3", now.Add(-time.Hour))

	got, err := q.GetAccountTokenByHash(ctx, "h1")
	if err != nil {
		t.Fatalf("GetAccountTokenByHash: %v", err)
	}
	if got.ID != "t1" || got.Purpose != "reset_password" || got.UserID != "u1" {
		t.Errorf("GetAccountTokenByHash = %+v", got)
	}

	removed, err := q.DeleteExpiredAccountTokens(ctx, now)
	if err != nil {
		t.Fatalf("DeleteExpiredAccountTokens: %v", err)
	}
	if removed != 2 {
		t.Errorf("DeleteExpiredAccountTokens removed %d, want 2", removed)
	}

	if err := q.DeleteAccountTokensForUser(ctx, DeleteAccountTokensForUserParams{UserID: "u1", Purpose: "reset_password"}); err != nil {
		t.Fatalf("DeleteAccountTokensForUser: %v", err)
	}
	if _, err := q.GetAccountTokenByHash(ctx, "h1"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("token after delete: err = %v, want sql.ErrNoRows", err)
	}
}

func TestSetUserEmailVerified(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()
	u := seedUser(t, q, "u1", "anna@example.com")
	if u.EmailVerifiedAt.Valid {
		t.Fatal("new user is already verified")
	}

	now := time.Now().UTC()
	if err := q.SetUserEmailVerified(ctx, SetUserEmailVerifiedParams{
		EmailVerifiedAt: sql.NullTime{Time: now, Valid: true}, UpdatedAt: now, ID: "u1",
	}); err != nil {
		t.Fatalf("SetUserEmailVerified: %v", err)
	}
	u, err := q.GetUserByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if !u.EmailVerifiedAt.Valid {
		t.Error("EmailVerifiedAt not set")
	}
}
