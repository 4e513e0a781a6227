// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

type User struct {
	ID                   string         `json:"id"`
	Email                string         `json:"email"`
	PasswordHash         string         `json:"password_hash"`
	Name                 string         `json:"name"`
	GroomFullName        string         `json:"groom_full_name"`
	BrideFullName        string         `json:"bride_full_name"`
	WeddingDate          sql.NullTime   `json:"wedding_date"`
	WeddingCountry       string         `json:"wedding_country"`
	WeddingCity          string         `json:"wedding_city"`
	Currency             string         `json:"currency"`
	TotalBudget          int64          `json:"total_budget"`
	DefaultTableCapacity int64          `json:"default_table_capacity"`
	PrimaryEventID       sql.NullString `json:"primary_event_id"`
	EmailVerifiedAt      sql.NullTime   `json:"email_verified_at"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

type Event struct {
	ID        string       `json:"id"`
	OwnerID   string       `json:"owner_id"`
	Title     string       `json:"title"`
	Date      sql.NullTime `json:"date"`
	Locale    string       `json:"locale"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type Guest struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Side      string    `json:"side"`
	Status    string    `json:"status"`
	PartySize int64     `json:"party_size"`
	Tags      string    `json:"tags"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SeatingTable struct {
	ID        string         `json:"id"`
	EventID   string         `json:"event_id"`
	Name      string         `json:"name"`
	Capacity  int64          `json:"capacity"`
	Side      sql.NullString `json:"side"`
	SortOrder int64          `json:"sort_order"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type SeatAssignment struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	TableID   string    `json:"table_id"`
	GuestID   string    `json:"guest_id"`
	Position  int64     `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ChecklistItem struct {
	ID             string       `json:"id"`
	EventID        string       `json:"event_id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Status         string       `json:"status"`
	Price          int64        `json:"price"`
	AdvancePayment int64        `json:"advance_payment"`
	DueDate        sql.NullTime `json:"due_date"`
	SortOrder      int64        `json:"sort_order"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

type BudgetItem struct {
	ID        string       `json:"id"`
	EventID   string       `json:"event_id"`
	Category  string       `json:"category"`
	Title     string       `json:"title"`
	Planned   int64        `json:"planned"`
	Paid      int64        `json:"paid"`
	Status    string       `json:"status"`
	DueDate   sql.NullTime `json:"due_date"`
	Notes     string       `json:"notes"`
	SortOrder int64        `json:"sort_order"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type Microsite struct {
	ID            string         `json:"id"`
	EventID       string         `json:"event_id"`
	Slug          string         `json:"slug"`
	Status        string         `json:"status"`
	Theme         sql.NullString `json:"theme"`
	Seo           sql.NullString `json:"seo"`
	DraftSections string         `json:"draft_sections"`
	PubSections   sql.NullString `json:"pub_sections"`
	PublishedAt   sql.NullTime   `json:"published_at"`
	PreviewToken  sql.NullString `json:"preview_token"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type MediaAsset struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Url       string    `json:"url"`
	Kind      string    `json:"kind"`
	Alt       string    `json:"alt"`
	Meta      string    `json:"meta"`
	CreatedAt time.Time `json:"created_at"`
}

type GuestPhotoSubmission struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Message   sql.NullString `json:"message"`
	ImageUrls string         `json:"image_urls"`
	CreatedAt time.Time      `json:"created_at"`
}

type AccountToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Purpose   string    `json:"purpose"`
	TokenHash string    `json:"token_hash"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
