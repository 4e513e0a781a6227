// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain types of the wedding planner: accounts,
// events, guests, seating, checklist and budget items, and the microsite
// with its draft and published content.
package model

import "time"

// User is the public view of an account. The credential hash never leaves
// the service layer.
type User struct {
	ID                   string     `json:"id"`
	Email                string     `json:"email"`
	Name                 string     `json:"name"`
	GroomFullName        string     `json:"groomFullName"`
	BrideFullName        string     `json:"brideFullName"`
	WeddingDate          *time.Time `json:"weddingDate"`
	WeddingCountry       string     `json:"weddingCountry"`
	WeddingCity          string     `json:"weddingCity"`
	Currency             Currency   `json:"currency"`
	TotalBudget          int64      `json:"totalBudget"`
	DefaultTableCapacity int64      `json:"defaultTableCapacity"`
	PrimaryEventID       *string    `json:"primaryEventId"`
	EmailVerified        bool       `json:"emailVerified"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// Event is a wedding project owned by one user.
type Event struct {
	ID        string     `json:"id"`
	OwnerID   string     `json:"ownerId"`
	Title     string     `json:"title"`
	Date      *time.Time `json:"date"`
	Locale    string     `json:"locale"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type Guest struct {
	ID        string      `json:"id"`
	EventID   string      `json:"eventId"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Phone     string      `json:"phone"`
	Email     string      `json:"email"`
	Side      GuestSide   `json:"side"`
	Status    GuestStatus `json:"status"`
	Guests    int64       `json:"guests"`
	Tags      []string    `json:"tags"`
	Notes     string      `json:"notes"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Table is a seating table. Capacity is always at least one.
type Table struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	Name      string    `json:"name"`
	Capacity  int64     `json:"capacity"`
	Side      *string   `json:"side"`
	Order     int64     `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Seat binds one guest to a 0-based position at one table.
type Seat struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	TableID   string    `json:"tableId"`
	GuestID   string    `json:"guestId"`
	Position  int64     `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SeatingSummary aggregates the seating plan of one event.
type SeatingSummary struct {
	Tables   int64 `json:"tables"`
	Capacity int64 `json:"capacity"`
	Seated   int64 `json:"seated"`
}

// ChecklistItem is a planning task. Note is stored as the description.
type ChecklistItem struct {
	ID             string     `json:"id"`
	EventID        string     `json:"eventId"`
	Title          string     `json:"title"`
	Note           string     `json:"note"`
	Status         ItemStatus `json:"status"`
	Price          int64      `json:"price"`
	AdvancePayment int64      `json:"advancePayment"`
	DueDate        *time.Time `json:"dueDate"`
	Order          int64      `json:"order"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type BudgetItem struct {
	ID        string     `json:"id"`
	EventID   string     `json:"eventId"`
	Category  string     `json:"category"`
	Title     string     `json:"title"`
	Planned   int64      `json:"planned"`
	Paid      int64      `json:"paid"`
	Status    ItemStatus `json:"status"`
	DueDate   *time.Time `json:"dueDate"`
	Notes     string     `json:"notes"`
	Order     int64      `json:"order"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// MediaAsset is an uploaded file attached to an event.
type MediaAsset struct {
	ID        string         `json:"id"`
	EventID   string         `json:"eventId"`
	URL       string         `json:"url"`
	Kind      string         `json:"kind"`
	Alt       string         `json:"alt"`
	Meta      map[string]any `json:"meta"`
	CreatedAt time.Time      `json:"createdAt"`
}

// GuestPhotoSubmission is one batch of photos sent by a wedding guest.
type GuestPhotoSubmission struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Message   *string   `json:"message"`
	ImageURLs []string  `json:"imageUrls"`
	CreatedAt time.Time `json:"createdAt"`
}
