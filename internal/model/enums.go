// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "strings"

type Currency string

const (
	CurrencyRSD Currency = "RSD"
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

// DefaultCurrency is used when an account has no currency set.
const DefaultCurrency = CurrencyRSD

// ParseCurrency accepts a currency code in any letter case.
func ParseCurrency(s string) (Currency, bool) {
	switch c := Currency(strings.ToUpper(strings.TrimSpace(s))); c {
	case CurrencyRSD, CurrencyEUR, CurrencyUSD:
		return c, true
	}
	return "", false
}

// ItemStatus is the state of a checklist or budget item.
type ItemStatus string

const (
	StatusTodo       ItemStatus = "TODO"
	StatusInProgress ItemStatus = "IN_PROGRESS"
	StatusDone       ItemStatus = "DONE"
)

// ParseItemStatus maps canonical and historical spellings of an item status
// to the closed enum. Older rows use lowercase values and "completed".
func ParseItemStatus(s string) (ItemStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "todo", "pending":
		return StatusTodo, true
	case "in_progress", "in-progress", "inprogress":
		return StatusInProgress, true
	case "done", "completed", "complete":
		return StatusDone, true
	}
	return "", false
}

// NormalizeItemStatus is ParseItemStatus for values read back from storage;
// anything unrecognised is treated as TODO.
func NormalizeItemStatus(s string) ItemStatus {
	if st, ok := ParseItemStatus(s); ok {
		return st
	}
	return StatusTodo
}

type GuestSide string

const (
	SideBride GuestSide = "BRIDE"
	SideGroom GuestSide = "GROOM"
	SideBoth  GuestSide = "BOTH"
	SideOther GuestSide = "OTHER"
)

// ParseGuestSide coerces unknown values to OTHER.
func ParseGuestSide(s string) GuestSide {
	switch side := GuestSide(strings.ToUpper(strings.TrimSpace(s))); side {
	case SideBride, SideGroom, SideBoth, SideOther:
		return side
	}
	return SideOther
}

type GuestStatus string

const (
	GuestPending   GuestStatus = "PENDING"
	GuestComing    GuestStatus = "COMING"
	GuestNotComing GuestStatus = "NOT_COMING"
)

// ParseGuestStatus coerces unknown values to PENDING.
func ParseGuestStatus(s string) GuestStatus {
	switch st := GuestStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case GuestPending, GuestComing, GuestNotComing:
		return st
	}
	return GuestPending
}

type MicrositeStatus string

const (
	MicrositeDraft     MicrositeStatus = "DRAFT"
	MicrositePublished MicrositeStatus = "PUBLISHED"
)
