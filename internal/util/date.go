// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidDate is returned by ParseDate for unrecognised input.
var ErrInvalidDate = errors.New("invalid date")

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01-02-2006",
	"1-2-2006",
}

// ParseDate parses the date formats clients send: RFC 3339 timestamps,
// YYYY-MM-DD and MM-DD-YYYY. Dates without a zone are taken as UTC.
// Years before 1970 are rejected.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.Year() < 1970 {
			return time.Time{}, ErrInvalidDate
		}
		return t.UTC(), nil
	}
	return time.Time{}, ErrInvalidDate
}
