// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"iso date", "2026-06-20", time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC), false},
		{"rfc3339", "2026-06-20T15:30:00Z", time.Date(2026, 6, 20, 15, 30, 0, 0, time.UTC), false},
		{"rfc3339 offset", "2026-06-20T17:30:00+02:00", time.Date(2026, 6, 20, 15, 30, 0, 0, time.UTC), false},
		{"rfc3339 millis", "2026-06-20T15:30:00.000Z", time.Date(2026, 6, 20, 15, 30, 0, 0, time.UTC), false},
		{"us order", "06-20-2026", time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC), false},
		{"us order short", "6-2-2026", time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC), false},
		{"padded", "  2026-06-20 ", time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC), false},
		{"empty", "", time.Time{}, true},
		{"garbage", "next summer", time.Time{}, true},
		{"bad month", "13-01-2026", time.Time{}, true},
		{"too old", "1969-12-31", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDate(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) error = %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
