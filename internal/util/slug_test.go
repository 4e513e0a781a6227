// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple title",
			input:    "Hello World",
			expected: "hello-world",
		},
		{
			name:     "with special characters",
			input:    "Hello, World!",
			expected: "hello-world",
		},
		{
			name:     "with accents",
			input:    "Café résumé",
			expected: "cafe-resume",
		},
		{
			name:     "serbian latin",
			input:    "Đorđe Šćekić",
			expected: "dorde-scekic",
		},
		{
			name:     "serbian cyrillic",
			input:    "Марко",
			expected: "marko",
		},
		{
			name:     "with leading/trailing spaces",
			input:    "  Hello World  ",
			expected: "hello-world",
		},
		{
			name:     "all special characters",
			input:    "!@#$%^&*()",
			expected: "",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Slugify(tt.input)
			if result != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		slug  string
		valid bool
	}{
		{"hello-world", true},
		{"hello", true},
		{"page-123", true},
		{"", false},
		{"-hello", false},
		{"hello-", false},
		{"hello--world", false},
		{"Hello", false},
		{"hello world", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			if got := IsValidSlug(tt.slug); got != tt.valid {
				t.Errorf("IsValidSlug(%q) = %v, want %v", tt.slug, got, tt.valid)
			}
		})
	}
}

func TestMicrositeSlug(t *testing.T) {
	tests := []struct {
		input string
		want  string
		valid bool
	}{
		{"  Ana-I-Marko ", "ana-i-marko", true},
		{"abc", "abc", true},
		{"-leading-ok-", "-leading-ok-", true},
		{"ab", "ab", false},
		{"has space", "has space", false},
		{"ünï", "ünï", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := NormalizeMicrositeSlug(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeMicrositeSlug(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if IsValidMicrositeSlug(got) != tt.valid {
				t.Errorf("IsValidMicrositeSlug(%q) = %v, want %v", got, !tt.valid, tt.valid)
			}
		})
	}
}

func TestSuggestSlug(t *testing.T) {
	tests := []struct {
		name  string
		groom string
		bride string
		want  string
	}{
		{"both names", "Marko Petrović", "Ana Jovanović", "marko-i-ana"},
		{"cyrillic", "Марко", "Јована", "marko-i-jovana"},
		{"only groom", "Marko", "", "marko"},
		{"too short", "Al", "", ""},
		{"empty", "", "  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SuggestSlug(tt.groom, tt.bride); got != tt.want {
				t.Errorf("SuggestSlug(%q, %q) = %q, want %q", tt.groom, tt.bride, got, tt.want)
			}
		})
	}
}
