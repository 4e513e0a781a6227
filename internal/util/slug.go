// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose utility functions including
// URL slug generation and validation with Unicode normalization support.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MinMicrositeSlugLength is the shortest slug accepted for a microsite.
const MinMicrositeSlugLength = 3

var (
	// slugRegex matches non-alphanumeric characters (except hyphens)
	slugRegex = regexp.MustCompile(`[^a-z0-9-]+`)
	// multipleHyphens matches multiple consecutive hyphens
	multipleHyphens = regexp.MustCompile(`-{2,}`)
	// micrositeSlugRegex is the accepted alphabet for microsite slugs.
	micrositeSlugRegex = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// Slugify converts a string to a URL-friendly slug.
// Non-Latin scripts (Serbian Cyrillic and others) are transliterated to ASCII
// first, then accents are stripped, spaces become hyphens and everything
// outside [a-z0-9-] is dropped.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)

	result = unidecode.Unidecode(result)
	result = strings.ToLower(result)
	result = strings.ReplaceAll(result, " ", "-")
	result = slugRegex.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	return result
}

// IsValidSlug checks if a string is a strict slug: lowercase letters, digits
// and single inner hyphens.
func IsValidSlug(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}

	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}

	if strings.Contains(s, "--") {
		return false
	}

	return true
}

// NormalizeMicrositeSlug trims and lower-cases a client supplied slug.
func NormalizeMicrositeSlug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsValidMicrositeSlug reports whether an already normalized slug may be
// used as a microsite address.
func IsValidMicrositeSlug(s string) bool {
	return len(s) >= MinMicrositeSlugLength && micrositeSlugRegex.MatchString(s)
}

// SuggestSlug builds a microsite slug candidate from the couple's names,
// e.g. "Марко Петровић" and "Ana Jovanović" become "marko-i-ana".
// Only the first word of each name is used. Returns "" when nothing
// usable remains.
func SuggestSlug(groomName, brideName string) string {
	var parts []string
	for _, name := range []string{groomName, brideName} {
		fields := strings.Fields(name)
		if len(fields) == 0 {
			continue
		}
		if s := Slugify(fields[0]); s != "" {
			parts = append(parts, s)
		}
	}

	slug := strings.Join(parts, "-i-")
	if len(slug) < MinMicrositeSlugLength {
		return ""
	}
	return slug
}
