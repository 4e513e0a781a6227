// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "fmt"

// FieldIssue describes one invalid input field. Field is a dotted path such
// as "draftSections[2].items[0].title".
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Issues collects field issues while validating a request.
type Issues []FieldIssue

// Add records an issue for field.
func (is *Issues) Add(field, format string, args ...any) {
	*is = append(*is, FieldIssue{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Empty reports whether no issue has been recorded.
func (is Issues) Empty() bool {
	return len(is) == 0
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}

func indexPath(parent string, i int) string {
	return fmt.Sprintf("%s[%d]", parent, i)
}
