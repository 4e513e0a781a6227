// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"path/filepath"
	"testing"
)

func TestValidatePathWithinBase(t *testing.T) {
	uploadsDir := filepath.Join(t.TempDir(), "uploads")

	tests := []struct {
		name       string
		targetPath string
		wantErr    bool
	}{
		{"same directory", uploadsDir, false},
		{"owner folder", filepath.Join(uploadsDir, "microsite", "user-1"), false},
		{"traversal to parent", filepath.Join(uploadsDir, ".."), true},
		{"traversal through folder", filepath.Join(uploadsDir, "microsite", "..", ".."), true},
		{"absolute path outside base", "/etc/passwd", true},
		{"similar prefix", uploadsDir + "-malicious", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePathWithinBase(uploadsDir, tt.targetPath)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePathWithinBase() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSafeJoinPath(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name       string
		components []string
		wantErr    bool
	}{
		{"object key", []string{"guest-photos", "user-1", "1700000000-ab.jpg"}, false},
		{"traversal in owner key", []string{"microsite", "../../etc", "passwd"}, true},
		{"absolute component stays inside", []string{"/etc/passwd"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SafeJoinPath(tmpDir, tt.components...)
			if (err != nil) != tt.wantErr {
				t.Errorf("SafeJoinPath() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
