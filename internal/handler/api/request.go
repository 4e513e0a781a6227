// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/wedly-admin/wedly-be/internal/model"
)

// maxJSONBody bounds JSON request bodies. Microsite drafts are the largest.
const maxJSONBody = 2 << 20

// validator is implemented by request structs that check their own shape
// after decoding.
type validator interface {
	Validate() model.Issues
}

var errEmptyBody = errors.New("empty body")

// decodeJSON reads the request body into dst. A body that is itself a JSON
// string holding an object is unwrapped once. An empty body leaves dst
// untouched. It writes the error response and returns false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := readJSON(w, r, dst); err != nil && !errors.Is(err, errEmptyBody) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "Request body too large", nil)
			return false
		}
		WriteBadRequest(w, "Invalid JSON body", nil)
		return false
	}
	if v, ok := dst.(validator); ok {
		if issues := v.Validate(); !issues.Empty() {
			WriteError(w, http.StatusBadRequest, "validation_error", "Validation failed", issues)
			return false
		}
	}
	return true
}

func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		return err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return errEmptyBody
	}

	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return err
		}
		data = bytes.TrimSpace([]byte(inner))
		if len(data) == 0 {
			return errEmptyBody
		}
	}
	if data[0] != '{' {
		return errors.New("body must be a JSON object")
	}
	return json.Unmarshal(data, dst)
}
