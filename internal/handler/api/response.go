// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/wedly-admin/wedly-be/internal/model"
	"github.com/wedly-admin/wedly-be/internal/service"
)

// Response is the standard API response wrapper.
type Response struct {
	Data any `json:"data"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Details []model.FieldIssue `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code. Every "id"
// key in the payload is renamed to "_id".
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	body, err := encodeRenamed(data)
	if err != nil {
		slog.Error("encoding response failed", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":"internal_error","message":"Internal server error"}}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(body)
}

// WriteSuccess writes a 200 response.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Response{Data: data})
}

// WriteCreated writes a 201 Created response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details []model.FieldIssue) {
	WriteJSON(w, statusCode, ErrorResponse{Error: ErrorDetail{
		Code:    code,
		Message: message,
		Details: details,
	}})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details []model.FieldIssue) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
}

// writeServiceError maps a service failure to its HTTP status. Errors that
// are not service errors are logged and reported without their message.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var se *service.Error
	if !errors.As(err, &se) {
		h.Logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		WriteInternalError(w)
		return
	}

	switch se.Kind {
	case service.KindBadRequest:
		code := "bad_request"
		if len(se.Issues) > 0 {
			code = "validation_error"
		}
		WriteError(w, http.StatusBadRequest, code, se.Message, se.Issues)
	case service.KindUnauthorized:
		WriteError(w, http.StatusUnauthorized, "unauthorized", se.Message, nil)
	case service.KindNotFound:
		WriteNotFound(w, se.Message)
	case service.KindConflict:
		WriteError(w, http.StatusConflict, "conflict", se.Message, nil)
	case service.KindUnavailable:
		WriteError(w, http.StatusServiceUnavailable, "unavailable", se.Message, nil)
	default:
		h.Logger.ErrorContext(r.Context(), "unknown service error kind", "kind", se.Kind, "error", err)
		WriteInternalError(w)
	}
}

// encodeRenamed marshals v and renames "id" keys to "_id" at every depth.
func encodeRenamed(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(renameIDs(tree)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renameIDs(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if k == "id" {
				k = "_id"
			}
			out[k] = renameIDs(val)
		}
		return out
	case []any:
		for i := range t {
			t[i] = renameIDs(t[i])
		}
		return t
	default:
		return v
	}
}
