// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/wedly-admin/wedly-be/internal/middleware"
	"github.com/wedly-admin/wedly-be/internal/service"
)

// EventRequest is the body of event create and update requests.
type EventRequest struct {
	Title  *string `json:"title"`
	Date   *string `json:"date"`
	Locale *string `json:"locale"`
}

func (req EventRequest) input() service.EventInput {
	return service.EventInput{Title: req.Title, Date: req.Date, Locale: req.Locale}
}

// ListEvents handles GET /events.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Events.List(r.Context(), middleware.GetUserID(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, events)
}

// CreateEvent handles POST /events.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	event, err := h.Events.Create(r.Context(), middleware.GetUserID(r), req.input())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteCreated(w, event)
}

// GetEvent handles GET /events/{id}.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.Events.Get(r.Context(), middleware.GetUserID(r), eventParam(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, event)
}

// UpdateEvent handles PATCH /events/{id}.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	event, err := h.Events.Update(r.Context(), middleware.GetUserID(r), eventParam(r), req.input())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, event)
}

// DeleteEvent handles DELETE /events/{id}.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.Events.Delete(r.Context(), middleware.GetUserID(r), eventParam(r)); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, map[string]bool{"success": true})
}
