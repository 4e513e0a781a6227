// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wedly-admin/wedly-be/internal/model"
	"github.com/wedly-admin/wedly-be/internal/service"
)

// TableRequest is the body of table create and update requests.
type TableRequest struct {
	Name     *string `json:"name"`
	Capacity *int64  `json:"capacity"`
	Side     *string `json:"side"`
	Order    *int64  `json:"order"`
}

// Validate checks numeric bounds. Capacity against existing seats is
// checked by the seating service.
func (req *TableRequest) Validate() model.Issues {
	var issues model.Issues
	if req.Capacity != nil && *req.Capacity < 1 {
		issues.Add("capacity", "must be at least 1")
	}
	if req.Order != nil && *req.Order < 0 {
		issues.Add("order", "must not be negative")
	}
	return issues
}

// SeatRequest is the body of seat create and update requests.
type SeatRequest struct {
	TableID  *string `json:"tableId"`
	GuestID  *string `json:"guestId"`
	Position *int64  `json:"position"`
}

// Validate rejects negative positions.
func (req *SeatRequest) Validate() model.Issues {
	var issues model.Issues
	if req.Position != nil && *req.Position < 0 {
		issues.Add("position", "must not be negative")
	}
	return issues
}

// BatchSeatRequest is the body of PATCH /seats/batch.
type BatchSeatRequest struct {
	Updates []BatchSeatUpdate `json:"updates"`
}

// BatchSeatUpdate moves one seat.
type BatchSeatUpdate struct {
	ID       string `json:"id"`
	Position *int64 `json:"position"`
}

// Validate checks the shape of every update.
func (req *BatchSeatRequest) Validate() model.Issues {
	var issues model.Issues
	if req.Updates == nil {
		issues.Add("updates", "Body must be { updates: [{ id: string, position: number }, ...] }")
		return issues
	}
	for i, u := range req.Updates {
		if strings.TrimSpace(u.ID) == "" {
			issues.Add(fmt.Sprintf("updates[%d].id", i), "is required")
		}
		if u.Position == nil {
			issues.Add(fmt.Sprintf("updates[%d].position", i), "is required")
		} else if *u.Position < 0 {
			issues.Add(fmt.Sprintf("updates[%d].position", i), "must not be negative")
		}
	}
	return issues
}

// ListTables handles GET /tables.
func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.Seating.ListTables(r.Context(), tenant(r))
	respond(h, w, r, tables, err)
}

// CreateTable handles POST /tables.
func (h *Handler) CreateTable(w http.ResponseWriter, r *http.Request) {
	var req TableRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in := service.TableInput{Capacity: req.Capacity, Side: req.Side, Order: req.Order}
	if req.Name != nil {
		in.Name = *req.Name
	}
	table, err := h.Seating.CreateTable(r.Context(), tenant(r), in)
	respondCreated(h, w, r, table, err)
}

// GetTable handles GET /tables/{id}.
func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	table, err := h.Seating.GetTable(r.Context(), tenant(r), chi.URLParam(r, "id"))
	respond(h, w, r, table, err)
}

// UpdateTable handles PATCH /tables/{id}.
func (h *Handler) UpdateTable(w http.ResponseWriter, r *http.Request) {
	var req TableRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	table, err := h.Seating.UpdateTable(r.Context(), tenant(r), chi.URLParam(r, "id"), service.TablePatch{
		Name:     req.Name,
		Capacity: req.Capacity,
		Side:     req.Side,
		Order:    req.Order,
	})
	respond(h, w, r, table, err)
}

// DeleteTable handles DELETE /tables/{id}. It removes the table's seats.
func (h *Handler) DeleteTable(w http.ResponseWriter, r *http.Request) {
	table, err := h.Seating.RemoveTable(r.Context(), tenant(r), chi.URLParam(r, "id"))
	respond(h, w, r, table, err)
}

// ListSeats handles GET /seats.
func (h *Handler) ListSeats(w http.ResponseWriter, r *http.Request) {
	seats, err := h.Seating.ListSeats(r.Context(), tenant(r))
	respond(h, w, r, seats, err)
}

// CreateSeat handles POST /seats.
func (h *Handler) CreateSeat(w http.ResponseWriter, r *http.Request) {
	var req SeatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	var issues model.Issues
	if req.TableID == nil || *req.TableID == "" {
		issues.Add("tableId", "is required")
	}
	if req.GuestID == nil || *req.GuestID == "" {
		issues.Add("guestId", "is required")
	}
	if !issues.Empty() {
		WriteError(w, http.StatusBadRequest, "validation_error", "Validation failed", issues)
		return
	}

	seat, err := h.Seating.CreateSeat(r.Context(), tenant(r), service.SeatInput{
		TableID:  *req.TableID,
		GuestID:  *req.GuestID,
		Position: req.Position,
	})
	respondCreated(h, w, r, seat, err)
}

// UpdateSeat handles PATCH /seats/{id}.
func (h *Handler) UpdateSeat(w http.ResponseWriter, r *http.Request) {
	var req SeatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	seat, err := h.Seating.UpdateSeat(r.Context(), tenant(r), chi.URLParam(r, "id"), service.SeatPatch{
		TableID:  req.TableID,
		GuestID:  req.GuestID,
		Position: req.Position,
	})
	respond(h, w, r, seat, err)
}

// BatchUpdateSeats handles PATCH /seats/batch.
func (h *Handler) BatchUpdateSeats(w http.ResponseWriter, r *http.Request) {
	var req BatchSeatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	updates := make([]service.PositionUpdate, len(req.Updates))
	for i, u := range req.Updates {
		updates[i] = service.PositionUpdate{ID: u.ID, Position: *u.Position}
	}
	seats, err := h.Seating.BatchUpdatePositions(r.Context(), tenant(r), updates)
	respond(h, w, r, seats, err)
}

// DeleteSeat handles DELETE /seats/{id}.
func (h *Handler) DeleteSeat(w http.ResponseWriter, r *http.Request) {
	seat, err := h.Seating.RemoveSeat(r.Context(), tenant(r), chi.URLParam(r, "id"))
	respond(h, w, r, seat, err)
}

// SeatingSummary handles GET /seats/summary.
func (h *Handler) SeatingSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Seating.Summary(r.Context(), tenant(r))
	respond(h, w, r, summary, err)
}
