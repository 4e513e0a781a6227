// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wedly-admin/wedly-be/internal/model"
	"github.com/wedly-admin/wedly-be/internal/service"
)

// GuestRequest is the body of guest create and update requests.
type GuestRequest struct {
	FirstName *string  `json:"firstName"`
	LastName  *string  `json:"lastName"`
	Phone     *string  `json:"phone"`
	Email     *string  `json:"email"`
	Side      *string  `json:"side"`
	Status    *string  `json:"status"`
	Guests    *int64   `json:"guests"`
	Tags      []string `json:"tags"`
	Notes     *string  `json:"notes"`
}

// Validate rejects a party size below one.
func (req *GuestRequest) Validate() model.Issues {
	var issues model.Issues
	if req.Guests != nil && *req.Guests < 1 {
		issues.Add("guests", "must be at least 1")
	}
	return issues
}

func (req GuestRequest) input() service.GuestInput {
	return service.GuestInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
		Side:      req.Side,
		Status:    req.Status,
		Guests:    req.Guests,
		Tags:      req.Tags,
		Notes:     req.Notes,
	}
}

// TaskRequest is the body of checklist item requests.
type TaskRequest struct {
	Title          *string `json:"title"`
	Note           *string `json:"note"`
	Status         *string `json:"status"`
	Price          *int64  `json:"price"`
	AdvancePayment *int64  `json:"advancePayment"`
	DueDate        *string `json:"dueDate"`
	Order          *int64  `json:"order"`
}

func (req TaskRequest) input() service.ChecklistInput {
	return service.ChecklistInput{
		Title:          req.Title,
		Note:           req.Note,
		Status:         req.Status,
		Price:          req.Price,
		AdvancePayment: req.AdvancePayment,
		DueDate:        req.DueDate,
		Order:          req.Order,
	}
}

// BudgetRequest is the body of budget item requests.
type BudgetRequest struct {
	Category *string `json:"category"`
	Title    *string `json:"title"`
	Planned  *int64  `json:"planned"`
	Paid     *int64  `json:"paid"`
	Status   *string `json:"status"`
	DueDate  *string `json:"dueDate"`
	Notes    *string `json:"notes"`
	Order    *int64  `json:"order"`
}

func (req BudgetRequest) input() service.BudgetInput {
	return service.BudgetInput{
		Category: req.Category,
		Title:    req.Title,
		Planned:  req.Planned,
		Paid:     req.Paid,
		Status:   req.Status,
		DueDate:  req.DueDate,
		Notes:    req.Notes,
		Order:    req.Order,
	}
}

// ListGuests handles GET /guests.
func (h *Handler) ListGuests(w http.ResponseWriter, r *http.Request) {
	guests, err := h.Guests.List(r.Context(), tenant(r))
	respond(h, w, r, guests, err)
}

// CreateGuest handles POST /guests.
func (h *Handler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	var req GuestRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	guest, err := h.Guests.Create(r.Context(), tenant(r), req.input())
	respondCreated(h, w, r, guest, err)
}

// GetGuest handles GET /guests/{id}.
func (h *Handler) GetGuest(w http.ResponseWriter, r *http.Request) {
	guest, err := h.Guests.Get(r.Context(), tenant(r), chi.URLParam(r, "id"))
	respond(h, w, r, guest, err)
}

// UpdateGuest handles PATCH /guests/{id}.
func (h *Handler) UpdateGuest(w http.ResponseWriter, r *http.Request) {
	var req GuestRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	guest, err := h.Guests.Update(r.Context(), tenant(r), chi.URLParam(r, "id"), req.input())
	respond(h, w, r, guest, err)
}

// DeleteGuest handles DELETE /guests/{id}.
func (h *Handler) DeleteGuest(w http.ResponseWriter, r *http.Request) {
	err := h.Guests.Remove(r.Context(), tenant(r), chi.URLParam(r, "id"))
	respond(h, w, r, map[string]bool{"success": true}, err)
}

// ListTasks handles GET /tasks.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	items, err := h.Checklist.List(r.Context(), tenant(r))
	respond(h, w, r, items, err)
}

// CreateTask handles POST /tasks.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req TaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.Checklist.Create(r.Context(), tenant(r), req.input())
	respondCreated(h, w, r, item, err)
}

// GetTask handles GET /tasks/{id}.
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	item, err := h.Checklist.Get(r.Context(), tenant(r), chi.URLParam(r, "id"))
	respond(h, w, r, item, err)
}

// UpdateTask handles PUT and PATCH /tasks/{id}. Both are partial updates.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req TaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.Checklist.Update(r.Context(), tenant(r), chi.URLParam(r, "id"), req.input())
	respond(h, w, r, item, err)
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	err := h.Checklist.Remove(r.Context(), tenant(r), chi.URLParam(r, "id"))
	respond(h, w, r, map[string]bool{"success": true}, err)
}

// ListBudgetItems handles GET /budget.
func (h *Handler) ListBudgetItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Budget.List(r.Context(), tenant(r))
	respond(h, w, r, items, err)
}

// CreateBudgetItem handles POST /budget.
func (h *Handler) CreateBudgetItem(w http.ResponseWriter, r *http.Request) {
	var req BudgetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.Budget.Create(r.Context(), tenant(r), req.input())
	respondCreated(h, w, r, item, err)
}

// GetBudgetItem handles GET /budget/{id}.
func (h *Handler) GetBudgetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.Budget.Get(r.Context(), tenant(r), chi.URLParam(r, "id"))
	respond(h, w, r, item, err)
}

// UpdateBudgetItem handles PATCH /budget/{id}.
func (h *Handler) UpdateBudgetItem(w http.ResponseWriter, r *http.Request) {
	var req BudgetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.Budget.Update(r.Context(), tenant(r), chi.URLParam(r, "id"), req.input())
	respond(h, w, r, item, err)
}

// DeleteBudgetItem handles DELETE /budget/{id}.
func (h *Handler) DeleteBudgetItem(w http.ResponseWriter, r *http.Request) {
	err := h.Budget.Remove(r.Context(), tenant(r), chi.URLParam(r, "id"))
	respond(h, w, r, map[string]bool{"success": true}, err)
}

// GetDashboard handles GET /dashboard.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Dashboard.Dashboard(r.Context(), tenant(r))
	respond(h, w, r, d, err)
}

// GetBudgetStats handles GET /budget-stats.
func (h *Handler) GetBudgetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Dashboard.BudgetStats(r.Context(), tenant(r))
	respond(h, w, r, stats, err)
}

// respond writes data with 200, or the mapped error.
func respond[T any](h *Handler, w http.ResponseWriter, r *http.Request, data T, err error) {
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, data)
}

// respondCreated writes data with 201, or the mapped error.
func respondCreated[T any](h *Handler, w http.ResponseWriter, r *http.Request, data T, err error) {
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteCreated(w, data)
}
