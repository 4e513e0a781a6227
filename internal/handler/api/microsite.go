// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wedly-admin/wedly-be/internal/model"
	"github.com/wedly-admin/wedly-be/internal/service"
)

// MicrositeRequest is the body of microsite create and update requests.
type MicrositeRequest struct {
	Slug          *string         `json:"slug"`
	Theme         *model.Theme    `json:"theme"`
	SEO           *model.SEO      `json:"seo"`
	DraftSections *model.Sections `json:"draftSections"`
}

func (req MicrositeRequest) input() service.MicrositeInput {
	return service.MicrositeInput{
		Slug:          req.Slug,
		Theme:         req.Theme,
		SEO:           req.SEO,
		DraftSections: req.DraftSections,
	}
}

// PublishRequest is the optional body of POST /microsite/publish.
type PublishRequest struct {
	Publish *bool `json:"publish"`
}

// SlugRequest is the body of POST /microsite/regenerate-slug.
type SlugRequest struct {
	Slug string `json:"slug"`
}

// Validate requires a slug.
func (req *SlugRequest) Validate() model.Issues {
	var issues model.Issues
	if req.Slug == "" {
		issues.Add("slug", "Slug is required")
	}
	return issues
}

// PreviewTokenRequest is the body of POST /microsite/preview-token.
type PreviewTokenRequest struct {
	Enable *bool `json:"enable"`
}

// GetMicrosite handles GET /microsite.
func (h *Handler) GetMicrosite(w http.ResponseWriter, r *http.Request) {
	site, err := h.Microsites.Get(r.Context(), tenant(r))
	respond(h, w, r, site, err)
}

// CreateMicrosite handles POST /microsite. A slug is required.
func (h *Handler) CreateMicrosite(w http.ResponseWriter, r *http.Request) {
	var req MicrositeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Slug == nil {
		WriteBadRequest(w, "Slug is required", []model.FieldIssue{{Field: "slug", Message: "Slug is required"}})
		return
	}
	site, err := h.Microsites.Upsert(r.Context(), tenant(r), req.input())
	respond(h, w, r, site, err)
}

// UpdateMicrosite handles PATCH and PUT /microsite.
func (h *Handler) UpdateMicrosite(w http.ResponseWriter, r *http.Request) {
	var req MicrositeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	site, err := h.Microsites.Upsert(r.Context(), tenant(r), req.input())
	respond(h, w, r, site, err)
}

// DeleteMicrosite handles DELETE /microsite.
func (h *Handler) DeleteMicrosite(w http.ResponseWriter, r *http.Request) {
	err := h.Microsites.Delete(r.Context(), tenant(r))
	respond(h, w, r, map[string]bool{"success": true}, err)
}

// PublishMicrosite handles POST /microsite/publish. {"publish": false}
// unpublishes.
func (h *Handler) PublishMicrosite(w http.ResponseWriter, r *http.Request) {
	var req PublishRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	publish := req.Publish == nil || *req.Publish
	site, err := h.Microsites.Publish(r.Context(), tenant(r), publish)
	respond(h, w, r, site, err)
}

// UnpublishMicrosite handles POST /microsite/unpublish.
func (h *Handler) UnpublishMicrosite(w http.ResponseWriter, r *http.Request) {
	site, err := h.Microsites.Publish(r.Context(), tenant(r), false)
	respond(h, w, r, site, err)
}

// RegenerateSlug handles POST /microsite/regenerate-slug.
func (h *Handler) RegenerateSlug(w http.ResponseWriter, r *http.Request) {
	var req SlugRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	site, err := h.Microsites.RegenerateSlug(r.Context(), tenant(r), req.Slug)
	respond(h, w, r, site, err)
}

// PreviewToken handles POST /microsite/preview-token. A missing enable
// flag issues a token.
func (h *Handler) PreviewToken(w http.ResponseWriter, r *http.Request) {
	var req PreviewTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	enable := req.Enable == nil || *req.Enable
	site, err := h.Microsites.TogglePreviewToken(r.Context(), tenant(r), enable)
	respond(h, w, r, site, err)
}

// SlugSuggestion handles GET /microsite/slug-suggestion.
func (h *Handler) SlugSuggestion(w http.ResponseWriter, r *http.Request) {
	slug, err := h.Microsites.SuggestSlug(r.Context(), tenant(r))
	respond(h, w, r, map[string]string{"slug": slug}, err)
}

// PublicMicrosite handles GET /m/{slug}.
func (h *Handler) PublicMicrosite(w http.ResponseWriter, r *http.Request) {
	view, err := h.Microsites.GetPublicBySlug(r.Context(), chi.URLParam(r, "slug"))
	respond(h, w, r, view, err)
}

// PreviewMicrosite handles GET /m/{slug}/preview?token=.
func (h *Handler) PreviewMicrosite(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	view, err := h.Microsites.GetPreviewBySlug(r.Context(), chi.URLParam(r, "slug"), r.URL.Query().Get("token"))
	respond(h, w, r, view, err)
}
