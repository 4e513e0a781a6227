// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST API handlers of the wedding planner.
package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wedly-admin/wedly-be/internal/middleware"
	"github.com/wedly-admin/wedly-be/internal/service"
	"github.com/wedly-admin/wedly-be/internal/version"
)

// Deps are the collaborators of the API handlers. PublicLimiter and Login
// are optional.
type Deps struct {
	DB      *sql.DB
	Logger  *slog.Logger
	Version version.Info

	Tokens       middleware.AccessTokenParser
	Tenants      middleware.TenantResolver
	EventTenants middleware.EventTenantResolver

	Accounts    *service.AccountService
	Events      *service.EventService
	Guests      *service.GuestService
	Checklist   *service.ChecklistService
	Budget      *service.BudgetService
	Seating     *service.SeatingService
	Microsites  *service.MicrositeService
	Media       *service.MediaService
	GuestPhotos *service.GuestPhotoService
	Dashboard   *service.DashboardService

	Login         *middleware.LoginProtection
	PublicLimiter *middleware.RateLimiter

	// UploadsDir is served read-only under UploadsURL when both are set.
	UploadsDir string
	UploadsURL string
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	Deps
}

// NewHandler creates a new API handler.
func NewHandler(deps Deps) *Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Handler{Deps: deps}
}

// Routes builds the API router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.Health)
	r.Get("/health/live", h.Liveness)

	// Public microsite and guest photo endpoints.
	r.Group(func(r chi.Router) {
		if h.PublicLimiter != nil {
			r.Use(h.PublicLimiter.Middleware())
		}
		r.Get("/m/{slug}", h.PublicMicrosite)
		r.Get("/m/{slug}/preview", h.PreviewMicrosite)
		r.Post("/guest-photos/{slug}/submit", h.SubmitGuestPhotos)
	})

	r.Route("/auth", func(r chi.Router) {
		if h.Login != nil {
			r.Use(h.Login.Middleware())
		}
		r.Post("/register", h.Register)
		r.Post("/login", h.LoginUser)
		r.Post("/refresh", h.Refresh)
		r.Post("/forgot-password", h.ForgotPassword)
		r.Post("/reset-password", h.ResetPassword)
		r.Post("/verify-email", h.VerifyEmail)
		r.Post("/resend-verification", h.ResendVerification)
	})

	// Account-level endpoints need only an identity.
	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerAuth(h.Tokens))

		r.Get("/users/me", h.Me)
		r.Patch("/users/me", h.UpdateMe)
		r.Post("/users/me/password", h.ChangePassword)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.ListEvents)
			r.Post("/", h.CreateEvent)
			r.Route("/{eventId}", func(r chi.Router) {
				r.Get("/", h.GetEvent)
				r.Patch("/", h.UpdateEvent)
				r.Delete("/", h.DeleteEvent)

				// Nested resources of an explicitly addressed event.
				r.Group(func(r chi.Router) {
					r.Use(middleware.ResolveEventTenant(h.EventTenants, eventParam))
					h.tenantRoutes(r)
				})
			})
		})

		r.Get("/guest-photos/submissions", h.ListGuestPhotos)
		r.Get("/guest-photos/download", h.DownloadGuestPhoto)
	})

	// Tenant-scoped endpoints operate on the caller's primary event.
	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerAuth(h.Tokens))
		r.Use(middleware.ResolveTenant(h.Tenants))
		h.tenantRoutes(r)
	})

	if h.UploadsDir != "" && h.UploadsURL != "" {
		prefix := "/" + strings.Trim(h.UploadsURL, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix, serveUploads(h.UploadsDir)))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed", nil)
	})

	return r
}

// tenantRoutes mounts the resources nested under one event. The tenant is
// already in the request context.
func (h *Handler) tenantRoutes(r chi.Router) {
	r.Get("/dashboard", h.GetDashboard)
	r.Get("/budget-stats", h.GetBudgetStats)

	r.Route("/guests", func(r chi.Router) {
		r.Get("/", h.ListGuests)
		r.Post("/", h.CreateGuest)
		r.Get("/{id}", h.GetGuest)
		r.Patch("/{id}", h.UpdateGuest)
		r.Delete("/{id}", h.DeleteGuest)
	})

	tasks := func(r chi.Router) {
		r.Get("/", h.ListTasks)
		r.Post("/", h.CreateTask)
		r.Get("/{id}", h.GetTask)
		r.Put("/{id}", h.UpdateTask)
		r.Patch("/{id}", h.UpdateTask)
		r.Delete("/{id}", h.DeleteTask)
	}
	r.Route("/tasks", tasks)
	r.Route("/checklist", tasks)

	budget := func(r chi.Router) {
		r.Get("/", h.ListBudgetItems)
		r.Post("/", h.CreateBudgetItem)
		r.Get("/{id}", h.GetBudgetItem)
		r.Patch("/{id}", h.UpdateBudgetItem)
		r.Delete("/{id}", h.DeleteBudgetItem)
	}
	r.Route("/budget", budget)
	r.Route("/budget-items", budget)

	r.Route("/tables", func(r chi.Router) {
		r.Get("/", h.ListTables)
		r.Post("/", h.CreateTable)
		r.Get("/{id}", h.GetTable)
		r.Patch("/{id}", h.UpdateTable)
		r.Delete("/{id}", h.DeleteTable)
	})

	r.Route("/seats", func(r chi.Router) {
		r.Get("/", h.ListSeats)
		r.Post("/", h.CreateSeat)
		r.Get("/summary", h.SeatingSummary)
		// Registered before /{id} so "batch" is not taken for an ID.
		r.Patch("/batch", h.BatchUpdateSeats)
		r.Patch("/{id}", h.UpdateSeat)
		r.Delete("/{id}", h.DeleteSeat)
	})

	r.Route("/microsite", func(r chi.Router) {
		r.Get("/", h.GetMicrosite)
		r.Post("/", h.CreateMicrosite)
		r.Patch("/", h.UpdateMicrosite)
		r.Put("/", h.UpdateMicrosite)
		r.Delete("/", h.DeleteMicrosite)
		r.Post("/publish", h.PublishMicrosite)
		r.Post("/unpublish", h.UnpublishMicrosite)
		r.Post("/regenerate-slug", h.RegenerateSlug)
		r.Post("/preview-token", h.PreviewToken)
		r.Get("/slug-suggestion", h.SlugSuggestion)
		r.Post("/upload", h.UploadMedia)
		r.Get("/assets", h.ListAssets)
	})
	r.Get("/assets", h.ListAssets)
}

func eventParam(r *http.Request) string {
	return chi.URLParam(r, "eventId")
}

// serveUploads serves stored files without directory listings.
func serveUploads(dir string) http.Handler {
	fs := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			WriteNotFound(w, "File not found")
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	})
}

// tenant returns the tenant set by middleware.ResolveTenant or
// middleware.ResolveEventTenant. Routes using it are always mounted behind
// one of them.
func tenant(r *http.Request) service.Tenant {
	t, _ := middleware.GetTenant(r)
	return t
}
