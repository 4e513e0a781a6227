// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wedly-admin/wedly-be/internal/model"
	"github.com/wedly-admin/wedly-be/internal/store"
	"github.com/wedly-admin/wedly-be/internal/util"
)

// SiteCache caches public microsite views by slug. Fill must discard a
// view whose generation is older than the latest Invalidate of its slug.
type SiteCache interface {
	Get(ctx context.Context, slug string) (model.SiteView, bool)
	Generation(slug string) uint64
	Fill(ctx context.Context, slug string, gen uint64, view model.SiteView)
	Invalidate(ctx context.Context, slug string)
}

// MicrositeService publishes the wedding website of an event.
type MicrositeService struct {
	db      *sql.DB
	queries *store.Queries
	cache   SiteCache
	logger  *slog.Logger
}

// NewMicrositeService creates a new MicrositeService. cache may be nil.
func NewMicrositeService(db *sql.DB, cache SiteCache, logger *slog.Logger) *MicrositeService {
	return &MicrositeService{
		db:      db,
		queries: store.New(db),
		cache:   cache,
		logger:  logger,
	}
}

// MicrositeInput holds a partial microsite update. Nil fields are left
// unchanged on an existing site.
type MicrositeInput struct {
	Slug          *string
	Theme         *model.Theme
	SEO           *model.SEO
	DraftSections *model.Sections
}

// Get returns the caller's microsite.
func (s *MicrositeService) Get(ctx context.Context, t Tenant) (model.Microsite, error) {
	row, err := getMicrosite(ctx, s.queries, t)
	if err != nil {
		return model.Microsite{}, err
	}
	return micrositeFromStore(row)
}

// Upsert creates the caller's microsite or merges the supplied fields into
// the draft. The published snapshot is never touched here.
func (s *MicrositeService) Upsert(ctx context.Context, t Tenant, in MicrositeInput) (model.Microsite, error) {
	var issues model.Issues
	var slug string
	if in.Slug != nil {
		slug = util.NormalizeMicrositeSlug(*in.Slug)
		if !util.IsValidMicrositeSlug(slug) {
			issues.Add("slug", "must be at least %d characters of a-z, 0-9 and -", util.MinMicrositeSlugLength)
		}
	}
	var sections model.Sections
	if in.DraftSections != nil {
		sections = model.ValidateSections(*in.DraftSections, "draftSections", &issues)
	}
	if in.SEO != nil {
		in.SEO.Validate("seo", &issues)
	}
	if err := invalid(issues); err != nil {
		return model.Microsite{}, err
	}

	if in.Theme != nil {
		th := in.Theme.WithDefaults()
		in.Theme = &th
	}
	theme, err := encodeOptional(in.Theme)
	if err != nil {
		return model.Microsite{}, err
	}
	seo, err := encodeOptional(in.SEO)
	if err != nil {
		return model.Microsite{}, err
	}

	var out store.Microsite
	var oldSlug string
	err = store.RunInTx(ctx, s.db, func(q *store.Queries) error {
		if in.Slug != nil {
			if err := ensureSlugAvailable(ctx, q, t, slug); err != nil {
				return err
			}
		}

		existing, err := q.GetMicrositeByEvent(ctx, t.EventID)
		if errors.Is(err, sql.ErrNoRows) {
			if in.Slug == nil {
				return badRequest("Slug is required when creating a website")
			}
			draft := "[]"
			if in.DraftSections != nil {
				if draft, err = sections.Encode(); err != nil {
					return err
				}
			}
			now := time.Now()
			out, err = q.CreateMicrosite(ctx, store.CreateMicrositeParams{
				ID:            newID(),
				EventID:       t.EventID,
				Slug:          slug,
				Status:        string(model.MicrositeDraft),
				Theme:         theme,
				Seo:           seo,
				DraftSections: draft,
				CreatedAt:     now,
				UpdatedAt:     now,
			})
			return slugWriteError(err, "creating microsite")
		}
		if err != nil {
			return fmt.Errorf("loading microsite: %w", err)
		}

		oldSlug = existing.Slug
		params := store.UpdateMicrositeDraftParams{
			Slug:          existing.Slug,
			Theme:         existing.Theme,
			Seo:           existing.Seo,
			DraftSections: existing.DraftSections,
			UpdatedAt:     time.Now(),
			EventID:       t.EventID,
		}
		if in.Slug != nil {
			params.Slug = slug
		}
		if in.Theme != nil {
			params.Theme = theme
		}
		if in.SEO != nil {
			params.Seo = seo
		}
		if in.DraftSections != nil {
			if params.DraftSections, err = sections.Encode(); err != nil {
				return err
			}
		}
		out, err = q.UpdateMicrositeDraft(ctx, params)
		return slugWriteError(err, "updating microsite")
	})
	if err != nil {
		return model.Microsite{}, err
	}

	// Theme and SEO are served live next to the published sections.
	s.invalidate(ctx, oldSlug, out.Slug)
	return micrositeFromStore(out)
}

// Publish copies the draft into the published snapshot when publish is
// true. When false the site goes back to DRAFT and the snapshot is kept
// unchanged but hidden from the public endpoint.
func (s *MicrositeService) Publish(ctx context.Context, t Tenant, publish bool) (model.Microsite, error) {
	var out store.Microsite
	err := store.RunInTx(ctx, s.db, func(q *store.Queries) error {
		row, err := getMicrosite(ctx, q, t)
		if err != nil {
			return err
		}
		site, err := micrositeFromStore(row)
		if err != nil {
			return err
		}

		params := store.UpdateMicrositePublicationParams{
			PubSections: row.PubSections,
			PublishedAt: row.PublishedAt,
			UpdatedAt:   time.Now(),
			EventID:     t.EventID,
		}
		if publish {
			site.Publish(params.UpdatedAt)
			encoded, err := site.Published.Sections.Encode()
			if err != nil {
				return err
			}
			params.PubSections = sql.NullString{String: encoded, Valid: true}
			params.PublishedAt = sql.NullTime{Time: site.Published.PublishedAt, Valid: true}
		} else {
			site.Unpublish()
		}
		params.Status = string(site.Status)

		out, err = q.UpdateMicrositePublication(ctx, params)
		if err != nil {
			return fmt.Errorf("updating microsite publication: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Microsite{}, err
	}

	s.invalidate(ctx, out.Slug)
	s.logger.InfoContext(ctx, "microsite publication changed", "event_id", t.EventID, "slug", out.Slug, "status", out.Status)
	return micrositeFromStore(out)
}

// RegenerateSlug moves the microsite to a new slug. Content is unchanged.
func (s *MicrositeService) RegenerateSlug(ctx context.Context, t Tenant, newSlug string) (model.Microsite, error) {
	slug := util.NormalizeMicrositeSlug(newSlug)
	if !util.IsValidMicrositeSlug(slug) {
		var issues model.Issues
		issues.Add("slug", "must be at least %d characters of a-z, 0-9 and -", util.MinMicrositeSlugLength)
		return model.Microsite{}, invalid(issues)
	}

	var out store.Microsite
	var oldSlug string
	err := store.RunInTx(ctx, s.db, func(q *store.Queries) error {
		if err := ensureSlugAvailable(ctx, q, t, slug); err != nil {
			return err
		}
		row, err := getMicrosite(ctx, q, t)
		if err != nil {
			return err
		}
		oldSlug = row.Slug
		out, err = q.UpdateMicrositeSlug(ctx, store.UpdateMicrositeSlugParams{
			Slug:      slug,
			UpdatedAt: time.Now(),
			EventID:   t.EventID,
		})
		return slugWriteError(err, "updating microsite slug")
	})
	if err != nil {
		return model.Microsite{}, err
	}

	s.invalidate(ctx, oldSlug, out.Slug)
	return micrositeFromStore(out)
}

// TogglePreviewToken issues a fresh preview token when enable is true,
// replacing any previous one, and clears it otherwise.
func (s *MicrositeService) TogglePreviewToken(ctx context.Context, t Tenant, enable bool) (model.Microsite, error) {
	if _, err := getMicrosite(ctx, s.queries, t); err != nil {
		return model.Microsite{}, err
	}

	var token sql.NullString
	if enable {
		b := make([]byte, 16)
		if _, err := rand.Read(b); err != nil {
			return model.Microsite{}, fmt.Errorf("generating preview token: %w", err)
		}
		token = sql.NullString{String: hex.EncodeToString(b), Valid: true}
	}

	row, err := s.queries.UpdateMicrositePreviewToken(ctx, store.UpdateMicrositePreviewTokenParams{
		PreviewToken: token,
		UpdatedAt:    time.Now(),
		EventID:      t.EventID,
	})
	if err != nil {
		return model.Microsite{}, fmt.Errorf("updating preview token: %w", err)
	}
	return micrositeFromStore(row)
}

// Delete removes the caller's microsite.
func (s *MicrositeService) Delete(ctx context.Context, t Tenant) error {
	row, err := getMicrosite(ctx, s.queries, t)
	if err != nil {
		return err
	}
	if _, err := s.queries.DeleteMicrositeByEvent(ctx, t.EventID); err != nil {
		return fmt.Errorf("deleting microsite: %w", err)
	}
	s.invalidate(ctx, row.Slug)
	return nil
}

// GetPublicBySlug returns the published content of a site. Drafts and
// unpublished sites are reported as not found.
func (s *MicrositeService) GetPublicBySlug(ctx context.Context, slug string) (model.SiteView, error) {
	slug = util.NormalizeMicrositeSlug(slug)
	var gen uint64
	if s.cache != nil {
		if view, ok := s.cache.Get(ctx, slug); ok {
			return view, nil
		}
		gen = s.cache.Generation(slug)
	}

	site, err := s.bySlug(ctx, slug)
	if err != nil {
		return model.SiteView{}, err
	}
	view, ok := site.PublicView()
	if !ok {
		return model.SiteView{}, notFound("Microsite not found")
	}

	if s.cache != nil {
		s.cache.Fill(ctx, slug, gen, view)
	}
	return view, nil
}

// GetPreviewBySlug returns the current draft of a site to holders of its
// preview token.
func (s *MicrositeService) GetPreviewBySlug(ctx context.Context, slug, token string) (model.SiteView, error) {
	site, err := s.bySlug(ctx, util.NormalizeMicrositeSlug(slug))
	if err != nil {
		return model.SiteView{}, err
	}
	if site.PreviewToken == "" || subtle.ConstantTimeCompare([]byte(site.PreviewToken), []byte(token)) != 1 {
		return model.SiteView{}, unauthorized("Invalid preview token")
	}
	return site.PreviewView(), nil
}

// maxSlugSuggestions bounds the numbered variants tried for a suggestion.
const maxSlugSuggestions = 50

// SuggestSlug proposes a free slug derived from the couple's names.
func (s *MicrositeService) SuggestSlug(ctx context.Context, t Tenant) (string, error) {
	user, err := s.queries.GetUserByID(ctx, t.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", notFound("User not found")
	}
	if err != nil {
		return "", fmt.Errorf("loading user: %w", err)
	}

	base := util.SuggestSlug(user.GroomFullName, user.BrideFullName)
	if base == "" {
		base = "wedding"
	}

	candidate := base
	for i := 2; i <= maxSlugSuggestions+1; i++ {
		taken, err := s.queries.SlugTakenByOtherEvent(ctx, store.SlugTakenByOtherEventParams{Slug: candidate, EventID: t.EventID})
		if err != nil {
			return "", fmt.Errorf("checking slug: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return base + "-" + newID()[:8], nil
}

func (s *MicrositeService) bySlug(ctx context.Context, slug string) (model.Microsite, error) {
	row, err := s.queries.GetMicrositeBySlug(ctx, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Microsite{}, notFound("Microsite not found")
	}
	if err != nil {
		return model.Microsite{}, fmt.Errorf("loading microsite: %w", err)
	}
	return micrositeFromStore(row)
}

func (s *MicrositeService) invalidate(ctx context.Context, slugs ...string) {
	if s.cache == nil {
		return
	}
	for _, slug := range slugs {
		if slug != "" {
			s.cache.Invalidate(ctx, slug)
		}
	}
}

func getMicrosite(ctx context.Context, q *store.Queries, t Tenant) (store.Microsite, error) {
	row, err := q.GetMicrositeByEvent(ctx, t.EventID)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Microsite{}, notFound("Microsite not found")
	}
	if err != nil {
		return store.Microsite{}, fmt.Errorf("loading microsite: %w", err)
	}
	return row, nil
}

func ensureSlugAvailable(ctx context.Context, q *store.Queries, t Tenant, slug string) error {
	taken, err := q.SlugTakenByOtherEvent(ctx, store.SlugTakenByOtherEventParams{Slug: slug, EventID: t.EventID})
	if err != nil {
		return fmt.Errorf("checking slug: %w", err)
	}
	if taken {
		return conflict("Slug already taken")
	}
	return nil
}

func slugWriteError(err error, op string) error {
	if store.IsUniqueViolation(err) {
		return conflict("Slug already taken")
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func encodeOptional[T any](v *T) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encoding: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}
