// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/wedly-admin/wedly-be/internal/model"
	"github.com/wedly-admin/wedly-be/internal/store"
	"github.com/wedly-admin/wedly-be/internal/util"
)

func newID() string {
	return uuid.NewString()
}

func userFromStore(u store.User) model.User {
	currency, ok := model.ParseCurrency(u.Currency)
	if !ok {
		currency = model.DefaultCurrency
	}
	return model.User{
		ID:                   u.ID,
		Email:                u.Email,
		Name:                 u.Name,
		GroomFullName:        u.GroomFullName,
		BrideFullName:        u.BrideFullName,
		WeddingDate:          util.TimePtr(u.WeddingDate),
		WeddingCountry:       u.WeddingCountry,
		WeddingCity:          u.WeddingCity,
		Currency:             currency,
		TotalBudget:          u.TotalBudget,
		DefaultTableCapacity: u.DefaultTableCapacity,
		PrimaryEventID:       util.StringPtr(u.PrimaryEventID),
		EmailVerified:        u.EmailVerifiedAt.Valid,
		CreatedAt:            u.CreatedAt,
		UpdatedAt:            u.UpdatedAt,
	}
}

func eventFromStore(e store.Event) model.Event {
	return model.Event{
		ID:        e.ID,
		OwnerID:   e.OwnerID,
		Title:     e.Title,
		Date:      util.TimePtr(e.Date),
		Locale:    e.Locale,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func guestFromStore(g store.Guest) model.Guest {
	tags := []string{}
	if g.Tags != "" {
		if err := json.Unmarshal([]byte(g.Tags), &tags); err != nil {
			slog.Warn("invalid guest tags", "guest_id", g.ID, "error", err)
			tags = []string{}
		}
	}
	return model.Guest{
		ID:        g.ID,
		EventID:   g.EventID,
		FirstName: g.FirstName,
		LastName:  g.LastName,
		Phone:     g.Phone,
		Email:     g.Email,
		Side:      model.ParseGuestSide(g.Side),
		Status:    model.ParseGuestStatus(g.Status),
		Guests:    max(g.PartySize, 1),
		Tags:      tags,
		Notes:     g.Notes,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

func tableFromStore(t store.SeatingTable) model.Table {
	return model.Table{
		ID:        t.ID,
		EventID:   t.EventID,
		Name:      t.Name,
		Capacity:  t.Capacity,
		Side:      util.StringPtr(t.Side),
		Order:     t.SortOrder,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func seatFromStore(s store.SeatAssignment) model.Seat {
	return model.Seat{
		ID:        s.ID,
		EventID:   s.EventID,
		TableID:   s.TableID,
		GuestID:   s.GuestID,
		Position:  s.Position,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func seatsFromStore(rows []store.SeatAssignment) []model.Seat {
	out := make([]model.Seat, len(rows))
	for i, r := range rows {
		out[i] = seatFromStore(r)
	}
	return out
}

func checklistItemFromStore(c store.ChecklistItem) model.ChecklistItem {
	return model.ChecklistItem{
		ID:             c.ID,
		EventID:        c.EventID,
		Title:          c.Title,
		Note:           c.Description,
		Status:         model.NormalizeItemStatus(c.Status),
		Price:          c.Price,
		AdvancePayment: c.AdvancePayment,
		DueDate:        util.TimePtr(c.DueDate),
		Order:          c.SortOrder,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func budgetItemFromStore(b store.BudgetItem) model.BudgetItem {
	return model.BudgetItem{
		ID:        b.ID,
		EventID:   b.EventID,
		Category:  b.Category,
		Title:     b.Title,
		Planned:   b.Planned,
		Paid:      b.Paid,
		Status:    model.NormalizeItemStatus(b.Status),
		DueDate:   util.TimePtr(b.DueDate),
		Notes:     b.Notes,
		Order:     b.SortOrder,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func mediaAssetFromStore(m store.MediaAsset) model.MediaAsset {
	meta := map[string]any{}
	if m.Meta != "" {
		if err := json.Unmarshal([]byte(m.Meta), &meta); err != nil {
			slog.Warn("invalid media asset meta", "asset_id", m.ID, "error", err)
			meta = map[string]any{}
		}
	}
	return model.MediaAsset{
		ID:        m.ID,
		EventID:   m.EventID,
		URL:       m.Url,
		Kind:      m.Kind,
		Alt:       m.Alt,
		Meta:      meta,
		CreatedAt: m.CreatedAt,
	}
}

func guestPhotoSubmissionFromStore(g store.GuestPhotoSubmission) model.GuestPhotoSubmission {
	urls := []string{}
	if g.ImageUrls != "" {
		if err := json.Unmarshal([]byte(g.ImageUrls), &urls); err != nil {
			slog.Warn("invalid guest photo urls", "submission_id", g.ID, "error", err)
			urls = []string{}
		}
	}
	return model.GuestPhotoSubmission{
		ID:        g.ID,
		UserID:    g.UserID,
		Message:   util.StringPtr(g.Message),
		ImageURLs: urls,
		CreatedAt: g.CreatedAt,
	}
}

func micrositeFromStore(m store.Microsite) (model.Microsite, error) {
	draft, err := model.ParseSections(m.DraftSections)
	if err != nil {
		return model.Microsite{}, fmt.Errorf("microsite %s draft: %w", m.ID, err)
	}

	site := model.Microsite{
		ID:           m.ID,
		EventID:      m.EventID,
		Slug:         m.Slug,
		Status:       model.MicrositeStatus(m.Status),
		Draft:        draft,
		PreviewToken: m.PreviewToken.String,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if site.Status != model.MicrositePublished {
		site.Status = model.MicrositeDraft
	}

	if m.PubSections.Valid {
		pub, err := model.ParseSections(m.PubSections.String)
		if err != nil {
			return model.Microsite{}, fmt.Errorf("microsite %s published: %w", m.ID, err)
		}
		snap := &model.Snapshot{Sections: pub}
		if m.PublishedAt.Valid {
			snap.PublishedAt = m.PublishedAt.Time
		}
		site.Published = snap
	} else if site.Status == model.MicrositePublished {
		// Published without a snapshot is not a reachable state.
		site.Status = model.MicrositeDraft
	}

	if m.Theme.Valid && m.Theme.String != "" {
		var theme model.Theme
		if err := json.Unmarshal([]byte(m.Theme.String), &theme); err != nil {
			return model.Microsite{}, fmt.Errorf("microsite %s theme: %w", m.ID, err)
		}
		site.Theme = &theme
	}
	if m.Seo.Valid && m.Seo.String != "" {
		var seo model.SEO
		if err := json.Unmarshal([]byte(m.Seo.String), &seo); err != nil {
			return model.Microsite{}, fmt.Errorf("microsite %s seo: %w", m.ID, err)
		}
		site.SEO = &seo
	}
	return site, nil
}
