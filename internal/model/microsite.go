// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"time"
)

// Theme defaults.
const (
	DefaultThemePrimary = "#7C3AED"
	DefaultThemeFont    = "Inter"
	DefaultThemeRadius  = "1rem"
)

// Theme holds the microsite look.
type Theme struct {
	Primary string `json:"primary"`
	Font    string `json:"font"`
	Radius  string `json:"radius"`
}

// WithDefaults fills empty fields with the default theme values.
func (t Theme) WithDefaults() Theme {
	if t.Primary == "" {
		t.Primary = DefaultThemePrimary
	}
	if t.Font == "" {
		t.Font = DefaultThemeFont
	}
	if t.Radius == "" {
		t.Radius = DefaultThemeRadius
	}
	return t
}

// SEO holds page metadata for the public site.
type SEO struct {
	Title       *Localized `json:"title,omitempty"`
	Description *Localized `json:"description,omitempty"`
	OgImage     string     `json:"ogImage,omitempty"`
}

// Validate records SEO problems under path.
func (s SEO) Validate(path string, issues *Issues) {
	optionalURL(s.OgImage, joinPath(path, "ogImage"), issues)
}

// Snapshot is the content captured by the last publish.
type Snapshot struct {
	Sections    Sections
	PublishedAt time.Time
}

// Microsite is the wedding website of one event. Draft is always editable;
// Published is replaced only by Publish and survives Unpublish, so a site
// that goes back to draft keeps its last published content hidden rather
// than discarded.
type Microsite struct {
	ID           string
	EventID      string
	Slug         string
	Status       MicrositeStatus
	Theme        *Theme
	SEO          *SEO
	Draft        Sections
	Published    *Snapshot
	PreviewToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Publish copies the current draft into a new published snapshot.
func (m *Microsite) Publish(now time.Time) {
	m.Published = &Snapshot{Sections: m.Draft.Clone(), PublishedAt: now}
	m.Status = MicrositePublished
}

// Unpublish hides the site from the public endpoint. The snapshot is kept.
func (m *Microsite) Unpublish() {
	m.Status = MicrositeDraft
}

// SiteView is what public and preview readers receive.
type SiteView struct {
	Theme    Theme    `json:"theme"`
	SEO      *SEO     `json:"seo"`
	Sections Sections `json:"sections"`
}

// PublicView returns the published content, or false when the site is not
// currently published.
func (m *Microsite) PublicView() (SiteView, bool) {
	if m.Status != MicrositePublished || m.Published == nil {
		return SiteView{}, false
	}
	return m.view(m.Published.Sections), true
}

// PreviewView returns the current draft content.
func (m *Microsite) PreviewView() SiteView {
	return m.view(m.Draft)
}

func (m *Microsite) view(sections Sections) SiteView {
	theme := Theme{}
	if m.Theme != nil {
		theme = *m.Theme
	}
	if sections == nil {
		sections = Sections{}
	}
	return SiteView{Theme: theme.WithDefaults(), SEO: m.SEO, Sections: sections}
}

type micrositeJSON struct {
	ID            string          `json:"id"`
	EventID       string          `json:"eventId"`
	Slug          string          `json:"slug"`
	Status        MicrositeStatus `json:"status"`
	Theme         *Theme          `json:"theme"`
	SEO           *SEO            `json:"seo"`
	DraftSections Sections        `json:"draftSections"`
	PubSections   Sections        `json:"pubSections"`
	PublishedAt   *time.Time      `json:"publishedAt"`
	PreviewToken  *string         `json:"previewToken"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// MarshalJSON renders the owner view of the microsite.
func (m Microsite) MarshalJSON() ([]byte, error) {
	out := micrositeJSON{
		ID:            m.ID,
		EventID:       m.EventID,
		Slug:          m.Slug,
		Status:        m.Status,
		Theme:         m.Theme,
		SEO:           m.SEO,
		DraftSections: m.Draft,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if out.DraftSections == nil {
		out.DraftSections = Sections{}
	}
	if m.Published != nil {
		out.PubSections = m.Published.Sections
		at := m.Published.PublishedAt
		out.PublishedAt = &at
	}
	if m.PreviewToken != "" {
		token := m.PreviewToken
		out.PreviewToken = &token
	}
	return json.Marshal(out)
}
