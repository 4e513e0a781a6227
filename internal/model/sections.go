// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/wedly-admin/wedly-be/internal/util"
)

// Localized is a bilingual text value (Serbian and English).
type Localized struct {
	Sr string `json:"sr,omitempty"`
	En string `json:"en,omitempty"`
}

// SectionType discriminates microsite content blocks.
type SectionType string

const (
	SectionHero       SectionType = "hero"
	SectionSchedule   SectionType = "schedule"
	SectionVenue      SectionType = "venue"
	SectionGallery    SectionType = "gallery"
	SectionFAQ        SectionType = "faq"
	SectionRSVP       SectionType = "rsvp"
	SectionCustomHTML SectionType = "customHtml"
)

// Section is one content block. The block body is kept as the JSON the
// client sent (after validation and normalisation), so a published
// snapshot is an exact copy of the draft it was taken from.
type Section struct {
	Type SectionType
	raw  json.RawMessage
}

// MarshalJSON returns the stored block body.
func (s Section) MarshalJSON() ([]byte, error) {
	if len(s.raw) == 0 {
		return []byte("null"), nil
	}
	return s.raw, nil
}

// UnmarshalJSON keeps a private copy of the block and reads its type.
func (s *Section) UnmarshalJSON(b []byte) error {
	var head struct {
		Type SectionType `json:"type"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return err
	}
	s.Type = head.Type
	s.raw = append(json.RawMessage(nil), b...)
	return nil
}

// Raw returns the block body.
func (s Section) Raw() json.RawMessage {
	return s.raw
}

// Sections is an ordered list of content blocks.
type Sections []Section

// ParseSections decodes a stored section list. Empty input and JSON null
// yield an empty list.
func ParseSections(data string) (Sections, error) {
	trimmed := bytes.TrimSpace([]byte(data))
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Sections{}, nil
	}
	var ss Sections
	if err := json.Unmarshal(trimmed, &ss); err != nil {
		return nil, fmt.Errorf("decoding sections: %w", err)
	}
	return ss, nil
}

// Encode serialises the list for storage.
func (ss Sections) Encode() (string, error) {
	if ss == nil {
		ss = Sections{}
	}
	b, err := json.Marshal(ss)
	if err != nil {
		return "", fmt.Errorf("encoding sections: %w", err)
	}
	return string(b), nil
}

// Clone returns a deep copy.
func (ss Sections) Clone() Sections {
	out := make(Sections, len(ss))
	for i, s := range ss {
		out[i] = Section{Type: s.Type, raw: append(json.RawMessage(nil), s.raw...)}
	}
	return out
}

var (
	htmlSanitizer = bluemonday.UGCPolicy()
	markdown      = goldmark.New(goldmark.WithRendererOptions(html.WithUnsafe()))
)

type scheduleItem struct {
	Time        *string    `json:"time"`
	Title       *Localized `json:"title"`
	Description *Localized `json:"description"`
	Icon        string     `json:"icon"`
}

type galleryImage struct {
	URL *string    `json:"url"`
	Alt *Localized `json:"alt"`
}

type faqItem struct {
	Q *Localized `json:"q"`
	A *Localized `json:"a"`
}

type blockFields struct {
	// hero
	Heading         *Localized `json:"heading"`
	Subheading      *Localized `json:"subheading"`
	CtaLabel        *Localized `json:"ctaLabel"`
	CtaHref         string     `json:"ctaHref"`
	BackgroundImage string     `json:"backgroundImage"`
	Overlay         *bool      `json:"overlay"`

	// schedule, faq
	Items json.RawMessage `json:"items"`

	// venue
	Name    *Localized `json:"name"`
	Address *Localized `json:"address"`
	MapURL  string     `json:"mapUrl"`
	Geo     *struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	} `json:"geo"`
	Images json.RawMessage `json:"images"`

	// gallery
	Layout string `json:"layout"`

	// rsvp
	Description *Localized `json:"description"`
	SubmitLabel *Localized `json:"submitLabel"`
	WebhookURL  string     `json:"webhookUrl"`

	// customHtml
	HTML   *Localized `json:"html"`
	Format string     `json:"format"`
}

// ValidateSections checks every block against its kind and returns the
// normalised list: defaults filled in and customHtml rendered and
// sanitised. Problems are recorded in issues under path.
func ValidateSections(ss Sections, path string, issues *Issues) Sections {
	out := make(Sections, 0, len(ss))
	for i, s := range ss {
		p := indexPath(path, i)
		norm, err := normalizeSection(s, p, issues)
		if err != nil {
			issues.Add(p, "invalid block: %v", err)
			continue
		}
		out = append(out, norm)
	}
	return out
}

func normalizeSection(s Section, path string, issues *Issues) (Section, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(s.raw, &doc); err != nil {
		return Section{}, errors.New("must be an object")
	}
	var f blockFields
	if err := json.Unmarshal(s.raw, &f); err != nil {
		return Section{}, err
	}

	switch s.Type {
	case SectionHero:
		requireLocalized(f.Heading, joinPath(path, "heading"), issues)
		optionalURL(f.BackgroundImage, joinPath(path, "backgroundImage"), issues)
		if f.Overlay == nil {
			doc["overlay"] = json.RawMessage("true")
		}

	case SectionSchedule:
		var items []scheduleItem
		if !decodeList(f.Items, &items, joinPath(path, "items"), issues) {
			break
		}
		for i, it := range items {
			ip := indexPath(joinPath(path, "items"), i)
			if it.Time == nil {
				issues.Add(joinPath(ip, "time"), "is required")
			}
			requireLocalized(it.Title, joinPath(ip, "title"), issues)
		}

	case SectionVenue:
		requireLocalized(f.Name, joinPath(path, "name"), issues)
		requireLocalized(f.Address, joinPath(path, "address"), issues)
		optionalURL(f.MapURL, joinPath(path, "mapUrl"), issues)
		if f.Geo != nil && (f.Geo.Lat == nil || f.Geo.Lng == nil) {
			issues.Add(joinPath(path, "geo"), "lat and lng are required")
		}
		if len(f.Images) == 0 || string(f.Images) == "null" {
			doc["images"] = json.RawMessage("[]")
			break
		}
		var images []string
		if decodeList(f.Images, &images, joinPath(path, "images"), issues) {
			for i, u := range images {
				if !isURL(u) {
					issues.Add(indexPath(joinPath(path, "images"), i), "must be a valid URL")
				}
			}
		}

	case SectionGallery:
		var images []galleryImage
		if decodeList(f.Images, &images, joinPath(path, "images"), issues) {
			for i, img := range images {
				ip := indexPath(joinPath(path, "images"), i)
				if img.URL == nil || !isURL(*img.URL) {
					issues.Add(joinPath(ip, "url"), "must be a valid URL")
				}
			}
		}
		switch f.Layout {
		case "":
			doc["layout"] = json.RawMessage(`"grid"`)
		case "grid", "masonry", "carousel":
		default:
			issues.Add(joinPath(path, "layout"), "must be one of grid, masonry, carousel")
		}

	case SectionFAQ:
		var items []faqItem
		if !decodeList(f.Items, &items, joinPath(path, "items"), issues) {
			break
		}
		for i, it := range items {
			ip := indexPath(joinPath(path, "items"), i)
			requireLocalized(it.Q, joinPath(ip, "q"), issues)
			requireLocalized(it.A, joinPath(ip, "a"), issues)
		}

	case SectionRSVP:
		if f.WebhookURL != "" {
			if err := util.ValidatePublicURL(f.WebhookURL); err != nil {
				issues.Add(joinPath(path, "webhookUrl"), "%v", err)
			}
		}

	case SectionCustomHTML:
		if !requireLocalized(f.HTML, joinPath(path, "html"), issues) {
			break
		}
		if f.Format != "" && f.Format != "html" && f.Format != "markdown" {
			issues.Add(joinPath(path, "format"), "must be html or markdown")
			break
		}
		rendered, err := renderCustomHTML(*f.HTML, f.Format == "markdown")
		if err != nil {
			return Section{}, err
		}
		b, err := json.Marshal(rendered)
		if err != nil {
			return Section{}, err
		}
		doc["html"] = b
		doc["format"] = json.RawMessage(`"html"`)

	default:
		issues.Add(joinPath(path, "type"), "unknown section type %q", s.Type)
		return s, nil
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return Section{}, err
	}
	return Section{Type: s.Type, raw: raw}, nil
}

func renderCustomHTML(in Localized, isMarkdown bool) (Localized, error) {
	render := func(s string) (string, error) {
		if s == "" {
			return "", nil
		}
		if isMarkdown {
			var buf bytes.Buffer
			if err := markdown.Convert([]byte(s), &buf); err != nil {
				return "", fmt.Errorf("rendering markdown: %w", err)
			}
			s = buf.String()
		}
		return htmlSanitizer.Sanitize(s), nil
	}

	var out Localized
	var err error
	if out.Sr, err = render(in.Sr); err != nil {
		return Localized{}, err
	}
	if out.En, err = render(in.En); err != nil {
		return Localized{}, err
	}
	return out, nil
}

func requireLocalized(l *Localized, path string, issues *Issues) bool {
	if l == nil {
		issues.Add(path, "is required")
		return false
	}
	return true
}

func optionalURL(s, path string, issues *Issues) {
	if s != "" && !isURL(s) {
		issues.Add(path, "must be a valid URL")
	}
}

func decodeList(raw json.RawMessage, dst any, path string, issues *Issues) bool {
	if len(raw) == 0 || string(raw) == "null" {
		issues.Add(path, "is required")
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		issues.Add(path, "must be a list of objects")
		return false
	}
	return true
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
