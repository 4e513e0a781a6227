// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"

	"github.com/go-chi/chi/v5"
	"github.com/mileusna/useragent"

	"github.com/wedly-admin/wedly-be/internal/middleware"
	"github.com/wedly-admin/wedly-be/internal/service"
)

// Multipart limits.
const (
	maxGuestPhotoFiles = 10
	multipartMemory    = 8 << 20
	// multipartOverhead covers boundaries and text fields.
	multipartOverhead = 1 << 20
)

// UploadMedia handles POST /microsite/upload with a multipart "file" field.
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxMicrositeUploadSize+multipartOverhead)
	if !parseMultipart(w, r) {
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteBadRequest(w, "No file uploaded", nil)
		return
	}
	defer func() { _ = file.Close() }()

	up, err := readUpload(header, file, service.MaxMicrositeUploadSize)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("File must be under %d MB", service.MaxMicrositeUploadSize>>20), nil)
		return
	}

	res, err := h.Media.Upload(r.Context(), tenant(r), up)
	respondCreated(h, w, r, res, err)
}

// ListAssets handles GET /microsite/assets.
func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.Media.ListAssets(r.Context(), tenant(r))
	respond(h, w, r, assets, err)
}

// SubmitGuestPhotos handles POST /guest-photos/{slug}/submit with up to ten
// multipart "photos" files and an optional "message" field.
func (h *Handler) SubmitGuestPhotos(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxGuestPhotoFiles*service.MaxGuestPhotoSize+multipartOverhead)
	if !parseMultipart(w, r) {
		return
	}

	headers := r.MultipartForm.File["photos"]
	if len(headers) > maxGuestPhotoFiles {
		WriteBadRequest(w, fmt.Sprintf("At most %d photos can be sent at once.", maxGuestPhotoFiles), nil)
		return
	}

	uploads := make([]service.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			WriteBadRequest(w, "Could not read uploaded photo.", nil)
			return
		}
		up, err := readUpload(fh, f, service.MaxGuestPhotoSize)
		_ = f.Close()
		if err != nil {
			WriteBadRequest(w, fmt.Sprintf("Each photo must be under %d MB.", service.MaxGuestPhotoSize>>20), nil)
			return
		}
		uploads = append(uploads, up)
	}

	slug := chi.URLParam(r, "slug")
	err := h.GuestPhotos.Submit(r.Context(), slug, uploads, r.FormValue("message"))
	if err == nil {
		client := parseClient(r.UserAgent())
		h.Logger.InfoContext(r.Context(), "guest photos submitted",
			"owner_id", slug,
			"photos", len(uploads),
			"browser", client.Browser,
			"os", client.OS,
			"device", client.Device,
		)
	}
	respondCreated(h, w, r, map[string]bool{"success": true}, err)
}

// clientInfo summarises a guest's user agent for submission logs.
type clientInfo struct {
	Browser string
	OS      string
	Device  string
}

func parseClient(uaString string) clientInfo {
	ua := useragent.Parse(uaString)

	info := clientInfo{Browser: ua.Name, OS: ua.OS}
	if info.Browser == "" {
		info.Browser = "Unknown"
	}
	if info.OS == "" {
		info.OS = "Unknown"
	}
	switch {
	case ua.Mobile:
		info.Device = "mobile"
	case ua.Tablet:
		info.Device = "tablet"
	case ua.Bot:
		info.Device = "bot"
	default:
		info.Device = "desktop"
	}
	return info
}

// ListGuestPhotos handles GET /guest-photos/submissions.
func (h *Handler) ListGuestPhotos(w http.ResponseWriter, r *http.Request) {
	list, err := h.GuestPhotos.List(r.Context(), middleware.GetUserID(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	// The list already carries its own data and totalImageCount keys.
	WriteJSON(w, http.StatusOK, list)
}

// DownloadGuestPhoto handles GET /guest-photos/download?url= and streams
// one of the caller's guest photos as an attachment.
func (h *Handler) DownloadGuestPhoto(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	if raw == "" {
		WriteBadRequest(w, "Missing url parameter.", nil)
		return
	}
	if decoded, err := url.PathUnescape(raw); err == nil {
		raw = decoded
	}

	rc, err := h.GuestPhotos.Download(r.Context(), middleware.GetUserID(r), raw)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	defer func() { _ = rc.Close() }()

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(raw)))
	if _, err := io.Copy(w, rc); err != nil {
		h.Logger.WarnContext(r.Context(), "streaming guest photo failed", "error", err)
	}
}

// parseMultipart parses a multipart body, writing 413 or 400 on failure.
func parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	err := r.ParseMultipartForm(multipartMemory)
	if err == nil {
		return true
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		WriteError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "Request body too large", nil)
		return false
	}
	WriteBadRequest(w, "Expected a multipart/form-data body", nil)
	return false
}

var errFileTooLarge = errors.New("file too large")

// readUpload reads at most limit bytes of one uploaded file.
func readUpload(header *multipart.FileHeader, f multipart.File, limit int64) (service.Upload, error) {
	if header.Size > limit {
		return service.Upload{}, errFileTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return service.Upload{}, err
	}
	if int64(len(data)) > limit {
		return service.Upload{}, errFileTooLarge
	}
	return service.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
