// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wedly-admin/wedly-be/internal/imaging"
	"github.com/wedly-admin/wedly-be/internal/model"
	"github.com/wedly-admin/wedly-be/internal/storage"
	"github.com/wedly-admin/wedly-be/internal/store"
)

// MaxMicrositeUploadSize bounds a single microsite image upload.
const MaxMicrositeUploadSize = 10 << 20

// Upload is one file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// UploadResult is returned after a microsite image was stored.
type UploadResult struct {
	URL   string           `json:"url"`
	Asset model.MediaAsset `json:"asset"`
}

// MediaService stores microsite images and lists the event's assets.
type MediaService struct {
	queries *store.Queries
	objects storage.Store
	logger  *slog.Logger
}

// NewMediaService creates a new MediaService.
func NewMediaService(db *sql.DB, objects storage.Store, logger *slog.Logger) *MediaService {
	return &MediaService{
		queries: store.New(db),
		objects: objects,
		logger:  logger,
	}
}

// Upload stores a microsite image and records it as a media asset. The
// type is sniffed from the content; only JPEG, PNG, GIF and WebP pass.
func (s *MediaService) Upload(ctx context.Context, t Tenant, up Upload) (UploadResult, error) {
	if len(up.Data) == 0 {
		return UploadResult{}, badRequest("No file uploaded")
	}
	if len(up.Data) > MaxMicrositeUploadSize {
		return UploadResult{}, badRequest("File must be under %d MB", MaxMicrositeUploadSize>>20)
	}
	mime := imaging.DetectMimeType(up.Data)
	if !imaging.IsAllowedMimeType(mime) {
		return UploadResult{}, badRequest("Invalid file type. Allowed: JPEG, PNG, GIF, WebP")
	}

	key, err := objectKey("microsite/"+t.UserID, imaging.Extension(mime))
	if err != nil {
		return UploadResult{}, err
	}
	url, err := s.objects.Put(ctx, key, mime, up.Data)
	if err != nil {
		return UploadResult{}, storageError(err)
	}

	meta := map[string]any{"mimeType": mime, "size": len(up.Data)}
	if up.Filename != "" {
		meta["filename"] = up.Filename
	}
	if w, h, err := imaging.Dimensions(up.Data); err == nil {
		meta["width"], meta["height"] = w, h
	}
	encoded, err := json.Marshal(meta)
	if err != nil {
		return UploadResult{}, fmt.Errorf("encoding asset meta: %w", err)
	}

	row, err := s.queries.CreateMediaAsset(ctx, store.CreateMediaAssetParams{
		ID:        newID(),
		EventID:   t.EventID,
		Url:       url,
		Kind:      "image",
		Meta:      string(encoded),
		CreatedAt: time.Now(),
	})
	if err != nil {
		discardObjects(ctx, s.objects, s.logger, key)
		return UploadResult{}, fmt.Errorf("recording media asset: %w", err)
	}
	s.logger.InfoContext(ctx, "microsite image uploaded", "event_id", t.EventID, "key", key, "size", len(up.Data))
	return UploadResult{URL: url, Asset: mediaAssetFromStore(row)}, nil
}

// ListAssets returns the event's media assets, newest first.
func (s *MediaService) ListAssets(ctx context.Context, t Tenant) ([]model.MediaAsset, error) {
	rows, err := s.queries.ListMediaAssets(ctx, t.EventID)
	if err != nil {
		return nil, fmt.Errorf("listing media assets: %w", err)
	}
	out := make([]model.MediaAsset, len(rows))
	for i, r := range rows {
		out[i] = mediaAssetFromStore(r)
	}
	return out, nil
}

// objectKey builds prefix/<unix-ms>-<random>.<ext>.
func objectKey(prefix, ext string) (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating object key: %w", err)
	}
	return fmt.Sprintf("%s/%d-%s.%s", prefix, time.Now().UnixMilli(), hex.EncodeToString(b), ext), nil
}

// discardObjects removes objects stored for a request that then failed.
// Empty keys are skipped.
func discardObjects(ctx context.Context, objects storage.Store, logger *slog.Logger, keys ...string) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := objects.Delete(ctx, key); err != nil {
			logger.WarnContext(ctx, "discarding stored object failed", "key", key, "error", err)
		}
	}
}

func storageError(err error) error {
	if errors.Is(err, storage.ErrNotConfigured) {
		return unavailable("Image upload is not configured")
	}
	return fmt.Errorf("storing object: %w", err)
}
