// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/wedly-admin/wedly-be/internal/imaging"
	"github.com/wedly-admin/wedly-be/internal/model"
	"github.com/wedly-admin/wedly-be/internal/storage"
	"github.com/wedly-admin/wedly-be/internal/store"
)

// Guest photo limits.
const (
	MaxGuestPhotosPerUser = 200
	MaxGuestPhotoSize     = 5 << 20
	MaxGuestPhotoMessage  = 500
)

const guestPhotoPrefix = "guest-photos/"

// GuestPhotoList is the owner's view of received guest photos.
type GuestPhotoList struct {
	Data            []model.GuestPhotoSubmission `json:"data"`
	TotalImageCount int64                        `json:"totalImageCount"`
}

// GuestPhotoService accepts photos from wedding guests over a public link
// and lists them for the couple.
type GuestPhotoService struct {
	db        *sql.DB
	queries   *store.Queries
	objects   storage.Store
	processor *imaging.Processor
	logger    *slog.Logger
}

// NewGuestPhotoService creates a new GuestPhotoService.
func NewGuestPhotoService(db *sql.DB, objects storage.Store, processor *imaging.Processor, logger *slog.Logger) *GuestPhotoService {
	return &GuestPhotoService{
		db:        db,
		queries:   store.New(db),
		objects:   objects,
		processor: processor,
		logger:    logger,
	}
}

// Submit stores a batch of guest photos for the couple identified by slug,
// which is the owner's user ID. Every file is checked before any is stored.
func (s *GuestPhotoService) Submit(ctx context.Context, slug string, files []Upload, message string) error {
	if _, err := uuid.Parse(slug); err != nil {
		return badRequest("Invalid link.")
	}
	if _, err := s.queries.GetUserByID(ctx, slug); errors.Is(err, sql.ErrNoRows) {
		return notFound("Invalid link.")
	} else if err != nil {
		return fmt.Errorf("loading user: %w", err)
	}
	if len(files) == 0 {
		return badRequest("At least one photo is required.")
	}
	if utf8.RuneCountInString(strings.TrimSpace(message)) > MaxGuestPhotoMessage {
		return badRequest("Message must be at most %d characters.", MaxGuestPhotoMessage)
	}
	if err := s.checkQuota(ctx, s.queries, slug, len(files)); err != nil {
		return err
	}
	for _, f := range files {
		if len(f.Data) > MaxGuestPhotoSize {
			return badRequest("Each photo must be under %d MB.", MaxGuestPhotoSize>>20)
		}
		if !imaging.IsAllowedMimeType(imaging.DetectMimeType(f.Data)) {
			return badRequest("Invalid file type. Allowed: JPEG, PNG, GIF, WebP.")
		}
	}

	urls := make([]string, len(files))
	keys := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, f := range files {
		g.Go(func() error {
			res, err := s.processor.Compress(bytes.NewReader(f.Data))
			if errors.Is(err, imaging.ErrUnsupportedFormat) {
				return badRequest("Invalid file type. Allowed: JPEG, PNG, GIF, WebP.")
			}
			if err != nil {
				return badRequest("Photo %d could not be processed.", i+1)
			}
			key, err := objectKey(guestPhotoPrefix+slug, "jpg")
			if err != nil {
				return err
			}
			url, err := s.objects.Put(gctx, key, res.MimeType, res.Data)
			if err != nil {
				return storageError(err)
			}
			urls[i], keys[i] = url, key
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		discardObjects(ctx, s.objects, s.logger, keys...)
		return err
	}

	encoded, err := json.Marshal(urls)
	if err != nil {
		discardObjects(ctx, s.objects, s.logger, keys...)
		return fmt.Errorf("encoding image urls: %w", err)
	}
	msg := strings.TrimSpace(message)
	err = store.RunInTx(ctx, s.db, func(q *store.Queries) error {
		if err := s.checkQuota(ctx, q, slug, len(urls)); err != nil {
			return err
		}
		_, err := q.CreateGuestPhotoSubmission(ctx, store.CreateGuestPhotoSubmissionParams{
			ID:        newID(),
			UserID:    slug,
			Message:   sql.NullString{String: msg, Valid: msg != ""},
			ImageUrls: string(encoded),
			CreatedAt: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("recording guest photos: %w", err)
		}
		return nil
	})
	if err != nil {
		discardObjects(ctx, s.objects, s.logger, keys...)
		return err
	}
	s.logger.InfoContext(ctx, "guest photos received", "user_id", slug, "count", len(urls))
	return nil
}

// List returns the user's submissions, newest first.
func (s *GuestPhotoService) List(ctx context.Context, userID string) (GuestPhotoList, error) {
	rows, err := s.queries.ListGuestPhotoSubmissions(ctx, userID)
	if err != nil {
		return GuestPhotoList{}, fmt.Errorf("listing guest photos: %w", err)
	}
	out := GuestPhotoList{Data: make([]model.GuestPhotoSubmission, len(rows))}
	for i, r := range rows {
		out.Data[i] = guestPhotoSubmissionFromStore(r)
		out.TotalImageCount += int64(len(out.Data[i].ImageURLs))
	}
	return out, nil
}

// Download opens one of the user's own guest photos by its public URL.
func (s *GuestPhotoService) Download(ctx context.Context, userID, imageURL string) (io.ReadCloser, error) {
	key, ok := s.objects.KeyFromURL(imageURL)
	if !ok {
		return nil, badRequest("Invalid image URL.")
	}
	if !strings.HasPrefix(key, guestPhotoPrefix+userID+"/") {
		return nil, badRequest("You can only download your own photos.")
	}
	rc, err := s.objects.Open(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFound("Photo not found")
	}
	if err != nil {
		return nil, storageError(err)
	}
	return rc, nil
}

func (s *GuestPhotoService) checkQuota(ctx context.Context, q *store.Queries, userID string, adding int) error {
	current, err := q.CountGuestPhotoImages(ctx, userID)
	if err != nil {
		return fmt.Errorf("counting guest photos: %w", err)
	}
	if current >= MaxGuestPhotosPerUser {
		return badRequest("This wedding has reached the maximum of %d photos.", MaxGuestPhotosPerUser)
	}
	if current+int64(adding) > MaxGuestPhotosPerUser {
		return badRequest("You can add at most %d more photos (max %d total).", MaxGuestPhotosPerUser-current, MaxGuestPhotosPerUser)
	}
	return nil
}
