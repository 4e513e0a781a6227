// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wedly-admin/wedly-be/internal/imaging"
	"github.com/wedly-admin/wedly-be/internal/storage"
	"github.com/wedly-admin/wedly-be/internal/testutil"
)

func pngBytes(t *testing.T, w, h int) []byte {
	return testutil.PNGBytes(t, w, h)
}

func TestMediaUpload(t *testing.T) {
	db := testutil.TestDB(t)
	objects := storage.New(t.TempDir(), "/uploads")
	svc := NewMediaService(db, objects, testutil.TestLogger())
	tenant := newTenant(t, db, "anna@example.com")
	ctx := context.Background()

	_, err := svc.Upload(ctx, tenant, Upload{})
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = svc.Upload(ctx, tenant, Upload{Filename: "x.png", ContentType: "image/png", Data: []byte("not an image")})
	assert.ErrorIs(t, err, ErrBadRequest)

	res, err := svc.Upload(ctx, tenant, Upload{Filename: "hero.png", Data: pngBytes(t, 40, 20)})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.URL, "/uploads/microsite/"+tenant.UserID+"/"), res.URL)
	assert.True(t, strings.HasSuffix(res.URL, ".png"), res.URL)
	assert.Equal(t, "image", res.Asset.Kind)
	assert.Equal(t, imaging.MimeTypePNG, res.Asset.Meta["mimeType"])
	assert.Equal(t, "hero.png", res.Asset.Meta["filename"])
	assert.EqualValues(t, 40, res.Asset.Meta["width"])
	assert.EqualValues(t, 20, res.Asset.Meta["height"])

	key, ok := objects.KeyFromURL(res.URL)
	require.True(t, ok)
	rc, err := objects.Open(ctx, key)
	require.NoError(t, err)
	stored, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, pngBytes(t, 40, 20), stored)

	assets, err := svc.ListAssets(ctx, tenant)
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, res.URL, assets[0].URL)

	other := newTenant(t, db, "bob@example.com")
	assets, err = svc.ListAssets(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestMediaUploadNotConfigured(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewMediaService(db, storage.New("", ""), testutil.TestLogger())
	tenant := newTenant(t, db, "anna@example.com")

	_, err := svc.Upload(context.Background(), tenant, Upload{Data: pngBytes(t, 4, 4)})
	assert.ErrorIs(t, err, ErrUnavailable)
}
