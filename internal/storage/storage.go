// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package storage keeps uploaded files and exposes them under a public URL.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wedly-admin/wedly-be/internal/util"
)

// ErrNotConfigured is returned by every operation of a store without a
// backing directory.
var ErrNotConfigured = errors.New("storage: upload is not configured")

// ErrNotFound is returned when an object does not exist.
var ErrNotFound = errors.New("storage: object not found")

// Store writes objects and resolves them back from their public URLs.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) (string, bool)
}

// Local stores objects on the local filesystem below dir. Objects are
// served by the HTTP layer under baseURL.
type Local struct {
	dir     string
	baseURL string
}

// New returns a Local store, or an unconfigured store when dir is empty.
func New(dir, baseURL string) Store {
	if strings.TrimSpace(dir) == "" {
		return unconfigured{}
	}
	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

// Dir returns the root directory of the store.
func (l *Local) Dir() string {
	return l.dir
}

// Put writes data under key and returns its public URL.
func (l *Local) Put(ctx context.Context, key, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := l.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("storage: creating directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: writing object: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("storage: committing object: %w", err)
	}
	return l.baseURL + "/" + key, nil
}

// Open returns a reader for the object stored under key.
func (l *Local) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := l.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: opening object: %w", err)
	}
	return f, nil
}

// Delete removes the object stored under key. Missing objects are not an
// error.
func (l *Local) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: deleting object: %w", err)
	}
	return nil
}

// KeyFromURL returns the key of an URL produced by Put.
func (l *Local) KeyFromURL(url string) (string, bool) {
	prefix := l.baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if _, err := l.path(key); err != nil {
		return "", false
	}
	return key, true
}

func (l *Local) path(key string) (string, error) {
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", fmt.Errorf("storage: empty key")
	}
	path, err := util.SafeJoinPath(l.dir, filepath.FromSlash(key))
	if err != nil {
		return "", fmt.Errorf("storage: %w", err)
	}
	return path, nil
}

type unconfigured struct{}

func (unconfigured) Put(context.Context, string, string, []byte) (string, error) {
	return "", ErrNotConfigured
}

func (unconfigured) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, ErrNotConfigured
}

func (unconfigured) Delete(context.Context, string) error {
	return ErrNotConfigured
}

func (unconfigured) KeyFromURL(string) (string, bool) {
	return "", false
}
