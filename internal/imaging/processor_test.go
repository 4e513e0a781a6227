// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestIsAllowedMimeType(t *testing.T) {
	tests := []struct {
		mimeType string
		want     bool
	}{
		{MimeTypeJPEG, true},
		{MimeTypePNG, true},
		{MimeTypeGIF, true},
		{MimeTypeWebP, true},
		{"image/tiff", false},
		{"application/pdf", false},
		{"application/octet-stream", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			if got := IsAllowedMimeType(tt.mimeType); got != tt.want {
				t.Errorf("IsAllowedMimeType(%q) = %v, want %v", tt.mimeType, got, tt.want)
			}
		})
	}
}

func TestDetectMimeType(t *testing.T) {
	data := encodePNG(t, createTestImage(4, 4))
	if got := DetectMimeType(data); got != MimeTypePNG {
		t.Errorf("DetectMimeType(png) = %q, want %q", got, MimeTypePNG)
	}
	if got := DetectMimeType([]byte("hello world")); got != "text/plain" {
		t.Errorf("DetectMimeType(text) = %q, want text/plain", got)
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		MimeTypeJPEG: "jpg",
		MimeTypePNG:  "png",
		MimeTypeGIF:  "gif",
		MimeTypeWebP: "webp",
		"":           "jpg",
	}
	for mime, want := range tests {
		if got := Extension(mime); got != want {
			t.Errorf("Extension(%q) = %q, want %q", mime, got, want)
		}
	}
}

func TestCompressDownsizes(t *testing.T) {
	p := NewProcessor(100, 0)
	res, err := p.Compress(bytes.NewReader(encodePNG(t, createTestImage(400, 200))))
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if res.MimeType != MimeTypeJPEG {
		t.Errorf("MimeType = %q, want %q", res.MimeType, MimeTypeJPEG)
	}
	if res.Width != 100 || res.Height != 50 {
		t.Errorf("size = %dx%d, want 100x50", res.Width, res.Height)
	}
	if _, err := jpeg.Decode(bytes.NewReader(res.Data)); err != nil {
		t.Errorf("output is not a JPEG: %v", err)
	}
	w, h, err := Dimensions(res.Data)
	if err != nil {
		t.Fatalf("Dimensions: %v", err)
	}
	if w != 100 || h != 50 {
		t.Errorf("Dimensions = %dx%d, want 100x50", w, h)
	}
}

func TestCompressDoesNotEnlarge(t *testing.T) {
	p := NewProcessor(0, 0)
	res, err := p.Compress(bytes.NewReader(encodePNG(t, createTestImage(64, 32))))
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if res.Width != 64 || res.Height != 32 {
		t.Errorf("size = %dx%d, want 64x32", res.Width, res.Height)
	}
}

func TestCompressRejectsNonImage(t *testing.T) {
	p := NewProcessor(0, 0)
	_, err := p.Compress(bytes.NewReader([]byte("not an image at all")))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Compress(text) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestApplyOrientation(t *testing.T) {
	img := createTestImage(40, 20)
	tests := []struct {
		orientation int
		wantW       int
		wantH       int
	}{
		{1, 40, 20},
		{2, 40, 20},
		{3, 40, 20},
		{4, 40, 20},
		{5, 20, 40},
		{6, 20, 40},
		{7, 20, 40},
		{8, 20, 40},
		{0, 40, 20},
	}
	for _, tt := range tests {
		b := applyOrientation(img, tt.orientation).Bounds()
		if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
			t.Errorf("orientation %d: %dx%d, want %dx%d", tt.orientation, b.Dx(), b.Dy(), tt.wantW, tt.wantH)
		}
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"png", encodePNG(t, createTestImage(2, 2)), "png"},
		{"gif", []byte("GIF89a\x01\x00\x01\x00"), "gif"},
		{"tiff", []byte("II*\x00\x08\x00\x00\x00"), ""},
		{"text", []byte("plain text"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFormat(tt.data); got != tt.want {
				t.Errorf("detectFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}
