// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
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

func decodePreview(t *testing.T, dataURL string) image.Image {
	t.Helper()
	const prefix = "data:image/jpeg;base64,"
	if !strings.HasPrefix(dataURL, prefix) {
		t.Fatalf("DataURL prefix = %q", dataURL[:min(len(dataURL), 30)])
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, prefix))
	if err != nil {
		t.Fatalf("decoding base64: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decoding preview jpeg: %v", err)
	}
	return img
}

func TestProcessorIsImage(t *testing.T) {
	p := NewProcessor(0)

	tests := []struct {
		mimeType string
		want     bool
	}{
		{MimeTypeJPEG, true},
		{MimeTypePNG, true},
		{MimeTypeGIF, true},
		{MimeTypeWebP, true},
		{"application/pdf", false},
		{"image/svg+xml", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			if got := p.IsImage(tt.mimeType); got != tt.want {
				t.Errorf("IsImage(%q) = %v, want %v", tt.mimeType, got, tt.want)
			}
		})
	}
}

func TestPreviewDownscales(t *testing.T) {
	p := NewProcessor(150)
	res, err := p.Preview(encodePNG(t, createTestImage(600, 300)))
	if err != nil {
		t.Fatalf("Preview() error: %v", err)
	}

	if res.Width != 600 || res.Height != 300 {
		t.Errorf("original size = %dx%d, want 600x300", res.Width, res.Height)
	}
	if res.MimeType != MimeTypePNG {
		t.Errorf("MimeType = %q, want %q", res.MimeType, MimeTypePNG)
	}

	b := decodePreview(t, res.DataURL).Bounds()
	if b.Dx() != 150 || b.Dy() != 75 {
		t.Errorf("preview size = %dx%d, want 150x75", b.Dx(), b.Dy())
	}
}

func TestPreviewKeepsSmallImages(t *testing.T) {
	p := NewProcessor(150)
	res, err := p.Preview(encodePNG(t, createTestImage(40, 20)))
	if err != nil {
		t.Fatalf("Preview() error: %v", err)
	}
	b := decodePreview(t, res.DataURL).Bounds()
	if b.Dx() != 40 || b.Dy() != 20 {
		t.Errorf("preview size = %dx%d, want 40x20", b.Dx(), b.Dy())
	}
}

func TestPreviewRejectsNonImage(t *testing.T) {
	p := NewProcessor(150)
	if _, err := p.Preview([]byte("just some text")); err == nil {
		t.Error("Preview() accepted text data")
	}
	// TIFF little-endian magic.
	if _, err := p.Preview([]byte{'I', 'I', '*', 0, 8, 0, 0, 0}); err == nil {
		t.Error("Preview() accepted TIFF data")
	}
}

func TestDetectMimeType(t *testing.T) {
	p := NewProcessor(0)
	if got := p.DetectMimeType(encodePNG(t, createTestImage(2, 2))); got != MimeTypePNG {
		t.Errorf("DetectMimeType(png) = %q", got)
	}
	if got := p.DetectMimeType([]byte("hello")); got != "text/plain" {
		t.Errorf("DetectMimeType(text) = %q, want text/plain", got)
	}
}

func TestApplyOrientation(t *testing.T) {
	img := createTestImage(4, 2)
	tests := []struct {
		orientation int
		wantW       int
		wantH       int
	}{
		{1, 4, 2},
		{3, 4, 2},
		{6, 2, 4},
		{8, 2, 4},
		{99, 4, 2},
	}
	for _, tt := range tests {
		b := applyOrientation(img, tt.orientation).Bounds()
		if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
			t.Errorf("orientation %d: %dx%d, want %dx%d", tt.orientation, b.Dx(), b.Dy(), tt.wantW, tt.wantH)
		}
	}
}

func TestNewProcessorDefaultSize(t *testing.T) {
	if p := NewProcessor(-1); p.size != DefaultPreviewSize {
		t.Errorf("size = %d, want %d", p.size, DefaultPreviewSize)
	}
}
