// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"testing"
)

func TestPayload_EncodeMultipart(t *testing.T) {
	p := NewPayload().
		Add("name", "Ana").
		Add("keywords", "travel").
		AddFile(File{Field: "image", Filename: "ana \"1\".png", ContentType: "image/png", Data: []byte("png-bytes")})

	body, ct, err := p.Encode()
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	mediaType, params, err := mime.ParseMediaType(ct)
	if err != nil {
		t.Fatalf("ParseMediaType(%q) error: %v", ct, err)
	}
	if mediaType != "multipart/form-data" {
		t.Fatalf("media type = %q, want multipart/form-data", mediaType)
	}
	if params["boundary"] == "" {
		t.Fatal("content type has no boundary")
	}

	form, err := multipart.NewReader(body, params["boundary"]).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("ReadForm() error: %v", err)
	}
	if got := form.Value["name"]; len(got) != 1 || got[0] != "Ana" {
		t.Errorf("name = %v, want [Ana]", got)
	}
	files := form.File["image"]
	if len(files) != 1 {
		t.Fatalf("image parts = %d, want 1", len(files))
	}
	if files[0].Filename != "ana \"1\".png" {
		t.Errorf("filename = %q", files[0].Filename)
	}
	if files[0].Header.Get("Content-Type") != "image/png" {
		t.Errorf("file content type = %q, want image/png", files[0].Header.Get("Content-Type"))
	}
	f, _ := files[0].Open()
	data, _ := io.ReadAll(f)
	if string(data) != "png-bytes" {
		t.Errorf("file data = %q", data)
	}
}

func TestPayload_EncodeJSON(t *testing.T) {
	p := NewJSONPayload().Add("question", "Q?").Add("answer", "A.")

	body, ct, err := p.Encode()
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if ct != "application/json" {
		t.Errorf("content type = %q, want application/json", ct)
	}

	var got map[string]string
	if err := json.NewDecoder(body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["question"] != "Q?" || got["answer"] != "A." {
		t.Errorf("body = %v", got)
	}
}

func TestPayload_EncodeJSONRepeatedField(t *testing.T) {
	p := NewJSONPayload().Add("tag", "a").Add("tag", "b").Add("tag", "c")

	body, _, err := p.Encode()
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	var got map[string][]string
	if err := json.NewDecoder(body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got["tag"]) != 3 {
		t.Errorf("tag = %v, want 3 values", got["tag"])
	}
}

func TestPayload_JSONWithFiles(t *testing.T) {
	p := NewJSONPayload().AddFile(File{Field: "pic", Data: []byte("x")})
	if _, _, err := p.Encode(); !errors.Is(err, ErrJSONWithFiles) {
		t.Errorf("Encode() error = %v, want ErrJSONWithFiles", err)
	}
}

func TestPayload_HasAndValue(t *testing.T) {
	p := NewPayload().Add("name", "Ana").AddFile(File{Field: "image"})

	if !p.Has("name") || !p.Has("image") {
		t.Error("Has() = false for present parts")
	}
	if p.Has("email") {
		t.Error("Has(email) = true, want false")
	}
	if v, ok := p.Value("name"); !ok || v != "Ana" {
		t.Errorf("Value(name) = %q, %v", v, ok)
	}
	if _, ok := p.Value("image"); ok {
		t.Error("Value(image) ok = true for a file part")
	}
}
