// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
)

// Field is a single text part of a submission.
type Field struct {
	Name  string
	Value string
}

// File is a binary attachment of a submission.
type File struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Payload is the body of a create or update call.
//
// Only the parts that were added are sent. A missing part tells the content
// service to keep the stored value, which is how an edit without a new image
// preserves the previous image.
type Payload struct {
	fields []Field
	files  []File
	asJSON bool
}

// ErrJSONWithFiles is returned when a JSON payload carries attachments.
var ErrJSONWithFiles = errors.New("gateway: JSON payload cannot carry files")

// NewPayload creates an empty multipart payload.
func NewPayload() *Payload {
	return &Payload{}
}

// NewJSONPayload creates an empty payload encoded as a JSON object.
func NewJSONPayload() *Payload {
	return &Payload{asJSON: true}
}

// Add appends a text field. Repeated names are sent as repeated parts.
func (p *Payload) Add(name, value string) *Payload {
	p.fields = append(p.fields, Field{Name: name, Value: value})
	return p
}

// AddFile appends a file part.
func (p *Payload) AddFile(f File) *Payload {
	p.files = append(p.files, f)
	return p
}

// Fields returns the text parts in insertion order.
func (p *Payload) Fields() []Field {
	return append([]Field(nil), p.fields...)
}

// Files returns the file parts in insertion order.
func (p *Payload) Files() []File {
	return append([]File(nil), p.files...)
}

// Has reports whether a field or file with the given name is present.
func (p *Payload) Has(name string) bool {
	for _, f := range p.fields {
		if f.Name == name {
			return true
		}
	}
	for _, f := range p.files {
		if f.Field == name {
			return true
		}
	}
	return false
}

// Value returns the first text value for name.
func (p *Payload) Value(name string) (string, bool) {
	for _, f := range p.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// IsJSON reports whether the payload is sent as JSON.
func (p *Payload) IsJSON() bool {
	return p.asJSON
}

// Encode serializes the payload and returns the body together with the matching
// Content-Type. For multipart bodies the content type always carries the boundary
// produced by the writer.
func (p *Payload) Encode() (io.Reader, string, error) {
	if p.asJSON {
		return p.encodeJSON()
	}
	return p.encodeMultipart()
}

func (p *Payload) encodeJSON() (io.Reader, string, error) {
	if len(p.files) > 0 {
		return nil, "", ErrJSONWithFiles
	}

	obj := make(map[string]any, len(p.fields))
	for _, f := range p.fields {
		switch existing := obj[f.Name].(type) {
		case nil:
			obj[f.Name] = f.Value
		case string:
			obj[f.Name] = []string{existing, f.Value}
		case []string:
			obj[f.Name] = append(existing, f.Value)
		}
	}

	data, err := json.Marshal(obj)
	if err != nil {
		return nil, "", fmt.Errorf("encoding JSON payload: %w", err)
	}
	return bytes.NewReader(data), "application/json", nil
}

func (p *Payload) encodeMultipart() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range p.fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("writing field %s: %w", f.Name, err)
		}
	}

	for _, f := range p.files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", multipart.FileContentDisposition(f.Field, f.Filename))
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("creating file part %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("writing file part %s: %w", f.Field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
