// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package form holds the create and edit forms of the console together with
// their validation rules and the payloads they submit.
package form

import (
	"strings"
	"unicode/utf8"

	"github.com/olegiv/ocms-desk/internal/gateway"
)

// MaxImageSize is the largest accepted attachment (5MB).
const MaxImageSize = 5 * 1024 * 1024

// Image validation messages
const (
	MsgImageTooLarge = "Image size must be less than 5MB"
	MsgImageType     = "Please select a valid image file"
)

// Mode tells whether a form creates a new entity or edits an existing one.
type Mode int

// Form modes
const (
	ModeCreate Mode = iota
	ModeEdit
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Errors maps a field name to its validation message.
type Errors map[string]string

// Any reports whether at least one field failed validation.
func (e Errors) Any() bool {
	return len(e) > 0
}

// Get returns the message for field, or "".
func (e Errors) Get(field string) string {
	return e[field]
}

// set records msg for field unless msg is empty or the field already failed.
func (e Errors) set(field, msg string) {
	if msg == "" {
		return
	}
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Form is a console form that can be validated and submitted.
type Form interface {
	Validate(mode Mode) Errors
	Payload() *gateway.Payload
}

// Attachment is a file picked in a form.
type Attachment struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Size returns the attachment size in bytes.
func (a Attachment) Size() int {
	return len(a.Data)
}

func (a Attachment) file(field string) gateway.File {
	if a.Field != "" {
		field = a.Field
	}
	return gateway.File{
		Field:       field,
		Filename:    a.Filename,
		ContentType: a.ContentType,
		Data:        a.Data,
	}
}

// ValidateImage checks an attachment against the image rules and returns the
// validation message, or "" when the file is acceptable.
func ValidateImage(a Attachment) string {
	if a.Size() > MaxImageSize {
		return MsgImageTooLarge
	}
	if !strings.HasPrefix(strings.ToLower(a.ContentType), "image/") {
		return MsgImageType
	}
	return ""
}

// clean trims v. Text is submitted as plain text; markup is only sanitised
// when content is rendered.
func clean(v string) string {
	return strings.TrimSpace(v)
}

func required(v, msg string) string {
	if strings.TrimSpace(v) == "" {
		return msg
	}
	return ""
}

func length(v string) int {
	return utf8.RuneCountInString(strings.TrimSpace(v))
}

// addText adds name to p when the trimmed value is not empty.
func addText(p *gateway.Payload, name, value string) {
	if v := clean(value); v != "" {
		p.Add(name, v)
	}
}
