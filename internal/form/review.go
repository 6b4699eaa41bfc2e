// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"regexp"
	"strings"

	"github.com/olegiv/ocms-desk/internal/gateway"
	"github.com/olegiv/ocms-desk/internal/model"
)

// MinReviewLength is the shortest accepted review text.
const MinReviewLength = 10

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// ReviewForm is the create/edit form of a review.
type ReviewForm struct {
	Name   string
	Email  string
	Role   string
	Review string

	// Image is the newly picked image. Nil keeps the stored one on edit.
	Image *Attachment
	// ClearImage asks the content service to drop the stored image.
	ClearImage bool

	imageErr string
}

// PrefillReview builds an edit form from an existing review. The stored image
// is left untouched unless a new one is picked.
func PrefillReview(r model.Review) *ReviewForm {
	return &ReviewForm{
		Name:   r.Name,
		Email:  r.Email,
		Role:   r.Role,
		Review: r.Review,
	}
}

// SetImage validates a picked file and attaches it. An invalid file is not
// attached; its message is returned and reported by Validate until a valid
// file is picked.
func (f *ReviewForm) SetImage(a Attachment) string {
	if msg := ValidateImage(a); msg != "" {
		f.imageErr = msg
		return msg
	}
	f.imageErr = ""
	f.Image = &a
	return ""
}

// Validate checks every field and returns all failures.
func (f *ReviewForm) Validate(Mode) Errors {
	errs := Errors{}

	errs.set("name", required(f.Name, "Name is required"))

	switch {
	case strings.TrimSpace(f.Email) == "":
		errs.set("email", "Email is required")
	case !emailPattern.MatchString(f.Email):
		errs.set("email", "Invalid email format")
	}

	errs.set("role", required(f.Role, "Role is required"))

	switch {
	case strings.TrimSpace(f.Review) == "":
		errs.set("review", "Review is required")
	case length(f.Review) < MinReviewLength:
		errs.set("review", "Review must be at least 10 characters")
	}

	errs.set("image", f.imageErr)
	if f.Image != nil {
		errs.set("image", ValidateImage(*f.Image))
	}
	return errs
}

// Payload returns the multipart submission. Empty fields are omitted and the
// image part is only present when a new image was picked.
func (f *ReviewForm) Payload() *gateway.Payload {
	p := gateway.NewPayload()
	addText(p, "name", f.Name)
	addText(p, "email", f.Email)
	addText(p, "role", f.Role)
	addText(p, "review", f.Review)
	if f.Image != nil {
		p.AddFile(f.Image.file("image"))
	} else if f.ClearImage {
		p.Add("removeImage", "true")
	}
	return p
}
