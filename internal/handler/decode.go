// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/olegiv/ocms-desk/internal/form"
	"github.com/olegiv/ocms-desk/internal/model"
)

// Decoder turns a request into a console form. existing is the entity being
// edited, or nil when creating; fields missing from the request keep its values.
type Decoder[T any] func(r *http.Request, existing *T) (form.Form, error)

// maxMemory is the part of a multipart body kept in memory while parsing.
const maxMemory = 8 << 20

// errBadRequest marks decoding failures caused by the client.
var errBadRequest = errors.New("invalid request body")

// parseRequest parses urlencoded or multipart bodies.
func parseRequest(r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(maxMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return nil
}

// overlay replaces *dst with the submitted value of key, if present.
func overlay(r *http.Request, key string, dst *string) {
	if vs, ok := r.PostForm[key]; ok && len(vs) > 0 {
		*dst = vs[0]
	}
}

// attachments reads every file submitted under field.
func attachments(r *http.Request, field string) ([]form.Attachment, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	out := make([]form.Attachment, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", fh.Filename, err)
		}

		contentType := fh.Header.Get("Content-Type")
		if contentType == "" || contentType == "application/octet-stream" {
			contentType = http.DetectContentType(data)
		}
		out = append(out, form.Attachment{
			Field:       field,
			Filename:    fh.Filename,
			ContentType: contentType,
			Data:        data,
		})
	}
	return out, nil
}

func firstAttachment(r *http.Request, field string) (*form.Attachment, error) {
	atts, err := attachments(r, field)
	if err != nil || len(atts) == 0 {
		return nil, err
	}
	return &atts[0], nil
}

// DecodeReview reads a review form.
func DecodeReview(r *http.Request, existing *model.Review) (form.Form, error) {
	if err := parseRequest(r); err != nil {
		return nil, err
	}
	f := &form.ReviewForm{}
	if existing != nil {
		f = form.PrefillReview(*existing)
	}
	overlay(r, "name", &f.Name)
	overlay(r, "email", &f.Email)
	overlay(r, "role", &f.Role)
	overlay(r, "review", &f.Review)
	f.ClearImage = r.PostForm.Get("removeImage") == "true"

	img, err := firstAttachment(r, "image")
	if err != nil {
		return nil, err
	}
	if img != nil {
		// An invalid file is kept out of the form and reported by Validate.
		f.SetImage(*img)
	}
	return f, nil
}

type faqRequest struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
}

// DecodeFAQ reads a FAQ form from a JSON or form-encoded body.
func DecodeFAQ(r *http.Request, existing *model.FAQ) (form.Form, error) {
	f := &form.FAQForm{}
	if existing != nil {
		f = form.PrefillFAQ(*existing)
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		if err := parseRequest(r); err != nil {
			return nil, err
		}
		overlay(r, "question", &f.Question)
		overlay(r, "answer", &f.Answer)
		return f, nil
	}

	var req faqRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	if req.Question != nil {
		f.Question = *req.Question
	}
	if req.Answer != nil {
		f.Answer = *req.Answer
	}
	return f, nil
}

// DecodeInfluencer reads an influencer form.
func DecodeInfluencer(r *http.Request, existing *model.Influencer) (form.Form, error) {
	if err := parseRequest(r); err != nil {
		return nil, err
	}
	f := &form.InfluencerForm{}
	if existing != nil {
		f = form.PrefillInfluencer(*existing)
	}
	overlay(r, "name", &f.Name)
	overlay(r, "desc", &f.Desc)
	overlay(r, "keywords", &f.Keywords)

	pic, err := firstAttachment(r, "pic")
	if err != nil {
		return nil, err
	}
	f.Pic = pic
	return f, nil
}

// DecodeBlog reads a blog post form.
func DecodeBlog(r *http.Request, existing *model.BlogPost) (form.Form, error) {
	if err := parseRequest(r); err != nil {
		return nil, err
	}
	f := &form.BlogForm{}
	if existing != nil {
		f = form.PrefillBlog(*existing)
	}
	overlay(r, "title", &f.Title)
	overlay(r, "excerpt", &f.Excerpt)
	overlay(r, "content", &f.Content)
	overlay(r, "category", &f.Category)
	f.Category = strings.TrimSpace(f.Category)

	images, err := attachments(r, "images")
	if err != nil {
		return nil, err
	}
	f.Images = images
	return f, nil
}
