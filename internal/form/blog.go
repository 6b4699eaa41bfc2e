// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/olegiv/ocms-desk/internal/gateway"
	"github.com/olegiv/ocms-desk/internal/model"
)

// Blog post limits
const (
	MaxExcerptLength = 200
	MaxBlogImages    = 4
)

var (
	markdown      = goldmark.New(goldmark.WithExtensions(extension.GFM))
	previewPolicy = bluemonday.UGCPolicy()
)

// BlogForm is the create/edit form of a blog post. Content is markdown.
type BlogForm struct {
	Title    string
	Excerpt  string
	Content  string
	Category string

	// Images are sent as repeated "images" parts. Empty keeps the stored
	// images on edit.
	Images []Attachment
}

// PrefillBlog builds an edit form from an existing post.
func PrefillBlog(b model.BlogPost) *BlogForm {
	return &BlogForm{
		Title:    b.Title,
		Excerpt:  b.Excerpt,
		Content:  b.Content,
		Category: b.Category,
	}
}

func (f *BlogForm) category() string {
	if c := strings.TrimSpace(f.Category); c != "" {
		return c
	}
	return model.DefaultBlogCategory
}

// Validate checks every field and returns all failures.
func (f *BlogForm) Validate(mode Mode) Errors {
	errs := Errors{}
	errs.set("title", required(f.Title, "Title is required"))

	switch {
	case strings.TrimSpace(f.Excerpt) == "":
		errs.set("excerpt", "Excerpt is required")
	case length(f.Excerpt) > MaxExcerptLength:
		errs.set("excerpt", "Excerpt must be under 200 characters")
	}

	errs.set("content", required(f.Content, "Content is required"))

	if !model.IsBlogCategory(f.category()) {
		errs.set("category", "Unknown category")
	}

	switch {
	case len(f.Images) == 0 && mode == ModeCreate:
		errs.set("images", "At least one image is required")
	case len(f.Images) > MaxBlogImages:
		errs.set("images", fmt.Sprintf("At most %d images are allowed", MaxBlogImages))
	}
	for _, img := range f.Images {
		errs.set("images", ValidateImage(img))
	}
	return errs
}

// Payload returns the multipart submission.
func (f *BlogForm) Payload() *gateway.Payload {
	p := gateway.NewPayload()
	addText(p, "title", f.Title)
	addText(p, "excerpt", f.Excerpt)
	// Markdown is kept verbatim; it is sanitised when rendered.
	if c := strings.TrimSpace(f.Content); c != "" {
		p.Add("content", c)
	}
	p.Add("category", f.category())
	for _, img := range f.Images {
		p.AddFile(img.file("images"))
	}
	return p
}

// ContentPreview renders the markdown content to sanitised HTML.
func (f *BlogForm) ContentPreview() (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(f.Content), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return previewPolicy.Sanitize(buf.String()), nil
}
