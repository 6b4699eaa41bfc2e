// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package console

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/olegiv/ocms-desk/internal/form"
)

// Sentinel errors returned by shell operations.
var (
	ErrBusy         = errors.New("operation already in progress")
	ErrNotFound     = errors.New("entity not found")
	ErrNotModerated = errors.New("resource does not support moderation")
)

// ValidationError carries the field errors of a rejected form.
type ValidationError struct {
	Errors form.Errors
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// Resource describes one kind of content managed by a shell.
type Resource struct {
	Slug      string // URL segment, e.g. "reviews"
	Name      string // singular noun used in messages, e.g. "review"
	Plural    string // plural noun used in messages, e.g. "reviews"
	Moderated bool   // entities carry an approval flag
}

// Built-in resources
var (
	Reviews     = Resource{Slug: "reviews", Name: "review", Plural: "reviews", Moderated: true}
	FAQs        = Resource{Slug: "faqs", Name: "FAQ", Plural: "FAQs"}
	Influencers = Resource{Slug: "influencers", Name: "influencer", Plural: "influencers"}
	Blogs       = Resource{Slug: "blogs", Name: "blog post", Plural: "blog posts"}
)

func (r Resource) title() string {
	first, size := utf8.DecodeRuneInString(r.Name)
	if first == utf8.RuneError {
		return r.Name
	}
	return string(unicode.ToUpper(first)) + r.Name[size:]
}

// succeeded returns e.g. "Review approved successfully!".
func (r Resource) succeeded(past string) string {
	return fmt.Sprintf("%s %s successfully!", r.title(), past)
}

// failed returns e.g. "Failed to approve review. Please try again.".
func (r Resource) failed(verb string) string {
	return fmt.Sprintf("Failed to %s %s. Please try again.", verb, r.Name)
}

func (r Resource) fetchFailed() string {
	return fmt.Sprintf("Failed to fetch %s. Make sure your backend is running.", r.Plural)
}
