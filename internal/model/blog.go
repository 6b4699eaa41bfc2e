// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Blog categories offered by the post editor.
var BlogCategories = []string{
	"Technology",
	"Artificial Intelligence",
	"Business",
	"Finance",
	"Marketing",
	"Data Automation",
}

// DefaultBlogCategory is preselected for new posts.
const DefaultBlogCategory = "Technology"

// BlogPost is a published article.
type BlogPost struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Images    []string  `json:"images"`
	CreatedAt time.Time `json:"createdAt"`
}

// EntityID implements Entity.
func (b BlogPost) EntityID() string { return b.ID }

// SearchFields implements Entity.
func (b BlogPost) SearchFields() []string {
	return []string{b.Title, b.Excerpt, b.Category}
}

// IsBlogCategory reports whether c is one of BlogCategories.
func IsBlogCategory(c string) bool {
	for _, known := range BlogCategories {
		if known == c {
			return true
		}
	}
	return false
}
