// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Review is a user-submitted testimonial awaiting or past moderation.
type Review struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Email     string    `json:"email"`
	Review    string    `json:"review"`
	Image     *string   `json:"image,omitempty"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"createdAt"`
}

// EntityID implements Entity.
func (r Review) EntityID() string { return r.ID }

// SearchFields implements Entity. Reviews are searched by author details only.
func (r Review) SearchFields() []string {
	return []string{r.Name, r.Role, r.Email}
}

// IsApproved implements Moderated.
func (r Review) IsApproved() bool { return r.Approved }

// ImageRef returns the stored image reference or an empty string.
func (r Review) ImageRef() string {
	if r.Image == nil {
		return ""
	}
	return *r.Image
}

// StatusLabel returns the moderation badge text.
func (r Review) StatusLabel() string {
	if r.Approved {
		return "Approved"
	}
	return "Pending"
}
