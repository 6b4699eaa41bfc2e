// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Influencer is a featured creator profile.
type Influencer struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Desc      string    `json:"desc"`
	Keywords  []string  `json:"keywords"`
	Pic       *string   `json:"pic,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// EntityID implements Entity.
func (i Influencer) EntityID() string { return i.ID }

// SearchFields implements Entity. Every keyword is matched individually.
func (i Influencer) SearchFields() []string {
	fields := make([]string, 0, 2+len(i.Keywords))
	fields = append(fields, i.Name, i.Desc)
	return append(fields, i.Keywords...)
}
