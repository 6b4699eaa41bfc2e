// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"
	"strings"
)

// Entity is a content record managed by the console.
type Entity interface {
	// EntityID returns the server-assigned identifier.
	EntityID() string
	// SearchFields returns the values matched by the free-text search.
	SearchFields() []string
}

// Moderated is an entity carrying an approval flag.
type Moderated interface {
	Entity
	IsApproved() bool
}

// StatusFilter selects entities by moderation status.
type StatusFilter string

// Status filter values
const (
	StatusAll      StatusFilter = "all"
	StatusApproved StatusFilter = "approved"
	StatusPending  StatusFilter = "pending"
)

// ParseStatusFilter converts a query value into a StatusFilter.
// An empty value selects all entities.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusApproved:
		return StatusApproved, nil
	case StatusPending:
		return StatusPending, nil
	default:
		return "", fmt.Errorf("unknown status filter %q", s)
	}
}

// String implements fmt.Stringer.
func (f StatusFilter) String() string {
	return string(f)
}
