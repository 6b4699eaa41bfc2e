// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package filter derives the displayed subset of a collection from the
// moderation status selector and the search term. It never changes its input.
package filter

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/olegiv/ocms-desk/internal/model"
)

// Stats are the dashboard counters of a collection.
type Stats struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Pending  int `json:"pending"`
}

// Visible returns the entities matching status and term, in input order.
//
// The status filter applies to entities implementing model.Moderated; other
// entities pass through it unchanged. A blank term disables the search step;
// otherwise an entity matches when any of its search fields contains the term,
// compared under Unicode case folding.
func Visible[T model.Entity](items []T, status model.StatusFilter, term string) []T {
	needle := fold(strings.TrimSpace(term))
	out := make([]T, 0, len(items))

	for _, item := range items {
		if !matchesStatus(item, status) {
			continue
		}
		if needle != "" && !matchesTerm(item, needle) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Summarize counts total, approved and pending entities.
// Non-moderated entities count towards the total only.
func Summarize[T model.Entity](items []T) Stats {
	s := Stats{Total: len(items)}
	for _, item := range items {
		m, ok := any(item).(model.Moderated)
		if !ok {
			continue
		}
		if m.IsApproved() {
			s.Approved++
		} else {
			s.Pending++
		}
	}
	return s
}

func matchesStatus(item model.Entity, status model.StatusFilter) bool {
	m, ok := item.(model.Moderated)
	if !ok {
		return true
	}
	switch status {
	case model.StatusApproved:
		return m.IsApproved()
	case model.StatusPending:
		return !m.IsApproved()
	default:
		return true
	}
}

func matchesTerm(item model.Entity, needle string) bool {
	for _, field := range item.SearchFields() {
		if strings.Contains(fold(field), needle) {
			return true
		}
	}
	return false
}

// fold lower-cases s with full Unicode case folding.
// A fresh Caser is used per call since cases.Caser is not safe for concurrent use.
func fold(s string) string {
	if s == "" {
		return ""
	}
	return cases.Fold().String(s)
}
