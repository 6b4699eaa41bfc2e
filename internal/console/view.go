// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package console

import (
	"time"

	"github.com/olegiv/ocms-desk/internal/action"
	"github.com/olegiv/ocms-desk/internal/filter"
	"github.com/olegiv/ocms-desk/internal/model"
)

// View is a snapshot of everything the console shows for one resource.
type View[T any] struct {
	Resource    string                 `json:"resource"`
	Items       []T                    `json:"items"`
	Stats       filter.Stats           `json:"stats"`
	Status      model.StatusFilter     `json:"status"`
	Search      string                 `json:"search"`
	Busy        map[string]action.Kind `json:"busy"`
	Submitting  bool                   `json:"submitting"`
	Loaded      bool                   `json:"loaded"`
	Error       string                 `json:"error,omitempty"`
	RefreshedAt *time.Time             `json:"refreshed_at,omitempty"`
	Form        FormState              `json:"form"`
}

// View recomputes the visible rows from the current collection and filters.
func (s *Shell[T]) View() View[T] {
	status, term := s.Filter()
	items := s.store.Items()

	v := View[T]{
		Resource:   s.res.Slug,
		Items:      filter.Visible(items, status, term),
		Stats:      filter.Summarize(items),
		Status:     status,
		Search:     term,
		Busy:       s.tracker.Snapshot(),
		Submitting: s.tracker.Submitting(),
		Loaded:     s.store.Loaded(),
		Form:       s.Form(),
	}
	if err := s.store.LastError(); err != nil {
		v.Error = err.Error()
	}
	if at := s.store.RefreshedAt(); !at.IsZero() {
		v.RefreshedAt = &at
	}
	return v
}
