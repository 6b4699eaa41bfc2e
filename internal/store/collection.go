// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store holds the in-memory collection shown by the console. The
// collection is only ever replaced wholesale by a refetch, never patched.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Lister fetches the authoritative collection from the content service.
type Lister[T any] interface {
	List(ctx context.Context) ([]T, error)
}

// ListerFunc adapts a function to the Lister interface.
type ListerFunc[T any] func(ctx context.Context) ([]T, error)

// List implements Lister.
func (f ListerFunc[T]) List(ctx context.Context) ([]T, error) {
	return f(ctx)
}

// Store is the ordered collection of one resource type.
type Store[T any] struct {
	source Lister[T]
	logger *slog.Logger
	name   string

	mu        sync.RWMutex
	items     []T
	loaded    bool
	lastErr   error
	refreshed time.Time

	// Refresh generations: started counts refreshes issued, applied is the
	// generation of the collection currently held.
	started uint64
	applied uint64
}

// New creates an empty store reading from source. name is used in log records.
func New[T any](name string, source Lister[T], logger *slog.Logger) *Store[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store[T]{
		source: source,
		logger: logger,
		name:   name,
		items:  []T{},
	}
}

// Refresh refetches the full collection and replaces the held one in server
// order. On failure the held collection is kept and the error recorded.
//
// Overlapping refreshes are not serialized: the last response to arrive wins,
// even if it belongs to a refresh that started earlier. That case is logged.
func (s *Store[T]) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.started++
	gen := s.started
	s.mu.Unlock()

	items, err := s.source.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.lastErr = err
		s.logger.Error("failed to refresh collection",
			"collection", s.name,
			"generation", gen,
			"error", err)
		return fmt.Errorf("refreshing %s: %w", s.name, err)
	}

	if gen < s.applied {
		s.logger.Warn("stale refresh applied",
			"collection", s.name,
			"generation", gen,
			"newer_generation", s.applied)
	}

	if items == nil {
		items = []T{}
	}
	s.items = items
	s.applied = gen
	s.loaded = true
	s.lastErr = nil
	s.refreshed = time.Now()
	return nil
}

// Items returns a copy of the held collection.
func (s *Store[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]T(nil), s.items...)
}

// Len returns the number of held entities.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Find returns the first entity for which match returns true.
func (s *Store[T]) Find(match func(T) bool) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Loaded reports whether at least one refresh has succeeded.
func (s *Store[T]) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// LastError returns the error of the most recent refresh, or nil if it succeeded.
func (s *Store[T]) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// RefreshedAt returns when the held collection was fetched.
func (s *Store[T]) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshed
}
