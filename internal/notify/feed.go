// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package notify implements the transient outcome messages (toasts) shown to
// the operator after every asynchronous action.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a notification stays visible unless dismissed.
const DefaultTTL = 3 * time.Second

// Kind tags a notification with its outcome.
type Kind string

// Notification kinds
const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Notification is one transient message.
type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Feed is a FIFO of self-expiring notifications. By default messages stack;
// in single-slot mode a new message replaces the previous one.
type Feed struct {
	mu         sync.Mutex
	items      []Notification
	ttl        time.Duration
	now        func() time.Time
	singleSlot bool
}

// Option configures a Feed.
type Option func(*Feed)

// WithTTL sets the lifetime of every notification.
func WithTTL(ttl time.Duration) Option {
	return func(f *Feed) {
		if ttl > 0 {
			f.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(f *Feed) { f.now = now }
}

// WithSingleSlot keeps only the most recent notification.
func WithSingleSlot() Option {
	return func(f *Feed) { f.singleSlot = true }
}

// NewFeed creates an empty feed.
func NewFeed(opts ...Option) *Feed {
	f := &Feed{
		ttl: DefaultTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// TTL returns the configured notification lifetime.
func (f *Feed) TTL() time.Duration {
	return f.ttl
}

// Push appends a notification and returns it.
func (f *Feed) Push(kind Kind, message string) Notification {
	now := f.now()
	n := Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(f.ttl),
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.singleSlot {
		f.items = []Notification{n}
	} else {
		f.items = append(f.items, n)
	}
	return n
}

// Success pushes a success notification.
func (f *Feed) Success(message string) Notification {
	return f.Push(KindSuccess, message)
}

// Error pushes an error notification.
func (f *Feed) Error(message string) Notification {
	return f.Push(KindError, message)
}

// Info pushes an informational notification.
func (f *Feed) Info(message string) Notification {
	return f.Push(KindInfo, message)
}

// Dismiss removes a notification before it expires.
// It returns false if the id is unknown or already gone.
func (f *Feed) Dismiss(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.items {
		if n.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return true
		}
	}
	return false
}

// Active returns the unexpired notifications, oldest first.
func (f *Feed) Active() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pruneLocked(f.now())
	return append([]Notification{}, f.items...)
}

// Sweep drops expired notifications and returns how many were removed.
func (f *Feed) Sweep() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pruneLocked(f.now())
}

// Len returns the number of held notifications, including expired ones not yet swept.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// pruneLocked removes expired notifications. Must be called with lock held.
func (f *Feed) pruneLocked(now time.Time) int {
	kept := f.items[:0]
	removed := 0
	for _, n := range f.items {
		if now.Before(n.ExpiresAt) {
			kept = append(kept, n)
		} else {
			removed++
		}
	}
	f.items = kept
	return removed
}
