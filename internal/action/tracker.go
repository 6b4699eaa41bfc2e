// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package action tracks which entities have an operation in flight so the
// console can disable their controls without blocking unrelated rows.
package action

import (
	"sync"
)

// Kind is the operation in flight for an entity.
type Kind string

// Operation kinds
const (
	KindNone      Kind = "none"
	KindApproving Kind = "approving"
	KindDeleting  Kind = "deleting"
)

// Tracker maps entity ids to their in-flight operation, plus one shared
// submitting flag for the create/edit form. Ids without an entry are idle.
type Tracker struct {
	mu         sync.Mutex
	states     map[string]Kind
	tokens     map[string]uint64
	seq        uint64
	submitting bool
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		states: make(map[string]Kind),
		tokens: make(map[string]uint64),
	}
}

// Begin marks id as busy with kind. It returns ok=false, and does nothing, when
// id already has an operation in flight. The returned release puts id back to
// idle; it is safe to call more than once and only clears the state it set.
func (t *Tracker) Begin(id string, kind Kind) (release func(), ok bool) {
	if kind == KindNone || kind == "" {
		return func() {}, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, busy := t.states[id]; busy {
		return func() {}, false
	}

	t.seq++
	token := t.seq
	t.states[id] = kind
	t.tokens[id] = token

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			if t.tokens[id] == token {
				delete(t.states, id)
				delete(t.tokens, id)
			}
		})
	}, true
}

// State returns the operation in flight for id, or KindNone.
func (t *Tracker) State(id string) Kind {
	t.mu.Lock()
	defer t.mu.Unlock()
	if k, ok := t.states[id]; ok {
		return k
	}
	return KindNone
}

// Busy reports whether id has any operation in flight.
func (t *Tracker) Busy(id string) bool {
	return t.State(id) != KindNone
}

// Snapshot returns a copy of all busy ids and their operations.
func (t *Tracker) Snapshot() map[string]Kind {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]Kind, len(t.states))
	for id, k := range t.states {
		out[id] = k
	}
	return out
}

// BeginSubmit raises the submitting flag. It returns ok=false when a
// submission is already in flight.
func (t *Tracker) BeginSubmit() (release func(), ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.submitting {
		return func() {}, false
	}
	t.submitting = true

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			t.submitting = false
			t.mu.Unlock()
		})
	}, true
}

// Submitting reports whether a form submission is in flight.
func (t *Tracker) Submitting() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.submitting
}
