// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package console implements the moderation console of one content resource:
// it keeps the local collection in sync with the content service by
// refetching after every successful mutation, tracks per-entity operations in
// flight and reports outcomes through the notification feed.
package console

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/olegiv/ocms-desk/internal/action"
	"github.com/olegiv/ocms-desk/internal/form"
	"github.com/olegiv/ocms-desk/internal/gateway"
	"github.com/olegiv/ocms-desk/internal/model"
	"github.com/olegiv/ocms-desk/internal/notify"
	"github.com/olegiv/ocms-desk/internal/store"
)

// Gateway is the remote side of a shell. *gateway.Client satisfies it.
type Gateway[T any] interface {
	List(ctx context.Context) ([]T, error)
	Approve(ctx context.Context, id string) (gateway.Result[T], error)
	Delete(ctx context.Context, id string) (gateway.Ack, error)
	Create(ctx context.Context, p *gateway.Payload) (gateway.Result[T], error)
	Update(ctx context.Context, id string, p *gateway.Payload) (gateway.Result[T], error)
}

// FormState describes the create/edit form.
type FormState struct {
	Open   bool        `json:"open"`
	Mode   string      `json:"mode,omitempty"`
	EditID string      `json:"edit_id,omitempty"`
	Errors form.Errors `json:"errors,omitempty"`

	seq uint64
}

func (f FormState) mode() form.Mode {
	if f.EditID != "" {
		return form.ModeEdit
	}
	return form.ModeCreate
}

// Shell is the console of one resource.
type Shell[T model.Entity] struct {
	res     Resource
	gw      Gateway[T]
	store   *store.Store[T]
	tracker *action.Tracker
	feed    *notify.Feed
	logger  *slog.Logger

	mu      sync.Mutex
	status  model.StatusFilter
	term    string
	form    FormState
	formSeq uint64
}

// New creates a shell for res backed by gw. Outcomes are pushed to feed.
func New[T model.Entity](res Resource, gw Gateway[T], feed *notify.Feed, logger *slog.Logger) *Shell[T] {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("resource", res.Slug)
	return &Shell[T]{
		res:     res,
		gw:      gw,
		store:   store.New[T](res.Plural, gw, logger),
		tracker: action.NewTracker(),
		feed:    feed,
		logger:  logger,
		status:  model.StatusAll,
	}
}

// Resource returns the resource the shell manages.
func (s *Shell[T]) Resource() Resource {
	return s.res
}

// Mount loads the collection for the first time.
func (s *Shell[T]) Mount(ctx context.Context) error {
	if err := s.Refresh(ctx); err != nil {
		return err
	}
	s.logger.Info("console mounted", "items", s.store.Len())
	return nil
}

// Refresh refetches the whole collection. On failure the previous collection
// is kept and an error notification is shown.
func (s *Shell[T]) Refresh(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)
	if err := s.store.Refresh(ctx); err != nil {
		s.feed.Error(s.res.fetchFailed())
		return err
	}
	return nil
}

// SetStatus changes the status filter.
func (s *Shell[T]) SetStatus(status model.StatusFilter) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// SetSearch changes the search term.
func (s *Shell[T]) SetSearch(term string) {
	s.mu.Lock()
	s.term = term
	s.mu.Unlock()
}

// Filter returns the current status filter and search term.
func (s *Shell[T]) Filter() (model.StatusFilter, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.term
}

// Inspect returns the entity with id from the current collection.
func (s *Shell[T]) Inspect(id string) (T, error) {
	item, ok := s.store.Find(func(v T) bool { return v.EntityID() == id })
	if !ok {
		return item, fmt.Errorf("%s %s: %w", s.res.Name, id, ErrNotFound)
	}
	return item, nil
}

// Approve approves the entity with id. The entity is busy until the call and
// the following refetch complete; a failed call leaves the collection as is.
func (s *Shell[T]) Approve(ctx context.Context, id string) error {
	if !s.res.Moderated {
		return ErrNotModerated
	}
	release, ok := s.tracker.Begin(id, action.KindApproving)
	if !ok {
		return ErrBusy
	}
	defer release()

	ctx = context.WithoutCancel(ctx)
	if _, err := s.gw.Approve(ctx, id); err != nil {
		s.logger.Error("approve failed", "id", id, "error", err)
		s.feed.Error(orDefault(gateway.ServerMessage(err), s.res.failed("approve")))
		return err
	}

	s.refetch(ctx)
	s.feed.Success(s.res.succeeded("approved"))
	s.logger.Info("entity approved", "id", id)
	return nil
}

// Delete removes the entity with id, following the same protocol as Approve.
func (s *Shell[T]) Delete(ctx context.Context, id string) error {
	release, ok := s.tracker.Begin(id, action.KindDeleting)
	if !ok {
		return ErrBusy
	}
	defer release()

	ctx = context.WithoutCancel(ctx)
	ack, err := s.gw.Delete(ctx, id)
	if err != nil {
		s.logger.Error("delete failed", "id", id, "error", err)
		s.feed.Error(orDefault(gateway.ServerMessage(err), s.res.failed("delete")))
		return err
	}

	s.refetch(ctx)
	s.feed.Success(orDefault(ack.Message, s.res.succeeded("deleted")))
	s.logger.Info("entity deleted", "id", id)
	return nil
}

// OpenCreate opens an empty create form.
func (s *Shell[T]) OpenCreate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.formSeq++
	s.form = FormState{Open: true, Mode: form.ModeCreate.String(), seq: s.formSeq}
}

// OpenEdit opens the edit form of the entity with id.
func (s *Shell[T]) OpenEdit(id string) (T, error) {
	item, err := s.Inspect(id)
	if err != nil {
		return item, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.formSeq++
	s.form = FormState{Open: true, Mode: form.ModeEdit.String(), EditID: id, seq: s.formSeq}
	return item, nil
}

// CloseForm discards the open form.
func (s *Shell[T]) CloseForm() {
	s.mu.Lock()
	s.form = FormState{}
	s.mu.Unlock()
}

// Form returns the form state.
func (s *Shell[T]) Form() FormState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Submit validates f and creates an entity, or in ModeEdit updates the entity
// with id. The request alone decides what is sent; the form state only
// follows: it records validation errors and is closed on success, unless the
// operator opened another form meanwhile. Invalid input is reported as
// *ValidationError without any network call.
func (s *Shell[T]) Submit(ctx context.Context, mode form.Mode, id string, f form.Form) error {
	if mode == form.ModeEdit {
		if _, err := s.Inspect(id); err != nil {
			return err
		}
	} else {
		id = ""
	}
	seq, tracked := s.formFor(mode, id)

	if errs := f.Validate(mode); errs.Any() {
		if tracked {
			s.setFormErrors(seq, errs)
		}
		return &ValidationError{Errors: errs}
	}

	release, ok := s.tracker.BeginSubmit()
	if !ok {
		return ErrBusy
	}
	defer release()
	if tracked {
		s.setFormErrors(seq, nil)
	}

	verb, past := "create", "created"
	if mode == form.ModeEdit {
		verb, past = "update", "updated"
	}

	ctx = context.WithoutCancel(ctx)
	var (
		res gateway.Result[T]
		err error
	)
	if mode == form.ModeEdit {
		res, err = s.gw.Update(ctx, id, f.Payload())
	} else {
		res, err = s.gw.Create(ctx, f.Payload())
	}
	if err != nil {
		s.logger.Error("submit failed", "mode", mode.String(), "id", id, "error", err)
		s.feed.Error(orDefault(gateway.ServerMessage(err), s.res.failed(verb)))
		return err
	}

	s.refetch(ctx)

	if tracked {
		s.mu.Lock()
		// A form opened meanwhile belongs to the operator; leave it alone.
		if s.form.seq == seq {
			s.form = FormState{}
		}
		s.mu.Unlock()
	}

	s.feed.Success(orDefault(res.Message, s.res.succeeded(past)))
	s.logger.Info("entity saved", "mode", mode.String(), "id", res.Item.EntityID())
	return nil
}

// formFor returns the sequence number of the open form when it matches mode
// and id.
func (s *Shell[T]) formFor(mode form.Mode, id string) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form.Open && s.form.mode() == mode && s.form.EditID == id {
		return s.form.seq, true
	}
	return 0, false
}

// refetch reloads the collection after a successful mutation. A failure keeps
// the previous collection and is only reported.
func (s *Shell[T]) refetch(ctx context.Context) {
	if err := s.store.Refresh(ctx); err != nil {
		s.logger.Warn("refetch after mutation failed", "error", err)
		s.feed.Error(s.res.fetchFailed())
	}
}

func (s *Shell[T]) setFormErrors(seq uint64, errs form.Errors) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form.seq == seq {
		s.form.Errors = errs
	}
}

func orDefault(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
