// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"

	"github.com/olegiv/ocms-desk/internal/testutil"
)

type item struct {
	ID   string
	Name string
}

// scriptedLister returns the queued answers in order.
type scriptedLister struct {
	mu      sync.Mutex
	answers []answer
	calls   int
}

type answer struct {
	items []item
	err   error
	wait  chan struct{}
}

func (l *scriptedLister) List(ctx context.Context) ([]item, error) {
	l.mu.Lock()
	a := l.answers[l.calls]
	l.calls++
	l.mu.Unlock()

	if a.wait != nil {
		<-a.wait
	}
	return a.items, a.err
}

func TestStore_StartsEmpty(t *testing.T) {
	s := New[item]("items", &scriptedLister{}, testutil.TestLoggerSilent())
	if s.Len() != 0 || s.Loaded() {
		t.Errorf("new store: Len=%d Loaded=%v", s.Len(), s.Loaded())
	}
	if len(s.Items()) != 0 {
		t.Errorf("Items() = %v, want empty", s.Items())
	}
}

func TestStore_RefreshReplacesInServerOrder(t *testing.T) {
	l := &scriptedLister{answers: []answer{
		{items: []item{{"b", "Bo"}, {"a", "Ana"}}},
		{items: []item{{"c", "Cy"}}},
	}}
	s := New[item]("items", l, testutil.TestLoggerSilent())

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	got := s.Items()
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "a" {
		t.Errorf("Items() = %v, want server order [b a]", got)
	}

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("second Refresh() error: %v", err)
	}
	got = s.Items()
	if len(got) != 1 || got[0].ID != "c" {
		t.Errorf("Items() = %v, want wholesale replacement [c]", got)
	}
	if !s.Loaded() {
		t.Error("Loaded() = false after success")
	}
}

func TestStore_FailedInitialLoadStaysEmpty(t *testing.T) {
	boom := errors.New("connection refused")
	l := &scriptedLister{answers: []answer{{err: boom}}}
	s := New[item]("items", l, testutil.TestLoggerSilent())

	err := s.Refresh(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Refresh() error = %v, want wrapping %v", err, boom)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if s.Loaded() {
		t.Error("Loaded() = true after failed initial load")
	}
	if !errors.Is(s.LastError(), boom) {
		t.Errorf("LastError() = %v", s.LastError())
	}
}

func TestStore_FailedRefreshKeepsPrevious(t *testing.T) {
	l := &scriptedLister{answers: []answer{
		{items: []item{{"a", "Ana"}}},
		{err: errors.New("502")},
		{items: []item{{"a", "Ana"}, {"b", "Bo"}}},
	}}
	s := New[item]("items", l, testutil.TestLoggerSilent())

	_ = s.Refresh(context.Background())
	if err := s.Refresh(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want previous collection kept", s.Len())
	}

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	if s.LastError() != nil {
		t.Errorf("LastError() = %v after success", s.LastError())
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestStore_ItemsIsACopy(t *testing.T) {
	l := &scriptedLister{answers: []answer{{items: []item{{"a", "Ana"}}}}}
	s := New[item]("items", l, testutil.TestLoggerSilent())
	_ = s.Refresh(context.Background())

	got := s.Items()
	got[0].Name = "changed"
	if s.Items()[0].Name != "Ana" {
		t.Error("mutating Items() result changed the store")
	}
}

func TestStore_Find(t *testing.T) {
	l := &scriptedLister{answers: []answer{{items: []item{{"a", "Ana"}, {"b", "Bo"}}}}}
	s := New[item]("items", l, testutil.TestLoggerSilent())
	_ = s.Refresh(context.Background())

	got, ok := s.Find(func(i item) bool { return i.ID == "b" })
	if !ok || got.Name != "Bo" {
		t.Errorf("Find(b) = %v, %v", got, ok)
	}
	if _, ok := s.Find(func(i item) bool { return i.ID == "z" }); ok {
		t.Error("Find(z) ok = true")
	}
}

func TestStore_LastResponseWins(t *testing.T) {
	slow := make(chan struct{})
	l := &scriptedLister{answers: []answer{
		{items: []item{{"old", "stale"}}, wait: slow},
		{items: []item{{"new", "fresh"}}},
	}}
	s := New[item]("items", l, testutil.TestLoggerSilent())

	done := make(chan struct{})
	go func() {
		_ = s.Refresh(context.Background())
		close(done)
	}()

	// Wait until the slow refresh has been issued.
	for {
		l.mu.Lock()
		calls := l.calls
		l.mu.Unlock()
		if calls == 1 {
			break
		}
		runtime.Gosched()
	}

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("fast Refresh() error: %v", err)
	}
	if got := s.Items(); got[0].ID != "new" {
		t.Fatalf("after fast refresh Items() = %v", got)
	}

	close(slow)
	<-done

	if got := s.Items(); got[0].ID != "old" {
		t.Errorf("Items() = %v, want the late (stale) response applied", got)
	}
}

func TestListerFunc(t *testing.T) {
	called := false
	var l Lister[item] = ListerFunc[item](func(ctx context.Context) ([]item, error) {
		called = true
		return nil, nil
	})
	s := New[item]("items", l, nil)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	if !called {
		t.Error("ListerFunc not called")
	}
	if s.Len() != 0 || !s.Loaded() {
		t.Errorf("Len=%d Loaded=%v", s.Len(), s.Loaded())
	}
}
