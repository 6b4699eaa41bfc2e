// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package notify

import (
	"testing"
	"time"

	"github.com/olegiv/ocms-desk/internal/testutil"
)

func TestFeed_StacksInOrder(t *testing.T) {
	clock := testutil.NewClock()
	f := NewFeed(WithClock(clock.Now))

	f.Success("Review approved successfully!")
	clock.Advance(time.Second)
	f.Error("Failed to delete review. Please try again.")

	active := f.Active()
	if len(active) != 2 {
		t.Fatalf("len(Active()) = %d, want 2", len(active))
	}
	if active[0].Kind != KindSuccess || active[1].Kind != KindError {
		t.Errorf("order = %s, %s; want success, error", active[0].Kind, active[1].Kind)
	}
	if active[0].ID == active[1].ID {
		t.Error("notifications share an id")
	}
}

func TestFeed_Expiry(t *testing.T) {
	clock := testutil.NewClock()
	f := NewFeed(WithClock(clock.Now))

	f.Info("first")
	clock.Advance(2 * time.Second)
	f.Info("second")

	clock.Advance(999 * time.Millisecond)
	if got := len(f.Active()); got != 2 {
		t.Fatalf("before first expiry: %d active, want 2", got)
	}

	clock.Advance(time.Millisecond)
	active := f.Active()
	if len(active) != 1 || active[0].Message != "second" {
		t.Fatalf("after first expiry: %v", active)
	}

	clock.Advance(2 * time.Second)
	if got := len(f.Active()); got != 0 {
		t.Errorf("after all expired: %d active", got)
	}
}

func TestFeed_CustomTTL(t *testing.T) {
	clock := testutil.NewClock()
	f := NewFeed(WithClock(clock.Now), WithTTL(5*time.Second))
	n := f.Success("saved")

	if got := n.ExpiresAt.Sub(n.CreatedAt); got != 5*time.Second {
		t.Errorf("lifetime = %v, want 5s", got)
	}
	clock.Advance(4 * time.Second)
	if len(f.Active()) != 1 {
		t.Error("notification expired early")
	}
}

func TestFeed_NonPositiveTTLKeepsDefault(t *testing.T) {
	f := NewFeed(WithTTL(0))
	if f.TTL() != DefaultTTL {
		t.Errorf("TTL() = %v, want %v", f.TTL(), DefaultTTL)
	}
}

func TestFeed_Dismiss(t *testing.T) {
	f := NewFeed()
	a := f.Success("a")
	b := f.Success("b")

	if !f.Dismiss(a.ID) {
		t.Fatal("Dismiss() = false for a live id")
	}
	if f.Dismiss(a.ID) {
		t.Error("Dismiss() = true twice")
	}
	active := f.Active()
	if len(active) != 1 || active[0].ID != b.ID {
		t.Errorf("Active() = %v, want only b", active)
	}
}

func TestFeed_SingleSlot(t *testing.T) {
	f := NewFeed(WithSingleSlot())
	f.Success("first")
	f.Error("second")

	active := f.Active()
	if len(active) != 1 || active[0].Message != "second" {
		t.Errorf("Active() = %v, want only the latest", active)
	}
}

func TestFeed_Sweep(t *testing.T) {
	clock := testutil.NewClock()
	f := NewFeed(WithClock(clock.Now))
	f.Info("a")
	f.Info("b")

	if n := f.Sweep(); n != 0 {
		t.Errorf("Sweep() = %d before expiry", n)
	}
	clock.Advance(DefaultTTL)
	if n := f.Sweep(); n != 2 {
		t.Errorf("Sweep() = %d, want 2", n)
	}
	if f.Len() != 0 {
		t.Errorf("Len() = %d after sweep", f.Len())
	}
}

func TestFeed_ActiveReturnsCopy(t *testing.T) {
	f := NewFeed()
	f.Info("a")
	got := f.Active()
	got[0].Message = "changed"
	if f.Active()[0].Message != "a" {
		t.Error("Active() exposes internal state")
	}
}
