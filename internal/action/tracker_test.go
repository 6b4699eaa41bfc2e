// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package action

import (
	"sync"
	"testing"
)

func TestTracker_MissingIsIdle(t *testing.T) {
	tr := NewTracker()
	if got := tr.State("42"); got != KindNone {
		t.Errorf("State() = %q, want %q", got, KindNone)
	}
	if tr.Busy("42") {
		t.Error("Busy() = true for unknown id")
	}
}

func TestTracker_BeginRelease(t *testing.T) {
	tr := NewTracker()

	release, ok := tr.Begin("42", KindApproving)
	if !ok {
		t.Fatal("Begin() ok = false")
	}
	if got := tr.State("42"); got != KindApproving {
		t.Errorf("State() = %q, want approving", got)
	}

	release()
	if tr.Busy("42") {
		t.Error("id still busy after release")
	}

	// Releasing twice is harmless.
	release()
	if tr.Busy("42") {
		t.Error("id busy after second release")
	}
}

func TestTracker_RejectsReentrant(t *testing.T) {
	tr := NewTracker()

	release, ok := tr.Begin("7", KindDeleting)
	if !ok {
		t.Fatal("first Begin() rejected")
	}
	defer release()

	if _, ok := tr.Begin("7", KindDeleting); ok {
		t.Error("second Begin() on the same id accepted")
	}
	if _, ok := tr.Begin("7", KindApproving); ok {
		t.Error("Begin() with another kind on a busy id accepted")
	}
	if got := tr.State("7"); got != KindDeleting {
		t.Errorf("State() = %q, want deleting", got)
	}
}

func TestTracker_IndependentIDs(t *testing.T) {
	tr := NewTracker()

	releaseA, _ := tr.Begin("3", KindApproving)
	releaseB, _ := tr.Begin("9", KindDeleting)

	releaseA()
	if tr.Busy("3") {
		t.Error("id 3 still busy")
	}
	if got := tr.State("9"); got != KindDeleting {
		t.Errorf("id 9 state = %q, want deleting", got)
	}
	releaseB()

	if len(tr.Snapshot()) != 0 {
		t.Errorf("Snapshot() = %v, want empty", tr.Snapshot())
	}
}

func TestTracker_StaleReleaseKeepsNewState(t *testing.T) {
	tr := NewTracker()

	first, _ := tr.Begin("5", KindApproving)
	first()

	second, ok := tr.Begin("5", KindDeleting)
	if !ok {
		t.Fatal("Begin() after release rejected")
	}
	defer second()

	first()
	if got := tr.State("5"); got != KindDeleting {
		t.Errorf("stale release cleared the new state: %q", got)
	}
}

func TestTracker_BeginNone(t *testing.T) {
	tr := NewTracker()
	if _, ok := tr.Begin("1", KindNone); ok {
		t.Error("Begin(KindNone) accepted")
	}
	if tr.Busy("1") {
		t.Error("Begin(KindNone) marked id busy")
	}
}

func TestTracker_Submit(t *testing.T) {
	tr := NewTracker()

	release, ok := tr.BeginSubmit()
	if !ok || !tr.Submitting() {
		t.Fatal("BeginSubmit() did not raise the flag")
	}
	if _, ok := tr.BeginSubmit(); ok {
		t.Error("second BeginSubmit() accepted")
	}

	release()
	if tr.Submitting() {
		t.Error("Submitting() = true after release")
	}
	release()

	again, ok := tr.BeginSubmit()
	if !ok {
		t.Error("BeginSubmit() after release rejected")
	}
	again()
}

func TestTracker_Concurrent(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if release, ok := tr.Begin("same", KindApproving); ok {
				mu.Lock()
				accepted++
				mu.Unlock()
				_ = release
			}
		}()
	}
	wg.Wait()

	if accepted != 1 {
		t.Errorf("accepted = %d, want exactly 1", accepted)
	}
}
