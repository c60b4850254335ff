// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

func TestFakeNowAdvance(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	fake := Fake(start)

	if got := fake.Now(); !got.Equal(start) {
		t.Fatalf("Now() = %v, want %v", got, start)
	}

	fake.Advance(90 * time.Second)
	want := start.Add(90 * time.Second)
	if got := fake.Now(); !got.Equal(want) {
		t.Fatalf("Now() after Advance = %v, want %v", got, want)
	}
}

func TestFakeAfterFiresAtDeadline(t *testing.T) {
	fake := Fake(time.Unix(0, 0))
	ch := fake.After(10 * time.Second)

	fake.Advance(9 * time.Second)
	select {
	case <-ch:
		t.Fatal("After channel fired before deadline")
	default:
	}

	fake.Advance(time.Second)
	select {
	case <-ch:
	default:
		t.Fatal("After channel did not fire at deadline")
	}
}

func TestFakeAfterNonPositive(t *testing.T) {
	fake := Fake(time.Unix(0, 0))
	select {
	case <-fake.After(0):
	default:
		t.Fatal("After(0) should receive immediately")
	}
}

func TestFakeSleepBlocksUntilAdvance(t *testing.T) {
	fake := Fake(time.Unix(0, 0))
	done := make(chan struct{})

	go func() {
		fake.Sleep(5 * time.Second)
		close(done)
	}()

	fake.WaitForWaiters(1)
	select {
	case <-done:
		t.Fatal("Sleep returned before the clock advanced")
	default:
	}

	fake.Advance(5 * time.Second)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Sleep did not return after Advance")
	}
}

func TestFakeWaitersReleasedInDeadlineOrder(t *testing.T) {
	fake := Fake(time.Unix(0, 0))
	first := fake.After(time.Second)
	second := fake.After(2 * time.Second)

	if fake.PendingCount() != 2 {
		t.Fatalf("PendingCount = %d, want 2", fake.PendingCount())
	}

	fake.Advance(3 * time.Second)
	<-first
	<-second
	if fake.PendingCount() != 0 {
		t.Fatalf("PendingCount after Advance = %d, want 0", fake.PendingCount())
	}
}
