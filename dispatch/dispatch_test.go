package dispatch

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestPostRunsInOrder(t *testing.T) {
	q := New()
	defer q.Stop()

	const n = 200
	results := make([]int, 0, n)
	done := make(chan struct{})
	for i := 0; i < n; i++ {
		i := i
		q.Post(func() {
			results = append(results, i)
			if i == n-1 {
				close(done)
			}
		})
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callbacks")
	}

	if len(results) != n {
		t.Fatalf("expected %d callbacks, got %d", n, len(results))
	}
	for i, got := range results {
		if got != i {
			t.Fatalf("out-of-order delivery at %d: got %d", i, got)
		}
	}
}

func TestCallbacksNeverOverlap(t *testing.T) {
	q := New()
	defer q.Stop()

	var active, overlaps int32
	done := make(chan struct{})
	const n = 50
	for i := 0; i < n; i++ {
		i := i
		q.Post(func() {
			if atomic.AddInt32(&active, 1) > 1 {
				atomic.AddInt32(&overlaps, 1)
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&active, -1)
			if i == n-1 {
				close(done)
			}
		})
	}

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for callbacks")
	}
	if overlaps != 0 {
		t.Fatalf("detected %d overlapping callbacks", overlaps)
	}
}

func TestStopDrainsPendingCallbacks(t *testing.T) {
	q := New()

	var ran int32
	for i := 0; i < 20; i++ {
		q.Post(func() { atomic.AddInt32(&ran, 1) })
	}
	q.Stop()

	if got := atomic.LoadInt32(&ran); got != 20 {
		t.Fatalf("expected all 20 callbacks to run before Stop returned, got %d", got)
	}
}

func TestPostAfterStopIsDropped(t *testing.T) {
	q := New()
	q.Stop()

	// Must not panic or block.
	q.Post(func() { t.Error("callback ran after Stop") })
	time.Sleep(10 * time.Millisecond)
}

func TestStopTwice(t *testing.T) {
	q := New()
	q.Stop()
	q.Stop()
}
