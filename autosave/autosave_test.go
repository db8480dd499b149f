package autosave

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingSaver struct {
	mu    sync.Mutex
	calls []savedCall
	block chan struct{}
	err   error
}

type savedCall struct {
	entityID string
	payload  any
}

func (r *recordingSaver) save(_ context.Context, entityID string, payload any) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, savedCall{entityID: entityID, payload: payload})
	return r.err
}

func (r *recordingSaver) snapshot() []savedCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]savedCall, len(r.calls))
	copy(out, r.calls)
	return out
}

func waitFor(t *testing.T, timeout time.Duration, check func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if check() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

func TestSchedule_DebouncesToLatestPayload(t *testing.T) {
	saver := &recordingSaver{}
	a, err := New(saver.save, WithDelay(20*time.Millisecond))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer a.Close()

	for _, draft := range []string{"d1", "d2", "d3"} {
		if err := a.Schedule("post-1", draft); err != nil {
			t.Fatalf("schedule: %v", err)
		}
	}

	waitFor(t, time.Second, func() bool { return len(saver.snapshot()) == 1 })
	calls := saver.snapshot()
	if calls[0].entityID != "post-1" || calls[0].payload != "d3" {
		t.Fatalf("expected single save with latest draft, got %+v", calls)
	}
}

func TestSchedule_IndependentEntities(t *testing.T) {
	saver := &recordingSaver{}
	a, err := New(saver.save, WithDelay(10*time.Millisecond))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer a.Close()

	a.Schedule("post-1", "a")
	a.Schedule("post-2", "b")

	waitFor(t, time.Second, func() bool { return len(saver.snapshot()) == 2 })
}

func TestSchedule_RearmsDuringInFlightSave(t *testing.T) {
	saver := &recordingSaver{block: make(chan struct{})}
	a, err := New(saver.save, WithDelay(5*time.Millisecond))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer a.Close()

	a.Schedule("post-1", "first")
	// Let the first save start and block, then edit again.
	time.Sleep(20 * time.Millisecond)
	a.Schedule("post-1", "second")
	if !a.Pending("post-1") {
		t.Fatalf("edit during in-flight save should stay pending")
	}
	close(saver.block)

	waitFor(t, time.Second, func() bool { return len(saver.snapshot()) == 2 })
	calls := saver.snapshot()
	if calls[0].payload != "first" || calls[1].payload != "second" {
		t.Fatalf("unexpected save order: %+v", calls)
	}
}

func TestFlush_SavesImmediately(t *testing.T) {
	saver := &recordingSaver{}
	a, err := New(saver.save, WithDelay(time.Hour))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer a.Close()

	a.Schedule("post-1", "draft")
	if err := a.Flush(context.Background(), "post-1"); err != nil {
		t.Fatalf("flush: %v", err)
	}
	calls := saver.snapshot()
	if len(calls) != 1 || calls[0].payload != "draft" {
		t.Fatalf("expected immediate save, got %+v", calls)
	}
	if a.Pending("post-1") {
		t.Fatalf("flush should clear the pending state")
	}

	// Flushing with nothing pending is a no-op.
	if err := a.Flush(context.Background(), "post-1"); err != nil {
		t.Fatalf("idle flush: %v", err)
	}
	if len(saver.snapshot()) != 1 {
		t.Fatalf("idle flush should not save again")
	}
}

func TestFlush_SurfacesSaveError(t *testing.T) {
	boom := errors.New("boom")
	saver := &recordingSaver{err: boom}
	a, err := New(saver.save, WithDelay(time.Hour))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer a.Close()

	a.Schedule("post-1", "draft")
	if err := a.Flush(context.Background(), "post-1"); !errors.Is(err, boom) {
		t.Fatalf("expected save error, got %v", err)
	}
}

func TestCancel_DropsPendingSave(t *testing.T) {
	saver := &recordingSaver{}
	a, err := New(saver.save, WithDelay(20*time.Millisecond))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer a.Close()

	a.Schedule("post-1", "draft")
	a.Cancel("post-1")

	time.Sleep(60 * time.Millisecond)
	if len(saver.snapshot()) != 0 {
		t.Fatalf("cancelled save should not run")
	}
}

func TestClose_CancelsPendingAndRejectsNewWork(t *testing.T) {
	saver := &recordingSaver{}
	a, err := New(saver.save, WithDelay(50*time.Millisecond))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	a.Schedule("post-1", "draft")
	a.Close()

	time.Sleep(100 * time.Millisecond)
	if len(saver.snapshot()) != 0 {
		t.Fatalf("pending save should be dropped on close")
	}
	if err := a.Schedule("post-1", "late"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestNew_RequiresSaveFunc(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrSaveFuncMissing) {
		t.Fatalf("expected ErrSaveFuncMissing, got %v", err)
	}
}
