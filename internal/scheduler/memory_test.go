package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/goliatone/go-postview/pkg/interfaces"
	"github.com/google/uuid"
)

func newTestScheduler(now time.Time) interfaces.Scheduler {
	counter := 0
	return NewInMemory(
		WithClock(func() time.Time { return now }),
		WithIDGenerator(func() string {
			counter++
			return fmt.Sprintf("job-%d", counter)
		}),
	)
}

func TestInMemory_EnqueueReplacesByKey(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sched := newTestScheduler(now)
	ctx := context.Background()

	postID := uuid.MustParse("10000000-0000-0000-0000-000000000001")
	key := PostPublishJobKey(postID)

	if _, err := sched.Enqueue(ctx, interfaces.JobSpec{Key: key, Type: JobTypePostPublish, RunAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	second, err := sched.Enqueue(ctx, interfaces.JobSpec{Key: key, Type: JobTypePostPublish, RunAt: now.Add(2 * time.Hour)})
	if err != nil {
		t.Fatalf("enqueue replacement: %v", err)
	}

	due, err := sched.ListDue(ctx, now.Add(3*time.Hour), 10)
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("expected the replacement to displace the first job, got %d jobs", len(due))
	}
	if due[0].ID != second.ID || !due[0].RunAt.Equal(now.Add(2*time.Hour)) {
		t.Fatalf("unexpected stored job: %+v", due[0])
	}
}

func TestInMemory_ListDueOrdersByRunAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sched := newTestScheduler(now)
	ctx := context.Background()

	if _, err := sched.Enqueue(ctx, interfaces.JobSpec{Key: "b", Type: JobTypePostUnpublish, RunAt: now.Add(-time.Minute)}); err != nil {
		t.Fatalf("enqueue b: %v", err)
	}
	if _, err := sched.Enqueue(ctx, interfaces.JobSpec{Key: "a", Type: JobTypePostPublish, RunAt: now.Add(-time.Hour)}); err != nil {
		t.Fatalf("enqueue a: %v", err)
	}
	if _, err := sched.Enqueue(ctx, interfaces.JobSpec{Key: "c", Type: JobTypePostPublish, RunAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("enqueue c: %v", err)
	}

	due, err := sched.ListDue(ctx, now, 10)
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("expected 2 due jobs, got %d", len(due))
	}
	if due[0].Key != "a" || due[1].Key != "b" {
		t.Fatalf("unexpected due order: %s, %s", due[0].Key, due[1].Key)
	}
}

func TestInMemory_CancelByKeyDropsJob(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sched := newTestScheduler(now)
	ctx := context.Background()

	postID := uuid.MustParse("10000000-0000-0000-0000-000000000002")
	key := PostUnpublishJobKey(postID)
	if _, err := sched.Enqueue(ctx, interfaces.JobSpec{Key: key, Type: JobTypePostUnpublish, RunAt: now.Add(time.Second)}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := sched.CancelByKey(ctx, key); err != nil {
		t.Fatalf("cancel by key: %v", err)
	}
	if err := sched.CancelByKey(ctx, key); !errors.Is(err, interfaces.ErrJobNotFound) {
		t.Fatalf("expected canceled job to drop its key, got %v", err)
	}

	due, err := sched.ListDue(ctx, now.Add(time.Minute), 10)
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("canceled jobs must not be due, got %d", len(due))
	}
}

func TestInMemory_MarkDoneRemovesJob(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sched := newTestScheduler(now)
	ctx := context.Background()

	job, err := sched.Enqueue(ctx, interfaces.JobSpec{Key: "k", Type: JobTypePostPublish, RunAt: now})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := sched.MarkDone(ctx, job.ID); err != nil {
		t.Fatalf("mark done: %v", err)
	}
	if err := sched.MarkDone(ctx, job.ID); !errors.Is(err, interfaces.ErrJobNotFound) {
		t.Fatalf("expected completed job to be gone, got %v", err)
	}

	due, err := sched.ListDue(ctx, now, 10)
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("completed jobs must not be due, got %d", len(due))
	}
}

func TestInMemory_MarkFailedRespectsMaxAttempts(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sched := newTestScheduler(now)
	ctx := context.Background()

	job, err := sched.Enqueue(ctx, interfaces.JobSpec{Key: "k", Type: JobTypePostPublish, RunAt: now, MaxAttempts: 2})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	if err := sched.MarkFailed(ctx, job.ID, errors.New("boom")); err != nil {
		t.Fatalf("first failure: %v", err)
	}
	due, err := sched.ListDue(ctx, now, 10)
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 1 || due[0].Attempt != 1 || due[0].LastError != "boom" {
		t.Fatalf("expected pending retry, got %+v", due)
	}

	if err := sched.MarkFailed(ctx, job.ID, errors.New("boom again")); err != nil {
		t.Fatalf("second failure: %v", err)
	}
	if due, err = sched.ListDue(ctx, now, 10); err != nil {
		t.Fatalf("list due after exhaustion: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("exhausted jobs must be dropped, got %d", len(due))
	}
	if err := sched.MarkFailed(ctx, job.ID, errors.New("late")); !errors.Is(err, interfaces.ErrJobNotFound) {
		t.Fatalf("expected exhausted job to be gone, got %v", err)
	}
}
