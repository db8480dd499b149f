package interfaces

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrJobNotFound reports a job that is no longer tracked by the scheduler.
	ErrJobNotFound = errors.New("scheduler: job not found")
)

// Scheduler coordinates delayed execution of jobs such as scheduled post
// publication and unpublication. Jobs are keyed so a reschedule replaces the
// pending entry instead of stacking a second one.
type Scheduler interface {
	// Enqueue registers a job for future execution. If a job with the same key
	// already exists, it is replaced with the new definition.
	Enqueue(ctx context.Context, spec JobSpec) (*Job, error)
	// CancelByKey drops the pending job associated with the supplied key.
	CancelByKey(ctx context.Context, key string) error
	// ListDue returns pending jobs scheduled to run at or before the supplied instant.
	ListDue(ctx context.Context, until time.Time, limit int) ([]*Job, error)
	// MarkDone removes the job after successful processing.
	MarkDone(ctx context.Context, id string) error
	// MarkFailed records a failed attempt; the job stays pending until its
	// attempt budget is exhausted.
	MarkFailed(ctx context.Context, id string, err error) error
}

// JobSpec captures the required information to enqueue a job.
type JobSpec struct {
	// Key uniquely identifies the job so that new requests can safely replace existing entries.
	Key string
	// Type describes the action to perform (e.g. postview.posts.publish).
	Type string
	// RunAt specifies when the job should execute.
	RunAt time.Time
	// Payload carries contextual data required by the worker.
	Payload map[string]any
	// MaxAttempts limits retries when a worker reports failure. Zero means the
	// implementation default.
	MaxAttempts int
}

// Job represents a tracked job entry. A job exists only while it is still
// actionable; completion, cancellation, and attempt exhaustion remove it.
type Job struct {
	JobSpec
	ID        string
	Attempt   int
	LastError string
	CreatedAt time.Time
	UpdatedAt time.Time
}
