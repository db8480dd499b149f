// Package autosave debounces saves keyed by entity ID. Each edit reschedules
// the entity's pending save; at most one save per entity is ever in flight,
// and edits arriving during a save re-arm it with the latest payload. Close
// cancels everything still pending.
package autosave

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/goliatone/go-postview/internal/logging"
	"github.com/goliatone/go-postview/pkg/interfaces"
)

var (
	ErrClosed          = errors.New("autosave: closed")
	ErrEntityRequired  = errors.New("autosave: entity id required")
	ErrSaveFuncMissing = errors.New("autosave: save function required")
)

// DefaultDelay is the debounce window between the last edit and the save.
const DefaultDelay = 2 * time.Second

// SaveFunc persists one entity's payload.
type SaveFunc func(ctx context.Context, entityID string, payload any) error

// Autosaver coalesces rapid edits into one delayed save per entity.
type Autosaver struct {
	save   SaveFunc
	delay  time.Duration
	logger interfaces.Logger

	mu     sync.Mutex
	states map[string]*entityState
	closed bool
	wg     sync.WaitGroup
}

type entityState struct {
	timer        *time.Timer
	payload      any
	pending      bool
	inFlight     bool
	rearm        bool
	rearmPayload any
}

// Option configures an Autosaver.
type Option func(*Autosaver)

// WithDelay overrides the debounce window.
func WithDelay(delay time.Duration) Option {
	return func(a *Autosaver) {
		if delay > 0 {
			a.delay = delay
		}
	}
}

// WithLogger wires the logger provider for save diagnostics.
func WithLogger(provider interfaces.LoggerProvider) Option {
	return func(a *Autosaver) {
		a.logger = logging.AutosaveLogger(provider)
	}
}

// New constructs an Autosaver around the save function.
func New(save SaveFunc, opts ...Option) (*Autosaver, error) {
	if save == nil {
		return nil, ErrSaveFuncMissing
	}
	a := &Autosaver{
		save:   save,
		delay:  DefaultDelay,
		logger: logging.NoOp(),
		states: map[string]*entityState{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Schedule records an edit. A pending save for the same entity is replaced
// and its timer reset; an edit during an in-flight save re-arms the entity
// with this payload once the save completes.
func (a *Autosaver) Schedule(entityID string, payload any) error {
	if entityID == "" {
		return ErrEntityRequired
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}

	st := a.states[entityID]
	if st == nil {
		st = &entityState{}
		a.states[entityID] = st
	}
	if st.inFlight {
		st.rearm = true
		st.rearmPayload = payload
		return nil
	}

	st.payload = payload
	if st.timer != nil {
		st.timer.Stop()
	}
	st.pending = true
	st.timer = time.AfterFunc(a.delay, func() { a.fire(entityID) })
	return nil
}

// Pending reports whether the entity has an unsaved edit queued or re-armed.
func (a *Autosaver) Pending(entityID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	st := a.states[entityID]
	return st != nil && (st.pending || st.rearm)
}

// Flush persists the entity's pending save immediately, skipping the rest of
// the debounce window. A no-op when nothing is pending; when a save is
// already in flight the latest payload stays re-armed and Flush returns nil.
func (a *Autosaver) Flush(ctx context.Context, entityID string) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	st := a.states[entityID]
	if st == nil || st.inFlight || !st.pending {
		a.mu.Unlock()
		return nil
	}
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
	st.pending = false
	st.inFlight = true
	payload := st.payload
	a.mu.Unlock()

	err := a.save(ctx, entityID, payload)
	a.finish(entityID)
	return err
}

// Cancel drops any pending or re-armed save for the entity.
func (a *Autosaver) Cancel(entityID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	st := a.states[entityID]
	if st == nil {
		return
	}
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
	st.pending = false
	st.rearm = false
	st.rearmPayload = nil
	if !st.inFlight {
		delete(a.states, entityID)
	}
}

// Close cancels all pending saves and waits for in-flight ones to finish.
// Pending payloads are dropped, not saved.
func (a *Autosaver) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	for _, st := range a.states {
		if st.timer != nil {
			st.timer.Stop()
			st.timer = nil
		}
		st.pending = false
		st.rearm = false
	}
	a.mu.Unlock()
	a.wg.Wait()
}

func (a *Autosaver) fire(entityID string) {
	a.mu.Lock()
	st := a.states[entityID]
	if st == nil || !st.pending || a.closed {
		a.mu.Unlock()
		return
	}
	st.pending = false
	st.timer = nil
	st.inFlight = true
	payload := st.payload
	a.wg.Add(1)
	a.mu.Unlock()

	err := a.save(context.Background(), entityID, payload)
	if err != nil {
		a.logger.Warn("autosave failed", "entity_id", entityID, "error", err)
	}
	a.finish(entityID)
	a.wg.Done()
}

// finish clears the in-flight flag and re-arms the entity when an edit came
// in during the save.
func (a *Autosaver) finish(entityID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	st := a.states[entityID]
	if st == nil {
		return
	}
	st.inFlight = false
	if st.rearm && !a.closed {
		st.rearm = false
		st.payload = st.rearmPayload
		st.rearmPayload = nil
		st.pending = true
		st.timer = time.AfterFunc(a.delay, func() { a.fire(entityID) })
		return
	}
	if !st.pending {
		delete(a.states, entityID)
	}
}
