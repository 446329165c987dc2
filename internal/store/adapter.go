// Package store issues task writes without blocking the caller and keeps
// the live view of a user's tasks.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"techlead/internal/events"
	"techlead/internal/service"
)

// DefaultWriteTimeout bounds a background write.
const DefaultWriteTimeout = 10 * time.Second

// ErrMissingIdentity is reported when a write lacks a user or task ID.
// Such writes are never sent to the store.
var ErrMissingIdentity = errors.New("user ID or task ID is missing")

// Adapter translates task operations into background store requests.
// Failures are published on the bus as *events.PermissionError; they never
// reach the code that issued the request except through its *Write.
type Adapter struct {
	store   service.Store
	bus     *events.Bus
	log     zerolog.Logger
	timeout time.Duration

	wg sync.WaitGroup
}

// NewAdapter creates an adapter writing to s and reporting failures on bus.
func NewAdapter(s service.Store, bus *events.Bus, log zerolog.Logger) *Adapter {
	return &Adapter{
		store:   s,
		bus:     bus,
		log:     log,
		timeout: DefaultWriteTimeout,
	}
}

// SetTimeout overrides the per-write timeout.
func (a *Adapter) SetTimeout(d time.Duration) {
	if d > 0 {
		a.timeout = d
	}
}

// AddTask creates a task. The last-updated field is assigned by the store.
func (a *Adapter) AddTask(ctx context.Context, userID string, task service.NewTask) *Write {
	path := service.CollectionPath(userID)
	if userID == "" {
		return a.reject(events.OpCreate, path)
	}

	payload := withServerTimestamp(task.Fields())
	return a.start(ctx, events.OpCreate, path, payload, func(ctx context.Context) (string, error) {
		return a.store.CreateTask(ctx, userID, task)
	})
}

// UpdateTask applies a partial update to a task.
func (a *Adapter) UpdateTask(ctx context.Context, userID, taskID string, patch service.TaskPatch) *Write {
	path := service.TaskPath(userID, taskID)
	if userID == "" || taskID == "" {
		return a.reject(events.OpUpdate, path)
	}

	payload := withServerTimestamp(patch.Fields())
	return a.start(ctx, events.OpUpdate, path, payload, func(ctx context.Context) (string, error) {
		return taskID, a.store.UpdateTask(ctx, userID, taskID, patch)
	})
}

// UpdateTaskStatus changes only the status of a task.
func (a *Adapter) UpdateTaskStatus(ctx context.Context, userID, taskID, status string) *Write {
	return a.UpdateTask(ctx, userID, taskID, service.StatusPatch(status))
}

// DeleteTask removes a task.
func (a *Adapter) DeleteTask(ctx context.Context, userID, taskID string) *Write {
	path := service.TaskPath(userID, taskID)
	if userID == "" || taskID == "" {
		return a.reject(events.OpDelete, path)
	}

	return a.start(ctx, events.OpDelete, path, nil, func(ctx context.Context) (string, error) {
		return taskID, a.store.DeleteTask(ctx, userID, taskID)
	})
}

// Flush waits for every write started so far to settle, or for ctx.
func (a *Adapter) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Adapter) start(ctx context.Context, op events.Operation, path string, payload map[string]string, do func(context.Context) (string, error)) *Write {
	w := newWrite(op, path)

	// The write outlives the request that issued it.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer cancel()

		id, err := do(ctx)
		if err != nil {
			a.log.Error().Err(err).Str("op", string(op)).Str("path", path).Msg("store write failed")
			// Publish before settling so a waiter observes the event.
			a.bus.Publish(&events.PermissionError{
				Operation:   op,
				Path:        path,
				RequestData: payload,
				Err:         err,
			})
			w.settle(id, err)
			return
		}
		a.log.Debug().Str("op", string(op)).Str("path", path).Str("task_id", id).Msg("store write done")
		w.settle(id, nil)
	}()

	return w
}

func (a *Adapter) reject(op events.Operation, path string) *Write {
	a.log.Error().Str("op", string(op)).Str("path", path).Msg("user ID or task ID is missing, write skipped")
	w := newWrite(op, path)
	w.settle("", ErrMissingIdentity)
	return w
}

func withServerTimestamp(fields map[string]string) map[string]string {
	fields[service.FieldLastUpdated] = service.ServerTimestamp
	return fields
}
