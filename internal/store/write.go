package store

import (
	"context"
	"sync"

	"techlead/internal/events"
)

// Write is a handle to a store request running in the background.
type Write struct {
	op   events.Operation
	path string

	done chan struct{}

	mu        sync.Mutex
	id        string
	err       error
	listeners []func(error)
}

func newWrite(op events.Operation, path string) *Write {
	return &Write{op: op, path: path, done: make(chan struct{})}
}

// Operation returns the kind of request.
func (w *Write) Operation() events.Operation { return w.op }

// Path returns the logical path the request targets.
func (w *Write) Path() string { return w.path }

// Done is closed once the request has settled.
func (w *Write) Done() <-chan struct{} { return w.done }

// Err returns the failure, or nil if the request succeeded or has not
// settled yet.
func (w *Write) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// ID returns the store-assigned ID of a created task once settled.
func (w *Write) ID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.id
}

// Wait blocks until the request settles or ctx is done.
func (w *Write) Wait(ctx context.Context) error {
	select {
	case <-w.done:
		return w.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OnError registers fn to be called if the request fails. If it has
// already failed, fn is called immediately.
func (w *Write) OnError(fn func(error)) {
	w.mu.Lock()
	select {
	case <-w.done:
		err := w.err
		w.mu.Unlock()
		if err != nil {
			fn(err)
		}
		return
	default:
	}
	w.listeners = append(w.listeners, fn)
	w.mu.Unlock()
}

func (w *Write) settle(id string, err error) {
	w.mu.Lock()
	w.id = id
	w.err = err
	listeners := w.listeners
	w.listeners = nil
	close(w.done)
	w.mu.Unlock()

	if err != nil {
		for _, fn := range listeners {
			fn(err)
		}
	}
}
