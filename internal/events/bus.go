// Package events carries asynchronous store failures to whoever is
// displaying them.
package events

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// KindPermissionError is the only event kind published on the bus.
const KindPermissionError = "permission-error"

// Operation is the kind of store request that failed.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
	OpList   Operation = "list"
)

// PermissionError describes a store request that was rejected after the
// code that issued it had already returned.
type PermissionError struct {
	Operation Operation
	Path      string

	// RequestData is the attempted write payload, nil for delete and list.
	RequestData map[string]string

	// Err is the underlying store error.
	Err error
}

func (e *PermissionError) Error() string {
	ctx := struct {
		Method string            `json:"method"`
		Path   string            `json:"path"`
		Data   map[string]string `json:"request.resource.data,omitempty"`
	}{string(e.Operation), e.Path, e.RequestData}
	// Map keys are encoded in sorted order.
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	enc.Encode(ctx)
	return fmt.Sprintf("Missing or insufficient permissions: the following request was denied: %s", strings.TrimSuffix(b.String(), "\n"))
}

func (e *PermissionError) Unwrap() error {
	return e.Err
}

// Fields returns the payload field names in sorted order.
func (e *PermissionError) Fields() []string {
	names := make([]string, 0, len(e.RequestData))
	for k := range e.RequestData {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Handler receives published errors. Handlers run on the publisher's
// goroutine and must not block.
type Handler func(*PermissionError)

// Bus is a publish/subscribe channel for permission errors.
// The zero value is not usable; create one with NewBus.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]Handler)}
}

// Subscribe registers h and returns a function that removes it.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = h

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
		})
	}
}

// Publish delivers e to every current subscriber in subscription order.
func (b *Bus) Publish(e *PermissionError) {
	b.mu.RLock()
	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	handlers := make([]Handler, 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		handlers = append(handlers, b.subs[id])
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}

// Subscribers returns the number of registered handlers.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
