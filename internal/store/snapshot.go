package store

import (
	"sync"

	"techlead/internal/service"
)

// Snapshot is the shared in-memory task list. It is replaced wholesale on
// every update and never edited in place.
type Snapshot struct {
	mu      sync.RWMutex
	tasks   []service.Task
	version int
}

// Replace installs a new list.
func (s *Snapshot) Replace(tasks []service.Task) {
	cp := make([]service.Task, len(tasks))
	copy(cp, tasks)

	s.mu.Lock()
	s.tasks = cp
	s.version++
	s.mu.Unlock()
}

// Tasks returns a copy of the current list.
func (s *Snapshot) Tasks() []service.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make([]service.Task, len(s.tasks))
	copy(cp, s.tasks)
	return cp
}

// Version counts replacements; 0 means nothing has been delivered yet.
func (s *Snapshot) Version() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
