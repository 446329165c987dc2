// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"techlead/internal/service"
)

// ErrNotFound is returned when a task does not exist.
var ErrNotFound = service.ErrNotFound

// ErrPermissionDenied mimics a store security-rules rejection.
var ErrPermissionDenied = service.ErrPermissionDenied

// FakeStore is an in-memory implementation of service.Store for testing.
// It stamps last-updated times from its own clock, like a real store.
type FakeStore struct {
	mu    sync.RWMutex
	tasks map[string][]service.Task // userID -> tasks
	now   time.Time
	seq   int

	// Error injection for testing
	ListTasksErr  error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error

	// Gate, when set, holds every write until it is closed.
	Gate chan struct{}

	// Call counters
	Lists   int
	Creates int
	Updates int
	Deletes int
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		tasks: make(map[string][]service.Task),
		now:   time.Date(2025, 10, 22, 9, 0, 0, 0, time.UTC),
	}
}

// AddTask seeds a task for a user and returns its ID.
func (f *FakeStore) AddTask(userID string, task service.NewTask) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insert(userID, task)
}

// SetListTasksErr changes the list error while watchers may be polling.
func (f *FakeStore) SetListTasksErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListTasksErr = err
}

// ListCount returns how many times ListTasks was called.
func (f *FakeStore) ListCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.Lists
}

// Task returns a stored task by ID.
func (f *FakeStore) Task(userID, taskID string) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks[userID] {
		if t.ID == taskID {
			return t, true
		}
	}
	return service.Task{}, false
}

// Len returns the number of tasks stored for a user.
func (f *FakeStore) Len(userID string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.tasks[userID])
}

// ListTasks implements service.Store.
func (f *FakeStore) ListTasks(ctx context.Context, userID string) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Lists++

	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}

	result := make([]service.Task, len(f.tasks[userID]))
	copy(result, f.tasks[userID])
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].LastUpdated.After(result[j].LastUpdated)
	})
	return result, nil
}

// CreateTask implements service.Store.
func (f *FakeStore) CreateTask(ctx context.Context, userID string, task service.NewTask) (string, error) {
	if err := f.wait(ctx); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Creates++

	if f.CreateTaskErr != nil {
		return "", f.CreateTaskErr
	}
	return f.insert(userID, task), nil
}

// UpdateTask implements service.Store.
func (f *FakeStore) UpdateTask(ctx context.Context, userID, taskID string, patch service.TaskPatch) error {
	if err := f.wait(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Updates++

	if f.UpdateTaskErr != nil {
		return f.UpdateTaskErr
	}
	for i, t := range f.tasks[userID] {
		if t.ID == taskID {
			t = patch.Apply(t)
			t.LastUpdated = f.tick()
			f.tasks[userID][i] = t
			return nil
		}
	}
	return ErrNotFound
}

// DeleteTask implements service.Store.
func (f *FakeStore) DeleteTask(ctx context.Context, userID, taskID string) error {
	if err := f.wait(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deletes++

	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	tasks := f.tasks[userID]
	for i, t := range tasks {
		if t.ID == taskID {
			f.tasks[userID] = append(tasks[:i:i], tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (f *FakeStore) wait(ctx context.Context) error {
	if f.Gate == nil {
		return nil
	}
	select {
	case <-f.Gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// insert must be called with f.mu held.
func (f *FakeStore) insert(userID string, task service.NewTask) string {
	f.seq++
	id := fmt.Sprintf("task-%d", f.seq)
	f.tasks[userID] = append(f.tasks[userID], service.Task{
		ID:          id,
		Project:     task.Project,
		Description: task.Description,
		Assignee:    task.Assignee,
		Status:      task.Status,
		Deadline:    task.Deadline,
		Notes:       task.Notes,
		LastUpdated: f.tick(),
	})
	return id
}

// tick must be called with f.mu held.
func (f *FakeStore) tick() time.Time {
	f.now = f.now.Add(time.Minute)
	return f.now
}
