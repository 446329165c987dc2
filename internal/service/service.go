// Package service defines the backend-agnostic task model and interfaces.
package service

import (
	"context"

	"techlead/internal/events"
)

// Store defines the interface for task document operations.
// All document database calls go through this interface.
// Commands never import a database SDK directly.
//
// Every CreateTask and UpdateTask sets the last-updated field to the
// store's own clock.
type Store interface {
	// ListTasks returns the user's tasks, most recently updated first.
	ListTasks(ctx context.Context, userID string) ([]Task, error)

	// CreateTask persists a new task and returns its store-assigned ID.
	CreateTask(ctx context.Context, userID string, task NewTask) (string, error)

	// UpdateTask applies a partial update to an existing task.
	UpdateTask(ctx context.Context, userID, taskID string, patch TaskPatch) error

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, userID, taskID string) error
}

// Assistant defines the generative AI operations. Each call either returns
// a schema-conforming record or fails.
type Assistant interface {
	// CreateTask extracts a task record from a natural-language description.
	CreateTask(ctx context.Context, in CreateTaskInput) (CreateTaskOutput, error)

	// UpdateTaskStatus normalises a requested status change.
	UpdateTaskStatus(ctx context.Context, in StatusUpdateInput) (StatusUpdateOutput, error)

	// AnalyzeTasks answers a free-form request about the task list, as
	// markdown or a fenced mermaid mind map.
	AnalyzeTasks(ctx context.Context, in AnalysisInput) (AnalysisOutput, error)
}

// Session bundles what a command needs to work on behalf of the signed-in user.
type Session struct {
	UserID    string
	Store     Store
	Assistant Assistant

	// Bus carries asynchronous write failures. One per process.
	Bus *events.Bus
}
