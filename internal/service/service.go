// Package service defines the backend-agnostic interface for todo operations.
package service

import "context"

// Service defines the interface for todo backend operations.
// Commands never talk HTTP or a vendor SDK directly; they go through this interface.
type Service interface {
	// Ping checks that the backend answers at all.
	Ping(ctx context.Context) error

	// CreateTask creates a task and returns it with its server-assigned ID.
	CreateTask(ctx context.Context, p TaskPayload) (Task, error)

	// GetTask fetches a task by ID.
	// Returns ErrNotFound if the task does not exist or was deleted.
	GetTask(ctx context.Context, taskID string) (Task, error)

	// UpdateTask overwrites content and is_done of the task named by p.TaskID.
	UpdateTask(ctx context.Context, p TaskPayload) error

	// ListTasks returns every task owned by userID in backend order.
	// An unknown user has no tasks; that is not an error.
	ListTasks(ctx context.Context, userID string) ([]Task, error)

	// DeleteTask deletes a task by ID.
	DeleteTask(ctx context.Context, taskID string) error
}
