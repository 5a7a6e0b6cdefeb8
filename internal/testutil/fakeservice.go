// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"todocheck/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
// Unlike the twin it never goes over HTTP, so command tests can inject errors
// per operation.
type FakeService struct {
	mu    sync.RWMutex
	seq   int
	order []string
	tasks map[string]service.Task

	// Error injection for testing
	PingErr       error
	CreateTaskErr error
	GetTaskErr    error
	UpdateTaskErr error
	ListTasksErr  error
	DeleteTaskErr error

	// Calls records the operations invoked, in order.
	Calls []string
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{tasks: make(map[string]service.Task)}
}

// AddTask stores a task directly and returns its generated ID.
func (f *FakeService) AddTask(userID, content string, done bool) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.add(service.TaskPayload{UserID: userID, Content: content, IsDone: done}).TaskID
}

func (f *FakeService) add(p service.TaskPayload) service.Task {
	f.seq++
	t := service.Task{
		TaskID:      fmt.Sprintf("task_%d", f.seq),
		UserID:      p.UserID,
		Content:     p.Content,
		IsDone:      p.IsDone,
		CreatedTime: int64(1700000000 + f.seq),
	}
	f.tasks[t.TaskID] = t
	f.order = append(f.order, t.TaskID)
	return t
}

// Task returns the stored task, bypassing error injection.
func (f *FakeService) Task(id string) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	t, ok := f.tasks[id]
	return t, ok
}

func (f *FakeService) record(op string) {
	f.Calls = append(f.Calls, op)
}

// Ping implements service.Service.
func (f *FakeService) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ping")
	return f.PingErr
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, p service.TaskPayload) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create")
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	return f.add(p), nil
}

// GetTask implements service.Service.
func (f *FakeService) GetTask(ctx context.Context, taskID string) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("get")
	if f.GetTaskErr != nil {
		return service.Task{}, f.GetTaskErr
	}
	t, ok := f.tasks[taskID]
	if !ok {
		return service.Task{}, fmt.Errorf("task %s: %w", taskID, service.ErrNotFound)
	}
	return t, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, p service.TaskPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("update")
	if f.UpdateTaskErr != nil {
		return f.UpdateTaskErr
	}
	if p.TaskID == "" {
		return errors.New("update task: task_id is required")
	}
	t, ok := f.tasks[p.TaskID]
	if !ok {
		return fmt.Errorf("task %s: %w", p.TaskID, service.ErrNotFound)
	}
	t.Content = p.Content
	t.IsDone = p.IsDone
	f.tasks[p.TaskID] = t
	return nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, userID string) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("list")
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	result := []service.Task{}
	for _, id := range f.order {
		if t, ok := f.tasks[id]; ok && t.UserID == userID {
			result = append(result, t)
		}
	}
	return result, nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	delete(f.tasks, taskID)
	return nil
}

// Ensure FakeService implements service.Service.
var _ service.Service = (*FakeService)(nil)
