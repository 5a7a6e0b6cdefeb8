package twin

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"todocheck/internal/service"
)

// TaskTTL is how long the twin advertises a task lives, matching the real service.
const TaskTTL = 24 * time.Hour

// Store holds twin state in memory.
type Store struct {
	mu    sync.RWMutex
	tasks map[string]service.Task
	seq   map[string]int64 // task ID -> insertion order
	next  int64
	now   func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		tasks: make(map[string]service.Task),
		seq:   make(map[string]int64),
		now:   time.Now,
	}
}

// Create stores a new task built from p and returns it.
func (s *Store) Create(p service.TaskPayload) service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	task := service.Task{
		TaskID:      "task_" + service.NewHexID(),
		UserID:      p.UserID,
		Content:     p.Content,
		IsDone:      p.IsDone,
		CreatedTime: now.Unix(),
		TTL:         now.Add(TaskTTL).Unix(),
	}
	s.tasks[task.TaskID] = task
	s.seq[task.TaskID] = s.next
	s.next++
	return task
}

// Get returns the task with the given ID.
func (s *Store) Get(id string) (service.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	return t, ok
}

// Update overwrites content and is_done. Returns false if the task is unknown.
func (s *Store) Update(p service.TaskPayload) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[p.TaskID]
	if !ok {
		return false
	}
	t.Content = p.Content
	t.IsDone = p.IsDone
	if p.UserID != "" {
		t.UserID = p.UserID
	}
	s.tasks[p.TaskID] = t
	return true
}

// Delete removes a task. Deleting an unknown ID is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, id)
	delete(s.seq, id)
}

// ListByUser returns the user's tasks in creation order.
func (s *Store) ListByUser(userID string) []service.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []service.Task{}
	for _, t := range s.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return s.seq[out[i].TaskID] < s.seq[out[j].TaskID]
	})
	return out
}

// Len returns the number of stored tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Reset clears all state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = make(map[string]service.Task)
	s.seq = make(map[string]int64)
	s.next = 0
}

// stateSnapshot is the JSON-serializable state for admin endpoints.
type stateSnapshot struct {
	Tasks []service.Task `json:"tasks"`
}

// Snapshot returns all tasks in creation order.
func (s *Store) Snapshot() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]service.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return s.seq[tasks[i].TaskID] < s.seq[tasks[j].TaskID]
	})
	return stateSnapshot{Tasks: tasks}
}

// LoadState replaces the full state from a JSON snapshot.
func (s *Store) LoadState(data []byte) error {
	var snap stateSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = make(map[string]service.Task, len(snap.Tasks))
	s.seq = make(map[string]int64, len(snap.Tasks))
	s.next = 0
	for _, t := range snap.Tasks {
		s.tasks[t.TaskID] = t
		s.seq[t.TaskID] = s.next
		s.next++
	}
	return nil
}
