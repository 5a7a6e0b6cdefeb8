package service

// Task represents a single todo item as the service returns it.
type Task struct {
	TaskID      string `json:"task_id"`
	UserID      string `json:"user_id"`
	Content     string `json:"content"`
	IsDone      bool   `json:"is_done"`
	CreatedTime int64  `json:"created_time,omitempty"`
	TTL         int64  `json:"ttl,omitempty"`
}

// TaskPayload is the request body for create and update.
// TaskID is only set for updates.
type TaskPayload struct {
	TaskID  string `json:"task_id,omitempty"`
	UserID  string `json:"user_id"`
	Content string `json:"content"`
	IsDone  bool   `json:"is_done"`
}

// Payload returns the update payload for t.
func (t Task) Payload() TaskPayload {
	return TaskPayload{
		TaskID:  t.TaskID,
		UserID:  t.UserID,
		Content: t.Content,
		IsDone:  t.IsDone,
	}
}
