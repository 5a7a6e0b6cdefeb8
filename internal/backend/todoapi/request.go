package todoapi

import (
	"net/http"
	"net/url"

	"todocheck/internal/service"
)

// Request is one call against the todo API.
type Request struct {
	// Op names the operation in errors and logs.
	Op     string
	Method string
	Path   string
	// Body is JSON-encoded when non-nil.
	Body any
}

// Response is the raw outcome of a Request.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status is 200.
func (r *Response) OK() bool {
	return r.StatusCode == http.StatusOK
}

// RootRequest builds GET /.
func RootRequest() Request {
	return Request{Op: "call endpoint", Method: http.MethodGet, Path: "/"}
}

// CreateTaskRequest builds PUT /create-task.
func CreateTaskRequest(p service.TaskPayload) Request {
	return Request{Op: "create task", Method: http.MethodPut, Path: "/create-task", Body: p}
}

// GetTaskRequest builds GET /get-task/{task_id}.
func GetTaskRequest(taskID string) Request {
	return Request{Op: "get task", Method: http.MethodGet, Path: "/get-task/" + url.PathEscape(taskID)}
}

// UpdateTaskRequest builds PUT /update-task.
func UpdateTaskRequest(p service.TaskPayload) Request {
	return Request{Op: "update task", Method: http.MethodPut, Path: "/update-task", Body: p}
}

// ListTasksRequest builds GET /list-tasks/{user_id}.
func ListTasksRequest(userID string) Request {
	return Request{Op: "list tasks", Method: http.MethodGet, Path: "/list-tasks/" + url.PathEscape(userID)}
}

// DeleteTaskRequest builds DELETE /delete-task/{task_id}.
func DeleteTaskRequest(taskID string) Request {
	return Request{Op: "delete task", Method: http.MethodDelete, Path: "/delete-task/" + url.PathEscape(taskID)}
}
