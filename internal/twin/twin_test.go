package twin_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"todocheck/internal/service"
	"todocheck/internal/twin"
)

func setupTwin(t *testing.T) (*httptest.Server, *twin.Store) {
	t.Helper()
	store := twin.NewStore()
	srv := httptest.NewServer(twin.NewRouter(store, nil))
	t.Cleanup(srv.Close)
	return srv, store
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			r = strings.NewReader(s)
		} else {
			data, err := json.Marshal(body)
			if err != nil {
				t.Fatalf("failed to marshal body: %v", err)
			}
			r = bytes.NewReader(data)
		}
	}
	req, err := http.NewRequest(method, srv.URL+path, r)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var m map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp.StatusCode, m
}

func TestRoot(t *testing.T) {
	srv, _ := setupTwin(t)

	code, body := do(t, srv, "GET", "/", nil)
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["message"] != twin.RootMessage {
		t.Errorf("expected %q, got %v", twin.RootMessage, body["message"])
	}
}

func TestCreateAndGet(t *testing.T) {
	srv, _ := setupTwin(t)

	code, body := do(t, srv, "PUT", "/create-task", map[string]any{
		"user_id": "test_user_abc", "content": "test_content_123", "is_done": false,
	})
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	task, ok := body["task"].(map[string]any)
	if !ok {
		t.Fatalf("expected task object, got %v", body)
	}
	id, _ := task["task_id"].(string)
	if !strings.HasPrefix(id, "task_") {
		t.Fatalf("expected task_ prefixed id, got %q", id)
	}
	if task["created_time"] == nil || task["ttl"] == nil {
		t.Errorf("expected created_time and ttl, got %v", task)
	}

	code, got := do(t, srv, "GET", "/get-task/"+id, nil)
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	if got["content"] != "test_content_123" || got["user_id"] != "test_user_abc" {
		t.Errorf("unexpected task %v", got)
	}
}

func TestGetMissing(t *testing.T) {
	srv, _ := setupTwin(t)

	code, body := do(t, srv, "GET", "/get-task/task_nope", nil)
	if code != 404 {
		t.Fatalf("expected 404, got %d", code)
	}
	if body["detail"] != "Task task_nope not found" {
		t.Errorf("unexpected detail %v", body["detail"])
	}
}

func TestUpdate(t *testing.T) {
	srv, store := setupTwin(t)
	task := store.Create(service.TaskPayload{UserID: "u", Content: "old"})

	code, body := do(t, srv, "PUT", "/update-task", map[string]any{
		"user_id": "u", "task_id": task.TaskID, "content": "new", "is_done": true,
	})
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["updated_task_id"] != task.TaskID {
		t.Errorf("expected updated_task_id %q, got %v", task.TaskID, body["updated_task_id"])
	}

	got, _ := store.Get(task.TaskID)
	if got.Content != "new" || !got.IsDone {
		t.Errorf("update not applied: %+v", got)
	}

	code, _ = do(t, srv, "PUT", "/update-task", map[string]any{"task_id": "task_missing", "content": "x"})
	if code != 404 {
		t.Errorf("expected 404 for unknown task, got %d", code)
	}
}

func TestCreate_BadBody(t *testing.T) {
	srv, _ := setupTwin(t)

	tests := []struct {
		name string
		body string
	}{
		{"not json", "{oops"},
		{"missing content", `{"user_id":"u"}`},
		{"wrong type", `{"user_id":"u","content":"c","is_done":"yes"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := do(t, srv, "PUT", "/create-task", tt.body)
			if code != 422 {
				t.Errorf("expected 422, got %d", code)
			}
			if body["detail"] == nil {
				t.Errorf("expected detail, got %v", body)
			}
		})
	}
}

func TestListAndDelete(t *testing.T) {
	srv, store := setupTwin(t)
	first := store.Create(service.TaskPayload{UserID: "alice", Content: "one"})
	store.Create(service.TaskPayload{UserID: "alice", Content: "two"})
	store.Create(service.TaskPayload{UserID: "bob", Content: "three"})

	code, body := do(t, srv, "GET", "/list-tasks/alice", nil)
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	tasks, _ := body["tasks"].([]any)
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].(map[string]any)["content"] != "one" {
		t.Errorf("expected creation order, got %v", tasks)
	}

	code, body = do(t, srv, "DELETE", "/delete-task/"+first.TaskID, nil)
	if code != 200 || body["deleted_task_id"] != first.TaskID {
		t.Fatalf("unexpected delete response %d %v", code, body)
	}
	if _, ok := store.Get(first.TaskID); ok {
		t.Error("task still present after delete")
	}

	// Deleting again is idempotent.
	code, _ = do(t, srv, "DELETE", "/delete-task/"+first.TaskID, nil)
	if code != 200 {
		t.Errorf("expected 200 on repeated delete, got %d", code)
	}

	code, body = do(t, srv, "GET", "/list-tasks/nobody", nil)
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	if tasks, ok := body["tasks"].([]any); !ok || len(tasks) != 0 {
		t.Errorf("expected empty tasks array, got %v", body["tasks"])
	}
}

func TestAdminStateRoundTrip(t *testing.T) {
	srv, store := setupTwin(t)
	store.Create(service.TaskPayload{UserID: "u", Content: "keep"})

	_, state := do(t, srv, "GET", "/admin/state", nil)
	data, _ := json.Marshal(state)

	code, _ := do(t, srv, "POST", "/admin/reset", nil)
	if code != 200 || store.Len() != 0 {
		t.Fatalf("reset failed: code %d, len %d", code, store.Len())
	}

	code, _ = do(t, srv, "POST", "/admin/state", string(data))
	if code != 200 {
		t.Fatalf("expected 200 loading state, got %d", code)
	}
	if got := store.ListByUser("u"); len(got) != 1 || got[0].Content != "keep" {
		t.Errorf("state not restored: %+v", got)
	}
}
