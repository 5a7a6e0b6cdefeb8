package twin

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"todocheck/internal/service"
)

// RootMessage is the greeting served at GET /.
const RootMessage = "Hello World from Todo API"

// maxBody bounds request bodies the twin will read.
const maxBody = 1 << 20

// Root handles GET /
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]any{"message": RootMessage})
}

// CreateTask handles PUT /create-task
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	p, ok := decodePayload(w, r)
	if !ok {
		return
	}
	task := h.store.Create(p)
	JSON(w, http.StatusOK, map[string]any{"task": task})
}

// GetTask handles GET /get-task/{task_id}
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "task_id")
	task, ok := h.store.Get(id)
	if !ok {
		notFound(w, id)
		return
	}
	JSON(w, http.StatusOK, task)
}

// UpdateTask handles PUT /update-task
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	p, ok := decodePayload(w, r)
	if !ok {
		return
	}
	if p.TaskID == "" {
		detail(w, http.StatusUnprocessableEntity, "field required: task_id")
		return
	}
	if !h.store.Update(p) {
		notFound(w, p.TaskID)
		return
	}
	JSON(w, http.StatusOK, map[string]any{"updated_task_id": p.TaskID})
}

// ListTasks handles GET /list-tasks/{user_id}
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID := urlParam(r, "user_id")
	JSON(w, http.StatusOK, map[string]any{"tasks": h.store.ListByUser(userID)})
}

// DeleteTask handles DELETE /delete-task/{task_id}
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "task_id")
	h.store.Delete(id)
	JSON(w, http.StatusOK, map[string]any{"deleted_task_id": id})
}

// AdminReset handles POST /admin/reset
func (h *Handler) AdminReset(w http.ResponseWriter, r *http.Request) {
	h.store.Reset()
	JSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// AdminState handles GET /admin/state
func (h *Handler) AdminState(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.store.Snapshot())
}

// AdminLoadState handles POST /admin/state
func (h *Handler) AdminLoadState(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		detail(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.LoadState(data); err != nil {
		detail(w, http.StatusBadRequest, "invalid state: "+err.Error())
		return
	}
	JSON(w, http.StatusOK, map[string]any{"status": "ok", "tasks": h.store.Len()})
}

// decodePayload reads a TaskPayload, writing a 422 and returning false on bad input.
func decodePayload(w http.ResponseWriter, r *http.Request) (service.TaskPayload, bool) {
	var raw struct {
		TaskID  string  `json:"task_id"`
		UserID  *string `json:"user_id"`
		Content *string `json:"content"`
		IsDone  bool    `json:"is_done"`
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(&raw); err != nil {
		detail(w, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return service.TaskPayload{}, false
	}
	if raw.Content == nil {
		detail(w, http.StatusUnprocessableEntity, "field required: content")
		return service.TaskPayload{}, false
	}
	p := service.TaskPayload{TaskID: raw.TaskID, Content: *raw.Content, IsDone: raw.IsDone}
	if raw.UserID != nil {
		p.UserID = *raw.UserID
	}
	return p, true
}

// urlParam returns a decoded path parameter. chi matches on the raw path when
// the request carries escaped slashes, so the value may still be escaped.
func urlParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

func notFound(w http.ResponseWriter, id string) {
	detail(w, http.StatusNotFound, fmt.Sprintf("Task %s not found", id))
}

func detail(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]any{"detail": msg})
}

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
