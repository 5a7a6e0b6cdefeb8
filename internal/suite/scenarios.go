package suite

import (
	"context"
	"encoding/json"
	"net/http"

	"todocheck/internal/backend/todoapi"
	"todocheck/internal/schema"
	"todocheck/internal/service"
)

// UpdatedContent is the content update_task writes over the generated one.
const UpdatedContent = "Test content for testing ENDPOINT API"

// Default returns the contract scenarios in run order.
func Default() []Scenario {
	return []Scenario{
		{Name: "call_endpoint", Description: "GET / answers 200 with a message", Run: CallEndpoint},
		{Name: "create_task", Description: "a created task can be fetched back", Run: CreateTask},
		{Name: "update_task", Description: "an update is visible on the next get", Run: UpdateTask},
		{Name: "list_tasks", Description: "listing a user returns exactly the tasks created for it", Run: ListTasks},
		{Name: "delete_task", Description: "a deleted task is no longer found", Run: DeleteTask},
		{Name: "get_missing_task", Description: "an unknown task id is not found", Run: GetMissingTask},
	}
}

// CallEndpoint checks the service root.
func CallEndpoint(ctx context.Context, e *Env) error {
	resp, err := e.send(ctx, "call endpoint", todoapi.RootRequest())
	if err != nil {
		return err
	}
	if err := expectStatus("call endpoint", resp, http.StatusOK); err != nil {
		return err
	}
	return e.expectSchema("call endpoint", schema.CallEndpoint, resp.Body)
}

// CreateTask creates a task and reads it back.
func CreateTask(ctx context.Context, e *Env) error {
	p := service.NewTestPayload()
	taskID, err := e.create(ctx, p)
	if err != nil {
		return err
	}

	task, err := e.get(ctx, taskID)
	if err != nil {
		return err
	}
	if err := expectEqual("get", "content", p.Content, task.Content); err != nil {
		return err
	}
	return expectEqual("get", "user_id", p.UserID, task.UserID)
}

// UpdateTask changes content and is_done and checks the next get reflects both.
func UpdateTask(ctx context.Context, e *Env) error {
	p := service.NewTestPayload()
	taskID, err := e.create(ctx, p)
	if err != nil {
		return err
	}

	update := service.TaskPayload{
		UserID:  p.UserID,
		TaskID:  taskID,
		Content: UpdatedContent,
		IsDone:  true,
	}
	resp, err := e.send(ctx, "update", todoapi.UpdateTaskRequest(update))
	if err != nil {
		return err
	}
	if err := expectStatus("update", resp, http.StatusOK); err != nil {
		return err
	}
	if err := e.expectSchema("update", schema.UpdateTask, resp.Body); err != nil {
		return err
	}

	task, err := e.get(ctx, taskID)
	if err != nil {
		return err
	}
	if err := expectEqual("get", "content", update.Content, task.Content); err != nil {
		return err
	}
	return expectEqual("get", "is_done", update.IsDone, task.IsDone)
}

// ListTasks creates ListCount tasks for one user and expects exactly that many back.
func ListTasks(ctx context.Context, e *Env) error {
	p := service.NewTestPayload()
	for i := 0; i < e.ListCount; i++ {
		if _, err := e.create(ctx, p); err != nil {
			return err
		}
	}

	resp, err := e.send(ctx, "list", todoapi.ListTasksRequest(p.UserID))
	if err != nil {
		return err
	}
	if err := expectStatus("list", resp, http.StatusOK); err != nil {
		return err
	}
	var body struct {
		Tasks json.RawMessage `json:"tasks"`
	}
	if err := decode("list", resp.Body, &body); err != nil {
		return err
	}
	var tasks []service.Task
	if err := decode("list", body.Tasks, &tasks); err != nil {
		return err
	}
	if err := expectEqual("list", "task count", e.ListCount, len(tasks)); err != nil {
		return err
	}
	return e.expectSchema("list", schema.GetTasksList, body.Tasks)
}

// DeleteTask deletes a task and expects the next get to be a 404.
func DeleteTask(ctx context.Context, e *Env) error {
	taskID, err := e.create(ctx, service.NewTestPayload())
	if err != nil {
		return err
	}

	resp, err := e.send(ctx, "delete", todoapi.DeleteTaskRequest(taskID))
	if err != nil {
		return err
	}
	if err := expectStatus("delete", resp, http.StatusOK); err != nil {
		return err
	}
	if err := e.expectSchema("delete", schema.DeleteTask, resp.Body); err != nil {
		return err
	}

	resp, err = e.send(ctx, "get after delete", todoapi.GetTaskRequest(taskID))
	if err != nil {
		return err
	}
	return expectStatus("get after delete", resp, http.StatusNotFound)
}

// GetMissingTask expects a 404 for an id nobody created.
func GetMissingTask(ctx context.Context, e *Env) error {
	resp, err := e.send(ctx, "get missing", todoapi.GetTaskRequest("task_"+service.NewHexID()))
	if err != nil {
		return err
	}
	return expectStatus("get missing", resp, http.StatusNotFound)
}

// create sends p, checks the response, and returns the new task ID.
func (e *Env) create(ctx context.Context, p service.TaskPayload) (string, error) {
	resp, err := e.send(ctx, "create", todoapi.CreateTaskRequest(p))
	if err != nil {
		return "", err
	}
	if err := expectStatus("create", resp, http.StatusOK); err != nil {
		return "", err
	}
	if err := e.expectSchema("create", schema.CreateTask, resp.Body); err != nil {
		return "", err
	}
	var body struct {
		Task struct {
			TaskID string `json:"task_id"`
		} `json:"task"`
	}
	if err := decode("create", resp.Body, &body); err != nil {
		return "", err
	}
	if body.Task.TaskID == "" {
		return "", fail("create", "response has no task.task_id")
	}
	return body.Task.TaskID, nil
}

// get fetches a task, expecting 200 and a get_task shaped body.
func (e *Env) get(ctx context.Context, taskID string) (service.Task, error) {
	resp, err := e.send(ctx, "get", todoapi.GetTaskRequest(taskID))
	if err != nil {
		return service.Task{}, err
	}
	if err := expectStatus("get", resp, http.StatusOK); err != nil {
		return service.Task{}, err
	}
	if err := e.expectSchema("get", schema.GetTask, resp.Body); err != nil {
		return service.Task{}, err
	}
	var task service.Task
	if err := decode("get", resp.Body, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

func (e *Env) send(ctx context.Context, step string, req todoapi.Request) (*todoapi.Response, error) {
	resp, err := e.Client.Send(ctx, req)
	if err != nil {
		return nil, &Failure{Step: step, Err: err}
	}
	return resp, nil
}
