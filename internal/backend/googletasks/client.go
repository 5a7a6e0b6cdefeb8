// Package googletasks implements the service.Service interface using Google Tasks API.
//
// Each user_id owns one task list whose title is the user_id. Task IDs handed
// out by this backend are "<listID>:<taskID>" so a bare ID is enough to find
// the task again.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"todocheck/internal/config"
	"todocheck/internal/service"
)

const (
	// PageSize is the number of items per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// OAuth scope for Google Tasks
	tasksScope = "https://www.googleapis.com/auth/tasks"

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// Client implements service.Service using Google Tasks API.
type Client struct {
	svc *tasks.Service

	mu    sync.Mutex
	lists map[string]string // user_id -> list ID
	users map[string]string // list ID -> user_id
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist in the config directory.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", config.OAuthClientFile, err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, tasksScope)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.OAuthClientFile, err)
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", config.TokenFile, err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.TokenFile, err)
	}

	// Refreshes the access token as needed.
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return newClient(svc), nil
}

// NewWithHTTPClient creates a client with a custom HTTP client and API endpoint (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint string) (*Client, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return newClient(svc), nil
}

func newClient(svc *tasks.Service) *Client {
	return &Client{
		svc:   svc,
		lists: make(map[string]string),
		users: make(map[string]string),
	}
}

// Ping lists at most one task list.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if _, err := c.svc.Tasklists.List().MaxResults(1).Context(ctx).Do(); err != nil {
		return wrapError("ping", err)
	}
	return nil
}

// CreateTask inserts a task into the user's list, creating the list on first use.
func (c *Client) CreateTask(ctx context.Context, p service.TaskPayload) (service.Task, error) {
	listID, err := c.listFor(ctx, p.UserID, true)
	if err != nil {
		return service.Task{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	t, err := c.svc.Tasks.Insert(listID, &tasks.Task{
		Title:  p.Content,
		Status: status(p.IsDone),
	}).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError("create task", err)
	}
	return toTask(p.UserID, listID, t), nil
}

// GetTask fetches a task by its composite ID.
func (c *Client) GetTask(ctx context.Context, taskID string) (service.Task, error) {
	listID, id, ok := SplitID(taskID)
	if !ok {
		return service.Task{}, fmt.Errorf("task %s: %w", taskID, service.ErrNotFound)
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	t, err := c.svc.Tasks.Get(listID, id).Context(ctx).Do()
	if err != nil {
		return service.Task{}, fmt.Errorf("task %s: %w", taskID, wrapError("get task", err))
	}
	if t.Deleted {
		return service.Task{}, fmt.Errorf("task %s: %w", taskID, service.ErrNotFound)
	}

	userID, err := c.userFor(ctx, listID)
	if err != nil {
		return service.Task{}, err
	}
	return toTask(userID, listID, t), nil
}

// UpdateTask patches the title and status of the task named by p.TaskID.
func (c *Client) UpdateTask(ctx context.Context, p service.TaskPayload) error {
	if p.TaskID == "" {
		return errors.New("update task: task_id is required")
	}
	listID, id, ok := SplitID(p.TaskID)
	if !ok {
		return fmt.Errorf("task %s: %w", p.TaskID, service.ErrNotFound)
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := c.svc.Tasks.Patch(listID, id, &tasks.Task{
		Title:  p.Content,
		Status: status(p.IsDone),
		// An empty title is a legal update.
		ForceSendFields: []string{"Title"},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("task %s: %w", p.TaskID, wrapError("update task", err))
	}
	return nil
}

// ListTasks returns every task, open or completed, in the user's list.
func (c *Client) ListTasks(ctx context.Context, userID string) ([]service.Task, error) {
	listID, err := c.listFor(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	result := []service.Task{}
	if listID == "" {
		return result, nil
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	err = c.svc.Tasks.List(listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				result = append(result, toTask(userID, listID, t))
			}
			return nil
		})
	if err != nil {
		return nil, wrapError("list tasks", err)
	}
	return result, nil
}

// DeleteTask deletes a task. Deleting a task that is already gone succeeds.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	listID, id, ok := SplitID(taskID)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	err := c.svc.Tasks.Delete(listID, id).Context(ctx).Do()
	if err != nil {
		if err = wrapError("delete task", err); errors.Is(err, service.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// listFor finds the list titled userID. When none exists it creates one if
// create is set, otherwise it returns "".
func (c *Client) listFor(ctx context.Context, userID string, create bool) (string, error) {
	c.mu.Lock()
	listID, ok := c.lists[userID]
	c.mu.Unlock()
	if ok {
		return listID, nil
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	err := c.svc.Tasklists.List().MaxResults(PageSize).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			if list.Title == userID {
				listID = list.Id
				break
			}
		}
		return nil
	})
	if err != nil {
		return "", wrapError("find list", err)
	}

	if listID == "" {
		if !create {
			return "", nil
		}
		list, err := c.svc.Tasklists.Insert(&tasks.TaskList{Title: userID}).Context(ctx).Do()
		if err != nil {
			return "", wrapError("create list", err)
		}
		listID = list.Id
	}

	c.remember(userID, listID)
	return listID, nil
}

// userFor returns the user_id (list title) for a list ID.
func (c *Client) userFor(ctx context.Context, listID string) (string, error) {
	c.mu.Lock()
	userID, ok := c.users[listID]
	c.mu.Unlock()
	if ok {
		return userID, nil
	}

	list, err := c.svc.Tasklists.Get(listID).Context(ctx).Do()
	if err != nil {
		return "", wrapError("get list", err)
	}
	c.remember(list.Title, listID)
	return list.Title, nil
}

func (c *Client) remember(userID, listID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists[userID] = listID
	c.users[listID] = userID
}

// JoinID builds the composite task ID.
func JoinID(listID, taskID string) string {
	return listID + ":" + taskID
}

// SplitID splits a composite task ID into list and task IDs.
func SplitID(id string) (listID, taskID string, ok bool) {
	listID, taskID, ok = strings.Cut(id, ":")
	return listID, taskID, ok && listID != "" && taskID != ""
}

func toTask(userID, listID string, t *tasks.Task) service.Task {
	task := service.Task{
		TaskID:  JoinID(listID, t.Id),
		UserID:  userID,
		Content: t.Title,
		IsDone:  t.Status == statusCompleted,
	}
	// Google Tasks has no creation time; the last update is the closest.
	if ts, err := time.Parse(time.RFC3339, t.Updated); err == nil {
		task.CreatedTime = ts.Unix()
	}
	return task
}

func status(done bool) string {
	if done {
		return statusCompleted
	}
	return statusNeedsAction
}

// wrapError maps API errors onto the service error types.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: request timed out: %w", op, err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound:
			return service.ErrNotFound
		case http.StatusUnauthorized, http.StatusForbidden:
			return &service.StatusError{Op: op, StatusCode: apiErr.Code, Body: "token expired or revoked"}
		default:
			return &service.StatusError{Op: op, StatusCode: apiErr.Code, Body: apiErr.Message}
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}
