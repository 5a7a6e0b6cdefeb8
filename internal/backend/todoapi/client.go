// Package todoapi implements service.Service over the todo HTTP API.
package todoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/oauth2"

	"todocheck/internal/logging"
	"todocheck/internal/service"
)

// DefaultTimeout is the per-call timeout when Options.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of a failed response ends up in an error message.
const maxErrorBody = 512

// Options configures a Client.
type Options struct {
	// Timeout bounds each call.
	Timeout time.Duration
	// Token, when set, is sent as a bearer token on every request.
	Token string
	// HTTPClient replaces the default client. Token is ignored when set.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client implements service.Service against a todo API base URL.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	log     *slog.Logger
}

// New creates a client for the todo API at baseURL.
func New(ctx context.Context, baseURL string, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
		if opts.Token != "" {
			ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token, TokenType: "Bearer"})
			httpClient = oauth2.NewClient(ctx, ts)
		}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		timeout: timeout,
		log:     log.With("component", "todoapi"),
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Send issues one request and returns the raw response.
// A non-2xx status is not an error here; callers decide what they expect.
func (c *Client) Send(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: encoding body: %w", req.Op, err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, body)
	if err != nil {
		return nil, fmt.Errorf("%s: building request: %w", req.Op, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, wrapError(req.Op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: reading response: %w", req.Op, err)
	}

	c.log.Debug("request",
		"op", req.Op,
		"method", req.Method,
		"path", req.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// Ping implements service.Service.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.expectOK(ctx, RootRequest())
	return err
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, p service.TaskPayload) (service.Task, error) {
	resp, err := c.expectOK(ctx, CreateTaskRequest(p))
	if err != nil {
		return service.Task{}, err
	}
	var out struct {
		Task service.Task `json:"task"`
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return service.Task{}, fmt.Errorf("create task: decoding response: %w", err)
	}
	if out.Task.TaskID == "" {
		return service.Task{}, errors.New("create task: response has no task_id")
	}
	return out.Task, nil
}

// GetTask implements service.Service.
func (c *Client) GetTask(ctx context.Context, taskID string) (service.Task, error) {
	resp, err := c.Send(ctx, GetTaskRequest(taskID))
	if err != nil {
		return service.Task{}, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return service.Task{}, fmt.Errorf("task %s: %w", taskID, service.ErrNotFound)
	}
	if !resp.OK() {
		return service.Task{}, statusError("get task", resp)
	}
	var task service.Task
	if err := json.Unmarshal(resp.Body, &task); err != nil {
		return service.Task{}, fmt.Errorf("get task: decoding response: %w", err)
	}
	return task, nil
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, p service.TaskPayload) error {
	if p.TaskID == "" {
		return errors.New("update task: task_id required")
	}
	resp, err := c.Send(ctx, UpdateTaskRequest(p))
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("task %s: %w", p.TaskID, service.ErrNotFound)
	}
	if !resp.OK() {
		return statusError("update task", resp)
	}
	return nil
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context, userID string) ([]service.Task, error) {
	resp, err := c.expectOK(ctx, ListTasksRequest(userID))
	if err != nil {
		return nil, err
	}
	var out struct {
		Tasks []service.Task `json:"tasks"`
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("list tasks: decoding response: %w", err)
	}
	return out.Tasks, nil
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	resp, err := c.Send(ctx, DeleteTaskRequest(taskID))
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("task %s: %w", taskID, service.ErrNotFound)
	}
	if !resp.OK() {
		return statusError("delete task", resp)
	}
	return nil
}

func (c *Client) expectOK(ctx context.Context, req Request) (*Response, error) {
	resp, err := c.Send(ctx, req)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, statusError(req.Op, resp)
	}
	return resp, nil
}

func statusError(op string, resp *Response) error {
	body := strings.TrimSpace(string(resp.Body))
	if len(body) > maxErrorBody {
		cut := maxErrorBody
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut] + "..."
	}
	return &service.StatusError{Op: op, StatusCode: resp.StatusCode, Body: body}
}

// wrapError turns transport failures into short messages.
func wrapError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: request timed out: %w", op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
