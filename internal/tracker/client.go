package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zulandar/sprintdeck/internal/config"
)

const defaultBaseURL = "https://api.clickup.com/api/v2"

// ErrUpstream marks a non-success response from the tracker. The caller
// sees a generic failure; the wrapped detail stays in logs.
var ErrUpstream = errors.New("tracker: upstream failure")

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("tracker: api key not configured")

// Client is the ClickUp REST client. All calls take a context and are
// bounded by the configured timeout; there is no retry policy.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	cache   *taskCache
}

// New creates a Client from configuration.
func New(cfg config.ClickUpConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: time.Duration(cfg.TimeoutSec) * time.Second},
		cache:   newTaskCache(time.Duration(cfg.CacheTTLSec) * time.Second),
	}
}

// NewWithBaseURL creates a Client pointed at an alternate endpoint, for tests.
func NewWithBaseURL(cfg config.ClickUpConfig, baseURL string) *Client {
	c := New(cfg)
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

// GetTasks returns the non-archived tasks in a list, served from the
// short-lived cache when fresh. The full list is always fetched; visibility
// scoping happens post-fetch in FilterByAssignee.
func (c *Client) GetTasks(ctx context.Context, listID string) ([]Task, error) {
	if tasks, ok := c.cache.get(listID); ok {
		return tasks, nil
	}

	var body struct {
		Tasks []Task `json:"tasks"`
	}
	path := fmt.Sprintf("/list/%s/task?archived=false", listID)
	if err := c.do(ctx, http.MethodGet, path, nil, &body); err != nil {
		return nil, err
	}
	c.cache.put(listID, body.Tasks)
	return body.Tasks, nil
}

// GetTask fetches a single task by id.
func (c *Client) GetTask(ctx context.Context, taskID string) (Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodGet, "/task/"+taskID, nil, &task); err != nil {
		return Task{}, err
	}
	return task, nil
}

// UpdateTask applies the given fields to a task and invalidates every
// cached list, since membership of the changed task is unknown.
func (c *Client) UpdateTask(ctx context.Context, taskID string, update TaskUpdate) (Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodPut, "/task/"+taskID, update, &task); err != nil {
		return Task{}, err
	}
	c.cache.invalidateAll()
	return task, nil
}

// GetList fetches list metadata, including its parent folder.
func (c *Client) GetList(ctx context.Context, listID string) (List, error) {
	var list List
	if err := c.do(ctx, http.MethodGet, "/list/"+listID, nil, &list); err != nil {
		return List{}, err
	}
	return list, nil
}

// GetFolder fetches folder metadata.
func (c *Client) GetFolder(ctx context.Context, folderID string) (Folder, error) {
	var folder Folder
	if err := c.do(ctx, http.MethodGet, "/folder/"+folderID, nil, &folder); err != nil {
		return Folder{}, err
	}
	return folder, nil
}

// CreateList creates a new list under a folder, used when a sprint starts.
func (c *Client) CreateList(ctx context.Context, folderID, name string) (List, error) {
	var list List
	payload := map[string]string{"name": name}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/folder/%s/list", folderID), payload, &list); err != nil {
		return List{}, err
	}
	return list, nil
}

// InvalidateCache drops all cached task lists. Exposed for callers that
// mutate tracker state out of band.
func (c *Client) InvalidateCache() { c.cache.invalidateAll() }

// do runs one request against the tracker. Non-2xx responses become
// ErrUpstream with the status and a trimmed body excerpt.
func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	if c.apiKey == "" {
		return ErrNotConfigured
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("tracker: marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("tracker: build request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("tracker: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("tracker: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt := strings.TrimSpace(string(respBody))
		if len(excerpt) > 200 {
			excerpt = excerpt[:200]
		}
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrUpstream, method, path, resp.StatusCode, excerpt)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("tracker: decode response: %w", err)
		}
	}
	return nil
}

// FilterByAssignee keeps tasks assigned to the given email. Matching is
// case-insensitive. This is post-fetch scoping: the full list has already
// transited the service.
func FilterByAssignee(tasks []Task, email string) []Task {
	needle := strings.ToLower(email)
	filtered := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		for _, a := range t.Assignees {
			if strings.ToLower(a.Email) == needle {
				filtered = append(filtered, t)
				break
			}
		}
	}
	return filtered
}
