// Package api is a client for the momentum task REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mtlprog/momentum/internal/domain"
)

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 4096

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Unwrap lets errors.Is match domain.ErrRemote, and domain.ErrNotFound for 404s.
func (e *StatusError) Unwrap() []error {
	if e.StatusCode == http.StatusNotFound {
		return []error{domain.ErrRemote, domain.ErrNotFound}
	}
	return []error{domain.ErrRemote}
}

// Client talks to the remote API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a Client. A zero timeout means no client-side timeout.
func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Departments lists all departments.
func (c *Client) Departments(ctx context.Context) ([]domain.Department, error) {
	var out []domain.Department
	if err := c.getJSON(ctx, "/departments", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Employees lists all employees.
func (c *Client) Employees(ctx context.Context) ([]domain.Employee, error) {
	var out []domain.Employee
	if err := c.getJSON(ctx, "/employees", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Statuses lists the task statuses.
func (c *Client) Statuses(ctx context.Context) ([]domain.Status, error) {
	var out []domain.Status
	if err := c.getJSON(ctx, "/statuses", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Priorities lists the task priorities.
func (c *Client) Priorities(ctx context.Context) ([]domain.Priority, error) {
	var out []domain.Priority
	if err := c.getJSON(ctx, "/priorities", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Tasks lists all tasks in creation order.
func (c *Client) Tasks(ctx context.Context) ([]domain.Task, error) {
	var out []domain.Task
	if err := c.getJSON(ctx, "/tasks", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Task fetches one task.
func (c *Client) Task(ctx context.Context, id int) (*domain.Task, error) {
	var out domain.Task
	if err := c.getJSON(ctx, "/tasks/"+strconv.Itoa(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TaskComments lists the comments of a task with their replies.
func (c *Client) TaskComments(ctx context.Context, taskID int) ([]domain.Comment, error) {
	var out []commentResponse
	if err := c.getJSON(ctx, "/tasks/"+strconv.Itoa(taskID)+"/comments", &out); err != nil {
		return nil, err
	}

	comments := make([]domain.Comment, 0, len(out))
	for _, cr := range out {
		comments = append(comments, cr.toDomain())
	}
	return comments, nil
}

// CreateTask creates a task.
func (c *Client) CreateTask(ctx context.Context, task domain.NewTask) (*domain.Task, error) {
	var out domain.Task
	if err := c.sendJSON(ctx, http.MethodPost, "/tasks", task, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTaskStatus moves a task to another status.
func (c *Client) UpdateTaskStatus(ctx context.Context, taskID, statusID int) (*domain.Task, error) {
	body := struct {
		StatusID int `json:"status_id"`
	}{StatusID: statusID}

	var out domain.Task
	if err := c.sendJSON(ctx, http.MethodPut, "/tasks/"+strconv.Itoa(taskID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateComment adds a comment, or a reply when parentID is set.
func (c *Client) CreateComment(ctx context.Context, taskID int, text string, parentID *int) (*domain.Comment, error) {
	body := struct {
		Text     string `json:"text"`
		ParentID *int   `json:"parent_id,omitempty"`
	}{Text: text, ParentID: parentID}

	var out commentResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/tasks/"+strconv.Itoa(taskID)+"/comments", body, &out); err != nil {
		return nil, err
	}
	comment := out.toDomain()
	return &comment, nil
}

// CreateEmployee uploads a new employee as multipart form data.
func (c *Client) CreateEmployee(ctx context.Context, e domain.NewEmployee) (*domain.Employee, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"name", e.Name},
		{"surname", e.Surname},
		{"department_id", strconv.Itoa(e.DepartmentID)},
	}
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return nil, fmt.Errorf("write field %s: %w", f.name, err)
		}
	}

	if e.Avatar != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="avatar"; filename=%q`, e.Avatar.Name))
		h.Set("Content-Type", e.Avatar.ContentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("create avatar part: %w", err)
		}
		if _, err := part.Write(e.Avatar.Data); err != nil {
			return nil, fmt.Errorf("write avatar: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	var out domain.Employee
	if err := c.do(ctx, http.MethodPost, "/employees", &buf, mw.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s %s body: %w", method, path, err)
	}
	return c.do(ctx, method, path, bytes.NewReader(body), "application/json", out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", domain.ErrRemote, method, path, err)
	}
	defer resp.Body.Close()

	slog.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: decode %s %s response: %w", domain.ErrRemote, method, path, err)
	}
	return nil
}
