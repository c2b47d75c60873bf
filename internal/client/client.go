// Package client provides a typed REST client for the Tasklane API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tasklane/tasklane/internal/handler/dto"
)

const clientTimeout = 30 * time.Second

// APIError is a non-2xx response decoded from the API error body.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error (%d)", e.StatusCode)
}

// Client calls the Tasklane REST API with a bearer token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a Client for the given base URL and identity token.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: clientTimeout},
	}
}

// Health checks the API health endpoint. No authentication required.
func (c *Client) Health(ctx context.Context) error {
	var out map[string]bool
	return c.do(ctx, http.MethodGet, "/health", nil, &out)
}

// ListTodos fetches every todo the caller participates in.
func (c *Client) ListTodos(ctx context.Context) ([]dto.TodoResponse, error) {
	var todos []dto.TodoResponse
	if err := c.do(ctx, http.MethodGet, "/todos", nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// CreateTodo creates a new todo item.
func (c *Client) CreateTodo(ctx context.Context, req dto.CreateTodoRequest) (*dto.TodoResponse, error) {
	var todo dto.TodoResponse
	if err := c.do(ctx, http.MethodPost, "/todos", req, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// UpdateTodo applies a partial update to a todo item.
func (c *Client) UpdateTodo(ctx context.Context, id string, req dto.UpdateTodoRequest) (*dto.TodoResponse, error) {
	var todo dto.TodoResponse
	if err := c.do(ctx, http.MethodPut, "/todos/"+id, req, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// DeleteTodo permanently removes a todo item.
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/todos/"+id, nil, nil)
}

// ListUsers fetches every user profile for the assignment picker.
func (c *Client) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	var users []dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// do executes one request and decodes the response into out (if non-nil).
// Non-2xx responses become an *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// decodeAPIError reads an error body into an APIError.
// Bodies that are not valid JSON still produce a status-only error.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && len(data) > 0 {
		var body dto.ErrorResponse
		if json.Unmarshal(data, &body) == nil {
			apiErr.Message = body.Error
			apiErr.Code = body.Code
		}
	}

	return apiErr
}
