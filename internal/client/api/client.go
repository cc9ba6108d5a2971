// Package api is the typed HTTP client for the taskpulse server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"taskpulse/internal/domain"
)

// Error is a decoded server failure. Status is the HTTP status code; Code and
// Message come from the server's error envelope when present.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("server: %d", e.Status)
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken installs the bearer token used on authenticated calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Token() string {
	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode}
		var envelope struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(data, &envelope) == nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Mood   string `json:"mood"`
	Energy string `json:"energy"`
}

func (c *Client) Register(ctx context.Context, email, password string) (User, error) {
	var resp struct {
		User User `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/register", map[string]string{"email": email, "password": password}, &resp)
	return resp.User, err
}

// Login exchanges credentials for a session token and installs it on the
// client.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password}, &resp); err != nil {
		return "", err
	}
	c.token = resp.Token
	return resp.Token, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", map[string]string{"email": email}, nil)
}

func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	return c.do(ctx, http.MethodPost, "/auth/reset-password", map[string]string{"token": token, "password": password}, nil)
}

func (c *Client) Me(ctx context.Context) (User, error) {
	var resp struct {
		User User `json:"user"`
	}
	err := c.do(ctx, http.MethodGet, "/users/me", nil, &resp)
	return resp.User, err
}

func (c *Client) Mood(ctx context.Context) (mood, energy string, err error) {
	var resp struct {
		Mood   string `json:"mood"`
		Energy string `json:"energy"`
	}
	err = c.do(ctx, http.MethodGet, "/mood", nil, &resp)
	return resp.Mood, resp.Energy, err
}

func (c *Client) SetMood(ctx context.Context, mood, energy string) error {
	body := map[string]string{}
	if mood != "" {
		body["mood"] = mood
	}
	if energy != "" {
		body["energy"] = energy
	}
	return c.do(ctx, http.MethodPost, "/mood", body, nil)
}

type taskPayload struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Duration  int       `json:"duration"`
	Energy    string    `json:"energy"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func (p taskPayload) toDomain() domain.Task {
	return domain.Task{
		ID:        p.ID,
		Title:     p.Title,
		Duration:  p.Duration,
		Energy:    domain.Energy(p.Energy),
		Status:    domain.TaskStatus(p.Status),
		CreatedAt: p.CreatedAt,
	}
}

func (c *Client) ListTasks(ctx context.Context) ([]domain.Task, error) {
	var resp struct {
		Tasks []taskPayload `json:"tasks"`
	}
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &resp); err != nil {
		return nil, err
	}
	tasks := make([]domain.Task, 0, len(resp.Tasks))
	for _, p := range resp.Tasks {
		tasks = append(tasks, p.toDomain())
	}
	return tasks, nil
}

type CreateTaskRequest struct {
	Title           string   `json:"title"`
	Duration        *float64 `json:"duration,omitempty"`
	DurationMinutes *float64 `json:"durationMinutes,omitempty"`
	DurationHours   *float64 `json:"durationHours,omitempty"`
	Energy          string   `json:"energy,omitempty"`
}

func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (domain.Task, error) {
	var resp struct {
		Task taskPayload `json:"task"`
	}
	if err := c.do(ctx, http.MethodPost, "/tasks", req, &resp); err != nil {
		return domain.Task{}, err
	}
	return resp.Task.toDomain(), nil
}

func (c *Client) UpdateTaskStatus(ctx context.Context, id int64, status domain.TaskStatus) (domain.Task, error) {
	var resp struct {
		Task taskPayload `json:"task"`
	}
	path := fmt.Sprintf("/tasks/%d", id)
	if err := c.do(ctx, http.MethodPatch, path, map[string]string{"status": string(status)}, &resp); err != nil {
		return domain.Task{}, err
	}
	return resp.Task.toDomain(), nil
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, nil)
}

func (c *Client) Suggest(ctx context.Context, prompt string, tasks []domain.Task) ([]string, error) {
	payload := make([]taskPayload, 0, len(tasks))
	for _, t := range tasks {
		payload = append(payload, taskPayload{
			ID:        t.ID,
			Title:     t.Title,
			Duration:  t.Duration,
			Energy:    string(t.Energy),
			Status:    string(t.Status),
			CreatedAt: t.CreatedAt,
		})
	}

	var resp struct {
		Suggestions []string `json:"suggestions"`
	}
	err := c.do(ctx, http.MethodPost, "/ai/suggest", map[string]any{"prompt": prompt, "tasks": payload}, &resp)
	return resp.Suggestions, err
}
