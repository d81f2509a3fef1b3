package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/OussamaSlimani/tasks/internal/model"
	"github.com/OussamaSlimani/tasks/internal/task"
)

const (
	defaultTimeout = 10 * time.Second
	readAttempts   = 3
	retryBackoff   = 250 * time.Millisecond
)

// APIError is a failure envelope returned by the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// Client talks to the action API over HTTP. Reads are retried up to three
// attempts on transport errors and 5xx responses; writes are attempted
// exactly once, since they are not idempotent at the transport layer.
type Client struct {
	base string
	hc   *http.Client
}

type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client (mainly for tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

func New(base string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Get(ctx context.Context, day string) (*task.ListPayload, error) {
	q := url.Values{"action": {"get"}}
	if day != "" {
		q.Set("day", day)
	}
	var out task.ListPayload
	if err := c.doRead(ctx, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTask(ctx context.Context, id string) (*task.TaskPayload, error) {
	q := url.Values{"action": {"get_task"}, "id": {id}}
	var out task.TaskPayload
	if err := c.doRead(ctx, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Overview(ctx context.Context) (*task.OverviewPayload, error) {
	q := url.Values{"action": {"overview"}}
	var out task.OverviewPayload
	if err := c.doRead(ctx, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Create(ctx context.Context, in model.TaskUpsert) (*task.TaskPayload, error) {
	form, err := taskForm("create", in)
	if err != nil {
		return nil, err
	}
	var out task.TaskPayload
	if err := c.doWrite(ctx, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, in model.TaskUpsert) (*task.OKPayload, error) {
	form, err := taskForm("update", in)
	if err != nil {
		return nil, err
	}
	var out task.OKPayload
	if err := c.doWrite(ctx, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Toggle(ctx context.Context, id, day string) (*task.OKPayload, error) {
	form := url.Values{"action": {"toggle"}, "id": {id}, "day": {day}}
	var out task.OKPayload
	if err := c.doWrite(ctx, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id string) (*task.OKPayload, error) {
	form := url.Values{"action": {"delete"}, "id": {id}}
	var out task.OKPayload
	if err := c.doWrite(ctx, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func taskForm(action string, in model.TaskUpsert) (url.Values, error) {
	b, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode task: %w", err)
	}
	return url.Values{"action": {action}, "task": {string(b)}}, nil
}

func (c *Client) endpoint() string {
	return c.base + "/api/tasks"
}

// doRead issues a GET, retrying transport errors and 5xx responses.
// Failure envelopes below 500 are not retried; they are stable answers.
func (c *Client) doRead(ctx context.Context, q url.Values, out any) error {
	var lastErr error
	for attempt := 1; attempt <= readAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt-1) * retryBackoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint()+"?"+q.Encode(), nil)
		if err != nil {
			return err
		}
		resp, err := c.hc.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			lastErr = &APIError{StatusCode: resp.StatusCode, Message: failureMessage(body)}
			continue
		}
		return decodeEnvelope(resp.StatusCode, body, out)
	}
	return lastErr
}

// doWrite issues a single POST; no automatic retry to avoid duplicate side
// effects.
func (c *Client) doWrite(ctx context.Context, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return decodeEnvelope(resp.StatusCode, body, out)
}

func decodeEnvelope(status int, body []byte, out any) error {
	var env struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !env.Success {
		return &APIError{StatusCode: status, Message: env.Message}
	}
	return json.Unmarshal(body, out)
}

func failureMessage(body []byte) string {
	var env struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &env) == nil && env.Message != "" {
		return env.Message
	}
	return "server error"
}
