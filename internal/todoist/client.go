// Package todoist is the REST client for the destination task API.
package todoist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"canvas-todoist-sync/internal/domain"
	"canvas-todoist-sync/internal/httpx"
)

const DefaultBaseURL = "https://api.todoist.com/rest/v2"

// A 429 gets exactly one retry after Retry-After (10s when the header is
// absent). A second rate limit, or anything else on the retry, is terminal
// for that item.
const rateLimitFallback = 10 * time.Second

type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func New(apiKey string) *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		APIKey:  apiKey,
		HTTP: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Task is the created-task handle returned by the API. Opaque to the
// engine; it only proves creation succeeded.
type Task struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type taskJSON struct {
	Content     string `json:"content"`
	Description string `json:"description"`
	DueDate     string `json:"due_date,omitempty"`
}

// CreateTask posts one task. The request ID rides as a header so the API
// can drop duplicate creation attempts for the same logical item; that is
// the system's only duplicate prevention.
func (c *Client) CreateTask(ctx context.Context, req TaskRequest) (*Task, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, domain.Errf(domain.KindConfig, "todoist: API key missing")
	}

	b, err := json.Marshal(taskJSON{
		Content:     req.Content,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return nil, domain.Errf(domain.KindUnexpected, "todoist: encode task: %w", err)
	}

	var task Task
	err = httpx.DoJSON(
		ctx,
		c.HTTP,
		func(ctx context.Context) (*http.Request, error) {
			r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/tasks", bytes.NewReader(b))
			if err != nil {
				return nil, err
			}
			r.Header.Set("Content-Type", "application/json")
			r.Header.Set("Authorization", "Bearer "+c.APIKey)
			r.Header.Set("X-Request-Id", req.RequestID)
			return r, nil
		},
		&task,
		httpx.RetryConfig{
			MaxAttempts:   2,
			RetryStatuses: map[int]bool{http.StatusTooManyRequests: true},
			FallbackDelay: rateLimitFallback,
		},
	)
	if err != nil {
		return nil, c.classify(err)
	}
	return &task, nil
}

func (c *Client) classify(err error) error {
	var herr *httpx.HTTPError
	if errors.As(err, &herr) {
		hint := ""
		if herr.StatusCode == http.StatusUnauthorized || herr.StatusCode == http.StatusForbidden {
			hint = " - check your Todoist API key"
		}
		return domain.Errf(domain.KindRemote, "todoist: create task failed: %s (status %d)%s",
			strings.TrimSpace(string(herr.Body)), herr.StatusCode, hint)
	}
	if strings.Contains(err.Error(), "json parse error") {
		return domain.Errf(domain.KindUnexpected, "todoist: create task failed: %w", err)
	}
	return domain.Errf(domain.KindNetwork, "todoist: create task failed: %w", err)
}
