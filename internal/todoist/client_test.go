package todoist

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvas-todoist-sync/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	c := New("todoist-key")
	c.BaseURL = srv.URL
	return c, &hits
}

func TestCreateTask(t *testing.T) {
	c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/tasks", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer todoist-key", r.Header.Get("Authorization"))
		assert.Equal(t, "req-abc", r.Header.Get("X-Request-Id"))

		body, _ := io.ReadAll(r.Body)
		var got map[string]any
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, "[CS-405] Essay", got["content"])
		assert.Equal(t, "2026-09-12", got["due_date"])

		w.Write([]byte(`{"id": "777", "url": "https://todoist.com/showTask?id=777"}`))
	})

	task, err := c.CreateTask(context.Background(), TaskRequest{
		Content:     "[CS-405] Essay",
		Description: "Link: https://canvas.example.edu/a/9",
		DueDate:     "2026-09-12",
		RequestID:   "req-abc",
	})
	require.NoError(t, err)
	assert.Equal(t, "777", task.ID)
	assert.Equal(t, int32(1), hits.Load())
}

func TestCreateTaskOmitsEmptyDueDate(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var got map[string]any
		require.NoError(t, json.Unmarshal(body, &got))
		_, present := got["due_date"]
		assert.False(t, present)
		w.Write([]byte(`{"id": "1"}`))
	})

	_, err := c.CreateTask(context.Background(), TaskRequest{Content: "x", RequestID: "r"})
	require.NoError(t, err)
}

func TestCreateTaskRetriesRateLimitOnce(t *testing.T) {
	var n atomic.Int32
	c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if n.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		// the retry must replay the same idempotency header
		assert.Equal(t, "req-abc", r.Header.Get("X-Request-Id"))
		w.Write([]byte(`{"id": "5"}`))
	})

	task, err := c.CreateTask(context.Background(), TaskRequest{Content: "x", RequestID: "req-abc"})
	require.NoError(t, err)
	assert.Equal(t, "5", task.ID)
	assert.Equal(t, int32(2), hits.Load())
}

func TestCreateTaskSecondRateLimitIsTerminal(t *testing.T) {
	c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.CreateTask(context.Background(), TaskRequest{Content: "x", RequestID: "r"})
	require.Error(t, err)
	assert.Equal(t, domain.KindRemote, domain.KindOf(err))
	assert.Equal(t, int32(2), hits.Load(), "exactly one retry, then give up")
}

func TestCreateTaskForbiddenHint(t *testing.T) {
	c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("Forbidden"))
	})

	_, err := c.CreateTask(context.Background(), TaskRequest{Content: "x", RequestID: "r"})
	require.Error(t, err)
	assert.Equal(t, domain.KindRemote, domain.KindOf(err))
	assert.Contains(t, err.Error(), "check your Todoist API key")
	assert.Equal(t, int32(1), hits.Load(), "403 is not retryable")
}

func TestCreateTaskMissingKey(t *testing.T) {
	c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	c.APIKey = "  "

	_, err := c.CreateTask(context.Background(), TaskRequest{Content: "x"})
	require.Error(t, err)
	assert.Equal(t, domain.KindConfig, domain.KindOf(err))
	assert.Zero(t, hits.Load())
}
