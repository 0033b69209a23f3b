// Package canvas is the REST client for the source LMS API.
//
// Both list endpoints cap at per_page=100 and read a single page; the
// service never follows pagination links. That is a deliberate cap, sized
// for personal course counts.
package canvas

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"canvas-todoist-sync/internal/domain"
	"canvas-todoist-sync/internal/httpx"
)

type Client struct {
	BaseURL string // always ends with "/"
	APIKey  string
	HTTP    *http.Client
}

func New(baseURL, apiKey string) *Client {
	tr := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Client{
		BaseURL: NormalizeBaseURL(baseURL),
		APIKey:  apiKey,
		HTTP: &http.Client{
			Timeout:   20 * time.Second,
			Transport: tr,
		},
	}
}

// NormalizeBaseURL coerces the base URL to end with a path separator so
// request paths can be appended directly.
func NormalizeBaseURL(base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return ""
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base
}

/* -------- wire types -------- */

type courseJSON struct {
	ID              json.Number `json:"id"`
	Name            string      `json:"name"`
	CourseCode      string      `json:"course_code"`
	EnrollmentState string      `json:"enrollment_state"`
}

type submissionJSON struct {
	SubmittedAt string `json:"submitted_at"`
}

type assignmentJSON struct {
	ID         json.Number     `json:"id"`
	Name       string          `json:"name"`
	DueAt      string          `json:"due_at"`
	HTMLURL    string          `json:"html_url"`
	Submission *submissionJSON `json:"submission"`
}

type apiErrorJSON struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

/* -------- API -------- */

// ListActiveCourses fetches the active-enrollment courses, drops entries
// without both an id and a name, and returns the rest sorted by display
// code (name fallback), case-insensitive.
func (c *Client) ListActiveCourses(ctx context.Context) ([]domain.Course, error) {
	if err := c.checkCreds(); err != nil {
		return nil, err
	}

	var raw []courseJSON
	err := c.getJSON(ctx, c.BaseURL+"api/v1/courses?enrollment_state=active&per_page=100", &raw)
	if err != nil {
		return nil, c.classify("fetch courses", err)
	}

	out := make([]domain.Course, 0, len(raw))
	for _, cj := range raw {
		course := cj.toDomain()
		if !course.Valid() {
			// not a valid domain entity; dropped silently
			continue
		}
		out = append(out, course)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortKey() < out[j].SortKey()
	})
	return out, nil
}

// GetCourse resolves a single course, used by the collector for labels.
func (c *Client) GetCourse(ctx context.Context, id string) (domain.Course, error) {
	if err := c.checkCreds(); err != nil {
		return domain.Course{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var raw courseJSON
	err := c.getJSON(ctx, c.BaseURL+"api/v1/courses/"+id, &raw)
	if err != nil {
		return domain.Course{}, c.classify("fetch course "+id, err)
	}
	return raw.toDomain(), nil
}

// ListUpcomingAssignments fetches the course's upcoming bucket including
// submission sub-objects. Submitted items are NOT filtered here; that is
// the collector's rule.
func (c *Client) ListUpcomingAssignments(ctx context.Context, courseID string) ([]domain.Assignment, error) {
	if err := c.checkCreds(); err != nil {
		return nil, err
	}

	var raw []assignmentJSON
	url := c.BaseURL + "api/v1/courses/" + courseID + "/assignments?bucket=upcoming&include[]=submission&per_page=100"
	if err := c.getJSON(ctx, url, &raw); err != nil {
		return nil, c.classify("fetch assignments for course "+courseID, err)
	}

	out := make([]domain.Assignment, 0, len(raw))
	for _, aj := range raw {
		out = append(out, aj.toDomain())
	}
	return out, nil
}

/* -------- internals -------- */

func (c *Client) checkCreds() error {
	if c.BaseURL == "" || c.APIKey == "" {
		return domain.Errf(domain.KindConfig, "canvas: URL or API key missing")
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	return httpx.DoJSON(
		ctx,
		c.HTTP,
		func(ctx context.Context) (*http.Request, error) {
			r, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return nil, err
			}
			r.Header.Set("Accept", "application/json")
			r.Header.Set("Authorization", "Bearer "+c.APIKey)
			return r, nil
		},
		out,
		httpx.NoRetryConfig(),
	)
}

// classify maps transport failures into the engine's error taxonomy,
// preferring the upstream-decoded message for remote errors.
func (c *Client) classify(op string, err error) error {
	var herr *httpx.HTTPError
	if errors.As(err, &herr) {
		msg := upstreamMessage(herr.Body)
		if msg == "" {
			msg = strings.TrimSpace(string(herr.Body))
		}
		hint := ""
		if herr.StatusCode == http.StatusUnauthorized {
			hint = " - check API key/URL"
		}
		return domain.Errf(domain.KindRemote, "canvas: %s failed: %s (status %d)%s", op, msg, herr.StatusCode, hint)
	}

	var nerr interface{ Timeout() bool }
	if errors.As(err, &nerr) || errors.Is(err, context.DeadlineExceeded) {
		return domain.Errf(domain.KindNetwork, "canvas: %s failed: %w", op, err)
	}
	if strings.Contains(err.Error(), "json parse error") {
		return domain.Errf(domain.KindUnexpected, "canvas: %s failed: %w", op, err)
	}
	return domain.Errf(domain.KindNetwork, "canvas: %s failed: %w", op, err)
}

func upstreamMessage(body []byte) string {
	var ae apiErrorJSON
	if err := json.Unmarshal(body, &ae); err != nil {
		return ""
	}
	if len(ae.Errors) == 0 {
		return ""
	}
	return strings.TrimSpace(ae.Errors[0].Message)
}

func (cj courseJSON) toDomain() domain.Course {
	return domain.Course{
		ID:              cj.ID.String(),
		Name:            strings.TrimSpace(cj.Name),
		Code:            strings.TrimSpace(cj.CourseCode),
		EnrollmentState: cj.EnrollmentState,
	}
}

func (aj assignmentJSON) toDomain() domain.Assignment {
	a := domain.Assignment{
		ID:      aj.ID.String(),
		Name:    aj.Name,
		DueAt:   aj.DueAt,
		HTMLURL: aj.HTMLURL,
	}
	if aj.Submission != nil {
		a.Submission = &domain.Submission{SubmittedAt: aj.Submission.SubmittedAt}
	}
	return a
}
