package todoist

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"canvas-todoist-sync/internal/domain"
)

// TaskRequest is one fully-prepared creation call: body fields plus the
// idempotency header value.
type TaskRequest struct {
	Content     string
	Description string
	DueDate     string // YYYY-MM-DD, empty when absent or unparseable
	RequestID   string
}

// BuildTask shapes an assignment into a creation request. A malformed due
// date is reported through the returned error but never blocks the task;
// the due date is simply omitted.
func BuildTask(a domain.CourseAssignment) (TaskRequest, error) {
	label := strings.TrimSpace(a.CourseLabel)
	if label == "" {
		label = "Canvas"
	}
	name := strings.TrimSpace(a.Name)
	if name == "" {
		name = "Untitled Assignment"
	}
	link := strings.TrimSpace(a.HTMLURL)
	if link == "" {
		link = "No link available"
	}

	req := TaskRequest{
		Content:     fmt.Sprintf("[%s] %s", label, name),
		Description: "Link: " + link,
		RequestID:   RequestID(a.Assignment),
	}

	if a.DueAt != "" {
		t, err := time.Parse(time.RFC3339, a.DueAt)
		if err != nil {
			return req, domain.Errf(domain.KindParse, "could not parse due date: %s", a.DueAt)
		}
		req.DueDate = t.Format("2006-01-02")
	}
	return req, nil
}

// RequestID derives the idempotency token from the assignment's link, or
// its id when no link exists. A content digest keeps the value stable
// across processes, which is what makes the duplicate prevention hold
// across runs.
func RequestID(a domain.Assignment) string {
	src := a.HTMLURL
	if src == "" {
		src = a.ID
	}
	sum := sha256.Sum256([]byte(src))
	return hex.EncodeToString(sum[:])
}
