// Package controller wraps the collect/publish pipeline and the course
// lister into two guarded, non-reentrant operations. Each operation holds
// a per-operation Idle/Running state; a second start while Running is
// rejected immediately, never queued, and every exit path restores Idle.
package controller

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"canvas-todoist-sync/internal/canvas"
	"canvas-todoist-sync/internal/collector"
	"canvas-todoist-sync/internal/domain"
	"canvas-todoist-sync/internal/publisher"
	"canvas-todoist-sync/internal/runlog"
	"canvas-todoist-sync/internal/selection"
	"canvas-todoist-sync/internal/todoist"
)

// CredentialSource yields the engine's transient copy of the secrets.
type CredentialSource interface {
	Credentials() (domain.Credentials, error)
}

// CanvasAPI is everything the controller needs from the source system.
type CanvasAPI interface {
	ListActiveCourses(ctx context.Context) ([]domain.Course, error)
	GetCourse(ctx context.Context, id string) (domain.Course, error)
	ListUpcomingAssignments(ctx context.Context, courseID string) ([]domain.Assignment, error)
}

// Status is the terminal state of one operation.
type Status int

const (
	StatusOK             Status = iota // 0 failures
	StatusNothingToDo                  // valid run, zero assignments collected
	StatusPartial                      // >0 successes and >0 failures
	StatusFailed                       // 0 successes with >0 attempted, or a blocking error
	StatusAlreadyRunning               // rejected: operation was Running
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNothingToDo:
		return "nothing-to-do"
	case StatusPartial:
		return "partial"
	case StatusFailed:
		return "failed"
	case StatusAlreadyRunning:
		return "already-running"
	}
	return "unknown"
}

// Outcome is the terminal summary of one operation.
type Outcome struct {
	Status  Status
	Synced  int
	Failed  int
	Courses []domain.Course // fetch-courses only
	Err     error
}

const (
	opIdle int32 = iota
	opRunning
)

type Controller struct {
	Log       *runlog.Logger
	Creds     CredentialSource
	Selection *selection.Store

	fetchState atomic.Int32
	syncState  atomic.Int32

	// client factories; swapped out in tests
	newCanvas   func(baseURL, apiKey string) CanvasAPI
	newTasks    func(apiKey string) publisher.TaskCreator
	pubInterval time.Duration
}

func New(log *runlog.Logger, creds CredentialSource, sel *selection.Store) *Controller {
	return &Controller{
		Log:       log,
		Creds:     creds,
		Selection: sel,
		newCanvas: func(baseURL, apiKey string) CanvasAPI {
			return canvas.New(baseURL, apiKey)
		},
		newTasks: func(apiKey string) publisher.TaskCreator {
			return todoist.New(apiKey)
		},
	}
}

// tryStart is the atomic Idle->Running transition. Returns false when the
// operation is already Running.
func tryStart(state *atomic.Int32) bool {
	return state.CompareAndSwap(opIdle, opRunning)
}

// FetchCourses lists, validates and sorts the active courses.
func (c *Controller) FetchCourses(ctx context.Context) Outcome {
	if !tryStart(&c.fetchState) {
		c.Log.Printf("Already fetching courses.")
		return Outcome{Status: StatusAlreadyRunning}
	}
	defer c.fetchState.Store(opIdle)

	c.Log.Printf("[run %s] Fetching active courses from Canvas...", shortRunID())

	creds, err := c.Creds.Credentials()
	if err != nil {
		c.Log.Printf("Course fetch failed: %v", err)
		return Outcome{Status: StatusFailed, Err: err}
	}
	if creds.CanvasBaseURL == "" || creds.CanvasAPIKey == "" {
		err := domain.Errf(domain.KindConfig, "Canvas URL and API key must be configured first")
		c.Log.Printf("Course fetch failed: %v", err)
		return Outcome{Status: StatusFailed, Err: err}
	}

	courses, err := c.newCanvas(creds.CanvasBaseURL, creds.CanvasAPIKey).ListActiveCourses(ctx)
	if err != nil {
		c.Log.Printf("Course fetch failed: %v", err)
		return Outcome{Status: StatusFailed, Err: err}
	}

	c.Log.Printf("Found %d valid active courses.", len(courses))
	return Outcome{Status: StatusOK, Courses: courses}
}

// Sync runs one collect+publish pass over the persisted selection.
func (c *Controller) Sync(ctx context.Context) Outcome {
	if !tryStart(&c.syncState) {
		c.Log.Printf("Sync already in progress.")
		return Outcome{Status: StatusAlreadyRunning}
	}
	defer c.syncState.Store(opIdle)

	runID := shortRunID()

	creds, err := c.Creds.Credentials()
	if err != nil {
		c.Log.Printf("Sync aborted: %v", err)
		return Outcome{Status: StatusFailed, Err: err}
	}
	if missing := creds.Missing(); len(missing) > 0 {
		err := domain.Errf(domain.KindConfig, "missing credentials: %v", missing)
		c.Log.Printf("Sync aborted: Missing credentials.")
		return Outcome{Status: StatusFailed, Err: err}
	}

	ids, err := c.Selection.Load()
	if err != nil {
		c.Log.Printf("%v", err)
		ids = nil
	}
	if len(ids) == 0 {
		err := domain.Errf(domain.KindConfig, "no courses selected")
		c.Log.Printf("Sync aborted: No courses selected.")
		return Outcome{Status: StatusFailed, Err: err}
	}

	// Persist the confirmed selection before any network call, so a crash
	// mid-sync does not lose the operator's choice.
	if err := c.Selection.Save(ids); err != nil {
		c.Log.Printf("%v", err)
	}

	c.Log.Printf("[run %s] --- Starting Sync Process for %d selected courses ---", runID, len(ids))

	cv := c.newCanvas(creds.CanvasBaseURL, creds.CanvasAPIKey)
	assignments, err := collector.New(cv, c.Log).Collect(ctx, ids)
	if err != nil {
		c.Log.Printf("Sync failed: %v", err)
		return Outcome{Status: StatusFailed, Err: err}
	}

	if len(assignments) == 0 {
		c.Log.Printf("No upcoming, unsubmitted assignments found in selected Canvas courses.")
		return Outcome{Status: StatusNothingToDo}
	}

	c.Log.Printf("Note: Duplicate checking relies on Todoist idempotency key.")
	pub := publisher.NewWithInterval(c.newTasks(creds.TodoistAPIKey), c.Log, c.pubInterval)
	sum := pub.PublishBatch(ctx, assignments)

	c.Log.Printf("--- Sync Process Finished ---")
	c.Log.Printf("Successfully synced: %d assignments from selected courses.", sum.Synced)
	if sum.Failed > 0 {
		c.Log.Printf("Failed to sync: %d assignments.", sum.Failed)
	}

	out := Outcome{Synced: sum.Synced, Failed: sum.Failed}
	switch {
	case sum.Failed == 0:
		out.Status = StatusOK
	case sum.Synced > 0:
		out.Status = StatusPartial
	default:
		out.Status = StatusFailed
	}
	return out
}

// SyncGo runs Sync on its own goroutine and delivers the outcome on the
// returned channel. Combined with Log.Subscribe this lets a presentation
// layer drive the engine without sharing its threading model.
func (c *Controller) SyncGo(ctx context.Context) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() { ch <- c.Sync(ctx) }()
	return ch
}

// FetchCoursesGo is the asynchronous form of FetchCourses.
func (c *Controller) FetchCoursesGo(ctx context.Context) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() { ch <- c.FetchCourses(ctx) }()
	return ch
}

func shortRunID() string {
	return uuid.NewString()[:8]
}
