// Package publisher drives per-item task creation for one batch of
// collected assignments.
package publisher

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"canvas-todoist-sync/internal/domain"
	"canvas-todoist-sync/internal/runlog"
	"canvas-todoist-sync/internal/todoist"
)

// Inter-request spacing between item creations, success or failure alike.
// Keeps the outbound rate under the API's published limits.
const defaultInterval = 500 * time.Millisecond

// TaskCreator is the slice of the Todoist client the publisher needs.
type TaskCreator interface {
	CreateTask(ctx context.Context, req todoist.TaskRequest) (*todoist.Task, error)
}

// Summary is all a batch returns: counters. Per-item results are visible
// only on the log stream.
type Summary struct {
	Synced int
	Failed int
}

type Publisher struct {
	Tasks   TaskCreator
	Log     *runlog.Logger
	limiter *rate.Limiter
}

func New(tasks TaskCreator, log *runlog.Logger) *Publisher {
	return NewWithInterval(tasks, log, defaultInterval)
}

// NewWithInterval overrides the pacing interval. Tests use a short one.
func NewWithInterval(tasks TaskCreator, log *runlog.Logger, interval time.Duration) *Publisher {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Publisher{
		Tasks:   tasks,
		Log:     log,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// PublishBatch creates one task per assignment, strictly in input order.
// An item's failure never aborts the batch.
func (p *Publisher) PublishBatch(ctx context.Context, items []domain.CourseAssignment) Summary {
	var sum Summary
	total := len(items)

	for i, item := range items {
		if err := p.limiter.Wait(ctx); err != nil {
			// context gone; count the rest as failed and stop
			sum.Failed += total - i
			p.Log.Printf("Publishing stopped: %v", err)
			return sum
		}

		p.Log.Printf("Processing assignment %d/%d: %s [%s]", i+1, total, item.Name, item.CourseLabel)
		if _, err := p.Publish(ctx, item); err != nil {
			sum.Failed++
			p.Log.Printf("  -> Failed to create task: %v", err)
		} else {
			sum.Synced++
		}
	}
	return sum
}

// Publish creates the task for a single assignment.
func (p *Publisher) Publish(ctx context.Context, item domain.CourseAssignment) (*todoist.Task, error) {
	req, buildErr := todoist.BuildTask(item)
	if buildErr != nil {
		// parse problems are logged and the field dropped, never fatal
		p.Log.Printf("  %v", buildErr)
	}

	task, err := p.Tasks.CreateTask(ctx, req)
	if err != nil {
		return nil, err
	}
	p.Log.Printf("Successfully created Todoist task for: %s", item.Name)
	return task, nil
}
