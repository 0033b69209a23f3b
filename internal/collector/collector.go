// Package collector gathers the pending assignments for a set of selected
// courses: resolve a display label per course, fetch the upcoming bucket,
// drop submitted items, and join the label onto each survivor.
package collector

import (
	"context"

	"canvas-todoist-sync/internal/domain"
	"canvas-todoist-sync/internal/runlog"
)

// CourseSource is the slice of the Canvas client the collector needs.
type CourseSource interface {
	GetCourse(ctx context.Context, id string) (domain.Course, error)
	ListUpcomingAssignments(ctx context.Context, courseID string) ([]domain.Assignment, error)
}

type Collector struct {
	Source CourseSource
	Log    *runlog.Logger
}

func New(src CourseSource, log *runlog.Logger) *Collector {
	return &Collector{Source: src, Log: log}
}

// Collect fetches assignments for courseIDs in the given order and returns
// them in course-then-assignment order, no cross-course re-sorting.
//
// A failure on one course (label or assignment fetch) is logged and that
// course skipped; the loop always runs to the end. Only failures unrelated
// to a specific course abort the call. An empty selection is a valid,
// non-error state: no network call is made.
func (c *Collector) Collect(ctx context.Context, courseIDs []string) ([]domain.CourseAssignment, error) {
	if len(courseIDs) == 0 {
		c.Log.Printf("No courses selected for sync.")
		return []domain.CourseAssignment{}, nil
	}

	var all []domain.CourseAssignment
	total := len(courseIDs)

	for i, id := range courseIDs {
		c.Log.Printf("Fetching assignments for selected course %d/%d (ID: %s)...", i+1, total, id)

		label, err := c.resolveLabel(ctx, id)
		if err != nil {
			if domain.KindOf(err) == domain.KindConfig {
				return nil, err
			}
			c.Log.Printf("%v", err)
			continue
		}

		assignments, err := c.Source.ListUpcomingAssignments(ctx, id)
		if err != nil {
			if domain.KindOf(err) == domain.KindConfig {
				return nil, err
			}
			c.Log.Printf("%v", err)
			continue
		}
		c.Log.Printf("  Found %d upcoming assignments for %s.", len(assignments), label)

		for _, a := range assignments {
			if a.Submitted() {
				c.Log.Printf("  Skipping already submitted assignment: %s", a.Name)
				continue
			}
			all = append(all, domain.CourseAssignment{Assignment: a, CourseLabel: label})
		}
	}

	c.Log.Printf("Total upcoming, unsubmitted assignments fetched for selected courses: %d", len(all))
	return all, nil
}

// resolveLabel fetches the course for its display label. A request failure
// skips the whole course; a course that resolves but carries no usable
// code or name gets a generic label.
func (c *Collector) resolveLabel(ctx context.Context, id string) (string, error) {
	course, err := c.Source.GetCourse(ctx, id)
	if err != nil {
		return "", err
	}
	if label := course.Label(); label != "" {
		return label, nil
	}
	return "Course " + id, nil
}
