package domain

// Submission is the submission sub-object Canvas attaches to an assignment
// when asked for it. SubmittedAt is an RFC3339 timestamp, empty when the
// student has not submitted.
type Submission struct {
	SubmittedAt string
}

// Assignment is a gradable item belonging to a course, shaped like the
// upstream record: no course context of its own.
type Assignment struct {
	ID         string
	Name       string
	DueAt      string // RFC3339, optional
	HTMLURL    string
	Submission *Submission
}

// Submitted reports whether the assignment carries a non-empty submitted_at.
// Submitted assignments are dropped at collection time and never re-checked.
func (a Assignment) Submitted() bool {
	return a.Submission != nil && a.Submission.SubmittedAt != ""
}

// CourseAssignment is an assignment joined with the display label of the
// course it was collected from. The join happens at the collector boundary;
// the upstream-shaped Assignment is never mutated.
type CourseAssignment struct {
	Assignment
	CourseLabel string
}
