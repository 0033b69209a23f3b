package domain

import "strings"

// Course is the canonical representation of a Canvas enrollment unit inside
// this service. Only courses with both an ID and a name are considered valid
// domain entities; anything else is discarded at the client boundary.
type Course struct {
	ID              string
	Name            string
	Code            string // display code, preferred over Name when present
	EnrollmentState string
}

// SortKey is what course lists are ordered by: the display code,
// falling back to the name, case-insensitive.
func (c Course) SortKey() string {
	if s := strings.TrimSpace(c.Code); s != "" {
		return strings.ToLower(s)
	}
	return strings.ToLower(c.Name)
}

// Label is the display label attached to assignments collected from this
// course: code, then name. The "Course {id}" fallback for unresolvable
// courses lives in the collector, not here.
func (c Course) Label() string {
	if s := strings.TrimSpace(c.Code); s != "" {
		return s
	}
	return strings.TrimSpace(c.Name)
}

// Valid reports whether the course may be surfaced to selection.
func (c Course) Valid() bool {
	return strings.TrimSpace(c.ID) != "" && strings.TrimSpace(c.Name) != ""
}
