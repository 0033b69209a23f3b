// Package export writes a report of one collection run: the pending
// (upcoming, unsubmitted) assignments as CSV.
package export

import (
	"encoding/csv"
	"io"
	"strings"
	"time"

	"canvas-todoist-sync/internal/domain"
)

// Keep header order EXACT; downstream spreadsheets key on position.
var assignmentsHeader = []string{
	"COURSE",
	"ASSIGNMENT_ID",
	"NAME",
	"DUE_AT",
	"DUE_DATE",
	"URL",
}

// WriteAssignmentsCSV writes the collected assignments in batch order.
func WriteAssignmentsCSV(w io.Writer, items []domain.CourseAssignment) error {
	cw := csv.NewWriter(w)
	// match typical spreadsheet templates
	cw.UseCRLF = true

	if err := cw.Write(assignmentsHeader); err != nil {
		return err
	}
	for _, item := range items {
		if err := cw.Write(toRow(item)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func toRow(item domain.CourseAssignment) []string {
	// DUE_DATE mirrors what publishing sends: calendar-day precision,
	// empty when the timestamp is absent or malformed.
	dueDate := ""
	if item.DueAt != "" {
		if t, err := time.Parse(time.RFC3339, item.DueAt); err == nil {
			dueDate = t.Format("2006-01-02")
		}
	}

	return []string{
		clean(item.CourseLabel),
		item.ID,
		clean(item.Name),
		item.DueAt,
		dueDate,
		item.HTMLURL,
	}
}

func clean(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.TrimSpace(s)
}
