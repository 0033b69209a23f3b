package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCourseSortKey(t *testing.T) {
	tests := []struct {
		name   string
		course Course
		want   string
	}{
		{"code preferred", Course{Code: "CS-101", Name: "Intro"}, "cs-101"},
		{"name fallback", Course{Name: "Biology"}, "biology"},
		{"blank code falls back", Course{Code: "   ", Name: "Chemistry"}, "chemistry"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.course.SortKey())
		})
	}
}

func TestCourseLabel(t *testing.T) {
	assert.Equal(t, "CS-101", Course{Code: "CS-101", Name: "Intro"}.Label())
	assert.Equal(t, "Intro", Course{Name: "Intro"}.Label())
	assert.Equal(t, "", Course{}.Label())
}

func TestCourseValid(t *testing.T) {
	assert.True(t, Course{ID: "1", Name: "Intro"}.Valid())
	assert.False(t, Course{ID: "1"}.Valid())
	assert.False(t, Course{Name: "Intro"}.Valid())
	assert.False(t, Course{ID: " ", Name: "Intro"}.Valid())
}

func TestAssignmentSubmitted(t *testing.T) {
	assert.False(t, Assignment{}.Submitted())
	assert.False(t, Assignment{Submission: &Submission{}}.Submitted())
	assert.True(t, Assignment{Submission: &Submission{SubmittedAt: "2026-01-10T12:00:00Z"}}.Submitted())
}

func TestCredentialsMissing(t *testing.T) {
	assert.Empty(t, Credentials{
		CanvasBaseURL: "https://canvas.example.edu",
		CanvasAPIKey:  "ck",
		TodoistAPIKey: "tk",
	}.Missing())

	missing := Credentials{CanvasAPIKey: "ck"}.Missing()
	assert.Equal(t, []string{"Canvas URL", "Todoist API key"}, missing)
	assert.False(t, Credentials{}.Complete())
}

func TestErrorClassification(t *testing.T) {
	base := errors.New("boom")
	err := Errf(KindRemote, "canvas: fetch failed: %w", base)

	assert.Equal(t, KindRemote, KindOf(err))
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "canvas: fetch failed: boom", err.Error())

	// wrapping again keeps the classification visible
	wrapped := fmt.Errorf("outer: %w", err)
	assert.Equal(t, KindRemote, KindOf(wrapped))

	assert.Equal(t, KindUnexpected, KindOf(errors.New("plain")))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "config", KindConfig.String())
	assert.Equal(t, "network", KindNetwork.String())
	assert.Equal(t, "remote", KindRemote.String())
	assert.Equal(t, "parse", KindParse.String())
	assert.Equal(t, "unexpected", KindUnexpected.String())
}
