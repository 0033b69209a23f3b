package domain

import "strings"

// Credentials is the transient copy of the three secrets the engine holds
// for the duration of one call. Ownership stays with the credential store.
type Credentials struct {
	CanvasBaseURL string
	CanvasAPIKey  string
	TodoistAPIKey string
}

// Missing lists the human-readable names of absent secrets.
func (c Credentials) Missing() []string {
	var out []string
	if strings.TrimSpace(c.CanvasBaseURL) == "" {
		out = append(out, "Canvas URL")
	}
	if strings.TrimSpace(c.CanvasAPIKey) == "" {
		out = append(out, "Canvas API key")
	}
	if strings.TrimSpace(c.TodoistAPIKey) == "" {
		out = append(out, "Todoist API key")
	}
	return out
}

// Complete reports whether every network-dependent operation may proceed.
func (c Credentials) Complete() bool {
	return len(c.Missing()) == 0
}
