// Package selection persists the operator-chosen set of course IDs as a
// flat JSON file: {"selected_course_ids": ["101", ...]}.
package selection

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
)

const DefaultPath = "config.json"

type Store struct {
	Path string
}

func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{Path: path}
}

type fileJSON struct {
	SelectedCourseIDs []string `json:"selected_course_ids"`
}

// Load reads the saved selection. A missing file is an empty selection, not
// an error. Non-digit entries are discarded; the result is de-duplicated
// and sorted so processing order is stable across runs.
func (s *Store) Load() ([]string, error) {
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("selection: read %s: %w", s.Path, err)
	}

	var f fileJSON
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("selection: parse %s: %w", s.Path, err)
	}
	return normalize(f.SelectedCourseIDs), nil
}

// Save writes the selection with set semantics: digits only, unique,
// sorted. Written at the start of every sync attempt so a crash mid-sync
// cannot lose the operator's choice.
func (s *Store) Save(ids []string) error {
	b, err := json.MarshalIndent(fileJSON{SelectedCourseIDs: normalize(ids)}, "", "    ")
	if err != nil {
		return fmt.Errorf("selection: encode: %w", err)
	}
	if err := os.WriteFile(s.Path, b, 0o644); err != nil {
		return fmt.Errorf("selection: write %s: %w", s.Path, err)
	}
	return nil
}

func normalize(ids []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !allDigits(id) || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
