package domain

import (
	"errors"
	"fmt"
)

// Kind classifies failures crossing the engine's boundaries.
type Kind int

const (
	KindUnexpected Kind = iota // catch-all, also the zero value
	KindConfig                 // missing credentials / empty selection; no network I/O attempted
	KindNetwork                // transport-level failure, no response
	KindRemote                 // non-2xx response, carries status + decoded message
	KindParse                  // malformed field (e.g. due date); always non-fatal
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindNetwork:
		return "network"
	case KindRemote:
		return "remote"
	case KindParse:
		return "parse"
	default:
		return "unexpected"
	}
}

// Error tags an underlying error with a Kind. Clients wrap with %w as usual;
// the controller uses the kind to pick the user-facing outcome.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Errf builds a classified error fmt.Errorf-style (%w works).
func Errf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the classification from an error chain.
// Unclassified errors report KindUnexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}
