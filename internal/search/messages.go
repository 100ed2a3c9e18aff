package search

import (
	"fmt"

	"urbanview/internal/geocode"
)

type debounceMsg struct {
	seq uint64
}

type resultMsg struct {
	seq     uint64
	query   string
	commit  bool
	results []geocode.Suggestion
	err     error
}

// SelectedMsg announces a new selection to whoever keeps the map in sync.
type SelectedMsg struct {
	Selection Selection
}

// NoticeMsg carries a non-fatal error meant for the user.
type NoticeMsg struct {
	Err error
}

// NotFoundError is returned when an explicit search has no matches.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("address not found: %q", e.Query)
}

// staleResultError marks a superseded result. It is logged, never surfaced.
type staleResultError struct {
	seq, current uint64
}

func (e *staleResultError) Error() string {
	return fmt.Sprintf("stale result: seq %d, current %d", e.seq, e.current)
}
