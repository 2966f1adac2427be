package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoChoices is returned when a choice field has nothing to select.
	ErrNoChoices = errors.New("tui: choice field has no options")
)
