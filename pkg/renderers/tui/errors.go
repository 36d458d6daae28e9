package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoForm is returned when the view carries no form to prompt for.
	ErrNoForm = errors.New("tui: view has no form")
	// ErrDeclined is returned when the user declines to send the message.
	ErrDeclined = errors.New("tui: submission declined")
)
