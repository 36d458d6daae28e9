package submission

import (
	"errors"
	"fmt"
)

var (
	// ErrNotValidated is returned when Submit receives anything but a valid
	// validation result.
	ErrNotValidated = errors.New("submission: input has not passed validation")
	// ErrSubmissionInFlight is returned when Submit is called while the
	// handler is not idle.
	ErrSubmissionInFlight = errors.New("submission: a submission is already in progress")
	// ErrClosed is returned once the handler has been torn down.
	ErrClosed = errors.New("submission: handler is closed")
)

// DispatchError reports that the external-open side effect failed. The
// handler has already rolled back to idle when this is returned.
type DispatchError struct {
	URL string
	Err error
}

func (e *DispatchError) Error() string {
	if e.Err == nil {
		return "submission: dispatch failed"
	}
	return fmt.Sprintf("submission: dispatch failed: %v", e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }
