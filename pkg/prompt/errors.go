package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrNoDescriptor is returned when Run receives a nil descriptor.
	ErrNoDescriptor = errors.New("prompt: descriptor is required")
	// ErrSubmit reports a submission that could not be delivered.
	ErrSubmit = errors.New("prompt: submit failed")
)
