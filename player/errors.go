package player

import (
	"errors"
	"fmt"
)

// Kind classifies playback failures.
type Kind string

const (
	// KindInvalidInput is a bad filename or offset: blank, absolute, or escaping the root.
	KindInvalidInput Kind = "invalid_input"

	// KindFileNotFound means the resolved file does not exist.
	KindFileNotFound Kind = "file_not_found"

	// KindPlayerUnavailable means the player binary could not be found.
	KindPlayerUnavailable Kind = "player_unavailable"

	// KindLaunchFailed covers every other spawn failure.
	KindLaunchFailed Kind = "launch_failed"
)

// Error is the failure half of every Manager operation.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the Kind of err, or the empty Kind when err is not an *Error.
func KindOf(err error) Kind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return ""
}
