package capture

import (
	"errors"
	"fmt"
)

// ErrPermissionDenied is returned by Start when the OS has not
// authorized microphone access. Recoverable: request permission and
// start again.
var ErrPermissionDenied = errors.New("capture: microphone permission denied")

// ErrAlreadyRecording is returned by Start on a session that is not idle.
var ErrAlreadyRecording = errors.New("capture: already recording")

// ErrNotRecording is returned by Stop on an idle session. Non-fatal.
var ErrNotRecording = errors.New("capture: not recording")

// ErrInvalidConfig is returned by Start when options are out of range.
var ErrInvalidConfig = errors.New("capture: invalid configuration")

// ErrPlatform matches any *PlatformError via errors.Is.
var ErrPlatform = errors.New("capture: platform failure")

// PlatformError wraps a failed OS audio call. The session is driven
// back to idle with all resources released before one is surfaced.
type PlatformError struct {
	Op  string // "open", "start", "stop", "dispose"
	Err error  // opaque OS detail
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("capture: platform failure during %s: %v", e.Op, e.Err)
}

func (e *PlatformError) Unwrap() error { return e.Err }

func (e *PlatformError) Is(target error) bool { return target == ErrPlatform }
