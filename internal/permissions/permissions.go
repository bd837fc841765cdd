// Package permissions is a stateless facade over the OS microphone
// authorization subsystem. Nothing is cached: every call asks the OS,
// so a permission revoked between calls is observable.
package permissions

import "context"

// Status represents the OS-level microphone authorization status.
// The values mirror AVFoundation's AVAuthorizationStatus.
type Status int

const (
	// NotDetermined means the user has not been asked yet.
	NotDetermined Status = 0
	// Restricted means access is blocked by system policy (e.g. parental
	// controls) and the user cannot change it.
	Restricted Status = 1
	// Denied means the user has explicitly refused microphone access.
	Denied Status = 2
	// Authorized means microphone access is granted.
	Authorized Status = 3
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case NotDetermined:
		return "NotDetermined"
	case Restricted:
		return "Restricted"
	case Denied:
		return "Denied"
	case Authorized:
		return "Authorized"
	default:
		return "Unknown"
	}
}

// Granted reports whether the status allows capture to start.
func (s Status) Granted() bool {
	return s == Authorized
}

// Checker queries and requests microphone authorization.
type Checker struct{}

// NewChecker creates a new permission checker.
func NewChecker() *Checker {
	return &Checker{}
}

// Check reads the current microphone authorization status from the OS.
// No side effects.
func (c *Checker) Check() Status {
	return checkMicrophone()
}

// Request resolves to whether microphone access is granted. When the
// status is NotDetermined it triggers the OS permission prompt and
// waits for the user's answer; otherwise it resolves immediately.
// The context bounds only the wait, not the OS prompt itself.
func (c *Checker) Request(ctx context.Context) (bool, error) {
	return requestMicrophone(ctx)
}
