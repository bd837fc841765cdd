// Package whispermac exposes the microphone capture engine: start and
// stop capture of the system default input, query and request
// microphone permission, and read a live loudness level.
//
// Captured audio is delivered to a consumer callback as raw frame
// batches: mono, 16-bit signed little-endian PCM at the configured
// sample rate, one batch per platform buffer. The consumer owns each
// batch and runs off the audio thread.
package whispermac

import (
	"context"
	"log/slog"

	"github.com/Explosion-Scratch/whisper-mac/internal/capture"
	"github.com/Explosion-Scratch/whisper-mac/internal/permissions"
)

// Options re-exports the capture options for callers of Start.
type Options = capture.Options

// Consumer receives frame batches in capture order.
type Consumer = func(batch []byte)

// Sentinel errors surfaced by Start and Stop.
var (
	ErrPermissionDenied = capture.ErrPermissionDenied
	ErrAlreadyRecording = capture.ErrAlreadyRecording
	ErrNotRecording     = capture.ErrNotRecording
	ErrInvalidConfig    = capture.ErrInvalidConfig
	ErrPlatform         = capture.ErrPlatform
)

// PermissionOracle is the OS microphone authorization surface.
type PermissionOracle interface {
	Check() permissions.Status
	Request(ctx context.Context) (bool, error)
}

// Engine is the operation surface over one capture session. It holds
// no state of its own beyond the session and the permission oracle.
type Engine struct {
	session *capture.Session
	oracle  PermissionOracle
}

// New creates an engine on the platform default driver. A nil logger
// means slog.Default().
func New(logger *slog.Logger) (*Engine, error) {
	driver, err := capture.DefaultDriver()
	if err != nil {
		return nil, err
	}
	return NewWithDriver(driver, permissions.NewChecker(), logger), nil
}

// NewWithDriver creates an engine on an explicit driver and oracle.
// Useful for tests and for hosts that bring their own audio backend.
func NewWithDriver(driver capture.Driver, oracle PermissionOracle, logger *slog.Logger) *Engine {
	return &Engine{
		session: capture.NewSession(driver, oracle, logger),
		oracle:  oracle,
	}
}

// Start begins capture and delivers frame batches to consumer. A nil
// opts selects the defaults (16 kHz, 4096-frame buffers).
func (e *Engine) Start(consumer Consumer, opts *Options) error {
	return e.session.Start(consumer, opts)
}

// Stop halts capture. After return no further batches are delivered.
func (e *Engine) Stop() error {
	return e.session.Stop()
}

// CheckPermission reads the OS microphone authorization status.
func (e *Engine) CheckPermission() permissions.Status {
	return e.oracle.Check()
}

// RequestPermission asks the OS for microphone access, prompting the
// user when the status is not yet determined.
func (e *Engine) RequestPermission(ctx context.Context) (bool, error) {
	return e.oracle.Request(ctx)
}

// GetLevel returns the RMS of the most recent frame batch in [0, 1].
func (e *Engine) GetLevel() float64 {
	return e.session.Level()
}

// IsRecording reports whether capture is running.
func (e *Engine) IsRecording() bool {
	return e.session.IsRecording()
}

// Close force-stops a running capture and releases the audio driver.
func (e *Engine) Close() error {
	return e.session.Close()
}
