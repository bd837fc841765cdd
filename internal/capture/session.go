// Package capture drives one microphone capture stream: it owns the
// platform audio stream, meters loudness, and hands frame batches to a
// consumer through a non-blocking conduit.
package capture

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/Explosion-Scratch/whisper-mac/internal/handoff"
	"github.com/Explosion-Scratch/whisper-mac/internal/level"
	"github.com/Explosion-Scratch/whisper-mac/internal/permissions"
)

// Default capture format: 16 kHz mono s16le in 4096-frame buffers,
// roughly 256 ms of audio per batch. Consumers rely on these unless
// they opt in to other values via Options.
const (
	DefaultSampleRate   = 16000
	DefaultBufferFrames = 4096

	MinSampleRate = 8000
	MaxSampleRate = 48000

	MinBufferFrames = 256
	MaxBufferFrames = 16384
)

// Options configures a capture stream. Zero fields take the defaults.
type Options struct {
	SampleRate   float64 // Hz, [8000, 48000]
	BufferFrames int     // frames per buffer, [256, 16384]
}

// DefaultOptions returns the canonical capture configuration.
func DefaultOptions() Options {
	return Options{
		SampleRate:   DefaultSampleRate,
		BufferFrames: DefaultBufferFrames,
	}
}

func (o Options) validate() error {
	if o.SampleRate < MinSampleRate || o.SampleRate > MaxSampleRate {
		return fmt.Errorf("%w: sample rate %g outside [%d, %d]",
			ErrInvalidConfig, o.SampleRate, MinSampleRate, MaxSampleRate)
	}
	if o.BufferFrames < MinBufferFrames || o.BufferFrames > MaxBufferFrames {
		return fmt.Errorf("%w: buffer frames %d outside [%d, %d]",
			ErrInvalidConfig, o.BufferFrames, MinBufferFrames, MaxBufferFrames)
	}
	return nil
}

// State represents the session lifecycle state.
type State int

const (
	// Idle means no stream is open.
	Idle State = iota
	// Starting means Start is acquiring platform resources.
	Starting
	// Recording means the stream is running and batches flow.
	Recording
	// Stopping means Stop is draining and releasing the stream.
	Stopping
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Starting:
		return "Starting"
	case Recording:
		return "Recording"
	case Stopping:
		return "Stopping"
	default:
		return "Unknown"
	}
}

// Oracle is the microphone permission source consulted on Start.
type Oracle interface {
	Check() permissions.Status
}

// Session owns one microphone capture stream and its lifecycle.
//
// Start and Stop serialize under the session mutex. The audio callback
// never takes that mutex: it gates on an atomic recording flag, so a
// callback in flight during teardown exits without touching released
// resources.
type Session struct {
	driver Driver
	oracle Oracle
	log    *slog.Logger
	id     uuid.UUID

	mu      sync.Mutex
	state   State
	stream  Stream
	conduit *handoff.Conduit
	opts    Options

	// Written only while the mutex is held and the stream is quiescent;
	// read lock-free by the audio callback after the flag check.
	recording atomic.Bool
	meter     level.Meter
}

// NewSession creates an idle session on the given driver. The oracle
// is consulted on every Start; a nil logger means slog.Default().
func NewSession(driver Driver, oracle Oracle, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.New()
	return &Session{
		driver: driver,
		oracle: oracle,
		log:    logger.With("session", id.String()),
		id:     id,
	}
}

// ID returns the session identifier used in log records.
func (s *Session) ID() uuid.UUID { return s.id }

// Start opens the default microphone and begins delivering frame
// batches to consumer. A nil opts selects the default format; zero
// fields in opts take their defaults.
//
// Errors: ErrInvalidConfig, ErrPermissionDenied, ErrAlreadyRecording,
// or a *PlatformError with all partial resources already released.
func (s *Session) Start(consumer handoff.Consumer, opts *Options) error {
	if consumer == nil {
		return errors.New("capture: nil consumer")
	}

	resolved := DefaultOptions()
	if opts != nil {
		if opts.SampleRate != 0 {
			resolved.SampleRate = opts.SampleRate
		}
		if opts.BufferFrames != 0 {
			resolved.BufferFrames = opts.BufferFrames
		}
	}
	if err := resolved.validate(); err != nil {
		return err
	}

	// The oracle is consulted before any resource is touched. A
	// pending permission prompt does not count as granted.
	if status := s.oracle.Check(); !status.Granted() {
		s.log.Warn("start refused, microphone not authorized", "status", status.String())
		return fmt.Errorf("%w (status %s)", ErrPermissionDenied, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Idle {
		return ErrAlreadyRecording
	}
	s.state = Starting

	conduit := handoff.Open(consumer, 0)

	stream, err := s.driver.Open(StreamConfig{
		SampleRate:   resolved.SampleRate,
		BufferFrames: resolved.BufferFrames,
	}, s.onAudio)
	if err != nil {
		conduit.Close()
		s.state = Idle
		return &PlatformError{Op: "open", Err: err}
	}

	// Publish the conduit and zero the meter before raising the flag;
	// the atomic store orders these writes for the audio callback.
	s.conduit = conduit
	s.meter.Reset()
	s.recording.Store(true)

	if err := stream.Start(); err != nil {
		s.recording.Store(false)
		_ = stream.Close()
		// The field keeps pointing at the closed conduit: a straggling
		// callback must find something Post-able, never nil.
		conduit.Close()
		s.state = Idle
		return &PlatformError{Op: "start", Err: err}
	}

	s.stream = stream
	s.opts = resolved
	s.state = Recording

	s.log.Info("capture started",
		"sampleRate", resolved.SampleRate,
		"bufferFrames", resolved.BufferFrames)
	return nil
}

// Stop halts capture and releases the stream. Synchronous: once Stop
// returns, no further batches reach the consumer. The level cell keeps
// its final reading until the next Start.
//
// Returns ErrNotRecording on an idle session; a *PlatformError from
// the OS still leaves the session idle with everything released.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopLocked()
}

func (s *Session) stopLocked() error {
	if s.state != Recording {
		return ErrNotRecording
	}
	s.state = Stopping

	// Flag first: a callback landing after this point is a no-op, so
	// disposing the stream underneath it is safe.
	s.recording.Store(false)

	var firstErr error
	if err := s.stream.Stop(); err != nil {
		firstErr = &PlatformError{Op: "stop", Err: err}
	}
	if err := s.stream.Close(); err != nil && firstErr == nil {
		firstErr = &PlatformError{Op: "dispose", Err: err}
	}
	s.stream = nil

	// After this no consumer invocation is running or pending. The
	// closed conduit stays assigned so a straggling callback posts
	// into it harmlessly instead of dereferencing nil.
	s.conduit.Close()

	s.state = Idle
	s.log.Info("capture stopped", "level", s.meter.Level())
	return firstErr
}

// Close force-stops a recording session and releases the driver. It
// never fails fatally: stop errors are logged and swallowed so the
// platform resources are released regardless.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.state == Recording {
		if err := s.stopLocked(); err != nil {
			s.log.Error("forced stop during close", "err", err)
		}
	}
	s.mu.Unlock()

	return s.driver.Close()
}

// Level returns the RMS of the most recent frame batch, in [0, 1].
// Callable from any goroutine at any time; while idle it reports the
// last value written (reset to 0 on every Start).
func (s *Session) Level() float64 {
	return s.meter.Level()
}

// IsRecording reports whether the session is currently capturing.
func (s *Session) IsRecording() bool {
	return s.recording.Load()
}

// State returns the lifecycle state for diagnostics.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Options returns the configuration of the current or last stream.
func (s *Session) Options() Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

// onAudio runs on the platform audio thread. Real-time contract: one
// batch-sized allocation, no locks, no blocking sends.
func (s *Session) onAudio(in []int16) {
	if !s.recording.Load() {
		return
	}

	batch := make([]byte, len(in)*2)
	for i, sample := range in {
		batch[2*i] = byte(sample)
		batch[2*i+1] = byte(sample >> 8)
	}

	s.meter.Update(batch)

	// Dropped batches are lost silently; the audio thread has no legal
	// way to report upward.
	s.conduit.Post(batch)
}
