package capture

import (
	"errors"
	"sync"
)

// DummyDriver is an in-memory Driver producing no audio on its own;
// tests (or callers without hardware) feed samples through the
// stream's Push method, which plays the role of the audio thread.
//
// This driver is intended for testing only!
type DummyDriver struct {
	// Optional fault injection. Checked once at the matching call.
	OpenErr  error
	StartErr error
	StopErr  error

	mu     sync.Mutex
	last   *DummyStream
	closed bool
}

// NewDummyDriver creates a dummy driver.
func NewDummyDriver() *DummyDriver {
	return &DummyDriver{}
}

// Open returns a DummyStream bound to cb.
func (d *DummyDriver) Open(cfg StreamConfig, cb Callback) (Stream, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, errors.New("driver is closed")
	}
	if d.OpenErr != nil {
		err := d.OpenErr
		d.OpenErr = nil
		return nil, err
	}

	s := &DummyStream{driver: d, cfg: cfg, cb: cb}
	d.last = s
	return s, nil
}

// Close marks the driver closed.
func (d *DummyDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// LastStream returns the stream from the most recent Open.
func (d *DummyDriver) LastStream() *DummyStream {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

// DummyStream simulates one capture stream. Push delivers a buffer to
// the callback exactly as the platform audio thread would: only while
// started, and never after Stop has returned.
type DummyStream struct {
	driver *DummyDriver
	cfg    StreamConfig
	cb     Callback

	mu      sync.Mutex
	started bool
	closed  bool
}

// Config returns the StreamConfig the stream was opened with.
func (s *DummyStream) Config() StreamConfig { return s.cfg }

func (s *DummyStream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.driver.StartErr; err != nil {
		s.driver.StartErr = nil
		return err
	}
	s.started = true
	return nil
}

// Stop blocks until any in-flight Push has returned, matching the
// platform guarantee that no callback runs after Stop.
func (s *DummyStream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.driver.StopErr; err != nil {
		s.driver.StopErr = nil
		return err
	}
	s.started = false
	return nil
}

func (s *DummyStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = false
	s.closed = true
	return nil
}

// Push invokes the callback with in, simulating one buffer delivery
// from the audio thread. Silently dropped while the stream is not
// started, like a real queue after its flag check.
func (s *DummyStream) Push(in []int16) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.cb(in)
}
