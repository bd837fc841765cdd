//go:build darwin

package capture

/*
#cgo LDFLAGS: -framework AudioToolbox -framework CoreFoundation

int wm_queue_open(double sampleRate, unsigned int bufferFrames);
int wm_queue_start(void);
int wm_queue_stop(void);
int wm_queue_dispose(void);
*/
import "C"

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"
)

// Global callback for the CGO bridge. One queue stream at a time.
var (
	queueCb   Callback
	queueCbMu sync.RWMutex
)

//export whispermacQueueCallback
func whispermacQueueCallback(data unsafe.Pointer, byteSize C.int) {
	n := int(byteSize) / 2
	if n <= 0 {
		return
	}

	queueCbMu.RLock()
	cb := queueCb
	queueCbMu.RUnlock()

	if cb == nil {
		return
	}

	// View the queue buffer as int16 without copying; the session
	// copies out before this callback returns.
	cb(unsafe.Slice((*int16)(data), n))
}

// AudioQueueDriver implements Driver on the AudioToolbox input queue,
// capturing from the system default input device. It allocates three
// reusable buffers per stream and primes them before start, giving the
// OS a two-deep lookahead so the audio thread never waits on pickup.
type AudioQueueDriver struct {
	mu   sync.Mutex
	open bool
}

// NewAudioQueueDriver creates the AudioQueue-backed driver.
func NewAudioQueueDriver() (*AudioQueueDriver, error) {
	return &AudioQueueDriver{}, nil
}

// Open allocates the input queue and primes its buffer set. On failure
// the queue has already been disposed; nothing partial survives.
func (d *AudioQueueDriver) Open(cfg StreamConfig, cb Callback) (Stream, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.open {
		return nil, errors.New("a queue stream is already open")
	}

	queueCbMu.Lock()
	queueCb = cb
	queueCbMu.Unlock()

	if status := C.wm_queue_open(C.double(cfg.SampleRate), C.uint(cfg.BufferFrames)); status != 0 {
		queueCbMu.Lock()
		queueCb = nil
		queueCbMu.Unlock()
		return nil, fmt.Errorf("audio queue setup failed (OSStatus %d)", int(status))
	}

	d.open = true
	return &audioQueueStream{driver: d}, nil
}

// Close releases the driver. The queue itself is per-stream state.
func (d *AudioQueueDriver) Close() error {
	return nil
}

type audioQueueStream struct {
	driver  *AudioQueueDriver
	stopped bool
}

func (s *audioQueueStream) Start() error {
	if status := C.wm_queue_start(); status != 0 {
		return fmt.Errorf("audio queue start failed (OSStatus %d)", int(status))
	}
	return nil
}

func (s *audioQueueStream) Stop() error {
	if s.stopped {
		return nil
	}
	s.stopped = true
	// Non-immediate: drains in-flight buffers before returning.
	if status := C.wm_queue_stop(); status != 0 {
		return fmt.Errorf("audio queue stop failed (OSStatus %d)", int(status))
	}
	return nil
}

func (s *audioQueueStream) Close() error {
	// Immediate disposal; no callbacks run after this returns.
	status := C.wm_queue_dispose()

	queueCbMu.Lock()
	queueCb = nil
	queueCbMu.Unlock()

	s.driver.mu.Lock()
	s.driver.open = false
	s.driver.mu.Unlock()

	if status != 0 {
		return fmt.Errorf("audio queue dispose failed (OSStatus %d)", int(status))
	}
	return nil
}
