package capture

// Callback receives one buffer of 16-bit mono samples on the platform's
// audio thread. The slice is owned by the driver and reused after the
// callback returns; implementations of the callback must copy what
// they keep and must not block.
type Callback func(in []int16)

// StreamConfig describes the capture format handed to a driver:
// mono, linear PCM, 16-bit signed, packed, at SampleRate, delivered
// BufferFrames samples at a time.
type StreamConfig struct {
	SampleRate   float64
	BufferFrames int
}

// Stream is one open capture stream on the platform audio subsystem.
type Stream interface {
	// Start begins delivering buffers to the callback.
	Start() error

	// Stop halts delivery. After Stop returns no further callbacks run
	// for this stream.
	Stop() error

	// Close releases the stream and its buffers synchronously.
	Close() error
}

// Driver is the platform audio input subsystem. The session owns one
// driver and opens at most one stream at a time on it.
//
// The abstraction mirrors the usual host-API shape (PortAudio,
// AudioQueue): the driver holds subsystem-global state, streams hold
// per-capture state.
type Driver interface {
	// Open prepares a capture stream for cfg, binding cb as its audio
	// callback. The stream is not started. On failure every partially
	// acquired resource has been released.
	Open(cfg StreamConfig, cb Callback) (Stream, error)

	// Close releases the subsystem. No streams may be open.
	Close() error
}
