package capture

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// PortAudioDriver implements Driver on top of PortAudio, using the
// system default input device.
type PortAudioDriver struct {
	mu     sync.Mutex
	open   bool // a stream is currently open
	closed bool
}

// NewPortAudioDriver initializes the PortAudio subsystem.
func NewPortAudioDriver() (*PortAudioDriver, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	return &PortAudioDriver{}, nil
}

// Device describes an audio input device.
type Device struct {
	ID        int
	Name      string
	IsDefault bool
}

// ListDevices returns the available audio input devices. Capture
// always uses the default input; this is for diagnostics.
func (d *PortAudioDriver) ListDevices() ([]Device, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	defaultInput, err := portaudio.DefaultInputDevice()
	if err != nil {
		// Continue without marking any device as default.
		defaultInput = nil
	}

	var result []Device
	for i, dev := range devices {
		if dev.MaxInputChannels > 0 {
			result = append(result, Device{
				ID:        i,
				Name:      dev.Name,
				IsDefault: defaultInput != nil && dev.Name == defaultInput.Name,
			})
		}
	}
	return result, nil
}

// Open opens a mono int16 capture stream on the default input device.
func (d *PortAudioDriver) Open(cfg StreamConfig, cb Callback) (Stream, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, fmt.Errorf("driver is closed")
	}
	if d.open {
		return nil, fmt.Errorf("a stream is already open")
	}

	device, err := portaudio.DefaultInputDevice()
	if err != nil {
		return nil, fmt.Errorf("failed to get default input device: %w", err)
	}
	if device.MaxInputChannels <= 0 {
		return nil, fmt.Errorf("default device %q has no input channels", device.Name)
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: 1,
			Latency:  device.DefaultHighInputLatency,
		},
		SampleRate:      cfg.SampleRate,
		FramesPerBuffer: cfg.BufferFrames,
	}

	stream, err := portaudio.OpenStream(params, func(in []int16) { cb(in) })
	if err != nil {
		return nil, fmt.Errorf("failed to open stream: %w", err)
	}

	d.open = true
	return &portAudioStream{driver: d, stream: stream}, nil
}

// Close terminates the PortAudio subsystem.
func (d *PortAudioDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("failed to terminate PortAudio: %w", err)
	}
	return nil
}

type portAudioStream struct {
	driver  *PortAudioDriver
	stream  *portaudio.Stream
	stopped bool
}

func (s *portAudioStream) Start() error {
	if err := s.stream.Start(); err != nil {
		return fmt.Errorf("failed to start stream: %w", err)
	}
	return nil
}

func (s *portAudioStream) Stop() error {
	if s.stopped {
		return nil
	}
	s.stopped = true
	// portaudio.Stream.Stop blocks until the callback has drained.
	if err := s.stream.Stop(); err != nil {
		return fmt.Errorf("failed to stop stream: %w", err)
	}
	return nil
}

func (s *portAudioStream) Close() error {
	err := s.stream.Close()

	s.driver.mu.Lock()
	s.driver.open = false
	s.driver.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to close stream: %w", err)
	}
	return nil
}
