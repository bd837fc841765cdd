//go:build !darwin

package capture

// DefaultDriver returns the platform's preferred capture driver.
// Outside macOS that is PortAudio.
func DefaultDriver() (Driver, error) {
	return NewPortAudioDriver()
}
