//go:build darwin

package capture

// DefaultDriver returns the platform's preferred capture driver.
// On macOS that is the AudioToolbox input queue.
func DefaultDriver() (Driver, error) {
	return NewAudioQueueDriver()
}
