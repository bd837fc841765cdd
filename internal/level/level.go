// Package level computes a normalized loudness reading from PCM frame
// batches and publishes it through a lock-free scalar cell.
package level

import (
	"math"
	"sync/atomic"
)

// RMS computes the root-mean-square amplitude of a batch of 16-bit
// signed little-endian mono samples, normalized to [0, 1].
// An empty batch (or a trailing odd byte alone) yields 0.
func RMS(pcm []byte) float64 {
	sampleCount := len(pcm) / 2
	if sampleCount == 0 {
		return 0
	}

	var sum float64
	for i := 0; i < sampleCount; i++ {
		s := int16(pcm[2*i]) | int16(pcm[2*i+1])<<8
		v := float64(s) / 32768.0
		sum += v * v
	}

	rms := math.Sqrt(sum / float64(sampleCount))
	if rms > 1 {
		rms = 1
	}
	return rms
}

// Meter holds the most recent RMS reading for one capture session.
//
// It is a single-writer/multi-reader cell: the audio callback writes,
// any goroutine reads. Float bits are kept in an atomic uint32 so
// neither side takes a lock; readers may observe a value up to one
// callback period stale.
type Meter struct {
	bits atomic.Uint32
}

// Update computes the RMS of batch and stores it. Pure arithmetic,
// no allocation; safe to call from the audio callback.
func (m *Meter) Update(batch []byte) {
	m.bits.Store(math.Float32bits(float32(RMS(batch))))
}

// Level returns the last stored reading, always in [0, 1].
func (m *Meter) Level() float64 {
	return float64(math.Float32frombits(m.bits.Load()))
}

// Reset clears the cell to 0. Called on every capture start.
func (m *Meter) Reset() {
	m.bits.Store(0)
}

// Active reports whether the last reading is above threshold.
// A cheap speech/silence hint for UIs; not a voice activity detector.
func (m *Meter) Active(threshold float64) bool {
	return m.Level() >= threshold
}
