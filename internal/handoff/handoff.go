// Package handoff moves frame batches from the audio callback to a
// consumer goroutine through a bounded, non-blocking conduit.
package handoff

import (
	"sync"
	"sync/atomic"
)

// DefaultBacklog is the number of batches the conduit may hold before
// Post starts dropping. At the default 4096-frame/16 kHz configuration
// this is about four seconds of audio headroom.
const DefaultBacklog = 16

// Consumer receives frame batches in post order. It runs on a goroutine
// owned by the conduit, never on the audio thread. The batch is owned
// by the consumer once invoked.
type Consumer func(batch []byte)

// Conduit is a one-way channel from the audio thread to a consumer.
//
// Post never blocks: when the conduit is closed or the backlog is full
// the batch is dropped. Close is synchronous; once it returns the
// consumer will not be invoked again.
type Conduit struct {
	ch     chan []byte
	done   chan struct{}
	closed atomic.Bool
	wg     sync.WaitGroup

	closeOnce sync.Once
}

// Open binds consumer and starts the delivery goroutine.
// backlog <= 0 selects DefaultBacklog.
func Open(consumer Consumer, backlog int) *Conduit {
	if backlog <= 0 {
		backlog = DefaultBacklog
	}

	c := &Conduit{
		ch:   make(chan []byte, backlog),
		done: make(chan struct{}),
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-c.done:
				// Pending batches are dropped; stop means stop.
				return
			case batch := <-c.ch:
				consumer(batch)
			}
		}
	}()

	return c
}

// Post transfers ownership of batch to the conduit. It reports whether
// the batch was accepted; false means it was dropped because the
// conduit is closed or saturated. Safe to call from the audio thread.
func (c *Conduit) Post(batch []byte) bool {
	if c.closed.Load() {
		return false
	}

	select {
	case c.ch <- batch:
		return true
	default:
		return false
	}
}

// Close shuts the conduit down. It blocks until the delivery goroutine
// has exited, so on return no consumer invocation is running or will
// run. Idempotent.
func (c *Conduit) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.done)
	})
	c.wg.Wait()
}
