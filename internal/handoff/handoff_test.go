package handoff

import (
	"sync"
	"testing"
	"time"
)

func TestPost_DeliversInOrder(t *testing.T) {
	var mu sync.Mutex
	var got [][]byte
	delivered := make(chan struct{}, 64)

	c := Open(func(batch []byte) {
		mu.Lock()
		got = append(got, batch)
		mu.Unlock()
		delivered <- struct{}{}
	}, 0)
	defer c.Close()

	want := [][]byte{{1}, {2, 2}, {3, 3, 3}, {4}}
	for _, b := range want {
		if !c.Post(b) {
			t.Fatalf("Post(%v) dropped", b)
		}
	}

	for range want {
		select {
		case <-delivered:
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for delivery")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != len(want) {
		t.Fatalf("delivered %d batches, want %d", len(got), len(want))
	}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			t.Errorf("batch %d: got len %d, want len %d", i, len(got[i]), len(want[i]))
		}
	}
}

func TestPost_DropsWhenSaturated(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})

	c := Open(func(batch []byte) {
		close(started)
		<-block
	}, 2)
	defer func() {
		close(block)
		c.Close()
	}()

	// First batch goes straight into the consumer; wait until it is
	// stuck there so the backlog fills deterministically.
	if !c.Post([]byte{0}) {
		t.Fatal("first Post dropped")
	}
	<-started

	if !c.Post([]byte{1}) {
		t.Fatal("second Post dropped, backlog should hold it")
	}
	if !c.Post([]byte{2}) {
		t.Fatal("third Post dropped, backlog should hold it")
	}

	// Backlog of 2 is now full and the consumer is blocked.
	if c.Post([]byte{3}) {
		t.Error("Post accepted a batch beyond the backlog bound")
	}
}

func TestClose_StopsDelivery(t *testing.T) {
	var mu sync.Mutex
	count := 0

	c := Open(func(batch []byte) {
		mu.Lock()
		count++
		mu.Unlock()
	}, 4)

	c.Post([]byte{1})
	c.Close()

	mu.Lock()
	after := count
	mu.Unlock()

	if c.Post([]byte{2}) {
		t.Error("Post after Close should report dropped")
	}

	// No consumer invocation may happen once Close has returned.
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if count != after {
		t.Errorf("consumer invoked after Close: %d -> %d", after, count)
	}
}

func TestClose_Idempotent(t *testing.T) {
	c := Open(func([]byte) {}, 0)
	c.Close()
	c.Close()
}

func TestClose_WaitsForInFlightConsumer(t *testing.T) {
	inConsumer := make(chan struct{})
	release := make(chan struct{})
	finished := make(chan struct{})

	c := Open(func([]byte) {
		close(inConsumer)
		<-release
		close(finished)
	}, 1)

	c.Post([]byte{1})
	<-inConsumer

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(release)
	}()

	c.Close()

	select {
	case <-finished:
	default:
		t.Error("Close returned while a consumer invocation was still running")
	}
}
