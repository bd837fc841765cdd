//go:build darwin

package permissions

/*
#cgo CFLAGS: -x objective-c -fmodules
#cgo LDFLAGS: -framework AVFoundation

int whispermac_mic_status(void);
void whispermac_mic_request(unsigned long long reqID);
*/
import "C"

import (
	"context"
	"sync"
)

// Pending prompt completions, keyed by request id. The completion
// handler runs on a dispatch queue owned by AVFoundation, so the
// registry is the bridge back onto a Go channel.
var (
	requestMu   sync.Mutex
	requestSeq  uint64
	requestDone = make(map[uint64]chan bool)
)

//export whispermacMicRequestDone
func whispermacMicRequestDone(reqID C.ulonglong, granted C.int) {
	requestMu.Lock()
	ch, ok := requestDone[uint64(reqID)]
	delete(requestDone, uint64(reqID))
	requestMu.Unlock()

	if ok {
		ch <- granted == 1
	}
}

func checkMicrophone() Status {
	return Status(C.whispermac_mic_status())
}

func requestMicrophone(ctx context.Context) (bool, error) {
	// Only NotDetermined triggers a prompt; any other status resolves
	// immediately so revocation stays observable per call.
	if status := checkMicrophone(); status != NotDetermined {
		return status.Granted(), nil
	}

	requestMu.Lock()
	requestSeq++
	id := requestSeq
	ch := make(chan bool, 1)
	requestDone[id] = ch
	requestMu.Unlock()

	C.whispermac_mic_request(C.ulonglong(id))

	select {
	case granted := <-ch:
		return granted, nil
	case <-ctx.Done():
		requestMu.Lock()
		delete(requestDone, id)
		requestMu.Unlock()
		return false, ctx.Err()
	}
}
