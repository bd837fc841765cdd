package permissions

import (
	"context"
	"runtime"
	"testing"
	"time"
)

func TestNewChecker(t *testing.T) {
	if NewChecker() == nil {
		t.Fatal("expected non-nil Checker")
	}
}

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status   Status
		expected string
	}{
		{NotDetermined, "NotDetermined"},
		{Restricted, "Restricted"},
		{Denied, "Denied"},
		{Authorized, "Authorized"},
		{Status(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.status.String(); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestStatus_Values(t *testing.T) {
	// The raw values are AVFoundation's and must not drift.
	if NotDetermined != 0 || Restricted != 1 || Denied != 2 || Authorized != 3 {
		t.Errorf("status constants drifted: %d %d %d %d",
			NotDetermined, Restricted, Denied, Authorized)
	}
}

func TestStatus_Granted(t *testing.T) {
	for _, s := range []Status{NotDetermined, Restricted, Denied} {
		if s.Granted() {
			t.Errorf("%v.Granted() = true, want false", s)
		}
	}
	if !Authorized.Granted() {
		t.Error("Authorized.Granted() = false, want true")
	}
}

func TestCheck(t *testing.T) {
	status := NewChecker().Check()

	if status < NotDetermined || status > Authorized {
		t.Errorf("Check returned out-of-range status %d", status)
	}

	if runtime.GOOS != "darwin" && status != Authorized {
		t.Errorf("Check on %s = %v, want Authorized", runtime.GOOS, status)
	}
}

func TestCheck_NoSideEffect(t *testing.T) {
	c := NewChecker()

	first := c.Check()
	second := c.Check()
	if first != second {
		t.Errorf("back-to-back Check changed status: %v -> %v", first, second)
	}
}

func TestRequest_ResolvesWithoutPrompt(t *testing.T) {
	c := NewChecker()

	if c.Check() == NotDetermined {
		t.Skip("status NotDetermined, request would show the OS prompt")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	granted, err := c.Request(ctx)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if granted != c.Check().Granted() {
		t.Errorf("Request = %v, inconsistent with Check() = %v", granted, c.Check())
	}
}

func TestRequest_CancelledContext(t *testing.T) {
	if runtime.GOOS == "darwin" {
		// On darwin a cancelled context still resolves immediately when
		// the status is already determined; only the prompt wait is
		// cancellable. Skip to avoid depending on local privacy state.
		t.Skip("prompt-dependent on darwin")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewChecker().Request(ctx); err == nil {
		t.Error("expected context error from cancelled Request")
	}
}
