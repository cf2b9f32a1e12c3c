//go:build !windows

package systray

import (
	"testing"
	"time"
)

func TestRun_ReturnsAfterStop(t *testing.T) {
	m := NewManager(Actions{})
	done := make(chan struct{})
	go func() {
		m.Run()
		close(done)
	}()

	m.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
}
