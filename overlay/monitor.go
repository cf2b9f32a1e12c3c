// Package overlay shows and hides the console overlay on a double tap of a
// designated key, placing it over whatever window currently has focus.
package overlay

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"markestedt/clipdrawer/platform"
)

// Options configures the gesture timing and overlay geometry.
type Options struct {
	// Key is the virtual key code of the toggle key.
	Key        int
	// Fullscreen covers the whole foreground window instead of a centered box.
	Fullscreen bool
	Width      int32
	Height     int32

	IdlePoll      time.Duration
	ReleasePoll   time.Duration
	ReleaseChecks int
	CyclePause    time.Duration
}

// DefaultOptions returns right control, a 500x200 box and the stock timings.
func DefaultOptions() Options {
	return Options{
		Key:           platform.VKRControl,
		Width:         500,
		Height:        200,
		IdlePoll:      50 * time.Millisecond,
		ReleasePoll:   5 * time.Millisecond,
		ReleaseChecks: 40,
		CyclePause:    100 * time.Millisecond,
	}
}

// Monitor watches the toggle key and flips the overlay's visibility.
type Monitor struct {
	keys    platform.KeyState
	windows platform.WindowSystem
	clock   clockwork.Clock
	opts    Options

	overlay platform.Window
	visible atomic.Bool
}

// NewMonitor creates a monitor for the console window of ws. The overlay is
// assumed hidden.
func NewMonitor(keys platform.KeyState, ws platform.WindowSystem, clock clockwork.Clock, opts Options) *Monitor {
	return &Monitor{
		keys:    keys,
		windows: ws,
		clock:   clock,
		opts:    opts,
		overlay: ws.ConsoleWindow(),
	}
}

// Visible reports whether the overlay is currently shown. It is safe to
// call from any goroutine.
func (m *Monitor) Visible() bool {
	return m.visible.Load()
}

// Run polls for the toggle gesture until ctx is cancelled and returns
// ctx.Err().
func (m *Monitor) Run(ctx context.Context) error {
	slog.Info("Overlay monitor started", "key", m.opts.Key, "fullscreen", m.opts.Fullscreen)

	for {
		confirmed, err := m.awaitGesture(ctx)
		if err != nil {
			return err
		}
		if confirmed {
			m.Toggle()
		}

		if err := m.sleep(ctx, m.opts.CyclePause); err != nil {
			return err
		}
	}
}

// awaitGesture blocks through press, release, and a grace period. It reports
// true only when the key goes down again within the grace period.
func (m *Monitor) awaitGesture(ctx context.Context) (bool, error) {
	for !m.keys.Pressed(m.opts.Key) {
		if err := m.sleep(ctx, m.opts.IdlePoll); err != nil {
			return false, err
		}
	}

	for m.keys.Pressed(m.opts.Key) {
		if err := m.sleep(ctx, m.opts.IdlePoll); err != nil {
			return false, err
		}
	}

	for i := 0; i < m.opts.ReleaseChecks; i++ {
		if m.keys.Pressed(m.opts.Key) {
			return true, nil
		}
		if err := m.sleep(ctx, m.opts.ReleasePoll); err != nil {
			return false, err
		}
	}

	return false, nil
}

// Toggle flips the overlay's visibility. When revealing it, the overlay is
// first moved over the foreground window.
func (m *Monitor) Toggle() {
	visible := !m.visible.Load()
	if visible {
		m.reposition()
	}

	m.visible.Store(visible)
	if err := m.windows.Show(m.overlay, visible); err != nil {
		slog.Debug("Failed to change overlay visibility", "visible", visible, "error", err)
	}

	if visible {
		if err := m.windows.SetForeground(m.overlay); err != nil {
			slog.Debug("Failed to foreground overlay", "error", err)
		}
	}
}

func (m *Monitor) reposition() {
	fg, err := m.windows.ForegroundWindow()
	if err != nil {
		slog.Debug("No foreground window, toggling in place", "error", err)
		return
	}
	if fg == m.overlay {
		return
	}

	placement, err := m.Place(fg)
	if err != nil {
		slog.Debug("Failed to compute overlay placement", "error", err)
		return
	}

	if err := m.windows.SetPlacement(m.overlay, placement); err != nil {
		slog.Debug("Failed to place overlay", "error", err)
		return
	}

	if err := m.windows.SetForeground(m.overlay); err != nil {
		slog.Debug("Failed to foreground overlay", "error", err)
	}
}

func (m *Monitor) sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-m.clock.After(d):
		return nil
	}
}
