// Package systray shows the tray icon with dashboard, clear and quit
// actions.
package systray

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"sync"
)

//go:embed icon.ico
var defaultIcon []byte

// Actions are invoked from the tray menu goroutine.
type Actions struct {
	// DashboardURL enables "Open Dashboard" when set.
	DashboardURL string
	Clear        func()
	Quit         func()
}

// Manager manages the system tray icon and menu
type Manager struct {
	actions  Actions
	iconData []byte

	quit     chan struct{}
	quitOnce sync.Once
}

// NewManager creates a new tray manager
func NewManager(actions Actions) *Manager {
	return &Manager{
		actions:  actions,
		iconData: defaultIcon,
		quit:     make(chan struct{}),
	}
}

// WaitForQuit returns a channel that will be closed when the tray exits
func (m *Manager) WaitForQuit() <-chan struct{} {
	return m.quit
}

func (m *Manager) closeQuit() {
	m.quitOnce.Do(func() { close(m.quit) })
}

// requestQuit runs the quit action once, however many times it is clicked.
func (m *Manager) requestQuit() {
	first := false
	m.quitOnce.Do(func() {
		first = true
		close(m.quit)
	})
	if first && m.actions.Quit != nil {
		slog.Info("User requested quit from system tray")
		m.actions.Quit()
	}
}

func (m *Manager) requestClear() {
	if m.actions.Clear == nil {
		return
	}
	slog.Info("User requested clear from system tray")
	m.actions.Clear()
}

// openDashboard opens the dashboard in the default browser
func (m *Manager) openDashboard() {
	url := m.actions.DashboardURL
	slog.Info("Opening dashboard", "url", url)

	cmd, err := browserCommand(runtime.GOOS, url)
	if err != nil {
		slog.Error("Failed to open dashboard", "error", err)
		return
	}
	if err := cmd.Start(); err != nil {
		slog.Error("Failed to open dashboard", "error", err)
	}
}

func browserCommand(goos, url string) (*exec.Cmd, error) {
	switch goos {
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url), nil
	case "darwin":
		return exec.Command("open", url), nil
	case "linux":
		return exec.Command("xdg-open", url), nil
	default:
		return nil, fmt.Errorf("unsupported platform for opening browser: %s", goos)
	}
}
