//go:build !windows

package systray

import "log/slog"

// Run blocks until Stop; there is no tray outside Windows.
func (m *Manager) Run() {
	slog.Warn("System tray is only available on Windows")
	<-m.WaitForQuit()
}

// Stop ends Run.
func (m *Manager) Stop() {
	m.closeQuit()
}
