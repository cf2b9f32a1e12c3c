package systray

import (
	"log/slog"

	"github.com/getlantern/systray"
)

// Run starts the system tray (blocking call). It must run on the main
// goroutine.
func (m *Manager) Run() {
	systray.Run(m.onReady, m.onExit)
}

// Stop stops the system tray
func (m *Manager) Stop() {
	systray.Quit()
}

// onReady is called when the systray is ready
func (m *Manager) onReady() {
	if len(m.iconData) > 0 {
		systray.SetIcon(m.iconData)
	}
	systray.SetTitle("clipdrawer")
	systray.SetTooltip("clipdrawer - Clipboard Registers")

	mOpen := systray.AddMenuItem("Open Dashboard", "Open the clipdrawer web dashboard")
	if m.actions.DashboardURL == "" {
		mOpen.Disable()
	}
	mClear := systray.AddMenuItem("Clear Registers", "Empty every register")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Exit clipdrawer")

	go func() {
		for {
			select {
			case <-mOpen.ClickedCh:
				m.openDashboard()
			case <-mClear.ClickedCh:
				m.requestClear()
			case <-mQuit.ClickedCh:
				m.requestQuit()
				systray.Quit()
				return
			case <-m.WaitForQuit():
				return
			}
		}
	}()
}

// onExit is called when the systray is exiting
func (m *Manager) onExit() {
	m.closeQuit()
	slog.Info("System tray exited")
}
