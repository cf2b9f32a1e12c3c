package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"markestedt/clipdrawer/config"
	"markestedt/clipdrawer/display"
	"markestedt/clipdrawer/menu"
	"markestedt/clipdrawer/overlay"
	"markestedt/clipdrawer/platform"
	"markestedt/clipdrawer/storage"
	"markestedt/clipdrawer/systray"
	"markestedt/clipdrawer/web"
)

// Console screen buffer applied at startup so long register lines never wrap
// into the next one.
const (
	bufferColumns = 1000
	bufferRows    = 1000
)

// Agent coordinates the overlay monitor, the register menu and the
// optional history, dashboard and tray.
type Agent struct {
	cfg     *config.Config
	opacity uint8

	console platform.Console
	windows platform.WindowSystem
	styler  platform.WindowStyler

	monitor *overlay.Monitor
	loop    *menu.Loop
	db      *storage.DB
	web     *web.Server
}

// NewAgent creates a new agent instance. dir holds the history database.
func NewAgent(cfg *config.Config, dir string, console platform.Console, opacity uint8) (*Agent, error) {
	clipboard, err := platform.NewClipboard()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize clipboard: %w", err)
	}

	key, err := cfg.HotkeyCode()
	if err != nil {
		return nil, fmt.Errorf("failed to parse hotkey: %w", err)
	}

	a := &Agent{
		cfg:     cfg,
		opacity: opacity,
		console: console,
		windows: platform.NewWindowSystem(),
		styler:  platform.NewWindowStyler(),
	}

	if cfg.History.Enabled {
		db, err := storage.Open(dir)
		if err != nil {
			slog.Warn("History disabled, failed to open database", "error", err)
		} else {
			a.db = db
		}
	}

	if cfg.Web.Enabled {
		a.web = web.NewServer(a.db, cfg, cfg.Web.Port)
	}

	opts := overlay.DefaultOptions()
	opts.Key = key
	opts.Fullscreen = cfg.Overlay.Fullscreen
	opts.Width = int32(cfg.Overlay.Width)
	opts.Height = int32(cfg.Overlay.Height)
	a.monitor = overlay.NewMonitor(platform.NewKeyState(), a.windows, clockwork.NewRealClock(), opts)

	loopOpts := []menu.Option{
		menu.WithInterval(cfg.PollInterval()),
		menu.WithPreview(display.Default(cfg.Menu.PreviewWidth)),
	}
	if rec := a.recorder(); rec != nil {
		loopOpts = append(loopOpts, menu.WithRecorder(rec))
	}
	if a.web != nil {
		loopOpts = append(loopOpts, menu.WithPublisher(a.web))
		a.web.SetOverlay(a.monitor)
	}
	a.loop = menu.New(console, clipboard, loopOpts...)

	return a, nil
}

func (a *Agent) recorder() menu.Recorder {
	if a.db == nil {
		return nil
	}
	rec := &historyRecorder{db: a.db}
	if a.web != nil {
		rec.web = a.web
	}
	return rec
}

// Run starts every service and blocks until the menu exits or ctx is
// cancelled. With the tray enabled it must be called on the main goroutine.
func (a *Agent) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if !a.cfg.Tray.Enabled {
		return a.run(ctx, cancel)
	}

	var dashboard string
	if a.web != nil {
		dashboard = a.web.URL()
	}
	tray := systray.NewManager(systray.Actions{
		DashboardURL: dashboard,
		Clear:        func() { a.loop.Submit(menu.CmdClear) },
		Quit: func() {
			a.loop.Submit(menu.CmdExit)
			cancel()
		},
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.run(ctx, cancel)
		tray.Stop()
	}()

	tray.Run()
	return <-errCh
}

func (a *Agent) run(ctx context.Context, cancel context.CancelFunc) error {
	a.setupOverlay()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		err := a.monitor.Run(ctx)
		slog.Debug("Overlay monitor stopped", "reason", err)
	}()

	if a.web != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := a.web.Start(); err != nil {
				slog.Error("Web server error", "error", err)
			}
		}()
	}

	slog.Info("clipdrawer started",
		"hotkey", a.cfg.Overlay.Hotkey,
		"fullscreen", a.cfg.Overlay.Fullscreen,
		"history", a.db != nil,
		"web", a.web != nil,
	)

	err := a.loop.Run(ctx)
	cancel()
	a.shutdown()
	wg.Wait()
	return err
}

// setupOverlay prepares the console window and hides it until the first
// toggle. Failures leave the console as it is.
func (a *Agent) setupOverlay() {
	win := a.windows.ConsoleWindow()

	if err := a.styler.SetBufferSize(bufferColumns, bufferRows); err != nil {
		slog.Warn("Failed to resize console buffer", "error", err)
	}
	if a.cfg.Overlay.Borderless {
		if err := a.styler.SetBorderless(win); err != nil {
			slog.Warn("Failed to remove console border", "error", err)
		}
	}
	if err := a.styler.SetOpacity(win, a.opacity); err != nil {
		slog.Warn("Failed to set console opacity", "error", err)
	}
	if err := a.windows.Show(win, false); err != nil {
		slog.Warn("Failed to hide console", "error", err)
	}
}

func (a *Agent) shutdown() {
	if a.web != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := a.web.Shutdown(ctx); err != nil {
			slog.Warn("Failed to stop web server", "error", err)
		}
	}

	// Leave the console usable after exit
	if err := a.windows.Show(a.windows.ConsoleWindow(), true); err != nil {
		slog.Debug("Failed to restore console", "error", err)
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			slog.Warn("Failed to close history database", "error", err)
		}
	}
}

// historyRecorder persists menu operations and forwards them to the
// dashboard.
type historyRecorder struct {
	db  *storage.DB
	web *web.Server
}

func (r *historyRecorder) Record(ev menu.Event) {
	op := &storage.Operation{
		Timestamp: ev.Time,
		Op:        string(ev.Op),
		Register:  ev.Register,
		Kind:      string(ev.Kind),
		SizeBytes: ev.Size,
		Success:   ev.Success,
		Message:   ev.Message,
	}

	if err := r.db.SaveOperation(op); err != nil {
		slog.Warn("Failed to record operation", "op", op.Op, "error", err)
		return
	}
	if r.web != nil {
		r.web.BroadcastOperation(op)
	}
}
