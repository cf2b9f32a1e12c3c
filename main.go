package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"markestedt/clipdrawer/config"
	"markestedt/clipdrawer/logutil"
	"markestedt/clipdrawer/platform"
)

// flags holds the command line overrides.
type flags struct {
	configPath string
	fullscreen bool
	borderless bool
	width      int
	height     int
	opacity    int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f *flags

	cmd := &cobra.Command{
		Use:   "clipdrawer",
		Short: "Console overlay with clipboard registers",
		Long: `clipdrawer keeps a console window hidden until the hotkey (right
control by default) is tapped twice, then shows it over the focused window.
The console holds 36 clipboard registers (0-9, a-z) that are stored with
's', loaded with 'l' and cleared with 'c'. 'x' exits.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, *f)
		},
	}
	f = bindFlags(cmd)

	return cmd
}

func bindFlags(cmd *cobra.Command) *flags {
	f := &flags{}
	fs := cmd.Flags()
	fs.BoolVarP(&f.fullscreen, "fullscreen-overlay", "f", false, "cover the whole foreground window")
	fs.BoolVarP(&f.borderless, "borderless", "b", false, "remove the console window border")
	fs.IntVarP(&f.width, "console-width", "W", config.DefaultWidth, "overlay width in pixels")
	fs.IntVarP(&f.height, "console-height", "H", config.DefaultHeight, "overlay height in pixels")
	fs.IntVarP(&f.opacity, "opacity", "o", config.DefaultOpacity, "overlay opacity (0 - 255)")
	fs.StringVar(&f.configPath, "config", "", "path to config.toml (default %APPDATA%\\clipdrawer\\config.toml)")
	return f
}

func run(cmd *cobra.Command, f flags) error {
	configPath := f.configPath
	if configPath == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return err
		}
		configPath = p
	}

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg, f)

	// Setup logging; stdout belongs to the menu
	closer, err := logutil.Setup(filepath.Dir(configPath), cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closer.Close()

	slog.Info("Configuration loaded", "path", configPath)

	console := platform.NewConsole()
	opacity := confirmOpacity(console, cfg.Overlay.Opacity)

	agent, err := NewAgent(cfg, filepath.Dir(configPath), console, opacity)
	if err != nil {
		slog.Error("Failed to create agent", "error", err)
		return err
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := agent.Run(ctx); err != nil {
		slog.Error("Agent error", "error", err)
		return err
	}

	slog.Info("clipdrawer stopped")
	return nil
}

// applyFlags copies explicitly set command line values over cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config, f flags) {
	changed := cmd.Flags().Changed

	if changed("fullscreen-overlay") {
		cfg.Overlay.Fullscreen = f.fullscreen
	}
	if changed("borderless") {
		cfg.Overlay.Borderless = f.borderless
	}
	if changed("console-width") {
		cfg.Overlay.Width = f.width
		if f.width <= 0 {
			cfg.Overlay.Width = config.DefaultWidth
		}
	}
	if changed("console-height") {
		cfg.Overlay.Height = f.height
		if f.height <= 0 {
			cfg.Overlay.Height = config.DefaultHeight
		}
	}
	if changed("opacity") {
		cfg.Overlay.Opacity = f.opacity
	}
}

// confirmOpacity validates value. Out of range values are reported on the
// console and replaced by the default once a key is pressed.
func confirmOpacity(console platform.Console, value int) uint8 {
	opacity, err := config.Opacity(value)
	if err == nil {
		return opacity
	}

	slog.Warn("Invalid opacity, using default", "opacity", value, "default", opacity)
	if errors.Is(err, config.ErrOpacityRange) {
		fmt.Fprintf(console, "Opacity out of range: %d (valid range 0 - 255), default %d\n", value, config.DefaultOpacity)
		fmt.Fprint(console, "Press any key to continue..\n")
		if _, err := console.ReadKey(); err != nil {
			slog.Debug("Failed to read acknowledgement", "error", err)
		}
	}
	return opacity
}
