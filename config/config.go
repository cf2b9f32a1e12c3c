package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"markestedt/clipdrawer/platform"
)

const appName = "clipdrawer"

const (
	DefaultHotkey   = "rctrl"
	DefaultWidth    = 500
	DefaultHeight   = 200
	DefaultOpacity  = 200
	DefaultPollMS   = 300
	DefaultWebPort  = 8765
	DefaultLogLevel = "info"
)

// Environment variables that override the config file.
const (
	EnvLogLevel = "CLIPDRAWER_LOG_LEVEL"
	EnvWebPort  = "CLIPDRAWER_WEB_PORT"
	EnvHotkey   = "CLIPDRAWER_HOTKEY"
)

// ErrOpacityRange is returned for an opacity outside 0..255.
var ErrOpacityRange = errors.New("opacity out of range")

type Config struct {
	Overlay OverlayConfig `toml:"overlay"`
	Menu    MenuConfig    `toml:"menu"`
	History HistoryConfig `toml:"history"`
	Web     WebConfig     `toml:"web"`
	Tray    TrayConfig    `toml:"tray"`
	Log     LogConfig     `toml:"log"`
}

type OverlayConfig struct {
	Hotkey     string `toml:"hotkey"`
	Fullscreen bool   `toml:"fullscreen"`
	Borderless bool   `toml:"borderless"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Opacity    int    `toml:"opacity"`
}

type MenuConfig struct {
	PollIntervalMS int `toml:"poll_interval_ms"`
	PreviewWidth   int `toml:"preview_width"`
}

type HistoryConfig struct {
	Enabled bool `toml:"enabled"`
}

type WebConfig struct {
	Enabled bool `toml:"enabled"`
	Port    int  `toml:"port"`
}

type TrayConfig struct {
	Enabled bool `toml:"enabled"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default configuration
func Default() *Config {
	return &Config{
		Overlay: OverlayConfig{
			Hotkey:  DefaultHotkey,
			Width:   DefaultWidth,
			Height:  DefaultHeight,
			Opacity: DefaultOpacity,
		},
		Menu: MenuConfig{
			PollIntervalMS: DefaultPollMS,
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Web: WebConfig{
			Port: DefaultWebPort,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Dir returns the application data directory, creating it if needed.
func Dir() (string, error) {
	appData := os.Getenv("APPDATA")
	if appData == "" {
		appData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
	}

	dir := filepath.Join(appData, appName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}

// ConfigPath returns the path to the configuration file
func ConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LoadFile loads the configuration from the TOML file at path, creating it
// with default values if it doesn't exist. Values from a .env file next to
// the config or the executable, and from the process environment, override
// the file.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := save(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	} else if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.applyEnv(envLookup(dotenvPaths(path)...))
	cfg.normalize()
	return cfg, nil
}

// save writes the configuration to the TOML file
func save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

func dotenvPaths(configPath string) []string {
	paths := []string{filepath.Join(filepath.Dir(configPath), ".env")}
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), ".env"))
	}
	return paths
}

// envLookup prefers the process environment, then the first .env file
// defining the key.
func envLookup(dotenvFiles ...string) func(string) string {
	values := map[string]string{}
	for i := len(dotenvFiles) - 1; i >= 0; i-- {
		read, err := godotenv.Read(dotenvFiles[i])
		if err != nil {
			continue
		}
		for k, v := range read {
			values[k] = v
		}
	}

	return func(key string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return strings.TrimSpace(values[key])
	}
}

func (c *Config) applyEnv(lookup func(string) string) {
	if v := lookup(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := lookup(EnvHotkey); v != "" {
		c.Overlay.Hotkey = v
	}
	if v := lookup(EnvWebPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Web.Port = port
		}
	}
}

func (c *Config) normalize() {
	if c.Overlay.Hotkey == "" {
		c.Overlay.Hotkey = DefaultHotkey
	}
	if c.Overlay.Width <= 0 {
		c.Overlay.Width = DefaultWidth
	}
	if c.Overlay.Height <= 0 {
		c.Overlay.Height = DefaultHeight
	}
	if c.Menu.PollIntervalMS <= 0 {
		c.Menu.PollIntervalMS = DefaultPollMS
	}
	if c.Menu.PreviewWidth < 0 {
		c.Menu.PreviewWidth = 0
	}
	if c.Web.Port <= 0 || c.Web.Port > 65535 {
		c.Web.Port = DefaultWebPort
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// PollInterval is the menu input polling interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Menu.PollIntervalMS) * time.Millisecond
}

// HotkeyCode resolves the overlay hotkey to a virtual-key code.
func (c *Config) HotkeyCode() (int, error) {
	return ParseHotkey(c.Overlay.Hotkey)
}

// ParseHotkey resolves a single key name like "rctrl" or "f9". Combos are
// not accepted since the overlay gesture is a double tap of one key.
func ParseHotkey(name string) (int, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return 0, fmt.Errorf("empty hotkey")
	}
	if strings.Contains(name, "+") {
		return 0, fmt.Errorf("hotkey must be a single key, got %q", name)
	}
	return platform.VKCode(name)
}

// Opacity validates value as a layered window alpha.
func Opacity(value int) (uint8, error) {
	if value < 0 || value > 255 {
		return DefaultOpacity, fmt.Errorf("%w: %d", ErrOpacityRange, value)
	}
	return uint8(value), nil
}
