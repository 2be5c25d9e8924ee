// Package config loads and merges on-disk settings for the hex1b CLI:
// default session size, socket and recording paths, and the active
// theme name. Settings come from a TOML file under the XDG config
// directory, with CLI flags (Overrides) taking precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// Config is the on-disk hex1b configuration.
type Config struct {
	Session     SessionConfig     `toml:"session"`
	Daemon      DaemonConfig      `toml:"daemon"`
	Recording   RecordingConfig   `toml:"recording"`
	Appearance  AppearanceConfig  `toml:"appearance"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
}

// SessionConfig holds defaults applied when `terminal start` omits a flag.
type SessionConfig struct {
	DefaultWidth  int    `toml:"default_width"`  // default: 80
	DefaultHeight int    `toml:"default_height"` // default: 24
	Shell         string `toml:"shell"`          // default: empty; not read by any command
}

// DaemonConfig holds settings for where session state lives.
type DaemonConfig struct {
	StateDir string `toml:"state_dir"` // default: $XDG_STATE_HOME/hex1b/sessions
}

// RecordingConfig controls asciicast recording defaults.
type RecordingConfig struct {
	Directory string `toml:"directory"` // default: $XDG_DATA_HOME/hex1b/recordings
	Enabled   bool   `toml:"enabled"`   // default: false; not read, recording is turned on only by --record
}

// DiagnosticsConfig controls the attach-socket listener.
type DiagnosticsConfig struct {
	SocketDir string `toml:"socket_dir"` // default: $XDG_RUNTIME_DIR/hex1b/sockets
}

// AppearanceConfig controls theme resolution.
type AppearanceConfig struct {
	Theme string `toml:"theme"` // color theme name, empty uses terminal defaults
}

// DefaultConfig returns the configuration used when no file exists yet.
func DefaultConfig() *Config {
	return &Config{
		Session: SessionConfig{
			DefaultWidth:  80,
			DefaultHeight: 24,
			Shell:         "",
		},
		Daemon: DaemonConfig{
			StateDir: "", // empty means use the XDG default
		},
		Recording: RecordingConfig{
			Directory: "",
			Enabled:   false,
		},
		Diagnostics: DiagnosticsConfig{
			SocketDir: "",
		},
		Appearance: AppearanceConfig{
			Theme: "",
		},
	}
}

// LoadConfig reads the hex1b config file from the XDG config directory,
// creating a default one if none exists, and fills in any fields the
// file omits.
func LoadConfig() (*Config, error) {
	configPath, err := xdg.SearchConfigFile("hex1b/config.toml")
	if err != nil {
		return createDefaultConfig()
	}

	// #nosec G304 - configPath comes from XDG search, reading user config is intentional
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	fillMissing(&cfg, DefaultConfig())
	return &cfg, nil
}

func createDefaultConfig() (*Config, error) {
	cfg := DefaultConfig()

	configPath, err := xdg.ConfigFile("hex1b/config.toml")
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# hex1b configuration file\n")
	sb.WriteString("# Location: " + configPath + "\n")
	sb.WriteString("#\n")
	sb.WriteString("# session.default_width/default_height: used by `terminal start`\n")
	sb.WriteString("# when --width/--height are omitted.\n")
	sb.WriteString("#\n")
	sb.WriteString("# recording.directory: where `terminal start --record` writes casts\n")
	sb.WriteString("# when --record is given a bare filename instead of a path.\n")
	sb.WriteString("#\n")
	sb.WriteString("# appearance.theme: color theme name, empty uses terminal defaults.\n\n")
	if _, err := sb.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write config data: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(sb.String()), 0600); err != nil {
		return nil, fmt.Errorf("failed to write config file: %w", err)
	}
	return cfg, nil
}

func fillMissing(cfg, defaults *Config) {
	if cfg.Session.DefaultWidth <= 0 {
		cfg.Session.DefaultWidth = defaults.Session.DefaultWidth
	}
	if cfg.Session.DefaultHeight <= 0 {
		cfg.Session.DefaultHeight = defaults.Session.DefaultHeight
	}
}

// GetConfigPath returns the path to the config file, whether or not it
// exists yet.
func GetConfigPath() (string, error) {
	path, err := xdg.SearchConfigFile("hex1b/config.toml")
	if err != nil {
		return xdg.ConfigFile("hex1b/config.toml")
	}
	return path, nil
}

// StateDirOrDefault returns Daemon.StateDir, or $XDG_STATE_HOME/hex1b/sessions
// when it is empty. session.NewRegistry does not consult it: the registry
// always lives under the XDG state directory.
func (c *Config) StateDirOrDefault() (string, error) {
	if c.Daemon.StateDir != "" {
		return c.Daemon.StateDir, nil
	}
	keep, err := xdg.StateFile("hex1b/sessions/.keep")
	if err != nil {
		return "", err
	}
	return filepath.Dir(keep), nil
}

// RecordingDirOrDefault returns the directory recordings are written to
// when a relative path is given to --record.
func (c *Config) RecordingDirOrDefault() (string, error) {
	if c.Recording.Directory != "" {
		return c.Recording.Directory, nil
	}
	keep, err := xdg.DataFile("hex1b/recordings/.keep")
	if err != nil {
		return "", err
	}
	return filepath.Dir(keep), nil
}

// SocketDirOrDefault returns the directory diagnostics sockets are
// created in.
func (c *Config) SocketDirOrDefault() (string, error) {
	if c.Diagnostics.SocketDir != "" {
		return c.Diagnostics.SocketDir, nil
	}
	keep, err := xdg.RuntimeFile("hex1b/sockets/.keep")
	if err != nil {
		return "", err
	}
	return filepath.Dir(keep), nil
}
