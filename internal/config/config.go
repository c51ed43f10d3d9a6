// Package config loads the xrpex user configuration.
//
// The configuration lives in $XDG_CONFIG_HOME/xrpex/config.toml (falling
// back to ~/.config/xrpex/config.toml). A missing file is not an error.
// The XRPEX_MONITOR environment variable overrides the configured monitor;
// command-line flags override both.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// AppName names the configuration directory.
	AppName = "xrpex"

	// FileName is the configuration file inside the directory.
	FileName = "config.toml"

	// MonitorEnv selects the parent monitor.
	MonitorEnv = "XRPEX_MONITOR"
)

// DefaultConfigTOML is written by `xrpex config init`.
const DefaultConfigTOML = `# xrpex configuration

# Monitor to split when --monitor and XRPEX_MONITOR are unset.
# monitor = "DP-1"

# Path to the xrandr executable.
xrandr = "xrandr"

# Print xrandr commands instead of running them.
dry_run = false

# Ratio used by "xrpex apply" when none is given.
# default_ratio = "1+2+1:"
`

// Config is the decoded configuration file.
type Config struct {
	Monitor      string `toml:"monitor"`
	Xrandr       string `toml:"xrandr"`
	DryRun       bool   `toml:"dry_run"`
	DefaultRatio string `toml:"default_ratio"`

	// Path is the file the configuration was read from, empty if none.
	Path string `toml:"-"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{Xrandr: "xrandr"}
}

// Dir returns the configuration directory using the XDG standard
// (~/.config/xrpex/).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// DefaultPath returns the configuration file path.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads the configuration at path, or at DefaultPath when path is
// empty, and applies environment overrides. A missing default file yields
// the defaults; a missing explicit path is an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return withEnv(Default()), nil
		}
		path = p
	}

	cfg, err := ReadFile(path)
	switch {
	case err == nil:
	case !explicit && errors.Is(err, fs.ErrNotExist):
		cfg = Default()
	default:
		return Config{}, err
	}
	return withEnv(cfg), nil
}

// ReadFile decodes a single TOML file without environment overrides.
func ReadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes TOML data on top of the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	if cfg.Xrandr == "" {
		cfg.Xrandr = Default().Xrandr
	}
	return cfg, nil
}

// WriteDefault creates path with DefaultConfigTOML. It refuses to
// overwrite an existing file.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(DefaultConfigTOML); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func withEnv(cfg Config) Config {
	if m := strings.TrimSpace(os.Getenv(MonitorEnv)); m != "" {
		cfg.Monitor = m
	}
	return cfg
}
