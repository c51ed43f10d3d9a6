package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDirXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")

	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	want := filepath.Join("/tmp/custom-config", AppName)
	if dir != want {
		t.Errorf("Dir() = %q, want %q", dir, want)
	}
}

func TestDirDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	want := filepath.Join(home, ".config", AppName)
	if dir != want {
		t.Errorf("Dir() = %q, want %q", dir, want)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
monitor = "DP-1"
dry_run = true
default_ratio = "1+2+1:"
`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := Config{Monitor: "DP-1", Xrandr: "xrandr", DryRun: true, DefaultRatio: "1+2+1:"}
	if cfg != want {
		t.Errorf("Parse() = %+v, want %+v", cfg, want)
	}
}

func TestParseDefaultTemplate(t *testing.T) {
	cfg, err := Parse([]byte(DefaultConfigTOML))
	if err != nil {
		t.Fatalf("Parse(DefaultConfigTOML) error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Parse(DefaultConfigTOML) = %+v, want defaults", cfg)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"syntax", `monitor = `, "parse config"},
		{"unknown key", `montior = "DP-1"`, "unknown config keys: montior"},
		{"wrong type", `dry_run = "yes"`, "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(MonitorEnv, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadMissingExplicit(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load() error = %v, want not exist", err)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(MonitorEnv, "HDMI-1")

	path := filepath.Join(dir, AppName, FileName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`monitor = "DP-1"`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Monitor != "HDMI-1" {
		t.Errorf("Load().Monitor = %q, want env override %q", cfg.Monitor, "HDMI-1")
	}
	if cfg.Path != path {
		t.Errorf("Load().Path = %q, want %q", cfg.Path, path)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", FileName)

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error: %v", err)
	}
	cfg, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if cfg.Xrandr != "xrandr" {
		t.Errorf("ReadFile().Xrandr = %q", cfg.Xrandr)
	}

	if err := WriteDefault(path); !errors.Is(err, fs.ErrExist) {
		t.Errorf("second WriteDefault() error = %v, want exists", err)
	}
}
