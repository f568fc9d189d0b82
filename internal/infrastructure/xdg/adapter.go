// Package xdg resolves the XDG base directories used by siteshell.
package xdg

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used below every XDG base.
const AppName = "siteshell"

// Dirs holds the per-application XDG directories.
type Dirs struct {
	ConfigHome string
	DataHome   string
	StateHome  string
}

// Resolve returns the directories for siteshell:
// - $XDG_CONFIG_HOME/siteshell (default: ~/.config/siteshell)
// - $XDG_DATA_HOME/siteshell (default: ~/.local/share/siteshell)
// - $XDG_STATE_HOME/siteshell (default: ~/.local/state/siteshell)
//
// With ENV=dev everything lives in ./.dev/siteshell instead.
func Resolve() (*Dirs, error) {
	if os.Getenv("ENV") == "dev" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		devDir := filepath.Join(cwd, ".dev", AppName)
		return &Dirs{ConfigHome: devDir, DataHome: devDir, StateHome: devDir}, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	return &Dirs{
		ConfigHome: filepath.Join(base("XDG_CONFIG_HOME", homeDir, ".config"), AppName),
		DataHome:   filepath.Join(base("XDG_DATA_HOME", homeDir, ".local", "share"), AppName),
		StateHome:  filepath.Join(base("XDG_STATE_HOME", homeDir, ".local", "state"), AppName),
	}, nil
}

func base(env, home string, fallback ...string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

// ConfigDir returns the config directory.
func ConfigDir() (string, error) {
	dirs, err := Resolve()
	if err != nil {
		return "", err
	}
	return dirs.ConfigHome, nil
}

// DataDir returns the data directory, home of sessions, notes and profiles.
func DataDir() (string, error) {
	dirs, err := Resolve()
	if err != nil {
		return "", err
	}
	return dirs.DataHome, nil
}

// LogDir returns <state>/logs.
func LogDir() (string, error) {
	dirs, err := Resolve()
	if err != nil {
		return "", err
	}
	return filepath.Join(dirs.StateHome, "logs"), nil
}

// Ensure creates the three base directories.
func (d *Dirs) Ensure() error {
	for _, dir := range []string{d.ConfigHome, d.DataHome, d.StateHome} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
