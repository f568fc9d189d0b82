package config

import "time"

// Config represents the complete configuration for siteshell.
type Config struct {
	// Site is the single external site the shell is confined to.
	Site     SiteConfig     `mapstructure:"site" toml:"site"`
	Tabs     TabsConfig     `mapstructure:"tabs" toml:"tabs"`
	Session  SessionConfig  `mapstructure:"session" toml:"session"`
	Memory   MemoryConfig   `mapstructure:"memory" toml:"memory"`
	Security SecurityConfig `mapstructure:"security" toml:"security"`
	OAuth    OAuthConfig    `mapstructure:"oauth" toml:"oauth"`
	Engine   EngineConfig   `mapstructure:"engine" toml:"engine"`
	Logging  LoggingConfig  `mapstructure:"logging" toml:"logging"`
}

// SiteConfig names the site every new tab opens.
type SiteConfig struct {
	DefaultURL string `mapstructure:"default_url" toml:"default_url"`
}

// TabsConfig bounds the tab controllers.
type TabsConfig struct {
	MaxTabs   int `mapstructure:"max_tabs" toml:"max_tabs"`
	MaxClosed int `mapstructure:"max_closed" toml:"max_closed"`
}

// SessionConfig controls persistence.
type SessionConfig struct {
	// DataDir overrides the XDG data directory (sessions, notes, profiles).
	DataDir           string `mapstructure:"data_dir" toml:"data_dir"`
	AutosaveIntervalS int    `mapstructure:"autosave_interval_sec" toml:"autosave_interval_sec"`
	NoteDebounceMs    int    `mapstructure:"note_debounce_ms" toml:"note_debounce_ms"`
	ChangeDebounceMs  int    `mapstructure:"change_debounce_ms" toml:"change_debounce_ms"`
	BackupOnStartup   bool   `mapstructure:"backup_on_startup" toml:"backup_on_startup"`
}

// AutosaveInterval returns the periodic save interval.
func (c SessionConfig) AutosaveInterval() time.Duration {
	return time.Duration(c.AutosaveIntervalS) * time.Second
}

// NoteDebounce returns the delay between the last note edit and its save.
func (c SessionConfig) NoteDebounce() time.Duration {
	return time.Duration(c.NoteDebounceMs) * time.Millisecond
}

// ChangeDebounce returns the delay between a structural change and its save.
func (c SessionConfig) ChangeDebounce() time.Duration {
	return time.Duration(c.ChangeDebounceMs) * time.Millisecond
}

// MemoryConfig controls idle workspace compression.
type MemoryConfig struct {
	Enabled        bool `mapstructure:"enabled" toml:"enabled"`
	CheckIntervalS int  `mapstructure:"check_interval_sec" toml:"check_interval_sec"`
	IdleThresholdS int  `mapstructure:"idle_threshold_sec" toml:"idle_threshold_sec"`
}

// CheckInterval returns how often idle workspaces are looked for.
func (c MemoryConfig) CheckInterval() time.Duration {
	return time.Duration(c.CheckIntervalS) * time.Second
}

// IdleThreshold returns how long a workspace may sit unused.
func (c MemoryConfig) IdleThreshold() time.Duration {
	return time.Duration(c.IdleThresholdS) * time.Second
}

// SecurityConfig extends the built-in allowlist.
type SecurityConfig struct {
	// ExtraDomains are always allowed in addition to the core set. They are
	// never written to the allowlist file.
	ExtraDomains []string `mapstructure:"extra_domains" toml:"extra_domains"`
}

// OAuthMode selects where identity-provider logins run.
type OAuthMode string

const (
	OAuthModeKeepInContext OAuthMode = "keep_in_context"
	OAuthModeExternal      OAuthMode = "external"
)

// OAuthConfig controls login flow handling.
type OAuthConfig struct {
	Mode OAuthMode `mapstructure:"mode" toml:"mode"`
	// Providers overrides the identity-provider host patterns when non-empty.
	Providers []string `mapstructure:"providers" toml:"providers"`
}

// EngineKind selects the rendering engine adapter.
type EngineKind string

const (
	EngineChromium EngineKind = "chromium"
	EngineStub     EngineKind = "stub"
)

// EngineConfig configures the rendering engine.
type EngineConfig struct {
	Kind EngineKind `mapstructure:"kind" toml:"kind"`
	// ExecPath points at a Chrome/Chromium binary; empty means autodetect.
	ExecPath string   `mapstructure:"exec_path" toml:"exec_path"`
	Headless bool     `mapstructure:"headless" toml:"headless"`
	Flags    []string `mapstructure:"flags" toml:"flags"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level"`
	Format string `mapstructure:"format" toml:"format"`
	// File sends logs to <state>/logs/siteshell.log instead of stderr.
	File       bool `mapstructure:"file" toml:"file"`
	MaxSizeMB  int  `mapstructure:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int  `mapstructure:"max_backups" toml:"max_backups"`
}
