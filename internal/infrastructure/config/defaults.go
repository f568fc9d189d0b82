package config

import "github.com/bnema/siteshell/internal/domain/navigation"

// Default configuration constants
const (
	defaultSiteURL = "https://chatgpt.com"

	// Tab defaults
	defaultMaxTabs   = 15
	defaultMaxClosed = 10

	// Session defaults
	defaultAutosaveIntervalSec = 600  // 10 minutes
	defaultNoteDebounceMs      = 2000 // 2 seconds after the last keystroke
	defaultChangeDebounceMs    = 500

	// Memory defaults
	defaultMemoryCheckIntervalSec = 60
	defaultIdleThresholdSec       = 300 // 5 minutes

	// Logging defaults
	defaultLogMaxSizeMB  = 10
	defaultLogMaxBackups = 3

	dirPerm  = 0o755
	filePerm = 0o644
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{DefaultURL: defaultSiteURL},
		Tabs: TabsConfig{
			MaxTabs:   defaultMaxTabs,
			MaxClosed: defaultMaxClosed,
		},
		Session: SessionConfig{
			AutosaveIntervalS: defaultAutosaveIntervalSec,
			NoteDebounceMs:    defaultNoteDebounceMs,
			ChangeDebounceMs:  defaultChangeDebounceMs,
		},
		Memory: MemoryConfig{
			Enabled:        true,
			CheckIntervalS: defaultMemoryCheckIntervalSec,
			IdleThresholdS: defaultIdleThresholdSec,
		},
		Security: SecurityConfig{ExtraDomains: []string{}},
		OAuth: OAuthConfig{
			Mode:      OAuthModeKeepInContext,
			Providers: append([]string(nil), navigation.DefaultOAuthProviders...),
		},
		Engine: EngineConfig{
			Kind:  EngineChromium,
			Flags: []string{},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			File:       true,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
		},
	}
}
