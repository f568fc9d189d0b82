package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/infrastructure/xdg"
	"github.com/spf13/viper"
)

const (
	configName     = "config"
	configFileName = "config.toml"
	schemaFileName = "config.schema.json"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	configDir string
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
	created   bool
}

// NewManager creates a manager reading <XDG config>/config.toml.
func NewManager() (*Manager, error) {
	configDir, err := xdg.ConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	return NewManagerAt(configDir)
}

// NewManagerAt creates a manager reading configDir/config.toml.
func NewManagerAt(configDir string) (*Manager, error) {
	v := viper.New()

	v.SetConfigName(configName)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	// SITESHELL_OAUTH_MODE, SITESHELL_MEMORY_ENABLED, ...
	v.SetEnvPrefix("SITESHELL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("logging.level", "SITESHELL_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind SITESHELL_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "SITESHELL_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind SITESHELL_LOG_FORMAT: %w", err)
	}

	return &Manager{
		viper:     v,
		configDir: configDir,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables. A
// missing file is created with the defaults first.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	config, err := m.unmarshalConfig()
	if err != nil {
		return err
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		configFile := m.viper.ConfigFileUsed()
		if configFile == "" {
			configFile = m.ConfigFile()
		}
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", configFile, err)
	}

	if createErr := m.createDefaultConfig(); createErr != nil {
		return fmt.Errorf(
			"failed to create default config at %s: %w\nTry creating the directory manually or check permissions",
			m.configDir,
			createErr,
		)
	}
	if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
		return fmt.Errorf("failed to read newly created config file: %w", rereadErr)
	}
	return nil
}

func (m *Manager) unmarshalConfig() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.viper.ConfigFileUsed(),
			err,
		)
	}
	return config, nil
}

func normalizeConfig(config *Config) {
	config.Site.DefaultURL = strings.TrimSpace(config.Site.DefaultURL)

	switch OAuthMode(strings.ToLower(strings.TrimSpace(string(config.OAuth.Mode)))) {
	case "", OAuthModeKeepInContext:
		config.OAuth.Mode = OAuthModeKeepInContext
	case OAuthModeExternal:
		config.OAuth.Mode = OAuthModeExternal
	}

	switch EngineKind(strings.ToLower(strings.TrimSpace(string(config.Engine.Kind)))) {
	case "", EngineChromium:
		config.Engine.Kind = EngineChromium
	case EngineStub:
		config.Engine.Kind = EngineStub
	}

	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	config.Logging.Format = strings.ToLower(strings.TrimSpace(config.Logging.Format))
	config.Session.DataDir = strings.TrimSpace(config.Session.DataDir)

	domains := make([]string, 0, len(config.Security.ExtraDomains))
	for _, d := range config.Security.ExtraDomains {
		if n := entity.NormalizeDomain(d); n != "" {
			domains = append(domains, n)
		}
	}
	config.Security.ExtraDomains = domains
}

// Get returns a copy of the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	configCopy := *m.config
	return &configCopy
}

// ConfigFile returns the path of config.toml.
func (m *Manager) ConfigFile() string {
	return filepath.Join(m.configDir, configFileName)
}

// SchemaFile returns the path of the generated JSON schema.
func (m *Manager) SchemaFile() string {
	return filepath.Join(m.configDir, schemaFileName)
}

// Created reports whether Load wrote a fresh default file.
func (m *Manager) Created() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.created
}

// createDefaultConfig writes the defaults and the schema next to them.
func (m *Manager) createDefaultConfig() error {
	if err := os.MkdirAll(m.configDir, dirPerm); err != nil {
		return err
	}
	if err := WriteConfigOrdered(DefaultConfig(), m.ConfigFile()); err != nil {
		return err
	}
	if err := WriteSchemaFile(m.SchemaFile()); err != nil {
		return err
	}
	m.created = true
	return nil
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.viper.SetDefault("site.default_url", defaults.Site.DefaultURL)

	m.viper.SetDefault("tabs.max_tabs", defaults.Tabs.MaxTabs)
	m.viper.SetDefault("tabs.max_closed", defaults.Tabs.MaxClosed)

	m.viper.SetDefault("session.data_dir", defaults.Session.DataDir)
	m.viper.SetDefault("session.autosave_interval_sec", defaults.Session.AutosaveIntervalS)
	m.viper.SetDefault("session.note_debounce_ms", defaults.Session.NoteDebounceMs)
	m.viper.SetDefault("session.change_debounce_ms", defaults.Session.ChangeDebounceMs)
	m.viper.SetDefault("session.backup_on_startup", defaults.Session.BackupOnStartup)

	m.viper.SetDefault("memory.enabled", defaults.Memory.Enabled)
	m.viper.SetDefault("memory.check_interval_sec", defaults.Memory.CheckIntervalS)
	m.viper.SetDefault("memory.idle_threshold_sec", defaults.Memory.IdleThresholdS)

	m.viper.SetDefault("security.extra_domains", defaults.Security.ExtraDomains)

	m.viper.SetDefault("oauth.mode", string(defaults.OAuth.Mode))
	m.viper.SetDefault("oauth.providers", defaults.OAuth.Providers)

	m.viper.SetDefault("engine.kind", string(defaults.Engine.Kind))
	m.viper.SetDefault("engine.exec_path", defaults.Engine.ExecPath)
	m.viper.SetDefault("engine.headless", defaults.Engine.Headless)
	m.viper.SetDefault("engine.flags", defaults.Engine.Flags)

	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
	m.viper.SetDefault("logging.file", defaults.Logging.File)
	m.viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	m.viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
}

// DataDir returns session.data_dir, or the XDG data directory when unset.
func (c *Config) DataDir() (string, error) {
	if c.Session.DataDir != "" {
		return c.Session.DataDir, nil
	}
	return xdg.DataDir()
}
