package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bnema/siteshell/internal/domain/entity"
)

// validateConfig performs comprehensive validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateSite(config)...)
	validationErrors = append(validationErrors, validateTabs(config)...)
	validationErrors = append(validationErrors, validateSession(config)...)
	validationErrors = append(validationErrors, validateMemory(config)...)
	validationErrors = append(validationErrors, validateSecurity(config)...)
	validationErrors = append(validationErrors, validateOAuth(config)...)
	validationErrors = append(validationErrors, validateEngine(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}

	return nil
}

func validateSite(config *Config) []string {
	u, err := url.Parse(config.Site.DefaultURL)
	if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
		return []string{"site.default_url must be an absolute http(s) URL"}
	}
	return nil
}

func validateTabs(config *Config) []string {
	var validationErrors []string
	if config.Tabs.MaxTabs < 1 {
		validationErrors = append(validationErrors, "tabs.max_tabs must be at least 1")
	}
	if config.Tabs.MaxClosed < 1 {
		validationErrors = append(validationErrors, "tabs.max_closed must be at least 1")
	}
	return validationErrors
}

func validateSession(config *Config) []string {
	var validationErrors []string
	if config.Session.AutosaveIntervalS < 1 {
		validationErrors = append(validationErrors, "session.autosave_interval_sec must be positive")
	}
	if config.Session.NoteDebounceMs < 0 {
		validationErrors = append(validationErrors, "session.note_debounce_ms must be non-negative")
	}
	if config.Session.ChangeDebounceMs < 0 {
		validationErrors = append(validationErrors, "session.change_debounce_ms must be non-negative")
	}
	return validationErrors
}

func validateMemory(config *Config) []string {
	if !config.Memory.Enabled {
		return nil
	}
	var validationErrors []string
	if config.Memory.CheckIntervalS < 1 {
		validationErrors = append(validationErrors, "memory.check_interval_sec must be positive")
	}
	if config.Memory.IdleThresholdS < 1 {
		validationErrors = append(validationErrors, "memory.idle_threshold_sec must be positive")
	}
	return validationErrors
}

func validateSecurity(config *Config) []string {
	var validationErrors []string
	for i, d := range config.Security.ExtraDomains {
		if entity.NormalizeDomain(d) == "" || strings.ContainsAny(d, "/: ") {
			validationErrors = append(validationErrors, fmt.Sprintf("security.extra_domains[%d] %q is not a host name", i, d))
		}
	}
	return validationErrors
}

func validateOAuth(config *Config) []string {
	switch config.OAuth.Mode {
	case OAuthModeKeepInContext, OAuthModeExternal:
		return nil
	default:
		return []string{fmt.Sprintf("oauth.mode must be %q or %q", OAuthModeKeepInContext, OAuthModeExternal)}
	}
}

func validateEngine(config *Config) []string {
	switch config.Engine.Kind {
	case EngineChromium, EngineStub:
		return nil
	default:
		return []string{fmt.Sprintf("engine.kind must be %q or %q", EngineChromium, EngineStub)}
	}
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	switch strings.ToLower(config.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "disabled", "off":
	default:
		validationErrors = append(validationErrors, "logging.level must be one of trace, debug, info, warn, error, disabled")
	}
	switch strings.ToLower(config.Logging.Format) {
	case "json", "console":
	default:
		validationErrors = append(validationErrors, "logging.format must be json or console")
	}
	if config.Logging.MaxSizeMB < 1 {
		validationErrors = append(validationErrors, "logging.max_size_mb must be positive")
	}
	if config.Logging.MaxBackups < 0 {
		validationErrors = append(validationErrors, "logging.max_backups must be non-negative")
	}
	return validationErrors
}
