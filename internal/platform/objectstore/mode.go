package objectstore

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

type Mode string

const (
	ModeGCS         Mode = "gcs"
	ModeGCSEmulator Mode = "gcs_emulator"
	ModeSupabase    Mode = "supabase"
)

type Config struct {
	Mode                  Mode
	EmulatorHost          string
	SupabaseURL           string
	CompatibilityFallback bool
}

func IsSupportedMode(mode Mode) bool {
	switch mode {
	case ModeGCS, ModeGCSEmulator, ModeSupabase:
		return true
	default:
		return false
	}
}

func (cfg Config) IsEmulatorMode() bool { return cfg.Mode == ModeGCSEmulator }

func (cfg Config) ModeSource() string {
	if cfg.CompatibilityFallback {
		return "compatibility_fallback"
	}
	return "explicit_or_default"
}

type ConfigErrorCode string

const (
	ConfigErrorInvalidMode         ConfigErrorCode = "invalid_mode"
	ConfigErrorMissingEmulatorHost ConfigErrorCode = "missing_emulator_host"
	ConfigErrorInvalidEmulatorHost ConfigErrorCode = "invalid_emulator_host"
	ConfigErrorMissingSupabaseURL  ConfigErrorCode = "missing_supabase_url"
)

type ConfigError struct {
	Code         ConfigErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "invalid object storage config"
	}
	switch e.Code {
	case ConfigErrorInvalidMode:
		return fmt.Sprintf("invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q, %q)",
			e.Mode, ModeGCS, ModeGCSEmulator, ModeSupabase)
	case ConfigErrorMissingEmulatorHost:
		return fmt.Sprintf("OBJECT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST to be set", ModeGCSEmulator)
	case ConfigErrorInvalidEmulatorHost:
		return fmt.Sprintf("invalid STORAGE_EMULATOR_HOST=%q; expected absolute URL like http://fake-gcs:4443", e.EmulatorHost)
	case ConfigErrorMissingSupabaseURL:
		return fmt.Sprintf("OBJECT_STORAGE_MODE=%q requires SUPABASE_URL to be set", ModeSupabase)
	default:
		return "invalid object storage config"
	}
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// ResolveConfigFromEnv reads OBJECT_STORAGE_MODE. An unset mode picks the
// emulator when STORAGE_EMULATOR_HOST is present and real GCS otherwise.
func ResolveConfigFromEnv() (Config, error) {
	cfg := Config{
		EmulatorHost: strings.TrimSpace(os.Getenv("STORAGE_EMULATOR_HOST")),
		SupabaseURL:  strings.TrimSpace(os.Getenv("SUPABASE_URL")),
	}
	rawMode := strings.TrimSpace(os.Getenv("OBJECT_STORAGE_MODE"))
	switch mode := Mode(strings.ToLower(rawMode)); mode {
	case "":
		if cfg.EmulatorHost != "" {
			cfg.Mode = ModeGCSEmulator
			cfg.CompatibilityFallback = true
		} else {
			cfg.Mode = ModeGCS
		}
	default:
		if !IsSupportedMode(mode) {
			return cfg, &ConfigError{Code: ConfigErrorInvalidMode, Mode: rawMode}
		}
		cfg.Mode = mode
	}
	if err := ValidateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func ValidateConfig(cfg Config) error {
	switch cfg.Mode {
	case ModeGCS:
		return nil
	case ModeSupabase:
		if cfg.SupabaseURL == "" {
			return &ConfigError{Code: ConfigErrorMissingSupabaseURL, Mode: string(cfg.Mode)}
		}
		return nil
	case ModeGCSEmulator:
		if cfg.EmulatorHost == "" {
			return &ConfigError{Code: ConfigErrorMissingEmulatorHost, Mode: string(cfg.Mode)}
		}
		u, err := url.Parse(cfg.EmulatorHost)
		if err != nil || strings.TrimSpace(u.Scheme) == "" || strings.TrimSpace(u.Host) == "" {
			return &ConfigError{
				Code:         ConfigErrorInvalidEmulatorHost,
				Mode:         string(cfg.Mode),
				EmulatorHost: cfg.EmulatorHost,
				Cause:        err,
			}
		}
		return nil
	default:
		return &ConfigError{Code: ConfigErrorInvalidMode, Mode: string(cfg.Mode)}
	}
}
