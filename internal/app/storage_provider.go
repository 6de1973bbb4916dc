package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/hirebridge-backend/internal/observability"
	"github.com/yungbote/hirebridge-backend/internal/platform/gcp"
	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
	"github.com/yungbote/hirebridge-backend/internal/platform/objectstore"
	"github.com/yungbote/hirebridge-backend/internal/platform/supabase"
)

var (
	newGCSBucketService      = gcp.NewBucketServiceWithConfig
	newSupabaseBucketService = supabase.NewBucketService
)

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidMode         StorageProviderBootstrapErrorCode = "invalid_mode"
	StorageProviderBootstrapErrorMissingEmulatorHost StorageProviderBootstrapErrorCode = "missing_emulator_host"
	StorageProviderBootstrapErrorInvalidEmulatorHost StorageProviderBootstrapErrorCode = "invalid_emulator_host"
	StorageProviderBootstrapErrorMissingSupabase     StorageProviderBootstrapErrorCode = "missing_supabase"
	StorageProviderBootstrapErrorConnectFailed       StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code         StorageProviderBootstrapErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "object storage bootstrap failed"
	}
	return fmt.Sprintf(
		"object storage bootstrap failed (code=%s mode=%q emulator_host=%q): %v",
		e.Code,
		e.Mode,
		e.EmulatorHost,
		e.Cause,
	)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// storageConfig mirrors objectstore.ResolveConfigFromEnv but reads from the
// loaded Config so tests can drive it.
func storageConfig(cfg Config) objectstore.Config {
	storageCfg := objectstore.Config{
		Mode:         objectstore.Mode(strings.ToLower(strings.TrimSpace(cfg.ObjectStorageMode))),
		EmulatorHost: strings.TrimSpace(cfg.StorageEmulatorHost),
		SupabaseURL:  strings.TrimSpace(cfg.SupabaseURL),
	}
	if storageCfg.Mode == "" {
		if storageCfg.EmulatorHost != "" {
			storageCfg.Mode = objectstore.ModeGCSEmulator
			storageCfg.CompatibilityFallback = true
		} else {
			storageCfg.Mode = objectstore.ModeGCS
		}
	}
	return storageCfg
}

func resolveBucketService(log *logger.Logger, cfg Config, supa *supabase.Client, metrics *observability.Metrics) (objectstore.BucketService, error) {
	storageCfg := storageConfig(cfg)
	modeSource := storageCfg.ModeSource()

	fail := func(err *StorageProviderBootstrapError) (objectstore.BucketService, error) {
		metrics.IncStorageBootstrap(string(storageCfg.Mode), "error", string(err.Code))
		log.Error(
			"Object storage provider bootstrap failed",
			"mode", storageCfg.Mode,
			"mode_source", modeSource,
			"emulator_host", storageCfg.EmulatorHost,
			"error_code", err.Code,
			"error", err,
		)
		return nil, err
	}

	if err := objectstore.ValidateConfig(storageCfg); err != nil {
		return fail(classifyStorageProviderBootstrapError(storageCfg, err))
	}

	log.Info(
		"Selecting object storage provider",
		"mode", storageCfg.Mode,
		"mode_source", modeSource,
		"compatibility_fallback", storageCfg.CompatibilityFallback,
		"emulator_host", storageCfg.EmulatorHost,
	)

	var (
		bucket objectstore.BucketService
		err    error
	)
	switch storageCfg.Mode {
	case objectstore.ModeSupabase:
		if supa == nil {
			return fail(&StorageProviderBootstrapError{
				Code:  StorageProviderBootstrapErrorMissingSupabase,
				Mode:  string(storageCfg.Mode),
				Cause: errors.New("supabase client not configured"),
			})
		}
		bucket, err = newSupabaseBucketService(log, supa)
	default:
		bucket, err = newGCSBucketService(log, storageCfg)
	}
	if err != nil {
		return fail(classifyStorageProviderBootstrapError(storageCfg, err))
	}
	metrics.IncStorageBootstrap(string(storageCfg.Mode), "success", "none")
	return bucket, nil
}

func classifyStorageProviderBootstrapError(storageCfg objectstore.Config, err error) *StorageProviderBootstrapError {
	out := &StorageProviderBootstrapError{
		Code:         StorageProviderBootstrapErrorConnectFailed,
		Mode:         string(storageCfg.Mode),
		EmulatorHost: storageCfg.EmulatorHost,
		Cause:        err,
	}
	var cfgErr *objectstore.ConfigError
	if errors.As(err, &cfgErr) {
		switch cfgErr.Code {
		case objectstore.ConfigErrorInvalidMode:
			out.Code = StorageProviderBootstrapErrorInvalidMode
		case objectstore.ConfigErrorMissingEmulatorHost:
			out.Code = StorageProviderBootstrapErrorMissingEmulatorHost
		case objectstore.ConfigErrorInvalidEmulatorHost:
			out.Code = StorageProviderBootstrapErrorInvalidEmulatorHost
		case objectstore.ConfigErrorMissingSupabaseURL:
			out.Code = StorageProviderBootstrapErrorMissingSupabase
		}
	}
	return out
}
