package objectstore

import (
	"errors"
	"testing"
)

func TestResolveConfigFromEnvDefaultGCS(t *testing.T) {
	t.Setenv("OBJECT_STORAGE_MODE", "")
	t.Setenv("STORAGE_EMULATOR_HOST", "")

	cfg, err := ResolveConfigFromEnv()
	if err != nil {
		t.Fatalf("ResolveConfigFromEnv: %v", err)
	}
	if cfg.Mode != ModeGCS {
		t.Fatalf("mode: want=%q got=%q", ModeGCS, cfg.Mode)
	}
	if cfg.CompatibilityFallback {
		t.Fatalf("compatibility fallback: want=false got=true")
	}
}

func TestResolveConfigFromEnvCompatibilityFallback(t *testing.T) {
	t.Setenv("OBJECT_STORAGE_MODE", "")
	t.Setenv("STORAGE_EMULATOR_HOST", "http://fake-gcs:4443")

	cfg, err := ResolveConfigFromEnv()
	if err != nil {
		t.Fatalf("ResolveConfigFromEnv: %v", err)
	}
	if cfg.Mode != ModeGCSEmulator {
		t.Fatalf("mode: want=%q got=%q", ModeGCSEmulator, cfg.Mode)
	}
	if got := cfg.ModeSource(); got != "compatibility_fallback" {
		t.Fatalf("ModeSource: want=%q got=%q", "compatibility_fallback", got)
	}
}

func TestResolveConfigFromEnvSupabase(t *testing.T) {
	t.Setenv("OBJECT_STORAGE_MODE", "Supabase")
	t.Setenv("STORAGE_EMULATOR_HOST", "")
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co")

	cfg, err := ResolveConfigFromEnv()
	if err != nil {
		t.Fatalf("ResolveConfigFromEnv: %v", err)
	}
	if cfg.Mode != ModeSupabase {
		t.Fatalf("mode: want=%q got=%q", ModeSupabase, cfg.Mode)
	}
}

func TestResolveConfigFromEnvErrors(t *testing.T) {
	cases := []struct {
		name     string
		mode     string
		emulator string
		supabase string
		want     ConfigErrorCode
	}{
		{"invalid mode", "local", "", "", ConfigErrorInvalidMode},
		{"missing emulator host", "gcs_emulator", "", "", ConfigErrorMissingEmulatorHost},
		{"invalid emulator host", "gcs_emulator", "fake-gcs:4443", "", ConfigErrorInvalidEmulatorHost},
		{"missing supabase url", "supabase", "", "", ConfigErrorMissingSupabaseURL},
	}
	for _, tc := range cases {
		t.Setenv("OBJECT_STORAGE_MODE", tc.mode)
		t.Setenv("STORAGE_EMULATOR_HOST", tc.emulator)
		t.Setenv("SUPABASE_URL", tc.supabase)

		_, err := ResolveConfigFromEnv()
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("%s: want *ConfigError got=%T (%v)", tc.name, err, err)
		}
		if cfgErr.Code != tc.want {
			t.Fatalf("%s: code want=%q got=%q", tc.name, tc.want, cfgErr.Code)
		}
	}
}
