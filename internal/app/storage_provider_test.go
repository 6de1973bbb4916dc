package app

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/yungbote/hirebridge-backend/internal/platform/dbctx"
	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
	"github.com/yungbote/hirebridge-backend/internal/platform/objectstore"
	"github.com/yungbote/hirebridge-backend/internal/platform/supabase"
)

func TestClassifyStorageProviderBootstrapError(t *testing.T) {
	cases := []struct {
		src  error
		want StorageProviderBootstrapErrorCode
	}{
		{&objectstore.ConfigError{Code: objectstore.ConfigErrorInvalidMode}, StorageProviderBootstrapErrorInvalidMode},
		{&objectstore.ConfigError{Code: objectstore.ConfigErrorMissingEmulatorHost}, StorageProviderBootstrapErrorMissingEmulatorHost},
		{&objectstore.ConfigError{Code: objectstore.ConfigErrorInvalidEmulatorHost}, StorageProviderBootstrapErrorInvalidEmulatorHost},
		{&objectstore.ConfigError{Code: objectstore.ConfigErrorMissingSupabaseURL}, StorageProviderBootstrapErrorMissingSupabase},
		{errors.New("dial tcp: connection refused"), StorageProviderBootstrapErrorConnectFailed},
	}
	for _, tc := range cases {
		got := classifyStorageProviderBootstrapError(objectstore.Config{Mode: objectstore.ModeGCS}, tc.src)
		if got.Code != tc.want {
			t.Fatalf("%v: want=%q got=%q", tc.src, tc.want, got.Code)
		}
		if !errors.Is(got, tc.src) {
			t.Fatalf("%v: cause not preserved", tc.src)
		}
	}
}

func TestStorageConfigDefaults(t *testing.T) {
	if got := storageConfig(Config{}); got.Mode != objectstore.ModeGCS || got.CompatibilityFallback {
		t.Fatalf("no mode: got=%+v", got)
	}
	got := storageConfig(Config{StorageEmulatorHost: "http://fake-gcs:4443"})
	if got.Mode != objectstore.ModeGCSEmulator || !got.CompatibilityFallback {
		t.Fatalf("emulator fallback: got=%+v", got)
	}
}

func stubGCS(t *testing.T) (*objectstore.Config, objectstore.BucketService) {
	t.Helper()
	orig := newGCSBucketService
	t.Cleanup(func() { newGCSBucketService = orig })
	captured := &objectstore.Config{}
	expected := &testBucketService{}
	newGCSBucketService = func(_ *logger.Logger, cfg objectstore.Config) (objectstore.BucketService, error) {
		*captured = cfg
		return expected, nil
	}
	return captured, expected
}

func TestResolveBucketServiceInvalidMode(t *testing.T) {
	_, err := resolveBucketService(logger.Nop(), Config{ObjectStorageMode: "invalid"}, nil, nil)
	var got *StorageProviderBootstrapError
	if !errors.As(err, &got) || got.Code != StorageProviderBootstrapErrorInvalidMode {
		t.Fatalf("want invalid_mode, got=%v", err)
	}
}

func TestResolveBucketServiceGCSModes(t *testing.T) {
	captured, expected := stubGCS(t)

	got, err := resolveBucketService(logger.Nop(), Config{ObjectStorageMode: "gcs"}, nil, nil)
	if err != nil || got != expected {
		t.Fatalf("gcs: got=%v err=%v", got, err)
	}
	if captured.Mode != objectstore.ModeGCS {
		t.Fatalf("mode: want=%q got=%q", objectstore.ModeGCS, captured.Mode)
	}

	_, err = resolveBucketService(logger.Nop(), Config{
		ObjectStorageMode:   "gcs_emulator",
		StorageEmulatorHost: "http://fake-gcs:4443",
	}, nil, nil)
	if err != nil {
		t.Fatalf("emulator: %v", err)
	}
	if captured.EmulatorHost != "http://fake-gcs:4443" {
		t.Fatalf("emulator host: got=%q", captured.EmulatorHost)
	}
}

func TestResolveBucketServiceEmulatorValidation(t *testing.T) {
	stubGCS(t)
	cases := []struct {
		host string
		want StorageProviderBootstrapErrorCode
	}{
		{"", StorageProviderBootstrapErrorMissingEmulatorHost},
		{"not-a-url", StorageProviderBootstrapErrorInvalidEmulatorHost},
	}
	for _, tc := range cases {
		_, err := resolveBucketService(logger.Nop(), Config{
			ObjectStorageMode:   "gcs_emulator",
			StorageEmulatorHost: tc.host,
		}, nil, nil)
		var got *StorageProviderBootstrapError
		if !errors.As(err, &got) || got.Code != tc.want {
			t.Fatalf("host %q: want=%q got=%v", tc.host, tc.want, err)
		}
	}
}

func TestResolveBucketServiceSupabase(t *testing.T) {
	cfg := Config{ObjectStorageMode: "supabase", SupabaseURL: "http://supabase.local"}
	_, err := resolveBucketService(logger.Nop(), cfg, nil, nil)
	var got *StorageProviderBootstrapError
	if !errors.As(err, &got) || got.Code != StorageProviderBootstrapErrorMissingSupabase {
		t.Fatalf("no client: want=%q got=%v", StorageProviderBootstrapErrorMissingSupabase, err)
	}

	orig := newSupabaseBucketService
	t.Cleanup(func() { newSupabaseBucketService = orig })
	expected := &testBucketService{}
	newSupabaseBucketService = func(*logger.Logger, *supabase.Client) (objectstore.BucketService, error) {
		return expected, nil
	}
	client, err := supabase.New(supabase.Config{URL: "http://supabase.local", AnonKey: "anon"})
	if err != nil {
		t.Fatalf("supabase.New: %v", err)
	}
	bucket, err := resolveBucketService(logger.Nop(), cfg, client, nil)
	if err != nil || bucket != expected {
		t.Fatalf("supabase: got=%v err=%v", bucket, err)
	}
}

type testBucketService struct{}

func (t *testBucketService) EnsureBucket(context.Context, objectstore.Category) error { return nil }

func (t *testBucketService) UploadFile(dbctx.Context, objectstore.Category, string, io.Reader) error {
	return nil
}

func (t *testBucketService) DeleteFile(dbctx.Context, objectstore.Category, string) error {
	return nil
}

func (t *testBucketService) DownloadFile(context.Context, objectstore.Category, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func (t *testBucketService) GetPublicURL(objectstore.Category, string) string { return "" }
