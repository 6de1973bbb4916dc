package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/yungbote/hirebridge-backend/internal/platform/dbctx"
	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
	"github.com/yungbote/hirebridge-backend/internal/platform/objectstore"
)

type bucketConfig struct {
	name      string
	cdnDomain string
	private   bool
}

type bucketService struct {
	log           *logger.Logger
	storageClient *storage.Client
	httpClient    *http.Client
	storageMode   objectstore.Mode
	emulatorHost  string
	projectID     string
	resumeBucket  bucketConfig
	replicaBucket bucketConfig
	publicBaseURL string
}

func NewBucketService(log *logger.Logger) (objectstore.BucketService, error) {
	storageCfg, err := objectstore.ResolveConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("resolve object storage config: %w", err)
	}
	return NewBucketServiceWithConfig(log, storageCfg)
}

func NewBucketServiceWithConfig(log *logger.Logger, storageCfg objectstore.Config) (objectstore.BucketService, error) {
	if err := objectstore.ValidateConfig(storageCfg); err != nil {
		return nil, fmt.Errorf("validate object storage config: %w", err)
	}
	if storageCfg.Mode != objectstore.ModeGCS && storageCfg.Mode != objectstore.ModeGCSEmulator {
		return nil, &objectstore.ConfigError{Code: objectstore.ConfigErrorInvalidMode, Mode: string(storageCfg.Mode)}
	}
	serviceLog := log.With("service", "BucketService")

	resumeBucketName := strings.TrimSpace(os.Getenv("RESUME_GCS_BUCKET_NAME"))
	replicaBucketName := strings.TrimSpace(os.Getenv("REPLICA_GCS_BUCKET_NAME"))
	if resumeBucketName == "" {
		return nil, fmt.Errorf("missing env var RESUME_GCS_BUCKET_NAME")
	}
	if replicaBucketName == "" {
		return nil, fmt.Errorf("missing env var REPLICA_GCS_BUCKET_NAME")
	}

	publicBaseURL, publicBaseSource, err := resolvePublicBaseURL(storageCfg)
	if err != nil {
		return nil, err
	}

	stClient, err := newStorageClientForMode(context.Background(), storageCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	serviceLog.Info(
		"Object storage initialized",
		"mode", storageCfg.Mode,
		"mode_source", storageCfg.ModeSource(),
		"emulator_host", storageCfg.EmulatorHost,
		"public_base_source", publicBaseSource,
		"public_base_url", publicBaseURL,
		"resume_bucket", resumeBucketName,
		"replica_bucket", replicaBucketName,
	)

	return &bucketService{
		log:           serviceLog,
		storageClient: stClient,
		httpClient:    &http.Client{Timeout: 2 * time.Minute},
		storageMode:   storageCfg.Mode,
		emulatorHost:  strings.TrimRight(strings.TrimSpace(storageCfg.EmulatorHost), "/"),
		projectID:     strings.TrimSpace(os.Getenv("GCS_PROJECT_ID")),
		resumeBucket: bucketConfig{
			name:      resumeBucketName,
			cdnDomain: strings.TrimSpace(os.Getenv("RESUME_CDN_DOMAIN")),
		},
		replicaBucket: bucketConfig{
			name:    replicaBucketName,
			private: true,
		},
		publicBaseURL: publicBaseURL,
	}, nil
}

func newStorageClientForMode(ctx context.Context, storageCfg objectstore.Config) (*storage.Client, error) {
	switch storageCfg.Mode {
	case objectstore.ModeGCS:
		opts := ClientOptionsFromEnv()
		opts = append(opts, option.WithScopes(storage.ScopeFullControl))
		return storage.NewClient(ctx, opts...)
	case objectstore.ModeGCSEmulator:
		endpoint := strings.TrimRight(strings.TrimSpace(storageCfg.EmulatorHost), "/")
		_ = os.Setenv("STORAGE_EMULATOR_HOST", endpoint)
		return storage.NewClient(ctx, option.WithoutAuthentication())
	default:
		return nil, &objectstore.ConfigError{Code: objectstore.ConfigErrorInvalidMode, Mode: string(storageCfg.Mode)}
	}
}

func resolvePublicBaseURL(storageCfg objectstore.Config) (baseURL string, source string, err error) {
	raw := strings.TrimSpace(os.Getenv("OBJECT_STORAGE_PUBLIC_BASE_URL"))
	if raw != "" {
		parsed, parseErr := url.Parse(raw)
		if parseErr != nil || strings.TrimSpace(parsed.Scheme) == "" || strings.TrimSpace(parsed.Host) == "" {
			return "", "", fmt.Errorf(
				"invalid OBJECT_STORAGE_PUBLIC_BASE_URL=%q; expected absolute URL like http://localhost:4443",
				raw,
			)
		}
		return strings.TrimRight(raw, "/"), "object_storage_public_base_url", nil
	}
	if storageCfg.IsEmulatorMode() {
		return strings.TrimRight(strings.TrimSpace(storageCfg.EmulatorHost), "/"), "storage_emulator_host", nil
	}
	return "", "gcs_default", nil
}

func (bs *bucketService) getBucketConfig(category objectstore.Category) (bucketConfig, error) {
	switch category {
	case objectstore.CategoryResume:
		return bs.resumeBucket, nil
	case objectstore.CategoryReplica:
		return bs.replicaBucket, nil
	default:
		return bucketConfig{}, fmt.Errorf("%w: %s", objectstore.ErrUnknownBucket, category)
	}
}

func (bs *bucketService) EnsureBucket(ctx context.Context, category objectstore.Category) error {
	cfg, err := bs.getBucketConfig(category)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	attrs := &storage.BucketAttrs{}
	if cfg.private {
		attrs.PublicAccessPrevention = storage.PublicAccessPreventionEnforced
	}
	err = bs.storageClient.Bucket(cfg.name).Create(ctx, bs.projectID, attrs)
	if err == nil {
		bs.log.Info("Bucket created", "bucket", cfg.name, "category", category)
		return nil
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) && gErr.Code == http.StatusConflict {
		return objectstore.ErrBucketExists
	}
	return fmt.Errorf("create bucket %q: %w", cfg.name, err)
}

func (bs *bucketService) UploadFile(dbc dbctx.Context, category objectstore.Category, key string, file io.Reader) error {
	cfg, err := bs.getBucketConfig(category)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(dbc.Context(), 2*time.Minute)
	defer cancel()

	w := bs.storageClient.Bucket(cfg.name).Object(key).NewWriter(ctx)
	if ct := objectstore.ContentTypeForKey(key); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (bs *bucketService) DeleteFile(dbc dbctx.Context, category objectstore.Category, key string) error {
	cfg, err := bs.getBucketConfig(category)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(dbc.Context(), 30*time.Second)
	defer cancel()
	if err := bs.storageClient.Bucket(cfg.name).Object(key).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return fmt.Errorf("delete %q: %w", key, objectstore.ErrObjectNotFound)
		}
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, cfg.name, err)
	}
	return nil
}

func (bs *bucketService) GetPublicURL(category objectstore.Category, key string) string {
	cfg, err := bs.getBucketConfig(category)
	if err != nil {
		return key
	}
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if cfg.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", cfg.cdnDomain, key)
	}
	if bs.storageMode == objectstore.ModeGCSEmulator {
		if u := bs.emulatorMediaURL(bs.publicBaseURL, cfg.name, key); u != "" {
			return u
		}
	}
	if bs.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", bs.publicBaseURL, cfg.name, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", cfg.name, key)
}

func (bs *bucketService) emulatorMediaURL(base, bucket, key string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = bs.emulatorHost
	}
	if base == "" {
		return ""
	}
	return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", base, url.PathEscape(bucket), url.PathEscape(key))
}

// readCloserWithCancel keeps the download context alive until Close.
type readCloserWithCancel struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (r *readCloserWithCancel) Close() error {
	err := r.ReadCloser.Close()
	if r.cancel != nil {
		r.cancel()
	}
	return err
}

func (bs *bucketService) DownloadFile(ctx context.Context, category objectstore.Category, key string) (io.ReadCloser, error) {
	cfg, err := bs.getBucketConfig(category)
	if err != nil {
		return nil, err
	}
	ctx2, cancel := context.WithTimeout(ctx, 2*time.Minute)

	if bs.storageMode == objectstore.ModeGCSEmulator && bs.emulatorHost != "" {
		req, err := http.NewRequestWithContext(ctx2, http.MethodGet, bs.emulatorMediaURL(bs.emulatorHost, cfg.name, key), nil)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed creating emulator download request: %w", err)
		}
		resp, err := bs.httpClient.Do(req)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed emulator download request: %w", err)
		}
		if resp.StatusCode == http.StatusNotFound {
			_ = resp.Body.Close()
			cancel()
			return nil, fmt.Errorf("download %q: %w", key, objectstore.ErrObjectNotFound)
		}
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			_ = resp.Body.Close()
			cancel()
			return nil, fmt.Errorf("emulator download failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return &readCloserWithCancel{ReadCloser: resp.Body, cancel: cancel}, nil
	}

	r, err := bs.storageClient.Bucket(cfg.name).Object(key).NewReader(ctx2)
	if err != nil {
		cancel()
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("download %q: %w", key, objectstore.ErrObjectNotFound)
		}
		return nil, fmt.Errorf("failed to open GCS reader: %w", err)
	}
	return &readCloserWithCancel{ReadCloser: r, cancel: cancel}, nil
}
