package supabase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/yungbote/hirebridge-backend/internal/platform/dbctx"
	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
	"github.com/yungbote/hirebridge-backend/internal/platform/objectstore"
)

type storageBucket struct {
	name   string
	public bool
}

type bucketService struct {
	log     *logger.Logger
	client  *Client
	buckets map[objectstore.Category]storageBucket
}

// NewBucketService serves objectstore categories from Supabase Storage.
// Bucket names come from SUPABASE_RESUME_BUCKET (default "resumes") and
// SUPABASE_REPLICA_BUCKET (default "temp_resumes").
func NewBucketService(log *logger.Logger, client *Client) (objectstore.BucketService, error) {
	if client == nil {
		return nil, fmt.Errorf("supabase client is required")
	}
	resume := strings.TrimSpace(os.Getenv("SUPABASE_RESUME_BUCKET"))
	if resume == "" {
		resume = "resumes"
	}
	replica := strings.TrimSpace(os.Getenv("SUPABASE_REPLICA_BUCKET"))
	if replica == "" {
		replica = "temp_resumes"
	}
	svcLog := log.With("service", "SupabaseBucketService")
	svcLog.Info("Object storage initialized", "mode", objectstore.ModeSupabase, "resume_bucket", resume, "replica_bucket", replica)
	return &bucketService{
		log:    svcLog,
		client: client,
		buckets: map[objectstore.Category]storageBucket{
			objectstore.CategoryResume:  {name: resume, public: true},
			objectstore.CategoryReplica: {name: replica, public: false},
		},
	}, nil
}

func (bs *bucketService) bucket(category objectstore.Category) (storageBucket, error) {
	b, ok := bs.buckets[category]
	if !ok {
		return storageBucket{}, fmt.Errorf("%w: %s", objectstore.ErrUnknownBucket, category)
	}
	return b, nil
}

func objectPath(key string) string {
	parts := strings.Split(strings.TrimLeft(strings.TrimSpace(key), "/"), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

func (bs *bucketService) EnsureBucket(ctx context.Context, category objectstore.Category) error {
	b, err := bs.bucket(category)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	req, err := bs.client.newRequest(ctx, http.MethodPost, "/storage/v1/bucket", map[string]any{
		"id":     b.name,
		"name":   b.name,
		"public": b.public,
	})
	if err != nil {
		return err
	}
	bs.client.setHeaders(req, bs.client.serviceKey, "")
	resp, err := bs.client.do(req)
	if err != nil {
		return fmt.Errorf("create bucket %q: %w", b.name, err)
	}
	if err := resp.Error(); err != nil {
		var sErr *Error
		if errors.As(err, &sErr) && (sErr.StatusCode == http.StatusConflict ||
			strings.Contains(strings.ToLower(sErr.Message), "already exists")) {
			return objectstore.ErrBucketExists
		}
		return fmt.Errorf("create bucket %q: %w", b.name, err)
	}
	return nil
}

func (bs *bucketService) UploadFile(dbc dbctx.Context, category objectstore.Category, key string, file io.Reader) error {
	b, err := bs.bucket(category)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(dbc.Context(), 2*time.Minute)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		bs.client.baseURL+"/storage/v1/object/"+url.PathEscape(b.name)+"/"+objectPath(key), file)
	if err != nil {
		return fmt.Errorf("create upload request: %w", err)
	}
	bs.client.setHeaders(req, bs.client.serviceKey, "")
	ct := objectstore.ContentTypeForKey(key)
	if ct == "" {
		ct = "application/octet-stream"
	}
	req.Header.Set("Content-Type", ct)
	req.Header.Set("x-upsert", "true")
	resp, err := bs.client.do(req)
	if err != nil {
		return fmt.Errorf("upload %q: %w", key, err)
	}
	if err := resp.Error(); err != nil {
		return fmt.Errorf("upload %q: %w", key, err)
	}
	return nil
}

func (bs *bucketService) DeleteFile(dbc dbctx.Context, category objectstore.Category, key string) error {
	b, err := bs.bucket(category)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(dbc.Context(), 30*time.Second)
	defer cancel()
	req, err := bs.client.newRequest(ctx, http.MethodDelete, "/storage/v1/object/"+url.PathEscape(b.name),
		map[string]any{"prefixes": []string{strings.TrimLeft(key, "/")}})
	if err != nil {
		return err
	}
	bs.client.setHeaders(req, bs.client.serviceKey, "")
	resp, err := bs.client.do(req)
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	if err := resp.Error(); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

type readCloser struct{ *bytes.Reader }

func (readCloser) Close() error { return nil }

func (bs *bucketService) DownloadFile(ctx context.Context, category objectstore.Category, key string) (io.ReadCloser, error) {
	b, err := bs.bucket(category)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	req, err := bs.client.newRequest(ctx, http.MethodGet, "/storage/v1/object/"+url.PathEscape(b.name)+"/"+objectPath(key), nil)
	if err != nil {
		return nil, err
	}
	bs.client.setHeaders(req, bs.client.serviceKey, "")
	req.Header.Set("Accept", "*/*")
	resp, err := bs.client.do(req)
	if err != nil {
		return nil, fmt.Errorf("download %q: %w", key, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("download %q: %w", key, objectstore.ErrObjectNotFound)
	}
	if err := resp.Error(); err != nil {
		var sErr *Error
		if errors.As(err, &sErr) && strings.Contains(strings.ToLower(sErr.Message), "not found") {
			return nil, fmt.Errorf("download %q: %w", key, objectstore.ErrObjectNotFound)
		}
		return nil, fmt.Errorf("download %q: %w", key, err)
	}
	return readCloser{bytes.NewReader(resp.Body)}, nil
}

func (bs *bucketService) GetPublicURL(category objectstore.Category, key string) string {
	b, err := bs.bucket(category)
	if err != nil {
		return key
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", bs.client.baseURL, url.PathEscape(b.name), objectPath(key))
}
