package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/hirebridge-backend/internal/observability"
	"github.com/yungbote/hirebridge-backend/internal/platform/dbctx"
	"github.com/yungbote/hirebridge-backend/internal/platform/httpx"
	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
	"github.com/yungbote/hirebridge-backend/internal/platform/objectstore"
)

const (
	replicaSuffix       = "_resume.pdf"
	defaultMaxFetchSize = 20 << 20
)

type ReplicationRequest struct {
	ResumeURL     string `json:"resumeUrl"`
	CandidateName string `json:"candidateName"`
	JobID         string `json:"jobId"`
	// BearerToken is forwarded by remote implementations only.
	BearerToken string `json:"-"`
}

// Replicator copies a candidate's resume into the job-scoped replica area and
// returns the stored path.
type Replicator interface {
	Replicate(ctx context.Context, req ReplicationRequest) (string, error)
}

// ReplicaDiscarder is implemented by replicators that own the replica store
// and can remove what they wrote.
type ReplicaDiscarder interface {
	Discard(ctx context.Context, storedPath string) error
}

type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// SanitizeCandidateName replaces every character outside [A-Za-z0-9] with '_'.
func SanitizeCandidateName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func ReplicaPath(jobID, candidateName string) string {
	return jobID + "/" + SanitizeCandidateName(candidateName) + replicaSuffix
}

func validateReplicationRequest(req ReplicationRequest) error {
	if strings.TrimSpace(req.ResumeURL) == "" {
		return fmt.Errorf("%w: resumeUrl", ErrMissingParameter)
	}
	if strings.TrimSpace(req.CandidateName) == "" {
		return fmt.Errorf("%w: candidateName", ErrMissingParameter)
	}
	jobID := strings.TrimSpace(req.JobID)
	if jobID == "" {
		return fmt.Errorf("%w: jobId", ErrMissingParameter)
	}
	if strings.ContainsAny(jobID, `/\`) || jobID == "." || jobID == ".." {
		return fmt.Errorf("%w: jobId must be a single path segment", ErrInvalidRequest)
	}
	return nil
}

type httpFetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewHTTPFetcher performs a single traced GET per call. Non-2xx responses and
// transport failures both surface as ErrSourceFetchFailed.
func NewHTTPFetcher(timeout time.Duration, maxBytes int64) Fetcher {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if maxBytes <= 0 {
		maxBytes = defaultMaxFetchSize
	}
	return &httpFetcher{
		client: &http.Client{
			Timeout:   timeout,
			Transport: observability.NewHTTPTransport(http.DefaultTransport),
		},
		maxBytes: maxBytes,
	}
}

func (f *httpFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceFetchFailed, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceFetchFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %w", ErrSourceFetchFailed, &httpx.StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        url,
		})
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrSourceFetchFailed, err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrSourceFetchFailed, f.maxBytes)
	}
	return data, nil
}

type resumeReplicator struct {
	log         *logger.Logger
	fetcher     Fetcher
	bucket      objectstore.BucketService
	metrics     *observability.Metrics
	bucketReady atomic.Bool
}

func NewResumeReplicator(log *logger.Logger, fetcher Fetcher, bucket objectstore.BucketService, metrics *observability.Metrics) Replicator {
	return &resumeReplicator{
		log:     log.With("service", "ResumeReplicator"),
		fetcher: fetcher,
		bucket:  bucket,
		metrics: metrics,
	}
}

func (rr *resumeReplicator) Replicate(ctx context.Context, req ReplicationRequest) (string, error) {
	ctx, span := observability.Tracer("hirebridge/replication").Start(ctx, "resume.replicate")
	defer span.End()
	span.SetAttributes(attribute.String("job_id", req.JobID))

	start := time.Now()
	storedPath, err := rr.replicate(ctx, req)
	outcome := "ok"
	if err != nil {
		outcome = ErrorCode(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		rr.log.Warn("resume replication failed",
			"job_id", req.JobID,
			"code", outcome,
			"retryable", httpx.IsRetryableError(err),
			"error", err,
		)
	}
	rr.metrics.ObserveReplication(outcome, time.Since(start))
	return storedPath, err
}

func (rr *resumeReplicator) replicate(ctx context.Context, req ReplicationRequest) (string, error) {
	if err := validateReplicationRequest(req); err != nil {
		return "", err
	}
	storedPath := ReplicaPath(strings.TrimSpace(req.JobID), req.CandidateName)

	data, err := rr.fetcher.Fetch(ctx, strings.TrimSpace(req.ResumeURL))
	if err != nil {
		if !errors.Is(err, ErrSourceFetchFailed) {
			err = fmt.Errorf("%w: %w", ErrSourceFetchFailed, err)
		}
		return "", err
	}

	rr.ensureBucket(ctx)

	if err := rr.bucket.UploadFile(dbctx.Context{Ctx: ctx}, objectstore.CategoryReplica, storedPath, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("%w: %w", ErrStorageWriteFailed, err)
	}
	rr.log.Info("resume replicated", "job_id", req.JobID, "path", storedPath, "bytes", len(data))
	return storedPath, nil
}

func (rr *resumeReplicator) Discard(ctx context.Context, storedPath string) error {
	return rr.bucket.DeleteFile(dbctx.Context{Ctx: ctx}, objectstore.CategoryReplica, storedPath)
}

// ensureBucket creates the replica bucket once per process. Failures are
// logged and the upload is attempted anyway.
func (rr *resumeReplicator) ensureBucket(ctx context.Context) {
	if rr.bucketReady.Load() {
		return
	}
	err := rr.bucket.EnsureBucket(ctx, objectstore.CategoryReplica)
	if err == nil || errors.Is(err, objectstore.ErrBucketExists) {
		rr.bucketReady.Store(true)
		return
	}
	rr.log.Warn("replica bucket creation failed", "error", err)
}
