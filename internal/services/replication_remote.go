package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/hirebridge-backend/internal/observability"
	"github.com/yungbote/hirebridge-backend/internal/platform/httpx"
	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
)

// ReplicationResponse is the wire body of the replication endpoint.
type ReplicationResponse struct {
	Success    bool   `json:"success"`
	StoredPath string `json:"storedPath,omitempty"`
	Error      string `json:"error,omitempty"`
	Code       string `json:"code,omitempty"`
	Retryable  bool   `json:"retryable,omitempty"`
}

type remoteReplicator struct {
	log      *logger.Logger
	client   *http.Client
	endpoint string
	metrics  *observability.Metrics
}

// NewRemoteReplicator calls a replication endpoint over HTTP instead of
// replicating in-process.
func NewRemoteReplicator(log *logger.Logger, endpoint string, client *http.Client, metrics *observability.Metrics) Replicator {
	if client == nil {
		client = &http.Client{
			Timeout:   2 * time.Minute,
			Transport: observability.NewHTTPTransport(http.DefaultTransport),
		}
	}
	return &remoteReplicator{
		log:      log.With("service", "RemoteReplicator"),
		client:   client,
		endpoint: strings.TrimSpace(endpoint),
		metrics:  metrics,
	}
}

func (rr *remoteReplicator) Replicate(ctx context.Context, req ReplicationRequest) (string, error) {
	start := time.Now()
	storedPath, err := rr.replicate(ctx, req)
	outcome := "ok"
	if err != nil {
		outcome = ErrorCode(err)
	}
	rr.metrics.ObserveReplication(outcome, time.Since(start))
	return storedPath, err
}

func (rr *remoteReplicator) replicate(ctx context.Context, req ReplicationRequest) (string, error) {
	if err := validateReplicationRequest(req); err != nil {
		return "", err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %w", ErrBackendFailure, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, rr.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", ErrBackendFailure, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if req.BearerToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.BearerToken)
	}

	resp, err := rr.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: replication endpoint: %w", ErrBackendFailure, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var out ReplicationResponse
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 && decodeErr == nil && out.Success {
		return out.StoredPath, nil
	}

	sentinel := ErrorForCode(out.Code)
	if sentinel == nil {
		sentinel = errorForReplicationStatus(resp.StatusCode)
	}
	msg := strings.TrimSpace(out.Error)
	if msg == "" {
		msg = (&httpx.StatusError{StatusCode: resp.StatusCode, Status: resp.Status, URL: rr.endpoint}).Error()
	}
	rr.log.Warn("remote replication failed", "status", resp.StatusCode, "code", out.Code, "job_id", req.JobID)
	return "", fmt.Errorf("%w: %s", sentinel, msg)
}

func errorForReplicationStatus(status int) error {
	switch {
	case status == http.StatusBadRequest:
		return ErrMissingParameter
	case status == http.StatusUnauthorized:
		return ErrUnauthenticated
	case status == http.StatusBadGateway:
		return ErrSourceFetchFailed
	case status >= 200 && status <= 299:
		// 2xx without success:true
		return ErrBackendFailure
	case status >= 500:
		return ErrStorageWriteFailed
	default:
		return ErrBackendFailure
	}
}
