package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/yungbote/hirebridge-backend/internal/platform/httpx"
	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
	"github.com/yungbote/hirebridge-backend/internal/platform/objectstore"
)

func TestSanitizeCandidateName(t *testing.T) {
	cases := map[string]string{
		"O'Brien & Co.": "O_Brien___Co_",
		"Jane Doe":      "Jane_Doe",
		"José":          "Jos_",
		"abc123":        "abc123",
	}
	safe := regexp.MustCompile(`^[A-Za-z0-9_]+_resume\.pdf$`)
	for in, want := range cases {
		if got := SanitizeCandidateName(in); got != want {
			t.Fatalf("SanitizeCandidateName(%q): want=%q got=%q", in, want, got)
		}
		if p := ReplicaPath("job-1", in); !safe.MatchString(p[len("job-1/"):]) {
			t.Fatalf("ReplicaPath(%q): unsafe filename %q", in, p)
		}
	}
}

func TestReplicateMissingParameterMakesNoFetch(t *testing.T) {
	fetcher := &fakeFetcher{data: []byte("%PDF")}
	bucket := newFakeBucket()
	r := NewResumeReplicator(logger.Nop(), fetcher, bucket, nil)

	for _, req := range []ReplicationRequest{
		{CandidateName: "Jane", JobID: "job-1"},
		{ResumeURL: "https://store/abc.pdf", JobID: "job-1"},
		{ResumeURL: "https://store/abc.pdf", CandidateName: "Jane"},
	} {
		if _, err := r.Replicate(context.Background(), req); !errors.Is(err, ErrMissingParameter) {
			t.Fatalf("Replicate(%+v): want ErrMissingParameter got=%v", req, err)
		}
	}
	if len(fetcher.calls) != 0 {
		t.Fatalf("fetch calls: want=0 got=%d", len(fetcher.calls))
	}
	if bucket.storageCalls() != 0 {
		t.Fatalf("storage calls: want=0 got=%d", bucket.storageCalls())
	}
}

func TestReplicateRejectsJobIDWithSlash(t *testing.T) {
	fetcher := &fakeFetcher{data: []byte("%PDF")}
	r := NewResumeReplicator(logger.Nop(), fetcher, newFakeBucket(), nil)
	_, err := r.Replicate(context.Background(), ReplicationRequest{ResumeURL: "https://store/abc.pdf", CandidateName: "Jane", JobID: "../x"})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("Replicate: want ErrInvalidRequest got=%v", err)
	}
	if len(fetcher.calls) != 0 {
		t.Fatalf("fetch calls: want=0 got=%d", len(fetcher.calls))
	}
}

func TestReplicateIsIdempotent(t *testing.T) {
	fetcher := &fakeFetcher{data: []byte("%PDF-1.4 resume")}
	bucket := newFakeBucket()
	bucket.ensureErr = objectstore.ErrBucketExists
	r := NewResumeReplicator(logger.Nop(), fetcher, bucket, nil)
	req := ReplicationRequest{ResumeURL: "https://store/abc.pdf", CandidateName: "O'Brien & Co.", JobID: "job-123"}

	first, err := r.Replicate(context.Background(), req)
	if err != nil {
		t.Fatalf("Replicate(first): %v", err)
	}
	second, err := r.Replicate(context.Background(), req)
	if err != nil {
		t.Fatalf("Replicate(second): %v", err)
	}
	if first != "job-123/O_Brien___Co__resume.pdf" || second != first {
		t.Fatalf("stored path: want job-123/O_Brien___Co__resume.pdf twice got=%q,%q", first, second)
	}
	if len(bucket.objects) != 1 {
		t.Fatalf("objects: want=1 got=%d", len(bucket.objects))
	}
	if got := string(bucket.objects[objKey(objectstore.CategoryReplica, first)]); got != "%PDF-1.4 resume" {
		t.Fatalf("content: want=%q got=%q", "%PDF-1.4 resume", got)
	}
	if bucket.ensureCalls != 1 {
		t.Fatalf("EnsureBucket calls: want=1 got=%d", bucket.ensureCalls)
	}
	if got := objectstore.ContentTypeForKey(first); got != "application/pdf" {
		t.Fatalf("content type: want=application/pdf got=%q", got)
	}
}

func TestReplicateBucketCreationFailureIsNotSurfaced(t *testing.T) {
	bucket := newFakeBucket()
	bucket.ensureErr = errors.New("permission denied")
	r := NewResumeReplicator(logger.Nop(), &fakeFetcher{data: []byte("x")}, bucket, nil)
	if _, err := r.Replicate(context.Background(), ReplicationRequest{ResumeURL: "u", CandidateName: "n", JobID: "j"}); err != nil {
		t.Fatalf("Replicate: want nil got=%v", err)
	}
}

func TestReplicateStorageFailure(t *testing.T) {
	bucket := newFakeBucket()
	bucket.uploadErr = errors.New("quota exceeded")
	r := NewResumeReplicator(logger.Nop(), &fakeFetcher{data: []byte("x")}, bucket, nil)
	_, err := r.Replicate(context.Background(), ReplicationRequest{ResumeURL: "u", CandidateName: "n", JobID: "j"})
	if !errors.Is(err, ErrStorageWriteFailed) {
		t.Fatalf("Replicate: want ErrStorageWriteFailed got=%v", err)
	}
}

func TestHTTPFetcherNon2xxIsSourceFetchFailed(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	bucket := newFakeBucket()
	r := NewResumeReplicator(logger.Nop(), NewHTTPFetcher(5*time.Second, 0), bucket, nil)
	_, err := r.Replicate(context.Background(), ReplicationRequest{ResumeURL: srv.URL + "/abc.pdf", CandidateName: "Jane", JobID: "job-1"})
	if !errors.Is(err, ErrSourceFetchFailed) {
		t.Fatalf("Replicate: want ErrSourceFetchFailed got=%v", err)
	}
	var se *httpx.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
		t.Fatalf("status error: want 404 got=%v", err)
	}
	if calls != 1 {
		t.Fatalf("fetch attempts: want=1 got=%d", calls)
	}
	if len(bucket.uploads) != 0 {
		t.Fatalf("uploads: want=0 got=%d", len(bucket.uploads))
	}
}

func TestHTTPFetcherEnforcesSizeCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 64))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(5*time.Second, 32)
	if _, err := f.Fetch(context.Background(), srv.URL); !errors.Is(err, ErrSourceFetchFailed) {
		t.Fatalf("Fetch: want ErrSourceFetchFailed got=%v", err)
	}
	f = NewHTTPFetcher(5*time.Second, 64)
	data, err := f.Fetch(context.Background(), srv.URL)
	if err != nil || len(data) != 64 {
		t.Fatalf("Fetch: want 64 bytes got=%d err=%v", len(data), err)
	}
}
