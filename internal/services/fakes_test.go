package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/hirebridge-backend/internal/data/repos"
	types "github.com/yungbote/hirebridge-backend/internal/domain"
	"github.com/yungbote/hirebridge-backend/internal/platform/ctxutil"
	"github.com/yungbote/hirebridge-backend/internal/platform/dbctx"
	"github.com/yungbote/hirebridge-backend/internal/platform/objectstore"
)

type fakeBucket struct {
	mu          sync.Mutex
	objects     map[string][]byte
	uploads     []string
	deletes     []string
	ensureCalls int
	ensureErr   error
	uploadErr   error
	deleteErr   error
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}}
}

func objKey(category objectstore.Category, key string) string {
	return string(category) + ":" + key
}

func (b *fakeBucket) EnsureBucket(ctx context.Context, category objectstore.Category) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ensureCalls++
	return b.ensureErr
}

func (b *fakeBucket) UploadFile(dbc dbctx.Context, category objectstore.Category, key string, file io.Reader) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.uploads = append(b.uploads, objKey(category, key))
	if b.uploadErr != nil {
		return b.uploadErr
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	b.objects[objKey(category, key)] = data
	return nil
}

func (b *fakeBucket) DeleteFile(dbc dbctx.Context, category objectstore.Category, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deletes = append(b.deletes, objKey(category, key))
	if b.deleteErr != nil {
		return b.deleteErr
	}
	if _, ok := b.objects[objKey(category, key)]; !ok {
		return objectstore.ErrObjectNotFound
	}
	delete(b.objects, objKey(category, key))
	return nil
}

func (b *fakeBucket) DownloadFile(ctx context.Context, category objectstore.Category, key string) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[objKey(category, key)]
	if !ok {
		return nil, objectstore.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *fakeBucket) GetPublicURL(category objectstore.Category, key string) string {
	return "https://store/" + string(category) + "/" + key
}

func (b *fakeBucket) storageCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.uploads) + len(b.deletes) + b.ensureCalls
}

type fakeFetcher struct {
	mu    sync.Mutex
	calls []string
	data  []byte
	byURL map[string][]byte
	err   error
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	if f.err != nil {
		return nil, f.err
	}
	if data, ok := f.byURL[url]; ok {
		return data, nil
	}
	return f.data, nil
}

type fakeReplicator struct {
	mu     sync.Mutex
	calls  []ReplicationRequest
	path   string
	err    error
	bucket *fakeBucket
}

func (r *fakeReplicator) Discard(ctx context.Context, storedPath string) error {
	if r.bucket == nil {
		return nil
	}
	return r.bucket.DeleteFile(dbctx.Context{Ctx: ctx}, objectstore.CategoryReplica, storedPath)
}

func (r *fakeReplicator) Replicate(ctx context.Context, req ReplicationRequest) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, req)
	if r.err != nil {
		return "", r.err
	}
	if r.path != "" {
		return r.path, nil
	}
	return ReplicaPath(req.JobID, req.CandidateName), nil
}

// remoteOnlyReplicator stores replicas somewhere this process cannot delete.
type remoteOnlyReplicator struct {
	path string
}

func (r *remoteOnlyReplicator) Replicate(ctx context.Context, req ReplicationRequest) (string, error) {
	return r.path, nil
}

// failingAppRepo wraps a real repo and fails Create with createErr.
type failingAppRepo struct {
	repos.ApplicationRepo
	createErr error
}

func (r *failingAppRepo) Create(dbc dbctx.Context, app *types.Application) error {
	return r.createErr
}

var errInsertBoom = errors.New("insert boom")

func candidateSession(id uuid.UUID) *ctxutil.Session {
	return &ctxutil.Session{UserID: id, Email: "cand@example.com", Role: ctxutil.RoleCandidate, AccessToken: "tok"}
}

func hrSession(id uuid.UUID) *ctxutil.Session {
	return &ctxutil.Session{UserID: id, Email: "hr@example.com", Role: ctxutil.RoleHR, AccessToken: "tok"}
}
