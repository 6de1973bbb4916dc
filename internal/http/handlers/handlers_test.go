package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/hirebridge-backend/internal/domain"
	"github.com/yungbote/hirebridge-backend/internal/platform/ctxutil"
	"github.com/yungbote/hirebridge-backend/internal/platform/httpx"
	"github.com/yungbote/hirebridge-backend/internal/services"
)

type fakeAppService struct {
	services.ApplicationService
	submitIn  services.SubmitInput
	submitRes *services.SubmitResult
	submitErr error
	replica   string
	matchID   uuid.UUID
	matchPct  float64
	limit     int

	replPath    string
	replErr     error
	replSession *ctxutil.Session
	replReq     services.ReplicationRequest
}

func (f *fakeAppService) ReplicateForCandidate(_ context.Context, s *ctxutil.Session, req services.ReplicationRequest) (string, error) {
	f.replSession, f.replReq = s, req
	return f.replPath, f.replErr
}

func (f *fakeAppService) ListUnscored(_ context.Context, limit int) ([]*types.Application, error) {
	f.limit = limit
	return []*types.Application{{ID: uuid.New(), Status: types.ApplicationStatusApplied}}, nil
}

func (f *fakeAppService) Submit(_ context.Context, _ *ctxutil.Session, in services.SubmitInput) (*services.SubmitResult, error) {
	f.submitIn = in
	return f.submitRes, f.submitErr
}

func (f *fakeAppService) OpenResume(context.Context, *ctxutil.Session, uuid.UUID) (io.ReadCloser, string, error) {
	if f.replica == "" {
		return nil, "", services.ErrNotFound
	}
	return io.NopCloser(strings.NewReader(f.replica)), "1700000000000.pdf", nil
}

func (f *fakeAppService) SetMatchPercentage(_ context.Context, id uuid.UUID, pct float64) error {
	f.matchID, f.matchPct = id, pct
	return nil
}

type fakeProfileService struct {
	services.ProfileService
	upload services.ResumeUpload
	calls  int
}

func (f *fakeProfileService) UploadResume(_ context.Context, s *ctxutil.Session, up services.ResumeUpload) (*types.CandidateProfile, error) {
	f.calls++
	f.upload = up
	return &types.CandidateProfile{UserID: s.UserID}, nil
}

func withSession(s *ctxutil.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(ctxutil.WithSession(c.Request.Context(), s))
		c.Next()
	}
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func doJSON(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestReplicationDownload(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		status    int
		code      string
		retryable bool
	}{
		{"ok", nil, http.StatusOK, "", false},
		{"missing", services.ErrMissingParameter, http.StatusBadRequest, "missing_parameter", false},
		{"source 404", fmt.Errorf("%w: %w", services.ErrSourceFetchFailed, &httpx.StatusError{StatusCode: 404}), http.StatusBadGateway, "source_fetch_failed", false},
		{"source 503", fmt.Errorf("%w: %w", services.ErrSourceFetchFailed, &httpx.StatusError{StatusCode: 503}), http.StatusBadGateway, "source_fetch_failed", true},
		{"storage", fmt.Errorf("%w: denied", services.ErrStorageWriteFailed), http.StatusInternalServerError, "storage_write_failed", false},
		{"foreign resume", fmt.Errorf("%w: resumeUrl is not the caller's current resume", services.ErrForbidden), http.StatusForbidden, "forbidden", false},
	}
	for _, tc := range cases {
		apps := &fakeAppService{replPath: "job-1/Jane_Doe_resume.pdf", replErr: tc.err}
		sess := &ctxutil.Session{UserID: uuid.New(), Role: types.UserTypeCandidate, AccessToken: "tok"}
		r := newEngine()
		r.POST("/api/resume/download", withSession(sess), NewReplicationHandler(apps).Download)

		w := doJSON(r, http.MethodPost, "/api/resume/download", `{"resumeUrl":"https://x/r.pdf","candidateName":"Jane Doe","jobId":"job-1"}`)
		if w.Code != tc.status {
			t.Fatalf("%s: status want=%d got=%d", tc.name, tc.status, w.Code)
		}
		var body services.ReplicationResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode: %v", tc.name, err)
		}
		if body.Success != (tc.err == nil) || body.Code != tc.code || body.Retryable != tc.retryable {
			t.Fatalf("%s: body got=%+v", tc.name, body)
		}
		if tc.err == nil && body.StoredPath != "job-1/Jane_Doe_resume.pdf" {
			t.Fatalf("%s: storedPath got=%q", tc.name, body.StoredPath)
		}
		if apps.replSession != sess || apps.replReq.ResumeURL != "https://x/r.pdf" || apps.replReq.JobID != "job-1" {
			t.Fatalf("%s: forwarded request got=%+v", tc.name, apps.replReq)
		}
	}
}

func TestReplicationDownloadRejectsMalformedBody(t *testing.T) {
	apps := &fakeAppService{}
	r := newEngine()
	r.POST("/d", NewReplicationHandler(apps).Download)
	w := doJSON(r, http.MethodPost, "/d", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: want=%d got=%d", http.StatusBadRequest, w.Code)
	}
}

func TestApply(t *testing.T) {
	jobID := uuid.New()
	apps := &fakeAppService{submitRes: &services.SubmitResult{
		Application: &types.Application{ID: uuid.New(), JobID: jobID},
		StoredPath:  jobID.String() + "/Jane_resume.pdf",
	}}
	h := NewCandidateHandler(nil, nil, apps)
	r := newEngine()
	r.POST("/jobs/:id/apply", withSession(&ctxutil.Session{UserID: uuid.New(), Role: types.UserTypeCandidate}), h.Apply)

	if w := doJSON(r, http.MethodPost, "/jobs/not-a-uuid/apply", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id: want=%d got=%d", http.StatusBadRequest, w.Code)
	}

	w := doJSON(r, http.MethodPost, "/jobs/"+jobID.String()+"/apply", `{"cover_letter":"  hello  "}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("apply: want=%d got=%d body=%s", http.StatusCreated, w.Code, w.Body.String())
	}
	var body struct {
		Success    bool   `json:"success"`
		StoredPath string `json:"storedPath"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if !body.Success || body.StoredPath != apps.submitRes.StoredPath {
		t.Fatalf("apply body: got=%s", w.Body.String())
	}
	if apps.submitIn.JobID != jobID || apps.submitIn.CoverLetter != "hello" {
		t.Fatalf("submit input: got=%+v", apps.submitIn)
	}

	if w := doJSON(r, http.MethodPost, "/jobs/"+jobID.String()+"/apply", ""); w.Code != http.StatusCreated {
		t.Fatalf("empty body: want=%d got=%d", http.StatusCreated, w.Code)
	}

	apps.submitErr = fmt.Errorf("%w: job %s", services.ErrDuplicateApplication, jobID)
	if w := doJSON(r, http.MethodPost, "/jobs/"+jobID.String()+"/apply", ""); w.Code != http.StatusConflict {
		t.Fatalf("duplicate: want=%d got=%d", http.StatusConflict, w.Code)
	}
}

func TestUploadResumeMultipart(t *testing.T) {
	profiles := &fakeProfileService{}
	h := NewCandidateHandler(profiles, nil, nil)
	r := newEngine()
	r.POST("/resume", withSession(&ctxutil.Session{UserID: uuid.New(), Role: types.UserTypeCandidate}), h.UploadResume)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "cv.pdf")
	_, _ = fw.Write([]byte("%PDF-1.4 body"))
	_ = mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/resume", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: want=%d got=%d body=%s", http.StatusOK, w.Code, w.Body.String())
	}
	if profiles.upload.Filename != "cv.pdf" || string(profiles.upload.Data) != "%PDF-1.4 body" {
		t.Fatalf("upload: got=%+v", profiles.upload)
	}

	req = httptest.NewRequest(http.MethodPost, "/resume", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest || profiles.calls != 1 {
		t.Fatalf("missing file: want=400 and no service call, got=%d calls=%d", w.Code, profiles.calls)
	}
}

func TestDownloadResumeStreams(t *testing.T) {
	apps := &fakeAppService{replica: "%PDF-1.4 resume"}
	h := NewHRHandler(newTestLogger(t), nil, apps)
	r := newEngine()
	r.GET("/apps/:id/resume", withSession(&ctxutil.Session{UserID: uuid.New(), Role: types.UserTypeHR}), h.DownloadResume)

	w := doJSON(r, http.MethodGet, "/apps/"+uuid.NewString()+"/resume", "")
	if w.Code != http.StatusOK || w.Body.String() != apps.replica {
		t.Fatalf("stream: got=%d %q", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type: want=application/pdf got=%q", ct)
	}

	apps.replica = ""
	if w := doJSON(r, http.MethodGet, "/apps/"+uuid.NewString()+"/resume", ""); w.Code != http.StatusNotFound {
		t.Fatalf("missing resume: want=%d got=%d", http.StatusNotFound, w.Code)
	}
}

func TestSetMatch(t *testing.T) {
	apps := &fakeAppService{}
	r := newEngine()
	r.PUT("/apps/:id/match", NewMatcherHandler(apps).SetMatch)

	id := uuid.New()
	if w := doJSON(r, http.MethodPut, "/apps/"+id.String()+"/match", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing pct: want=%d got=%d", http.StatusBadRequest, w.Code)
	}
	if w := doJSON(r, http.MethodPut, "/apps/"+id.String()+"/match", `{"match_percentage":87.5}`); w.Code != http.StatusOK {
		t.Fatalf("set: want=%d got=%d", http.StatusOK, w.Code)
	}
	if apps.matchID != id || apps.matchPct != 87.5 {
		t.Fatalf("forwarded: got=%s %v", apps.matchID, apps.matchPct)
	}
}

func TestListUnscored(t *testing.T) {
	apps := &fakeAppService{}
	r := newEngine()
	r.GET("/unscored", NewMatcherHandler(apps).ListUnscored)

	w := doJSON(r, http.MethodGet, "/unscored", "")
	if w.Code != http.StatusOK {
		t.Fatalf("default limit: want=%d got=%d", http.StatusOK, w.Code)
	}
	if apps.limit != defaultUnscoredLimit {
		t.Fatalf("limit: want=%d got=%d", defaultUnscoredLimit, apps.limit)
	}
	var body struct {
		Applications []json.RawMessage `json:"applications"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || len(body.Applications) != 1 {
		t.Fatalf("body: got=%s err=%v", w.Body.String(), err)
	}

	if w := doJSON(r, http.MethodGet, "/unscored?limit=5", ""); w.Code != http.StatusOK || apps.limit != 5 {
		t.Fatalf("explicit limit: code=%d limit=%d", w.Code, apps.limit)
	}
	if w := doJSON(r, http.MethodGet, "/unscored?limit=zero", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad limit: want=%d got=%d", http.StatusBadRequest, w.Code)
	}
}
