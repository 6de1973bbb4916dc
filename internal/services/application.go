package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/hirebridge-backend/internal/data/repos"
	types "github.com/yungbote/hirebridge-backend/internal/domain"
	"github.com/yungbote/hirebridge-backend/internal/observability"
	"github.com/yungbote/hirebridge-backend/internal/platform/ctxutil"
	"github.com/yungbote/hirebridge-backend/internal/platform/dbctx"
	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
	"github.com/yungbote/hirebridge-backend/internal/platform/objectstore"
)

type SubmitInput struct {
	JobID       uuid.UUID
	CoverLetter string
}

type SubmitResult struct {
	Application *types.Application
	StoredPath  string
}

type ApplicantCandidate struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// Applicant is an application as shown to the posting's owner.
type Applicant struct {
	types.Application
	MatchPercentage float64            `json:"match_percentage"`
	Candidate       ApplicantCandidate `json:"candidate"`
}

type ApplicationService interface {
	Submit(ctx context.Context, s *ctxutil.Session, in SubmitInput) (*SubmitResult, error)
	ListAppliedJobIDs(ctx context.Context, s *ctxutil.Session) ([]uuid.UUID, error)
	ListApplicantsForJob(ctx context.Context, s *ctxutil.Session, jobID uuid.UUID) ([]*Applicant, error)
	UpdateStatus(ctx context.Context, s *ctxutil.Session, applicationID uuid.UUID, status string) (*types.Application, error)
	// OpenResume streams the resume the application references. The caller
	// closes the reader.
	OpenResume(ctx context.Context, s *ctxutil.Session, applicationID uuid.UUID) (io.ReadCloser, string, error)
	// ReplicateForCandidate runs the replication step for the caller's own
	// current resume. The resume and name always come from the caller's
	// profile; only the job id is taken from req.
	ReplicateForCandidate(ctx context.Context, s *ctxutil.Session, req ReplicationRequest) (string, error)

	ListUnscored(ctx context.Context, limit int) ([]*types.Application, error)
	SetMatchPercentage(ctx context.Context, applicationID uuid.UUID, pct float64) error
}

type applicationService struct {
	log         *logger.Logger
	jobRepo     repos.JobRepo
	appRepo     repos.ApplicationRepo
	profileRepo repos.CandidateProfileRepo
	userRepo    repos.UserRepo
	replicator  Replicator
	bucket      objectstore.BucketService
	guard       SubmissionGuard
	metrics     *observability.Metrics
	now         func() time.Time
}

func NewApplicationService(
	log *logger.Logger,
	jobRepo repos.JobRepo,
	appRepo repos.ApplicationRepo,
	profileRepo repos.CandidateProfileRepo,
	userRepo repos.UserRepo,
	replicator Replicator,
	bucket objectstore.BucketService,
	guard SubmissionGuard,
	metrics *observability.Metrics,
) ApplicationService {
	if guard == nil {
		guard = NewMemorySubmissionGuard(0)
	}
	return &applicationService{
		log:         log.With("service", "ApplicationService"),
		jobRepo:     jobRepo,
		appRepo:     appRepo,
		profileRepo: profileRepo,
		userRepo:    userRepo,
		replicator:  replicator,
		bucket:      bucket,
		guard:       guard,
		metrics:     metrics,
		now:         time.Now,
	}
}

func requireCandidate(s *ctxutil.Session) error {
	if s == nil || s.UserID == uuid.Nil {
		return ErrUnauthenticated
	}
	if !s.IsCandidate() {
		return fmt.Errorf("%w: candidate role required", ErrForbidden)
	}
	return nil
}

func requireHR(s *ctxutil.Session) error {
	if s == nil || s.UserID == uuid.Nil {
		return ErrUnauthenticated
	}
	if !s.IsHR() {
		return fmt.Errorf("%w: hr role required", ErrForbidden)
	}
	return nil
}

func backendErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrBackendFailure, op, err)
}

func (as *applicationService) Submit(ctx context.Context, s *ctxutil.Session, in SubmitInput) (*SubmitResult, error) {
	res, err := as.submit(ctx, s, in)
	if err != nil {
		as.metrics.IncSubmission(ErrorCode(err))
		return nil, err
	}
	as.metrics.IncSubmission("ok")
	return res, nil
}

func (as *applicationService) submit(ctx context.Context, s *ctxutil.Session, in SubmitInput) (*SubmitResult, error) {
	if err := requireCandidate(s); err != nil {
		return nil, err
	}
	if in.JobID == uuid.Nil {
		return nil, fmt.Errorf("%w: job id", ErrMissingParameter)
	}
	dbc := dbctx.Context{Ctx: ctx}

	job, err := as.jobRepo.GetByID(dbc, in.JobID)
	if err != nil {
		return nil, backendErr("load job", err)
	}
	if job == nil {
		return nil, fmt.Errorf("%w: job %s", ErrNotFound, in.JobID)
	}
	if !job.IsActive {
		return nil, ErrJobInactive
	}

	existing, err := as.appRepo.GetByCandidateAndJob(dbc, s.UserID, job.ID)
	if err != nil {
		return nil, backendErr("check existing application", err)
	}
	if existing != nil {
		return nil, ErrDuplicateApplication
	}

	release, ok := as.guard.Acquire(ctx, s.UserID, job.ID)
	defer release()
	if !ok {
		return nil, fmt.Errorf("%w: submission already in progress", ErrDuplicateApplication)
	}

	profile, err := as.profileRepo.GetByUserID(dbc, s.UserID)
	if err != nil {
		return nil, backendErr("load profile", err)
	}
	if !profile.HasResume() {
		return nil, ErrResumeRequired
	}
	resumeURL := strings.TrimSpace(*profile.ResumeURL)

	storedPath, err := as.replicator.Replicate(ctx, ReplicationRequest{
		ResumeURL:     resumeURL,
		CandidateName: displayName(profile, s),
		JobID:         job.ID.String(),
		BearerToken:   s.AccessToken,
	})
	if err != nil {
		return nil, err
	}

	app := &types.Application{
		JobID:           job.ID,
		CandidateID:     s.UserID,
		Status:          types.ApplicationStatusApplied,
		Skills:          profile.Skills,
		ExperienceYears: profile.ExperienceYears,
		ResumeURL:       resumeURL,
		ReplicaPath:     storedPath,
		AppliedAt:       as.now().UTC(),
	}
	if cl := strings.TrimSpace(in.CoverLetter); cl != "" {
		app.CoverLetter = &cl
	}
	if err := as.appRepo.Create(dbc, app); err != nil {
		if errors.Is(err, repos.ErrDuplicateApplication) {
			// The replica path is shared with the existing application.
			return nil, fmt.Errorf("%w: %w", ErrDuplicateApplication, err)
		}
		as.compensate(ctx, storedPath)
		return nil, backendErr("create application", err)
	}

	as.log.Info("application submitted", "candidate_id", s.UserID, "job_id", job.ID, "application_id", app.ID)
	return &SubmitResult{Application: app, StoredPath: storedPath}, nil
}

func displayName(p *types.CandidateProfile, s *ctxutil.Session) string {
	if p != nil {
		if n := strings.TrimSpace(p.FullName); n != "" {
			return n
		}
	}
	if e := strings.TrimSpace(s.Email); e != "" {
		return e
	}
	return "Unknown"
}

// compensate removes a replica written for a failed insert, unless another
// application already points at the same object.
func (as *applicationService) compensate(ctx context.Context, storedPath string) {
	discarder, ok := as.replicator.(ReplicaDiscarder)
	if !ok || storedPath == "" {
		as.log.Warn("replica left in place after failed insert", "path", storedPath)
		return
	}
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	n, err := as.appRepo.CountByReplicaPath(dbctx.Context{Ctx: cctx}, storedPath)
	if err != nil {
		as.log.Warn("replica compensation skipped", "path", storedPath, "error", err)
		return
	}
	if n > 0 {
		as.log.Info("replica shared with another application, keeping it", "path", storedPath, "references", n)
		return
	}
	if err := discarder.Discard(cctx, storedPath); err != nil {
		as.log.Warn("replica compensation failed", "path", storedPath, "error", err)
		return
	}
	as.log.Info("replica removed after failed insert", "path", storedPath)
}

func (as *applicationService) ListAppliedJobIDs(ctx context.Context, s *ctxutil.Session) ([]uuid.UUID, error) {
	if err := requireCandidate(s); err != nil {
		return nil, err
	}
	ids, err := as.appRepo.ListJobIDsByCandidate(dbctx.Context{Ctx: ctx}, s.UserID)
	if err != nil {
		return nil, backendErr("list applied jobs", err)
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return ids, nil
}

// ownedJob loads a job and checks the session owns it.
func (as *applicationService) ownedJob(dbc dbctx.Context, s *ctxutil.Session, jobID uuid.UUID) (*types.Job, error) {
	job, err := as.jobRepo.GetByID(dbc, jobID)
	if err != nil {
		return nil, backendErr("load job", err)
	}
	if job == nil {
		return nil, fmt.Errorf("%w: job %s", ErrNotFound, jobID)
	}
	if job.HRUserID != s.UserID {
		return nil, fmt.Errorf("%w: job belongs to another user", ErrForbidden)
	}
	return job, nil
}

func (as *applicationService) ownedApplication(dbc dbctx.Context, s *ctxutil.Session, applicationID uuid.UUID) (*types.Application, error) {
	app, err := as.appRepo.GetByID(dbc, applicationID)
	if err != nil {
		return nil, backendErr("load application", err)
	}
	if app == nil {
		return nil, fmt.Errorf("%w: application %s", ErrNotFound, applicationID)
	}
	if _, err := as.ownedJob(dbc, s, app.JobID); err != nil {
		return nil, err
	}
	return app, nil
}

func (as *applicationService) ListApplicantsForJob(ctx context.Context, s *ctxutil.Session, jobID uuid.UUID) ([]*Applicant, error) {
	if err := requireHR(s); err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := as.ownedJob(dbc, s, jobID); err != nil {
		return nil, err
	}
	apps, err := as.appRepo.ListByJob(dbc, jobID)
	if err != nil {
		return nil, backendErr("list applications", err)
	}

	candidateIDs := make([]uuid.UUID, 0, len(apps))
	for _, a := range apps {
		candidateIDs = append(candidateIDs, a.CandidateID)
	}
	users := map[uuid.UUID]*types.User{}
	if len(candidateIDs) > 0 {
		found, err := as.userRepo.GetByIDs(dbc, candidateIDs)
		if err != nil {
			return nil, backendErr("load candidates", err)
		}
		for _, u := range found {
			users[u.ID] = u
		}
	}

	out := make([]*Applicant, 0, len(apps))
	for _, a := range apps {
		item := &Applicant{
			Application: *a,
			Candidate:   ApplicantCandidate{FullName: "N/A", Email: "N/A"},
		}
		if a.MatchPercentage != nil {
			item.MatchPercentage = *a.MatchPercentage
		}
		if u := users[a.CandidateID]; u != nil {
			if n := strings.TrimSpace(u.FullName); n != "" {
				item.Candidate.FullName = n
			}
			if e := strings.TrimSpace(u.Email); e != "" {
				item.Candidate.Email = e
			}
		}
		out = append(out, item)
	}
	return out, nil
}

func (as *applicationService) UpdateStatus(ctx context.Context, s *ctxutil.Session, applicationID uuid.UUID, status string) (*types.Application, error) {
	if err := requireHR(s); err != nil {
		return nil, err
	}
	status = strings.ToLower(strings.TrimSpace(status))
	if !types.ValidApplicationStatus(status) {
		return nil, fmt.Errorf("%w: status %q", ErrInvalidRequest, status)
	}
	dbc := dbctx.Context{Ctx: ctx}
	app, err := as.ownedApplication(dbc, s, applicationID)
	if err != nil {
		return nil, err
	}
	if err := as.appRepo.UpdateStatus(dbc, app.ID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: application %s", ErrNotFound, applicationID)
		}
		return nil, backendErr("update status", err)
	}
	app.Status = status
	return app, nil
}

// resumeObjectKey maps an application's resume reference to its object key.
// Keys are always confined to the candidate's own prefix.
func resumeObjectKey(app *types.Application) string {
	seg := objectstore.LastSegment(app.ResumeURL)
	if seg == "" || seg == "." || seg == ".." {
		return ""
	}
	return app.CandidateID.String() + "/" + seg
}

func (as *applicationService) OpenResume(ctx context.Context, s *ctxutil.Session, applicationID uuid.UUID) (io.ReadCloser, string, error) {
	if err := requireHR(s); err != nil {
		return nil, "", err
	}
	app, err := as.ownedApplication(dbctx.Context{Ctx: ctx}, s, applicationID)
	if err != nil {
		return nil, "", err
	}
	key := resumeObjectKey(app)
	if key == "" || as.bucket == nil {
		return nil, "", fmt.Errorf("%w: application has no resume", ErrNotFound)
	}
	rc, err := as.bucket.DownloadFile(ctx, objectstore.CategoryResume, key)
	if err != nil {
		if errors.Is(err, objectstore.ErrObjectNotFound) {
			return nil, "", fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, "", backendErr("download resume", err)
	}
	return rc, path.Base(key), nil
}

func (as *applicationService) ReplicateForCandidate(ctx context.Context, s *ctxutil.Session, req ReplicationRequest) (string, error) {
	if err := requireCandidate(s); err != nil {
		return "", err
	}
	if err := validateReplicationRequest(req); err != nil {
		return "", err
	}
	jobID, err := uuid.Parse(strings.TrimSpace(req.JobID))
	if err != nil {
		return "", fmt.Errorf("%w: jobId must be a job id", ErrInvalidRequest)
	}
	dbc := dbctx.Context{Ctx: ctx}
	job, err := as.jobRepo.GetByID(dbc, jobID)
	if err != nil {
		return "", backendErr("load job", err)
	}
	if job == nil {
		return "", fmt.Errorf("%w: job %s", ErrNotFound, jobID)
	}
	profile, err := as.profileRepo.GetByUserID(dbc, s.UserID)
	if err != nil {
		return "", backendErr("load profile", err)
	}
	if !profile.HasResume() {
		return "", ErrResumeRequired
	}
	resumeURL := strings.TrimSpace(*profile.ResumeURL)
	if strings.TrimSpace(req.ResumeURL) != resumeURL {
		return "", fmt.Errorf("%w: resumeUrl is not the caller's current resume", ErrForbidden)
	}
	return as.replicator.Replicate(ctx, ReplicationRequest{
		ResumeURL:     resumeURL,
		CandidateName: displayName(profile, s),
		JobID:         job.ID.String(),
		BearerToken:   s.AccessToken,
	})
}

func (as *applicationService) ListUnscored(ctx context.Context, limit int) ([]*types.Application, error) {
	apps, err := as.appRepo.ListUnscored(dbctx.Context{Ctx: ctx}, limit)
	if err != nil {
		return nil, backendErr("list unscored", err)
	}
	return apps, nil
}

func (as *applicationService) SetMatchPercentage(ctx context.Context, applicationID uuid.UUID, pct float64) error {
	if pct < 0 || pct > 100 {
		return fmt.Errorf("%w: match_percentage must be within 0..100", ErrInvalidRequest)
	}
	if err := as.appRepo.SetMatchPercentage(dbctx.Context{Ctx: ctx}, applicationID, pct); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: application %s", ErrNotFound, applicationID)
		}
		return backendErr("set match percentage", err)
	}
	return nil
}
