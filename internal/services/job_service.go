package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/hirebridge-backend/internal/data/repos"
	types "github.com/yungbote/hirebridge-backend/internal/domain"
	"github.com/yungbote/hirebridge-backend/internal/platform/ctxutil"
	"github.com/yungbote/hirebridge-backend/internal/platform/dbctx"
	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
)

const jobDateLayout = "2006-01-02"

type JobInput struct {
	Position        string `json:"position"`
	Description     string `json:"description"`
	Company         string `json:"company"`
	Location        string `json:"location"`
	Salary          string `json:"salary"`
	LastDateToApply string `json:"last_date_to_apply"`
	Requirements    string `json:"requirements"`
}

type JobService interface {
	CreateJob(ctx context.Context, s *ctxutil.Session, in JobInput) (*types.Job, error)
	ListMyJobs(ctx context.Context, s *ctxutil.Session) ([]*types.Job, error)
	SetJobActive(ctx context.Context, s *ctxutil.Session, jobID uuid.UUID, active bool) (*types.Job, error)
	ListActiveJobs(ctx context.Context, s *ctxutil.Session) ([]*types.Job, error)
}

type jobService struct {
	log     *logger.Logger
	jobRepo repos.JobRepo
}

func NewJobService(log *logger.Logger, jobRepo repos.JobRepo) JobService {
	return &jobService{log: log.With("service", "JobService"), jobRepo: jobRepo}
}

func (js *jobService) CreateJob(ctx context.Context, s *ctxutil.Session, in JobInput) (*types.Job, error) {
	if err := requireHR(s); err != nil {
		return nil, err
	}
	job := &types.Job{
		Position:     strings.TrimSpace(in.Position),
		Description:  strings.TrimSpace(in.Description),
		Company:      strings.TrimSpace(in.Company),
		Location:     strings.TrimSpace(in.Location),
		Salary:       strings.TrimSpace(in.Salary),
		Requirements: strings.TrimSpace(in.Requirements),
		HRUserID:     s.UserID,
		IsActive:     true,
	}
	for _, f := range []struct{ name, value string }{
		{"position", job.Position},
		{"description", job.Description},
		{"company", job.Company},
		{"location", job.Location},
	} {
		if f.value == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingParameter, f.name)
		}
	}
	if raw := strings.TrimSpace(in.LastDateToApply); raw != "" {
		d, err := time.Parse(jobDateLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: last_date_to_apply must be YYYY-MM-DD", ErrInvalidRequest)
		}
		job.LastDateToApply = &d
	}
	if err := js.jobRepo.Create(dbctx.Context{Ctx: ctx}, job); err != nil {
		return nil, backendErr("create job", err)
	}
	js.log.Info("job created", "job_id", job.ID, "hr_user_id", s.UserID)
	return job, nil
}

func (js *jobService) ListMyJobs(ctx context.Context, s *ctxutil.Session) ([]*types.Job, error) {
	if err := requireHR(s); err != nil {
		return nil, err
	}
	jobs, err := js.jobRepo.ListByHRUser(dbctx.Context{Ctx: ctx}, s.UserID)
	if err != nil {
		return nil, backendErr("list jobs", err)
	}
	return jobs, nil
}

func (js *jobService) SetJobActive(ctx context.Context, s *ctxutil.Session, jobID uuid.UUID, active bool) (*types.Job, error) {
	if err := requireHR(s); err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	job, err := js.jobRepo.GetByID(dbc, jobID)
	if err != nil {
		return nil, backendErr("load job", err)
	}
	if job == nil {
		return nil, fmt.Errorf("%w: job %s", ErrNotFound, jobID)
	}
	if job.HRUserID != s.UserID {
		return nil, fmt.Errorf("%w: job belongs to another user", ErrForbidden)
	}
	if err := js.jobRepo.SetActive(dbc, jobID, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: job %s", ErrNotFound, jobID)
		}
		return nil, backendErr("update job", err)
	}
	job.IsActive = active
	return job, nil
}

func (js *jobService) ListActiveJobs(ctx context.Context, s *ctxutil.Session) ([]*types.Job, error) {
	if err := requireCandidate(s); err != nil {
		return nil, err
	}
	jobs, err := js.jobRepo.ListActive(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, backendErr("list active jobs", err)
	}
	return jobs, nil
}
