package handlers

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/hirebridge-backend/internal/http/response"
	"github.com/yungbote/hirebridge-backend/internal/services"
)

type CandidateHandler struct {
	profileService services.ProfileService
	jobService     services.JobService
	appService     services.ApplicationService
}

func NewCandidateHandler(profileService services.ProfileService, jobService services.JobService, appService services.ApplicationService) *CandidateHandler {
	return &CandidateHandler{profileService: profileService, jobService: jobService, appService: appService}
}

// GET /api/candidate/profile
func (ch *CandidateHandler) GetProfile(c *gin.Context) {
	p, err := ch.profileService.GetProfile(c.Request.Context(), session(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": p})
}

// PUT /api/candidate/profile
func (ch *CandidateHandler) SaveProfile(c *gin.Context) {
	var req services.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondServiceError(c, bindErr(err))
		return
	}
	p, err := ch.profileService.SaveProfile(c.Request.Context(), session(c), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": p})
}

// POST /api/candidate/resume (multipart field "file")
func (ch *CandidateHandler) UploadResume(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.RespondServiceError(c, fmt.Errorf("%w: file", services.ErrMissingParameter))
		return
	}
	up := services.ResumeUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
	}
	// Oversized files are rejected by the service without reading them.
	if fh.Size <= services.MaxResumeBytes {
		f, err := fh.Open()
		if err != nil {
			response.RespondServiceError(c, fmt.Errorf("%w: %v", services.ErrInvalidRequest, err))
			return
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, services.MaxResumeBytes+1))
		if err != nil {
			response.RespondServiceError(c, fmt.Errorf("%w: %v", services.ErrInvalidRequest, err))
			return
		}
		up.Data = data
	}
	p, err := ch.profileService.UploadResume(c.Request.Context(), session(c), up)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": p})
}

// GET /api/candidate/jobs
func (ch *CandidateHandler) ListJobs(c *gin.Context) {
	jobs, err := ch.jobService.ListActiveJobs(c.Request.Context(), session(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"jobs": jobs})
}

// GET /api/candidate/applications/job-ids
func (ch *CandidateHandler) AppliedJobIDs(c *gin.Context) {
	ids, err := ch.appService.ListAppliedJobIDs(c.Request.Context(), session(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"job_ids": ids})
}

// POST /api/candidate/jobs/:id/apply
func (ch *CandidateHandler) Apply(c *gin.Context) {
	jobID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	var req struct {
		CoverLetter string `json:"cover_letter"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondServiceError(c, bindErr(err))
		return
	}
	res, err := ch.appService.Submit(c.Request.Context(), session(c), services.SubmitInput{
		JobID:       jobID,
		CoverLetter: strings.TrimSpace(req.CoverLetter),
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{
		"success":     true,
		"application": res.Application,
		"storedPath":  res.StoredPath,
	})
}
