package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/hirebridge-backend/internal/http/response"
	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
	"github.com/yungbote/hirebridge-backend/internal/platform/objectstore"
	"github.com/yungbote/hirebridge-backend/internal/services"
)

type HRHandler struct {
	log        *logger.Logger
	jobService services.JobService
	appService services.ApplicationService
}

func NewHRHandler(log *logger.Logger, jobService services.JobService, appService services.ApplicationService) *HRHandler {
	return &HRHandler{log: log.With("handler", "HRHandler"), jobService: jobService, appService: appService}
}

// POST /api/hr/jobs
func (hh *HRHandler) CreateJob(c *gin.Context) {
	var req services.JobInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondServiceError(c, bindErr(err))
		return
	}
	job, err := hh.jobService.CreateJob(c.Request.Context(), session(c), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"job": job})
}

// GET /api/hr/jobs
func (hh *HRHandler) ListJobs(c *gin.Context) {
	jobs, err := hh.jobService.ListMyJobs(c.Request.Context(), session(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"jobs": jobs})
}

// PATCH /api/hr/jobs/:id/active
// body: { "is_active": false }
func (hh *HRHandler) SetJobActive(c *gin.Context) {
	jobID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondServiceError(c, bindErr(err))
		return
	}
	if req.IsActive == nil {
		response.RespondServiceError(c, fmt.Errorf("%w: is_active", services.ErrMissingParameter))
		return
	}
	job, err := hh.jobService.SetJobActive(c.Request.Context(), session(c), jobID, *req.IsActive)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"job": job})
}

// GET /api/hr/jobs/:id/applications
func (hh *HRHandler) ListApplications(c *gin.Context) {
	jobID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	apps, err := hh.appService.ListApplicantsForJob(c.Request.Context(), session(c), jobID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"applications": apps})
}

// PATCH /api/hr/applications/:id/status
func (hh *HRHandler) UpdateApplicationStatus(c *gin.Context) {
	appID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondServiceError(c, bindErr(err))
		return
	}
	app, err := hh.appService.UpdateStatus(c.Request.Context(), session(c), appID, req.Status)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"application": app})
}

// GET /api/hr/applications/:id/resume
func (hh *HRHandler) DownloadResume(c *gin.Context) {
	appID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	rc, name, err := hh.appService.OpenResume(c.Request.Context(), session(c), appID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", objectstore.ContentTypeForKey(name))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		hh.log.Warn("resume stream interrupted", "application_id", appID, "error", err)
	}
}
