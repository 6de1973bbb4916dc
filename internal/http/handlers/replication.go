package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/hirebridge-backend/internal/http/response"
	"github.com/yungbote/hirebridge-backend/internal/platform/httpx"
	"github.com/yungbote/hirebridge-backend/internal/services"
)

type ReplicationHandler struct {
	appService services.ApplicationService
}

func NewReplicationHandler(appService services.ApplicationService) *ReplicationHandler {
	return &ReplicationHandler{appService: appService}
}

// POST /api/resume/download
// body: { "resumeUrl": "...", "candidateName": "...", "jobId": "..." }
// resumeUrl must be the caller's current resume; the stored name comes from
// the caller's profile.
func (rh *ReplicationHandler) Download(c *gin.Context) {
	var req services.ReplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rh.fail(c, services.ErrMissingParameter)
		return
	}
	storedPath, err := rh.appService.ReplicateForCandidate(c.Request.Context(), session(c), req)
	if err != nil {
		rh.fail(c, err)
		return
	}
	response.RespondOK(c, services.ReplicationResponse{Success: true, StoredPath: storedPath})
}

func (rh *ReplicationHandler) fail(c *gin.Context, err error) {
	ae := response.FromService(err)
	c.Set(response.ErrorCodeKey, ae.Code)
	c.JSON(ae.Status, services.ReplicationResponse{
		Success:   false,
		Error:     ae.Error(),
		Code:      ae.Code,
		Retryable: httpx.IsRetryableError(err),
	})
}
