package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/hirebridge-backend/internal/http/response"
	"github.com/yungbote/hirebridge-backend/internal/services"
)

const defaultUnscoredLimit = 100

// MatcherHandler is the intake for the external scoring process.
type MatcherHandler struct {
	appService services.ApplicationService
}

func NewMatcherHandler(appService services.ApplicationService) *MatcherHandler {
	return &MatcherHandler{appService: appService}
}

// GET /internal/applications/unscored?limit=
func (mh *MatcherHandler) ListUnscored(c *gin.Context) {
	limit := defaultUnscoredLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.RespondServiceError(c, fmt.Errorf("%w: limit", services.ErrInvalidRequest))
			return
		}
		limit = n
	}
	apps, err := mh.appService.ListUnscored(c.Request.Context(), limit)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"applications": apps})
}

// PUT /internal/applications/:id/match
func (mh *MatcherHandler) SetMatch(c *gin.Context) {
	appID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	var req struct {
		MatchPercentage *float64 `json:"match_percentage"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondServiceError(c, bindErr(err))
		return
	}
	if req.MatchPercentage == nil {
		response.RespondServiceError(c, fmt.Errorf("%w: match_percentage", services.ErrMissingParameter))
		return
	}
	if err := mh.appService.SetMatchPercentage(c.Request.Context(), appID, *req.MatchPercentage); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
