package handlers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/hirebridge-backend/internal/platform/ctxutil"
	"github.com/yungbote/hirebridge-backend/internal/services"
)

func session(c *gin.Context) *ctxutil.Session {
	return ctxutil.GetSession(c.Request.Context())
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.Param(name))
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%w: %s", services.ErrMissingParameter, name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s is not a valid id", services.ErrInvalidRequest, name)
	}
	return id, nil
}

func bindErr(err error) error {
	return fmt.Errorf("%w: %v", services.ErrInvalidRequest, err)
}
