package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/hirebridge-backend/internal/platform/apierr"
)

// ErrorCodeKey is the gin context key holding the machine code of the error
// a handler answered with. The request logger reads it.
const ErrorCodeKey = "hb.error_code"

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func envelope(code string, err error) ErrorEnvelope {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return ErrorEnvelope{Error: APIError{Message: msg, Code: code}}
}

func RespondError(c *gin.Context, status int, code string, err error) {
	if code != "" {
		c.Set(ErrorCodeKey, code)
	}
	c.JSON(status, envelope(code, err))
}

// Abort writes the error envelope and stops the handler chain.
func Abort(c *gin.Context, status int, code string, err error) {
	if code != "" {
		c.Set(ErrorCodeKey, code)
	}
	c.AbortWithStatusJSON(status, envelope(code, err))
}

// RespondServiceError renders any service-layer error with its mapped status.
func RespondServiceError(c *gin.Context, err error) {
	ae := FromService(err)
	if ae == nil {
		ae = apierr.New(http.StatusInternalServerError, "backend_failure", nil)
	}
	RespondError(c, ae.Status, ae.Code, ae.Err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
