package response

import (
	"errors"
	"net/http"

	"github.com/yungbote/hirebridge-backend/internal/platform/apierr"
	"github.com/yungbote/hirebridge-backend/internal/services"
)

var statusByCode = map[string]int{
	"missing_parameter":     http.StatusBadRequest,
	"invalid_request":       http.StatusBadRequest,
	"unsupported_type":      http.StatusUnsupportedMediaType,
	"file_too_large":        http.StatusRequestEntityTooLarge,
	"unauthenticated":       http.StatusUnauthorized,
	"invalid_credentials":   http.StatusUnauthorized,
	"forbidden":             http.StatusForbidden,
	"not_found":             http.StatusNotFound,
	"duplicate_application": http.StatusConflict,
	"resume_required":       http.StatusUnprocessableEntity,
	"job_inactive":          http.StatusUnprocessableEntity,
	"source_fetch_failed":   http.StatusBadGateway,
	"storage_write_failed":  http.StatusInternalServerError,
	"backend_failure":       http.StatusInternalServerError,
}

// FromService maps a service error onto its HTTP status and machine code.
// Server-side failures keep only the sentinel text so internals never reach
// the client.
func FromService(err error) *apierr.Error {
	if err == nil {
		return nil
	}
	var ae *apierr.Error
	if errors.As(err, &ae) && ae != nil {
		return ae
	}
	code := services.ErrorCode(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		if sentinel := services.ErrorForCode(code); sentinel != nil {
			return apierr.New(status, code, sentinel)
		}
	}
	return apierr.New(status, code, err)
}
