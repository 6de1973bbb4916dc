package services

import (
	"errors"
)

var (
	ErrMissingParameter     = errors.New("missing parameter")
	ErrSourceFetchFailed    = errors.New("failed to fetch resume")
	ErrStorageWriteFailed   = errors.New("failed to store file")
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrDuplicateApplication = errors.New("already applied to this job")
	ErrResumeRequired       = errors.New("upload a resume before applying")
	ErrUnsupportedType      = errors.New("unsupported file type")
	ErrFileTooLarge         = errors.New("file too large")
	ErrBackendFailure       = errors.New("backend failure")
	ErrForbidden            = errors.New("forbidden")
	ErrNotFound             = errors.New("not found")
	ErrJobInactive          = errors.New("job is no longer accepting applications")
	ErrInvalidRequest       = errors.New("invalid request")
	ErrInvalidCredentials   = errors.New("invalid email or password")
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrMissingParameter, "missing_parameter"},
	{ErrInvalidRequest, "invalid_request"},
	{ErrUnsupportedType, "unsupported_type"},
	{ErrFileTooLarge, "file_too_large"},
	{ErrUnauthenticated, "unauthenticated"},
	{ErrInvalidCredentials, "invalid_credentials"},
	{ErrForbidden, "forbidden"},
	{ErrNotFound, "not_found"},
	{ErrDuplicateApplication, "duplicate_application"},
	{ErrResumeRequired, "resume_required"},
	{ErrJobInactive, "job_inactive"},
	{ErrSourceFetchFailed, "source_fetch_failed"},
	{ErrStorageWriteFailed, "storage_write_failed"},
	{ErrBackendFailure, "backend_failure"},
}

// ErrorCode returns the machine code for the first taxonomy error in err's
// chain. Errors outside the taxonomy report "backend_failure".
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return "backend_failure"
}

// ErrorForCode is the inverse of ErrorCode; unknown codes yield nil.
func ErrorForCode(code string) error {
	for _, ec := range errorCodes {
		if ec.code == code {
			return ec.err
		}
	}
	return nil
}
