package jobs

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicate reports a (candidate, job) pair that already has an application.
var ErrDuplicate = errors.New("application already exists for candidate and job")

const applicationUniqueIndex = "idx_job_applications_candidate_job"

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "sqlstate 23505") ||
		strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, applicationUniqueIndex)
}
