package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/hirebridge-backend/internal/data/repos/auth"
	"github.com/yungbote/hirebridge-backend/internal/data/repos/candidate"
	"github.com/yungbote/hirebridge-backend/internal/data/repos/jobs"
	"github.com/yungbote/hirebridge-backend/internal/data/repos/user"
	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo
type CandidateProfileRepo = candidate.ProfileRepo
type JobRepo = jobs.JobRepo
type ApplicationRepo = jobs.ApplicationRepo

var ErrDuplicateApplication = jobs.ErrDuplicate

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }
func NewUserTokenRepo(db *gorm.DB, log *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, log)
}
func NewCandidateProfileRepo(db *gorm.DB, log *logger.Logger) CandidateProfileRepo {
	return candidate.NewProfileRepo(db, log)
}
func NewJobRepo(db *gorm.DB, log *logger.Logger) JobRepo { return jobs.NewJobRepo(db, log) }
func NewApplicationRepo(db *gorm.DB, log *logger.Logger) ApplicationRepo {
	return jobs.NewApplicationRepo(db, log)
}
